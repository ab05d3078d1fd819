package users

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/aquacore/aquacore/internal/platform/httpx"
	"github.com/aquacore/aquacore/internal/platform/validate"
	"github.com/aquacore/aquacore/internal/rbac"
	"github.com/aquacore/aquacore/internal/shared"
)

// Handler exposes account administration endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: mw, validator: validate.New()}
}

// MountRoutes registers user administration routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.ResourceUser, rbac.ActionList)).Get("/", h.list)
	r.With(h.rbac.Require(rbac.ResourceUser, rbac.ActionRead)).Get("/{id}", h.get)
	r.With(h.rbac.Require(rbac.ResourceUser, rbac.ActionUpdate)).Patch("/{id}", h.update)
}

type updateRequest struct {
	Role   string `json:"role" validate:"omitempty"`
	Active *bool  `json:"active" validate:"omitempty"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	p := rbac.PrincipalFromContext(r.Context())
	page, limit := shared.PageParams(r)
	f := ListFilter{
		Role:  r.URL.Query().Get("role"),
		Page:  page,
		Limit: limit,
	}
	switch r.URL.Query().Get("active") {
	case "true":
		active := true
		f.Active = &active
	case "false":
		active := false
		f.Active = &active
	}
	items, total, err := h.service.List(r.Context(), p, f)
	if err != nil {
		h.fail(w, r, "list users", err)
		return
	}
	if items == nil {
		items = []User{}
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{
		"users":      items,
		"pagination": shared.NewPagination(page, limit, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p := rbac.PrincipalFromContext(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "id is invalid")
		return
	}
	u, err := h.service.Get(r.Context(), p, id)
	if err != nil {
		h.fail(w, r, "get user", err)
		return
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{"user": u})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	p := rbac.PrincipalFromContext(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "id is invalid")
		return
	}
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, validate.Error(err))
		return
	}

	var u *User
	switch {
	case req.Role != "":
		u, err = h.service.UpdateRole(r.Context(), p, id, req.Role)
		if err != nil {
			h.fail(w, r, "update user role", err)
			return
		}
	case req.Active != nil:
		u, err = h.service.SetActive(r.Context(), p, id, *req.Active)
		if err != nil {
			h.fail(w, r, "set user active", err)
			return
		}
	default:
		httpx.Error(w, http.StatusBadRequest, "role or active is required")
		return
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{"user": u})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if h.logger != nil {
		h.logger.Error(op, slog.Any("error", err), slog.String("path", r.URL.Path))
	}
	httpx.RespondError(w, err)
}
