package customers

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

// Handler exposes customer account endpoints.
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

// MountRoutes registers customer routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.ResourceCustomer, rbac.ActionList)).Get("/", h.list)
	r.With(h.rbac.Require(rbac.ResourceCustomer, rbac.ActionCreate)).Post("/", h.create)
	r.With(h.rbac.Require(rbac.ResourceCustomer, rbac.ActionRead)).Get("/{id}", h.get)
	r.With(h.rbac.Require(rbac.ResourceCustomer, rbac.ActionUpdate)).Patch("/{id}", h.update)
	r.With(h.rbac.Require(rbac.ResourceCustomer, rbac.ActionDelete)).Delete("/{id}", h.delete)
}

type createRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"omitempty"`
	Address     string `json:"address" validate:"required"`
	Zone        string `json:"zone" validate:"required"`
	MeterNumber string `json:"meter_number" validate:"required"`
}

type updateRequest struct {
	Name        string `json:"name" validate:"omitempty"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"omitempty"`
	Address     string `json:"address" validate:"omitempty"`
	Zone        string `json:"zone" validate:"omitempty"`
	MeterNumber string `json:"meter_number" validate:"omitempty"`
	Status      string `json:"status" validate:"omitempty"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	p := rbac.PrincipalFromContext(r.Context())
	page, limit := shared.PageParams(r)
	f := ListFilter{
		Zone:   r.URL.Query().Get("zone"),
		Status: r.URL.Query().Get("status"),
		Page:   page,
		Limit:  limit,
	}
	items, total, err := h.service.List(r.Context(), p, f)
	if err != nil {
		h.fail(w, r, "list customers", err)
		return
	}
	if items == nil {
		items = []Customer{}
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{
		"customers":  items,
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
	c, err := h.service.Get(r.Context(), p, id)
	if err != nil {
		h.fail(w, r, "get customer", err)
		return
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{"customer": c})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	p := rbac.PrincipalFromContext(r.Context())
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, validate.Error(err))
		return
	}
	c, err := h.service.Create(r.Context(), p, CreateInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Zone:        req.Zone,
		MeterNumber: req.MeterNumber,
	})
	if err != nil {
		h.fail(w, r, "create customer", err)
		return
	}
	httpx.Envelope(w, http.StatusCreated, map[string]any{"customer": c})
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
	c, err := h.service.Update(r.Context(), p, id, UpdateInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Zone:        req.Zone,
		MeterNumber: req.MeterNumber,
		Status:      req.Status,
	})
	if err != nil {
		h.fail(w, r, "update customer", err)
		return
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{"customer": c})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	p := rbac.PrincipalFromContext(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "id is invalid")
		return
	}
	if err := h.service.Delete(r.Context(), p, id); err != nil {
		h.fail(w, r, "delete customer", err)
		return
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{"deleted": true})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if h.logger != nil {
		h.logger.Error(op, slog.Any("error", err), slog.String("path", r.URL.Path))
	}
	httpx.RespondError(w, err)
}
