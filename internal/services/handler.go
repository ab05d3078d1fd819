package services

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/aquacore/aquacore/internal/platform/httpx"
	"github.com/aquacore/aquacore/internal/platform/validate"
	"github.com/aquacore/aquacore/internal/rbac"
	"github.com/aquacore/aquacore/internal/shared"
)

// Handler exposes service request endpoints.
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

// MountRoutes registers service request routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.ResourceService, rbac.ActionList)).Get("/", h.list)
	r.With(h.rbac.Require(rbac.ResourceService, rbac.ActionCreate)).Post("/", h.create)
	r.With(h.rbac.Require(rbac.ResourceService, rbac.ActionRead)).Get("/{id}", h.get)
	r.With(h.rbac.Require(rbac.ResourceService, rbac.ActionUpdate)).Patch("/{id}", h.update)
	r.With(h.rbac.Require(rbac.ResourceService, rbac.ActionDelete)).Delete("/{id}", h.delete)
}

type createRequest struct {
	CustomerID  string `json:"customer_id" validate:"required,uuid"`
	Type        string `json:"type" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type updateRequest struct {
	Status        string `json:"status" validate:"omitempty"`
	AssignedTo    string `json:"assigned_to" validate:"omitempty,uuid"`
	ScheduledDate string `json:"scheduled_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	p := rbac.PrincipalFromContext(r.Context())
	page, limit := shared.PageParams(r)
	f := ListFilter{
		Status: r.URL.Query().Get("status"),
		Page:   page,
		Limit:  limit,
	}
	items, total, err := h.service.List(r.Context(), p, f)
	if err != nil {
		h.fail(w, r, "list service requests", err)
		return
	}
	if items == nil {
		items = []ServiceRequest{}
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{
		"services":   items,
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
	sr, err := h.service.Get(r.Context(), p, id)
	if err != nil {
		h.fail(w, r, "get service request", err)
		return
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{"service": sr})
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
	cid, err := uuid.Parse(req.CustomerID)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "customer_id is invalid")
		return
	}

	in := CreateInput{CustomerID: cid, Type: req.Type, Description: req.Description}

	sr, err := h.service.Create(r.Context(), p, in)
	if err != nil {
		h.fail(w, r, "create service request", err)
		return
	}
	httpx.Envelope(w, http.StatusCreated, map[string]any{"service": sr})
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

	var sr *ServiceRequest
	switch {
	case req.AssignedTo != "":
		technicianID, err := uuid.Parse(req.AssignedTo)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "assigned_to is invalid")
			return
		}
		var scheduled *time.Time
		if req.ScheduledDate != "" {
			t, err := time.Parse("2006-01-02", req.ScheduledDate)
			if err != nil {
				httpx.Error(w, http.StatusBadRequest, "scheduled_date is invalid")
				return
			}
			scheduled = &t
		}
		sr, err = h.service.Assign(r.Context(), p, id, technicianID, scheduled)
		if err != nil {
			h.fail(w, r, "assign service request", err)
			return
		}
	case req.Status != "":
		if !rbac.IsValidServiceStatus(req.Status) {
			httpx.Error(w, http.StatusBadRequest, "status is invalid")
			return
		}
		sr, err = h.service.UpdateStatus(r.Context(), p, id, rbac.ServiceStatus(req.Status))
		if err != nil {
			h.fail(w, r, "update service request status", err)
			return
		}
	default:
		httpx.Error(w, http.StatusBadRequest, "status or assigned_to is required")
		return
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{"service": sr})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	p := rbac.PrincipalFromContext(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "id is invalid")
		return
	}
	if err := h.service.Delete(r.Context(), p, id); err != nil {
		h.fail(w, r, "delete service request", err)
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
