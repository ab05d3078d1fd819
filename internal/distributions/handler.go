package distributions

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

// Handler exposes fleet trip endpoints.
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

// MountRoutes registers distribution routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.ResourceDistribution, rbac.ActionList)).Get("/", h.list)
	r.With(h.rbac.Require(rbac.ResourceDistribution, rbac.ActionCreate)).Post("/", h.create)
	r.With(h.rbac.Require(rbac.ResourceDistribution, rbac.ActionRead)).Get("/{id}", h.get)
	r.With(h.rbac.Require(rbac.ResourceDistribution, rbac.ActionUpdate)).Patch("/{id}", h.update)
	r.With(h.rbac.Require(rbac.ResourceDistribution, rbac.ActionDelete)).Delete("/{id}", h.delete)
}

type createRequest struct {
	DriverName    string `json:"driver_name" validate:"required"`
	VehicleNumber string `json:"vehicle_number" validate:"required"`
	Zone          string `json:"zone" validate:"required"`
	ScheduledDate string `json:"scheduled_date" validate:"required,datetime=2006-01-02"`
	VolumeLitres  int    `json:"volume_litres" validate:"required,gt=0"`
}

type updateRequest struct {
	DriverName    string `json:"driver_name" validate:"omitempty"`
	VehicleNumber string `json:"vehicle_number" validate:"omitempty"`
	Zone          string `json:"zone" validate:"omitempty"`
	ScheduledDate string `json:"scheduled_date" validate:"omitempty,datetime=2006-01-02"`
	VolumeLitres  *int   `json:"volume_litres" validate:"omitempty,gt=0"`
	Status        string `json:"status" validate:"omitempty"`
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
		h.fail(w, r, "list distributions", err)
		return
	}
	if items == nil {
		items = []Distribution{}
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{
		"distributions": items,
		"pagination":    shared.NewPagination(page, limit, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p := rbac.PrincipalFromContext(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "id is invalid")
		return
	}
	d, err := h.service.Get(r.Context(), p, id)
	if err != nil {
		h.fail(w, r, "get distribution", err)
		return
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{"distribution": d})
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
	scheduled, err := time.Parse("2006-01-02", req.ScheduledDate)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "scheduled_date is invalid")
		return
	}
	d, err := h.service.Create(r.Context(), p, CreateInput{
		DriverName:    req.DriverName,
		VehicleNumber: req.VehicleNumber,
		Zone:          req.Zone,
		ScheduledDate: scheduled,
		VolumeLitres:  req.VolumeLitres,
	})
	if err != nil {
		h.fail(w, r, "create distribution", err)
		return
	}
	httpx.Envelope(w, http.StatusCreated, map[string]any{"distribution": d})
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
	in := UpdateInput{
		DriverName:    req.DriverName,
		VehicleNumber: req.VehicleNumber,
		Zone:          req.Zone,
		VolumeLitres:  req.VolumeLitres,
		Status:        req.Status,
	}
	if req.ScheduledDate != "" {
		t, err := time.Parse("2006-01-02", req.ScheduledDate)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "scheduled_date is invalid")
			return
		}
		in.ScheduledDate = &t
	}
	d, err := h.service.Update(r.Context(), p, id, in)
	if err != nil {
		h.fail(w, r, "update distribution", err)
		return
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{"distribution": d})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	p := rbac.PrincipalFromContext(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "id is invalid")
		return
	}
	if err := h.service.Delete(r.Context(), p, id); err != nil {
		h.fail(w, r, "delete distribution", err)
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
