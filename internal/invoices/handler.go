package invoices

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

// Handler exposes billing endpoints.
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

// MountRoutes registers invoice routes. The list endpoint doubles as the
// stats endpoint via type=stats.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.ResourceInvoice, rbac.ActionList)).Get("/", h.list)
	r.With(h.rbac.Require(rbac.ResourceInvoice, rbac.ActionCreate)).Post("/", h.create)
	r.With(h.rbac.Require(rbac.ResourceInvoice, rbac.ActionRead)).Get("/{id}", h.get)
	r.With(h.rbac.Require(rbac.ResourceInvoice, rbac.ActionUpdate)).Patch("/{id}", h.update)
	r.With(h.rbac.Require(rbac.ResourceInvoice, rbac.ActionDelete)).Delete("/{id}", h.delete)
	r.With(h.rbac.Require(rbac.ResourceInvoice, rbac.ActionUpdate)).Post("/{id}/payments", h.recordPayment)
}

type createRequest struct {
	CustomerID  string  `json:"customer_id" validate:"required,uuid"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"omitempty"`
	DueDate     string  `json:"due_date" validate:"required,datetime=2006-01-02"`
}

type updateRequest struct {
	Amount      *float64 `json:"amount" validate:"omitempty,gt=0"`
	Description string   `json:"description" validate:"omitempty"`
	DueDate     string   `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Status      string   `json:"status" validate:"omitempty"`
}

type paymentRequest struct {
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Method    string  `json:"method" validate:"required"`
	Reference string  `json:"reference" validate:"omitempty"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	p := rbac.PrincipalFromContext(r.Context())

	if r.URL.Query().Get("type") == "stats" {
		st, err := h.service.Stats(r.Context(), p)
		if err != nil {
			h.fail(w, r, "invoice stats", err)
			return
		}
		httpx.Envelope(w, http.StatusOK, map[string]any{"stats": st})
		return
	}

	page, limit := shared.PageParams(r)
	f := ListFilter{
		Status: r.URL.Query().Get("status"),
		Page:   page,
		Limit:  limit,
	}
	items, total, err := h.service.List(r.Context(), p, f)
	if err != nil {
		h.fail(w, r, "list invoices", err)
		return
	}
	if items == nil {
		items = []Invoice{}
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{
		"invoices":   items,
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
	inv, err := h.service.Get(r.Context(), p, id)
	if err != nil {
		h.fail(w, r, "get invoice", err)
		return
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{"invoice": inv})
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
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "customer_id is invalid")
		return
	}
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "due_date is invalid")
		return
	}
	inv, err := h.service.Create(r.Context(), p, CreateInput{
		CustomerID:  customerID,
		Amount:      req.Amount,
		Description: req.Description,
		DueDate:     dueDate,
	})
	if err != nil {
		h.fail(w, r, "create invoice", err)
		return
	}
	httpx.Envelope(w, http.StatusCreated, map[string]any{"invoice": inv})
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
		Amount:      req.Amount,
		Description: req.Description,
		Status:      req.Status,
	}
	if req.DueDate != "" {
		t, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "due_date is invalid")
			return
		}
		in.DueDate = &t
	}
	inv, err := h.service.Update(r.Context(), p, id, in)
	if err != nil {
		h.fail(w, r, "update invoice", err)
		return
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{"invoice": inv})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	p := rbac.PrincipalFromContext(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "id is invalid")
		return
	}
	if err := h.service.Delete(r.Context(), p, id); err != nil {
		h.fail(w, r, "delete invoice", err)
		return
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{"deleted": true})
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	p := rbac.PrincipalFromContext(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "id is invalid")
		return
	}
	var req paymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, validate.Error(err))
		return
	}
	pay, err := h.service.RecordPayment(r.Context(), p, id, PaymentInput{
		Amount:    req.Amount,
		Method:    req.Method,
		Reference: req.Reference,
	})
	if err != nil {
		h.fail(w, r, "record payment", err)
		return
	}
	httpx.Envelope(w, http.StatusCreated, map[string]any{"payment": pay})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if h.logger != nil {
		h.logger.Error(op, slog.Any("error", err), slog.String("path", r.URL.Path))
	}
	httpx.RespondError(w, err)
}
