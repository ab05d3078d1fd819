package products

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

// Handler exposes product catalogue endpoints.
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

// MountRoutes registers product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.ResourceProduct, rbac.ActionList)).Get("/", h.list)
	r.With(h.rbac.Require(rbac.ResourceProduct, rbac.ActionCreate)).Post("/", h.create)
	r.With(h.rbac.Require(rbac.ResourceProduct, rbac.ActionRead)).Get("/{id}", h.get)
	r.With(h.rbac.Require(rbac.ResourceProduct, rbac.ActionUpdate)).Patch("/{id}", h.update)
	r.With(h.rbac.Require(rbac.ResourceProduct, rbac.ActionDelete)).Delete("/{id}", h.delete)
}

type createRequest struct {
	Name          string  `json:"name" validate:"required"`
	Category      string  `json:"category" validate:"required"`
	Description   string  `json:"description" validate:"omitempty"`
	UnitPrice     float64 `json:"unit_price" validate:"gte=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	ReorderLevel  int     `json:"reorder_level" validate:"gte=0"`
}

type updateRequest struct {
	Name          string   `json:"name" validate:"omitempty"`
	Category      string   `json:"category" validate:"omitempty"`
	Description   string   `json:"description" validate:"omitempty"`
	UnitPrice     *float64 `json:"unit_price" validate:"omitempty,gte=0"`
	StockQuantity *int     `json:"stock_quantity" validate:"omitempty,gte=0"`
	ReorderLevel  *int     `json:"reorder_level" validate:"omitempty,gte=0"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	p := rbac.PrincipalFromContext(r.Context())
	page, limit := shared.PageParams(r)
	f := ListFilter{
		Category: r.URL.Query().Get("category"),
		Page:     page,
		Limit:    limit,
	}
	items, total, err := h.service.List(r.Context(), p, f)
	if err != nil {
		h.fail(w, r, "list products", err)
		return
	}
	if items == nil {
		items = []Product{}
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{
		"products":   items,
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
	product, err := h.service.Get(r.Context(), p, id)
	if err != nil {
		h.fail(w, r, "get product", err)
		return
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{"product": product})
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
	product, err := h.service.Create(r.Context(), p, CreateInput{
		Name:          req.Name,
		Category:      req.Category,
		Description:   req.Description,
		UnitPrice:     req.UnitPrice,
		StockQuantity: req.StockQuantity,
		ReorderLevel:  req.ReorderLevel,
	})
	if err != nil {
		h.fail(w, r, "create product", err)
		return
	}
	httpx.Envelope(w, http.StatusCreated, map[string]any{"product": product})
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
	product, err := h.service.Update(r.Context(), p, id, UpdateInput{
		Name:          req.Name,
		Category:      req.Category,
		Description:   req.Description,
		UnitPrice:     req.UnitPrice,
		StockQuantity: req.StockQuantity,
		ReorderLevel:  req.ReorderLevel,
	})
	if err != nil {
		h.fail(w, r, "update product", err)
		return
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{"product": product})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	p := rbac.PrincipalFromContext(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "id is invalid")
		return
	}
	if err := h.service.Delete(r.Context(), p, id); err != nil {
		h.fail(w, r, "delete product", err)
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
