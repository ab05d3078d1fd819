package notifications

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aquacore/aquacore/internal/platform/httpx"
	"github.com/aquacore/aquacore/internal/rbac"
	"github.com/aquacore/aquacore/internal/shared"
)

// Handler exposes the notification inbox endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: mw}
}

// MountRoutes registers notification routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.ResourceNotification, rbac.ActionList)).Get("/", h.list)
	r.With(h.rbac.Require(rbac.ResourceNotification, rbac.ActionUpdate)).Post("/read-all", h.markAllRead)
	r.With(h.rbac.Require(rbac.ResourceNotification, rbac.ActionRead)).Get("/{id}", h.get)
	r.With(h.rbac.Require(rbac.ResourceNotification, rbac.ActionUpdate)).Post("/{id}/read", h.markRead)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	p := rbac.PrincipalFromContext(r.Context())
	page, limit := shared.PageParams(r)
	f := ListFilter{
		UnreadOnly: r.URL.Query().Get("unread") == "true",
		Page:       page,
		Limit:      limit,
	}
	items, total, err := h.service.List(r.Context(), p, f)
	if err != nil {
		h.fail(w, r, "list notifications", err)
		return
	}
	if items == nil {
		items = []Notification{}
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{
		"notifications": items,
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
	n, err := h.service.Get(r.Context(), p, id)
	if err != nil {
		h.fail(w, r, "get notification", err)
		return
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{"notification": n})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	p := rbac.PrincipalFromContext(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "id is invalid")
		return
	}
	n, err := h.service.MarkRead(r.Context(), p, id)
	if err != nil {
		h.fail(w, r, "mark notification read", err)
		return
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{"notification": n})
}

func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	p := rbac.PrincipalFromContext(r.Context())
	if err := h.service.MarkAllRead(r.Context(), p); err != nil {
		h.fail(w, r, "mark all notifications read", err)
		return
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{"updated": true})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if h.logger != nil {
		h.logger.Error(op, slog.Any("error", err), slog.String("path", r.URL.Path))
	}
	httpx.RespondError(w, err)
}
