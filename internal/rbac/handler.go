package rbac

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aquacore/aquacore/internal/platform/httpx"
)

// Handler serves the role registry so the client-side guard and the server
// share one source of truth for role-to-resource visibility.
type Handler struct {
	rbac Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(mw Middleware) *Handler {
	return &Handler{rbac: mw}
}

// MountRoutes registers role registry routes. The registry is visible to
// every authenticated principal but never to anonymous callers.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.RequireAuth).Get("/", h.listRoles)
}

type roleEntry struct {
	Role        Role                           `json:"role"`
	DisplayName string                         `json:"display_name"`
	Grants      map[Resource]map[Action]Effect `json:"grants"`
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	entries := make([]roleEntry, 0, len(Roles()))
	for _, role := range Roles() {
		entries = append(entries, roleEntry{
			Role:        role,
			DisplayName: role.DisplayName(),
			Grants:      GrantsForRole(role),
		})
	}
	httpx.Envelope(w, http.StatusOK, map[string]any{"roles": entries})
}
