package rbac

import (
	"log/slog"
	"net/http"

	"github.com/aquacore/aquacore/internal/platform/httpx"
)

// DenialMetrics counts authorization denials for the metrics surface.
type DenialMetrics interface {
	CountDenial(role, resource string)
}

// Middleware wires coarse authorization for HTTP routes. Ownership checks
// against specific rows happen in the services once the target is loaded.
type Middleware struct {
	Logger  *slog.Logger
	Metrics DenialMetrics
}

// RequireAuth rejects requests without an active authenticated principal.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := PrincipalFromContext(r.Context())
		if p == nil || !p.Active {
			httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Require gates a route on the grant table. Unauthenticated requests get
// 401; authenticated principals without a grant get 403. Owner-qualified
// grants pass through here and are narrowed by the service layer.
func (m Middleware) Require(res Resource, act Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			d := Authorize(p, res, act, nil)
			if d.Allowed {
				next.ServeHTTP(w, r)
				return
			}
			if d.Reason == ReasonUnauthenticated {
				httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if m.Logger != nil {
				m.Logger.Warn("authorization denied",
					slog.String("path", r.URL.Path),
					slog.String("resource", string(res)),
					slog.String("action", string(act)),
					slog.String("reason", string(d.Reason)))
			}
			if m.Metrics != nil {
				m.Metrics.CountDenial(string(p.Role), string(res))
			}
			httpx.Error(w, http.StatusForbidden, "Forbidden")
		})
	}
}
