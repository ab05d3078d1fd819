package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aquacore/aquacore/internal/platform/httpx"
	"github.com/aquacore/aquacore/internal/rbac"
)

// Middleware resolves the Authorization header into a principal stored in
// the request context. Requests without a header pass through anonymous;
// routes decide via rbac whether that is acceptable. A presented token that
// fails verification is rejected with 401 here, uniformly for every route.
type Middleware struct {
	Resolver *Resolver
	Logger   *slog.Logger
}

// Handler wraps next with principal resolution.
func (m Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		principal, err := m.Resolver.Resolve(r.Context(), token)
		if errors.Is(err, httpx.ErrUnauthenticated) {
			httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if err != nil {
			if m.Logger != nil {
				m.Logger.Error("resolve principal", slog.Any("error", err))
			}
			httpx.Internal(w, "Internal server error")
			return
		}

		ctx := rbac.ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
