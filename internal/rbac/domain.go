package rbac

import (
	"context"

	"github.com/google/uuid"
)

// Principal describes the authenticated actor making a request.
type Principal struct {
	ID    uuid.UUID
	Email string
	Role  Role
	// Active gates all authorization; an inactive principal is treated as
	// unauthenticated regardless of role.
	Active bool
	// CustomerID links the principal to a customer record when the role is
	// customer. Nil for staff roles.
	CustomerID *uuid.UUID
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context. Returns nil for
// unauthenticated requests.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
