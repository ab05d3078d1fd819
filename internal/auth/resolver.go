package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/aquacore/aquacore/internal/platform/httpx"
	"github.com/aquacore/aquacore/internal/rbac"
)

// Resolver turns a bearer credential into an authenticated principal.
//
// Verification is delegated to the configured identity providers in order;
// the first that accepts the token wins. The matching profile is then
// loaded from the profile store. No default role is ever fabricated.
type Resolver struct {
	verifiers []Verifier
	profiles  ProfileRepository
}

// NewResolver constructs a Resolver.
func NewResolver(profiles ProfileRepository, verifiers ...Verifier) *Resolver {
	return &Resolver{verifiers: verifiers, profiles: profiles}
}

// Resolve validates the token and loads the principal.
//
// Invalid or expired tokens and missing profiles yield
// httpx.ErrUnauthenticated. A profile store failure surfaces as a distinct
// infrastructure error and must not be conflated with unauthenticated.
func (r *Resolver) Resolve(ctx context.Context, token string) (*rbac.Principal, error) {
	if token == "" {
		return nil, httpx.ErrUnauthenticated
	}

	var identity *Identity
	for _, v := range r.verifiers {
		id, err := v.Verify(ctx, token)
		if err == nil {
			identity = id
			break
		}
		if !errors.Is(err, ErrInvalidToken) {
			return nil, fmt.Errorf("auth: verify token: %w", err)
		}
	}
	if identity == nil {
		return nil, httpx.ErrUnauthenticated
	}

	principal, err := r.profiles.FindBySubject(ctx, identity.Subject)
	if errors.Is(err, httpx.ErrNotFound) {
		return nil, httpx.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return principal, nil
}
