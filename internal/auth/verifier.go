// Package auth resolves bearer credentials into authenticated principals by
// delegating token validation to the identity provider and loading the
// matching profile record.
package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken indicates the credential failed verification or expired.
var ErrInvalidToken = errors.New("auth: invalid token")

// Identity is what the identity provider asserts about a credential.
type Identity struct {
	Subject string
	Email   string
}

// Verifier validates a bearer credential with an identity provider.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}
