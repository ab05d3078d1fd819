package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aquacore/aquacore/internal/platform/httpx"
	"github.com/aquacore/aquacore/internal/rbac"
)

type stubVerifier struct {
	identity *Identity
	err      error
}

func (v stubVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.identity, nil
}

type stubProfiles struct {
	principal *rbac.Principal
	err       error
}

func (s stubProfiles) FindBySubject(ctx context.Context, subject string) (*rbac.Principal, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.principal, nil
}

func TestResolveEmptyToken(t *testing.T) {
	r := NewResolver(stubProfiles{})
	_, err := r.Resolve(context.Background(), "")
	assert.True(t, errors.Is(err, httpx.ErrUnauthenticated))
}

func TestResolveInvalidToken(t *testing.T) {
	r := NewResolver(stubProfiles{}, stubVerifier{err: ErrInvalidToken})
	_, err := r.Resolve(context.Background(), "garbage")
	assert.True(t, errors.Is(err, httpx.ErrUnauthenticated))
}

func TestResolveVerifierInfraError(t *testing.T) {
	// A provider outage is not an authentication failure and must not be
	// reported as one.
	r := NewResolver(stubProfiles{}, stubVerifier{err: errors.New("issuer unreachable")})
	_, err := r.Resolve(context.Background(), "token")
	require.Error(t, err)
	assert.False(t, errors.Is(err, httpx.ErrUnauthenticated))
}

func TestResolveFallsThroughVerifiers(t *testing.T) {
	p := &rbac.Principal{ID: uuid.New(), Role: rbac.RoleAdmin, Active: true}
	r := NewResolver(stubProfiles{principal: p},
		stubVerifier{err: ErrInvalidToken},
		stubVerifier{identity: &Identity{Subject: "svc-1"}},
	)
	got, err := r.Resolve(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestResolveUnknownProfile(t *testing.T) {
	r := NewResolver(stubProfiles{err: httpx.ErrNotFound},
		stubVerifier{identity: &Identity{Subject: "ghost"}})
	_, err := r.Resolve(context.Background(), "token")
	assert.True(t, errors.Is(err, httpx.ErrUnauthenticated))
}

func TestResolveProfileStoreFailure(t *testing.T) {
	storeErr := errors.New("connection refused")
	r := NewResolver(stubProfiles{err: storeErr},
		stubVerifier{identity: &Identity{Subject: "svc-1"}})
	_, err := r.Resolve(context.Background(), "token")
	require.Error(t, err)
	assert.False(t, errors.Is(err, httpx.ErrUnauthenticated))
}

func TestStaticVerifier(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	v, err := NewStaticVerifier("reader:reader@aquacore.local:" + string(hash))
	require.NoError(t, err)

	id, err := v.Verify(context.Background(), "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "reader", id.Subject)
	assert.Equal(t, "reader@aquacore.local", id.Email)

	_, err = v.Verify(context.Background(), "wrong")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestStaticVerifierMalformedSpec(t *testing.T) {
	_, err := NewStaticVerifier("missing-fields")
	assert.Error(t, err)
}
