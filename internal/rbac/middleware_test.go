package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDenials struct {
	role     string
	resource string
	count    int
}

func (r *recordingDenials) CountDenial(role, resource string) {
	r.role = role
	r.resource = resource
	r.count++
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func requestAs(t *testing.T, p *Principal) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if p != nil {
		req = req.WithContext(ContextWithPrincipal(req.Context(), p))
	}
	return req
}

func TestRequireAllows(t *testing.T) {
	mw := Middleware{}
	rec := httptest.NewRecorder()
	p := &Principal{ID: uuid.New(), Role: RoleAdmin, Active: true}

	mw.Require(ResourceUser, ActionList)(okHandler()).ServeHTTP(rec, requestAs(t, p))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireUnauthenticated(t *testing.T) {
	denials := &recordingDenials{}
	mw := Middleware{Metrics: denials}
	rec := httptest.NewRecorder()

	mw.Require(ResourceUser, ActionList)(okHandler()).ServeHTTP(rec, requestAs(t, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, denials.count)
}

func TestRequireCountsDenial(t *testing.T) {
	denials := &recordingDenials{}
	mw := Middleware{Metrics: denials}
	rec := httptest.NewRecorder()
	p := &Principal{ID: uuid.New(), Role: RoleCustomer, Active: true}

	mw.Require(ResourceUser, ActionList)(okHandler()).ServeHTTP(rec, requestAs(t, p))
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 1, denials.count)
	assert.Equal(t, string(RoleCustomer), denials.role)
	assert.Equal(t, string(ResourceUser), denials.resource)
}

func TestRequireAuthRejectsInactive(t *testing.T) {
	mw := Middleware{}
	rec := httptest.NewRecorder()
	p := &Principal{ID: uuid.New(), Role: RoleAdmin, Active: false}

	mw.RequireAuth(okHandler()).ServeHTTP(rec, requestAs(t, p))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
