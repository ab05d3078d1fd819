package rbac

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rolesRouter() http.Handler {
	r := chi.NewRouter()
	r.Route("/roles", NewHandler(Middleware{}).MountRoutes)
	return r
}

func TestListRolesRequiresAuthentication(t *testing.T) {
	rec := httptest.NewRecorder()
	rolesRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/roles", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListRolesServesRegistry(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/roles", nil)
	p := &Principal{ID: uuid.New(), Role: RoleCustomer, Active: true}
	req = req.WithContext(ContextWithPrincipal(req.Context(), p))

	rolesRouter().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Roles []struct {
			Role        string `json:"role"`
			DisplayName string `json:"display_name"`
		} `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Roles, len(Roles()))
	assert.Equal(t, string(RoleAdmin), body.Roles[0].Role)
}
