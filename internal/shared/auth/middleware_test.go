package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kidcare/afterhours/internal/shared/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCfg = config.AuthConfig{
	JWTSecret: "test-secret",
	Issuer:    "afterhours-test",
	TokenTTL:  time.Hour,
}

func protected() http.Handler {
	return Middleware(testCfg)(RequireRoles(RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r.Context())
		w.Write([]byte(user.ID))
	})))
}

func call(t *testing.T, h http.Handler, header string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/protocols", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAdminTokenAccepted(t *testing.T) {
	token, err := IssueToken(testCfg, "nurse-lead", []string{RoleAdmin}, time.Now())
	require.NoError(t, err)

	rec := call(t, protected(), "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nurse-lead", rec.Body.String())
}

func TestMissingHeader(t *testing.T) {
	rec := call(t, protected(), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestMalformedHeader(t *testing.T) {
	rec := call(t, protected(), "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWrongRoleForbidden(t *testing.T) {
	token, err := IssueToken(testCfg, "viewer", []string{"reader"}, time.Now())
	require.NoError(t, err)

	rec := call(t, protected(), "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := IssueToken(testCfg, "nurse-lead", []string{RoleAdmin}, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	rec := call(t, protected(), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWrongSecretRejected(t *testing.T) {
	other := testCfg
	other.JWTSecret = "another-secret"
	token, err := IssueToken(other, "nurse-lead", []string{RoleAdmin}, time.Now())
	require.NoError(t, err)

	rec := call(t, protected(), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWrongIssuerRejected(t *testing.T) {
	other := testCfg
	other.Issuer = "someone-else"
	token, err := IssueToken(other, "nurse-lead", []string{RoleAdmin}, time.Now())
	require.NoError(t, err)

	rec := call(t, protected(), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
