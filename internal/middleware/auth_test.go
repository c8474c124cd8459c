package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestRouter(t *testing.T, tokens service.TokenService, allowedRoles ...string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/probe", RequireAuth(tokens, allowedRoles...), func(c *gin.Context) {
		userID, role, ok := CurrentUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": userID.String(), "role": role})
	})
	return router
}

func issueAccess(t *testing.T, tokens service.TokenService, role string) string {
	t.Helper()
	signed, err := tokens.IssueAccess(&model.User{ID: uuid.New(), Role: role})
	require.NoError(t, err)
	return signed
}

func TestRequireAuthMissingToken(t *testing.T) {
	tokens := service.NewTokenService([]byte("secret"), time.Minute, time.Hour)
	router := newAuthTestRouter(t, tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthBearerHeader(t *testing.T) {
	tokens := service.NewTokenService([]byte("secret"), time.Minute, time.Hour)
	router := newAuthTestRouter(t, tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+issueAccess(t, tokens, model.RoleStandard))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), model.RoleStandard)
}

func TestRequireAuthCookie(t *testing.T) {
	tokens := service.NewTokenService([]byte("secret"), time.Minute, time.Hour)
	router := newAuthTestRouter(t, tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: issueAccess(t, tokens, model.RoleStandard)})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	tokens := service.NewTokenService([]byte("secret"), time.Minute, time.Hour)
	router := newAuthTestRouter(t, tokens)

	for _, header := range []string{"Bearer", "Basic abc", "Bearer a b"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	// Tokens issued by this service are already expired.
	tokens := service.NewTokenService([]byte("secret"), -time.Minute, time.Hour)
	router := newAuthTestRouter(t, tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+issueAccess(t, tokens, model.RoleStandard))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthRejectsRefreshToken(t *testing.T) {
	tokens := service.NewTokenService([]byte("secret"), time.Minute, time.Hour)
	router := newAuthTestRouter(t, tokens)

	refresh, err := tokens.IssueRefresh(&model.User{ID: uuid.New(), Role: model.RoleStandard}, time.Now().Add(time.Hour))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthRoleGate(t *testing.T) {
	tokens := service.NewTokenService([]byte("secret"), time.Minute, time.Hour)
	router := newAuthTestRouter(t, tokens, model.RoleAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+issueAccess(t, tokens, model.RoleStandard))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+issueAccess(t, tokens, model.RoleAdmin))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthForeignSignature(t *testing.T) {
	tokens := service.NewTokenService([]byte("secret"), time.Minute, time.Hour)
	other := service.NewTokenService([]byte("other"), time.Minute, time.Hour)
	router := newAuthTestRouter(t, tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+issueAccess(t, other, model.RoleStandard))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
