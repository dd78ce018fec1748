package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/expensio/internal/config"
	"github.com/expensio/internal/middleware"
	"github.com/expensio/internal/models"
	"github.com/expensio/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newProtectedRouter(authService *service.AuthService) *gin.Engine {
	router := gin.New()
	router.GET("/protected", middleware.AuthMiddleware(authService), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": middleware.GetUserID(c)})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	// Token issuance and validation never touch the user store.
	authService := service.NewAuthService(nil, config.JWTConfig{
		Secret:      "test-secret",
		ExpireHours: 12,
	})

	auth, err := authService.IssueToken(&models.User{ID: 5})
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc123", http.StatusUnauthorized},
		{"lowercase scheme", "bearer " + auth.AccessToken, http.StatusUnauthorized},
		{"prefix without token", "Bearer ", http.StatusUnauthorized},
		{"tampered token", "Bearer " + auth.AccessToken + "x", http.StatusUnauthorized},
		{"valid token", "Bearer " + auth.AccessToken, http.StatusOK},
	}

	router := newProtectedRouter(authService)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"user_id": 5}`, w.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	expiredIssuer := service.NewAuthService(nil, config.JWTConfig{Secret: "test-secret", ExpireHours: -1})
	verifier := service.NewAuthService(nil, config.JWTConfig{Secret: "test-secret", ExpireHours: 12})

	auth, err := expiredIssuer.IssueToken(&models.User{ID: 5})
	require.NoError(t, err)

	router := newProtectedRouter(verifier)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+auth.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
