package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newProtectedRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthMiddleware(testSecret))
	if len(roles) > 0 {
		router.Use(RequireRole(roles...))
	}
	router.GET("/admin", func(c *gin.Context) {
		id, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	return router
}

func TestAuthMiddlewareHeaders(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
	}{
		{"Empty header", ""},
		{"Invalid format", "Token abc"},
		{"Empty token", "Bearer "},
		{"Garbage token", "Bearer not-a-jwt"},
	}

	router := newProtectedRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMiddleware_RefreshTokenRejected(t *testing.T) {
	_, refresh, _ := GenerateTokens(1, "ops@esportfed.org", RoleAdmin, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	w := httptest.NewRecorder()
	newProtectedRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		allowed  []string
		expected int
	}{
		{"admin allowed", RoleAdmin, []string{RoleAdmin}, http.StatusOK},
		{"operator allowed in list", RoleOperator, []string{RoleAdmin, RoleOperator}, http.StatusOK},
		{"operator forbidden", RoleOperator, []string{RoleAdmin}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			access, _ := GenerateAccessToken(1, "ops@esportfed.org", tt.role, testSecret)
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+access)
			w := httptest.NewRecorder()
			newProtectedRouter(tt.allowed...).ServeHTTP(w, req)
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}
