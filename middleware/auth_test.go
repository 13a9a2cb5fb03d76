package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"food-delivery/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type identity struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	Set    bool   `json:"set"`
}

func newAuthRouter(tokens TokenValidator) *gin.Engine {
	r := gin.New()
	whoami := func(c *gin.Context) {
		id, role, ok := CurrentUser(c)
		c.JSON(http.StatusOK, identity{UserID: id, Role: role, Set: ok})
	}
	r.GET("/required", AuthMiddleware(tokens), whoami)
	r.GET("/optional", OptionalAuthMiddleware(tokens), whoami)
	r.GET("/admin", AuthMiddleware(tokens), AdminMiddleware(), whoami)
	return r
}

func get(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager("secret", time.Hour)
	r := newAuthRouter(tokens)

	customer, err := tokens.GenerateToken(5, "c@example.com", "customer")
	require.NoError(t, err)
	admin, err := tokens.GenerateToken(1, "a@example.com", "admin")
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		auth   string
		status int
		body   string
	}{
		{"required without header", "/required", "", http.StatusUnauthorized, "Authorization header required"},
		{"required bad scheme", "/required", "Token " + customer, http.StatusUnauthorized, "Invalid authorization header format"},
		{"required bad token", "/required", "Bearer nope", http.StatusUnauthorized, "Invalid or expired token"},
		{"required valid", "/required", "Bearer " + customer, http.StatusOK, `"user_id":5`},
		{"optional anonymous", "/optional", "", http.StatusOK, `"set":false`},
		{"optional valid", "/optional", "Bearer " + customer, http.StatusOK, `"role":"customer"`},
		{"optional bad token", "/optional", "Bearer nope", http.StatusUnauthorized, "Invalid or expired token"},
		{"admin as customer", "/admin", "Bearer " + customer, http.StatusForbidden, "Admin role required"},
		{"admin as admin", "/admin", "Bearer " + admin, http.StatusOK, `"role":"admin"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.path, tt.auth)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}
