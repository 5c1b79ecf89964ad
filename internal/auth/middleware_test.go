package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddlewareHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	refresh, err := GenerateRefreshToken(student, "secret")
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
	}{
		{"empty header", ""},
		{"invalid format", "Token abc"},
		{"empty token", "Bearer "},
		{"malformed token", "Bearer abc.def.ghi"},
		{"refresh token", "Bearer " + refresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			c.Request = req

			AuthMiddleware("secret")(c)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.True(t, c.IsAborted())
			_, ok := SessionFrom(c)
			assert.False(t, ok)
		})
	}
}

func TestAuthMiddlewareSetsSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	token, err := GenerateAccessToken(student, "secret")
	require.NoError(t, err)

	router := gin.New()
	router.Use(AuthMiddleware("secret"))
	router.GET("/me", func(c *gin.Context) {
		s, ok := SessionFrom(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, s)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7,"email":"student@uni.edu","role":"student"}`, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		session        *Session
		roles          []string
		expectedStatus int
	}{
		{"admin allowed", &Session{UserID: 1, Role: RoleAdmin}, []string{RoleAdmin}, http.StatusOK},
		{"one of many", &Session{UserID: 2, Role: RoleStaff}, []string{RoleAdmin, RoleStaff}, http.StatusOK},
		{"no session", nil, []string{RoleAdmin}, http.StatusUnauthorized},
		{"insufficient role", &Session{UserID: 3, Role: RoleStudent}, []string{RoleAdmin}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.session != nil {
				SetSession(c, *tt.session)
			}

			RequireRole(tt.roles...)(c)
			if !c.IsAborted() {
				c.Status(http.StatusOK)
			}

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestSession(t *testing.T) {
	admin := Session{UserID: 1, Role: RoleAdmin}

	assert.True(t, student.CanActOn(7))
	assert.False(t, student.CanActOn(8))
	assert.True(t, admin.CanActOn(8))
	assert.True(t, admin.IsAdmin())
	assert.False(t, student.IsAdmin())

	assert.True(t, ValidRole(RoleStaff))
	assert.False(t, ValidRole("member"))
}
