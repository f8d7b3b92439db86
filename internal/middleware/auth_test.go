package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gtd-web/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected(tokens *auth.Tokens) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionAuth(tokens))
	handler := func(c *gin.Context) { c.String(http.StatusOK, Username(c)) }
	r.GET("/", handler)
	r.GET("/api/tasks", handler)
	r.POST("/tasks", handler)
	return r
}

func TestSessionAuth_Disabled(t *testing.T) {
	r := protected(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestSessionAuth_BearerHeader(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	r := protected(tokens)

	token, err := tokens.GenerateToken("alice")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())
}

func TestSessionAuth_Cookie(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	r := protected(tokens)

	token, err := tokens.GenerateToken("alice")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionAuth_MissingToken(t *testing.T) {
	r := protected(auth.NewTokens("secret", time.Hour))

	tests := []struct {
		name     string
		method   string
		path     string
		htmx     bool
		wantCode int
	}{
		{"page redirects", http.MethodGet, "/", false, http.StatusSeeOther},
		{"api is 401", http.MethodGet, "/api/tasks", false, http.StatusUnauthorized},
		{"htmx is 401", http.MethodGet, "/", true, http.StatusUnauthorized},
		{"form post is 401", http.MethodPost, "/tasks", false, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusSeeOther {
				assert.Equal(t, "/login", w.Header().Get("Location"))
			}
		})
	}
}

func TestSessionAuth_InvalidToken(t *testing.T) {
	r := protected(auth.NewTokens("secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestSessionAuth_IgnoresQueryToken(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	r := protected(tokens)

	token, err := tokens.GenerateToken("alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks?token="+token, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization token is required")
}
