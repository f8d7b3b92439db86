package middleware

import (
	"net/http"
	"strings"

	"gtd-web/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	// SessionCookie carries the login token for browser sessions.
	SessionCookie = "gtd_session"
	usernameKey   = "username"
)

// SessionAuth requires a valid token from the session cookie or an Authorization: Bearer
// header. Query parameters are never read since URLs end up in access logs.
// A nil tokens disables the check.
//
// Page requests without a session are redirected to /login; htmx, API and WebSocket
// requests get 401.
func SessionAuth(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil {
			c.Next()
			return
		}

		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			tokenString, _ = c.Cookie(SessionCookie)
		}
		if tokenString == "" {
			reject(c, "Authorization token is required")
			return
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			reject(c, "Invalid or expired token")
			return
		}

		c.Set(usernameKey, claims.Username)
		c.Next()
	}
}

// Username returns the logged-in user, or "" when auth is disabled.
func Username(c *gin.Context) string {
	return c.GetString(usernameKey)
}

func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

func reject(c *gin.Context, msg string) {
	if wantsPage(c) {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// wantsPage reports whether the request is a plain browser navigation.
func wantsPage(c *gin.Context) bool {
	if c.GetHeader("HX-Request") != "" {
		return false
	}
	path := c.Request.URL.Path
	if strings.HasPrefix(path, "/api/") || path == "/ws" {
		return false
	}
	return c.Request.Method == http.MethodGet
}
