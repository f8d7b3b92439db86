package handlers

import (
	"net/http"

	"gtd-web/internal/middleware"
	"gtd-web/internal/views"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// LoginPage handles GET /login
func (h *Handler) LoginPage(c *gin.Context) {
	if !h.AuthEnabled() {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, views.PageLogin, views.Login{})
}

// Login handles POST /login (form, sets the session cookie) and POST /api/login (JSON, returns the token).
func (h *Handler) Login(c *gin.Context) {
	wantsJSON := c.ContentType() == gin.MIMEJSON
	if !h.AuthEnabled() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Login is disabled"})
		return
	}

	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.loginFailed(c, wantsJSON, http.StatusBadRequest, "Username and password are required.")
		return
	}

	if err := h.creds.Check(req.Username, req.Password); err != nil {
		h.log.Warn("Login rejected", zap.String("username", req.Username), zap.String("client_ip", c.ClientIP()))
		h.loginFailed(c, wantsJSON, http.StatusUnauthorized, "Wrong username or password.")
		return
	}

	token, err := h.tokens.GenerateToken(req.Username)
	if err != nil {
		h.log.Error("Failed to generate token", zap.Error(err))
		h.loginFailed(c, wantsJSON, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	if wantsJSON {
		c.JSON(http.StatusOK, LoginResponse{
			Token:    token,
			Username: req.Username,
			Message:  "Login successful",
		})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.tokens.TTL().Seconds()), "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) loginFailed(c *gin.Context, wantsJSON bool, status int, msg string) {
	if wantsJSON {
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.HTML(status, views.PageLogin, views.Login{Error: msg})
}

// Logout handles POST /logout
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login")
}
