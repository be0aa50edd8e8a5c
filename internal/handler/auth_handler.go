package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"photodrop/internal/service"
	"photodrop/internal/session"
)

type AuthHandler struct {
	auth      *service.AuthService
	cookieTTL time.Duration
}

func NewAuthHandler(auth *service.AuthService, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, cookieTTL: cookieTTL}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login answers exactly {"success":true} or the fixed failure message. A
// body that fails to parse authenticates like empty credentials would.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	_ = c.ShouldBindJSON(&req)
	sess, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid username or password"})
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, sess.Token, int(h.cookieTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
