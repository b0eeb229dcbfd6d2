package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dorm-assignment-backend/internal/store"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles the POST /login request. A successful login issues a fresh
// session token and sets it as the session cookie.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := h.store.Authenticate(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, store.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	token := h.sessions.Issue(user.ID)
	c.SetCookie(h.cookie.CookieName, token, int(h.cookie.TTL.Seconds()), "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}

// Logout handles the POST /logout request. The session token is revoked and
// the cookie cleared.
func (h *Handler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookie.CookieName); err == nil {
		h.sessions.Revoke(token)
	}
	c.SetCookie(h.cookie.CookieName, "", -1, "/", "", h.cookie.Secure, true)
	c.Status(http.StatusNoContent)
}
