package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dorm-assignment-backend/config"
	"dorm-assignment-backend/internal/model"
	"dorm-assignment-backend/internal/session"
	"dorm-assignment-backend/internal/store"
)

const userIDKey = "userID"

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	sessions *session.Store
	cookie   config.SessionConfig
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, sessions *session.Store, cookie config.SessionConfig) *Handler {
	return &Handler{
		store:    s,
		sessions: sessions,
		cookie:   cookie,
	}
}

// RequireSession resolves the session cookie and stores the user ID on the
// request context. Every session-requiring route answers a plain 401 when the
// cookie is missing, unknown or expired.
func (h *Handler) RequireSession(c *gin.Context) {
	token, err := c.Cookie(h.cookie.CookieName)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	userID, err := h.sessions.Resolve(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	c.Set(userIDKey, userID)
	c.Next()
}

// currentUserID returns the user ID placed on the context by RequireSession.
func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// userJSON renders a user in the wire format, assignedRoom included.
func userJSON(u model.User) gin.H {
	return gin.H{
		"_id":          u.ID,
		"email":        u.Email,
		"name":         u.Name,
		"assignedRoom": u.RoomID,
	}
}
