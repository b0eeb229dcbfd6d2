package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dorm-assignment-backend/internal/store"
)

// GetUser handles the GET /user request.
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.store.UserByID(c.Request.Context(), currentUserID(c))
	if errors.Is(err, store.ErrNotFound) {
		// Session outlived the account.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}
