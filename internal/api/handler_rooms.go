package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dorm-assignment-backend/internal/store"
)

// AssignRoom handles the POST /rooms/{room_id}/assign request. Any prior
// assignment of the user is released in the same transaction.
func (h *Handler) AssignRoom(c *gin.Context) {
	roomID := c.Param("room_id")

	err := h.store.AssignRoom(c.Request.Context(), currentUserID(c), roomID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
	case errors.Is(err, store.ErrRoomFull):
		c.JSON(http.StatusConflict, gin.H{"error": "room is full"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assign room"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "room assigned"})
	}
}

// UnassignRoom handles the POST /rooms/unassign request. Unassigning a user
// who holds no room is acknowledged the same as a real release.
func (h *Handler) UnassignRoom(c *gin.Context) {
	err := h.store.UnassignRoom(c.Request.Context(), currentUserID(c))
	switch {
	case errors.Is(err, store.ErrNotFound):
		// Session outlived the account.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unassign room"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "room unassigned"})
	}
}
