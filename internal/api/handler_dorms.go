package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dorm-assignment-backend/internal/model"
	"dorm-assignment-backend/internal/store"
)

// DormResponse represents the API response for a single dorm.
type DormResponse struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// OccupantResponse represents one student in a room listing.
type OccupantResponse struct {
	Name string `json:"name"`
}

// RoomResponse represents the API response for a single room.
type RoomResponse struct {
	ID              string             `json:"_id"`
	Number          string             `json:"number"`
	Capacity        int                `json:"capacity"`
	CurrentStudents []OccupantResponse `json:"currentStudents"`
}

// GetDorms handles the GET /dorms request.
func (h *Handler) GetDorms(c *gin.Context) {
	dorms, err := h.store.Dorms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve dorms"})
		return
	}

	responses := make([]DormResponse, 0, len(dorms))
	for _, d := range dorms {
		responses = append(responses, DormResponse{ID: d.ID, Name: d.Name})
	}
	c.JSON(http.StatusOK, responses)
}

// GetRooms handles the GET /dorms/{dorm_id}/rooms request.
func (h *Handler) GetRooms(c *gin.Context) {
	dormID := c.Param("dorm_id")

	rooms, err := h.store.RoomsByDorm(c.Request.Context(), dormID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "dorm not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve rooms"})
		return
	}

	responses := make([]RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		responses = append(responses, roomResponse(r))
	}
	c.JSON(http.StatusOK, responses)
}

func roomResponse(r model.Room) RoomResponse {
	students := make([]OccupantResponse, 0, len(r.Occupants))
	for _, o := range r.Occupants {
		students = append(students, OccupantResponse{Name: o.Name})
	}
	return RoomResponse{
		ID:              r.ID,
		Number:          r.Number,
		Capacity:        r.Capacity,
		CurrentStudents: students,
	}
}
