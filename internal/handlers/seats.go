package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"icearena/internal/models"
	"icearena/internal/service"
)

// Seats handlers

// ListSeats - GET /api/events/:id/seats
// Получить список мест мероприятия
func (h *Handlers) ListSeats(c *gin.Context) {
	eventID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	seats, err := h.services.Seats.List(c.Request.Context(), eventID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list seats")
		return
	}

	c.JSON(http.StatusOK, seats)
}

// GenerateSeats - POST /api/admin/events/:id/seats/generate
// Сгенерировать сетку мест по пресету или явной раскладке
func (h *Handlers) GenerateSeats(c *gin.Context) {
	eventID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req models.GenerateSeatsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	layout, err := service.LayoutFromRequest(&req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to generate seats")
		return
	}

	resp, err := h.services.Seats.Generate(c.Request.Context(), eventID, layout)
	if err != nil {
		h.handleServiceError(c, err, "Failed to generate seats")
		return
	}

	c.JSON(http.StatusCreated, resp)
}
