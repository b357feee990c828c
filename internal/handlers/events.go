package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "icearena/internal/errors"
	"icearena/internal/models"
)

// ListEvents - GET /api/events?date=YYYY-MM-DD
// Получить мероприятия на дату
func (h *Handlers) ListEvents(c *gin.Context) {
	date, err := models.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Требуется параметр date в формате YYYY-MM-DD",
			"code":  apperrors.Code(apperrors.ErrBadRequest),
		})
		return
	}

	events, err := h.services.Events.ListOn(c.Request.Context(), models.NewDate(date))
	if err != nil {
		h.handleServiceError(c, err, "Failed to list events")
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetEvent - GET /api/events/:id
func (h *Handlers) GetEvent(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	event, err := h.services.Events.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "Failed to get event")
		return
	}

	c.JSON(http.StatusOK, event)
}
