package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "icearena/internal/errors"
	"icearena/internal/models"
)

// AvailableSlots - GET /api/bookings/available_slots?date=YYYY-MM-DD
// Получить доступность льда на дату
func (h *Handlers) AvailableSlots(c *gin.Context) {
	raw := c.Query("date")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Требуется параметр date",
			"code":  apperrors.Code(apperrors.ErrBadRequest),
		})
		return
	}

	date, err := models.ParseDate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Неверный формат даты, ожидается YYYY-MM-DD",
			"code":  apperrors.Code(apperrors.ErrBadRequest),
		})
		return
	}

	slots, err := h.services.Availability.ForDate(c.Request.Context(), models.NewDate(date))
	if err != nil {
		h.handleServiceError(c, err, "Failed to get available slots")
		return
	}

	c.JSON(http.StatusOK, slots)
}

// ValidateBooking - POST /api/bookings/validate
// Проверить интервал аренды без создания заявки
func (h *Handlers) ValidateBooking(c *gin.Context) {
	var req models.ValidateBookingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	interval := models.TimeInterval{Date: *req.Date, Start: *req.Start, End: *req.End}
	hours, err := h.services.Bookings.Validate(c.Request.Context(), interval)
	if err != nil {
		h.handleServiceError(c, err, "Failed to validate booking")
		return
	}

	c.JSON(http.StatusOK, models.ValidateBookingResponse{DurationHours: hours})
}

// CreateBooking - POST /api/bookings
// Создать заявку на аренду льда
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	var requester *int64
	if userID, ok := currentUser(c); ok {
		requester = &userID
	}

	booking, err := h.services.Bookings.Create(c.Request.Context(), &req, requester)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create booking")
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// ListBookings - GET /api/bookings
// Получить свои заявки
func (h *Handlers) ListBookings(c *gin.Context) {
	userID, _ := currentUser(c)

	bookings, err := h.services.Bookings.List(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list bookings")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// UpdateBookingStatus - PATCH /api/admin/bookings/:id/status
// Одобрить или отклонить заявку
func (h *Handlers) UpdateBookingStatus(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateBookingStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	booking, err := h.services.Bookings.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.handleServiceError(c, err, "Failed to update booking status")
		return
	}

	c.JSON(http.StatusOK, booking)
}
