package handlers

import (
	"github.com/gin-gonic/gin"

	"icearena/internal/middleware"
)

// RegisterRoutes mounts the API on api. Identity must already be applied to the group.
func (h *Handlers) RegisterRoutes(api *gin.RouterGroup) {
	requireUser := middleware.RequireUser()

	// Bookings endpoints
	bookings := api.Group("/bookings")
	{
		bookings.GET("/available_slots", h.AvailableSlots)
		bookings.POST("/validate", h.ValidateBooking)
		bookings.POST("", h.CreateBooking)
		bookings.GET("", requireUser, h.ListBookings)
	}

	// Events endpoints
	events := api.Group("/events")
	{
		events.GET("", h.ListEvents)
		events.GET("/:id", h.GetEvent)
		events.GET("/:id/seats", h.ListSeats)
	}

	// Tickets endpoints
	tickets := api.Group("/tickets", requireUser)
	{
		tickets.POST("", h.PurchaseTicket)
		tickets.GET("", h.ListTickets)
	}

	// Administration, authorization is enforced in front of the service
	admin := api.Group("/admin")
	{
		admin.PATCH("/bookings/:id/status", h.UpdateBookingStatus)
		admin.POST("/events/:id/seats/generate", h.GenerateSeats)
	}
}
