package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"icearena/internal/models"
)

// PurchaseTicket - POST /api/tickets
// Купить билет на место
func (h *Handlers) PurchaseTicket(c *gin.Context) {
	var req models.PurchaseTicketRequest
	if !h.bindJSON(c, &req) {
		return
	}

	userID, _ := currentUser(c)
	ticket, err := h.services.Tickets.Purchase(c.Request.Context(), req.EventID, req.SeatID, userID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to purchase ticket")
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

// ListTickets - GET /api/tickets
// Получить свои билеты
func (h *Handlers) ListTickets(c *gin.Context) {
	userID, _ := currentUser(c)

	tickets, err := h.services.Tickets.List(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list tickets")
		return
	}

	c.JSON(http.StatusOK, tickets)
}
