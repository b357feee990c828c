package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	apperrors "icearena/internal/errors"
	"icearena/internal/logger"
	"icearena/internal/metrics"
	"icearena/internal/models"
)

type TicketService struct {
	seats     SeatStore
	tickets   TicketReader
	publisher Publisher
}

func NewTicketService(seats SeatStore, tickets TicketReader, publisher Publisher) *TicketService {
	return &TicketService{
		seats:     seats,
		tickets:   tickets,
		publisher: publisher,
	}
}

// Purchase sells one seat to userID.
// The seat row stays locked from the status check until the ticket is written,
// so concurrent purchases of the same seat produce exactly one ticket.
func (s *TicketService) Purchase(ctx context.Context, eventID, seatID, userID int64) (*models.TicketResponse, error) {
	var (
		ticket *models.Ticket
		sold   *models.Seat
	)

	err := s.seats.InSeatTx(ctx, func(tx SeatTx) error {
		seat, err := tx.LockSeat(ctx, seatID)
		if err != nil {
			return err
		}
		if seat == nil || seat.EventID != eventID {
			return apperrors.Wrap(apperrors.ErrNotFound, "Место не найдено")
		}
		if seat.Status != models.SeatStatusAvailable {
			return apperrors.Wrap(apperrors.ErrSeatUnavailable, "Место недоступно")
		}

		seat.Status = models.SeatStatusSold
		if err := tx.SaveSeat(ctx, seat); err != nil {
			return err
		}

		t := &models.Ticket{
			EventID: eventID,
			SeatID:  seatID,
			UserID:  userID,
			Status:  models.TicketStatusPaid,
		}
		if err := tx.CreateTicket(ctx, t); err != nil {
			return err
		}

		ticket, sold = t, seat
		return nil
	})

	log := logger.WithContext(ctx).With(zap.Int64("event_id", eventID), zap.Int64("seat_id", seatID))
	if err != nil {
		if errors.Is(err, apperrors.ErrSeatUnavailable) || errors.Is(err, apperrors.ErrConflict) {
			metrics.SeatPurchaseConflicts.Inc()
			log.Info("Seat purchase rejected", zap.Error(err))
		}
		return nil, err
	}

	metrics.TicketsIssued.Inc()
	log.Info("Ticket issued", zap.Int64("ticket_id", ticket.ID))

	issued := models.TicketIssuedEvent{
		TicketID:  ticket.ID,
		EventID:   eventID,
		SeatID:    seatID,
		UserID:    userID,
		Price:     sold.Price,
		Timestamp: time.Now(),
	}
	if err := s.publisher.Publish(models.EventTicketIssued, issued); err != nil {
		log.Error("Failed to publish ticket issued event",
			zap.Error(err),
			zap.String("event_type", models.EventTicketIssued))
	}

	return &models.TicketResponse{Ticket: *ticket, Seat: sold}, nil
}

// List - билеты покупателя
func (s *TicketService) List(ctx context.Context, userID int64) ([]models.Ticket, error) {
	tickets, err := s.tickets.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}
	return tickets, nil
}
