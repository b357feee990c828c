package repository

import (
	"context"
	"fmt"

	"icearena/internal/database"
	apperrors "icearena/internal/errors"
	"icearena/internal/models"
)

type TicketRepository struct {
	db *database.DB
}

func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) ListByUser(ctx context.Context, userID int64) ([]models.Ticket, error) {
	tickets := []models.Ticket{}
	query := `
		SELECT id, event_id, seat_id, user_id, status, created_at
		FROM tickets
		WHERE user_id = $1
		ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &tickets, query, userID); err != nil {
		return nil, fmt.Errorf("could not select tickets of user %d: %w", userID, err)
	}
	return tickets, nil
}

// CreateTicket inserts the ticket inside the purchase transaction.
// A second live ticket for the same seat violates the partial unique index.
func (t *SeatTx) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	query := `
		INSERT INTO tickets (event_id, seat_id, user_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := t.tx.QueryRowxContext(ctx, query, ticket.EventID, ticket.SeatID, ticket.UserID, ticket.Status).
		Scan(&ticket.ID, &ticket.CreatedAt)
	if hasPostgresCode(err, postgresUniqueViolation) {
		return apperrors.Wrap(apperrors.ErrConflict, "На это место уже выпущен билет")
	}
	if err != nil {
		return fmt.Errorf("could not insert ticket: %w", err)
	}
	return nil
}
