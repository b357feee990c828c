package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"icearena/internal/database"
	"icearena/internal/models"
)

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, user_id, date, time_start, time_end, duration_hours, name, phone, message, status, created_at`

func (r *BookingRepository) Create(ctx context.Context, booking *models.IceBooking) error {
	query := `
		INSERT INTO ice_bookings (user_id, date, time_start, time_end, duration_hours, name, phone, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		booking.UserID,
		booking.Date,
		booking.Start,
		booking.End,
		booking.DurationHours,
		booking.Name,
		booking.Phone,
		booking.Message,
		booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		return fmt.Errorf("could not insert booking: %w", err)
	}
	return nil
}

// GetByID returns nil, nil when the booking does not exist.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.IceBooking, error) {
	booking := &models.IceBooking{}
	query := `SELECT ` + bookingColumns + ` FROM ice_bookings WHERE id = $1`

	err := r.db.GetContext(ctx, booking, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get booking %d: %w", id, err)
	}
	return booking, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status models.BookingStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE ice_bookings SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("could not update booking %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ApprovedOn - одобренные заявки на дату, только они занимают лед
func (r *BookingRepository) ApprovedOn(ctx context.Context, date models.Date) ([]models.IceBooking, error) {
	bookings := []models.IceBooking{}
	query := `SELECT ` + bookingColumns + `
		FROM ice_bookings
		WHERE date = $1 AND status = $2
		ORDER BY time_start`

	if err := r.db.SelectContext(ctx, &bookings, query, date, models.BookingStatusApproved); err != nil {
		return nil, fmt.Errorf("could not select approved bookings: %w", err)
	}
	return bookings, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]models.IceBooking, error) {
	bookings := []models.IceBooking{}
	query := `SELECT ` + bookingColumns + `
		FROM ice_bookings
		WHERE user_id = $1
		ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &bookings, query, userID); err != nil {
		return nil, fmt.Errorf("could not select bookings of user %d: %w", userID, err)
	}
	return bookings, nil
}
