package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"icearena/internal/database"
)

const (
	postgresUniqueViolation  = "23505"
	postgresLockNotAvailable = "55P03"
)

type Repositories struct {
	Schedules *ScheduleRepository
	TimeSlots *TimeSlotRepository
	Events    *EventRepository
	Bookings  *BookingRepository
	Seats     *SeatRepository
	Tickets   *TicketRepository
}

func NewRepositories(db *database.DB, opts ...SeatOption) *Repositories {
	return &Repositories{
		Schedules: NewScheduleRepository(db),
		TimeSlots: NewTimeSlotRepository(db),
		Events:    NewEventRepository(db),
		Bookings:  NewBookingRepository(db),
		Seats:     NewSeatRepository(db, opts...),
		Tickets:   NewTicketRepository(db),
	}
}

// inTx commits when fn succeeds and rolls back otherwise.
func inTx(ctx context.Context, db *sqlx.DB, fn func(ctx context.Context, tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				err = errors.Join(err, rollbackErr)
			}
			return
		}

		err = tx.Commit()
	}()

	return fn(ctx, tx)
}

func hasPostgresCode(err error, code pq.ErrorCode) bool {
	var psqlErr *pq.Error
	return errors.As(err, &psqlErr) && psqlErr.Code == code
}
