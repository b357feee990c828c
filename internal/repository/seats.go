package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"icearena/internal/database"
	apperrors "icearena/internal/errors"
	"icearena/internal/models"
)

// seatInsertBatch keeps one INSERT well below the Postgres bind parameter limit.
const seatInsertBatch = 1000

type SeatRepository struct {
	db          *database.DB
	lockTimeout time.Duration
}

type SeatOption func(*SeatRepository)

// WithLockTimeout bounds how long a purchase waits for a seat row lock held by another purchase.
func WithLockTimeout(d time.Duration) SeatOption {
	return func(r *SeatRepository) {
		r.lockTimeout = d
	}
}

func NewSeatRepository(db *database.DB, opts ...SeatOption) *SeatRepository {
	r := &SeatRepository{db: db}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

const seatColumns = `s.id, s.schema_id, ss.event_id, s.sector, s.row_number, s.seat_number, s.price, s.status`

// ListByEvent - места мероприятия в порядке сектор, ряд, номер
func (r *SeatRepository) ListByEvent(ctx context.Context, eventID int64) ([]models.Seat, error) {
	seats := []models.Seat{}
	query := `SELECT ` + seatColumns + `
		FROM seats s
		JOIN seating_schemas ss ON ss.id = s.schema_id
		WHERE ss.event_id = $1
		ORDER BY s.sector, s.row_number, s.seat_number`

	if err := r.db.SelectContext(ctx, &seats, query, eventID); err != nil {
		return nil, fmt.Errorf("could not select seats of event %d: %w", eventID, err)
	}
	return seats, nil
}

// ReplaceSeats swaps the seat grid of the event's schema, creating the schema when missing.
// Nothing changes if any existing seat was already reserved or sold.
func (r *SeatRepository) ReplaceSeats(ctx context.Context, eventID int64, schemaData json.RawMessage, seats []models.Seat) (int64, error) {
	if len(schemaData) == 0 {
		schemaData = json.RawMessage(`{}`)
	}

	var schemaID int64
	err := inTx(ctx, r.db.DB, func(ctx context.Context, tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO seating_schemas (event_id, schema_data)
			VALUES ($1, $2)
			ON CONFLICT (event_id) DO UPDATE SET schema_data = EXCLUDED.schema_data
			RETURNING id`, eventID, []byte(schemaData)).Scan(&schemaID)
		if err != nil {
			return fmt.Errorf("could not upsert seating schema: %w", err)
		}

		var statuses []models.SeatStatus
		err = tx.SelectContext(ctx, &statuses,
			`SELECT status FROM seats WHERE schema_id = $1 FOR UPDATE`, schemaID)
		if err != nil {
			return fmt.Errorf("could not lock seats of schema %d: %w", schemaID, err)
		}
		for _, status := range statuses {
			if status != models.SeatStatusAvailable {
				return apperrors.Wrap(apperrors.ErrConflict, "Нельзя пересоздать места: часть мест уже забронирована или продана")
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM seats WHERE schema_id = $1`, schemaID); err != nil {
			return fmt.Errorf("could not delete seats of schema %d: %w", schemaID, err)
		}

		for i := range seats {
			seats[i].SchemaID = schemaID
			seats[i].EventID = eventID
		}

		for start := 0; start < len(seats); start += seatInsertBatch {
			end := min(start+seatInsertBatch, len(seats))
			_, err := tx.NamedExecContext(ctx, `
				INSERT INTO seats (schema_id, sector, row_number, seat_number, price, status)
				VALUES (:schema_id, :sector, :row_number, :seat_number, :price, :status)`, seats[start:end])
			if err != nil {
				return fmt.Errorf("could not insert seats: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return schemaID, nil
}

// InTx runs fn inside one transaction with the configured lock timeout.
// The transaction is committed only when fn returns nil.
func (r *SeatRepository) InTx(ctx context.Context, fn func(tx *SeatTx) error) error {
	err := inTx(ctx, r.db.DB, func(ctx context.Context, tx *sqlx.Tx) error {
		if r.lockTimeout > 0 {
			// SET does not accept bind parameters.
			stmt := fmt.Sprintf(`SET LOCAL lock_timeout = '%dms'`, r.lockTimeout.Milliseconds())
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("could not set lock timeout: %w", err)
			}
		}
		return fn(&SeatTx{tx: tx})
	})
	if hasPostgresCode(err, postgresLockNotAvailable) {
		return apperrors.Wrap(apperrors.ErrConflict, "Место обрабатывается другим запросом, попробуйте позже")
	}
	return err
}

// SeatTx exposes the seat operations allowed while the purchase transaction is open.
type SeatTx struct {
	tx *sqlx.Tx
}

// LockSeat reads the seat and holds its row lock until the transaction ends.
// Returns nil, nil when the seat does not exist.
func (t *SeatTx) LockSeat(ctx context.Context, seatID int64) (*models.Seat, error) {
	seat := &models.Seat{}
	query := `SELECT ` + seatColumns + `
		FROM seats s
		JOIN seating_schemas ss ON ss.id = s.schema_id
		WHERE s.id = $1
		FOR UPDATE OF s`

	err := t.tx.GetContext(ctx, seat, query, seatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not lock seat %d: %w", seatID, err)
	}
	return seat, nil
}

func (t *SeatTx) SaveSeat(ctx context.Context, seat *models.Seat) error {
	_, err := t.tx.ExecContext(ctx, `UPDATE seats SET status = $1, price = $2 WHERE id = $3`,
		seat.Status, seat.Price, seat.ID)
	if err != nil {
		return fmt.Errorf("could not update seat %d: %w", seat.ID, err)
	}
	return nil
}
