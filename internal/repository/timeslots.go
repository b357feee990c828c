package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"icearena/internal/database"
	apperrors "icearena/internal/errors"
	"icearena/internal/models"
)

type TimeSlotRepository struct {
	db *database.DB
}

func NewTimeSlotRepository(db *database.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

// ActiveSlotsFor returns active slots offered on weekday, including the ones without a weekday.
func (r *TimeSlotRepository) ActiveSlotsFor(ctx context.Context, weekday int) ([]models.TimeSlot, error) {
	slots := []models.TimeSlot{}
	query := `
		SELECT id, time_start, time_end, price, day_of_week, is_active
		FROM time_slots
		WHERE is_active AND (day_of_week IS NULL OR day_of_week = $1)
		ORDER BY time_start`

	if err := r.db.SelectContext(ctx, &slots, query, weekday); err != nil {
		return nil, fmt.Errorf("could not select time slots: %w", err)
	}
	return slots, nil
}

// Seed inserts slots that do not exist yet and returns how many were created.
// With replace set, every existing slot is removed first.
func (r *TimeSlotRepository) Seed(ctx context.Context, slots []models.TimeSlot, replace bool) (int, error) {
	for _, slot := range slots {
		if !slot.Interval().Valid() {
			return 0, apperrors.Wrapf(apperrors.ErrBadRequest,
				"Время окончания слота должно быть позже начала: %s-%s", slot.Start, slot.End)
		}
	}

	created := 0
	err := inTx(ctx, r.db.DB, func(ctx context.Context, tx *sqlx.Tx) error {
		if replace {
			if _, err := tx.ExecContext(ctx, `DELETE FROM time_slots`); err != nil {
				return fmt.Errorf("could not delete time slots: %w", err)
			}
		}

		for _, slot := range slots {
			res, err := tx.ExecContext(ctx, `
				INSERT INTO time_slots (time_start, time_end, price, day_of_week, is_active)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT DO NOTHING`,
				slot.Start, slot.End, slot.Price, slot.DayOfWeek, slot.IsActive)
			if err != nil {
				return fmt.Errorf("could not insert time slot %s-%s: %w", slot.Start, slot.End, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			created += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
