package repository

import (
	"context"
	"fmt"

	"icearena/internal/database"
	"icearena/internal/models"
)

type ScheduleRepository struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// SchedulesFor - занятия секций в указанный день недели (0 = понедельник)
func (r *ScheduleRepository) SchedulesFor(ctx context.Context, weekday int) ([]models.ClassSchedule, error) {
	schedules := []models.ClassSchedule{}
	query := `
		SELECT id, group_id, day_of_week, time_start, time_end
		FROM class_schedules
		WHERE day_of_week = $1
		ORDER BY time_start`

	if err := r.db.SelectContext(ctx, &schedules, query, weekday); err != nil {
		return nil, fmt.Errorf("could not select schedules: %w", err)
	}
	return schedules, nil
}

func (r *ScheduleRepository) Create(ctx context.Context, s *models.ClassSchedule) error {
	query := `
		INSERT INTO class_schedules (group_id, day_of_week, time_start, time_end)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return r.db.QueryRowxContext(ctx, query, s.GroupID, s.DayOfWeek, s.Start, s.End).Scan(&s.ID)
}
