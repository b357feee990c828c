package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"icearena/internal/database"
	"icearena/internal/models"
)

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, title, description, event_type, starts_at, price_min, price_max, is_active, created_at`

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (title, description, event_type, starts_at, price_min, price_max, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return r.db.QueryRowxContext(ctx, query,
		event.Title,
		event.Description,
		event.Type,
		event.StartsAt,
		event.PriceMin,
		event.PriceMax,
		event.IsActive,
	).Scan(&event.ID, &event.CreatedAt)
}

// GetByID returns nil, nil when the event does not exist.
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event := &models.Event{}
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	err := r.db.GetContext(ctx, event, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get event %d: %w", id, err)
	}
	return event, nil
}

// EventsOn - все мероприятия, начинающиеся в указанную дату, включая неактивные
func (r *EventRepository) EventsOn(ctx context.Context, date models.Date) ([]models.Event, error) {
	events := []models.Event{}
	query := `SELECT ` + eventColumns + ` FROM events WHERE DATE(starts_at) = $1 ORDER BY starts_at`

	if err := r.db.SelectContext(ctx, &events, query, date); err != nil {
		return nil, fmt.Errorf("could not select events on %s: %w", date, err)
	}
	return events, nil
}
