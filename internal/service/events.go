package service

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	apperrors "icearena/internal/errors"
	"icearena/internal/models"
)

type EventService struct {
	events EventReader
}

func NewEventService(events EventReader) *EventService {
	return &EventService{events: events}
}

// ListOn - афиша на дату. Неактивные мероприятия в афишу не попадают,
// хотя лед они по-прежнему занимают.
func (s *EventService) ListOn(ctx context.Context, date models.Date) ([]models.Event, error) {
	events, err := s.events.EventsOn(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return lo.Filter(events, func(e models.Event, _ int) bool {
		return e.IsActive
	}), nil
}

func (s *EventService) Get(ctx context.Context, id int64) (*models.Event, error) {
	return activeEvent(ctx, s.events, id)
}

// activeEvent loads an event visible to the public. Inactive events are reported as missing.
func activeEvent(ctx context.Context, events EventReader, id int64) (*models.Event, error) {
	event, err := events.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil || !event.IsActive {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "Мероприятие не найдено")
	}
	return event, nil
}
