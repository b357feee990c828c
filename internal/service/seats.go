package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	apperrors "icearena/internal/errors"
	"icearena/internal/logger"
	"icearena/internal/models"
)

// Presets - типовые схемы залов
var Presets = map[string]models.SeatLayout{
	"small": {
		Sectors:     []string{"A", "B"},
		Rows:        5,
		SeatsPerRow: 10,
		Tiers:       models.PriceTiers{FrontRows: 2, MiddleRows: 2},
	},
	"medium": {
		Sectors:     []string{"A", "B", "C"},
		Rows:        10,
		SeatsPerRow: 15,
		Tiers:       models.PriceTiers{FrontRows: 3, MiddleRows: 7},
	},
	"large": {
		Sectors:     []string{"A", "B", "C", "D"},
		Rows:        15,
		SeatsPerRow: 20,
		Tiers:       models.PriceTiers{FrontRows: 5, MiddleRows: 10},
	},
}

// TierPrice prices a row: front rows at max, middle rows at the midpoint, the rest at min.
func TierPrice(row int, tiers models.PriceTiers, minPrice, maxPrice models.Money) models.Money {
	switch {
	case row <= tiers.FrontRows:
		return maxPrice
	case row <= tiers.MiddleRows:
		return (minPrice + maxPrice) / 2
	default:
		return minPrice
	}
}

// BuildSeats lays out the grid sector by sector, row by row, starting from row 1 and seat 1.
func BuildSeats(layout models.SeatLayout, minPrice, maxPrice models.Money) []models.Seat {
	seats := make([]models.Seat, 0, layout.Capacity())
	for _, sector := range layout.Sectors {
		for row := 1; row <= layout.Rows; row++ {
			price := TierPrice(row, layout.Tiers, minPrice, maxPrice)
			for number := 1; number <= layout.SeatsPerRow; number++ {
				seats = append(seats, models.Seat{
					Sector: sector,
					Row:    row,
					Number: number,
					Price:  price,
					Status: models.SeatStatusAvailable,
				})
			}
		}
	}
	return seats
}

// LayoutFromRequest resolves a preset or an explicit layout.
func LayoutFromRequest(req *models.GenerateSeatsRequest) (models.SeatLayout, error) {
	if req.Preset != "" {
		layout, ok := Presets[req.Preset]
		if !ok {
			return models.SeatLayout{}, apperrors.Wrapf(apperrors.ErrBadRequest, "Неизвестный тип зала: %s", req.Preset)
		}
		return layout, nil
	}

	if len(req.Sectors) == 0 || req.Rows <= 0 || req.SeatsPerRow <= 0 {
		return models.SeatLayout{}, apperrors.Wrap(apperrors.ErrBadRequest,
			"Укажите preset либо sectors, rows и seats_per_row")
	}
	if dup := lo.FindDuplicates(req.Sectors); len(dup) > 0 {
		return models.SeatLayout{}, apperrors.Wrapf(apperrors.ErrBadRequest, "Сектор %s указан несколько раз", dup[0])
	}
	return models.SeatLayout{
		Sectors:     req.Sectors,
		Rows:        req.Rows,
		SeatsPerRow: req.SeatsPerRow,
		Tiers:       req.Tiers,
	}, nil
}

type SeatService struct {
	seats     SeatStore
	events    EventReader
	publisher Publisher
}

func NewSeatService(seats SeatStore, events EventReader, publisher Publisher) *SeatService {
	return &SeatService{
		seats:     seats,
		events:    events,
		publisher: publisher,
	}
}

func (s *SeatService) getEvent(ctx context.Context, eventID int64) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "Мероприятие не найдено")
	}
	return event, nil
}

// List - места мероприятия
func (s *SeatService) List(ctx context.Context, eventID int64) ([]models.Seat, error) {
	if _, err := activeEvent(ctx, s.events, eventID); err != nil {
		return nil, err
	}

	seats, err := s.seats.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seats: %w", err)
	}
	return seats, nil
}

// Generate replaces the event's seats with the layout, priced between the event's min and max.
func (s *SeatService) Generate(ctx context.Context, eventID int64, layout models.SeatLayout) (*models.GenerateSeatsResponse, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if layout.Capacity() == 0 {
		return nil, apperrors.Wrap(apperrors.ErrBadRequest, "Схема зала не содержит мест")
	}

	schemaData, err := json.Marshal(layout)
	if err != nil {
		return nil, fmt.Errorf("failed to encode layout: %w", err)
	}

	seats := BuildSeats(layout, event.PriceMin, event.PriceMax)
	schemaID, err := s.seats.ReplaceSeats(ctx, eventID, schemaData, seats)
	if err != nil {
		return nil, err
	}

	log := logger.WithContext(ctx)
	log.Info("Seats generated",
		zap.Int64("event_id", eventID),
		zap.Int64("schema_id", schemaID),
		zap.Int("seats", len(seats)))

	generated := models.SeatsGeneratedEvent{
		EventID:   eventID,
		SchemaID:  schemaID,
		Seats:     len(seats),
		Timestamp: time.Now(),
	}
	if err := s.publisher.Publish(models.EventSeatsGenerated, generated); err != nil {
		log.Error("Failed to publish seats generated event",
			zap.Error(err),
			zap.Int64("event_id", eventID),
			zap.String("event_type", models.EventSeatsGenerated))
	}

	return &models.GenerateSeatsResponse{SchemaID: schemaID, Seats: len(seats)}, nil
}
