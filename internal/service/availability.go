package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"icearena/internal/logger"
	"icearena/internal/metrics"
	"icearena/internal/models"
)

// DefaultSlotPrice - цена часа по умолчанию, если слоты не настроены
var DefaultSlotPrice = models.Rubles(4000)

// DefaultSlots returns the fallback hourly grid 08:00-22:00.
func DefaultSlots() []models.TimeSlot {
	slots := make([]models.TimeSlot, 0, 14)
	for hour := 8; hour < 22; hour++ {
		slots = append(slots, models.TimeSlot{
			Start:    models.Clock(hour, 0),
			End:      models.Clock(hour+1, 0),
			Price:    DefaultSlotPrice,
			IsActive: true,
		})
	}
	return slots
}

type AvailabilityService struct {
	slots     TimeSlotReader
	occupancy *OccupancyAggregator
	cache     AvailabilityCache
}

func NewAvailabilityService(slots TimeSlotReader, occupancy *OccupancyAggregator, cache AvailabilityCache) *AvailabilityService {
	return &AvailabilityService{
		slots:     slots,
		occupancy: occupancy,
		cache:     cache,
	}
}

// ForDate returns every candidate slot of date with its availability.
func (s *AvailabilityService) ForDate(ctx context.Context, date models.Date) (models.AvailabilityResponse, error) {
	log := logger.WithContext(ctx).With(zap.String("date", date.String()))

	var (
		version   int64
		cacheable bool
	)
	if s.cache != nil {
		cached, v, ok, err := s.cache.GetAvailability(ctx, date)
		switch {
		case err != nil:
			log.Warn("Availability cache lookup failed", zap.Error(err))
		case ok:
			metrics.AvailabilityCacheHits.Inc()
			return cached, nil
		default:
			version, cacheable = v, true
		}
		metrics.AvailabilityCacheMisses.Inc()
	}

	result, err := s.resolve(ctx, date)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.SetAvailability(ctx, date, version, result); err != nil {
			log.Warn("Failed to cache availability", zap.Error(err))
		}
	}
	return result, nil
}

func (s *AvailabilityService) resolve(ctx context.Context, date models.Date) (models.AvailabilityResponse, error) {
	candidates, err := s.slots.ActiveSlotsFor(ctx, models.Weekday(date.Time))
	if err != nil {
		return nil, fmt.Errorf("failed to get time slots: %w", err)
	}
	if len(candidates) == 0 {
		candidates = DefaultSlots()
	}

	occ, err := s.occupancy.For(ctx, date)
	if err != nil {
		return nil, err
	}

	result := make(models.AvailabilityResponse, 0, len(candidates))
	for _, slot := range candidates {
		available, occupant := resolveSlot(occ, models.TimeInterval{Date: date, Start: slot.Start, End: slot.End})
		result = append(result, models.AvailableSlot{
			Date:        date,
			Start:       slot.Start,
			End:         slot.End,
			Price:       slot.Price,
			IsAvailable: available,
			BookedBy:    occupant,
		})
	}
	return result, nil
}

// resolveSlot checks schedules, then events, then approved bookings.
// Only a booking names its occupant.
func resolveSlot(occ *Occupancy, slot models.TimeInterval) (bool, *string) {
	if _, busy := firstOverlap(occ.Schedules, slot); busy {
		return false, nil
	}
	if _, busy := firstOverlap(occ.Events, slot); busy {
		return false, nil
	}
	if booking, busy := firstOverlap(occ.Bookings, slot); busy {
		return false, booking.Occupant
	}
	return true, nil
}
