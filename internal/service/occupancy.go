package service

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"icearena/internal/models"
)

// OccupiedInterval - занятый отрезок времени. Occupant заполняется только для одобренных заявок.
type OccupiedInterval struct {
	models.TimeInterval
	Occupant *string
}

// Occupancy is everything that holds the ice on one date, grouped by source.
type Occupancy struct {
	Schedules []OccupiedInterval
	Events    []OccupiedInterval
	Bookings  []OccupiedInterval
}

type OccupancyAggregator struct {
	schedules ScheduleReader
	events    EventReader
	bookings  BookingStore
}

func NewOccupancyAggregator(schedules ScheduleReader, events EventReader, bookings BookingStore) *OccupancyAggregator {
	return &OccupancyAggregator{
		schedules: schedules,
		events:    events,
		bookings:  bookings,
	}
}

// For collects the occupied intervals of date. The three reads run concurrently.
func (a *OccupancyAggregator) For(ctx context.Context, date models.Date) (*Occupancy, error) {
	weekday := models.Weekday(date.Time)
	occ := &Occupancy{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		schedules, err := a.schedules.SchedulesFor(gctx, weekday)
		if err != nil {
			return fmt.Errorf("failed to get schedules: %w", err)
		}
		occ.Schedules = lo.Map(schedules, func(s models.ClassSchedule, _ int) OccupiedInterval {
			return OccupiedInterval{TimeInterval: s.IntervalOn(date)}
		})
		return nil
	})

	g.Go(func() error {
		events, err := a.events.EventsOn(gctx, date)
		if err != nil {
			return fmt.Errorf("failed to get events: %w", err)
		}
		occ.Events = lo.Map(events, func(e models.Event, _ int) OccupiedInterval {
			return OccupiedInterval{TimeInterval: e.Interval()}
		})
		return nil
	})

	g.Go(func() error {
		bookings, err := a.bookings.ApprovedOn(gctx, date)
		if err != nil {
			return fmt.Errorf("failed to get bookings: %w", err)
		}
		occ.Bookings = lo.Map(bookings, func(b models.IceBooking, _ int) OccupiedInterval {
			return OccupiedInterval{TimeInterval: b.Interval(), Occupant: lo.ToPtr(b.Name)}
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return occ, nil
}

// firstOverlap returns the first interval of list that overlaps i.
func firstOverlap(list []OccupiedInterval, i models.TimeInterval) (OccupiedInterval, bool) {
	return lo.Find(list, func(o OccupiedInterval) bool {
		return models.Overlaps(o.TimeInterval, i)
	})
}
