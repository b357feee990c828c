package service

import (
	"context"
	"encoding/json"

	"icearena/internal/models"
	"icearena/internal/repository"
)

// ScheduleReader - регулярные занятия секций по дню недели (0 = понедельник)
type ScheduleReader interface {
	SchedulesFor(ctx context.Context, weekday int) ([]models.ClassSchedule, error)
}

type EventReader interface {
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	EventsOn(ctx context.Context, date models.Date) ([]models.Event, error)
}

type TimeSlotReader interface {
	ActiveSlotsFor(ctx context.Context, weekday int) ([]models.TimeSlot, error)
}

type BookingStore interface {
	Create(ctx context.Context, booking *models.IceBooking) error
	GetByID(ctx context.Context, id int64) (*models.IceBooking, error)
	UpdateStatus(ctx context.Context, id int64, status models.BookingStatus) error
	ApprovedOn(ctx context.Context, date models.Date) ([]models.IceBooking, error)
	ListByUser(ctx context.Context, userID int64) ([]models.IceBooking, error)
}

// SeatTx is the unit of work of a purchase. Everything done through it
// is committed or rolled back together.
type SeatTx interface {
	LockSeat(ctx context.Context, seatID int64) (*models.Seat, error)
	SaveSeat(ctx context.Context, seat *models.Seat) error
	CreateTicket(ctx context.Context, ticket *models.Ticket) error
}

type SeatStore interface {
	ListByEvent(ctx context.Context, eventID int64) ([]models.Seat, error)
	ReplaceSeats(ctx context.Context, eventID int64, schemaData json.RawMessage, seats []models.Seat) (int64, error)
	InSeatTx(ctx context.Context, fn func(tx SeatTx) error) error
}

type TicketReader interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Ticket, error)
}

// Publisher отправляет доменные события в NATS
type Publisher interface {
	Publish(subject string, data interface{}) error
}

// AvailabilityCache хранит рассчитанную доступность по датам.
// Get на промахе отдает версию, под которой Set сохранит свежий результат;
// Invalidate меняет версию, и результат, посчитанный до нее, уже не читается.
type AvailabilityCache interface {
	GetAvailability(ctx context.Context, date models.Date) (models.AvailabilityResponse, int64, bool, error)
	SetAvailability(ctx context.Context, date models.Date, version int64, slots models.AvailabilityResponse) error
	InvalidateAvailability(ctx context.Context, date models.Date) error
}

type Services struct {
	Availability *AvailabilityService
	Bookings     *BookingService
	Events       *EventService
	Seats        *SeatService
	Tickets      *TicketService
}

// NewServices wires the services to Postgres repositories. cache may be nil.
func NewServices(repos *repository.Repositories, publisher Publisher, cache AvailabilityCache) *Services {
	occupancy := NewOccupancyAggregator(repos.Schedules, repos.Events, repos.Bookings)
	seats := seatStore{repos.Seats}

	return &Services{
		Availability: NewAvailabilityService(repos.TimeSlots, occupancy, cache),
		Bookings:     NewBookingService(repos.Bookings, occupancy, publisher, cache),
		Events:       NewEventService(repos.Events),
		Seats:        NewSeatService(seats, repos.Events, publisher),
		Tickets:      NewTicketService(seats, repos.Tickets, publisher),
	}
}

// seatStore adapts the repository transaction type to SeatTx.
type seatStore struct {
	*repository.SeatRepository
}

func (s seatStore) InSeatTx(ctx context.Context, fn func(tx SeatTx) error) error {
	return s.InTx(ctx, func(tx *repository.SeatTx) error {
		return fn(tx)
	})
}
