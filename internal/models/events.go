package models

import "time"

// NATS Event Types
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
	EventTicketIssued         = "ticket.issued"
	EventSeatsGenerated       = "seats.generated"
)

// BookingCreatedEvent represents a new ice booking request
type BookingCreatedEvent struct {
	BookingID     int64     `json:"booking_id"`
	UserID        *int64    `json:"user_id"`
	Date          Date      `json:"date"`
	Start         TimeOfDay `json:"time_start"`
	End           TimeOfDay `json:"time_end"`
	DurationHours float64   `json:"duration_hours"`
	Timestamp     time.Time `json:"timestamp"`
}

// BookingStatusChangedEvent is published after an administrator approves or rejects a booking
type BookingStatusChangedEvent struct {
	BookingID int64         `json:"booking_id"`
	Date      Date          `json:"date"`
	OldStatus BookingStatus `json:"old_status"`
	NewStatus BookingStatus `json:"new_status"`
	Timestamp time.Time     `json:"timestamp"`
}

// TicketIssuedEvent represents a sold seat
type TicketIssuedEvent struct {
	TicketID  int64     `json:"ticket_id"`
	EventID   int64     `json:"event_id"`
	SeatID    int64     `json:"seat_id"`
	UserID    int64     `json:"user_id"`
	Price     Money     `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// SeatsGeneratedEvent is published after a seat grid replaced a schema's seats
type SeatsGeneratedEvent struct {
	EventID   int64     `json:"event_id"`
	SchemaID  int64     `json:"schema_id"`
	Seats     int       `json:"seats"`
	Timestamp time.Time `json:"timestamp"`
}
