package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Money - сумма в копейках. В JSON отдается строкой с двумя знаками после запятой.
type Money int64

// Rubles converts a whole-ruble amount to Money.
func Rubles(r int64) Money {
	return Money(r * 100)
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f", float64(m)/100.0)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts both "4000.00" and 4000.
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("invalid amount %s", data)
		}
		*m = Money(math.Round(f * 100))
		return nil
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMoney parses a decimal ruble amount such as "4000.00".
func ParseMoney(s string) (Money, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if f < 0 {
		return 0, fmt.Errorf("negative amount %q", s)
	}
	return Money(math.Round(f * 100)), nil
}

// TimeSlot - слот аренды льда, настраивается администратором
type TimeSlot struct {
	ID        int64     `json:"id" db:"id"`
	Start     TimeOfDay `json:"time_start" db:"time_start"`
	End       TimeOfDay `json:"time_end" db:"time_end"`
	Price     Money     `json:"price" db:"price"`
	DayOfWeek *int      `json:"day_of_week" db:"day_of_week"` // nil = все дни
	IsActive  bool      `json:"is_active" db:"is_active"`
}

// Interval returns the slot window without a date.
func (s TimeSlot) Interval() TimeInterval {
	return TimeInterval{Start: s.Start, End: s.End}
}

// AppliesTo reports whether the slot is offered on the given weekday (0 = Monday).
func (s TimeSlot) AppliesTo(weekday int) bool {
	return s.IsActive && (s.DayOfWeek == nil || *s.DayOfWeek == weekday)
}

// ClassSchedule - регулярное занятие группы секции в определенный день недели
type ClassSchedule struct {
	ID        int64     `json:"id" db:"id"`
	GroupID   int64     `json:"group_id" db:"group_id"`
	DayOfWeek int       `json:"day_of_week" db:"day_of_week"`
	Start     TimeOfDay `json:"time_start" db:"time_start"`
	End       TimeOfDay `json:"time_end" db:"time_end"`
}

// IntervalOn returns the schedule's occupied window on date.
func (s ClassSchedule) IntervalOn(date Date) TimeInterval {
	return TimeInterval{Date: date, Start: s.Start, End: s.End}
}

type EventType string

const (
	EventTypeHockey        EventType = "hockey"
	EventTypeFigureSkating EventType = "figure_skating"
	EventTypeShow          EventType = "show"
	EventTypeCompetition   EventType = "competition"
)

// Event represents an arena event with a seated audience
type Event struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Type        EventType `json:"event_type" db:"event_type"`
	StartsAt    time.Time `json:"starts_at" db:"starts_at"`
	PriceMin    Money     `json:"price_min" db:"price_min"`
	PriceMax    Money     `json:"price_max" db:"price_max"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func (e Event) Interval() TimeInterval {
	return EventInterval(e.StartsAt)
}

type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "pending"
	BookingStatusApproved BookingStatus = "approved"
	BookingStatusRejected BookingStatus = "rejected"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusApproved, BookingStatusRejected:
		return true
	}
	return false
}

// IceBooking - заявка на аренду льда
type IceBooking struct {
	ID            int64         `json:"id" db:"id"`
	UserID        *int64        `json:"user_id" db:"user_id"`
	Date          Date          `json:"date" db:"date"`
	Start         TimeOfDay     `json:"time_start" db:"time_start"`
	End           TimeOfDay     `json:"time_end" db:"time_end"`
	DurationHours float64       `json:"duration_hours" db:"duration_hours"`
	Name          string        `json:"name" db:"name"`
	Phone         string        `json:"phone" db:"phone"`
	Message       string        `json:"message" db:"message"`
	Status        BookingStatus `json:"status" db:"status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

func (b IceBooking) Interval() TimeInterval {
	return TimeInterval{Date: b.Date, Start: b.Start, End: b.End}
}

// SeatingSchema - схема зала, одна на мероприятие. SchemaData не интерпретируется.
type SeatingSchema struct {
	ID         int64           `json:"id" db:"id"`
	EventID    int64           `json:"event_id" db:"event_id"`
	SchemaData json.RawMessage `json:"schema_data" db:"schema_data"`
}

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusReserved  SeatStatus = "reserved"
	SeatStatusSold      SeatStatus = "sold"
)

// CanTransition reports whether a seat may move from s to next.
// available -> reserved -> sold, available -> sold.
func (s SeatStatus) CanTransition(next SeatStatus) bool {
	switch s {
	case SeatStatusAvailable:
		return next == SeatStatusReserved || next == SeatStatusSold
	case SeatStatusReserved:
		return next == SeatStatusSold
	}
	return false
}

// Seat represents a seat of an event seating schema
type Seat struct {
	ID       int64      `json:"id" db:"id"`
	SchemaID int64      `json:"schema_id" db:"schema_id"`
	EventID  int64      `json:"event_id" db:"event_id"` // Not a column, joined from seating_schemas
	Sector   string     `json:"sector" db:"sector"`
	Row      int        `json:"row" db:"row_number"`
	Number   int        `json:"number" db:"seat_number"`
	Price    Money      `json:"price" db:"price"`
	Status   SeatStatus `json:"status" db:"status"`
}

type TicketStatus string

const (
	TicketStatusPending   TicketStatus = "pending"
	TicketStatusPaid      TicketStatus = "paid"
	TicketStatusCancelled TicketStatus = "cancelled"
)

// Ticket links one event, one seat and one purchaser
type Ticket struct {
	ID        int64        `json:"id" db:"id"`
	EventID   int64        `json:"event_id" db:"event_id"`
	SeatID    int64        `json:"seat_id" db:"seat_id"`
	UserID    int64        `json:"user_id" db:"user_id"`
	Status    TicketStatus `json:"status" db:"status"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}
