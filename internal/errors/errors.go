package errors

import (
	"errors"
	"fmt"
)

var ErrUnauthorized = errors.New("user is not authorized")

// Ошибки предметной области. Сервисы оборачивают их сообщением для пользователя через Wrap.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrInvalidDuration  = errors.New("invalid duration")
	ErrRequiresApproval = errors.New("requires approval")
	ErrScheduleConflict = errors.New("schedule conflict")
	ErrEventConflict    = errors.New("event conflict")
	ErrSeatUnavailable  = errors.New("seat unavailable")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
)

// Error carries a human-readable message on top of one of the sentinel kinds.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Wrap attaches a user-facing message to kind.
func Wrap(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Wrapf is Wrap with formatting.
func Wrapf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Message returns the user-facing message of err, or fallback when err
// is not a domain error.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return fallback
}

// Code returns a stable machine-readable code for the kind of err.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrBadRequest):
		return "bad_request"
	case errors.Is(err, ErrInvalidDuration):
		return "invalid_duration"
	case errors.Is(err, ErrRequiresApproval):
		return "requires_approval"
	case errors.Is(err, ErrScheduleConflict):
		return "schedule_conflict"
	case errors.Is(err, ErrEventConflict):
		return "event_conflict"
	case errors.Is(err, ErrSeatUnavailable):
		return "seat_unavailable"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	}
	return "internal"
}
