package models

import "time"

// EventDuration - фиксированная длительность занятости льда мероприятием.
const EventDuration = 2 * time.Hour

// TimeInterval is a half-open interval [Start, End) on a calendar date.
type TimeInterval struct {
	Date  Date      `json:"date"`
	Start TimeOfDay `json:"time_start"`
	End   TimeOfDay `json:"time_end"`
}

// Valid reports whether the interval is non-empty.
func (i TimeInterval) Valid() bool {
	return i.End > i.Start
}

func (i TimeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps is the only interval predicate used across the system:
// touching endpoints do not overlap.
func Overlaps(a, b TimeInterval) bool {
	return !(a.End <= b.Start || a.Start >= b.End)
}

// EventInterval returns the window an event occupies on its calendar date.
// Windows running past midnight are clamped to 24:00.
func EventInterval(startsAt time.Time) TimeInterval {
	start := TimeOfDayOf(startsAt)
	return TimeInterval{
		Date:  NewDate(startsAt),
		Start: start,
		End:   start.Add(EventDuration),
	}
}
