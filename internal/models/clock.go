package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	MinutesPerDay = 24 * 60
	DateLayout    = "2006-01-02"
)

// TimeOfDay - время суток в минутах от полуночи.
// Допустимый диапазон 0..1440, где 1440 ("24:00") используется только как правая граница интервала.
type TimeOfDay int

// Clock builds a TimeOfDay from hours and minutes.
func Clock(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

var timeOfDayPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS". Seconds are accepted for
// compatibility with Postgres TIME output and must be zero.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	parts := timeOfDayPattern.FindStringSubmatch(s)
	if parts == nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}

	h, _ := strconv.Atoi(parts[1])
	m, _ := strconv.Atoi(parts[2])
	if h > 24 || m > 59 || (parts[3] != "" && parts[3] != "00") || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return Clock(h, m), nil
}

// TimeOfDayOf returns the wall-clock time of t.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return Clock(t.Hour(), t.Minute())
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// Add shifts the time by d, clamping to the [00:00, 24:00] range.
func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	v := int(t) + int(d/time.Minute)
	if v > MinutesPerDay {
		v = MinutesPerDay
	}
	if v < 0 {
		v = 0
	}
	return TimeOfDay(v)
}

// Sub returns the duration t-u.
func (t TimeOfDay) Sub(u TimeOfDay) time.Duration {
	return time.Duration(int(t)-int(u)) * time.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("time of day must be a string: %w", err)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Scan реализует sql.Scanner для колонок типа TIME.
func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*t = TimeOfDayOf(v)
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
}

func (t *TimeOfDay) scanString(s string) error {
	// Postgres может вернуть дробные секунды: 09:00:00.000000
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t TimeOfDay) Value() (driver.Value, error) {
	return fmt.Sprintf("%02d:%02d:00", t.Hour(), t.Minute()), nil
}

// ParseDate parses a calendar date in YYYY-MM-DD form as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// Weekday returns the day of week with Monday = 0 ... Sunday = 6.
func Weekday(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}

// Date - календарная дата без времени, сериализуется как YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	*d = Date{t}
	return nil
}

func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v)
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = Date{t}
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}
