package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Clock is a wall-clock time of day in minutes since midnight. Values past
// 24:00 denote the early hours of the following day.
type Clock int

// NewClock returns the clock for h:m.
func NewClock(h, m int) Clock { return Clock(h*60 + m) }

// ParseClock parses "HH:MM".
func ParseClock(s string) (Clock, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, NewValidationError("time", fmt.Sprintf("invalid clock %q", s))
	}
	if h < 0 || h > 47 || m < 0 || m > 59 {
		return 0, NewValidationError("time", fmt.Sprintf("clock out of range %q", s))
	}
	return NewClock(h, m), nil
}

// Add returns c shifted by minutes.
func (c Clock) Add(minutes int) Clock { return c + Clock(minutes) }

// Sub returns c - o in minutes.
func (c Clock) Sub(o Clock) int { return int(c - o) }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

const dateLayout = "2006-01-02"

// Date is a calendar date without a time of day.
type Date struct {
	t time.Time
}

// NewDate returns the date for y-m-d.
func NewDate(y int, m time.Month, d int) Date {
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, NewValidationError("date", fmt.Sprintf("invalid date %q", s))
	}
	return Date{t: t}, nil
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// IsZero reports whether d is unset.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time { return d.t }

// Equal reports whether both dates name the same day.
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

// At returns the instant of clock c on d in loc.
func (d Date) At(c Clock, loc *time.Location) time.Time {
	return time.Date(d.t.Year(), d.t.Month(), d.t.Day(), int(c)/60, int(c)%60, 0, 0, loc)
}

func (d Date) String() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	v, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}
