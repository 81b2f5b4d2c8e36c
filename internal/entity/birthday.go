package entity

import (
	"fmt"
	"time"
)

// BirthdayLayout is the calendar-date layout used for JSON and text columns.
const BirthdayLayout = "2006-01-02"

// Birthday is a calendar date without time-of-day or zone.
//
// The zero value is not a valid birthday; use NewBirthday or BirthdayOf.
type Birthday struct {
	date time.Time
}

// NewBirthday builds a Birthday from its calendar parts.
func NewBirthday(year int, month time.Month, day int) Birthday {
	return Birthday{date: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// BirthdayOf drops the clock part of t, keeping the calendar date as seen in t's location.
func BirthdayOf(t time.Time) Birthday {
	return NewBirthday(t.Year(), t.Month(), t.Day())
}

// ParseBirthday parses a YYYY-MM-DD string.
func ParseBirthday(s string) (Birthday, error) {
	t, err := time.Parse(BirthdayLayout, s)
	if err != nil {
		return Birthday{}, fmt.Errorf("parse birthday %q: %w", s, err)
	}
	return BirthdayOf(t), nil
}

// Time returns the date as midnight UTC.
func (b Birthday) Time() time.Time {
	return b.date
}

// IsZero reports whether b was never set.
func (b Birthday) IsZero() bool {
	return b.date.IsZero()
}

// Equal reports whether both values denote the same calendar date.
func (b Birthday) Equal(other Birthday) bool {
	return b.date.Equal(other.date)
}

// Before reports whether b is strictly earlier than other.
func (b Birthday) Before(other Birthday) bool {
	return b.date.Before(other.date)
}

// Age returns the number of full years between the birthday and now.
func (b Birthday) Age(now time.Time) int {
	now = now.UTC()
	years := now.Year() - b.date.Year()
	if now.Month() < b.date.Month() || (now.Month() == b.date.Month() && now.Day() < b.date.Day()) {
		years--
	}
	return years
}

func (b Birthday) String() string {
	return b.date.Format(BirthdayLayout)
}

func (b Birthday) MarshalJSON() ([]byte, error) {
	return []byte(`"` + b.String() + `"`), nil
}

func (b *Birthday) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("birthday must be a JSON string, got %s", s)
	}
	parsed, err := ParseBirthday(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
