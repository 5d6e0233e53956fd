package dashboard

import (
	"errors"
	"time"
)

const dateLayout = "2006-01-02"

// Date identifies a single UTC calendar day. Day boundaries follow UTC
// regardless of the timestamp's original zone.
type Date struct {
	t time.Time
}

// DateOf truncates a timestamp to its UTC calendar date.
func DateOf(ts time.Time) Date {
	u := ts.UTC()
	return Date{t: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(value string) (Date, error) {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return Date{}, errors.New("dashboard: date must be YYYY-MM-DD")
	}
	return Date{t: parsed}, nil
}

// Before reports whether d is an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// Year returns the calendar year.
func (d Date) Year() int {
	return d.t.Year()
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return d.t
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.t.Format(dateLayout)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("dashboard: date must be a JSON string")
	}
	parsed, err := ParseDate(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
