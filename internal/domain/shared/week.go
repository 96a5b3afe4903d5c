package shared

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var weekPattern = regexp.MustCompile(`^(\d{4})-W(\d{2})$`)

// Week is an ISO-8601 week. The zero value is not a valid week.
type Week struct {
	Year   int
	Number int
}

// WeekOf returns the ISO week containing t
func WeekOf(t time.Time) Week {
	y, w := t.UTC().ISOWeek()
	return Week{Year: y, Number: w}
}

// CurrentWeek returns the ISO week containing now
func CurrentWeek() Week {
	return WeekOf(time.Now())
}

// ParseWeek parses "2026-W42"
func ParseWeek(s string) (Week, error) {
	m := weekPattern.FindStringSubmatch(s)
	if m == nil {
		return Week{}, NewDomainError("INVALID_WEEK", fmt.Sprintf("Invalid week %q, expected YYYY-Www", s))
	}
	year, _ := strconv.Atoi(m[1])
	number, _ := strconv.Atoi(m[2])
	w := Week{Year: year, Number: number}
	if !w.IsValid() {
		return Week{}, NewDomainError("INVALID_WEEK", fmt.Sprintf("Week %q does not exist", s))
	}
	return w, nil
}

// IsValid reports whether the week exists in its ISO year
func (w Week) IsValid() bool {
	if w.Number < 1 || w.Number > 53 {
		return false
	}
	return WeekOf(w.startUnchecked()) == w
}

// Start returns Monday 00:00 UTC of the week
func (w Week) Start() time.Time {
	return w.startUnchecked()
}

// End returns the start of the following week
func (w Week) End() time.Time {
	return w.Start().AddDate(0, 0, 7)
}

// Contains reports whether t falls inside the week
func (w Week) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(w.Start()) && t.Before(w.End())
}

// Next returns the following week
func (w Week) Next() Week {
	return WeekOf(w.End())
}

// Prev returns the preceding week
func (w Week) Prev() Week {
	return WeekOf(w.Start().AddDate(0, 0, -1))
}

// Before reports whether w is earlier than o
func (w Week) Before(o Week) bool {
	if w.Year != o.Year {
		return w.Year < o.Year
	}
	return w.Number < o.Number
}

// String formats as 2026-W42
func (w Week) String() string {
	return fmt.Sprintf("%04d-W%02d", w.Year, w.Number)
}

// Compact formats as 2026W42 for document numbers
func (w Week) Compact() string {
	return fmt.Sprintf("%04dW%02d", w.Year, w.Number)
}

// MarshalText implements encoding.TextMarshaler
func (w Week) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (w *Week) UnmarshalText(b []byte) error {
	parsed, err := ParseWeek(string(b))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// Value implements driver.Valuer so weeks are stored as text
func (w Week) Value() (driver.Value, error) {
	return w.String(), nil
}

// Scan implements sql.Scanner
func (w *Week) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return w.UnmarshalText([]byte(v))
	case []byte:
		return w.UnmarshalText(v)
	case nil:
		*w = Week{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into Week", src)
}

func (w Week) startUnchecked() time.Time {
	// Jan 4th is always in ISO week 1.
	jan4 := time.Date(w.Year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	week1Monday := jan4.AddDate(0, 0, -offset)
	return week1Monday.AddDate(0, 0, (w.Number-1)*7)
}
