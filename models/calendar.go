package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// MinuteOfDay is a wall-clock time expressed as minutes from midnight
// (e.g., 540 for 9:00 AM). All slot arithmetic happens in this unit.
type MinuteOfDay int

// Clock renders the minute as "HH:MM" for logs and API payloads.
func (m MinuteOfDay) Clock() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// ParseClock parses "HH:MM" into a MinuteOfDay.
func ParseClock(s string) (MinuteOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return MinuteOfDay(t.Hour()*60 + t.Minute()), nil
}

// CalendarDate is a timezone-naive local calendar date. It is constructed
// only from (year, month, day) components and never round-trips through an
// instant, so leave boundaries cannot drift by a day under UTC conversion.
//
// The single instant conversion boundary for the whole service is At():
// ledger entries carry a CalendarDate plus MinuteOfDay pair, and anything
// that needs a time.Time (reminder scheduling, "has this slot passed")
// goes through At with an explicit location.
type CalendarDate struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// NewCalendarDate builds a date from components.
func NewCalendarDate(year int, month time.Month, day int) CalendarDate {
	return CalendarDate{Year: year, Month: month, Day: day}
}

// DateOf extracts the calendar date of an instant in that instant's location.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// ParseCalendarDate parses the wire format "2006-01-02". The parse is done
// component-wise, not through time.Parse's UTC normalization. Exactly ten
// characters; no trailing input, no calendar-impossible days.
func ParseCalendarDate(s string) (CalendarDate, error) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return CalendarDate{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	var y, m, d int
	if _, err := fmt.Sscanf(s, "%4d-%2d-%2d", &y, &m, &d); err != nil {
		return CalendarDate{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", s, err)
	}
	if m < 1 || m > 12 {
		return CalendarDate{}, fmt.Errorf("invalid date %q: month out of range", s)
	}
	if d < 1 || d > daysInMonth(y, time.Month(m)) {
		return CalendarDate{}, fmt.Errorf("invalid date %q: day out of range", s)
	}
	return CalendarDate{Year: y, Month: time.Month(m), Day: d}, nil
}

// daysInMonth reports the length of the month, leap years included.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Weekday reports the weekday of the date.
func (d CalendarDate) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

// At pairs the date with a minute-of-day in the given location. This is the
// documented CalendarDate -> instant boundary; see the type comment.
func (d CalendarDate) At(m MinuteOfDay, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, int(m)/60, int(m)%60, 0, 0, loc)
}

// AddDays returns the date shifted by n calendar days.
func (d CalendarDate) AddDays(n int) CalendarDate {
	return DateOf(time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n))
}

// Compare returns -1, 0 or 1 ordering two dates.
func (d CalendarDate) Compare(o CalendarDate) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(int(d.Month) - int(o.Month))
	default:
		return sign(d.Day - o.Day)
	}
}

func (d CalendarDate) Before(o CalendarDate) bool { return d.Compare(o) < 0 }
func (d CalendarDate) After(o CalendarDate) bool  { return d.Compare(o) > 0 }
func (d CalendarDate) Equal(o CalendarDate) bool  { return d.Compare(o) == 0 }

func (d CalendarDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// MarshalJSON encodes the date as its "YYYY-MM-DD" wire form.
func (d CalendarDate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *CalendarDate) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("calendar date must be a JSON string")
	}
	parsed, err := ParseCalendarDate(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalBSONValue stores the date as a plain "YYYY-MM-DD" string so that
// range queries on date fields stay lexicographically ordered.
func (d CalendarDate) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(d.String())
}

func (d *CalendarDate) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var s string
	if err := bson.UnmarshalValue(t, data, &s); err != nil {
		return err
	}
	parsed, err := ParseCalendarDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
