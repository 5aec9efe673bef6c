// Package types implements special types for reckon.
package types

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateFormat is the format dates are read and written in.
const DateFormat = "2006-01-02"

// Date is a calendar date without time of day or location.
//
// All arithmetic on Date is civil calendar arithmetic, never
// elapsed duration arithmetic.
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns a normalized Date. Overflowing days and months
// roll over like they do with time.Date.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the Date on which t occurs in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{y, m, d}
}

// ParseDate parses a "2006-01-02" string. RFC3339 timestamps are
// accepted as well, only their date part is kept.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)

	t, err := time.Parse(DateFormat, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return Date{}, fmt.Errorf("invalid date %q, want format %q: %w", s, DateFormat, err)
		}
	}

	return DateOf(t), nil
}

// MustParseDate is like ParseDate but panics on error.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC)
}

func (d Date) Year() int          { return d.y }
func (d Date) Month() time.Month  { return d.m }
func (d Date) Day() int           { return d.d }
func (d Date) IsZero() bool       { return d == Date{} }
func (d Date) Before(e Date) bool { return d.Compare(e) < 0 }
func (d Date) After(e Date) bool  { return d.Compare(e) > 0 }
func (d Date) Equal(e Date) bool  { return d == e }

// Compare returns -1 if d is before e, +1 if d is after e and 0 if they are the same day.
func (d Date) Compare(e Date) int {
	switch {
	case d.y != e.y:
		return cmp(d.y, e.y)
	case d.m != e.m:
		return cmp(int(d.m), int(e.m))
	default:
		return cmp(d.d, e.d)
	}
}

func cmp(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// AddDays returns the date n days after d. n may be negative.
func (d Date) AddDays(n int) Date {
	return NewDate(d.y, d.m, d.d+n)
}

// AddMonths returns the date n months after d.
//
// Unlike time.Time.AddDate, the day of month is clamped to the last
// day of the target month instead of overflowing into the next one:
// January 31st plus one month is the last day of February.
func (d Date) AddMonths(n int) Date {
	// Months are counted from 0 so that the modulo arithmetic works
	total := d.y*12 + int(d.m) - 1 + n
	year := total / 12
	if total < 0 && total%12 != 0 {
		year--
	}
	month := time.Month(total - year*12 + 1)

	day := d.d
	if last := DaysIn(year, month); day > last {
		day = last
	}

	return Date{year, month, day}
}

// AddYears returns the date n years after d, clamping February 29th
// to February 28th in non-leap years.
func (d Date) AddYears(n int) Date {
	return d.AddMonths(12 * n)
}

// DaysIn returns the number of days in the month of the given year.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// String returns the date formatted as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.y, d.m, d.d)
}

// MarshalJSON implements the json.Marshaler interface.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (d *Date) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		*d = Date{}
		return nil
	}

	parsed, err := ParseDate(value)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

// UnmarshalParam implements gin's BindUnmarshaler for query and form binding.
func (d *Date) UnmarshalParam(param string) error {
	return d.UnmarshalJSON([]byte(param))
}

// Scan writes the value from the database.
func (d *Date) Scan(value any) error {
	if b, ok := value.([]byte); ok {
		value = string(b)
	}

	if s, ok := value.(string); ok {
		// SQLite may hand back a full timestamp for date columns
		if len(s) > len(DateFormat) {
			s = s[:len(DateFormat)]
		}

		parsed, err := ParseDate(s)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}

	nullTime := &sql.NullTime{}
	err := nullTime.Scan(value)
	if err != nil {
		return err
	}

	if !nullTime.Valid {
		*d = Date{}
		return nil
	}

	*d = DateOf(nullTime.Time)
	return nil
}

// Value returns the value for the SQL driver to write to the database.
//
// Dates are stored as YYYY-MM-DD text so that they compare correctly
// as strings.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// GormDataType defines the data type used by gorm for the type.
func (Date) GormDataType() string {
	return "date"
}
