package types

import (
	"fmt"
	"strings"
	"time"
)

// Month is a month in a specific year.
type Month struct {
	year  int
	month time.Month
}

// NewMonth returns a new Month.
func NewMonth(year int, month time.Month) Month {
	d := NewDate(year, month, 1)
	return Month{d.Year(), d.Month()}
}

// MonthOf returns the Month in which a date occurs.
func MonthOf(d Date) Month {
	return Month{d.Year(), d.Month()}
}

// ParseMonth parses a "YYYY-MM" string and returns the Month value it represents.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Month{}, err
	}

	return NewMonth(t.Year(), t.Month()), nil
}

// String returns the month formatted as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.year, m.month)
}

// IsZero reports if the month is the zero value.
func (m Month) IsZero() bool {
	return m == Month{}
}

// First returns the first day of the month.
func (m Month) First() Date {
	return Date{m.year, m.month, 1}
}

// Last returns the last day of the month.
func (m Month) Last() Date {
	return Date{m.year, m.month, DaysIn(m.year, m.month)}
}

// AddDate adds a specified amount of years and months.
func (m Month) AddDate(years, months int) Month {
	return MonthOf(m.First().AddMonths(12*years + months))
}

// Contains reports whether the date is in the month.
func (m Month) Contains(d Date) bool {
	return d.Year() == m.year && d.Month() == m.month
}

// UnmarshalParam implements gin's BindUnmarshaler for query binding.
func (m *Month) UnmarshalParam(param string) error {
	if param == "" {
		*m = Month{}
		return nil
	}

	parsed, err := ParseMonth(param)
	if err != nil {
		return err
	}

	*m = parsed
	return nil
}
