package recurrence

import (
	"fmt"
	"strings"
)

// Frequency is the period a rule repeats in.
type Frequency string

const (
	None    Frequency = "none"
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// Frequencies lists all supported frequencies.
var Frequencies = []Frequency{None, Daily, Weekly, Monthly, Yearly}

// ParseFrequency parses a frequency name. The empty string is None.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return None, nil
	}

	if !f.Valid() {
		return None, fmt.Errorf("%w: %q", ErrUnknownFrequency, s)
	}
	return f, nil
}

// Valid reports whether f is one of the supported frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case None, Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}
