// Package recurrence computes the dates on which a recurring item occurs.
//
// Only a closed set of frequencies is supported, with an interval and an
// optional inclusive end date. There are no exception lists and no time
// zones, all dates are civil calendar dates.
package recurrence

import (
	"errors"
	"fmt"

	"github.com/reckon-ledger/reckon/internal/types"
)

// MaxInterval is the largest interval a rule accepts.
const MaxInterval = 1000

var (
	ErrUnknownFrequency = errors.New("unknown recurrence frequency")
	ErrInvalidInterval  = errors.New("the recurrence interval must be a positive number")
	ErrNoRecurrence     = errors.New("the rule does not recur")
	ErrIntervalTooLarge = fmt.Errorf("the recurrence interval must not be larger than %d", MaxInterval)
)

// Rule describes how an item repeats.
//
// A Rule is always owned by the item that carries it and is stored
// embedded in that item's table.
type Rule struct {
	Frequency Frequency   `json:"frequency" example:"monthly" gorm:"default:none"`
	Interval  int         `json:"interval" example:"1" gorm:"default:1"` // Every Interval periods
	EndDate   *types.Date `json:"endDate" example:"2025-12-31"`          // Last possible occurrence, inclusive
}

// NewRule returns a rule with the default interval of 1 and no end date.
func NewRule(f Frequency) Rule {
	return Rule{Frequency: f, Interval: 1}
}

// Until returns a copy of the rule ending on the given date.
func (r Rule) Until(end types.Date) Rule {
	r.EndDate = &end
	return r
}

// Every returns a copy of the rule with the interval set.
func (r Rule) Every(interval int) Rule {
	r.Interval = interval
	return r
}

// Recurs reports whether the rule produces more than the anchor occurrence.
func (r Rule) Recurs() bool {
	return r.Frequency != None && r.Frequency != ""
}

// Validate checks the rule for contract violations.
func (r Rule) Validate() error {
	if r.Frequency != "" && !r.Frequency.Valid() {
		return types.NewValidationError("frequency", ErrUnknownFrequency)
	}

	if r.Recurs() && r.Interval <= 0 {
		return types.NewValidationError("interval", ErrInvalidInterval)
	}

	if r.Interval > MaxInterval {
		return types.NewValidationError("interval", ErrIntervalTooLarge)
	}

	return nil
}

// Ended reports whether d is past the rule's end date.
func (r Rule) Ended(d types.Date) bool {
	return r.EndDate != nil && !r.EndDate.IsZero() && d.After(*r.EndDate)
}
