package recurrence

import (
	"fmt"

	"github.com/reckon-ledger/reckon/internal/types"
)

// Next returns the occurrence following anchor.
//
// It fails for rules that violate their contract: an unknown frequency,
// an interval that is not positive, or a rule that does not recur.
func Next(anchor types.Date, rule Rule) (types.Date, error) {
	if err := rule.Validate(); err != nil {
		return types.Date{}, err
	}

	if !rule.Recurs() {
		return types.Date{}, types.NewValidationError("frequency", ErrNoRecurrence)
	}

	return step(anchor, rule)
}

// step advances anchor by one period without validating the interval.
func step(anchor types.Date, rule Rule) (types.Date, error) {
	switch rule.Frequency {
	case Daily:
		return anchor.AddDays(rule.Interval), nil
	case Weekly:
		return anchor.AddDays(7 * rule.Interval), nil
	case Monthly:
		return anchor.AddMonths(rule.Interval), nil
	case Yearly:
		return anchor.AddYears(rule.Interval), nil
	}

	return types.Date{}, types.NewValidationError("frequency", fmt.Errorf("%w: %q", ErrUnknownFrequency, rule.Frequency))
}
