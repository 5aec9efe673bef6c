package recurrence

import (
	"iter"

	"github.com/reckon-ledger/reckon/internal/types"
	"github.com/rs/zerolog/log"
)

// DefaultMaxIterations bounds the number of steps a projection takes.
const DefaultMaxIterations = 50

// Window is the inclusive range of dates a projection is requested for.
type Window struct {
	Start types.Date `json:"start" example:"2024-01-01"`
	End   types.Date `json:"end" example:"2024-01-31"`
}

// MonthWindow returns the window covering the whole month.
func MonthWindow(m types.Month) Window {
	return Window{Start: m.First(), End: m.Last()}
}

// Contains reports whether d is inside the window.
func (w Window) Contains(d types.Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Options configure a projection.
type Options struct {
	MaxIterations int // Hard ceiling on steps, DefaultMaxIterations when <= 0
}

func (o Options) maxIterations() int {
	if o.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return o.MaxIterations
}

// Dates returns the occurrences after anchor that fall into the window.
//
// The n-th date is the anchor advanced by n intervals in one step. Chaining
// Next would clamp once and stay clamped, so a rule anchored on January
// 31st would continue on the 29th after February.
//
// The anchor itself is never yielded. Every step counts against the
// iteration ceiling, including steps that land before the window start.
// The sequence ends when a date passes the window end or the rule's end
// date, when the ceiling is reached, or when a step does not move forward.
// Hitting the ceiling is not an error, the sequence is just shorter.
func Dates(anchor types.Date, rule Rule, window Window, opts Options) iter.Seq[types.Date] {
	return func(yield func(types.Date) bool) {
		if !rule.Recurs() {
			return
		}

		if !rule.Frequency.Valid() {
			log.Warn().Str("anchor", anchor.String()).Str("frequency", string(rule.Frequency)).Msg("projection skipped for unknown frequency")
			return
		}

		if rule.Interval > MaxInterval {
			log.Warn().Str("anchor", anchor.String()).Int("interval", rule.Interval).Msg("projection skipped for oversized interval")
			return
		}

		limit := opts.maxIterations()
		previous := anchor

		for i := 1; i <= limit; i++ {
			next, err := step(anchor, rule.Every(rule.Interval*i))
			if err != nil {
				log.Warn().Err(err).Str("anchor", anchor.String()).Msg("projection aborted")
				return
			}

			if !next.After(previous) {
				log.Debug().Str("anchor", anchor.String()).Int("interval", rule.Interval).Int("iteration", i).Msg("projection stopped, rule does not advance")
				return
			}
			previous = next

			if next.After(window.End) || rule.Ended(next) {
				return
			}

			if next.Before(window.Start) {
				continue
			}

			if !yield(next) {
				return
			}
		}

		log.Debug().Str("anchor", anchor.String()).Str("frequency", string(rule.Frequency)).Int("iterations", limit).Str("windowEnd", window.End.String()).Msg("projection truncated at iteration ceiling")
	}
}
