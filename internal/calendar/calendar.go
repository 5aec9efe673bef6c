package calendar

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
	"github.com/reckon-ledger/reckon/internal/models"
	"github.com/reckon-ledger/reckon/internal/recurrence"
	"github.com/reckon-ledger/reckon/internal/types"
	ez_uuid "github.com/reckon-ledger/reckon/internal/uuid"
)

// Day holds all occurrences on a single date.
type Day struct {
	Date        types.Date   `json:"date" example:"2024-02-29"`
	Occurrences []Occurrence `json:"occurrences"`
}

// Calendar is the merged view of records and schedules for a window.
// Only days with at least one occurrence are listed.
type Calendar struct {
	Window recurrence.Window `json:"window"`
	Days   []Day             `json:"days"`
}

// On returns the occurrences on the given date.
func (c Calendar) On(d types.Date) []Occurrence {
	i, found := slices.BinarySearchFunc(c.Days, d, func(day Day, d types.Date) int {
		return day.Date.Compare(d)
	})
	if !found {
		return nil
	}
	return c.Days[i].Occurrences
}

// Len returns the number of occurrences in the calendar.
func (c Calendar) Len() int {
	n := 0
	for _, d := range c.Days {
		n += len(d.Occurrences)
	}
	return n
}

// projectedAt builds the occurrence of the schedule on date d.
func projectedAt(s models.Schedule, d types.Date) Projected {
	return Projected{
		ID:          ez_uuid.Derive(s.ID, d.String()),
		ScheduleID:  s.ID,
		Date:        d,
		Description: s.Description,
		Amount:      s.Amount,
		Currency:    s.Currency,
		Kind:        s.Kind,
		CategoryID:  s.CategoryID,
		Rule:        s.Rule,
	}
}

// Project returns the occurrences of the schedule inside the window,
// in ascending date order. The anchor is not part of the result.
func Project(s models.Schedule, window recurrence.Window, opts recurrence.Options) []Projected {
	projected := make([]Projected, 0)
	for d := range recurrence.Dates(s.Date, s.Rule, window, opts) {
		projected = append(projected, projectedAt(s, d))
	}
	return projected
}

// Find returns the occurrence of the schedule on date d if the schedule
// projects one there.
func Find(s models.Schedule, d types.Date, opts recurrence.Options) (Projected, bool) {
	for date := range recurrence.Dates(s.Date, s.Rule, recurrence.Window{Start: d, End: d}, opts) {
		if date.Equal(d) {
			return projectedAt(s, d), true
		}
	}
	return Projected{}, false
}

// At returns the occurrence of the schedule on date d, including the
// occurrence on the schedule's own date.
func At(s models.Schedule, d types.Date, opts recurrence.Options) (Projected, bool) {
	if d.Equal(s.Date) {
		return projectedAt(s, d), true
	}
	return Find(s, d, opts)
}

// Materialize returns the record for a projected occurrence.
// The record is not stored.
func Materialize(p Projected) models.Record {
	scheduleID := p.ScheduleID

	var categoryID *uuid.UUID
	if p.CategoryID != nil {
		id := *p.CategoryID
		categoryID = &id
	}

	return models.Record{
		Date:        p.Date,
		Amount:      p.Amount,
		Description: p.Description,
		Currency:    p.Currency,
		Kind:        p.Kind,
		CategoryID:  categoryID,
		ScheduleID:  &scheduleID,
	}
}

// occurrenceKey identifies the occurrence of a schedule on a date.
type occurrenceKey struct {
	schedule uuid.UUID
	date     types.Date
}

// Build merges records and schedules into a calendar for the window.
//
// Records and schedule anchors outside of the window are ignored.
// A schedule date that already has a record materialized from the
// schedule is only listed as that record.
// On every day, records come first, then anchors, then projected
// occurrences. Each group is ordered by description.
func Build(records []models.Record, schedules []models.Schedule, window recurrence.Window, opts recurrence.Options) Calendar {
	days := make(map[types.Date][]Occurrence)
	add := func(o Occurrence) {
		days[o.On()] = append(days[o.On()], o)
	}

	materialized := make(map[occurrenceKey]bool)
	for _, r := range records {
		if !window.Contains(r.Date) {
			continue
		}

		add(Real{Record: r})
		if r.ScheduleID != nil {
			materialized[occurrenceKey{*r.ScheduleID, r.Date}] = true
		}
	}

	for _, s := range schedules {
		if window.Contains(s.Date) && !materialized[occurrenceKey{s.ID, s.Date}] {
			add(Anchor{Schedule: s})
		}

		for _, p := range Project(s, window, opts) {
			if !materialized[occurrenceKey{s.ID, p.Date}] {
				add(p)
			}
		}
	}

	c := Calendar{Window: window, Days: make([]Day, 0, len(days))}
	for date, occurrences := range days {
		slices.SortStableFunc(occurrences, compare)
		c.Days = append(c.Days, Day{Date: date, Occurrences: occurrences})
	}

	slices.SortFunc(c.Days, func(a, b Day) int {
		return a.Date.Compare(b.Date)
	})

	return c
}

func rank(o Occurrence) int {
	switch o.(type) {
	case Real:
		return 0
	case Anchor:
		return 1
	default:
		return 2
	}
}

func compare(a, b Occurrence) int {
	return cmp.Or(
		cmp.Compare(rank(a), rank(b)),
		cmp.Compare(a.Title(), b.Title()),
	)
}
