// Package calendar merges stored records and the occurrences of
// schedules into a per day view.
//
// Occurrences computed from a schedule are never stored. They are
// rebuilt on every request and only become records when they are
// materialized.
package calendar

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/reckon-ledger/reckon/internal/models"
	"github.com/reckon-ledger/reckon/internal/recurrence"
	"github.com/reckon-ledger/reckon/internal/types"
	"github.com/shopspring/decimal"
)

// OccurrenceType tells the variants of Occurrence apart in serialized form.
type OccurrenceType string

const (
	TypeRecord    OccurrenceType = "record"
	TypeAnchor    OccurrenceType = "anchor"
	TypeProjected OccurrenceType = "projected"
)

// Occurrence is an entry of the calendar. It is one of Real, Anchor or
// Projected. Consumers type switch on it, only Real and Anchor can be
// written back to the database.
type Occurrence interface {
	On() types.Date
	Title() string
	Type() OccurrenceType
	occurrence()
}

// Real is a stored record.
type Real struct {
	Record models.Record
}

// Anchor is a stored schedule on the date of its first occurrence.
type Anchor struct {
	Schedule models.Schedule
}

// Projected is a computed occurrence of a schedule. It is read only.
type Projected struct {
	ID          uuid.UUID       `json:"id"` // Derived from the schedule ID and the date
	ScheduleID  uuid.UUID       `json:"scheduleId"`
	Date        types.Date      `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Kind        models.Kind     `json:"kind"`
	CategoryID  *uuid.UUID      `json:"categoryId"`
	Rule        recurrence.Rule `json:"rule"`

	// Completion state is never inherited from the schedule
	Done   bool       `json:"done"`
	DoneAt *time.Time `json:"doneAt"`
	Note   string     `json:"note"`
}

func (r Real) On() types.Date      { return r.Record.Date }
func (a Anchor) On() types.Date    { return a.Schedule.Date }
func (p Projected) On() types.Date { return p.Date }

func (r Real) Title() string      { return r.Record.Description }
func (a Anchor) Title() string    { return a.Schedule.Description }
func (p Projected) Title() string { return p.Description }

func (Real) Type() OccurrenceType      { return TypeRecord }
func (Anchor) Type() OccurrenceType    { return TypeAnchor }
func (Projected) Type() OccurrenceType { return TypeProjected }

func (Real) occurrence()      {}
func (Anchor) occurrence()    {}
func (Projected) occurrence() {}

// Item is the serialized form shared by all occurrences.
type Item struct {
	Type        OccurrenceType  `json:"type" example:"projected"`
	ID          uuid.UUID       `json:"id"`
	Date        types.Date      `json:"date" example:"2024-02-29"`
	Description string          `json:"description" example:"Rent"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"950"`
	Currency    string          `json:"currency" example:"EUR"`
	Kind        models.Kind     `json:"kind" example:"expense"`
	CategoryID  *uuid.UUID      `json:"categoryId"`
	ScheduleID  *uuid.UUID      `json:"scheduleId"`  // The schedule the occurrence belongs to
	LinkGroupID *uuid.UUID      `json:"linkGroupId"` // Only set for linked records
	Done        bool            `json:"done"`
}

// ItemOf returns the serialized form of an occurrence.
func ItemOf(o Occurrence) Item {
	switch v := o.(type) {
	case Real:
		return Item{
			Type:        TypeRecord,
			ID:          v.Record.ID,
			Date:        v.Record.Date,
			Description: v.Record.Description,
			Amount:      v.Record.Amount,
			Currency:    v.Record.Currency,
			Kind:        v.Record.Kind,
			CategoryID:  v.Record.CategoryID,
			ScheduleID:  v.Record.ScheduleID,
			LinkGroupID: v.Record.LinkGroupID,
		}
	case Anchor:
		id := v.Schedule.ID
		return Item{
			Type:        TypeAnchor,
			ID:          v.Schedule.ID,
			Date:        v.Schedule.Date,
			Description: v.Schedule.Description,
			Amount:      v.Schedule.Amount,
			Currency:    v.Schedule.Currency,
			Kind:        v.Schedule.Kind,
			CategoryID:  v.Schedule.CategoryID,
			ScheduleID:  &id,
			Done:        v.Schedule.Done,
		}
	case Projected:
		id := v.ScheduleID
		return Item{
			Type:        TypeProjected,
			ID:          v.ID,
			Date:        v.Date,
			Description: v.Description,
			Amount:      v.Amount,
			Currency:    v.Currency,
			Kind:        v.Kind,
			CategoryID:  v.CategoryID,
			ScheduleID:  &id,
		}
	}

	return Item{}
}

func (r Real) MarshalJSON() ([]byte, error)      { return json.Marshal(ItemOf(r)) }
func (a Anchor) MarshalJSON() ([]byte, error)    { return json.Marshal(ItemOf(a)) }
func (p Projected) MarshalJSON() ([]byte, error) { return json.Marshal(ItemOf(p)) }
