package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reckon-ledger/reckon/internal/recurrence"
	"github.com/reckon-ledger/reckon/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Schedule is the template for a recurring record.
//
// Only the schedule itself is stored. Its later occurrences are
// computed whenever they are requested.
type Schedule struct {
	DefaultModel
	Description string          `json:"description" example:"Rent"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"950" swaggertype:"string"`
	Currency    string          `json:"currency" example:"EUR"`
	Kind        Kind            `json:"kind" example:"expense" gorm:"default:other"`
	CategoryID  *uuid.UUID      `json:"categoryId"`
	Category    Category        `json:"-"`
	Date        types.Date      `json:"date" example:"2024-01-31"` // Date of the first occurrence
	recurrence.Rule
	Done   bool       `json:"done" example:"false"`
	DoneAt *time.Time `json:"doneAt" example:"2024-02-01T09:12:00Z"`
	Note   string     `json:"note" example:"Paid late because of the holidays"`
}

func (Schedule) Self() string {
	return "Schedule"
}

// BeforeSave validates the recurrence rule and keeps the completion state consistent.
func (s *Schedule) BeforeSave(_ *gorm.DB) error {
	if s.Amount.IsNegative() {
		return ErrAmountNegative
	}

	if s.Date.IsZero() {
		return ErrScheduleDateMissing
	}

	if s.Kind == "" {
		s.Kind = KindOther
	}
	if !s.Kind.Valid() {
		return ErrKindUnknown
	}

	if s.Frequency == "" {
		s.Frequency = recurrence.None
	}

	if !s.Recurs() && s.Interval == 0 {
		s.Interval = 1
	}

	if err := s.Rule.Validate(); err != nil {
		return err
	}

	s.Description = strings.TrimSpace(s.Description)
	s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))
	s.Note = strings.TrimSpace(s.Note)
	s.CategoryID = nilIfZero(s.CategoryID)

	if !s.Done {
		s.DoneAt = nil
	} else if s.DoneAt == nil {
		now := time.Now().In(time.UTC)
		s.DoneAt = &now
	}

	return nil
}
