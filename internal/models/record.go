package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reckon-ledger/reckon/internal/importer/helpers"
	"github.com/reckon-ledger/reckon/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Record is a single persisted financial record.
//
// The amount is always a magnitude. Whether a record adds to or
// subtracts from a balance is defined by its Kind.
type Record struct {
	DefaultModel
	Date        types.Date      `json:"date" example:"2024-03-01"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"14.03" swaggertype:"string"`
	Description string          `json:"description" example:"Coffee Shop"`
	Currency    string          `json:"currency" example:"EUR"`
	Kind        Kind            `json:"kind" example:"expense" gorm:"default:other"`
	CategoryID  *uuid.UUID      `json:"categoryId" example:"2bd8f0b2-8a5c-4f44-8c2c-3d1b9df7e1a4"`
	Category    Category        `json:"-"`
	LinkGroupID *uuid.UUID      `json:"linkGroupId" gorm:"index" example:"4e9a4a0d-2b2c-4b0c-a4b7-0d2b6c6f2d7e"` // Shared by all records of a link group
	LinkRole    LinkRole        `json:"linkRole" example:"allocation"`
	ParentID    *uuid.UUID      `json:"parentId" gorm:"index"`   // Set for the parts of a split record
	ScheduleID  *uuid.UUID      `json:"scheduleId" gorm:"index"` // Set when the record was materialized from a schedule
	Schedule    *Schedule       `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	ImportHash  string          `json:"importHash" gorm:"index"` // Signature used for duplicate detection
	SourceID    string          `json:"sourceId"`                // Identifier assigned by the source the record was imported from
}

func (Record) Self() string {
	return "Record"
}

// BeforeSave
//   - rejects negative amounts and unknown kinds
//   - normalizes unset references to nil
//   - clears the link role for unlinked records
//   - sets the import hash from the record's contents
func (r *Record) BeforeSave(_ *gorm.DB) error {
	if r.Amount.IsNegative() {
		return ErrAmountNegative
	}

	if r.Kind == "" {
		r.Kind = KindOther
	}
	if !r.Kind.Valid() {
		return ErrKindUnknown
	}

	r.Description = strings.TrimSpace(r.Description)
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	r.SourceID = strings.TrimSpace(r.SourceID)

	if r.Date.IsZero() {
		r.Date = types.DateOf(time.Now().In(time.UTC))
	}

	r.CategoryID = nilIfZero(r.CategoryID)
	r.LinkGroupID = nilIfZero(r.LinkGroupID)
	r.ParentID = nilIfZero(r.ParentID)
	r.ScheduleID = nilIfZero(r.ScheduleID)

	if r.LinkGroupID == nil {
		r.LinkRole = LinkRoleNone
	} else if !r.LinkRole.Valid() {
		return ErrLinkRoleUnknown
	}

	r.ImportHash = helpers.Signature(r.Date, r.Amount, r.Description, r.Currency)
	return nil
}

// Linked reports whether the record is part of a link group.
func (r Record) Linked() bool {
	return r.LinkGroupID != nil
}

// SignedAmount returns the amount with the sign of the record's balance effect.
func (r Record) SignedAmount() decimal.Decimal {
	return r.Amount.Mul(decimal.NewFromInt(int64(r.Kind.Effect())))
}

// nilIfZero returns nil for a pointer to the nil UUID.
func nilIfZero(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	return id
}
