package importer

import (
	"github.com/google/uuid"
	"github.com/reckon-ledger/reckon/internal/models"
	"github.com/reckon-ledger/reckon/internal/types"
	"github.com/shopspring/decimal"
)

// RawRecord is a single record read from an import source, before it
// has been checked against the existing records.
type RawRecord struct {
	Date        types.Date        `json:"date" example:"2024-03-01"`
	Amount      decimal.Decimal   `json:"amount" example:"-4.50" swaggertype:"string"` // Signed, negative amounts are outflows
	Description string            `json:"description" example:"Coffee Shop"`
	Currency    string            `json:"currency" example:"EUR"`
	SourceID    string            `json:"sourceId" example:"TX-2024-0042"`  // Identifier assigned by the source, if any
	Metadata    map[string]string `json:"metadata" swaggertype:"object"` // All columns of the source not mapped to a field
}

// ConflictKind describes why a record should not be imported as is.
type ConflictKind string

const (
	ConflictNone          ConflictKind = "none"
	ConflictDatabase      ConflictKind = "database"      // A record with the same signature is already stored
	ConflictBatchInternal ConflictKind = "batchInternal" // An earlier record of the same batch has the same signature
)

// ClassifiedRecord is a RawRecord together with the result of the
// conflict classification. It is shown to the user, who decides which
// records are imported.
type ClassifiedRecord struct {
	RawRecord
	Signature    string       `json:"signature" example:"6f1ed002ab5595859014ebf0951522d9"`
	Conflict     ConflictKind `json:"conflict" example:"none"`
	Excluded     bool         `json:"excluded" example:"false"` // Excluded records are not imported
	DuplicateIDs []uuid.UUID  `json:"duplicateIds"`             // IDs of stored records with the same signature
	Kind         models.Kind  `json:"kind" example:"expense"`   // Suggested from the sign of the amount
	CategoryID   *uuid.UUID   `json:"categoryId"`               // Suggested by a match rule
	MatchRuleID  *uuid.UUID   `json:"matchRuleId"`              // The match rule that suggested the category
}

// Record returns the record to persist for the classified record.
//
// The amount is stored as a magnitude, the direction is kept in the kind.
func (c ClassifiedRecord) Record() models.Record {
	kind := c.Kind
	if kind == "" {
		kind = kindFromSign(c.Amount)
	}

	return models.Record{
		Date:        c.Date,
		Amount:      c.Amount.Abs(),
		Description: c.Description,
		Currency:    c.Currency,
		Kind:        kind,
		CategoryID:  c.CategoryID,
		SourceID:    c.SourceID,
	}
}

func kindFromSign(amount decimal.Decimal) models.Kind {
	if amount.IsNegative() {
		return models.KindExpense
	}
	return models.KindIncome
}
