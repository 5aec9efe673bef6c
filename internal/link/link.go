// Package link groups persisted records that belong together, for
// example a transfer and the expenses it was split into, and checks
// whether the group balances.
package link

import (
	"errors"

	"github.com/google/uuid"
	"github.com/reckon-ledger/reckon/internal/models"
	"github.com/reckon-ledger/reckon/internal/types"
	"github.com/shopspring/decimal"
)

// Role is the part a record plays in a link group.
type Role = models.LinkRole

const (
	Source     = models.LinkRoleSource
	Allocation = models.LinkRoleAllocation
)

// DefaultTolerance is the largest difference at which a group still balances.
var DefaultTolerance = decimal.NewFromFloat(0.01)

var (
	ErrTooFewRecords   = errors.New("a link group needs at least two records")
	ErrMissingRole     = errors.New("every record in a link group needs a role")
	ErrUnknownRole     = errors.New("the role must be one of source, allocation")
	ErrDuplicateRecord = errors.New("a record can only be part of the link group once")
	ErrMixedCurrencies = errors.New("all records of a link group must use the same currency")
)

// Balance is the result of comparing sources with allocations.
type Balance struct {
	Balanced    bool            `json:"balanced" example:"true"`
	Difference  decimal.Decimal `json:"difference" swaggertype:"string" example:"0"` // Sources minus allocations
	Sources     decimal.Decimal `json:"sources" swaggertype:"string" example:"100"`
	Allocations decimal.Decimal `json:"allocations" swaggertype:"string" example:"100"`
}

// Options configure Reconcile.
type Options struct {
	Tolerance  decimal.Decimal          // DefaultTolerance when zero
	KeepKinds  bool                     // Do not re-type the records
	Categories map[uuid.UUID]*uuid.UUID // Category overrides by record ID
}

func (o Options) tolerance() decimal.Decimal {
	if o.Tolerance.IsZero() {
		return DefaultTolerance
	}
	return o.Tolerance.Abs()
}

// Result is a reconciled link group. The records are not stored.
type Result struct {
	GroupID uuid.UUID       `json:"groupId"`
	Records []models.Record `json:"records"`
	Balance Balance         `json:"balance"`
}

// SuggestRoles proposes the record with the largest amount as source and
// all others as allocations. On ties, the first record wins.
func SuggestRoles(records []models.Record) map[uuid.UUID]Role {
	roles := make(map[uuid.UUID]Role, len(records))
	if len(records) == 0 {
		return roles
	}

	source := 0
	for i, r := range records {
		if r.Amount.Abs().GreaterThan(records[source].Amount.Abs()) {
			source = i
		}
	}

	for i, r := range records {
		if i == source {
			roles[r.ID] = Source
			continue
		}
		roles[r.ID] = Allocation
	}

	return roles
}

// Check sums up sources and allocations. Records without a valid role
// are ignored.
func Check(records []models.Record, roles map[uuid.UUID]Role, tolerance decimal.Decimal) Balance {
	b := Balance{
		Sources:     decimal.Zero,
		Allocations: decimal.Zero,
	}

	for _, r := range records {
		switch roles[r.ID] {
		case Source:
			b.Sources = b.Sources.Add(r.Amount.Abs())
		case Allocation:
			b.Allocations = b.Allocations.Add(r.Amount.Abs())
		}
	}

	b.Difference = b.Sources.Sub(b.Allocations)
	b.Balanced = b.Difference.Abs().LessThanOrEqual(tolerance.Abs())
	return b
}

// Reconcile assigns a new link group to the records.
//
// Every record needs a role. The records are copied, the input is not
// modified. A group that does not balance is still returned, the caller
// decides what to do with the difference.
func Reconcile(records []models.Record, roles map[uuid.UUID]Role, opts Options) (Result, error) {
	if len(records) < 2 {
		return Result{}, types.NewValidationError("records", ErrTooFewRecords)
	}

	seen := make(map[uuid.UUID]bool, len(records))
	currency := ""
	for _, r := range records {
		if seen[r.ID] {
			return Result{}, types.NewValidationError("records", ErrDuplicateRecord)
		}
		seen[r.ID] = true

		role, ok := roles[r.ID]
		if !ok || role == models.LinkRoleNone {
			return Result{}, types.NewValidationError("roles", ErrMissingRole)
		}
		if !role.Valid() {
			return Result{}, types.NewValidationError("roles", ErrUnknownRole)
		}

		if r.Currency == "" {
			continue
		}
		if currency != "" && currency != r.Currency {
			return Result{}, types.NewValidationError("records", ErrMixedCurrencies)
		}
		currency = r.Currency
	}

	result := Result{
		GroupID: uuid.New(),
		Records: make([]models.Record, 0, len(records)),
		Balance: Check(records, roles, opts.tolerance()),
	}

	for _, r := range records {
		groupID := result.GroupID
		r.LinkGroupID = &groupID
		r.LinkRole = roles[r.ID]

		if !opts.KeepKinds {
			r.Kind = kindFor(r.LinkRole)
		}

		if category, ok := opts.Categories[r.ID]; ok {
			r.CategoryID = category
		}

		result.Records = append(result.Records, r)
	}

	return result, nil
}

// Unlink returns copies of the records without link group.
func Unlink(records []models.Record) []models.Record {
	unlinked := make([]models.Record, 0, len(records))
	for _, r := range records {
		r.LinkGroupID = nil
		r.LinkRole = models.LinkRoleNone
		unlinked = append(unlinked, r)
	}
	return unlinked
}

func kindFor(role Role) models.Kind {
	if role == Source {
		return models.KindTransfer
	}
	return models.KindExpense
}
