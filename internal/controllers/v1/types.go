package v1

import (
	"github.com/reckon-ledger/reckon/internal/config"
	"github.com/reckon-ledger/reckon/internal/recurrence"
	"github.com/reckon-ledger/reckon/internal/types"
	ez_uuid "github.com/reckon-ledger/reckon/internal/uuid"
)

// settings are used by all handlers. They are replaced once at startup.
var settings = config.Config{
	DefaultCurrency:  "EUR",
	MaxIterations:    recurrence.DefaultMaxIterations,
	BalanceTolerance: 0.01,
	ZeroEpsilon:      0.001,
}

// Configure sets the configuration for all handlers. It must be called
// before the routes are served.
func Configure(c config.Config) {
	settings = c
}

type URIID struct {
	ID ez_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type Pagination struct {
	Count  int   `json:"count" example:"25"`  // The amount of records returned in this response
	Offset uint  `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int   `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total" example:"827"` // The total number of resources matching the query
}

// QueryWindow is the time window of a projection request.
type QueryWindow struct {
	From  types.Date  `form:"from" example:"2024-01-01"`  // First day of the window
	Until types.Date  `form:"until" example:"2024-01-31"` // Last day of the window, inclusive
	Month types.Month `form:"month" example:"2024-01"`    // Whole month, instead of from and until
}

// maxWindowYears bounds the window of a single projection request.
const maxWindowYears = 10

func (q QueryWindow) window() (recurrence.Window, error) {
	if !q.Month.IsZero() {
		if !q.From.IsZero() || !q.Until.IsZero() {
			return recurrence.Window{}, errWindowAmbiguous
		}
		return recurrence.MonthWindow(q.Month), nil
	}

	if q.From.IsZero() || q.Until.IsZero() {
		return recurrence.Window{}, errWindowIncomplete
	}

	if q.From.After(q.Until) {
		return recurrence.Window{}, errWindowReversed
	}

	if q.Until.After(q.From.AddYears(maxWindowYears)) {
		return recurrence.Window{}, errWindowTooLong
	}

	return recurrence.Window{Start: q.From, End: q.Until}, nil
}
