package v1

import (
	"errors"
	"net/http"

	"github.com/reckon-ledger/reckon/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// status returns the appropriate status for an error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

var (
	errWindowIncomplete = errors.New("the from and until query parameters must both be set")
	errWindowAmbiguous  = errors.New("the month query parameter cannot be combined with from and until")
	errWindowReversed   = errors.New("the from date must not be after the until date")
	errWindowTooLong    = errors.New("the requested time window must not be longer than 10 years")
)

// Import errors
var (
	errNoFilePost      = errors.New("you must send a file to this endpoint")
	errWrongFileSuffix = errors.New("this endpoint only supports files of the following types: .csv, .xlsx, .json")
)

// Schedule errors
var (
	errNotAnOccurrence     = errors.New("the schedule has no occurrence on this date")
	errAlreadyMaterialized = errors.New("a record already exists for this occurrence")
)

// Link errors
var (
	errLinkNoRecords = errors.New("at least one record ID must be specified")
	errLinkGroupSet  = errors.New("records can only be added to a link group with the links endpoint, linkGroupId can only be set to null")
)
