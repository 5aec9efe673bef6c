package v1

import (
	"fmt"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reckon-ledger/reckon/internal/models"
	"github.com/reckon-ledger/reckon/internal/types"
	ez_uuid "github.com/reckon-ledger/reckon/internal/uuid"
	"github.com/shopspring/decimal"
)

// RecordEditable represents all user configurable parameters
type RecordEditable struct {
	Date        types.Date      `json:"date" example:"2024-03-01"`                                                  // Date of the record. Defaults to today
	Amount      decimal.Decimal `json:"amount" example:"14.03" swaggertype:"string"`                                 // Magnitude of the record, never negative
	Description string          `json:"description" example:"Coffee Shop" default:""`                               // Description of the record
	Currency    string          `json:"currency" example:"EUR" default:""`                                          // ISO 4217 currency code
	Kind        models.Kind     `json:"kind" example:"expense" default:"other"`                                     // The balance effect of the record
	CategoryID  *uuid.UUID      `json:"categoryId" example:"2bd8f0b2-8a5c-4f44-8c2c-3d1b9df7e1a4"`                  // ID of the category
	LinkGroupID *uuid.UUID      `json:"linkGroupId" example:"4e9a4a0d-2b2c-4b0c-a4b7-0d2b6c6f2d7e"`                 // Link group of the record. Set to null to unlink
	LinkRole    models.LinkRole `json:"linkRole" example:"allocation"`                                              // Role inside the link group
	ParentID    *uuid.UUID      `json:"parentId" example:"0f6b7f6a-52b4-4d5e-8a41-1b1e4d9d5a0c"`                    // Parent record of a split
	ScheduleID  *uuid.UUID      `json:"scheduleId" example:"9d3b7a55-6c2e-4b53-8bba-7b5a4f0e2c11"`                  // Schedule the record was materialized from
	SourceID    string          `json:"sourceId" example:"TX-2024-0042" default:""`                                 // Identifier assigned by the import source
}

func (editable RecordEditable) model() models.Record {
	return models.Record{
		Date:        editable.Date,
		Amount:      editable.Amount,
		Description: editable.Description,
		Currency:    editable.Currency,
		Kind:        editable.Kind,
		CategoryID:  editable.CategoryID,
		LinkGroupID: editable.LinkGroupID,
		LinkRole:    editable.LinkRole,
		ParentID:    editable.ParentID,
		ScheduleID:  editable.ScheduleID,
		SourceID:    editable.SourceID,
	}
}

// checkLink rejects changes that move the record into a link group.
// Leaving a group is allowed.
func (editable RecordEditable) checkLink(r models.Record, fields []string) error {
	if !slices.Contains(fields, "LinkGroupID") || editable.LinkGroupID == nil || *editable.LinkGroupID == uuid.Nil {
		return nil
	}

	if r.LinkGroupID != nil && *r.LinkGroupID == *editable.LinkGroupID {
		return nil
	}

	return errLinkGroupSet
}

// apply sets the fields named in fields on the record.
func (editable RecordEditable) apply(r *models.Record, fields []string) {
	for _, field := range fields {
		switch field {
		case "Date":
			r.Date = editable.Date
		case "Amount":
			r.Amount = editable.Amount
		case "Description":
			r.Description = editable.Description
		case "Currency":
			r.Currency = editable.Currency
		case "Kind":
			r.Kind = editable.Kind
		case "CategoryID":
			r.CategoryID = editable.CategoryID
		case "LinkGroupID":
			r.LinkGroupID = editable.LinkGroupID
		case "LinkRole":
			r.LinkRole = editable.LinkRole
		case "ParentID":
			r.ParentID = editable.ParentID
		case "ScheduleID":
			r.ScheduleID = editable.ScheduleID
		case "SourceID":
			r.SourceID = editable.SourceID
		}
	}

	// A record leaving its link group loses its role
	if slices.Contains(fields, "LinkGroupID") && r.LinkGroupID == nil {
		r.LinkRole = models.LinkRoleNone
	}
}

type RecordLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/records/6b1f8cf2-4c3c-4b1b-9a0f-3a6f3c0a5e21"` // The record itself
}

// Record is the API representation of a Record.
type Record struct {
	models.DefaultModel
	RecordEditable
	ImportHash string      `json:"importHash" example:"6f1ed002ab5595859014ebf0951522d9"` // Signature used for duplicate detection
	Links      RecordLinks `json:"links"`
}

func newRecord(c *gin.Context, model models.Record) Record {
	url := c.GetString(string(models.DBContextURL))

	return Record{
		DefaultModel: model.DefaultModel,
		RecordEditable: RecordEditable{
			Date:        model.Date,
			Amount:      model.Amount,
			Description: model.Description,
			Currency:    model.Currency,
			Kind:        model.Kind,
			CategoryID:  model.CategoryID,
			LinkGroupID: model.LinkGroupID,
			LinkRole:    model.LinkRole,
			ParentID:    model.ParentID,
			ScheduleID:  model.ScheduleID,
			SourceID:    model.SourceID,
		},
		ImportHash: model.ImportHash,
		Links: RecordLinks{
			Self: fmt.Sprintf("%s/v1/records/%s", url, model.ID),
		},
	}
}

type RecordListResponse struct {
	Data       []Record    `json:"data"`                                                          // List of Records
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type RecordCreateResponse struct {
	Data  []RecordResponse `json:"data"`                                                          // List of the created Records or their respective error
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *RecordCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, RecordResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type RecordResponse struct {
	Data  *Record `json:"data"`                                                          // Data for the Record
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// RecordQueryFilter contains the fields that Records can be filtered with.
type RecordQueryFilter struct {
	From        types.Date   `form:"from" filterField:"false"`        // Records on or after this date
	Until       types.Date   `form:"until" filterField:"false"`       // Records on or before this date
	Description string       `form:"description" filterField:"false"` // By string in the description
	Kind        models.Kind  `form:"kind"`                            // By kind
	Currency    string       `form:"currency"`                        // By currency
	CategoryID  ez_uuid.UUID `form:"category"`                        // By ID of the category
	LinkGroupID ez_uuid.UUID `form:"linkGroup"`                       // By link group. Empty for records without link group
	ScheduleID  ez_uuid.UUID `form:"schedule"`                        // By ID of the schedule
	Offset      uint         `form:"offset" filterField:"false"`      // The offset of the first Record returned. Defaults to 0.
	Limit       int          `form:"limit" filterField:"false"`       // Maximum number of Records to return. Defaults to 50.
}

func (f RecordQueryFilter) model() models.Record {
	return models.Record{
		Kind:        f.Kind,
		Currency:    f.Currency,
		CategoryID:  optionalID(f.CategoryID),
		LinkGroupID: optionalID(f.LinkGroupID),
		ScheduleID:  optionalID(f.ScheduleID),
	}
}

// optionalID returns nil for the nil UUID.
func optionalID(id ez_uuid.UUID) *uuid.UUID {
	if id == ez_uuid.Nil {
		return nil
	}
	return &id.UUID
}
