package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reckon-ledger/reckon/internal/calendar"
	"github.com/reckon-ledger/reckon/internal/models"
	"github.com/reckon-ledger/reckon/internal/recurrence"
	"github.com/reckon-ledger/reckon/internal/types"
	"github.com/shopspring/decimal"
)

// ScheduleEditable represents all user configurable parameters
type ScheduleEditable struct {
	Description string               `json:"description" example:"Rent" default:""`                                   // Description of the occurrences
	Amount      decimal.Decimal      `json:"amount" example:"950" swaggertype:"string"`                                // Magnitude of every occurrence
	Currency    string               `json:"currency" example:"EUR" default:""`                                       // ISO 4217 currency code
	Kind        models.Kind          `json:"kind" example:"expense" default:"other"`                                  // The balance effect of the occurrences
	CategoryID  *uuid.UUID           `json:"categoryId" example:"2bd8f0b2-8a5c-4f44-8c2c-3d1b9df7e1a4"`               // ID of the category
	Date        types.Date           `json:"date" example:"2024-01-31"`                                               // Date of the first occurrence
	Frequency   recurrence.Frequency `json:"frequency" example:"monthly" default:"none"`                              // One of none, daily, weekly, monthly, yearly
	Interval    int                  `json:"interval" example:"1" default:"1"`                                        // Every Interval periods
	EndDate     *types.Date          `json:"endDate" example:"2025-12-31"`                                            // Last possible occurrence, inclusive
	Done        bool                 `json:"done" example:"false" default:"false"`                                    // Marks the schedule as completed
	Note        string               `json:"note" example:"Paid late because of the holidays" default:""`             // Notes about the schedule
}

func (editable ScheduleEditable) model() models.Schedule {
	return models.Schedule{
		Description: editable.Description,
		Amount:      editable.Amount,
		Currency:    editable.Currency,
		Kind:        editable.Kind,
		CategoryID:  editable.CategoryID,
		Date:        editable.Date,
		Rule: recurrence.Rule{
			Frequency: editable.Frequency,
			Interval:  editable.Interval,
			EndDate:   editable.EndDate,
		},
		Done: editable.Done,
		Note: editable.Note,
	}
}

// apply sets the fields named in fields on the schedule.
func (editable ScheduleEditable) apply(s *models.Schedule, fields []string) {
	for _, field := range fields {
		switch field {
		case "Description":
			s.Description = editable.Description
		case "Amount":
			s.Amount = editable.Amount
		case "Currency":
			s.Currency = editable.Currency
		case "Kind":
			s.Kind = editable.Kind
		case "CategoryID":
			s.CategoryID = editable.CategoryID
		case "Date":
			s.Date = editable.Date
		case "Frequency":
			s.Frequency = editable.Frequency
		case "Interval":
			s.Interval = editable.Interval
		case "EndDate":
			s.EndDate = editable.EndDate
		case "Done":
			s.Done = editable.Done
		case "Note":
			s.Note = editable.Note
		}
	}
}

type ScheduleLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/schedules/9d3b7a55-6c2e-4b53-8bba-7b5a4f0e2c11"`                // The schedule itself
	Occurrences string `json:"occurrences" example:"https://example.com/api/v1/schedules/9d3b7a55-6c2e-4b53-8bba-7b5a4f0e2c11/occurrences"` // Projected occurrences. Needs the from and until query parameters
	Materialize string `json:"materialize" example:"https://example.com/api/v1/schedules/9d3b7a55-6c2e-4b53-8bba-7b5a4f0e2c11/materialize"` // Creates a record for an occurrence
	Records     string `json:"records" example:"https://example.com/api/v1/records?schedule=9d3b7a55-6c2e-4b53-8bba-7b5a4f0e2c11"`           // Records materialized from the schedule
}

// Schedule is the API representation of a Schedule.
type Schedule struct {
	models.DefaultModel
	ScheduleEditable
	DoneAt *time.Time    `json:"doneAt" example:"2024-02-01T09:12:00Z"` // Time the schedule was marked as done
	Links  ScheduleLinks `json:"links"`
}

func newSchedule(c *gin.Context, model models.Schedule) Schedule {
	url := c.GetString(string(models.DBContextURL))
	self := fmt.Sprintf("%s/v1/schedules/%s", url, model.ID)

	return Schedule{
		DefaultModel: model.DefaultModel,
		ScheduleEditable: ScheduleEditable{
			Description: model.Description,
			Amount:      model.Amount,
			Currency:    model.Currency,
			Kind:        model.Kind,
			CategoryID:  model.CategoryID,
			Date:        model.Date,
			Frequency:   model.Frequency,
			Interval:    model.Interval,
			EndDate:     model.EndDate,
			Done:        model.Done,
			Note:        model.Note,
		},
		DoneAt: model.DoneAt,
		Links: ScheduleLinks{
			Self:        self,
			Occurrences: self + "/occurrences",
			Materialize: self + "/materialize",
			Records:     fmt.Sprintf("%s/v1/records?schedule=%s", url, model.ID),
		},
	}
}

type ScheduleListResponse struct {
	Data  []Schedule `json:"data"`                                                          // List of Schedules
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ScheduleResponse struct {
	Data  *Schedule `json:"data"`                                                          // Data for the Schedule
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ScheduleOccurrencesResponse struct {
	Data  []calendar.Item `json:"data"`                                                          // Projected occurrences in ascending date order
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// MaterializeRequest selects the occurrence to create a record for.
type MaterializeRequest struct {
	Date types.Date `json:"date" example:"2024-03-31"` // Date of the occurrence
}
