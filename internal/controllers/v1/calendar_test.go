package v1_test

import (
	"net/http"
	"testing"

	"github.com/reckon-ledger/reckon/internal/calendar"
	v1 "github.com/reckon-ledger/reckon/internal/controllers/v1"
	"github.com/reckon-ledger/reckon/internal/models"
	"github.com/reckon-ledger/reckon/internal/recurrence"
	"github.com/reckon-ledger/reckon/internal/types"
	"github.com/reckon-ledger/reckon/test"
	"github.com/shopspring/decimal"
)

// calendarResponse mirrors v1.CalendarResponse. Occurrences are an
// interface and are decoded in their serialized form.
type calendarResponse struct {
	Data struct {
		Window recurrence.Window `json:"window"`
		Days   []struct {
			Date        types.Date      `json:"date"`
			Occurrences []calendar.Item `json:"occurrences"`
		} `json:"days"`
	} `json:"data"`
	Error *string `json:"error"`
}

func (suite *TestSuiteStandard) TestCalendar() {
	createTestRecord(suite.T(), v1.RecordEditable{Date: types.MustParseDate("2024-02-15"), Description: "Bakery", Amount: decimal.NewFromInt(3), Kind: models.KindExpense})
	createTestRecord(suite.T(), v1.RecordEditable{Date: types.MustParseDate("2024-03-15"), Description: "Outside", Amount: decimal.NewFromInt(3)})
	gym := createTestSchedule(suite.T(), v1.ScheduleEditable{Date: types.MustParseDate("2024-01-15"), Description: "Gym", Amount: decimal.NewFromInt(30), Frequency: recurrence.Monthly})
	createTestSchedule(suite.T(), v1.ScheduleEditable{Date: types.MustParseDate("2024-02-20"), Description: "Dentist", Amount: decimal.NewFromInt(80)})
	createTestSchedule(suite.T(), v1.ScheduleEditable{Date: types.MustParseDate("2024-03-01"), Description: "Later", Frequency: recurrence.Daily})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/calendar?from=2024-02-01&until=2024-02-29", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response calendarResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("2024-02-01", response.Data.Window.Start.String())

	suite.Require().Len(response.Data.Days, 2)

	day := response.Data.Days[0]
	suite.Assert().Equal("2024-02-15", day.Date.String())
	suite.Require().Len(day.Occurrences, 2)
	suite.Assert().Equal(calendar.TypeRecord, day.Occurrences[0].Type, "records come before projected occurrences")
	suite.Assert().Equal("Bakery", day.Occurrences[0].Description)
	suite.Assert().Equal(calendar.TypeProjected, day.Occurrences[1].Type)
	suite.Assert().Equal(gym.Data.ID, *day.Occurrences[1].ScheduleID)

	day = response.Data.Days[1]
	suite.Assert().Equal("2024-02-20", day.Date.String())
	suite.Require().Len(day.Occurrences, 1)
	suite.Assert().Equal(calendar.TypeAnchor, day.Occurrences[0].Type, "a schedule without recurrence is listed on its date")
}

func (suite *TestSuiteStandard) TestCalendarEmpty() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/calendar?from=2024-02-01&until=2024-02-29", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response calendarResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().NotNil(response.Data.Days)
	suite.Assert().Empty(response.Data.Days)
}

func (suite *TestSuiteStandard) TestCalendarWindowRequired() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/calendar", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCalendarMonth() {
	createTestRecord(suite.T(), v1.RecordEditable{Date: types.MustParseDate("2024-02-29"), Description: "Leap day", Amount: decimal.NewFromInt(1)})
	createTestRecord(suite.T(), v1.RecordEditable{Date: types.MustParseDate("2024-03-01"), Description: "March", Amount: decimal.NewFromInt(1)})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/calendar?month=2024-02", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response calendarResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("2024-02-01", response.Data.Window.Start.String())
	suite.Assert().Equal("2024-02-29", response.Data.Window.End.String())
	suite.Require().Len(response.Data.Days, 1)
	suite.Assert().Equal("Leap day", response.Data.Days[0].Occurrences[0].Description)
}

func (suite *TestSuiteStandard) TestCalendarWindowFails() {
	tests := []struct {
		name  string
		query string
	}{
		{"Month and from", "month=2024-02&from=2024-02-01"},
		{"Invalid month", "month=2024-13"},
		{"Reversed", "from=2024-03-01&until=2024-02-01"},
		{"Too long", "from=2000-01-01&until=2024-01-01"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, "http://example.com/v1/calendar?"+tt.query, "")
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
		})
	}
}
