package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	v1 "github.com/reckon-ledger/reckon/internal/controllers/v1"
	"github.com/reckon-ledger/reckon/internal/link"
	"github.com/reckon-ledger/reckon/internal/models"
	"github.com/reckon-ledger/reckon/internal/types"
	"github.com/reckon-ledger/reckon/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestRecord(t *testing.T, r v1.RecordEditable, expectedStatus ...int) v1.RecordResponse {
	if r.Date.IsZero() {
		r.Date = types.MustParseDate("2024-03-01")
	}

	if r.Description == "" {
		r.Description = uuid.NewString()
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.RecordEditable{r}

	recorder := test.Request(t, http.MethodPost, "http://example.com/v1/records", body)
	test.AssertHTTPStatus(t, &recorder, expectedStatus...)

	var response v1.RecordCreateResponse
	test.DecodeResponse(t, &recorder, &response)

	if recorder.Code == http.StatusCreated {
		return response.Data[0]
	}

	return v1.RecordResponse{}
}

func (suite *TestSuiteStandard) TestRecordsCreate() {
	r := createTestRecord(suite.T(), v1.RecordEditable{
		Amount:      decimal.NewFromFloat(4.5),
		Description: " Coffee Shop ",
		Currency:    "eur",
		Kind:        models.KindExpense,
	})

	suite.Assert().Equal("Coffee Shop", r.Data.Description)
	suite.Assert().Equal("EUR", r.Data.Currency)
	suite.Assert().NotEmpty(r.Data.ImportHash)
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/records/%s", r.Data.ID), r.Data.Links.Self)

	recorder := test.Request(suite.T(), http.MethodGet, r.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.RecordResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal(r.Data.ID, response.Data.ID)
	suite.Assert().True(response.Data.Amount.Equal(decimal.NewFromFloat(4.5)))
	suite.Assert().Equal(models.KindExpense, response.Data.Kind)
}

func (suite *TestSuiteStandard) TestRecordsCreateDefaultCurrency() {
	r := createTestRecord(suite.T(), v1.RecordEditable{Amount: decimal.NewFromInt(1)})
	suite.Assert().Equal("EUR", r.Data.Currency)
	suite.Assert().Equal(models.KindOther, r.Data.Kind)
}

func (suite *TestSuiteStandard) TestRecordsCreateFails() {
	tests := []struct {
		name     string
		body     any
		status   int
		contains string
	}{
		{"Empty body", "", http.StatusBadRequest, "the request body must not be empty"},
		{"Broken body", `[{ "amount": "foo" ]`, http.StatusBadRequest, ""},
		{"Negative amount", []v1.RecordEditable{{Date: types.MustParseDate("2024-03-01"), Amount: decimal.NewFromInt(-5)}}, http.StatusBadRequest, models.ErrAmountNegative.Error()},
		{"Unknown kind", []v1.RecordEditable{{Date: types.MustParseDate("2024-03-01"), Kind: "gift"}}, http.StatusBadRequest, models.ErrKindUnknown.Error()},
		{"Non-existing category", []v1.RecordEditable{{Date: types.MustParseDate("2024-03-01"), CategoryID: func() *uuid.UUID { id := uuid.New(); return &id }()}}, http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodPost, "http://example.com/v1/records", tt.body)
			test.AssertHTTPStatus(t, &recorder, tt.status)

			if tt.contains == "" {
				return
			}

			var response v1.RecordCreateResponse
			test.DecodeResponse(t, &recorder, &response)

			if response.Error != nil {
				assert.Contains(t, *response.Error, tt.contains)
				return
			}
			require.Len(t, response.Data, 1)
			assert.Contains(t, *response.Data[0].Error, tt.contains)
		})
	}
}

func (suite *TestSuiteStandard) TestRecordsList() {
	createTestRecord(suite.T(), v1.RecordEditable{Date: types.MustParseDate("2024-02-28"), Description: "Rent", Amount: decimal.NewFromInt(950), Kind: models.KindExpense})
	createTestRecord(suite.T(), v1.RecordEditable{Date: types.MustParseDate("2024-03-01"), Description: "Coffee Shop", Amount: decimal.NewFromFloat(4.5), Kind: models.KindExpense})
	createTestRecord(suite.T(), v1.RecordEditable{Date: types.MustParseDate("2024-03-02"), Description: "Salary", Amount: decimal.NewFromInt(1200), Kind: models.KindIncome})

	tests := []struct {
		name         string
		query        string
		descriptions []string
		total        int64
	}{
		{"All", "", []string{"Rent", "Coffee Shop", "Salary"}, 3},
		{"From", "from=2024-03-01", []string{"Coffee Shop", "Salary"}, 2},
		{"Until", "until=2024-03-01", []string{"Rent", "Coffee Shop"}, 2},
		{"Window", "from=2024-03-01&until=2024-03-01", []string{"Coffee Shop"}, 1},
		{"Kind", "kind=income", []string{"Salary"}, 1},
		{"Description", "description=coffee", []string{"Coffee Shop"}, 1},
		{"Without link group", "linkGroup=", []string{"Rent", "Coffee Shop", "Salary"}, 3},
		{"Limit", "limit=1", []string{"Rent"}, 3},
		{"Offset", "offset=2", []string{"Salary"}, 3},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/records?%s", tt.query), "")
			test.AssertHTTPStatus(t, &recorder, http.StatusOK)

			var response v1.RecordListResponse
			test.DecodeResponse(t, &recorder, &response)

			descriptions := make([]string, 0, len(response.Data))
			for _, r := range response.Data {
				descriptions = append(descriptions, r.Description)
			}
			assert.Equal(t, tt.descriptions, descriptions)
			assert.Equal(t, tt.total, response.Pagination.Total)
		})
	}
}

func (suite *TestSuiteStandard) TestRecordsListInvalidQuery() {
	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/records?from=yesterday", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

// TestRecordsLinkGroupRoundTrip verifies that the link group of a record
// is kept until it is explicitly cleared.
func (suite *TestSuiteStandard) TestRecordsLinkGroupRoundTrip() {
	ids := createTestRecords(suite.T(), 100, 60, 40)
	group := createTestLink(suite.T(), map[uuid.UUID]link.Role{ids[0]: link.Source, ids[1]: link.Allocation, ids[2]: link.Allocation})

	self := fmt.Sprintf("http://example.com/v1/records/%s", ids[2])
	recorder := test.Request(suite.T(), http.MethodGet, self, "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var fetched v1.RecordResponse
	test.DecodeResponse(suite.T(), &recorder, &fetched)
	require.NotNil(suite.T(), fetched.Data.LinkGroupID)
	suite.Assert().Equal(group.Data.ID, *fetched.Data.LinkGroupID)

	// Other fields can be changed without touching the link group
	recorder = test.Request(suite.T(), http.MethodPatch, self, map[string]any{"description": "Rent share", "linkGroupId": group.Data.ID})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var updated v1.RecordResponse
	test.DecodeResponse(suite.T(), &recorder, &updated)
	require.NotNil(suite.T(), updated.Data.LinkGroupID)
	suite.Assert().Equal(group.Data.ID, *updated.Data.LinkGroupID)
	suite.Assert().Equal(link.Allocation, updated.Data.LinkRole)

	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/records?linkGroup=%s", group.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var list v1.RecordListResponse
	test.DecodeResponse(suite.T(), &recorder, &list)
	suite.Assert().Len(list.Data, 3)

	recorder = test.Request(suite.T(), http.MethodPatch, self, `{ "linkGroupId": null }`)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var cleared v1.RecordResponse
	test.DecodeResponse(suite.T(), &recorder, &cleared)
	suite.Assert().Nil(cleared.Data.LinkGroupID)
	suite.Assert().Equal(models.LinkRoleNone, cleared.Data.LinkRole)

	// Two records are still linked
	recorder = test.Request(suite.T(), http.MethodGet, group.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var remaining v1.LinkResponse
	test.DecodeResponse(suite.T(), &recorder, &remaining)
	suite.Assert().Len(remaining.Data.Records, 2)
}

// TestRecordsUnlinkDissolvesGroup verifies that a link group never keeps
// a single record.
func (suite *TestSuiteStandard) TestRecordsUnlinkDissolvesGroup() {
	ids := createTestRecords(suite.T(), 50, 50)
	group := createTestLink(suite.T(), map[uuid.UUID]link.Role{ids[0]: link.Source, ids[1]: link.Allocation})

	recorder := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/records/%s", ids[0]), `{ "linkGroupId": null }`)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	recorder = test.Request(suite.T(), http.MethodGet, group.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	assertUnlinked(suite.T(), ids[1])
}

func (suite *TestSuiteStandard) TestRecordsDeleteDissolvesGroup() {
	ids := createTestRecords(suite.T(), 50, 50)
	group := createTestLink(suite.T(), map[uuid.UUID]link.Role{ids[0]: link.Source, ids[1]: link.Allocation})

	recorder := test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/records/%s", ids[0]), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet, group.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	assertUnlinked(suite.T(), ids[1])
}

func (suite *TestSuiteStandard) TestRecordsJoinLinkGroupFails() {
	ids := createTestRecords(suite.T(), 50, 50, 20)
	group := createTestLink(suite.T(), map[uuid.UUID]link.Role{ids[0]: link.Source, ids[1]: link.Allocation})

	tests := []struct {
		name string
		body any
	}{
		{"New group", map[string]any{"linkGroupId": uuid.New(), "linkRole": models.LinkRoleSource}},
		{"Existing group", map[string]any{"linkGroupId": group.Data.ID, "linkRole": models.LinkRoleAllocation}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodPatch, fmt.Sprintf("http://example.com/v1/records/%s", ids[2]), tt.body)
			test.AssertHTTPStatus(t, &recorder, http.StatusBadRequest)
		})
	}

	assertUnlinked(suite.T(), ids[2])

	recorder := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/records/%s", ids[0]), `{ "linkRole": "owner" }`)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	// Records cannot be created inside a link group either
	recorder = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/records", []v1.RecordEditable{{Amount: decimal.NewFromInt(5), LinkGroupID: &group.Data.ID, LinkRole: models.LinkRoleAllocation}})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	var created v1.RecordCreateResponse
	test.DecodeResponse(suite.T(), &recorder, &created)
	suite.Require().Len(created.Data, 1)
	suite.Assert().Nil(created.Data[0].Data)
	suite.Assert().NotNil(created.Data[0].Error)
}

func (suite *TestSuiteStandard) TestRecordsUpdateRecomputesHash() {
	r := createTestRecord(suite.T(), v1.RecordEditable{Amount: decimal.NewFromInt(10), Description: "Bakery"})

	recorder := test.Request(suite.T(), http.MethodPatch, r.Data.Links.Self, map[string]any{"amount": "11"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var updated v1.RecordResponse
	test.DecodeResponse(suite.T(), &recorder, &updated)
	suite.Assert().Equal("Bakery", updated.Data.Description)
	suite.Assert().NotEqual(r.Data.ImportHash, updated.Data.ImportHash)
}

func (suite *TestSuiteStandard) TestRecordsUpdateFails() {
	r := createTestRecord(suite.T(), v1.RecordEditable{Amount: decimal.NewFromInt(10)})

	tests := []struct {
		name   string
		url    string
		body   any
		status int
	}{
		{"Invalid ID", "http://example.com/v1/records/not-a-uuid", `{}`, http.StatusBadRequest},
		{"Not found", "http://example.com/v1/records/6b1f8cf2-4c3c-4b1b-9a0f-3a6f3c0a5e21", `{}`, http.StatusNotFound},
		{"Empty body", r.Data.Links.Self, "", http.StatusBadRequest},
		{"Broken body", r.Data.Links.Self, `{ "amount": 1`, http.StatusBadRequest},
		{"Join link group", r.Data.Links.Self, `{ "linkGroupId": "4e9a4a0d-2b2c-4b0c-a4b7-0d2b6c6f2d7e", "linkRole": "source" }`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodPatch, tt.url, tt.body)
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestRecordsDelete() {
	r := createTestRecord(suite.T(), v1.RecordEditable{Amount: decimal.NewFromInt(10)})

	recorder := test.Request(suite.T(), http.MethodDelete, r.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet, r.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

// TestRecordsDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestRecordsDBClosed() {
	suite.CloseDB()

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/records", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)

	var response v1.RecordListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Contains(*response.Error, models.ErrGeneral.Error())
}
