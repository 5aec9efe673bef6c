package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	v1 "github.com/reckon-ledger/reckon/internal/controllers/v1"
	"github.com/reckon-ledger/reckon/internal/link"
	"github.com/reckon-ledger/reckon/internal/models"
	"github.com/reckon-ledger/reckon/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// createTestRecords creates one record per amount.
func createTestRecords(t *testing.T, amounts ...int64) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(amounts))
	for _, amount := range amounts {
		r := createTestRecord(t, v1.RecordEditable{Amount: decimal.NewFromInt(amount), Kind: models.KindExpense})
		ids = append(ids, r.Data.ID)
	}
	return ids
}

// createTestLink links the records with the given roles.
func createTestLink(t *testing.T, roles map[uuid.UUID]link.Role) v1.LinkResponse {
	r := test.Request(t, http.MethodPost, "http://example.com/v1/links", v1.LinkCreateRequest{Roles: roles})
	test.AssertHTTPStatus(t, &r, http.StatusCreated)

	var created v1.LinkResponse
	test.DecodeResponse(t, &r, &created)
	return created
}

// assertUnlinked checks that the record exists and is not part of a link group.
func assertUnlinked(t *testing.T, id uuid.UUID) {
	r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/records/%s", id), "")
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var record v1.RecordResponse
	test.DecodeResponse(t, &r, &record)
	assert.Nil(t, record.Data.LinkGroupID)
	assert.Equal(t, models.LinkRoleNone, record.Data.LinkRole)
}

func (suite *TestSuiteStandard) TestLinksSuggest() {
	ids := createTestRecords(suite.T(), 60, 100, 40)

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/links/suggest", v1.LinkSuggestRequest{RecordIDs: ids})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.LinkSuggestResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(link.Source, response.Data.Roles[ids[1]])
	suite.Assert().Equal(link.Allocation, response.Data.Roles[ids[0]])
	suite.Assert().Equal(link.Allocation, response.Data.Roles[ids[2]])
	suite.Assert().True(response.Data.Balance.Balanced)
}

func (suite *TestSuiteStandard) TestLinksSuggestFails() {
	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"No records", v1.LinkSuggestRequest{}, http.StatusBadRequest},
		{"Unknown record", v1.LinkSuggestRequest{RecordIDs: []uuid.UUID{uuid.New()}}, http.StatusNotFound},
		{"Broken body", `{ "recordIds": 5 }`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/links/suggest", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestLinksCreate() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Savings"})
	ids := createTestRecords(suite.T(), 100, 60, 40)

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/links", v1.LinkCreateRequest{
		Roles: map[uuid.UUID]link.Role{
			ids[0]: link.Source,
			ids[1]: link.Allocation,
			ids[2]: link.Allocation,
		},
		Categories: map[uuid.UUID]*uuid.UUID{ids[2]: &category.Data.ID},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var created v1.LinkResponse
	test.DecodeResponse(suite.T(), &r, &created)
	suite.Assert().True(created.Data.Balance.Balanced)
	suite.Assert().True(created.Data.Balance.Difference.IsZero())
	suite.Require().Len(created.Data.Records, 3)
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/links/%s", created.Data.ID), created.Data.Links.Self)

	for _, record := range created.Data.Records {
		suite.Assert().Equal(created.Data.ID, *record.LinkGroupID)

		switch record.ID {
		case ids[0]:
			suite.Assert().Equal(models.KindTransfer, record.Kind)
			suite.Assert().Equal(link.Source, record.LinkRole)
		case ids[2]:
			suite.Assert().Equal(category.Data.ID, *record.CategoryID)
			fallthrough
		default:
			suite.Assert().Equal(models.KindExpense, record.Kind)
			suite.Assert().Equal(link.Allocation, record.LinkRole)
		}
	}

	// The group is stored
	r = test.Request(suite.T(), http.MethodGet, created.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var group v1.LinkResponse
	test.DecodeResponse(suite.T(), &r, &group)
	suite.Assert().Len(group.Data.Records, 3)
	suite.Assert().True(group.Data.Balance.Balanced)
	suite.Assert().True(group.Data.Balance.Sources.Equal(decimal.NewFromInt(100)))
}

func (suite *TestSuiteStandard) TestLinksCreateUnbalanced() {
	ids := createTestRecords(suite.T(), 100, 70)

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/links", v1.LinkCreateRequest{
		Roles:     map[uuid.UUID]link.Role{ids[0]: link.Source, ids[1]: link.Allocation},
		KeepKinds: true,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var created v1.LinkResponse
	test.DecodeResponse(suite.T(), &r, &created)
	suite.Assert().False(created.Data.Balance.Balanced)
	suite.Assert().True(created.Data.Balance.Difference.Equal(decimal.NewFromInt(30)), "difference is %s", created.Data.Balance.Difference)

	for _, record := range created.Data.Records {
		suite.Assert().Equal(models.KindExpense, record.Kind, "kinds are kept")
	}
}

func (suite *TestSuiteStandard) TestLinksCreateFails() {
	ids := createTestRecords(suite.T(), 100, 60)

	tests := []struct {
		name   string
		roles  map[uuid.UUID]link.Role
		status int
	}{
		{"No records", map[uuid.UUID]link.Role{}, http.StatusBadRequest},
		{"Single record", map[uuid.UUID]link.Role{ids[0]: link.Source}, http.StatusBadRequest},
		{"Missing role", map[uuid.UUID]link.Role{ids[0]: link.Source, ids[1]: ""}, http.StatusBadRequest},
		{"Unknown role", map[uuid.UUID]link.Role{ids[0]: link.Source, ids[1]: "owner"}, http.StatusBadRequest},
		{"Unknown record", map[uuid.UUID]link.Role{ids[0]: link.Source, uuid.New(): link.Allocation}, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/links", v1.LinkCreateRequest{Roles: tt.roles})
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.LinkResponse
			test.DecodeResponse(t, &r, &response)
			assert.NotNil(t, response.Error)
		})
	}

	// Nothing has been linked
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/records?linkGroup=", "")
	var list v1.RecordListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Assert().Len(list.Data, 2)
}

func (suite *TestSuiteStandard) TestLinksDelete() {
	ids := createTestRecords(suite.T(), 50, 50)

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/links", v1.LinkCreateRequest{
		Roles: map[uuid.UUID]link.Role{ids[0]: link.Source, ids[1]: link.Allocation},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var created v1.LinkResponse
	test.DecodeResponse(suite.T(), &r, &created)

	r = test.Request(suite.T(), http.MethodOptions, created.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET, DELETE", r.Header().Get("allow"))

	r = test.Request(suite.T(), http.MethodDelete, created.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, created.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	// The records are kept without link group
	for _, id := range ids {
		r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/records/%s", id), "")
		test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

		var record v1.RecordResponse
		test.DecodeResponse(suite.T(), &r, &record)
		suite.Assert().Nil(record.Data.LinkGroupID)
		suite.Assert().Equal(models.LinkRoleNone, record.Data.LinkRole)
	}
}

func (suite *TestSuiteStandard) TestLinksCreateMovesRecords() {
	ids := createTestRecords(suite.T(), 100, 100, 100)
	first := createTestLink(suite.T(), map[uuid.UUID]link.Role{ids[0]: link.Source, ids[1]: link.Allocation})
	second := createTestLink(suite.T(), map[uuid.UUID]link.Role{ids[1]: link.Source, ids[2]: link.Allocation})

	// The first group would keep a single record and is dissolved
	r := test.Request(suite.T(), http.MethodGet, first.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
	assertUnlinked(suite.T(), ids[0])

	r = test.Request(suite.T(), http.MethodGet, second.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var group v1.LinkResponse
	test.DecodeResponse(suite.T(), &r, &group)
	suite.Assert().Len(group.Data.Records, 2)
}

func (suite *TestSuiteStandard) TestLinksCreateKeepsLargerGroup() {
	ids := createTestRecords(suite.T(), 100, 50, 50, 10)
	first := createTestLink(suite.T(), map[uuid.UUID]link.Role{ids[0]: link.Source, ids[1]: link.Allocation, ids[2]: link.Allocation})
	createTestLink(suite.T(), map[uuid.UUID]link.Role{ids[2]: link.Source, ids[3]: link.Allocation})

	r := test.Request(suite.T(), http.MethodGet, first.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var group v1.LinkResponse
	test.DecodeResponse(suite.T(), &r, &group)
	suite.Assert().Len(group.Data.Records, 2)
	suite.Assert().False(group.Data.Balance.Balanced)
}
