package v1_test

import (
	"net/http"
	"strings"
	"testing"

	v1 "github.com/reckon-ledger/reckon/internal/controllers/v1"
	"github.com/reckon-ledger/reckon/internal/importer"
	"github.com/reckon-ledger/reckon/internal/models"
	"github.com/reckon-ledger/reckon/internal/types"
	"github.com/reckon-ledger/reckon/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func previewImport(t *testing.T, file, query string, expectedStatus ...int) v1.ImportPreviewResponse {
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusOK)
	}

	body, headers := test.LoadTestFile(t, file)
	r := test.Request(t, http.MethodPost, "http://example.com/v1/import/preview"+query, body, headers)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.ImportPreviewResponse
	test.DecodeResponse(t, &r, &response)
	return response
}

func (suite *TestSuiteStandard) TestImportGet() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/import", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ImportResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("http://example.com/v1/import/preview", response.Links.Preview)
}

func (suite *TestSuiteStandard) TestImportPreviewBatchInternal() {
	preview := previewImport(suite.T(), "importer/csv/duplicates.csv", "")
	suite.Require().Len(preview.Data, 2)

	suite.Assert().Equal(importer.ConflictNone, preview.Data[0].Conflict)
	suite.Assert().False(preview.Data[0].Excluded)
	suite.Assert().Equal(models.KindExpense, preview.Data[0].Kind)
	suite.Assert().Equal("EUR", preview.Data[0].Currency)

	suite.Assert().Equal(importer.ConflictBatchInternal, preview.Data[1].Conflict)
	suite.Assert().True(preview.Data[1].Excluded)
}

func (suite *TestSuiteStandard) TestImportPreviewDatabaseDuplicates() {
	stored := createTestRecord(suite.T(), v1.RecordEditable{
		Date:        types.MustParseDate("2024-03-01"),
		Amount:      decimal.NewFromFloat(4.5),
		Description: "coffee shop",
		Kind:        models.KindExpense,
	})

	preview := previewImport(suite.T(), "importer/csv/duplicates.csv", "")
	suite.Require().Len(preview.Data, 2)

	for _, r := range preview.Data {
		suite.Assert().Equal(importer.ConflictDatabase, r.Conflict, "a database conflict wins over a batch internal one")
		suite.Assert().True(r.Excluded)
		suite.Assert().Equal(stored.Data.ID, r.DuplicateIDs[0])
	}

	// The currency only decides the rounding of the amount
	preview = previewImport(suite.T(), "importer/csv/duplicates.csv", "?currency=usd")
	suite.Assert().Equal(importer.ConflictDatabase, preview.Data[0].Conflict)
	suite.Assert().Equal("USD", preview.Data[0].Currency)
}

func (suite *TestSuiteStandard) TestImportPreviewMatchRules() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Coffee"})
	createTestMatchRule(suite.T(), v1.MatchRuleEditable{CategoryID: category.Data.ID, Match: "*COFFEE*"})

	preview := previewImport(suite.T(), "importer/csv/ynab.csv", "")
	suite.Require().Len(preview.Data, 3)

	suite.Require().NotNil(preview.Data[0].CategoryID)
	suite.Assert().Equal(category.Data.ID, *preview.Data[0].CategoryID)
	suite.Assert().Nil(preview.Data[1].CategoryID, "the salary does not match")
	suite.Assert().Equal(models.KindIncome, preview.Data[1].Kind)
}

func (suite *TestSuiteStandard) TestImportPreviewJSON() {
	body, headers := test.MultipartFile(suite.T(), "export.json", strings.NewReader(`{"data": [
		{"date": "2024-03-01", "amount": "-4.50", "description": "Coffee Shop", "id": "A1"},
		{"date": "2024-03-02", "amount": "1200", "description": "Salary", "id": "A2"}
	]}`))

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/import/preview?jsonRoot=$.data[*]", body, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var preview v1.ImportPreviewResponse
	test.DecodeResponse(suite.T(), &r, &preview)
	suite.Require().Len(preview.Data, 2)
	suite.Assert().Equal("A1", preview.Data[0].SourceID)
	suite.Assert().Equal("Salary", preview.Data[1].Description)
}

func (suite *TestSuiteStandard) TestImportPreviewFails() {
	tests := []struct {
		name     string
		file     string
		contains string
	}{
		{"Broken date", "importer/csv/error-date.csv", "line 3"},
		{"No date column", "importer/csv/error-no-date-column.csv", ""},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			response := previewImport(t, tt.file, "", http.StatusBadRequest)
			assert.Contains(t, *response.Error, tt.contains)
		})
	}
}

func (suite *TestSuiteStandard) TestImportPreviewFileErrors() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/import/preview", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	body, headers := test.MultipartFile(suite.T(), "statement.pdf", strings.NewReader("%PDF"))
	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/import/preview", body, headers)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.ImportPreviewResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Contains(*response.Error, "only supports files of the following types")
}

func (suite *TestSuiteStandard) TestImportCreate() {
	preview := previewImport(suite.T(), "importer/csv/duplicates.csv", "")

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/import", preview.Data)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var created v1.ImportCreateResponse
	test.DecodeResponse(suite.T(), &r, &created)
	suite.Require().Len(created.Data.Created, 1, "excluded records are not stored")
	suite.Assert().Empty(created.Data.Conflicts)
	suite.Assert().True(created.Data.Created[0].Amount.Equal(decimal.NewFromFloat(4.5)), "amounts are stored as magnitude")
	suite.Assert().Equal(models.KindExpense, created.Data.Created[0].Kind)

	// Committing the same preview again finds the record stored in the meantime
	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/import", preview.Data)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var again v1.ImportCreateResponse
	test.DecodeResponse(suite.T(), &r, &again)
	suite.Assert().Empty(again.Data.Created)
	suite.Require().Len(again.Data.Conflicts, 1)
	suite.Assert().Equal(importer.ConflictDatabase, again.Data.Conflicts[0].Conflict)
}
