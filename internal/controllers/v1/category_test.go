package v1_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	v1 "github.com/reckon-ledger/reckon/internal/controllers/v1"
	"github.com/reckon-ledger/reckon/internal/models"
	"github.com/reckon-ledger/reckon/test"
	"github.com/stretchr/testify/assert"
)

func createTestCategory(t *testing.T, c v1.CategoryEditable, expectedStatus ...int) v1.CategoryResponse {
	if c.Name == "" {
		c.Name = uuid.NewString()
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/categories", c)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var category v1.CategoryResponse
	test.DecodeResponse(t, &r, &category)
	return category
}

func (suite *TestSuiteStandard) TestCategories() {
	groceries := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Groceries", Note: "Food"})
	createTestCategory(suite.T(), v1.CategoryEditable{Name: "Bills"})

	suite.Assert().Equal("http://example.com/v1/records?category="+groceries.Data.ID.String(), groceries.Data.Links.Records)

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/categories", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var list v1.CategoryListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Require().Len(list.Data, 2)
	suite.Assert().Equal("Bills", list.Data[0].Name, "categories are ordered by name")
	suite.Assert().Equal("Groceries", list.Data[1].Name)
}

func (suite *TestSuiteStandard) TestCategoriesDuplicateName() {
	createTestCategory(suite.T(), v1.CategoryEditable{Name: "Groceries"})
	r := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Groceries"}, http.StatusBadRequest)
	suite.Assert().Equal(models.ErrCategoryNameNotUnique.Error(), *r.Error)
}

func (suite *TestSuiteStandard) TestCategoriesUpdate() {
	c := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Groceries", Note: "Food"})

	r := test.Request(suite.T(), http.MethodPatch, c.Data.Links.Self, map[string]any{"note": ""})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.CategoryResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	suite.Assert().Equal("Groceries", updated.Data.Name)
	suite.Assert().Equal("", updated.Data.Note, "fields set to their zero value are updated")
}

func (suite *TestSuiteStandard) TestCategoriesDelete() {
	c := createTestCategory(suite.T(), v1.CategoryEditable{})

	r := test.Request(suite.T(), http.MethodDelete, c.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	tests := []struct {
		name   string
		method string
	}{
		{"GET", http.MethodGet},
		{"DELETE", http.MethodDelete},
		{"PATCH", http.MethodPatch},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, c.Data.Links.Self, `{}`)
			test.AssertHTTPStatus(t, &r, http.StatusNotFound)

			var response v1.CategoryResponse
			test.DecodeResponse(t, &r, &response)
			assert.Contains(t, *response.Error, "there is no category")
		})
	}
}
