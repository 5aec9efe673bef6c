package v1_test

import (
	"net/http"
	"testing"

	v1 "github.com/reckon-ledger/reckon/internal/controllers/v1"
	"github.com/reckon-ledger/reckon/test"
	"github.com/stretchr/testify/assert"
)

func createTestMatchRule(t *testing.T, m v1.MatchRuleEditable, expectedStatus ...int) v1.MatchRuleResponse {
	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/match-rules", m)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var rule v1.MatchRuleResponse
	test.DecodeResponse(t, &r, &rule)
	return rule
}

func (suite *TestSuiteStandard) TestMatchRules() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Coffee"})

	createTestMatchRule(suite.T(), v1.MatchRuleEditable{CategoryID: category.Data.ID, Priority: 5, Match: "*shop*"})
	createTestMatchRule(suite.T(), v1.MatchRuleEditable{CategoryID: category.Data.ID, Priority: 1, Match: " *coffee* "})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/match-rules", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var list v1.MatchRuleListResponse
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Require().Len(list.Data, 2)
	suite.Assert().Equal("*coffee*", list.Data[0].Match, "rules are listed by priority and trimmed")
	suite.Assert().Equal("*shop*", list.Data[1].Match)
}

func (suite *TestSuiteStandard) TestMatchRulesMissingCategory() {
	createTestMatchRule(suite.T(), v1.MatchRuleEditable{Match: "*"}, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestMatchRulesUpdateAndDelete() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{})
	rule := createTestMatchRule(suite.T(), v1.MatchRuleEditable{CategoryID: category.Data.ID, Match: "*bakery*"})

	r := test.Request(suite.T(), http.MethodPatch, rule.Data.Links.Self, map[string]any{"priority": 7})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.MatchRuleResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	suite.Assert().Equal(uint(7), updated.Data.Priority)
	suite.Assert().Equal("*bakery*", updated.Data.Match)

	tests := []struct {
		name   string
		method string
		status int
	}{
		{"Delete", http.MethodDelete, http.StatusNoContent},
		{"Deleted", http.MethodGet, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, rule.Data.Links.Self, "")
			assert.Equal(t, tt.status, r.Code)
		})
	}
}

func (suite *TestSuiteStandard) TestMatchRulesUpdateZeroValue() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{})
	rule := createTestMatchRule(suite.T(), v1.MatchRuleEditable{CategoryID: category.Data.ID, Priority: 3, Match: "*rent*"})

	r := test.Request(suite.T(), http.MethodPatch, rule.Data.Links.Self, map[string]any{"priority": 0})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.MatchRuleResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	suite.Assert().Equal(uint(0), updated.Data.Priority, "fields set to their zero value are updated")
	suite.Assert().Equal("*rent*", updated.Data.Match)
	suite.Assert().Equal(category.Data.ID, updated.Data.CategoryID)
}
