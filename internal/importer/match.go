package importer

import (
	"cmp"
	"slices"

	"github.com/reckon-ledger/reckon/internal/importer/helpers"
	"github.com/reckon-ledger/reckon/internal/models"
	"github.com/ryanuber/go-glob"
)

// ApplyMatchRules suggests a category for every record that does not
// have one yet.
//
// Rules are tried in ascending priority. The first rule whose pattern
// matches the normalized description wins. Patterns are globs and are
// normalized the same way as descriptions, so matching ignores case.
func ApplyMatchRules(records []ClassifiedRecord, rules []models.MatchRule) {
	rules = slices.Clone(rules)
	slices.SortStableFunc(rules, func(a, b models.MatchRule) int {
		return cmp.Compare(a.Priority, b.Priority)
	})

	for i := range records {
		if records[i].CategoryID != nil {
			continue
		}

		description := helpers.NormalizeDescription(records[i].Description)
		for _, rule := range rules {
			if glob.Glob(helpers.NormalizeDescription(rule.Match), description) {
				categoryID, ruleID := rule.CategoryID, rule.ID
				records[i].CategoryID = &categoryID
				records[i].MatchRuleID = &ruleID
				break
			}
		}
	}
}
