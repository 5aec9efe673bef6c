package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MatchRule suggests a category for imported records whose
// description matches a glob pattern.
type MatchRule struct {
	DefaultModel
	CategoryID uuid.UUID `json:"categoryId"`
	Category   Category  `json:"-"`
	Priority   uint      `json:"priority" example:"3"`
	Match      string    `json:"match" example:"*coffee*"`
}

func (MatchRule) Self() string {
	return "Match Rule"
}

func (r *MatchRule) BeforeSave(_ *gorm.DB) error {
	r.Match = strings.TrimSpace(r.Match)
	return nil
}
