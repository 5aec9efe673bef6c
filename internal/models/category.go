package models

import (
	"strings"

	"gorm.io/gorm"
)

// Category groups records by purpose.
type Category struct {
	DefaultModel
	Name string `json:"name" gorm:"uniqueIndex" example:"Groceries"` // Name of the category
	Note string `json:"note" example:"Food and household items"`   // Notes about the category
}

func (Category) Self() string {
	return "Category"
}

func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Note = strings.TrimSpace(c.Note)
	return nil
}
