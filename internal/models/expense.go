package models

import (
	"time"

	"gorm.io/gorm"
)

// Category is the fixed set of expense categories
type Category string

const (
	CategoryFood           Category = "Food"
	CategoryTransportation Category = "Transportation"
	CategoryEntertainment  Category = "Entertainment"
	CategoryEducation      Category = "Education"
	CategoryBills          Category = "Bills"
	CategoryOther          Category = "Other"
)

// Categories lists all known categories in display order
var Categories = []Category{
	CategoryFood,
	CategoryTransportation,
	CategoryEntertainment,
	CategoryEducation,
	CategoryBills,
	CategoryOther,
}

// IsValid reports whether c is one of the known categories
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// NormalizeCategory maps unknown or empty category values to Other
func NormalizeCategory(c Category) Category {
	if c.IsValid() {
		return c
	}
	return CategoryOther
}

// Expense represents a single dated, categorized expense owned by a user
type Expense struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index;not null" json:"user_id"`
	Title     string         `gorm:"size:100;not null" json:"title"`
	Amount    float64        `gorm:"not null" json:"amount"`
	Category  Category       `gorm:"size:20;not null;default:Other" json:"category"`
	Date      time.Time      `gorm:"not null" json:"date"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Expense model
func (Expense) TableName() string {
	return "expenses"
}
