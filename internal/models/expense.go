package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is the closed set of expense categories.
type Category string

const (
	CategoryFood      Category = "food"
	CategoryTransport Category = "transport"
	CategoryLeisure   Category = "leisure"
	CategoryShopping  Category = "shopping"
	CategoryHealth    Category = "health"
	CategoryEducation Category = "education"
	CategoryOther     Category = "other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryLeisure,
	CategoryShopping,
	CategoryHealth,
	CategoryEducation,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Expense represents money one group member paid on behalf of the group.
// Expenses are immutable once created.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID is the group this expense belongs to.
	GroupID string `json:"group_id"`

	// PaidBy is the user ID of the payer.
	PaidBy string `json:"paid_by"`

	// Description is the trimmed, non-empty description (e.g., "Rent").
	Description string `json:"description"`

	// Amount is positive and stored exactly; no rounding is applied.
	Amount decimal.Decimal `json:"amount"`

	Category Category `json:"category"`

	// CreatedAt is assigned by the server at creation time.
	CreatedAt time.Time `json:"created_at"`

	// GroupName and PayerName are populated on listings.
	GroupName string `json:"group_name,omitempty"`
	PayerName string `json:"payer_name,omitempty"`
}
