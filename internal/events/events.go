// Package events publishes domain events to other systems.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gastosfacil/backend/internal/models"
)

// Publisher delivers domain events. Delivery is best effort.
type Publisher interface {
	PublishExpenseCreated(ctx context.Context, expense *models.Expense) error
	Close() error
}

// ExpenseCreated is the message body for a newly recorded expense.
type ExpenseCreated struct {
	ExpenseID   string          `json:"expense_id"`
	GroupID     string          `json:"group_id"`
	PaidBy      string          `json:"paid_by"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
	PublishedAt time.Time       `json:"published_at"`
}

// NewExpenseCreated builds the event for expense.
func NewExpenseCreated(expense *models.Expense) *ExpenseCreated {
	return &ExpenseCreated{
		ExpenseID:   expense.ID,
		GroupID:     expense.GroupID,
		PaidBy:      expense.PaidBy,
		Description: expense.Description,
		Amount:      expense.Amount,
		Category:    string(expense.Category),
		CreatedAt:   expense.CreatedAt,
		PublishedAt: time.Now().UTC(),
	}
}

// ToJSON encodes the event.
func (e *ExpenseCreated) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Noop discards every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) PublishExpenseCreated(context.Context, *models.Expense) error { return nil }

func (Noop) Close() error { return nil }
