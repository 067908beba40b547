package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gastosfacil/backend/internal/models"
)

const (
	// MaxAmountPlaces is the finest precision accepted for an amount.
	MaxAmountPlaces = 4
	// maxAmountExponent bounds amount magnitude before any arithmetic on it.
	maxAmountExponent = 12
)

// MaxAmount is the largest amount a single expense may record.
var MaxAmount = decimal.New(1, maxAmountExponent)

// ExpenseInput is the caller-supplied part of a new expense.
type ExpenseInput struct {
	GroupID     string
	PayerID     string
	Description string
	Amount      decimal.Decimal
	// Category is free text; unknown values become "other".
	Category string
}

func (in ExpenseInput) validate() error {
	if strings.TrimSpace(in.GroupID) == "" {
		return invalid("group_id", "is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return invalid("description", "is required")
	}
	if !in.Amount.IsPositive() {
		return invalid("amount", "must be greater than zero")
	}
	// Check the exponent first: comparing or printing a value like 1e-50000000
	// expands it to millions of digits.
	if -in.Amount.Exponent() > MaxAmountPlaces {
		return invalid("amount", fmt.Sprintf("must have at most %d decimal places", MaxAmountPlaces))
	}
	if in.Amount.Exponent() > maxAmountExponent || in.Amount.GreaterThan(MaxAmount) {
		return invalid("amount", "must not exceed "+MaxAmount.String())
	}
	return nil
}

// CreateExpense records an expense paid by in.PayerID in in.GroupID.
// Input is validated first, then the payer's membership is checked, then
// exactly one row is inserted. The ID and timestamp are assigned here.
func (e *Engine) CreateExpense(ctx context.Context, in ExpenseInput) (*models.Expense, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := e.AuthorizeGroupAccess(ctx, in.GroupID, in.PayerID); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		ID:          e.newID(),
		GroupID:     in.GroupID,
		PaidBy:      in.PayerID,
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		Category:    ParseCategory(in.Category),
		CreatedAt:   e.timestamp(),
	}

	if err := e.store.CreateExpense(ctx, expense); err != nil {
		return nil, storeErr("create expense", err)
	}

	e.metrics.expenseCreated(string(expense.Category))
	slog.Info("Expense created",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"paid_by", expense.PaidBy,
		"category", expense.Category,
	)

	return expense, nil
}

// ListExpensesForUser returns every expense in the groups the user belongs
// to, newest first. The result is recomputed on every call.
func (e *Engine) ListExpensesForUser(ctx context.Context, userID string) ([]models.Expense, error) {
	groupIDs, err := e.store.ListGroupIDsForUser(ctx, userID)
	if err != nil {
		return nil, storeErr("list memberships", err)
	}
	if len(groupIDs) == 0 {
		return []models.Expense{}, nil
	}

	expenses, err := e.store.ListExpensesByGroups(ctx, groupIDs)
	if err != nil {
		return nil, storeErr("list expenses", err)
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return expenses, nil
}

// ListGroupExpenses returns one group's expenses, newest first, if the user
// is a member.
func (e *Engine) ListGroupExpenses(ctx context.Context, groupID, userID string) ([]models.Expense, error) {
	if _, err := e.AuthorizeGroupAccess(ctx, groupID, userID); err != nil {
		return nil, err
	}

	expenses, err := e.store.ListExpensesByGroups(ctx, []string{groupID})
	if err != nil {
		return nil, storeErr("list expenses", err)
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return expenses, nil
}
