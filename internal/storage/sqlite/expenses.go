package sqlite

import (
	"context"
	"fmt"

	"github.com/gastosfacil/backend/internal/models"
	"github.com/gastosfacil/backend/internal/storage"
)

// CreateExpense inserts a new expense row.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, paid_by, description, amount, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.PaidBy, expense.Description,
		expense.Amount.String(), string(expense.Category), toUnix(expense.CreatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("failed to insert expense: %w", storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

// ListExpensesByGroups retrieves the expenses of the given groups, newest
// first. Rows with the same timestamp keep insertion order.
func (s *SQLiteStore) ListExpensesByGroups(ctx context.Context, groupIDs []string) ([]models.Expense, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT e.id, e.group_id, e.paid_by, e.description, e.amount, e.category, e.created_at,
		       g.name, u.name
		FROM expenses e
		JOIN groups g ON g.id = e.group_id
		JOIN users u ON u.id = e.paid_by
		WHERE e.group_id IN (` + placeholders(len(groupIDs)) + `)
		ORDER BY e.created_at DESC, e.seq ASC`

	args := make([]interface{}, len(groupIDs))
	for i, id := range groupIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var (
			e         models.Expense
			category  string
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.GroupID, &e.PaidBy, &e.Description, &e.Amount, &category, &createdAt,
			&e.GroupName, &e.PayerName); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Category = models.Category(category)
		e.CreatedAt = fromUnix(createdAt)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}
