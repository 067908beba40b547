package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/gastosfacil/backend/internal/calculator"
	"github.com/gastosfacil/backend/internal/models"
)

// Balance is a user's owes/owed position.
type Balance = calculator.Balance

// ComputeBalance sums whole expense amounts: what userID paid is owed to
// them, what anyone else paid is owed by them. See calculator.ComputeBalance.
func ComputeBalance(expenses []models.Expense, userID string) Balance {
	return calculator.ComputeBalance(expenses, userID)
}

// Summary is the dashboard view of a user's expenses.
type Summary struct {
	Balance
	Total decimal.Decimal
	Count int
}

// BalanceForUser computes the user's balance over every expense visible to them.
func (e *Engine) BalanceForUser(ctx context.Context, userID string) (Summary, error) {
	expenses, err := e.ListExpensesForUser(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	total := decimal.Zero
	for _, exp := range expenses {
		total = total.Add(exp.Amount)
	}

	return Summary{
		Balance: ComputeBalance(expenses, userID),
		Total:   total,
		Count:   len(expenses),
	}, nil
}

// GroupReport holds even-split balances for one group.
type GroupReport struct {
	Balances  []calculator.MemberBalance `json:"balances"`
	Transfers []calculator.Transfer      `json:"transfers"`
}

// GroupBalances splits each of the group's expenses evenly among its current
// members and suggests the transfers that settle the group.
func (e *Engine) GroupBalances(ctx context.Context, groupID, userID string) (*GroupReport, error) {
	if _, err := e.AuthorizeGroupAccess(ctx, groupID, userID); err != nil {
		return nil, err
	}

	members, err := e.store.ListGroupMembers(ctx, groupID)
	if err != nil {
		return nil, storeErr("list members", err)
	}
	expenses, err := e.store.ListExpensesByGroups(ctx, []string{groupID})
	if err != nil {
		return nil, storeErr("list expenses", err)
	}

	ids := make([]string, len(members))
	names := make(map[string]string, len(members))
	for i, m := range members {
		ids[i] = m.UserID
		names[m.UserID] = m.UserName
	}
	for _, exp := range expenses {
		if _, ok := names[exp.PaidBy]; !ok {
			names[exp.PaidBy] = exp.PayerName
		}
	}

	balances, transfers, err := calculator.CalculateGroupBalances(expenses, ids)
	if err != nil {
		return nil, err
	}
	for i := range balances {
		balances[i].Name = names[balances[i].UserID]
	}
	if transfers == nil {
		transfers = []calculator.Transfer{}
	}

	return &GroupReport{Balances: balances, Transfers: transfers}, nil
}
