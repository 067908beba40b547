package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/gastosfacil/backend/internal/models"
)

// Balance is one user's whole-amount position across a set of expenses.
type Balance struct {
	// Owes is the sum of expenses paid by someone else.
	Owes decimal.Decimal `json:"owes"`
	// Owed is the sum of expenses the user paid.
	Owed decimal.Decimal `json:"owed"`
}

// Net returns Owed - Owes. Positive means others owe the user.
func (b Balance) Net() decimal.Decimal {
	return b.Owed.Sub(b.Owes)
}

// Add combines two balances.
func (b Balance) Add(other Balance) Balance {
	return Balance{
		Owes: b.Owes.Add(other.Owes),
		Owed: b.Owed.Add(other.Owed),
	}
}

// ComputeBalance sums expenses into what the user fronted and what others
// fronted. Every expense counts in full on one side; nothing is divided by
// member count. The expenses are expected to come from the user's groups.
func ComputeBalance(expenses []models.Expense, userID string) Balance {
	bal := Balance{Owes: decimal.Zero, Owed: decimal.Zero}
	for _, e := range expenses {
		if e.PaidBy == userID {
			bal.Owed = bal.Owed.Add(e.Amount)
		} else {
			bal.Owes = bal.Owes.Add(e.Amount)
		}
	}
	return bal
}

// MemberBalance represents the balance information for one group member
// when expenses are split evenly.
type MemberBalance struct {
	UserID string          `json:"user_id"`
	Name   string          `json:"name,omitempty"`
	Paid   decimal.Decimal `json:"paid"`  // Total amount fronted
	Share  decimal.Decimal `json:"share"` // Sum of this member's even shares
	Net    decimal.Decimal `json:"net"`   // Positive = owed money, Negative = owes money
}

// Transfer is a suggested payment that moves a group towards zero balances.
type Transfer struct {
	From   string          `json:"from"` // Person who owes
	To     string          `json:"to"`   // Person who is owed
	Amount decimal.Decimal `json:"amount"`
}

// CalculateGroupBalances splits every expense evenly among members and
// returns per-member balances (in members order, followed by any payer who
// is no longer a member) plus a simplified list of transfers.
//
// Algorithm:
//   - For each expense: payer contributed +amount, each member owes an even share
//   - net = paid - share
//   - Transfers: greedy matching of the largest debtor with the largest creditor
func CalculateGroupBalances(expenses []models.Expense, members []string) ([]MemberBalance, []Transfer, error) {
	balances := make(map[string]*MemberBalance)
	var order []string

	ensure := func(userID string) *MemberBalance {
		if bal, exists := balances[userID]; exists {
			return bal
		}
		bal := &MemberBalance{UserID: userID, Paid: decimal.Zero, Share: decimal.Zero}
		balances[userID] = bal
		order = append(order, userID)
		return bal
	}

	for _, m := range members {
		ensure(m)
	}

	for _, e := range expenses {
		payer := ensure(e.PaidBy)
		payer.Paid = payer.Paid.Add(e.Amount)

		if len(members) == 0 {
			continue
		}
		shares, err := SplitEvenly(e.Amount, len(members))
		if err != nil {
			return nil, nil, err
		}
		for i, m := range members {
			balances[m].Share = balances[m].Share.Add(shares[i])
		}
	}

	result := make([]MemberBalance, 0, len(order))
	for _, id := range order {
		bal := balances[id]
		bal.Net = bal.Paid.Sub(bal.Share)
		result = append(result, *bal)
	}

	return result, SimplifyDebts(result), nil
}

// SimplifyDebts matches debtors with creditors to minimize transactions.
func SimplifyDebts(balances []MemberBalance) []Transfer {
	type position struct {
		userID string
		amount decimal.Decimal
	}

	var creditors, debtors []position
	for _, bal := range balances {
		switch bal.Net.Sign() {
		case 1:
			creditors = append(creditors, position{bal.UserID, bal.Net})
		case -1:
			debtors = append(debtors, position{bal.UserID, bal.Net.Neg()})
		}
	}

	byAmount := func(list []position) func(i, j int) bool {
		return func(i, j int) bool {
			if c := list[i].amount.Cmp(list[j].amount); c != 0 {
				return c > 0
			}
			return list[i].userID < list[j].userID
		}
	}
	sort.SliceStable(creditors, byAmount(creditors))
	sort.SliceStable(debtors, byAmount(debtors))

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debtors[i].amount, creditors[j].amount)
		if amount.IsPositive() {
			transfers = append(transfers, Transfer{
				From:   debtors[i].userID,
				To:     creditors[j].userID,
				Amount: amount,
			})
		}

		debtors[i].amount = debtors[i].amount.Sub(amount)
		creditors[j].amount = creditors[j].amount.Sub(amount)

		if !debtors[i].amount.IsPositive() {
			i++
		}
		if !creditors[j].amount.IsPositive() {
			j++
		}
	}

	return transfers
}
