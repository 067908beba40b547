package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/gastosfacil/backend/internal/models"
	"github.com/gastosfacil/backend/internal/storage/memory"
)

type fixture struct {
	store  *memory.Store
	engine *Engine
	clock  *fakeClock
}

type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), step: time.Second}
	return &fixture{
		store:  store,
		clock:  clock,
		engine: New(store, WithClock(clock.Now)),
	}
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	u := models.NewUser(name+"@example.com", name, "hash")
	require.NoError(t, f.store.CreateUser(context.Background(), u))
	return u
}

func (f *fixture) group(t *testing.T, creator *models.User, name string) *models.Group {
	t.Helper()
	g, err := f.engine.CreateGroup(context.Background(), creator.ID, name, "")
	require.NoError(t, err)
	return g
}

func (f *fixture) expense(t *testing.T, groupID, payerID, description, amount string) *models.Expense {
	t.Helper()
	e, err := f.engine.CreateExpense(context.Background(), ExpenseInput{
		GroupID:     groupID,
		PayerID:     payerID,
		Description: description,
		Amount:      decimal.RequireFromString(amount),
	})
	require.NoError(t, err)
	return e
}

func TestApartmentScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1")
	u2 := f.user(t, "u2")

	g := f.group(t, u1, "Apartment")

	m, err := f.engine.AuthorizeGroupAccess(ctx, g.ID, u1.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, m.Role)

	_, err = f.engine.CreateExpense(ctx, ExpenseInput{
		GroupID:     g.ID,
		PayerID:     u2.ID,
		Description: "Rent",
		Amount:      decimal.RequireFromString("1200.00"),
		Category:    "other",
	})
	require.ErrorIs(t, err, ErrNotMember)

	_, err = f.engine.CreateExpense(ctx, ExpenseInput{
		GroupID:     g.ID,
		PayerID:     u1.ID,
		Description: "Rent",
		Amount:      decimal.RequireFromString("1200.00"),
		Category:    "other",
	})
	require.NoError(t, err)

	expenses, err := f.engine.ListExpensesForUser(ctx, u1.ID)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	require.True(t, expenses[0].Amount.Equal(decimal.RequireFromString("1200.00")))
	require.Equal(t, "Apartment", expenses[0].GroupName)

	bal := ComputeBalance(expenses, u1.ID)
	require.True(t, bal.Owes.IsZero())
	require.True(t, bal.Owed.Equal(decimal.RequireFromString("1200.00")))

	others, err := f.engine.ListExpensesForUser(ctx, u2.ID)
	require.NoError(t, err)
	require.Empty(t, others)
}

func TestAuthorizeGroupAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")
	outsider := f.user(t, "outsider")
	g := f.group(t, owner, "Trip")

	tests := []struct {
		name    string
		groupID string
		userID  string
		wantErr error
	}{
		{"member", g.ID, owner.ID, nil},
		{"non-member", g.ID, outsider.ID, ErrNotMember},
		{"unknown group looks the same as non-member", "does-not-exist", owner.ID, ErrNotMember},
		{"empty user", g.ID, "", ErrNotMember},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := f.engine.AuthorizeGroupAccess(ctx, tt.groupID, tt.userID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, m)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.userID, m.UserID)
		})
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "payer")
	g := f.group(t, u, "House")

	tests := []struct {
		name      string
		input     ExpenseInput
		wantField string
	}{
		{"zero amount", ExpenseInput{GroupID: g.ID, PayerID: u.ID, Description: "Gas", Amount: decimal.Zero}, "amount"},
		{"negative amount", ExpenseInput{GroupID: g.ID, PayerID: u.ID, Description: "Gas", Amount: decimal.RequireFromString("-5")}, "amount"},
		{"blank description", ExpenseInput{GroupID: g.ID, PayerID: u.ID, Description: "   ", Amount: decimal.RequireFromString("5")}, "description"},
		{"missing group", ExpenseInput{PayerID: u.ID, Description: "Gas", Amount: decimal.RequireFromString("5")}, "group_id"},
		{"too many decimal places", ExpenseInput{GroupID: g.ID, PayerID: u.ID, Description: "Gas", Amount: decimal.RequireFromString("0.00001")}, "amount"},
		{"huge negative exponent", ExpenseInput{GroupID: g.ID, PayerID: u.ID, Description: "Gas", Amount: decimal.RequireFromString("1e-50000000")}, "amount"},
		{"huge positive exponent", ExpenseInput{GroupID: g.ID, PayerID: u.ID, Description: "Gas", Amount: decimal.RequireFromString("1e50000000")}, "amount"},
		{"above maximum", ExpenseInput{GroupID: g.ID, PayerID: u.ID, Description: "Gas", Amount: decimal.RequireFromString("1000000000000.01")}, "amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.CreateExpense(ctx, tt.input)
			require.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			require.Equal(t, tt.wantField, verr.Field)
		})
	}

	expenses, err := f.engine.ListExpensesForUser(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, expenses, "rejected expenses must not be stored")
}

func TestCreateExpenseAmountBounds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "payer")
	g := f.group(t, u, "House")

	for _, amount := range []string{"0.0001", "12.3400", "1000000000000"} {
		e, err := f.engine.CreateExpense(ctx, ExpenseInput{
			GroupID:     g.ID,
			PayerID:     u.ID,
			Description: "Bound",
			Amount:      decimal.RequireFromString(amount),
		})
		require.NoError(t, err, amount)
		require.True(t, e.Amount.Equal(decimal.RequireFromString(amount)))
	}
}

func TestCreateExpenseCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "payer")
	g := f.group(t, u, "House")

	tests := []struct {
		raw  string
		want models.Category
	}{
		{"", models.CategoryOther},
		{"food", models.CategoryFood},
		{"  Transport ", models.CategoryTransport},
		{"outros", models.CategoryOther},
		{"groceries", models.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.raw), func(t *testing.T) {
			e, err := f.engine.CreateExpense(ctx, ExpenseInput{
				GroupID:     g.ID,
				PayerID:     u.ID,
				Description: "Item",
				Amount:      decimal.RequireFromString("1"),
				Category:    tt.raw,
			})
			require.NoError(t, err)
			require.Equal(t, tt.want, e.Category)
			require.True(t, e.Category.Valid())
		})
	}
}

func TestCreateExpenseRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "payer")
	g := f.group(t, u, "House")

	e, err := f.engine.CreateExpense(ctx, ExpenseInput{
		GroupID:     g.ID,
		PayerID:     u.ID,
		Description: "  Groceries  ",
		Amount:      decimal.RequireFromString("10.005"),
		Category:    "food",
	})
	require.NoError(t, err)
	require.NotEmpty(t, e.ID)
	require.Equal(t, "Groceries", e.Description)
	require.Equal(t, u.ID, e.PaidBy)
	require.True(t, e.Amount.Equal(decimal.RequireFromString("10.005")), "amount must not be rounded")
	require.False(t, e.CreatedAt.IsZero())

	second := f.expense(t, g.ID, u.ID, "More", "1")
	require.NotEqual(t, e.ID, second.ID)
	require.True(t, second.CreatedAt.After(e.CreatedAt))
}

func TestListExpensesForUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	shared := f.group(t, alice, "Shared")
	_, err := f.engine.AddMember(ctx, shared.ID, alice.ID, bob.Email)
	require.NoError(t, err)
	private := f.group(t, bob, "Bob only")

	first := f.expense(t, shared.ID, alice.ID, "Dinner", "40")
	hidden := f.expense(t, private.ID, bob.ID, "Gift", "25")
	last := f.expense(t, shared.ID, bob.ID, "Taxi", "12.50")

	t.Run("never leaks other groups", func(t *testing.T) {
		expenses, err := f.engine.ListExpensesForUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, expenses, 2)
		for _, e := range expenses {
			require.NotEqual(t, hidden.ID, e.ID)
			require.Equal(t, shared.ID, e.GroupID)
		}
	})

	t.Run("newest first", func(t *testing.T) {
		expenses, err := f.engine.ListExpensesForUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Equal(t, last.ID, expenses[0].ID)
		require.Equal(t, first.ID, expenses[1].ID)
	})

	t.Run("idempotent", func(t *testing.T) {
		a, err := f.engine.ListExpensesForUser(ctx, bob.ID)
		require.NoError(t, err)
		b, err := f.engine.ListExpensesForUser(ctx, bob.ID)
		require.NoError(t, err)
		require.Equal(t, a, b)
		require.Len(t, a, 3)
	})

	t.Run("user without groups gets an empty list", func(t *testing.T) {
		loner := f.user(t, "loner")
		expenses, err := f.engine.ListExpensesForUser(ctx, loner.ID)
		require.NoError(t, err)
		require.NotNil(t, expenses)
		require.Empty(t, expenses)
	})
}

func TestListExpensesTiesKeepInsertionOrder(t *testing.T) {
	store := memory.New()
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	engine := New(store, WithClock(func() time.Time { return fixed }))
	ctx := context.Background()

	u := models.NewUser("tie@example.com", "Tie", "hash")
	require.NoError(t, store.CreateUser(ctx, u))
	g, err := engine.CreateGroup(ctx, u.ID, "Ties", "")
	require.NoError(t, err)

	var ids []string
	for i := 0; i < 4; i++ {
		e, err := engine.CreateExpense(ctx, ExpenseInput{
			GroupID:     g.ID,
			PayerID:     u.ID,
			Description: fmt.Sprintf("expense %d", i),
			Amount:      decimal.NewFromInt(int64(i + 1)),
		})
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}

	expenses, err := engine.ListExpensesForUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, expenses, 4)
	for i, e := range expenses {
		require.Equal(t, ids[i], e.ID)
	}
}

func TestListGroupExpenses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")
	outsider := f.user(t, "outsider")
	g := f.group(t, owner, "Club")
	f.expense(t, g.ID, owner.ID, "Balls", "30")

	expenses, err := f.engine.ListGroupExpenses(ctx, g.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, expenses, 1)

	_, err = f.engine.ListGroupExpenses(ctx, g.ID, outsider.ID)
	require.ErrorIs(t, err, ErrNotMember)
}

func TestBalanceForUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	g := f.group(t, alice, "Flat")
	_, err := f.engine.AddMember(ctx, g.ID, alice.ID, bob.Email)
	require.NoError(t, err)

	f.expense(t, g.ID, alice.ID, "Rent", "900")
	f.expense(t, g.ID, bob.ID, "Internet", "60")

	summary, err := f.engine.BalanceForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, summary.Owed.Equal(decimal.NewFromInt(900)))
	require.True(t, summary.Owes.Equal(decimal.NewFromInt(60)))
	require.True(t, summary.Net().Equal(decimal.NewFromInt(840)))
	require.True(t, summary.Total.Equal(decimal.NewFromInt(960)))
	require.Equal(t, 2, summary.Count)
}

func TestGroupBalances(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	outsider := f.user(t, "outsider")
	g := f.group(t, alice, "Flat")
	_, err := f.engine.AddMember(ctx, g.ID, alice.ID, bob.Email)
	require.NoError(t, err)

	f.expense(t, g.ID, alice.ID, "Rent", "900")
	f.expense(t, g.ID, bob.ID, "Internet", "60")

	report, err := f.engine.GroupBalances(ctx, g.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, report.Balances, 2)
	require.Equal(t, "alice", report.Balances[0].Name)
	require.True(t, report.Balances[0].Net.Equal(decimal.NewFromInt(420)))
	require.True(t, report.Balances[1].Net.Equal(decimal.NewFromInt(-420)))

	require.Len(t, report.Transfers, 1)
	require.Equal(t, bob.ID, report.Transfers[0].From)
	require.Equal(t, alice.ID, report.Transfers[0].To)
	require.True(t, report.Transfers[0].Amount.Equal(decimal.NewFromInt(420)))

	_, err = f.engine.GroupBalances(ctx, g.ID, outsider.ID)
	require.ErrorIs(t, err, ErrNotMember)
}

func TestEngineUsesIDGenerator(t *testing.T) {
	store := memory.New()
	var n int
	engine := New(store, WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
	ctx := context.Background()

	u := models.NewUser("ana@example.com", "Ana", "hash")
	require.NoError(t, store.CreateUser(ctx, u))

	g, err := engine.CreateGroup(ctx, u.ID, "Trip", "")
	require.NoError(t, err)
	require.Equal(t, "id-1", g.ID)

	e, err := engine.CreateExpense(ctx, ExpenseInput{
		GroupID:     g.ID,
		PayerID:     u.ID,
		Description: "Tolls",
		Amount:      decimal.RequireFromString("8.40"),
	})
	require.NoError(t, err)
	require.Equal(t, "id-2", e.ID)

	listed, err := engine.ListGroupExpenses(ctx, g.ID, u.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "id-2", listed[0].ID)
}
