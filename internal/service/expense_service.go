package service

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/gastosfacil/backend/internal/events"
	"github.com/gastosfacil/backend/internal/ledger"
	"github.com/gastosfacil/backend/internal/middleware"
	"github.com/gastosfacil/backend/internal/models"
)

// ExpenseService serves expense listing, creation and the balance summary.
type ExpenseService struct {
	engine    *ledger.Engine
	publisher events.Publisher
}

// NewExpenseService creates a new ExpenseService. A nil publisher disables events.
func NewExpenseService(engine *ledger.Engine, publisher events.Publisher) *ExpenseService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &ExpenseService{engine: engine, publisher: publisher}
}

type createExpenseRequest struct {
	GroupID     string           `json:"group_id"`
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Category    string           `json:"category"`
}

type balanceResponse struct {
	Owes  decimal.Decimal `json:"owes"`
	Owed  decimal.Decimal `json:"owed"`
	Net   decimal.Decimal `json:"net"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// ListExpenses returns every expense in the caller's groups, newest first.
func (s *ExpenseService) ListExpenses(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	slog.Debug("ListExpenses request received", "user_id", userID)

	expenses, err := s.engine.ListExpensesForUser(r.Context(), userID)
	if err != nil {
		slog.Error("ListExpenses failed", "user_id", userID, "error", err)
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]models.Expense{"expenses": expenses})
}

// CreateExpense records an expense paid by the caller.
func (s *ExpenseService) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req createExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	amount := decimal.Zero
	if req.Amount != nil {
		amount = *req.Amount
	}

	slog.Info("CreateExpense request received",
		"user_id", userID,
		"group_id", req.GroupID,
		"category", req.Category,
	)

	expense, err := s.engine.CreateExpense(r.Context(), ledger.ExpenseInput{
		GroupID:     req.GroupID,
		PayerID:     userID,
		Description: req.Description,
		Amount:      amount,
		Category:    req.Category,
	})
	if err != nil {
		slog.Warn("CreateExpense failed", "user_id", userID, "group_id", req.GroupID, "error", err)
		writeError(w, r, err)
		return
	}

	if err := s.publisher.PublishExpenseCreated(r.Context(), expense); err != nil {
		slog.Warn("Failed to publish expense event", "expense_id", expense.ID, "error", err)
	}

	writeJSON(w, http.StatusCreated, map[string]*models.Expense{"expense": expense})
}

// Balance returns the caller's whole-amount balance across their groups.
func (s *ExpenseService) Balance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	summary, err := s.engine.BalanceForUser(r.Context(), userID)
	if err != nil {
		slog.Error("Balance failed", "user_id", userID, "error", err)
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, balanceResponse{
		Owes:  summary.Owes,
		Owed:  summary.Owed,
		Net:   summary.Net(),
		Total: summary.Total,
		Count: summary.Count,
	})
}
