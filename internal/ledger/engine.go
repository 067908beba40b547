// Package ledger implements membership-gated access to group expenses and
// the balance views derived from them.
//
// The Engine is stateless: every operation is a function of its arguments
// and the store's contents at call time. The requesting user's identity is
// always an explicit argument, never read from request state.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gastosfacil/backend/internal/models"
	"github.com/gastosfacil/backend/internal/storage"
)

// Store is the subset of storage.Store the engine needs.
type Store interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateGroup(ctx context.Context, group *models.Group, creator *models.Membership) error
	ListGroupsForUser(ctx context.Context, userID string) ([]models.GroupSummary, error)
	GetMembership(ctx context.Context, groupID, userID string) (*models.Membership, error)
	AddMembership(ctx context.Context, membership *models.Membership) error
	ListGroupMembers(ctx context.Context, groupID string) ([]models.Membership, error)
	ListGroupIDsForUser(ctx context.Context, userID string) ([]string, error)
	CreateExpense(ctx context.Context, expense *models.Expense) error
	ListExpensesByGroups(ctx context.Context, groupIDs []string) ([]models.Expense, error)
}

// Engine authorizes group access and computes expense views.
type Engine struct {
	store   Store
	now     func() time.Time
	newID   func() string
	metrics *Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used for server-assigned timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides the generator for new record IDs.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// WithMetrics enables Prometheus counters.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New creates an Engine backed by store.
func New(store Store, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AuthorizeGroupAccess returns the user's membership in the group.
// It fails with ErrNotMember when there is none, without revealing whether
// the group exists.
func (e *Engine) AuthorizeGroupAccess(ctx context.Context, groupID, userID string) (*models.Membership, error) {
	if groupID == "" || userID == "" {
		e.metrics.denied()
		return nil, ErrNotMember
	}

	membership, err := e.store.GetMembership(ctx, groupID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Debug("Group access denied", "group_id", groupID, "user_id", userID)
		e.metrics.denied()
		return nil, ErrNotMember
	}
	if err != nil {
		return nil, storeErr("get membership", err)
	}

	return membership, nil
}

func (e *Engine) timestamp() time.Time {
	return e.now().UTC()
}
