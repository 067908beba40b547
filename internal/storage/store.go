// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/gastosfacil/backend/internal/models"
)

var (
	// ErrNotFound is returned when a looked-up record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("record already exists")
)

// Store defines the persistence operations used by the application.
// This abstraction allows swapping storage backends (SQLite, in-memory)
// without changing the ledger or service layers.
type Store interface {
	// CreateUser inserts a user. Returns ErrDuplicate if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail looks up a user by normalized email.
	// Returns ErrNotFound if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID looks up a user by ID. Returns ErrNotFound if absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateGroup inserts a group together with its creator's admin membership.
	// Both rows are written or neither is.
	CreateGroup(ctx context.Context, group *models.Group, creator *models.Membership) error

	// ListGroupsForUser returns the groups the user belongs to, with member counts.
	ListGroupsForUser(ctx context.Context, userID string) ([]models.GroupSummary, error)

	// GetMembership returns the (group, user) membership or ErrNotFound.
	GetMembership(ctx context.Context, groupID, userID string) (*models.Membership, error)

	// AddMembership inserts a membership. Returns ErrDuplicate if it already exists.
	AddMembership(ctx context.Context, membership *models.Membership) error

	// ListGroupMembers returns the group's members in join order.
	ListGroupMembers(ctx context.Context, groupID string) ([]models.Membership, error)

	// ListGroupIDsForUser returns the IDs of every group the user belongs to.
	ListGroupIDsForUser(ctx context.Context, userID string) ([]string, error)

	// CreateExpense appends one expense row.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListExpensesByGroups returns the expenses of the given groups, newest
	// first, ties in insertion order.
	ListExpensesByGroups(ctx context.Context, groupIDs []string) ([]models.Expense, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
