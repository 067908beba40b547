// Package memory provides an in-memory storage.Store, used by tests and
// local runs that do not need persistence.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gastosfacil/backend/internal/models"
	"github.com/gastosfacil/backend/internal/storage"
)

var _ storage.Store = (*Store)(nil)

type membershipKey struct {
	groupID string
	userID  string
}

// Store keeps every record in maps guarded by a single mutex.
type Store struct {
	mu          sync.RWMutex
	users       map[string]models.User
	emails      map[string]string
	groups      map[string]models.Group
	memberships map[membershipKey]models.Membership
	memberOrder []membershipKey
	expenses    []models.Expense
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:       make(map[string]models.User),
		emails:      make(map[string]string),
		groups:      make(map[string]models.Group),
		memberships: make(map[membershipKey]models.Membership),
	}
}

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := models.NormalizeEmail(user.Email)
	if _, exists := s.emails[email]; exists {
		return fmt.Errorf("failed to create user: %w", storage.ErrDuplicate)
	}
	if _, exists := s.users[user.ID]; exists {
		return fmt.Errorf("failed to create user: %w", storage.ErrDuplicate)
	}

	u := *user
	u.Email = email
	s.users[u.ID] = u
	s.emails[email] = u.ID
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[models.NormalizeEmail(email)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	u := s.users[id]
	return &u, nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (s *Store) CreateGroup(_ context.Context, group *models.Group, creator *models.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.groups[group.ID]; exists {
		return fmt.Errorf("failed to insert group: %w", storage.ErrDuplicate)
	}
	if _, exists := s.users[creator.UserID]; !exists {
		return fmt.Errorf("failed to insert creator membership: unknown user %s", creator.UserID)
	}

	s.groups[group.ID] = *group
	s.addMembershipLocked(*creator)
	return nil
}

func (s *Store) ListGroupsForUser(_ context.Context, userID string) ([]models.GroupSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for key := range s.memberships {
		counts[key.groupID]++
	}

	var groups []models.GroupSummary
	for _, key := range s.memberOrder {
		if key.userID != userID {
			continue
		}
		groups = append(groups, models.GroupSummary{
			Group:       s.groups[key.groupID],
			MemberCount: counts[key.groupID],
			Role:        s.memberships[key].Role,
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].CreatedAt.After(groups[j].CreatedAt)
	})
	return groups, nil
}

func (s *Store) GetMembership(_ context.Context, groupID, userID string) (*models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.memberships[membershipKey{groupID: groupID, userID: userID}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &m, nil
}

func (s *Store) AddMembership(_ context.Context, membership *models.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := membershipKey{groupID: membership.GroupID, userID: membership.UserID}
	if _, exists := s.memberships[key]; exists {
		return fmt.Errorf("failed to add member: %w", storage.ErrDuplicate)
	}
	if _, exists := s.groups[membership.GroupID]; !exists {
		return fmt.Errorf("failed to add member: unknown group %s", membership.GroupID)
	}
	if _, exists := s.users[membership.UserID]; !exists {
		return fmt.Errorf("failed to add member: unknown user %s", membership.UserID)
	}

	s.addMembershipLocked(*membership)
	return nil
}

func (s *Store) addMembershipLocked(m models.Membership) {
	key := membershipKey{groupID: m.GroupID, userID: m.UserID}
	s.memberships[key] = m
	s.memberOrder = append(s.memberOrder, key)
}

func (s *Store) ListGroupMembers(_ context.Context, groupID string) ([]models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var members []models.Membership
	for _, key := range s.memberOrder {
		if key.groupID != groupID {
			continue
		}
		m := s.memberships[key]
		m.UserName = s.users[key.userID].Name
		members = append(members, m)
	}
	return members, nil
}

func (s *Store) ListGroupIDsForUser(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for _, key := range s.memberOrder {
		if key.userID == userID {
			ids = append(ids, key.groupID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) CreateExpense(_ context.Context, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.groups[expense.GroupID]; !exists {
		return fmt.Errorf("failed to insert expense: unknown group %s", expense.GroupID)
	}
	for _, e := range s.expenses {
		if e.ID == expense.ID {
			return fmt.Errorf("failed to insert expense: %w", storage.ErrDuplicate)
		}
	}

	s.expenses = append(s.expenses, *expense)
	return nil
}

func (s *Store) ListExpensesByGroups(_ context.Context, groupIDs []string) ([]models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(groupIDs))
	for _, id := range groupIDs {
		wanted[id] = true
	}

	var expenses []models.Expense
	for _, e := range s.expenses {
		if !wanted[e.GroupID] {
			continue
		}
		e.GroupName = s.groups[e.GroupID].Name
		e.PayerName = s.users[e.PaidBy].Name
		expenses = append(expenses, e)
	}

	// Stable sort keeps insertion order among equal timestamps.
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].CreatedAt.After(expenses[j].CreatedAt)
	})
	return expenses, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
