package ledger

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gastosfacil/backend/internal/models"
	"github.com/gastosfacil/backend/internal/storage"
)

// CreateGroup creates a group with creatorID as its first admin member.
func (e *Engine) CreateGroup(ctx context.Context, creatorID, name, description string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "is required")
	}

	now := e.timestamp()
	group := &models.Group{
		ID:          e.newID(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedBy:   creatorID,
		CreatedAt:   now,
	}
	creator := &models.Membership{
		GroupID:  group.ID,
		UserID:   creatorID,
		Role:     models.RoleAdmin,
		JoinedAt: now,
	}

	if err := e.store.CreateGroup(ctx, group, creator); err != nil {
		return nil, storeErr("create group", err)
	}

	e.metrics.groupCreated()
	slog.Info("Group created", "group_id", group.ID, "created_by", creatorID)
	return group, nil
}

// ListGroupsForUser returns the groups the user belongs to with real member counts.
func (e *Engine) ListGroupsForUser(ctx context.Context, userID string) ([]models.GroupSummary, error) {
	groups, err := e.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, storeErr("list groups", err)
	}
	if groups == nil {
		groups = []models.GroupSummary{}
	}
	return groups, nil
}

// AddMember adds the user registered under email to the group.
// Only admins of the group may add members.
func (e *Engine) AddMember(ctx context.Context, groupID, actorID, email string) (*models.Membership, error) {
	actor, err := e.AuthorizeGroupAccess(ctx, groupID, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, invalid("email", "is required")
	}

	user, err := e.store.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr("get user", err)
	}

	membership := &models.Membership{
		GroupID:  groupID,
		UserID:   user.ID,
		Role:     models.RoleMember,
		JoinedAt: e.timestamp(),
		UserName: user.Name,
	}
	err = e.store.AddMembership(ctx, membership)
	if errors.Is(err, storage.ErrDuplicate) {
		return nil, ErrAlreadyMember
	}
	if err != nil {
		return nil, storeErr("add member", err)
	}

	slog.Info("Member added", "group_id", groupID, "user_id", user.ID, "added_by", actorID)
	return membership, nil
}

// ListMembers returns the group's members if the user is one of them.
func (e *Engine) ListMembers(ctx context.Context, groupID, userID string) ([]models.Membership, error) {
	if _, err := e.AuthorizeGroupAccess(ctx, groupID, userID); err != nil {
		return nil, err
	}

	members, err := e.store.ListGroupMembers(ctx, groupID)
	if err != nil {
		return nil, storeErr("list members", err)
	}
	return members, nil
}
