package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gastosfacil/backend/internal/models"
	"github.com/gastosfacil/backend/internal/storage"
)

// CreateGroup persists a group and its creator's membership in one transaction.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group, creator *models.Membership) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var description interface{}
	if group.Description != "" {
		description = group.Description
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, description, created_by, created_at) VALUES (?, ?, ?, ?, ?)",
		group.ID, group.Name, description, group.CreatedBy, toUnix(group.CreatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("failed to insert group: %w", storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO group_members (group_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)",
		creator.GroupID, creator.UserID, string(creator.Role), toUnix(creator.JoinedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert creator membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListGroupsForUser retrieves every group the user belongs to, newest first.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID string) ([]models.GroupSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.description, g.created_by, g.created_at, m.role,
		       (SELECT COUNT(*) FROM group_members c WHERE c.group_id = g.id)
		FROM group_members m
		JOIN groups g ON g.id = m.group_id
		WHERE m.user_id = ?
		ORDER BY g.created_at DESC, g.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []models.GroupSummary
	for rows.Next() {
		var (
			g           models.GroupSummary
			description sql.NullString
			createdAt   int64
			role        string
		)
		if err := rows.Scan(&g.ID, &g.Name, &description, &g.CreatedBy, &createdAt, &role, &g.MemberCount); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		if description.Valid {
			g.Description = description.String
		}
		g.CreatedAt = fromUnix(createdAt)
		g.Role = models.Role(role)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}

// GetMembership retrieves the membership of a user in a group.
func (s *SQLiteStore) GetMembership(ctx context.Context, groupID, userID string) (*models.Membership, error) {
	m := &models.Membership{}
	var (
		role     string
		joinedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT group_id, user_id, role, joined_at FROM group_members WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	).Scan(&m.GroupID, &m.UserID, &role, &joinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	m.Role = models.Role(role)
	m.JoinedAt = fromUnix(joinedAt)
	return m, nil
}

// AddMembership inserts a new membership row.
func (s *SQLiteStore) AddMembership(ctx context.Context, membership *models.Membership) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO group_members (group_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)",
		membership.GroupID, membership.UserID, string(membership.Role), toUnix(membership.JoinedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("failed to add member: %w", storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// ListGroupMembers retrieves a group's members in join order.
func (s *SQLiteStore) ListGroupMembers(ctx context.Context, groupID string) ([]models.Membership, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.group_id, m.user_id, m.role, m.joined_at, u.name
		FROM group_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.group_id = ?
		ORDER BY m.joined_at, m.rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	defer rows.Close()

	var members []models.Membership
	for rows.Next() {
		var (
			m        models.Membership
			role     string
			joinedAt int64
		)
		if err := rows.Scan(&m.GroupID, &m.UserID, &role, &joinedAt, &m.UserName); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.Role = models.Role(role)
		m.JoinedAt = fromUnix(joinedAt)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// ListGroupIDsForUser retrieves the IDs of every group the user belongs to.
func (s *SQLiteStore) ListGroupIDsForUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT group_id FROM group_members WHERE user_id = ? ORDER BY group_id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memberships: %w", err)
	}

	return ids, nil
}
