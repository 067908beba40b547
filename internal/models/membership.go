package models

import "time"

// Role is a member's role within a group.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Membership links a user to a group with a role.
// A user belongs to a group at most once.
type Membership struct {
	GroupID  string    `json:"group_id"`
	UserID   string    `json:"user_id"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`

	// UserName is populated on member listings.
	UserName string `json:"user_name,omitempty"`
}

// IsAdmin reports whether the membership grants admin rights.
func (m *Membership) IsAdmin() bool {
	return m != nil && m.Role == RoleAdmin
}
