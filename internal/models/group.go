package models

import "time"

// Group represents a set of people sharing expenses.
// A group owns its memberships and expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Apartment", "Trip").
	Name string `json:"name"`

	// Description is optional; empty means absent.
	Description string `json:"description,omitempty"`

	// CreatedBy is the ID of the user who created the group.
	// The creator is always an admin member.
	CreatedBy string `json:"created_by"`

	// CreatedAt is when the group was created.
	CreatedAt time.Time `json:"created_at"`
}

// GroupSummary is a group as seen by one of its members.
type GroupSummary struct {
	Group
	MemberCount int  `json:"member_count"`
	Role        Role `json:"role"`
}
