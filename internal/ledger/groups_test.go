package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gastosfacil/backend/internal/models"
)

func TestCreateGroup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "creator")

	t.Run("creator becomes admin", func(t *testing.T) {
		g, err := f.engine.CreateGroup(ctx, u.ID, "  Apartment ", "  shared flat ")
		require.NoError(t, err)
		require.Equal(t, "Apartment", g.Name)
		require.Equal(t, "shared flat", g.Description)
		require.Equal(t, u.ID, g.CreatedBy)

		members, err := f.engine.ListMembers(ctx, g.ID, u.ID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		require.Equal(t, models.RoleAdmin, members[0].Role)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		_, err := f.engine.CreateGroup(ctx, u.ID, "   ", "")
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestListGroupsForUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	g := f.group(t, alice, "Shared")
	f.group(t, alice, "Solo")
	_, err := f.engine.AddMember(ctx, g.ID, alice.ID, bob.Email)
	require.NoError(t, err)

	groups, err := f.engine.ListGroupsForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Equal(t, "Solo", groups[0].Name)
	require.Equal(t, 1, groups[0].MemberCount)
	require.Equal(t, "Shared", groups[1].Name)
	require.Equal(t, 2, groups[1].MemberCount)

	bobGroups, err := f.engine.ListGroupsForUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobGroups, 1)
	require.Equal(t, models.RoleMember, bobGroups[0].Role)

	none, err := f.engine.ListGroupsForUser(ctx, "nobody")
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestAddMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin")
	member := f.user(t, "member")
	newcomer := f.user(t, "newcomer")
	outsider := f.user(t, "outsider")
	g := f.group(t, admin, "Team")

	m, err := f.engine.AddMember(ctx, g.ID, admin.ID, "MEMBER@example.com")
	require.NoError(t, err)
	require.Equal(t, member.ID, m.UserID)
	require.Equal(t, models.RoleMember, m.Role)

	tests := []struct {
		name    string
		actorID string
		email   string
		wantErr error
	}{
		{"duplicate", admin.ID, member.Email, ErrAlreadyMember},
		{"unknown email", admin.ID, "ghost@example.com", ErrNotFound},
		{"blank email", admin.ID, "  ", ErrValidation},
		{"plain member cannot add", member.ID, newcomer.Email, ErrForbidden},
		{"outsider cannot add", outsider.ID, newcomer.Email, ErrNotMember},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.AddMember(ctx, g.ID, tt.actorID, tt.email)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
