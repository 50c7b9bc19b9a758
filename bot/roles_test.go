package bot

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"testing"

	"rewards/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMembers struct {
	members map[string]*discordgo.Member
	err     error
	calls   int
}

func (f *fakeMembers) GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	member, ok := f.members[userID]
	if !ok {
		return nil, &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}}
	}
	return member, nil
}

func TestGuildRoleChecker_GrantedRoles(t *testing.T) {
	members := &fakeMembers{members: map[string]*discordgo.Member{
		"admin":   {Roles: []string{"role-admin"}},
		"creator": {Roles: []string{"role-creator"}},
		"earner":  {},
	}}
	checker := NewGuildRoleChecker(members, "guild", "role-admin", "role-creator")
	ctx := context.Background()

	tests := []struct {
		userID string
		role   models.Role
		want   bool
	}{
		{"admin", models.RoleAdmin, true},
		{"admin", models.RoleEarner, true},
		{"creator", models.RoleCreator, true},
		{"creator", models.RoleAdmin, false},
		{"earner", models.RoleEarner, true},
		{"earner", models.RoleAdmin, false},
		{"stranger", models.RoleEarner, false},
	}

	for _, tt := range tests {
		t.Run(tt.userID+"/"+string(tt.role), func(t *testing.T) {
			roles, err := checker.Roles(ctx, tt.userID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, slices.Contains(roles, tt.role))
		})
	}
}

func TestGuildRoleChecker_UnconfiguredAdminRole(t *testing.T) {
	members := &fakeMembers{members: map[string]*discordgo.Member{"user": {Roles: []string{""}}}}
	checker := NewGuildRoleChecker(members, "guild", "", "")

	roles, err := checker.Roles(context.Background(), "user")
	require.NoError(t, err)
	assert.Equal(t, []models.Role{models.RoleEarner}, roles)
}

func TestGuildRoleChecker_LookupError(t *testing.T) {
	checker := NewGuildRoleChecker(&fakeMembers{err: errors.New("gateway down")}, "guild", "a", "c")

	_, err := checker.Roles(context.Background(), "user")
	assert.Error(t, err)
}

func TestGuildRoleChecker_Roles(t *testing.T) {
	members := &fakeMembers{members: map[string]*discordgo.Member{
		"both": {Roles: []string{"role-admin", "role-creator", "unrelated"}},
	}}
	checker := NewGuildRoleChecker(members, "guild", "role-admin", "role-creator")

	roles, err := checker.Roles(context.Background(), "both")

	require.NoError(t, err)
	assert.Equal(t, []models.Role{models.RoleEarner, models.RoleCreator, models.RoleAdmin}, roles)
	assert.Equal(t, 1, members.calls, "one member lookup per resolution")

	roles, err = checker.Roles(context.Background(), "stranger")
	require.NoError(t, err)
	assert.Empty(t, roles)
}
