package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"rewards/models"

	"github.com/bwmarrin/discordgo"
)

// memberFetcher is the slice of *discordgo.Session the role checker needs
type memberFetcher interface {
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
}

// GuildRoleChecker answers role questions from Discord guild membership. Every
// guild member is an earner; creator and admin map to configured role IDs.
type GuildRoleChecker struct {
	members       memberFetcher
	guildID       string
	adminRoleID   string
	creatorRoleID string
}

// NewGuildRoleChecker creates a role checker for one guild
func NewGuildRoleChecker(members memberFetcher, guildID, adminRoleID, creatorRoleID string) *GuildRoleChecker {
	return &GuildRoleChecker{
		members:       members,
		guildID:       guildID,
		adminRoleID:   adminRoleID,
		creatorRoleID: creatorRoleID,
	}
}

// Roles implements service.RoleChecker with one member lookup. Users outside
// the guild have no roles.
func (c *GuildRoleChecker) Roles(ctx context.Context, userID string) ([]models.Role, error) {
	member, err := c.members.GuildMember(c.guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch guild member %s: %w", userID, err)
	}

	roles := []models.Role{models.RoleEarner}
	if c.creatorRoleID != "" && slices.Contains(member.Roles, c.creatorRoleID) {
		roles = append(roles, models.RoleCreator)
	}
	if c.adminRoleID != "" && slices.Contains(member.Roles, c.adminRoleID) {
		roles = append(roles, models.RoleAdmin)
	}
	return roles, nil
}
