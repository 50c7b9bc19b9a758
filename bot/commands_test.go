package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationCommands(t *testing.T) {
	commands := applicationCommands()

	names := make([]string, 0, len(commands))
	var adminCmd *discordgo.ApplicationCommand
	for _, cmd := range commands {
		names = append(names, cmd.Name)
		if cmd.Name == "admin" {
			adminCmd = cmd
		}
	}
	assert.ElementsMatch(t, []string{"balance", "activity", "withdraw", "withdrawals", "admin"}, names)

	require.NotNil(t, adminCmd)
	subcommands := make([]string, 0, len(adminCmd.Options))
	for _, opt := range adminCmd.Options {
		assert.Equal(t, discordgo.ApplicationCommandOptionSubCommand, opt.Type)
		subcommands = append(subcommands, opt.Name)
	}
	assert.ElementsMatch(t, []string{"adjust", "approve", "reject", "complete", "queue", "export", "credit", "balances"}, subcommands)
}

func TestMethodChoices(t *testing.T) {
	choices := methodChoices()

	require.Len(t, choices, 3)
	assert.Equal(t, "bank", choices[0].Value)
	assert.Equal(t, "card", choices[1].Value)
	assert.Equal(t, "paypal", choices[2].Value)
}
