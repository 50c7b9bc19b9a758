package bot

import (
	"fmt"

	"rewards/bot/common"
	"rewards/models"

	"github.com/bwmarrin/discordgo"
)

func methodChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(models.WithdrawalMethods))
	for _, m := range models.WithdrawalMethods {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: string(m), Value: string(m)})
	}
	return choices
}

func statusChoices() []*discordgo.ApplicationCommandOptionChoice {
	statuses := []models.WithdrawalStatus{
		models.WithdrawalStatusPending,
		models.WithdrawalStatusApproved,
		models.WithdrawalStatusRejected,
		models.WithdrawalStatusCompleted,
	}
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(statuses))
	for _, st := range statuses {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: string(st), Value: string(st)})
	}
	return choices
}

func requestIDOption() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "Withdrawal request ID",
			Required:    true,
		},
	}
}

// applicationCommands lists every slash command the bot serves
func applicationCommands() []*discordgo.ApplicationCommand {
	minLimit := float64(1)
	return []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your available balance and lifetime earnings",
		},
		{
			Name:        "activity",
			Description: "Show your recent balance activity",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "limit",
					Description: "How many entries to show",
					Required:    false,
					MinValue:    &minLimit,
					MaxValue:    common.MaxEmbedFields,
				},
			},
		},
		{
			Name:        "withdraw",
			Description: "Request a withdrawal of your available balance",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "amount",
					Description: "Amount to withdraw, e.g. 25.50",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "method",
					Description: "Payout method",
					Required:    true,
					Choices:     methodChoices(),
				},
			},
		},
		{
			Name:        "withdrawals",
			Description: "List your withdrawal requests",
		},
		{
			Name:        "admin",
			Description: "Manage balances and withdrawals (admin only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "adjust",
					Description: "Manually adjust a user's balance",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "User to adjust",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "amount",
							Description: "Amount, e.g. 10.00",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "direction",
							Description: "Add to or subtract from the balance",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "add", Value: "add"},
								{Name: "subtract", Value: "subtract"},
							},
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "reason",
							Description: "Why the balance is being adjusted",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "approve",
					Description: "Approve a pending withdrawal",
					Options:     requestIDOption(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "reject",
					Description: "Reject a pending withdrawal",
					Options:     requestIDOption(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "complete",
					Description: "Mark an approved withdrawal as paid and debit the balance",
					Options:     requestIDOption(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "queue",
					Description: "List withdrawals by status (oldest first)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "status",
							Description: "Status to list (defaults to pending)",
							Required:    false,
							Choices:     statusChoices(),
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "export",
					Description: "Export a user's activity log as CSV",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "User to export",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "credit",
					Description: "Credit earnings to a user",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "User to credit",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "amount",
							Description: "Amount in dollars, e.g. 12.50",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "description",
							Description: "What the earnings are for",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "balances",
					Description: "Show ledger totals and the largest balances",
				},
			},
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	for _, cmd := range applicationCommands() {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}
