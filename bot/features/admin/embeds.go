package admin

import (
	"fmt"
	"strings"

	"rewards/bot/common"
	"rewards/models"

	"github.com/bwmarrin/discordgo"
)

// BuildSummaryEmbed shows ledger totals and the largest outstanding balances
func BuildSummaryEmbed(summary *models.LedgerSummary) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📊 Ledger overview",
		Color: common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Accounts", Value: fmt.Sprintf("%d", summary.Accounts), Inline: true},
			{Name: "Outstanding", Value: common.FormatMoney(summary.TotalAvailable), Inline: true},
			{Name: "Lifetime earned", Value: common.FormatMoney(summary.TotalEarned), Inline: true},
		},
	}

	if len(summary.Top) == 0 {
		embed.Description = "No accounts yet."
		return embed
	}

	var sb strings.Builder
	for rank, b := range summary.Top {
		fmt.Fprintf(&sb, "**%d.** <@%s> %s (earned %s)\n",
			rank+1, b.UserID, common.FormatMoney(b.AvailableBalance), common.FormatMoney(b.TotalEarned))
	}
	embed.Description = sb.String()

	return embed
}
