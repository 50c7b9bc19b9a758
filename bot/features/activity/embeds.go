package activity

import (
	"fmt"

	"rewards/bot/common"
	"rewards/models"

	"github.com/bwmarrin/discordgo"
)

// BuildActivityEmbed renders entries newest first, one field per entry
func BuildActivityEmbed(title string, entries []*models.ActivityLogEntry) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: common.ColorInfo,
	}

	if len(entries) == 0 {
		embed.Description = "No activity yet."
		return embed
	}

	for _, e := range entries[:min(len(entries), common.MaxEmbedFields)] {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("%s %s", activityIcon(e), common.FormatSignedMoney(e.Amount)),
			Value: fmt.Sprintf("%s\nBalance %s · %s",
				e.GetDescription(),
				common.FormatMoney(e.BalanceAfter),
				common.FormatDiscordTimestamp(e.CreatedAt, "R")),
		})
	}

	return embed
}

func activityIcon(e *models.ActivityLogEntry) string {
	switch e.ActivityType {
	case models.ActivityTypeCredit:
		return "🟢"
	case models.ActivityTypeWithdrawal:
		return "🏦"
	case models.ActivityTypeAdminAdjustment:
		return "🛠️"
	default:
		if e.IsDebit() {
			return "🔴"
		}
		return "⚪"
	}
}
