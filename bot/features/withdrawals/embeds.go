package withdrawals

import (
	"fmt"
	"time"

	"rewards/bot/common"
	"rewards/models"

	"github.com/bwmarrin/discordgo"
)

// BuildRequestEmbed shows a single request with its fee breakdown
func BuildRequestEmbed(title string, request *models.WithdrawalRequest) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: title,
		Color: statusColor(request.Status),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Request", Value: request.ID.String(), Inline: false},
			{Name: "Amount", Value: common.FormatMoney(request.Amount), Inline: true},
			{Name: "Fee", Value: common.FormatMoney(request.Fee), Inline: true},
			{Name: "You receive", Value: common.FormatMoney(request.NetAmount), Inline: true},
			{Name: "Method", Value: string(request.Method), Inline: true},
			{Name: "Status", Value: common.FormatStatus(request.Status), Inline: true},
		},
		Timestamp: request.CreatedAt.Format(time.RFC3339),
	}
}

// BuildListEmbed shows one line per request
func BuildListEmbed(title string, requests []*models.WithdrawalRequest) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: common.ColorInfo,
	}

	if len(requests) == 0 {
		embed.Description = "No withdrawal requests."
		return embed
	}

	for _, r := range requests[:min(len(requests), common.MaxEmbedFields)] {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("%s · %s", common.ShortID(r.ID), common.FormatStatus(r.Status)),
			Value: fmt.Sprintf("<@%s> %s via %s (net %s) · %s",
				r.UserID,
				common.FormatMoney(r.Amount),
				r.Method,
				common.FormatMoney(r.NetAmount),
				common.FormatDiscordTimestamp(r.CreatedAt, "R")),
		})
	}

	return embed
}

func statusColor(status models.WithdrawalStatus) int {
	switch status {
	case models.WithdrawalStatusApproved:
		return common.ColorInfo
	case models.WithdrawalStatusCompleted:
		return common.ColorSuccess
	case models.WithdrawalStatusRejected:
		return common.ColorDanger
	default:
		return common.ColorWarning
	}
}
