package balance

import (
	"context"

	"rewards/bot/common"
	"rewards/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := common.InteractionUserID(i)

	balance, err := f.ledgerService.EnsureAccount(ctx, userID)
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "failed to load balance"), false)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildBalanceEmbed(balance), true); err != nil {
		log.Errorf("Error responding to balance command: %v", err)
	}
}

func buildBalanceEmbed(balance *models.UserBalance) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "💰 Your balance",
		Color: common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Available", Value: common.FormatMoney(balance.AvailableBalance), Inline: true},
			{Name: "Lifetime earned", Value: common.FormatMoney(balance.TotalEarned), Inline: true},
		},
	}
}
