package withdrawals

import (
	"context"

	"rewards/bot/common"
	"rewards/models"
	"rewards/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleWithdraw(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := common.InteractionUserID(i)

	options := common.OptionMap(i.ApplicationCommandData().Options)
	amountOpt, hasAmount := options["amount"]
	methodOpt, hasMethod := options["method"]
	if !hasAmount || !hasMethod {
		common.RespondWithError(s, i, "Please provide both an amount and a payout method.")
		return
	}

	amount, err := service.ParseAmount(amountOpt.StringValue())
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "invalid withdrawal amount"), false)
		return
	}

	if _, err := f.ledgerService.EnsureAccount(ctx, userID); err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "failed to ensure account"), false)
		return
	}

	request, err := f.withdrawalService.Create(ctx, userID, amount, models.WithdrawalMethod(methodOpt.StringValue()))
	if err != nil {
		botErr := common.FromServiceError(err, "failed to create withdrawal request")
		botErr.Context = map[string]any{"amount": amount.String(), "method": methodOpt.StringValue()}
		common.HandleError(s, i, botErr, false)
		return
	}

	log.WithFields(log.Fields{
		"userID":    userID,
		"requestID": request.ID,
		"amount":    request.Amount.String(),
	}).Info("Withdrawal requested via Discord")

	if err := common.RespondWithEmbed(s, i, BuildRequestEmbed("🏦 Withdrawal requested", request), true); err != nil {
		log.Errorf("Error responding to withdraw command: %v", err)
	}
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := common.InteractionUserID(i)

	requests, err := f.withdrawalService.ListByUser(ctx, userID, f.pageSize)
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "failed to list withdrawals"), false)
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildListEmbed("📋 Your withdrawals", requests), true); err != nil {
		log.Errorf("Error responding to withdrawals command: %v", err)
	}
}
