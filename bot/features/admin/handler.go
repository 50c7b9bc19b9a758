package admin

import (
	"bytes"
	"context"
	"fmt"

	"rewards/bot/common"
	"rewards/bot/features/activity"
	"rewards/bot/features/withdrawals"
	"rewards/models"
	"rewards/service"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		common.RespondWithError(s, i, "Please choose a subcommand.")
		return
	}
	sub := data.Options[0]

	actor, err := service.ResolveActor(ctx, f.roleChecker, common.InteractionUserID(i))
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to resolve actor"), false)
		return
	}
	if !actor.IsAdmin() {
		common.HandleError(s, i, common.NewUserError("Only admins can use this command.", "non-admin used /admin"), false)
		return
	}

	options := common.OptionMap(sub.Options)
	switch sub.Name {
	case "adjust":
		f.handleAdjust(ctx, s, i, actor, options)
	case "credit":
		f.handleCredit(ctx, s, i, options)
	case "balances":
		f.handleBalances(ctx, s, i)
	case "approve":
		f.handleTransition(ctx, s, i, actor, options, models.WithdrawalStatusApproved)
	case "reject":
		f.handleTransition(ctx, s, i, actor, options, models.WithdrawalStatusRejected)
	case "complete":
		f.handleTransition(ctx, s, i, actor, options, models.WithdrawalStatusCompleted)
	case "queue":
		f.handleQueue(ctx, s, i, options)
	case "export":
		f.handleExport(ctx, s, i, options)
	default:
		common.RespondWithError(s, i, "Unknown subcommand.")
	}
}

type optionMap = map[string]*discordgo.ApplicationCommandInteractionDataOption

func (f *Feature) handleAdjust(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, actor models.Actor, options optionMap) {
	userOpt, amountOpt, directionOpt, reasonOpt := options["user"], options["amount"], options["direction"], options["reason"]
	if userOpt == nil || amountOpt == nil || directionOpt == nil || reasonOpt == nil {
		common.RespondWithError(s, i, "Please provide user, amount, direction and reason.")
		return
	}

	magnitude, err := service.ParseAmount(amountOpt.StringValue())
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "invalid adjustment amount"), false)
		return
	}
	delta := magnitude
	if directionOpt.StringValue() == "subtract" {
		delta = magnitude.Neg()
	}

	target := userOpt.UserValue(nil)
	if _, err := f.ledgerService.EnsureAccount(ctx, target.ID); err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "failed to ensure account"), false)
		return
	}

	balance, err := f.ledgerService.Adjust(ctx, target.ID, delta, reasonOpt.StringValue(), actor)
	if err != nil {
		botErr := common.FromServiceError(err, "failed to adjust balance")
		botErr.Context = map[string]any{"target": target.ID, "delta": delta.String()}
		common.HandleError(s, i, botErr, false)
		return
	}

	common.RespondWithSuccess(s, i, fmt.Sprintf("Adjusted <@%s> by **%s**. New balance: **%s**",
		target.ID, common.FormatSignedMoney(delta), common.FormatMoney(balance.AvailableBalance)), true)
}

func (f *Feature) handleCredit(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, options optionMap) {
	userOpt, amountOpt, descriptionOpt := options["user"], options["amount"], options["description"]
	if userOpt == nil || amountOpt == nil || descriptionOpt == nil {
		common.RespondWithError(s, i, "Please provide user, amount and description.")
		return
	}

	amount, err := service.ParseAmount(amountOpt.StringValue())
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "invalid credit amount"), false)
		return
	}

	target := userOpt.UserValue(nil)
	if _, err := f.ledgerService.EnsureAccount(ctx, target.ID); err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "failed to ensure account"), false)
		return
	}

	balance, err := f.ledgerService.Credit(ctx, target.ID, amount, descriptionOpt.StringValue())
	if err != nil {
		botErr := common.FromServiceError(err, "failed to credit earnings")
		botErr.Context = map[string]any{"target": target.ID, "amount": amount.String()}
		common.HandleError(s, i, botErr, false)
		return
	}

	common.RespondWithSuccess(s, i, fmt.Sprintf("Credited <@%s> with **%s**. New balance: **%s**",
		target.ID, common.FormatMoney(amount), common.FormatMoney(balance.AvailableBalance)), true)
}

func (f *Feature) handleBalances(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	summary, err := f.ledgerService.Summary(ctx, f.pageSize)
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "failed to summarize balances"), false)
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildSummaryEmbed(summary), true); err != nil {
		log.Errorf("Error responding to admin balances: %v", err)
	}
}

func (f *Feature) handleTransition(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, actor models.Actor, options optionMap, target models.WithdrawalStatus) {
	idOpt := options["id"]
	if idOpt == nil {
		common.RespondWithError(s, i, "Please provide a request id.")
		return
	}

	requestID, err := uuid.Parse(idOpt.StringValue())
	if err != nil {
		common.RespondWithError(s, i, "That is not a valid request id.")
		return
	}

	request, err := f.withdrawalService.Transition(ctx, requestID, target, actor)
	if err != nil {
		botErr := common.FromServiceError(err, "failed to transition withdrawal")
		botErr.Context = map[string]any{"requestID": requestID.String(), "target": target}
		common.HandleError(s, i, botErr, false)
		return
	}

	log.WithFields(log.Fields{
		"requestID": request.ID,
		"status":    request.Status,
		"actorID":   actor.UserID,
	}).Info("Withdrawal transitioned via Discord")

	if err := common.RespondWithEmbed(s, i, withdrawals.BuildRequestEmbed("Withdrawal updated", request), true); err != nil {
		log.Errorf("Error responding to admin transition: %v", err)
	}
}

func (f *Feature) handleQueue(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, options optionMap) {
	status := models.WithdrawalStatusPending
	if opt := options["status"]; opt != nil {
		status = models.WithdrawalStatus(opt.StringValue())
	}

	requests, err := f.withdrawalService.ListByStatus(ctx, status, f.pageSize)
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "failed to list withdrawal queue"), false)
		return
	}

	title := fmt.Sprintf("📥 %s queue", common.FormatStatus(status))
	if err := common.RespondWithEmbed(s, i, withdrawals.BuildListEmbed(title, requests), true); err != nil {
		log.Errorf("Error responding to admin queue: %v", err)
	}
}

func (f *Feature) handleExport(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, options optionMap) {
	userOpt := options["user"]
	if userOpt == nil {
		common.RespondWithError(s, i, "Please choose a user.")
		return
	}
	target := userOpt.UserValue(nil)

	// Large histories can take a while to stream
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Failed to defer export response: %v", err)
		return
	}

	var buf bytes.Buffer
	rows, err := WriteActivityCSV(&buf, f.activityService.Query(ctx, models.ActivityFilter{UserID: target.ID}))
	if err != nil {
		common.HandleError(s, i, common.FromServiceError(err, "failed to export activity"), true)
		return
	}

	if rows == 0 {
		embed := activity.BuildActivityEmbed(fmt.Sprintf("Activity for %s", target.ID), nil)
		if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		}); err != nil {
			log.Errorf("Error sending empty export: %v", err)
		}
		return
	}

	file := &discordgo.File{
		Name:        fmt.Sprintf("activity-%s.csv", target.ID),
		ContentType: "text/csv",
		Reader:      &buf,
	}
	if err := common.FollowUpWithFile(s, i, fmt.Sprintf("Exported %d entries for <@%s>", rows, target.ID), file); err != nil {
		log.Errorf("Error sending activity export: %v", err)
	}
}
