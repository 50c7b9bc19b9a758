package bot

import (
	"context"
	"fmt"

	"rewards/bot/common"
	"rewards/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// embedSender is the slice of *discordgo.Session the notifier needs
type embedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// PayoutNotifier hands completed withdrawals to the payments team by posting
// them to a dedicated channel
type PayoutNotifier struct {
	sender    embedSender
	channelID string
}

// NewPayoutNotifier creates a notifier posting to channelID
func NewPayoutNotifier(sender embedSender, channelID string) *PayoutNotifier {
	return &PayoutNotifier{sender: sender, channelID: channelID}
}

// Register subscribes the notifier to completion events
func (n *PayoutNotifier) Register(bus *events.Bus) {
	bus.Subscribe(events.EventTypeWithdrawalCompleted, n.Handle)
}

// Handle posts a payout instruction for a WithdrawalCompletedEvent
func (n *PayoutNotifier) Handle(ctx context.Context, event events.Event) {
	completed, ok := event.(events.WithdrawalCompletedEvent)
	if !ok {
		return
	}

	_, err := n.sender.ChannelMessageSendEmbed(n.channelID, buildPayoutEmbed(completed), discordgo.WithContext(ctx))
	if err != nil {
		log.WithFields(log.Fields{
			"requestID": completed.RequestID,
			"channelID": n.channelID,
			"error":     err,
		}).Error("Failed to post payout instruction")
		return
	}

	log.WithFields(log.Fields{
		"requestID": completed.RequestID,
		"userID":    completed.UserID,
	}).Info("Posted payout instruction")
}

func buildPayoutEmbed(e events.WithdrawalCompletedEvent) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "💸 Payout ready",
		Description: fmt.Sprintf("Send **%s** to <@%s> via **%s**.", common.FormatMoney(e.NetAmount), e.UserID, e.Method),
		Color:       common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Request", Value: e.RequestID.String(), Inline: false},
			{Name: "Gross", Value: common.FormatMoney(e.Amount), Inline: true},
			{Name: "Fee", Value: common.FormatMoney(e.Fee), Inline: true},
			{Name: "Net", Value: common.FormatMoney(e.NetAmount), Inline: true},
			{Name: "Completed by", Value: fmt.Sprintf("<@%s>", e.ActorID), Inline: true},
		},
	}
}
