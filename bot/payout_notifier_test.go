package bot

import (
	"context"
	"errors"
	"testing"

	"rewards/events"
	"rewards/models"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	channelIDs []string
	embeds     []*discordgo.MessageEmbed
	err        error
}

func (r *recordingSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	r.channelIDs = append(r.channelIDs, channelID)
	r.embeds = append(r.embeds, embed)
	return &discordgo.Message{}, r.err
}

func TestPayoutNotifier_Handle(t *testing.T) {
	sender := &recordingSender{}
	notifier := NewPayoutNotifier(sender, "payouts")

	event := events.WithdrawalCompletedEvent{
		RequestID: uuid.New(),
		UserID:    "42",
		Method:    models.WithdrawalMethodBank,
		Amount:    decimal.NewFromInt(50),
		Fee:       decimal.NewFromInt(5),
		NetAmount: decimal.NewFromInt(45),
		ActorID:   "7",
	}

	notifier.Handle(context.Background(), event)

	require.Len(t, sender.embeds, 1)
	assert.Equal(t, "payouts", sender.channelIDs[0])
	assert.Contains(t, sender.embeds[0].Description, "$45.00")
	assert.Contains(t, sender.embeds[0].Description, "<@42>")
	assert.Equal(t, event.RequestID.String(), sender.embeds[0].Fields[0].Value)
}

func TestPayoutNotifier_IgnoresOtherEvents(t *testing.T) {
	sender := &recordingSender{}
	notifier := NewPayoutNotifier(sender, "payouts")

	notifier.Handle(context.Background(), events.AccountCreatedEvent{UserID: "42"})

	assert.Empty(t, sender.embeds)
}

func TestPayoutNotifier_SendFailureIsLogged(t *testing.T) {
	sender := &recordingSender{err: errors.New("missing access")}
	notifier := NewPayoutNotifier(sender, "payouts")

	assert.NotPanics(t, func() {
		notifier.Handle(context.Background(), events.WithdrawalCompletedEvent{RequestID: uuid.New()})
	})
	assert.Len(t, sender.embeds, 1)
}
