package bot

import (
	"fmt"

	"rewards/bot/common"
	"rewards/bot/features/activity"
	"rewards/bot/features/admin"
	"rewards/bot/features/balance"
	"rewards/bot/features/withdrawals"
	"rewards/events"
	"rewards/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token           string
	GuildID         string
	AdminRoleID     string
	CreatorRoleID   string
	PayoutChannelID string
	PageSize        int
}

type Bot struct {
	config  Config
	session *discordgo.Session

	// Features
	balanceFeature     *balance.Feature
	activityFeature    *activity.Feature
	withdrawalsFeature *withdrawals.Feature
	adminFeature       *admin.Feature
}

func New(config Config, ledgerService service.LedgerService, withdrawalService service.WithdrawalService, activityService service.ActivityService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	if config.PageSize <= 0 {
		config.PageSize = common.DefaultPageSize
	}

	roleChecker := NewGuildRoleChecker(dg, config.GuildID, config.AdminRoleID, config.CreatorRoleID)

	bot := &Bot{
		config:             config,
		session:            dg,
		balanceFeature:     balance.New(ledgerService),
		activityFeature:    activity.New(activityService, config.PageSize),
		withdrawalsFeature: withdrawals.New(withdrawalService, ledgerService, config.PageSize),
		adminFeature:       admin.New(ledgerService, withdrawalService, activityService, roleChecker, config.PageSize),
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	if config.PayoutChannelID != "" {
		NewPayoutNotifier(dg, config.PayoutChannelID).Register(eventBus)
		log.WithField("channelID", config.PayoutChannelID).Info("Payout notifications enabled")
	} else {
		log.Warn("PAYOUT_CHANNEL_ID not set, completed withdrawals will not be announced")
	}

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "balance":
		b.balanceFeature.HandleCommand(s, i)
	case "activity":
		b.activityFeature.HandleCommand(s, i)
	case "withdraw":
		b.withdrawalsFeature.HandleWithdraw(s, i)
	case "withdrawals":
		b.withdrawalsFeature.HandleList(s, i)
	case "admin":
		b.adminFeature.HandleCommand(s, i)
	}
}
