package cmd

import (
	"context"
	"fmt"
	"time"

	"rewards/bot"
	"rewards/config"
	"rewards/database"
	"rewards/events"
	"rewards/infrastructure"
	"rewards/repository"
	"rewards/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting rewards bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		natsClient, err = connectEventForwarding(ctx, cfg.NATSServers, eventBus)
		if err != nil {
			db.Close()
			return err
		}
	} else {
		log.Info("NATS_SERVERS not set, events stay in process")
	}

	// Initialize services
	log.Info("Initializing services...")
	ledgerService := service.NewLedgerService(uowFactory)
	withdrawalService := service.NewWithdrawalService(uowFactory, service.NewRateFeeSchedule(cfg.WithdrawalFees))
	activityService := service.NewActivityService(uowFactory, repository.NewActivityLogRepository(db))
	log.Info("Services initialized successfully")

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:           cfg.DiscordToken,
		GuildID:         cfg.DiscordGuildID,
		AdminRoleID:     cfg.AdminRoleID,
		CreatorRoleID:   cfg.CreatorRoleID,
		PayoutChannelID: cfg.PayoutChannelID,
		PageSize:        cfg.PageSize,
	}
	discordBot, err := bot.New(botConfig, ledgerService, withdrawalService, activityService, eventBus)
	if err != nil {
		if natsClient != nil {
			natsClient.Close()
		}
		db.Close()
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down bot...")
	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}

	// Give in-flight event handlers a moment to finish
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.Errorf("Error closing NATS connection: %v", err)
		}
	}

	log.Info("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}

func connectEventForwarding(ctx context.Context, servers string, eventBus *events.Bus) (*infrastructure.NATSClient, error) {
	client := infrastructure.NewNATSClient(servers)
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}
	if err := client.EnsureStream(infrastructure.StreamName, infrastructure.AllSubjects()); err != nil {
		client.Close()
		return nil, err
	}

	infrastructure.NewEventForwarder(client).Register(eventBus)
	log.Info("Forwarding events to NATS")
	return client, nil
}
