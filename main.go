package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rewards/cmd"
	"rewards/config"
	"rewards/database"

	log "github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			if err := handleMigrationCommand(); err != nil {
				log.Fatalf("Migration error: %v", err)
			}
			return
		case "adjust-balance":
			if err := handleAdjustCommand(); err != nil {
				log.Fatalf("Adjust error: %v", err)
			}
			return
		case "credit":
			if err := handleCreditCommand(); err != nil {
				log.Fatalf("Credit error: %v", err)
			}
			return
		}
	}

	config.Get().ConfigureLogging()

	// Normal bot operation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	// Run the application
	if err := cmd.Run(ctx); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: rewards migrate [up|down|status] [args...]")
	}

	command := os.Args[2]
	switch command {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}

func handleAdjustCommand() error {
	if len(os.Args) < 5 {
		return fmt.Errorf("usage: rewards adjust-balance <user-id> <delta> <reason>")
	}

	config.Get().ConfigureLogging()
	return cmd.AdjustBalance(context.Background(), os.Args[2], os.Args[3], os.Args[4])
}

func handleCreditCommand() error {
	if len(os.Args) < 5 {
		return fmt.Errorf("usage: rewards credit <user-id> <amount> <description>")
	}

	config.Get().ConfigureLogging()
	return cmd.CreditBalance(context.Background(), os.Args[2], os.Args[3], os.Args[4])
}
