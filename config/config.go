package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"rewards/database"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// FeeRule is the fee charged for a single payout method
type FeeRule struct {
	Rate    decimal.Decimal // fraction of the amount, e.g. 0.10
	Minimum decimal.Decimal // flat floor applied after the rate
}

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken    string
	DiscordGuildID  string
	AdminRoleID     string
	CreatorRoleID   string
	PayoutChannelID string

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// NATS servers for forwarding events; empty disables forwarding
	NATSServers string

	// Withdrawal fees keyed by method name
	WithdrawalFees map[string]FeeRule

	// Number of rows shown by list commands
	PageSize int

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// GetDatabaseURL returns the database URL with the database name applied
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsProduction reports whether the bot runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// DefaultWithdrawalFees returns the fee table used when no override is configured
func DefaultWithdrawalFees() map[string]FeeRule {
	return map[string]FeeRule{
		"bank":   {Rate: decimal.RequireFromString("0.10"), Minimum: decimal.Zero},
		"card":   {Rate: decimal.RequireFromString("0.03"), Minimum: decimal.RequireFromString("0.50")},
		"paypal": {Rate: decimal.RequireFromString("0.025"), Minimum: decimal.Zero},
	}
}

// load loads configuration from environment variables
func load() (*Config, error) {
	// A missing .env file is normal outside local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Failed to load .env file")
	}

	config := &Config{
		// Discord
		DiscordToken:    os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID:  os.Getenv("DISCORD_GUILD_ID"),
		AdminRoleID:     os.Getenv("ADMIN_ROLE_ID"),
		CreatorRoleID:   os.Getenv("CREATOR_ROLE_ID"),
		PayoutChannelID: os.Getenv("PAYOUT_CHANNEL_ID"),

		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		NATSServers: os.Getenv("NATS_SERVERS"),

		WithdrawalFees: DefaultWithdrawalFees(),

		PageSize:    parseIntOrDefault(os.Getenv("PAGE_SIZE"), 10),
		LogLevel:    os.Getenv("LOG_LEVEL"),
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Per-method overrides: WITHDRAWAL_FEE_BANK=0.08, WITHDRAWAL_FEE_MIN_CARD=1.00
	for method, rule := range config.WithdrawalFees {
		suffix := strings.ToUpper(method)
		if raw := os.Getenv("WITHDRAWAL_FEE_" + suffix); raw != "" {
			rate, err := decimal.NewFromString(raw)
			if err != nil || rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
				return nil, fmt.Errorf("WITHDRAWAL_FEE_%s must be a rate in [0, 1): %q", suffix, raw)
			}
			rule.Rate = rate
		}
		if raw := os.Getenv("WITHDRAWAL_FEE_MIN_" + suffix); raw != "" {
			minimum, err := decimal.NewFromString(raw)
			if err != nil || minimum.IsNegative() || !minimum.Equal(minimum.Round(2)) {
				return nil, fmt.Errorf("WITHDRAWAL_FEE_MIN_%s must be a non-negative amount in whole cents: %q", suffix, raw)
			}
			rule.Minimum = minimum
		}
		config.WithdrawalFees[method] = rule
	}

	if config.PageSize <= 0 || config.PageSize > 25 {
		config.PageSize = 10
	}

	if config.LogLevel == "" {
		config.LogLevel = "info"
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.AdminRoleID == "" {
			return nil, fmt.Errorf("ADMIN_ROLE_ID is required")
		}
	}

	return config, nil
}

// ConfigureLogging applies the configured level and formatter to logrus
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.WithField("logLevel", c.LogLevel).Warn("Unknown log level, falling back to info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if c.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// parseIntOrDefault is used for optional numeric settings
func parseIntOrDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
