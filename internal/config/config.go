package config

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/pool-ledger/internal/achievement"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	defaults := achievement.DefaultConfig()
	cfg := Config{
		DBName: getEnv("DB_NAME"),
		Port:   optional("PORT", "8080"),
		Slack: SlackConfig{
			Token:         optional("SLACK_BOT_TOKEN", ""),
			ChannelID:     optional("SLACK_CHANNEL_ID", ""),
			SigningSecret: optional("SLACK_SIGNING_SECRET", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: optional("TURSO_PRIMARY_URL", ""),
			AuthToken:  optional("TURSO_AUTH_TOKEN", ""),
		},
		ProjectID: optional("GCP_PROJECT", ""),
		Achievements: achievement.Config{
			SmallSpecialMinPoints:   optionalInt("SMALL_SPECIAL_MIN_POINTS", defaults.SmallSpecialMinPoints),
			BigSpecialSplitTotals:   defaults.BigSpecialSplitTotals,
			SmallSpecialMasterCount: optionalInt("SMALL_SPECIAL_MASTER_COUNT", defaults.SmallSpecialMasterCount),
			BigSpecialMasterCount:   optionalInt("BIG_SPECIAL_MASTER_COUNT", defaults.BigSpecialMasterCount),
		},
	}
	return cfg
}

func optional(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// optionalInt reads a positive integer. A malformed value is fatal rather than
// silently falling back, so a typo cannot change scoring thresholds.
func optionalInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		log.Fatalf("Error: Environment variable %s must be a positive integer, got %q.", key, value)
	}
	return n
}
