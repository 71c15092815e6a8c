package config

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	getEnvOptional := func(key string) string {
		return os.Getenv(key)
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: "./migrations",
		Port:          getEnv("PORT"),
		Slack: SlackConfig{
			Token:         getEnv("SLACK_BOT_TOKEN"),
			ChannelID:     getEnv("SLACK_CHANNEL_ID"),
			SigningSecret: getEnv("SLACK_SIGNING_SECRET"),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnvOptional("TURSO_PRIMARY_URL"),
			AuthToken:  getEnvOptional("TURSO_AUTH_TOKEN"),
		},
		Ladder: LoadLadder(),
	}
	return cfg
}

// LoadLadder reads just the rating constants and the local offset from the
// environment. The seeder uses this directly so a rebuild honours the same
// overrides as the server.
func LoadLadder() LadderConfig {
	return LadderConfig{
		DefaultRating:     getEnvInt("DEFAULT_RATING", 1000),
		ProRatingBoundary: getEnvInt("PRO_RATING_BOUNDARY", 1200),
		StarterBoundary:   getEnvInt("STARTER_BOUNDARY", 15),
		KStarter:          getEnvInt("K_STARTER", 25),
		KDefault:          getEnvInt("K_DEFAULT", 15),
		KPro:              getEnvInt("K_PRO", 10),
		UTCOffsetHours:    getEnvInt("UTC_OFFSET_HOURS", -8),
	}
}

// Optional integer env var with a default; the rating constants all have
// sensible stock values.
func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("Error: Environment variable %s must be an integer, got %q.", key, value)
	}
	return n
}
