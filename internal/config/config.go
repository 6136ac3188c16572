package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable.
type Config struct {
	AppEnv string
	Port   string

	// Postgres
	PGHost     string
	PGPort     string
	PGUser     string
	PGPassword string
	PGDatabase string

	// Redis is optional; when RedisHost is empty the decision guard
	// falls back to the in-memory implementation.
	RedisHost     string
	RedisPort     string
	RedisPassword string

	// Session signing
	JWTSecret     string
	SessionTTLMin int

	// Discord application
	DiscordClientID     string
	DiscordClientSecret string
	DiscordRedirectURI  string
	DiscordBotToken     string
	DiscordPublicKey    string

	// Community wiring
	GuildID         string
	LogChannelID    string
	ApprovChannelID string
	ReprovChannelID string
	AuditWebhookURL string
	FrontendURL     string
}

// Load reads configuration from environment variables. Required variables
// are enforced by must() and missing values abort startup.
func Load() *Config {
	return &Config{
		AppEnv: getenv("APP_ENV", "development"),
		Port:   getenv("PORT", "8080"),

		PGHost:     must("PG_HOST"),
		PGPort:     getenv("PG_PORT", "5432"),
		PGUser:     must("PG_USER"),
		PGPassword: must("PG_PASSWORD"),
		PGDatabase: must("PG_DB"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getenv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret:     must("JWT_SECRET"),
		SessionTTLMin: getenvInt("SESSION_TTL_MIN", 60),

		DiscordClientID:     must("DISCORD_CLIENT_ID"),
		DiscordClientSecret: must("DISCORD_CLIENT_SECRET"),
		DiscordRedirectURI:  must("DISCORD_REDIRECT_URI"),
		DiscordBotToken:     must("DISCORD_TOKEN"),
		DiscordPublicKey:    must("DISCORD_PUBLIC_KEY"),

		GuildID:         must("GUILD_ID"),
		LogChannelID:    must("LOG_CHANNEL_ID"),
		ApprovChannelID: must("APPROV_CHANNEL_ID"),
		ReprovChannelID: must("REPROV_CHANNEL_ID"),
		AuditWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
		FrontendURL:     getenv("FRONTEND_URL", "https://testes.andredevhub.com"),
	}
}

// must retrieves a required environment variable or aborts
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("env var %s is not an integer: %v", key, err)
	}
	return n
}
