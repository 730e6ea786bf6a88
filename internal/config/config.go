package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultDatabasePath = "data/nutriplanner.db"
	defaultSessionTTL   = 45 * time.Minute
)

// Config holds the configuration for the application.
type Config struct {
	// Engine tuning. Zero values mean "use the engine defaults".
	MatcherWeights  []float64
	MatcherTopPicks int

	// Catalog source. When both are empty the embedded menu is used.
	MenuURL  string
	MenuPath string

	DatabasePath string

	// Gemini is optional; without a key the review feature is disabled.
	GeminiAPIKey string
	GeminiModel  string

	// Telegram Config (required for the bot, unused by the CLI)
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
	SessionTTL             time.Duration
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		MenuURL:            os.Getenv("MENU_URL"),
		MenuPath:           os.Getenv("MENU_PATH"),
		DatabasePath:       os.Getenv("DATABASE_PATH"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        os.Getenv("GEMINI_MODEL"),
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),
		SessionTTL:         defaultSessionTTL,
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = defaultDatabasePath
	}

	if v := os.Getenv("MATCHER_TOP_PICKS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("MATCHER_TOP_PICKS must be a positive integer, got %q", v)
		}
		cfg.MatcherTopPicks = n
	}

	if v := os.Getenv("MATCHER_WEIGHTS"); v != "" {
		weights, err := parseWeights(v)
		if err != nil {
			return nil, err
		}
		cfg.MatcherWeights = weights
	}

	if v := os.Getenv("SESSION_TTL_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("SESSION_TTL_MINUTES must be a positive integer, got %q", v)
		}
		cfg.SessionTTL = time.Duration(n) * time.Minute
	}

	if v := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); v != "" {
		ids, err := parseUserIDs(v)
		if err != nil {
			return nil, err
		}
		cfg.TelegramAllowedUserIDs = ids
	}

	if v := os.Getenv("ADMIN_TELEGRAM_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_TELEGRAM_ID must be an integer, got %q", v)
		}
		cfg.AdminTelegramID = id
	}

	return cfg, nil
}

// ValidateForBot checks the fields the Telegram bot cannot run without.
func (c *Config) ValidateForBot() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}

// parseWeights parses "protein,calories,carbs,fat" as four floats.
func parseWeights(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("MATCHER_WEIGHTS must have 4 comma-separated values, got %d", len(parts))
	}

	weights := make([]float64, 4)
	for i, part := range parts {
		w, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || w < 0 {
			return nil, fmt.Errorf("MATCHER_WEIGHTS entry %q is not a non-negative number", part)
		}
		weights[i] = w
	}
	return weights, nil
}

func parseUserIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS entry %q is not an integer", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
