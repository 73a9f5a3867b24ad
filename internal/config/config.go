package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds everything the process needs from the environment.
type Config struct {
	BotToken      string `validate:"required"`
	ProviderToken string
	Currency      string `validate:"required"`
	DatabasePath  string `validate:"required"`
	HTTPPort      string `validate:"required"`
	AdminIDs      []int64
}

// Load reads .env (if present) and the environment and validates the result.
func Load() (*Config, error) {
	// .env is optional, real env vars win
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:      os.Getenv("BOT_TOKEN"),
		ProviderToken: os.Getenv("PAYMENT_PROVIDER_TOKEN"),
		Currency:      get("CURRENCY", "RUB"),
		DatabasePath:  get("DATABASE_PATH", "/app/data/market.db"),
		HTTPPort:      get("PORT", "8080"),
		AdminIDs:      parseAdminIDs(os.Getenv("ADMIN_IDS")),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// IsAdmin reports whether the given Telegram ID is in the admin allowlist.
func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

func get(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parseAdminIDs parses a comma-separated id list, skipping anything non-numeric.
func parseAdminIDs(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
