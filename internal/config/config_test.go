package config

import (
	"testing"
)

func TestLoad(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DATABASE_PATH", "/tmp/market.db")
	t.Setenv("ADMIN_IDS", "10, 20,not-a-number,30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BotToken != "123:abc" {
		t.Errorf("Expected bot token '123:abc', got %q", cfg.BotToken)
	}
	if cfg.Currency != "RUB" {
		t.Errorf("Expected default currency RUB, got %q", cfg.Currency)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("Expected default port 8080, got %q", cfg.HTTPPort)
	}
	if len(cfg.AdminIDs) != 3 {
		t.Fatalf("Expected 3 admin ids, got %v", cfg.AdminIDs)
	}
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("DATABASE_PATH", "/tmp/market.db")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for missing BOT_TOKEN")
	}
}

func TestIsAdmin(t *testing.T) {
	cfg := &Config{AdminIDs: []int64{10, 20}}
	if !cfg.IsAdmin(10) {
		t.Error("Expected 10 to be admin")
	}
	if cfg.IsAdmin(30) {
		t.Error("Expected 30 not to be admin")
	}
}

func TestParseAdminIDs(t *testing.T) {
	ids := parseAdminIDs(" 1,2 , ,x,3")
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Errorf("Expected [1 2 3], got %v", ids)
	}
	if got := parseAdminIDs(""); got != nil {
		t.Errorf("Expected nil for empty input, got %v", got)
	}
}
