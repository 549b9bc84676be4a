package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL",
	"PERPLEXITY_API_KEY", "PERPLEXITY_MODEL", "PERPLEXITY_BASE_URL",
	"PROVIDER_TIMEOUT", "BOT_TOKEN", "ADMINS", "LOG_CHANNEL_ID", "DAILY_LIMIT",
	"REDIS_URL", "REDIS_PASSWORD", "TURSO_DATABASE_URL", "TURSO_AUTH_TOKEN", "DEBUG",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Gemini.Model != "gemini-2.0-flash" || cfg.Perplexity.Model != "sonar" {
		t.Fatalf("unexpected default models: %q %q", cfg.Gemini.Model, cfg.Perplexity.Model)
	}
	if cfg.Perplexity.BaseURL != "https://api.perplexity.ai" {
		t.Fatalf("unexpected base url: %q", cfg.Perplexity.BaseURL)
	}
	if cfg.Bot.DailyLimit != DefaultDailyLimit {
		t.Fatalf("unexpected daily limit: %d", cfg.Bot.DailyLimit)
	}
	d, err := cfg.Timeout()
	if err != nil || d != DefaultProviderTimeout {
		t.Fatalf("unexpected timeout: %v %v", d, err)
	}
	if err := cfg.ValidateProviders(); err == nil {
		t.Fatal("expected missing keys error")
	}
}

func TestLoadFileWithEnvExpansion(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_LYRICSEARCH_GEMINI", "g-key")
	path := writeConfig(t, `
gemini:
  api_key: $TEST_LYRICSEARCH_GEMINI
  model: gemini-1.5-flash
perplexity:
  api_key: p-key
provider_timeout: 15s
bot:
  token: bot-token
  admins: [alice, bob]
  daily_limit: 5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Gemini.APIKey != "g-key" || cfg.Gemini.Model != "gemini-1.5-flash" {
		t.Fatalf("unexpected gemini config: %+v", cfg.Gemini)
	}
	if cfg.Perplexity.APIKey != "p-key" || cfg.Perplexity.Model != "sonar" {
		t.Fatalf("unexpected perplexity config: %+v", cfg.Perplexity)
	}
	if d, _ := cfg.Timeout(); d != 15*time.Second {
		t.Fatalf("unexpected timeout: %v", d)
	}
	if !reflect.DeepEqual(cfg.Bot.Admins, []string{"alice", "bob"}) || cfg.Bot.DailyLimit != 5 {
		t.Fatalf("unexpected bot config: %+v", cfg.Bot)
	}
	if err := cfg.ValidateBot(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PERPLEXITY_API_KEY", "env-key")
	t.Setenv("ADMINS", "@carol, dave")
	t.Setenv("LOG_CHANNEL_ID", "-100123")
	t.Setenv("DAILY_LIMIT", "0")
	path := writeConfig(t, "perplexity:\n  api_key: file-key\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Perplexity.APIKey != "env-key" {
		t.Fatalf("env should win, got %q", cfg.Perplexity.APIKey)
	}
	if !reflect.DeepEqual(cfg.Bot.Admins, []string{"carol", "dave"}) {
		t.Fatalf("unexpected admins: %v", cfg.Bot.Admins)
	}
	if cfg.Bot.LogChannelID != -100123 || cfg.Bot.DailyLimit != 0 {
		t.Fatalf("unexpected bot config: %+v", cfg.Bot)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}

	t.Setenv("LOG_CHANNEL_ID", "not-a-number")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "LOG_CHANNEL_ID") {
		t.Fatalf("expected LOG_CHANNEL_ID error, got %v", err)
	}
}

func TestValidateTimeout(t *testing.T) {
	cfg := &Config{
		Gemini:          Provider{APIKey: "g"},
		Perplexity:      Provider{APIKey: "p"},
		ProviderTimeout: "soon",
	}
	if err := cfg.ValidateProviders(); err == nil {
		t.Fatal("expected invalid timeout error")
	}
	cfg.ProviderTimeout = "0s"
	if err := cfg.ValidateProviders(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.ValidateBot(); err == nil {
		t.Fatal("expected missing token error")
	}
}

func TestPipeline(t *testing.T) {
	cfg := &Config{
		Gemini:     Provider{APIKey: "g"},
		Perplexity: Provider{APIKey: "p"},
	}
	if creds := cfg.Credentials(); creds.Vision != "g" || creds.Search != "p" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}
	if p, err := cfg.Pipeline(); err != nil || p == nil {
		t.Fatalf("unexpected pipeline: %v, %v", p, err)
	}
	cfg.ProviderTimeout = "nope"
	if _, err := cfg.Pipeline(); err == nil {
		t.Fatal("expected timeout error")
	}
}
