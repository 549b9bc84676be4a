// Package config loads lyricsearch settings from an optional YAML file and
// the environment. Environment variables win over file values.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/sukalov/lyricsearch/internal/lyrics/perplexity"
	"github.com/sukalov/lyricsearch/internal/utils"
	"github.com/sukalov/lyricsearch/internal/vision"
)

const (
	DefaultProviderTimeout = 60 * time.Second
	DefaultDailyLimit      = 20
)

type Provider struct {
	APIKey  string `yaml:"api_key"` // may be "$ENV_VAR"
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type Bot struct {
	Token        string   `yaml:"token"`
	LogChannelID int64    `yaml:"log_channel_id"`
	Admins       []string `yaml:"admins"`
	DailyLimit   int      `yaml:"daily_limit"`
}

type Redis struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

type Turso struct {
	URL       string `yaml:"url"`
	AuthToken string `yaml:"auth_token"`
}

type Config struct {
	Gemini          Provider `yaml:"gemini"`
	Perplexity      Provider `yaml:"perplexity"`
	ProviderTimeout string   `yaml:"provider_timeout"`
	Debug           bool     `yaml:"debug"`

	Bot   Bot   `yaml:"bot"`
	Redis Redis `yaml:"redis"`
	Turso Turso `yaml:"turso"`
}

// Load reads path (skipped when empty) and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Gemini:     Provider{Model: vision.DefaultModel},
		Perplexity: Provider{Model: perplexity.DefaultModel, BaseURL: perplexity.DefaultBaseURL},
		Bot:        Bot{DailyLimit: DefaultDailyLimit},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	utils.LoadDotEnv()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.expand()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Gemini.APIKey = utils.EnvOr("GEMINI_API_KEY", c.Gemini.APIKey)
	c.Gemini.Model = utils.EnvOr("GEMINI_MODEL", c.Gemini.Model)
	c.Gemini.BaseURL = utils.EnvOr("GEMINI_BASE_URL", c.Gemini.BaseURL)
	c.Perplexity.APIKey = utils.EnvOr("PERPLEXITY_API_KEY", c.Perplexity.APIKey)
	c.Perplexity.Model = utils.EnvOr("PERPLEXITY_MODEL", c.Perplexity.Model)
	c.Perplexity.BaseURL = utils.EnvOr("PERPLEXITY_BASE_URL", c.Perplexity.BaseURL)
	c.ProviderTimeout = utils.EnvOr("PROVIDER_TIMEOUT", c.ProviderTimeout)

	c.Bot.Token = utils.EnvOr("BOT_TOKEN", c.Bot.Token)
	if admins := utils.EnvOr("ADMINS", ""); admins != "" {
		c.Bot.Admins = utils.SplitList(admins)
	}
	if raw := utils.EnvOr("LOG_CHANNEL_ID", ""); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse LOG_CHANNEL_ID: %w", err)
		}
		c.Bot.LogChannelID = id
	}
	if raw := utils.EnvOr("DAILY_LIMIT", ""); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("failed to parse DAILY_LIMIT: %w", err)
		}
		c.Bot.DailyLimit = limit
	}

	c.Redis.URL = utils.EnvOr("REDIS_URL", c.Redis.URL)
	c.Redis.Password = utils.EnvOr("REDIS_PASSWORD", c.Redis.Password)
	c.Turso.URL = utils.EnvOr("TURSO_DATABASE_URL", c.Turso.URL)
	c.Turso.AuthToken = utils.EnvOr("TURSO_AUTH_TOKEN", c.Turso.AuthToken)

	if raw := utils.EnvOr("DEBUG", ""); raw != "" {
		c.Debug, _ = strconv.ParseBool(raw)
	}
	return nil
}

func (c *Config) expand() {
	for _, s := range []*string{
		&c.Gemini.APIKey, &c.Perplexity.APIKey,
		&c.Bot.Token, &c.Redis.Password, &c.Turso.AuthToken,
	} {
		*s = expandEnv(*s)
	}
}

// expandEnv resolves "$VAR" and "${VAR}" references; other values pass
// through unchanged.
func expandEnv(s string) string {
	if strings.HasPrefix(s, "$") {
		return os.ExpandEnv(s)
	}
	return s
}

// Timeout is the per provider call bound; zero means unbounded.
func (c *Config) Timeout() (time.Duration, error) {
	if c.ProviderTimeout == "" {
		return DefaultProviderTimeout, nil
	}
	d, err := time.ParseDuration(c.ProviderTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid provider_timeout %q: %w", c.ProviderTimeout, err)
	}
	return d, nil
}

// ValidateProviders reports missing provider keys.
func (c *Config) ValidateProviders() error {
	var errs []error
	if c.Gemini.APIKey == "" {
		errs = append(errs, errors.New("gemini api key is required (GEMINI_API_KEY)"))
	}
	if c.Perplexity.APIKey == "" {
		errs = append(errs, errors.New("perplexity api key is required (PERPLEXITY_API_KEY)"))
	}
	if _, err := c.Timeout(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ValidateBot reports settings the Telegram bot cannot run without.
func (c *Config) ValidateBot() error {
	errs := []error{c.ValidateProviders()}
	if c.Bot.Token == "" {
		errs = append(errs, errors.New("bot token is required (BOT_TOKEN)"))
	}
	if c.Bot.DailyLimit < 0 {
		errs = append(errs, fmt.Errorf("daily limit must not be negative, got %d", c.Bot.DailyLimit))
	}
	return errors.Join(errs...)
}
