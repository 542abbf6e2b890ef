package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"culturepulse/pkg/pulse"
	"culturepulse/pkg/source"
)

// Config is the root configuration.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Pulse    PulseConfig    `yaml:"pulse"`
	Cache    CacheConfig    `yaml:"cache"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Server   ServerConfig   `yaml:"server"`
	Alerts   AlertsConfig   `yaml:"alerts"`
}

// ProviderConfig selects and configures the article source.
type ProviderConfig struct {
	Kind     string `yaml:"kind"` // "newsapi" or "googlenews"
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"` // override for tests/proxies
	Language string `yaml:"language"`
	PageSize int    `yaml:"page_size"`
}

// PulseConfig configures the scoring run.
type PulseConfig struct {
	DaysBack   int              `yaml:"days_back"`
	Categories []CategoryConfig `yaml:"categories"`
}

// CategoryConfig is one category axis. Order in the list is chart axis order.
type CategoryConfig struct {
	Name     string   `yaml:"name"`
	Query    string   `yaml:"query"`
	Profile  string   `yaml:"profile"` // "standard" or "high-intensity"
	Keywords []string `yaml:"keywords"`
}

// CacheConfig configures the SQLite response cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	TTL     string `yaml:"ttl"`
}

// ParseTTL returns the cache TTL as time.Duration.
func (c CacheConfig) ParseTTL() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// ScheduleConfig configures daemon-mode refresh.
type ScheduleConfig struct {
	Refresh string `yaml:"refresh"` // five-field cron expression
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// AlertsConfig configures threshold notifications.
type AlertsConfig struct {
	Threshold float64       `yaml:"threshold"` // normalized score that triggers an alert
	Slack     SlackConfig   `yaml:"slack"`
	Discord   DiscordConfig `yaml:"discord"`
	Webhook   WebhookConfig `yaml:"webhook"`
}

// SlackConfig for Slack webhook alerts.
type SlackConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// DiscordConfig for Discord webhook alerts.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// WebhookConfig for generic webhook alerts.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
}

// Default returns a Config with the fixed eight-category layout and sensible
// defaults.
func Default() *Config {
	queries := source.DefaultQueries()
	defaults := pulse.DefaultCategories()
	categories := make([]CategoryConfig, 0, len(defaults))
	for _, cat := range defaults {
		cc := CategoryConfig{
			Name:    cat.Name,
			Query:   queries[cat.Name],
			Profile: cat.Profile.Name,
		}
		if len(cat.Profile.Keywords) > 0 {
			cc.Keywords = append([]string(nil), cat.Profile.Keywords...)
		}
		categories = append(categories, cc)
	}

	return &Config{
		Provider: ProviderConfig{
			Kind:     "newsapi",
			Language: "en",
			PageSize: 100,
		},
		Pulse: PulseConfig{
			DaysBack:   7,
			Categories: categories,
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    "./culturepulse.db",
			TTL:     "1h",
		},
		Schedule: ScheduleConfig{Refresh: "0 * * * *"},
		Server:   ServerConfig{Port: 8080},
		Alerts:   AlertsConfig{Threshold: 85},
	}
}

// Load reads configuration from a YAML file and applies .env/env overrides.
func Load(path string) (*Config, error) {
	// The original tool keeps NEWS_API_KEY in a .env file; honor that.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// Validate reports configuration errors that must stop a run before any
// network activity.
func (c *Config) Validate() error {
	switch c.Provider.Kind {
	case "newsapi":
		if c.Provider.APIKey == "" {
			return fmt.Errorf("provider newsapi requires an API key (set NEWS_API_KEY or provider.api_key)")
		}
	case "googlenews":
	default:
		return fmt.Errorf("unknown provider %q", c.Provider.Kind)
	}

	if len(c.Pulse.Categories) == 0 {
		return fmt.Errorf("no categories configured")
	}
	seen := make(map[string]bool)
	for _, cat := range c.Pulse.Categories {
		if cat.Name == "" {
			return fmt.Errorf("category with empty name")
		}
		if seen[cat.Name] {
			return fmt.Errorf("duplicate category %q", cat.Name)
		}
		seen[cat.Name] = true
	}
	return nil
}

// Queries returns the category-to-query map for the article source.
func (c *Config) Queries() map[string]string {
	queries := make(map[string]string, len(c.Pulse.Categories))
	for _, cat := range c.Pulse.Categories {
		queries[cat.Name] = cat.Query
	}
	return queries
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("CULTUREPULSE_CACHE_PATH"); v != "" {
		cfg.Cache.Path = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Slack.WebhookURL = v
		cfg.Alerts.Slack.Enabled = true
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Discord.WebhookURL = v
		cfg.Alerts.Discord.Enabled = true
	}
}
