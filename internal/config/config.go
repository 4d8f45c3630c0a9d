package config

import (
	"fmt"
	"time"

	"brandworks/pkg/config"
)

// Config holds all service settings resolved from the environment.
type Config struct {
	Port string
	Host string

	ArtifactDir string

	AnthropicAPIKey string
	OpenAIAPIKey    string
	GeminiAPIKey    string

	// Default provider per capability; a run request may override.
	TextProvider     string
	StrategyProvider string
	VisionProvider   string

	ScreenshotMode   string // "remote" or "browser"
	ScreenshotAPIKey string
	ScreenshotURL    string

	BrightDataAPIKey    string
	BrightDataDatasetID string

	RedisAddr     string
	RedisPassword string

	RunTTL       time.Duration
	FetchTimeout time.Duration
}

// LoadConfig reads configuration from environment variables. Call
// config.LoadEnv first so .env files are applied.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        config.GetEnv("PORT", "8080"),
		Host:        config.GetEnv("HOST", "0.0.0.0"),
		ArtifactDir: config.GetEnv("ARTIFACT_DIR", "brand-info"),

		AnthropicAPIKey: config.GetEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    config.GetEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:    config.GetEnv("GEMINI_API_KEY", ""),

		TextProvider:     config.GetEnv("TEXT_PROVIDER", "claude"),
		StrategyProvider: config.GetEnv("STRATEGY_PROVIDER", "claude"),
		VisionProvider:   config.GetEnv("VISION_PROVIDER", "claude"),

		ScreenshotMode:   config.GetEnv("SCREENSHOT_MODE", "remote"),
		ScreenshotAPIKey: config.GetEnv("SCREENSHOT_API_KEY", ""),
		ScreenshotURL:    config.GetEnv("SCREENSHOT_API_URL", "https://api.screenshotone.com/take"),

		BrightDataAPIKey:    config.GetEnv("BRIGHTDATA_API_KEY", ""),
		BrightDataDatasetID: config.GetEnv("BRIGHTDATA_DATASET_ID", "gd_lkaxegm826bjpoo9m5"),

		RedisAddr:     config.GetEnv("REDIS_ADDR", ""),
		RedisPassword: config.GetEnv("REDIS_PASSWORD", ""),

		RunTTL:       config.GetEnvDuration("RUN_TTL", 24*time.Hour),
		FetchTimeout: config.GetEnvDuration("FETCH_TIMEOUT", 30*time.Second),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.keyFor(c.TextProvider) == "" {
		return fmt.Errorf("no API key configured for text provider %q", c.TextProvider)
	}
	if c.ScreenshotMode != "remote" && c.ScreenshotMode != "browser" {
		return fmt.Errorf("SCREENSHOT_MODE must be remote or browser, got %q", c.ScreenshotMode)
	}
	return nil
}

func (c *Config) keyFor(provider string) string {
	switch provider {
	case "claude", "anthropic":
		return c.AnthropicAPIKey
	case "openai":
		return c.OpenAIAPIKey
	case "gemini", "google":
		return c.GeminiAPIKey
	}
	return ""
}

// APIKeyFor returns the configured key for a provider name, empty when
// unknown or unset.
func (c *Config) APIKeyFor(provider string) string { return c.keyFor(provider) }
