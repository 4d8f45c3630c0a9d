package llm

import (
	"context"
	"fmt"
	"time"
)

// Provider generates text completions from a prompt.
type Provider interface {
	// Complete sends a single-turn request and returns the full
	// response text.
	Complete(ctx context.Context, system, prompt string) (string, error)
	// Name returns the provider identifier (e.g. "claude").
	Name() string
}

// VisionProvider analyzes images alongside a text prompt.
type VisionProvider interface {
	Provider
	// AnalyzeImage sends PNG bytes with a prompt and returns the
	// response text.
	AnalyzeImage(ctx context.Context, system, prompt string, png []byte) (string, error)
}

// ImageProvider generates images from a text prompt.
type ImageProvider interface {
	// GenerateImage returns raw PNG bytes for the prompt.
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
	Name() string
}

// Config holds provider settings.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxTokens == 0 {
		c.MaxTokens = 4096
	}
	if c.Timeout == 0 {
		c.Timeout = 120 * time.Second
	}
	return c
}

// NewProvider creates a text provider based on config.
func NewProvider(cfg Config) (Provider, error) {
	cfg = cfg.withDefaults()
	switch cfg.Provider {
	case "claude", "anthropic":
		return NewAnthropicProvider(cfg), nil
	case "openai":
		return NewOpenAIProvider(cfg), nil
	case "gemini", "google":
		return NewGeminiProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

// NewVisionProvider creates a vision-capable provider based on config.
func NewVisionProvider(cfg Config) (VisionProvider, error) {
	cfg = cfg.withDefaults()
	switch cfg.Provider {
	case "claude", "anthropic":
		return NewAnthropicProvider(cfg), nil
	case "openai":
		return NewOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("provider %s does not support vision", cfg.Provider)
	}
}

// NewImageProvider creates an image generation provider based on config.
func NewImageProvider(cfg Config) (ImageProvider, error) {
	cfg = cfg.withDefaults()
	switch cfg.Provider {
	case "gemini", "google":
		return NewGeminiProvider(cfg), nil
	default:
		return nil, fmt.Errorf("provider %s does not support image generation", cfg.Provider)
	}
}
