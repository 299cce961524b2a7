// Package tts defines the synthesis provider contract and shared types
// for the text-to-speech engines.
package tts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Engine is a synthesis provider. Given final text and the configured
// voice parameters it returns audio bytes plus the total duration.
// Engines do not retry: any provider failure is fatal for the request
// and retry policy, if any, belongs to the caller.
type Engine interface {
	// Name returns the engine identifier used in configuration and
	// artifact metadata.
	Name() string

	// Available reports whether the engine can run in this
	// environment (binary on PATH, API key present, and so on).
	Available() bool

	// Synthesize converts text to speech. The context bounds the
	// external call; cancellation discards the request.
	Synthesize(ctx context.Context, text string) (*Result, error)
}

// Result is the outcome of a synthesis call.
type Result struct {
	// Audio holds the encoded audio bytes.
	Audio []byte

	// Format is the file extension of the audio encoding ("mp3").
	Format string

	// Duration is the total audio length in seconds. Zero when the
	// provider could not report it; callers fall back to the
	// words-per-minute estimate.
	Duration float64
}

// Config selects and parameterizes an engine.
type Config struct {
	Engine string `yaml:"engine" env:"VOCALIZE_ENGINE" envDefault:"openai"`

	OpenAI OpenAIConfig `yaml:"openai"`
	GTTS   GTTSConfig   `yaml:"gtts"`
	Mock   MockConfig   `yaml:"mock"`
}

// OpenAIConfig holds settings for the OpenAI speech engine.
type OpenAIConfig struct {
	APIKey            string        `yaml:"api_key" env:"OPENAI_API_KEY"`
	Voice             string        `yaml:"voice" env:"VOCALIZE_OPENAI_VOICE" envDefault:"nova"`
	Model             string        `yaml:"model" env:"VOCALIZE_OPENAI_MODEL" envDefault:"tts-1"`
	BaseURL           string        `yaml:"base_url" env:"VOCALIZE_OPENAI_BASE_URL"`
	Timeout           time.Duration `yaml:"timeout" env:"VOCALIZE_OPENAI_TIMEOUT" envDefault:"60s"`
	RequestsPerMinute int           `yaml:"requests_per_minute" env:"VOCALIZE_OPENAI_RPM" envDefault:"50"`
}

// GTTSConfig holds settings for the gtts-cli subprocess engine.
type GTTSConfig struct {
	Language          string        `yaml:"language" env:"VOCALIZE_GTTS_LANGUAGE" envDefault:"en"`
	Slow              bool          `yaml:"slow" env:"VOCALIZE_GTTS_SLOW" envDefault:"false"`
	Timeout           time.Duration `yaml:"timeout" env:"VOCALIZE_GTTS_TIMEOUT" envDefault:"30s"`
	RequestsPerMinute int           `yaml:"requests_per_minute" env:"VOCALIZE_GTTS_RPM" envDefault:"50"`
}

// MockConfig holds settings for the deterministic test engine.
type MockConfig struct {
	WordsPerMinute int     `yaml:"words_per_minute" env:"VOCALIZE_MOCK_WPM" envDefault:"150"`
	FailureRate    float64 `yaml:"failure_rate" env:"VOCALIZE_MOCK_FAILURE_RATE" envDefault:"0.0"`
}

// DefaultConfig returns engine configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Engine: "openai",
		OpenAI: OpenAIConfig{
			Voice:             "nova",
			Model:             "tts-1",
			Timeout:           60 * time.Second,
			RequestsPerMinute: 50,
		},
		GTTS: GTTSConfig{
			Language:          "en",
			Timeout:           30 * time.Second,
			RequestsPerMinute: 50,
		},
		Mock: MockConfig{
			WordsPerMinute: 150,
		},
	}
}

// ConfigFromEnv returns the default configuration with environment
// overrides applied.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("error parsing engine environment: %w", err)
	}
	return cfg, nil
}

// ValidEngines lists the selectable engine names.
var ValidEngines = []string{"openai", "gtts", "mock"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	valid := false
	for _, e := range ValidEngines {
		if strings.EqualFold(c.Engine, e) {
			c.Engine = strings.ToLower(c.Engine)
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w %q: must be one of %v", ErrUnknownEngine, c.Engine, ValidEngines)
	}

	switch c.Engine {
	case "openai":
		return c.OpenAI.Validate()
	case "gtts":
		return c.GTTS.Validate()
	case "mock":
		return c.Mock.Validate()
	}
	return nil
}

// Validate checks the OpenAI engine settings.
func (c *OpenAIConfig) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("openai model cannot be empty")
	}
	if c.Timeout < time.Second {
		return fmt.Errorf("openai timeout must be at least 1 second, got %v", c.Timeout)
	}
	if c.RequestsPerMinute < 1 {
		return fmt.Errorf("openai requests_per_minute must be positive, got %d", c.RequestsPerMinute)
	}
	return nil
}

// Validate checks the gTTS engine settings.
func (c *GTTSConfig) Validate() error {
	if len(c.Language) < 2 || len(c.Language) > 5 {
		return fmt.Errorf("gtts language code must be 2-5 characters, got %q", c.Language)
	}
	if c.Timeout < time.Second {
		return fmt.Errorf("gtts timeout must be at least 1 second, got %v", c.Timeout)
	}
	if c.RequestsPerMinute < 1 {
		return fmt.Errorf("gtts requests_per_minute must be positive, got %d", c.RequestsPerMinute)
	}
	return nil
}

// Validate checks the mock engine settings.
func (c *MockConfig) Validate() error {
	if c.WordsPerMinute < 50 || c.WordsPerMinute > 500 {
		return fmt.Errorf("mock words_per_minute must be between 50 and 500, got %d", c.WordsPerMinute)
	}
	if c.FailureRate < 0 || c.FailureRate > 1 {
		return fmt.Errorf("mock failure_rate must be between 0.0 and 1.0, got %g", c.FailureRate)
	}
	return nil
}

// Voice returns the configured voice identifier for the selected
// engine, for artifact metadata.
func (c *Config) Voice() string {
	switch c.Engine {
	case "openai":
		return c.OpenAI.Voice
	case "gtts":
		return c.GTTS.Language
	default:
		return ""
	}
}
