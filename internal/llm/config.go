package llm

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config selects and configures the provider behind the answer judge.
// Every field but Retry is read from LEXICON_* variables.
type Config struct {
	// Provider is one of "gemini", "anthropic", "openai", "openrouter" or "mock".
	Provider string `env:"LEXICON_LLM_PROVIDER" envDefault:"gemini"`

	Gemini     GeminiConfig     `envPrefix:"LEXICON_GEMINI_"`
	Anthropic  AnthropicConfig  `envPrefix:"LEXICON_ANTHROPIC_"`
	OpenAI     OpenAIConfig     `envPrefix:"LEXICON_OPENAI_"`
	OpenRouter OpenRouterConfig `envPrefix:"LEXICON_OPENROUTER_"`

	Retry RetryConfig
}

type GeminiConfig struct {
	APIKey string `env:"API_KEY"`
	Model  string `env:"MODEL" envDefault:"gemini-flash"`
}

type AnthropicConfig struct {
	APIKey string `env:"API_KEY"`
	Model  string `env:"MODEL" envDefault:"claude-haiku"`
}

type OpenAIConfig struct {
	APIKey string `env:"API_KEY"`
	Model  string `env:"MODEL" envDefault:"gpt-mini"`

	// BaseURL points the client at an OpenAI-compatible API.
	BaseURL string `env:"BASE_URL"`
}

type OpenRouterConfig struct {
	APIKey string `env:"API_KEY"`
	Model  string `env:"MODEL" envDefault:"google/gemini-2.5-flash"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// judgeRetry fits inside the judge's fallback timeout.
var judgeRetry = RetryConfig{
	MaxAttempts: 2,
	InitialWait: 250 * time.Millisecond,
	MaxWait:     time.Second,
	Multiplier:  2.0,
}

// DefaultConfig returns the tag defaults without consulting the environment.
func DefaultConfig() Config {
	var cfg Config
	// Only string fields with literal defaults; parsing cannot fail.
	_ = env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}})
	cfg.Retry = judgeRetry
	return cfg
}

// ConfigFromEnv builds a Config from LEXICON_* environment variables,
// falling back to defaults for unset values.
func ConfigFromEnv() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Printf("llm: parse env: %v", err)
		return DefaultConfig()
	}
	cfg.Retry = judgeRetry
	return cfg
}

// wellKnownKeys are the vendors' own API key variables, checked in order.
type wellKnownKeys struct {
	Gemini     string `env:"GEMINI_API_KEY"`
	OpenAI     string `env:"OPENAI_API_KEY"`
	Anthropic  string `env:"ANTHROPIC_API_KEY"`
	OpenRouter string `env:"OPENROUTER_API_KEY"`
}

// DiscoverConfig returns a Config for the first provider whose standard API
// key is set (Gemini, OpenAI, Anthropic, then OpenRouter).
func DiscoverConfig() (Config, bool) {
	keys, err := env.ParseAs[wellKnownKeys]()
	if err != nil {
		return Config{}, false
	}

	cfg := DefaultConfig()
	switch {
	case keys.Gemini != "":
		cfg.Provider, cfg.Gemini.APIKey = "gemini", keys.Gemini
	case keys.OpenAI != "":
		cfg.Provider, cfg.OpenAI.APIKey = "openai", keys.OpenAI
	case keys.Anthropic != "":
		cfg.Provider, cfg.Anthropic.APIKey = "anthropic", keys.Anthropic
	case keys.OpenRouter != "":
		cfg.Provider, cfg.OpenRouter.APIKey = "openrouter", keys.OpenRouter
	default:
		return Config{}, false
	}
	return cfg, true
}

// ResolveConfig prefers explicit LEXICON_* settings and falls back to
// discovering a standard API key. ok is false when no provider is usable.
func ResolveConfig() (Config, bool) {
	if cfg := ConfigFromEnv(); cfg.Validate() == nil {
		return cfg, true
	}
	return DiscoverConfig()
}

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case "gemini":
		key = c.Gemini.APIKey
	case "anthropic":
		key = c.Anthropic.APIKey
	case "openai":
		key = c.OpenAI.APIKey
	case "openrouter":
		key = c.OpenRouter.APIKey
	case "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("an API key is required for the %s provider (LEXICON_%s_API_KEY)", c.Provider, strings.ToUpper(c.Provider))
	}
	return nil
}
