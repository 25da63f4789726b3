package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/lexicon/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with retry and
// event logging: caller → retry → logging → base. A nil repo disables
// event logging.
func NewProvider(ctx context.Context, cfg Config, events store.JudgeEventRepo) (Provider, error) {
	var (
		base Provider
		err  error
	)

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if events != nil {
		base = WithLogging(base, cfg.Provider, events)
	}
	return WithRetry(base, cfg.Retry), nil
}
