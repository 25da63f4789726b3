package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/lexicon/internal/store"
)

func verdictSchema() *Schema {
	return &Schema{
		Name:        "test-verdict",
		Description: "Whether an answer is correct",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"correct":     map[string]any{"type": "boolean"},
				"explanation": map[string]any{"type": "string"},
			},
			"required":             []any{"correct", "explanation"},
			"additionalProperties": false,
		},
	}
}

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"correct":true,"explanation":"ok"}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"correct":false,"explanation":"no"}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Prompt: "first", Schema: verdictSchema()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(resp1.Content), `"correct":true`) {
		t.Fatalf("unexpected content %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Prompt: "second"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(resp2.Content), `"correct":false`) {
		t.Fatalf("unexpected content %s", resp2.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_ValidatesAgainstSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"correct":"yes"}`)})
	_, err := mock.Generate(context.Background(), Request{Schema: verdictSchema()})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got: %v", err)
	}
}

func TestMockProvider_DelayHonorsContext(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`), Delay: time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := mock.Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	_, _ = mock.Generate(context.Background(), Request{System: "sys", Prompt: "hello"})

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" || mock.Calls[0].Prompt != "hello" {
		t.Fatalf("unexpected recorded call %+v", mock.Calls[0])
	}
}

func TestContextLabels(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}
	if s := SubjectFrom(ctx); s != "" {
		t.Fatalf("expected empty subject, got %q", s)
	}

	ctx = WithSubject(WithPurpose(ctx, "judge"), "Forte")
	if p := PurposeFrom(ctx); p != "judge" {
		t.Fatalf("expected 'judge', got %q", p)
	}
	if s := SubjectFrom(ctx); s != "Forte" {
		t.Fatalf("expected 'Forte', got %q", s)
	}
}

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	events := store.NewJudgeEventRepo(store.NewMemory(), store.NewPaths("test"))
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"correct":true,"explanation":"same meaning"}`), Usage: Usage{InputTokens: 12, OutputTokens: 7}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	p := WithLogging(mock, "mock", events)

	ctx := WithSubject(WithPurpose(context.Background(), "judge"), "Piano")
	if _, err := p.Generate(ctx, Request{System: "sys", Prompt: "judge this"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, Request{Prompt: "again"}); err == nil {
		t.Fatal("expected error from second call")
	}

	got, err := events.List(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}

	failed, ok := got[0], got[1]
	if !ok.Success || ok.InputTokens != 12 || ok.Term != "Piano" || ok.Purpose != "judge" {
		t.Errorf("unexpected success event %+v", ok)
	}
	if !strings.Contains(ok.RequestBody, "[system]\nsys") || !strings.Contains(ok.ResponseBody, "same meaning") {
		t.Errorf("request/response not captured: %+v", ok)
	}
	if failed.Success || failed.ErrorMessage == "" {
		t.Errorf("unexpected failure event %+v", failed)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"gemini without key", Config{Provider: "gemini"}, true},
		{"gemini with key", Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "k"}}, false},
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}}, false},
		{"openai without key", Config{Provider: "openai"}, true},
		{"openrouter with key", Config{Provider: "openrouter", OpenRouter: OpenRouterConfig{APIKey: "sk-or"}}, false},
		{"mock needs no key", Config{Provider: "mock"}, false},
		{"unknown provider", Config{Provider: "unknown"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LEXICON_LLM_PROVIDER", "openai")
	t.Setenv("LEXICON_OPENAI_API_KEY", "sk-env")
	t.Setenv("LEXICON_OPENAI_MODEL", "gpt-nano")

	cfg := ConfigFromEnv()
	if cfg.Provider != "openai" || cfg.OpenAI.APIKey != "sk-env" || cfg.OpenAI.Model != "gpt-nano" {
		t.Fatalf("unexpected config %+v", cfg.OpenAI)
	}
	if cfg.Gemini.Model != "gemini-flash" {
		t.Fatalf("defaults should survive, got %q", cfg.Gemini.Model)
	}
}

func TestResolveConfig_FallsBackToDiscovery(t *testing.T) {
	t.Setenv("LEXICON_LLM_PROVIDER", "")
	t.Setenv("LEXICON_GEMINI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENROUTER_API_KEY", "")

	cfg, ok := ResolveConfig()
	if !ok {
		t.Fatal("expected a usable config")
	}
	if cfg.Provider != "anthropic" || cfg.Anthropic.APIKey != "sk-ant" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestResolveConfig_NoneAvailable(t *testing.T) {
	for _, k := range []string{"LEXICON_LLM_PROVIDER", "LEXICON_GEMINI_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	if _, ok := ResolveConfig(); ok {
		t.Fatal("expected no usable config")
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected mock provider, got %q", p.ModelID())
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	if _, err := NewProvider(context.Background(), Config{Provider: "bard"}, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gemini-flash")
	if c == nil {
		t.Fatal("expected pricing for the default judge model")
	}
	if got := c.Cost(1_000_000, 0); got != 0.3 {
		t.Fatalf("expected 0.3 USD per 1M input tokens, got %v", got)
	}
	if LookupCost("mock") != nil {
		t.Fatal("expected no pricing for mock")
	}
}
