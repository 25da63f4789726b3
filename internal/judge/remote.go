package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/abhisek/lexicon/internal/llm"
	"github.com/abhisek/lexicon/internal/terms"
)

// RemoteConfig holds generation settings for the remote judge.
type RemoteConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultRemoteConfig returns sensible defaults.
func DefaultRemoteConfig() RemoteConfig {
	return RemoteConfig{
		MaxTokens:   256,
		Temperature: 0,
	}
}

// Remote asks an LLM whether the answer is an acceptable translation.
type Remote struct {
	provider llm.Provider
	cfg      RemoteConfig
}

// NewRemote creates an LLM-backed judge.
func NewRemote(provider llm.Provider, cfg RemoteConfig) *Remote {
	return &Remote{provider: provider, cfg: cfg}
}

type verdictOutput struct {
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation"`
}

func (r *Remote) Evaluate(ctx context.Context, term terms.Term, answer string) (Verdict, error) {
	ctx = llm.WithSubject(llm.WithPurpose(ctx, "judge"), term.Term)

	prompt, err := buildJudgeMessage(term, answer)
	if err != nil {
		return Verdict{}, fmt.Errorf("build judge prompt: %w", err)
	}

	resp, err := r.provider.Generate(ctx, llm.Request{
		System:      judgeSystemPrompt,
		Prompt:      prompt,
		Schema:      VerdictSchema,
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: %w", ErrService, err)
	}

	var out verdictOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return Verdict{}, fmt.Errorf("%w: parse verdict: %w", ErrService, err)
	}
	return Verdict{
		Correct:     out.Correct,
		Explanation: out.Explanation,
		Source:      SourceRemote,
	}, nil
}

const judgeSystemPrompt = `You grade answers in a musical terminology quiz. The player sees a term and types its translation into the target language.

Instructions:
- Accept synonyms, minor spelling mistakes and different word order if the meaning is preserved.
- Reject answers with a different or opposite meaning, or answers in the wrong language.
- Keep the explanation to one sentence.`

var judgeUserTemplate = template.Must(template.New("judge").Parse(`Term: {{.Term}} ({{.Language}})
Reference translation: {{.Translation}}
Target language: Russian
Rarity: {{.Rarity}}
Player's answer: {{.Answer}}`))

func buildJudgeMessage(term terms.Term, answer string) (string, error) {
	var buf bytes.Buffer
	err := judgeUserTemplate.Execute(&buf, map[string]string{
		"Term":        term.Term,
		"Translation": term.Translation,
		"Language":    term.LangDisplayName(),
		"Rarity":      term.Rarity.DisplayName(),
		"Answer":      answer,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
