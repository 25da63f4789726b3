package judge

import "github.com/abhisek/lexicon/internal/llm"

// VerdictSchema defines the JSON schema for judge responses.
var VerdictSchema = &llm.Schema{
	Name:        "answer-verdict",
	Description: "Whether a learner's translation of a musical term is acceptable",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correct": map[string]any{
				"type":        "boolean",
				"description": "True if the answer conveys the meaning of the term",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "One short sentence explaining the verdict",
			},
		},
		"required":             []any{"correct", "explanation"},
		"additionalProperties": false,
	},
}
