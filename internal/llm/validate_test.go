package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid verdict", `{"correct":true,"explanation":"synonym"}`, false},
		{"missing explanation", `{"correct":true}`, true},
		{"wrong type", `{"correct":"yes","explanation":""}`, true},
		{"extra field", `{"correct":false,"explanation":"","score":3}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(verdictSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("expected ErrInvalidResponse, got: %T", err)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`plain text`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestCompiledSchema_Cached(t *testing.T) {
	s := verdictSchema()
	s.Name = "cache-check"
	a, err := compiledSchema(s)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	b, err := compiledSchema(s)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if a != b {
		t.Fatal("expected cached schema to be reused")
	}
}
