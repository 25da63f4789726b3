package mode

import (
	"testing"
	"time"
)

func TestPolicies(t *testing.T) {
	tests := []struct {
		mode   Mode
		choice bool
		timed  bool
		budget time.Duration
	}{
		{Quiz, true, false, 30 * time.Second},
		{Bomber, true, true, 10 * time.Second},
		{Hard, false, false, 30 * time.Second},
		{Matching, true, false, 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			if got := tt.mode.IsChoiceBased(); got != tt.choice {
				t.Errorf("IsChoiceBased() = %v, want %v", got, tt.choice)
			}
			if got := tt.mode.IsTimed(); got != tt.timed {
				t.Errorf("IsTimed() = %v, want %v", got, tt.timed)
			}
			if got := tt.mode.Budget(); got != tt.budget {
				t.Errorf("Budget() = %v, want %v", got, tt.budget)
			}
		})
	}
}

func TestParse(t *testing.T) {
	for _, m := range All() {
		got, err := Parse(string(m))
		if err != nil || got != m {
			t.Errorf("Parse(%q) = %q, %v", m, got, err)
		}
	}
	if _, err := Parse("blitz"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestBomberSeconds(t *testing.T) {
	if got := Bomber.Seconds(); got != 10 {
		t.Errorf("Bomber.Seconds() = %d, want 10", got)
	}
}
