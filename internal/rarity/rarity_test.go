package rarity

import "testing"

func TestXP(t *testing.T) {
	tests := []struct {
		tier Tier
		want int
	}{
		{Common, 5},
		{Rare, 15},
		{Legendary, 50},
		{Mythical, 150},
		{"unknown", 0},
	}

	for _, tt := range tests {
		if got := tt.tier.XP(); got != tt.want {
			t.Errorf("Tier(%q).XP() = %d, want %d", tt.tier, got, tt.want)
		}
	}
}

func TestAll_OrderedByScarcity(t *testing.T) {
	tiers := All()
	if len(tiers) != 4 {
		t.Fatalf("expected 4 tiers, got %d", len(tiers))
	}
	for i := 1; i < len(tiers); i++ {
		if tiers[i-1].Rank() >= tiers[i].Rank() {
			t.Errorf("%s (rank %d) should rank below %s (rank %d)",
				tiers[i-1], tiers[i-1].Rank(), tiers[i], tiers[i].Rank())
		}
		if tiers[i-1].XP() >= tiers[i].XP() {
			t.Errorf("%s should award less XP than %s", tiers[i-1], tiers[i])
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		tier Tier
		want string
	}{
		{Common, "Common"},
		{Rare, "Rare"},
		{Legendary, "Legendary"},
		{Mythical, "Mythical"},
		{"unknown", "unknown"},
	}

	for _, tt := range tests {
		if got := tt.tier.DisplayName(); got != tt.want {
			t.Errorf("Tier(%q).DisplayName() = %q, want %q", tt.tier, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	if _, err := Parse("mythical"); err != nil {
		t.Fatalf("Parse(mythical): %v", err)
	}
	if _, err := Parse("epic"); err == nil {
		t.Fatal("expected error for unknown rarity")
	}
	if Tier("epic").Rank() != -1 {
		t.Fatal("unknown tier should rank -1")
	}
}
