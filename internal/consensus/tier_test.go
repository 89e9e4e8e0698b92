package consensus

import (
	"errors"
	"testing"
)

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		count int
		want  Tier
	}{
		{5, TierHigh},
		{4, TierHigh},
		{3, TierMedium},
		{2, TierLow},
		{1, TierLow},
	}
	for _, tt := range tests {
		got, err := Classify(tt.count)
		if err != nil {
			t.Fatalf("Classify(%d) returned error: %v", tt.count, err)
		}
		if got != tt.want {
			t.Errorf("Classify(%d) = %s, want %s", tt.count, got, tt.want)
		}
	}
	if _, err := Classify(0); !errors.Is(err, ErrNoVotes) {
		t.Fatalf("Classify(0) should fail with ErrNoVotes, got %v", err)
	}
}

func TestTierGlyphs(t *testing.T) {
	if TierHigh.Glyph() != "🟢" || TierMedium.Glyph() != "🟡" || TierLow.Glyph() != "🔴" {
		t.Fatalf("unexpected glyphs: %s %s %s", TierHigh.Glyph(), TierMedium.Glyph(), TierLow.Glyph())
	}
	text, err := TierMedium.MarshalText()
	if err != nil || string(text) != "🟡" {
		t.Fatalf("MarshalText = %q, %v", text, err)
	}
}

func TestParseTier(t *testing.T) {
	tests := map[string]Tier{
		"🟢":      TierHigh,
		" 🟡 ":    TierMedium,
		"🔴":      TierLow,
		"HIGH":   TierHigh,
		"medium": TierMedium,
		"Low":    TierLow,
		"green":  TierHigh,
		"Yellow": TierMedium,
		"red":    TierLow,
	}
	for in, want := range tests {
		got, err := ParseTier(in)
		if err != nil {
			t.Fatalf("ParseTier(%q) returned error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseTier(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := ParseTier("amber"); err == nil {
		t.Fatal("expected error for unknown tier")
	}

	var tier Tier
	if err := tier.UnmarshalText([]byte("🟢")); err != nil || tier != TierHigh {
		t.Fatalf("UnmarshalText = %s, %v", tier, err)
	}
}
