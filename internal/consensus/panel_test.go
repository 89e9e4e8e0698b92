package consensus

import (
	"errors"
	"testing"
)

func TestNewPanel(t *testing.T) {
	p, err := NewPanel([]string{"claude", "gpt5", "gemini"})
	if err != nil {
		t.Fatalf("NewPanel: %v", err)
	}
	if p.Size() != 3 || !p.Contains("gpt5") || p.Contains("grok") {
		t.Fatalf("unexpected panel: %v", p.Sources())
	}
	sources := p.Sources()
	sources[0] = "mutated"
	if p.Sources()[0] != "claude" {
		t.Fatal("Sources must return a copy")
	}
}

func TestNewPanelRejectsInvalid(t *testing.T) {
	for name, sources := range map[string][]string{
		"empty":     nil,
		"blank":     {"claude", " "},
		"duplicate": {"claude", "gpt5", "claude"},
	} {
		if _, err := NewPanel(sources); !errors.Is(err, ErrInvalidPanel) {
			t.Errorf("%s: expected ErrInvalidPanel, got %v", name, err)
		}
	}
}

func TestParsePhase(t *testing.T) {
	for in, want := range map[string]Phase{
		"umbrella": PhaseUmbrella,
		"2":        PhaseUmbrella,
		"Category": PhaseCategory,
		"phase3":   PhaseCategory,
	} {
		got, err := ParsePhase(in)
		if err != nil || got != want {
			t.Errorf("ParsePhase(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParsePhase("4"); err == nil {
		t.Fatal("expected error for unknown phase")
	}
	if PhaseUmbrella.ItemColumn() != "trait" || PhaseUmbrella.LabelColumn() != "umbrella" {
		t.Fatal("unexpected umbrella phase columns")
	}
	if PhaseCategory.ItemColumn() != "umbrella" || PhaseCategory.LabelColumn() != "final_category" {
		t.Fatal("unexpected category phase columns")
	}
}
