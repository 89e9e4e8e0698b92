package consensus

import (
	"fmt"
	"strings"
)

// Phase identifies which pipeline step a set of votes belongs to. Both phases
// share the voting algorithm and differ only in what the item and label are.
type Phase string

const (
	// PhaseUmbrella maps individual traits onto umbrella labels.
	PhaseUmbrella Phase = "umbrella"
	// PhaseCategory maps umbrella labels onto final categories.
	PhaseCategory Phase = "category"
)

// ItemColumn names the column holding the item key.
func (p Phase) ItemColumn() string {
	if p == PhaseCategory {
		return "umbrella"
	}
	return "trait"
}

// LabelColumn names the column holding the consensus label.
func (p Phase) LabelColumn() string {
	if p == PhaseCategory {
		return "final_category"
	}
	return "umbrella"
}

// ParsePhase accepts the phase name or its pipeline number (2 or 3).
func ParsePhase(value string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "umbrella", "trait", "2", "phase2":
		return PhaseUmbrella, nil
	case "category", "3", "phase3":
		return PhaseCategory, nil
	default:
		return "", fmt.Errorf("unknown phase %q (want umbrella or category)", value)
	}
}
