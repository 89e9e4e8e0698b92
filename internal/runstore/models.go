package runstore

import (
	"time"

	"traitvote/internal/consensus"
)

// Run describes one persisted aggregation.
type Run struct {
	ID        string          `json:"id"`
	Phase     consensus.Phase `json:"phase"`
	Panel     []string        `json:"panel"`
	Source    string          `json:"source,omitempty"`
	ItemCount int             `json:"item_count"`
	High      int             `json:"green"`
	Medium    int             `json:"yellow"`
	Low       int             `json:"red"`
	CreatedAt time.Time       `json:"created_at"`
}

// Summary reconstructs the tier breakdown recorded with the run.
func (r Run) Summary() consensus.Summary {
	tiers := make([]consensus.Tier, 0, r.ItemCount)
	for range r.High {
		tiers = append(tiers, consensus.TierHigh)
	}
	for range r.Medium {
		tiers = append(tiers, consensus.TierMedium)
	}
	for range r.Low {
		tiers = append(tiers, consensus.TierLow)
	}
	summary, err := consensus.SummarizeTiers(tiers)
	if err != nil {
		return consensus.Summary{}
	}
	return summary
}

type storedVote struct {
	Source  string `json:"source"`
	Label   string `json:"label,omitempty"`
	Present bool   `json:"present"`
}
