package consensus

import (
	"fmt"

	"traitvote/internal/textutil"
)

// Summary counts verdicts per confidence tier. Percentages are rounded to one
// decimal place, ties to even, and are relative to Total.
type Summary struct {
	Total     int     `json:"total"`
	High      int     `json:"green"`
	HighPct   float64 `json:"green_pct"`
	Medium    int     `json:"yellow"`
	MediumPct float64 `json:"yellow_pct"`
	Low       int     `json:"red"`
	LowPct    float64 `json:"red_pct"`
}

// Count returns the number of verdicts in tier t.
func (s Summary) Count(t Tier) int {
	switch t {
	case TierHigh:
		return s.High
	case TierMedium:
		return s.Medium
	default:
		return s.Low
	}
}

// Percent returns the share of verdicts in tier t.
func (s Summary) Percent(t Tier) float64 {
	switch t {
	case TierHigh:
		return s.HighPct
	case TierMedium:
		return s.MediumPct
	default:
		return s.LowPct
	}
}

// Summarize tallies the tiers of a verdict collection.
func Summarize(verdicts []Verdict) (Summary, error) {
	return SummarizeFunc(verdicts, func(v Verdict) Tier { return v.Tier })
}

// SummarizeTiers tallies a plain list of tiers.
func SummarizeTiers(tiers []Tier) (Summary, error) {
	return SummarizeFunc(tiers, func(t Tier) Tier { return t })
}

// SummarizeFunc tallies rows of any shape; tierOf selects the tier field.
func SummarizeFunc[T any](rows []T, tierOf func(T) Tier) (Summary, error) {
	tiers := make([]Tier, len(rows))
	for i, row := range rows {
		tiers[i] = tierOf(row)
	}
	return SummarizeRows(tiers, len(rows))
}

// SummarizeRows tallies tiers against a total that may include rows carrying
// no tier at all. Such rows count toward Total and every percentage, but to
// no tier.
func SummarizeRows(tiers []Tier, total int) (Summary, error) {
	if total <= 0 {
		return Summary{}, ErrEmptyResults
	}
	if len(tiers) > total {
		return Summary{}, fmt.Errorf("%d tiers exceed %d rows", len(tiers), total)
	}
	s := Summary{Total: total}
	for _, t := range tiers {
		switch t {
		case TierHigh:
			s.High++
		case TierMedium:
			s.Medium++
		default:
			s.Low++
		}
	}
	s.HighPct = textutil.Percent(s.High, s.Total)
	s.MediumPct = textutil.Percent(s.Medium, s.Total)
	s.LowPct = textutil.Percent(s.Low, s.Total)
	return s, nil
}
