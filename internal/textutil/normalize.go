package textutil

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// edgePunctuation is stripped from both ends of a normalized label.
const edgePunctuation = ".,;:"

// lower builds a fresh Caser per call; Casers are stateful and the
// aggregator may normalize from several goroutines.
func lower(value string) string {
	return cases.Lower(language.Und).String(value)
}

// FoldProposal lower-cases and trims a proposed category name. It is the unit
// of comparison when merging proposals across sources.
func FoldProposal(value string) string {
	return strings.TrimSpace(lower(value))
}

// NormalizeLabel lower-cases value, trims it, collapses runs of whitespace to
// a single space and strips leading/trailing ".,;:".
func NormalizeLabel(value string) string {
	normalized := strings.Join(strings.Fields(lower(value)), " ")
	return strings.Trim(normalized, edgePunctuation)
}

// DedupeStats describes the effect of Deduplicate.
type DedupeStats struct {
	Initial      int     `json:"initial_count"`
	Final        int     `json:"final_count"`
	Removed      int     `json:"removed"`
	ReductionPct float64 `json:"reduction_pct"`
}

// Deduplicate normalizes values, drops blanks and exact duplicates, and
// returns the survivors sorted.
func Deduplicate(values []string) ([]string, DedupeStats) {
	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))
	for _, value := range values {
		normalized := NormalizeLabel(value)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		unique = append(unique, normalized)
	}
	sort.Strings(unique)

	stats := DedupeStats{
		Initial: len(values),
		Final:   len(unique),
		Removed: len(values) - len(unique),
	}
	stats.ReductionPct = Percent(stats.Removed, stats.Initial)
	return unique, stats
}
