package consensus

import (
	"fmt"
	"sort"

	"traitvote/internal/textutil"
)

// DefaultQuorum is the number of sources that must propose a category for it
// to enter the merged vocabulary.
const DefaultQuorum = 3

// ProposalCount is the support a normalized category received across sources.
type ProposalCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CountProposals normalizes every proposal and counts occurrences across all
// sources combined. A source proposing the same category twice counts twice.
// Results are sorted by count descending, then category.
func CountProposals(proposals map[string][]string) []ProposalCount {
	counts := make(map[string]int)
	for _, categories := range proposals {
		for _, category := range categories {
			counts[textutil.FoldProposal(category)]++
		}
	}
	out := make([]ProposalCount, 0, len(counts))
	for category, count := range counts {
		out = append(out, ProposalCount{Category: category, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// MergeProposals keeps every normalized category proposed at least quorum
// times and returns them sorted.
func MergeProposals(proposals map[string][]string, quorum int) ([]string, error) {
	if quorum < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuorum, quorum)
	}
	merged := make([]string, 0)
	for _, pc := range CountProposals(proposals) {
		if pc.Count >= quorum {
			merged = append(merged, pc.Category)
		}
	}
	sort.Strings(merged)
	return merged, nil
}

// NearMiss is a category that fell short of quorum but closely resembles one
// that was kept.
type NearMiss struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Resembles  string  `json:"resembles"`
	Similarity float64 `json:"similarity"`
}

// NearMisses reports sub-quorum categories whose token fingerprint has cosine
// similarity of at least threshold with a kept category. It is advisory only.
func NearMisses(counts []ProposalCount, kept []string, threshold float64) []NearMiss {
	if len(kept) == 0 || threshold <= 0 {
		return nil
	}
	keptSet := make(map[string]*textutil.Fingerprint, len(kept))
	for _, category := range kept {
		keptSet[category] = textutil.NewFingerprint(category)
	}

	var misses []NearMiss
	for _, pc := range counts {
		if _, ok := keptSet[pc.Category]; ok {
			continue
		}
		fp := textutil.NewFingerprint(pc.Category)
		if fp == nil {
			continue
		}
		var best NearMiss
		for _, category := range kept {
			score := textutil.CosineSimilarity(fp, keptSet[category])
			if score > best.Similarity {
				best = NearMiss{Category: pc.Category, Count: pc.Count, Resembles: category, Similarity: score}
			}
		}
		if best.Similarity >= threshold {
			misses = append(misses, best)
		}
	}
	sort.Slice(misses, func(i, j int) bool {
		return misses[i].Category < misses[j].Category
	})
	return misses
}
