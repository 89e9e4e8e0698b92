package consensus

// Tally counts the votes and returns the plurality label with its count.
//
// When several labels share the highest count, the label whose first
// occurrence comes earliest in votes wins. Callers pass votes in panel order,
// so ties resolve to the earliest panel source.
func Tally(votes []string) (string, int, error) {
	if len(votes) == 0 {
		return "", 0, ErrNoVotes
	}
	counts := make(map[string]int, len(votes))
	order := make([]string, 0, len(votes))
	for _, vote := range votes {
		if _, seen := counts[vote]; !seen {
			order = append(order, vote)
		}
		counts[vote]++
	}

	best, bestCount := order[0], counts[order[0]]
	for _, label := range order[1:] {
		// strict comparison keeps the earlier label on ties
		if counts[label] > bestCount {
			best, bestCount = label, counts[label]
		}
	}
	return best, bestCount, nil
}
