package consensus

import "strconv"

// Resolution is the outcome of voting on a single item.
type Resolution struct {
	Label     string
	Agreement int
	Cast      int
	Tier      Tier
}

// Ratio renders the agreement as "agreement/cast", e.g. "4/5". The
// denominator is the number of votes actually cast, not the panel size.
func (r Resolution) Ratio() string {
	return strconv.Itoa(r.Agreement) + "/" + strconv.Itoa(r.Cast)
}

// Resolve tallies the present votes for one item and grades the agreement.
func Resolve(votes []string) (Resolution, error) {
	label, count, err := Tally(votes)
	if err != nil {
		return Resolution{}, err
	}
	tier, err := Classify(count)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{
		Label:     label,
		Agreement: count,
		Cast:      len(votes),
		Tier:      tier,
	}, nil
}
