package consensus

import (
	"fmt"
	"strings"
)

// Tier grades how strongly the panel agreed on a consensus label.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

// Fixed agreement thresholds for a five-source panel. They are not rescaled
// for other panel sizes: three of three agreeing is still TierMedium.
const (
	highAgreement   = 4
	mediumAgreement = 3
)

const (
	glyphHigh   = "🟢"
	glyphMedium = "🟡"
	glyphLow    = "🔴"
)

// Tiers lists every tier from strongest to weakest.
var Tiers = []Tier{TierHigh, TierMedium, TierLow}

// Classify maps the number of votes behind the consensus label to a tier.
func Classify(agreement int) (Tier, error) {
	switch {
	case agreement <= 0:
		return TierLow, ErrNoVotes
	case agreement >= highAgreement:
		return TierHigh, nil
	case agreement == mediumAgreement:
		return TierMedium, nil
	default:
		return TierLow, nil
	}
}

// Glyph returns the colored marker downstream consumers compare against.
func (t Tier) Glyph() string {
	switch t {
	case TierHigh:
		return glyphHigh
	case TierMedium:
		return glyphMedium
	default:
		return glyphLow
	}
}

// String returns the lowercase tier name.
func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	case TierLow:
		return "low"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// MarshalText encodes the tier as its glyph.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.Glyph()), nil
}

// UnmarshalText accepts a glyph or a tier name.
func (t *Tier) UnmarshalText(data []byte) error {
	parsed, err := ParseTier(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTier accepts a glyph ("🟢", "🟡", "🔴"), a tier name or a color name,
// case-insensitively.
func ParseTier(value string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case glyphHigh, "high", "green":
		return TierHigh, nil
	case glyphMedium, "medium", "yellow":
		return TierMedium, nil
	case glyphLow, "low", "red":
		return TierLow, nil
	default:
		return TierLow, fmt.Errorf("unknown confidence tier %q", value)
	}
}
