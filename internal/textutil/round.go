package textutil

import "strconv"

// RoundTenths rounds v to one decimal place. Ties are broken on the exact
// binary value, half to even, so 6.25 becomes 6.2 and 0.35 (stored slightly
// below) becomes 0.3.
func RoundTenths(v float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}

// Percent returns part/total as a percentage rounded with RoundTenths. A
// non-positive total yields 0.
func Percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return RoundTenths(float64(part) / float64(total) * 100)
}
