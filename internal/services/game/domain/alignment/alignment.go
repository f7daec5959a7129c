// Package alignment models the bounded good/evil axis for characters.
package alignment

// Min and Max bound the alignment axis. Values outside the range are
// clamped, never rejected.
const (
	Min = -1000
	Max = 1000
)

// Band classifies an alignment value for kill-policy purposes.
type Band string

const (
	// BandEvil covers values below the neutral range.
	BandEvil Band = "evil"
	// BandNeutral covers the inclusive neutral range.
	BandNeutral Band = "neutral"
	// BandGood covers values above the neutral range.
	BandGood Band = "good"
)

// Thresholds define the inclusive neutral range boundaries.
type Thresholds struct {
	// EvilMax is the highest value still considered evil.
	EvilMax int
	// GoodMin is the lowest value considered good.
	GoodMin int
}

// Clamp bounds a value to the alignment axis.
func Clamp(value int) int {
	if value < Min {
		return Min
	}
	if value > Max {
		return Max
	}
	return value
}

// BandFor classifies a value against the thresholds. Values at or below
// EvilMax are evil, values at or above GoodMin are good, and everything
// between is neutral.
func BandFor(value int, t Thresholds) Band {
	switch {
	case value <= t.EvilMax:
		return BandEvil
	case value >= t.GoodMin:
		return BandGood
	default:
		return BandNeutral
	}
}

// labelRange maps a display label to its inclusive value range.
type labelRange struct {
	min   int
	max   int
	label string
}

var labelRanges = []labelRange{
	{-1000, -667, "Pure Evil"},
	{-666, -334, "Evil"},
	{-333, 333, "Neutral"},
	{334, 666, "Good"},
	{667, 1000, "Pure Good"},
}

// Label returns the display label for an alignment value.
func Label(value int) string {
	value = Clamp(value)
	for _, r := range labelRanges {
		if value >= r.min && value <= r.max {
			return r.label
		}
	}
	return "Neutral"
}
