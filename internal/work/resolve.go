package work

import "math"

// Breakdown holds the hour figures derived from one shift.
type Breakdown struct {
	RawHours      float64
	BreakTotal    float64
	NetHours      float64
	RegularHours  float64
	OvertimeHours float64
	AdditionalOT  float64
}

// Resolve subtracts breaks from the raw shift and splits the remainder into
// regular and overtime hours. Declared additional overtime is added on top.
func Resolve(rawHours float64, breaks []float64, additionalOT float64, p Policy) (Breakdown, error) {
	if !nonNegative(rawHours) || !nonNegative(additionalOT) {
		return Breakdown{}, ErrNegativeHours
	}
	for _, b := range breaks {
		if !nonNegative(b) {
			return Breakdown{}, ErrNegativeHours
		}
	}

	breakTotal := sum(breaks)
	if breakTotal > rawHours+tolerance {
		return Breakdown{}, &InvalidBreakError{BreakTotal: breakTotal, RawDuration: rawHours}
	}
	net := math.Max(rawHours-breakTotal, 0)

	standard := p.EffectiveShiftHours()
	return Breakdown{
		RawHours:      rawHours,
		BreakTotal:    breakTotal,
		NetHours:      net,
		RegularHours:  math.Min(net, standard),
		OvertimeHours: math.Max(net-standard, 0) + additionalOT,
		AdditionalOT:  additionalOT,
	}, nil
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
