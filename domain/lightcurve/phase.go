package lightcurve

import (
	"math"

	"lcfit/domain/core"
)

// Phase maps time values onto phase in [0,1) for the given period,
// subtracting a constant shift: phase = (t/period - shift) mod 1.
// Pure and total for any non-zero period; panics with
// core.ErrZeroPeriod when period is zero, since that is a caller
// contract violation rather than a recoverable condition.
func Phase(times []float64, period, shift float64) []float64 {
	if period == 0 {
		panic(core.ErrZeroPeriod)
	}
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = PhaseOne(t, period, shift)
	}
	return out
}

// PhaseOne phases a single time value. See Phase.
func PhaseOne(t, period, shift float64) float64 {
	if period == 0 {
		panic(core.ErrZeroPeriod)
	}
	p := math.Mod(t/period-shift, 1.0)
	if p < 0 {
		p += 1.0
	}
	return p
}

// Rephase returns a copy of the dataset with the time column replaced
// by phase values for the given period and shift. The input dataset is
// never mutated.
func Rephase(d Dataset, period, shift float64) Dataset {
	out := Dataset{
		Observations: make([]Observation, len(d.Observations)),
		HasErrors:    d.HasErrors,
	}
	for i, o := range d.Observations {
		o.Time = PhaseOne(o.Time, period, shift)
		out.Observations[i] = o
	}
	return out
}

// PhaseCoverage returns the fraction of the phase interval [0,1),
// split into bins equal subintervals, containing at least one of the
// given phase values.
func PhaseCoverage(phases []float64, bins int) float64 {
	if bins <= 0 || len(phases) == 0 {
		return 0
	}
	seen := make([]bool, bins)
	for _, p := range phases {
		idx := int(math.Floor(p * float64(bins)))
		if idx >= bins {
			idx = bins - 1
		}
		seen[idx] = true
	}
	covered := 0
	for _, b := range seen {
		if b {
			covered++
		}
	}
	return float64(covered) / float64(bins)
}
