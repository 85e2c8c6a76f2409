package periodogram

import (
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"lcfit/domain/core"
	"lcfit/domain/lightcurve"
	"lcfit/internal/robust"
)

const (
	defaultPhaseBins = 10
	defaultMagBins   = 5
)

// ConditionalEntropy sweeps candidate periods from minPeriod to
// maxPeriod by precision and returns the one minimizing the normalized
// conditional entropy of the phased, magnitude-normalized data. It
// uses the default 10x5 phase/magnitude binning; candidate
// evaluations run on up to workers goroutines.
func ConditionalEntropy(obs []lightcurve.Observation, precision, minPeriod, maxPeriod float64,
	minCount, maxCount, workers int) ([]float64, error) {
	return conditionalEntropy(obs, precision, minPeriod, maxPeriod,
		minCount, maxCount, workers, defaultPhaseBins, defaultMagBins)
}

// ConditionalEntropyWith returns a conditional-entropy estimator with
// custom phase/magnitude bin counts.
func ConditionalEntropyWith(phaseBins, magBins int) func(obs []lightcurve.Observation,
	precision, minPeriod, maxPeriod float64, minCount, maxCount, workers int) ([]float64, error) {
	return func(obs []lightcurve.Observation, precision, minPeriod, maxPeriod float64,
		minCount, maxCount, workers int) ([]float64, error) {
		return conditionalEntropy(obs, precision, minPeriod, maxPeriod,
			minCount, maxCount, workers, phaseBins, magBins)
	}
}

func conditionalEntropy(obs []lightcurve.Observation, precision, minPeriod, maxPeriod float64,
	minCount, maxCount, workers, phaseBins, magBins int) ([]float64, error) {
	if minCount != 1 || maxCount != 1 {
		return nil, core.NewUnsupportedConfigError("conditional-entropy", "can only find one period")
	}
	if precision <= 0 {
		return nil, core.ErrInvalidPrecision
	}
	if len(obs) == 0 {
		return nil, core.ErrEmptyDataset
	}

	times := make([]float64, len(obs))
	mags := make([]float64, len(obs))
	for i, o := range obs {
		times[i] = o.Time
		mags[i] = o.Mag
	}
	normed := robust.Normalize(mags)

	var periods []float64
	for p := minPeriod; p < maxPeriod; p += precision {
		periods = append(periods, p)
	}
	if len(periods) == 0 {
		return []float64{minPeriod}, nil
	}

	entropies := make([]float64, len(periods))
	if workers <= 1 {
		for i, p := range periods {
			entropies[i] = binnedEntropy(times, normed, p, phaseBins, magBins)
		}
	} else {
		// Each candidate reads the shared columns and writes only its
		// own slot, so the sweep needs no locking.
		var g errgroup.Group
		g.SetLimit(workers)
		for i, p := range periods {
			i, p := i, p
			g.Go(func() error {
				entropies[i] = binnedEntropy(times, normed, p, phaseBins, magBins)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	best := floats.MinIdx(entropies)
	return []float64{periods[best]}, nil
}

// binnedEntropy computes the conditional entropy of the (phase,
// magnitude) distribution for one candidate period. Non-positive
// periods score +Inf and are always rejected.
func binnedEntropy(times, normedMags []float64, period float64, phaseBins, magBins int) float64 {
	if period <= 0 {
		return math.Inf(1)
	}
	n := len(times)
	if n == 0 {
		return math.Inf(1)
	}

	counts := make([]float64, phaseBins*magBins)
	for i, t := range times {
		pi := binIndex(lightcurve.PhaseOne(t, period, 0), phaseBins)
		mi := binIndex(normedMags[i], magBins)
		counts[pi*magBins+mi]++
	}

	size := float64(n)
	colSums := make([]float64, magBins)
	for i := 0; i < phaseBins; i++ {
		for j := 0; j < magBins; j++ {
			colSums[j] += counts[i*magBins+j] / size
		}
	}

	var h float64
	for i := 0; i < phaseBins; i++ {
		for j := 0; j < magBins; j++ {
			p := counts[i*magBins+j] / size
			if p > 0 {
				h += p * math.Log(colSums[j]/p)
			}
		}
	}
	return h
}

// binIndex maps a value in [0,1] to a bin, with the upper edge folded
// into the last bin.
func binIndex(v float64, bins int) int {
	idx := int(v * float64(bins))
	if idx >= bins {
		idx = bins - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
