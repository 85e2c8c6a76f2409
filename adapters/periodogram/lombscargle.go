// Package periodogram implements period estimation for irregularly
// sampled photometry: a least-squares spectral estimator
// (Lomb-Scargle), a phase-binned conditional-entropy estimator, and a
// coarse-then-fine search wrapper around either.
package periodogram

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"lcfit/domain/core"
	"lcfit/domain/lightcurve"
	"lcfit/internal/robust"
)

// LombScargle evaluates the least-squares spectral power over angular
// frequencies swept from 2π/maxPeriod to 2π/minPeriod in steps of
// precision, and returns the period of maximum power. It supports
// exactly one period and no internal concurrency.
func LombScargle(obs []lightcurve.Observation, precision, minPeriod, maxPeriod float64,
	minCount, maxCount, workers int) ([]float64, error) {
	if minCount != 1 || maxCount != 1 {
		return nil, core.NewUnsupportedConfigError("lomb-scargle", "can only find one period")
	}
	if workers > 1 {
		return nil, core.NewUnsupportedConfigError("lomb-scargle", "can only use one worker")
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
	scaled := robust.Standardize(mags)

	minFreq := 2 * math.Pi / maxPeriod
	maxFreq := 2 * math.Pi / minPeriod

	var freqs, power []float64
	for w := minFreq; w < maxFreq; w += precision {
		freqs = append(freqs, w)
		power = append(power, scarglePower(times, scaled, w))
	}
	if len(freqs) == 0 {
		// Degenerate sweep window; the lone candidate is its lower edge.
		return []float64{maxPeriod}, nil
	}

	best := floats.MaxIdx(power)
	return []float64{2 * math.Pi / freqs[best]}, nil
}

// scarglePower computes the classic Scargle power at angular frequency
// w, using the time offset tau that makes the sinusoid basis
// orthogonal over the sample times.
func scarglePower(times, mags []float64, w float64) float64 {
	var s2, c2 float64
	for _, t := range times {
		s2 += math.Sin(2 * w * t)
		c2 += math.Cos(2 * w * t)
	}
	tau := math.Atan2(s2, c2) / (2 * w)

	var yc, ys, cc, ss float64
	for i, t := range times {
		c := math.Cos(w * (t - tau))
		s := math.Sin(w * (t - tau))
		yc += mags[i] * c
		ys += mags[i] * s
		cc += c * c
		ss += s * s
	}

	var p float64
	if cc > 0 {
		p += yc * yc / cc
	}
	if ss > 0 {
		p += ys * ys / ss
	}
	return 0.5 * p
}
