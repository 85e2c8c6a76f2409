package regression

import (
	"math"
	"sort"

	"lcfit/domain/lightcurve"
	"lcfit/internal/robust"
	"lcfit/ports"
)

// Pipeline composes the phase transform, the Fourier feature stage and
// a regression backend into a single fit/predict capability over raw
// (time, magnitude) columns. The period must be set before Fit
// whenever it changes; phases are recomputed on every call and never
// cached.
type Pipeline struct {
	fourier   *Fourier
	regressor ports.Regressor
	period    float64

	// baart, when set, replaces the fixed degree with Baart's
	// stopping rule over [DegreeLow, DegreeHigh] during Fit.
	baart *BaartRule
}

// BaartRule grows the Fourier degree until the lag-1 autocorrelation
// of the phase-ordered residuals drops below Baart's cutoff
// 1/sqrt(2(n-1)), or the upper bound is reached.
type BaartRule struct {
	DegreeLow  int
	DegreeHigh int
}

// NewPipeline builds a fixed-degree pipeline around the given backend.
// The period defaults to 1, which leaves already-phased inputs
// untouched.
func NewPipeline(degree int, regressor ports.Regressor) *Pipeline {
	return &Pipeline{
		fourier:   NewFourier(degree),
		regressor: regressor,
		period:    1.0,
	}
}

// NewBaartPipeline builds a pipeline whose degree is chosen by Baart's
// rule on every Fit.
func NewBaartPipeline(degreeLow, degreeHigh int, regressor ports.Regressor) *Pipeline {
	p := NewPipeline(degreeLow, regressor)
	p.baart = &BaartRule{DegreeLow: degreeLow, DegreeHigh: degreeHigh}
	return p
}

// SetPeriod sets the period used to phase times on Fit and Predict.
func (p *Pipeline) SetPeriod(period float64) { p.period = period }

// Degree returns the Fourier degree currently in effect.
func (p *Pipeline) Degree() int { return p.fourier.Degree() }

// SetDegree overrides the Fourier degree.
func (p *Pipeline) SetDegree(degree int) { p.fourier.SetDegree(degree) }

// Coefficients returns the backend's fitted coefficient vector.
func (p *Pipeline) Coefficients() []float64 { return p.regressor.Coefficients() }

// Clone returns an unfitted predictor with the same configuration.
func (p *Pipeline) Clone() ports.Predictor { return p.clone() }

func (p *Pipeline) clone() *Pipeline {
	out := &Pipeline{
		fourier:   NewFourier(p.fourier.Degree()),
		regressor: p.regressor.Clone(),
		period:    p.period,
	}
	if p.baart != nil {
		rule := *p.baart
		out.baart = &rule
	}
	return out
}

// withDegree returns an unfitted fixed-degree copy, used by selector
// sweeps.
func (p *Pipeline) withDegree(degree int) *Pipeline {
	out := p.clone()
	out.baart = nil
	out.SetDegree(degree)
	return out
}

// Fit phases the times, builds the Fourier design matrix and fits the
// backend. In Baart mode the degree is selected first.
func (p *Pipeline) Fit(times, mags []float64) error {
	phases := lightcurve.Phase(times, p.period, 0)
	if p.baart != nil {
		degree, err := p.baartDegree(phases, mags)
		if err != nil {
			return err
		}
		p.fourier.SetDegree(degree)
	}
	return p.regressor.Fit(p.fourier.Transform(phases), mags)
}

// Predict phases the times and applies the fitted model.
func (p *Pipeline) Predict(times []float64) []float64 {
	phases := lightcurve.Phase(times, p.period, 0)
	return p.regressor.Predict(p.fourier.Transform(phases))
}

// baartDegree walks degrees upward and stops at the first whose
// residuals look like noise under the autocorrelation cutoff.
func (p *Pipeline) baartDegree(phases, mags []float64) (int, error) {
	n := len(phases)
	if n < 2 {
		return p.baart.DegreeLow, nil
	}
	cutoff := 1.0 / math.Sqrt(2.0*float64(n-1))

	// Residual ordering matters for the autocorrelation, so evaluate
	// in phase order.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return phases[order[a]] < phases[order[b]] })

	trial := NewFourier(p.baart.DegreeLow)
	for degree := p.baart.DegreeLow; degree <= p.baart.DegreeHigh; degree++ {
		trial.SetDegree(degree)
		backend := p.regressor.Clone()
		if err := backend.Fit(trial.Transform(phases), mags); err != nil {
			return 0, err
		}
		pred := backend.Predict(trial.Transform(phases))

		resid := make([]float64, n)
		for i, idx := range order {
			resid[i] = mags[idx] - pred[idx]
		}
		if math.Abs(robust.Autocorrelation(resid, 1)) <= cutoff {
			return degree, nil
		}
	}
	return p.baart.DegreeHigh, nil
}
