package regression

import (
	"math"

	"golang.org/x/sync/errgroup"

	"lcfit/domain/core"
	"lcfit/ports"
)

// GridSearch wraps a pipeline in a model-selection sweep over an
// explicit integer degree range, scoring each candidate by k-fold
// cross validation and refitting the winner on the full data. Ties
// resolve to the lowest degree.
type GridSearch struct {
	base       *Pipeline
	degreeLow  int
	degreeHigh int
	metric     ports.Metric
	folds      int
	workers    int

	best      *Pipeline
	bestScore float64
}

// NewGridSearch builds a selector over [degreeLow, degreeHigh].
func NewGridSearch(base *Pipeline, degreeLow, degreeHigh int, metric ports.Metric, folds, workers int) (*GridSearch, error) {
	if degreeLow < 0 || degreeHigh < degreeLow {
		return nil, core.ErrDegreeBounds
	}
	return &GridSearch{
		base:       base,
		degreeLow:  degreeLow,
		degreeHigh: degreeHigh,
		metric:     metric,
		folds:      folds,
		workers:    workers,
	}, nil
}

// SetPeriod propagates the period to the candidate template and to the
// fitted winner, when present.
func (g *GridSearch) SetPeriod(period float64) {
	g.base.SetPeriod(period)
	if g.best != nil {
		g.best.SetPeriod(period)
	}
}

// Fit evaluates every candidate degree and refits the best one on the
// full data. Candidate evaluations run on up to the configured number
// of workers; the selection is independent of the worker count.
func (g *GridSearch) Fit(times, mags []float64) error {
	count := g.degreeHigh - g.degreeLow + 1
	candidates := make([]*Pipeline, count)
	scores := make([]float64, count)

	eval := func(i int) error {
		candidates[i] = g.base.withDegree(g.degreeLow + i)
		score, err := CrossValScore(candidates[i], times, mags, g.folds, g.metric, 1)
		if err != nil {
			return err
		}
		scores[i] = score
		return nil
	}

	if g.workers <= 1 {
		for i := 0; i < count; i++ {
			if err := eval(i); err != nil {
				return err
			}
		}
	} else {
		var eg errgroup.Group
		eg.SetLimit(g.workers)
		for i := 0; i < count; i++ {
			i := i
			eg.Go(func() error { return eval(i) })
		}
		if err := eg.Wait(); err != nil {
			return err
		}
	}

	bestIdx := 0
	bestScore := math.Inf(-1)
	for i, s := range scores {
		if s > bestScore {
			bestScore = s
			bestIdx = i
		}
	}

	winner := candidates[bestIdx]
	if err := winner.Fit(times, mags); err != nil {
		return err
	}
	g.best = winner
	g.bestScore = bestScore
	return nil
}

// Predict applies the best-found pipeline.
func (g *GridSearch) Predict(times []float64) []float64 {
	return g.best.Predict(times)
}

// Degree returns the selected Fourier degree.
func (g *GridSearch) Degree() int {
	if g.best != nil {
		return g.best.Degree()
	}
	return g.base.Degree()
}

// Coefficients returns the best pipeline's fitted coefficients.
func (g *GridSearch) Coefficients() []float64 {
	if g.best == nil {
		return nil
	}
	return g.best.Coefficients()
}

// BestPredictor returns the winning pipeline after Fit.
func (g *GridSearch) BestPredictor() ports.Predictor {
	if g.best == nil {
		return nil
	}
	return g.best
}

// BestScore returns the winning cross-validation score
// (greater-is-better; negative MSE under MetricMSE).
func (g *GridSearch) BestScore() float64 { return g.bestScore }

// ScoringMetric returns the metric that produced BestScore.
func (g *GridSearch) ScoringMetric() ports.Metric { return g.metric }

// Clone returns an unfitted selector with the same configuration.
func (g *GridSearch) Clone() ports.Predictor {
	return &GridSearch{
		base:       g.base.clone(),
		degreeLow:  g.degreeLow,
		degreeHigh: g.degreeHigh,
		metric:     g.metric,
		folds:      g.folds,
		workers:    g.workers,
	}
}
