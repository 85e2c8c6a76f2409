package ports

import (
	"gonum.org/v1/gonum/mat"
)

// Metric identifies a fit quality scoring method.
type Metric string

const (
	// MetricR2 scores fits by the coefficient of determination.
	MetricR2 Metric = "r2"
	// MetricMSE scores fits by mean squared error.
	MetricMSE Metric = "mse"
)

// Regressor solves a design matrix against targets. Implementations
// must be usable for repeated Fit calls; each Fit discards the
// previous solution. A numerically degenerate fit returns an error
// wrapping core.ErrNonConvergence.
type Regressor interface {
	Fit(features *mat.Dense, targets []float64) error
	Predict(features *mat.Dense) []float64
	Coefficients() []float64
	// Clone returns an unfitted copy with the same configuration, so
	// selectors can evaluate candidates independently.
	Clone() Regressor
}

// Predictor is a fit/predict capability over raw (time, magnitude)
// columns. Pipelines phase the times internally, so SetPeriod must be
// called before Fit whenever the period changes.
type Predictor interface {
	Fit(times, mags []float64) error
	Predict(times []float64) []float64
	SetPeriod(period float64)
	Degree() int
	Coefficients() []float64
	// Clone returns an unfitted copy with the same configuration, so
	// cross-validation can refit candidates without disturbing the
	// original.
	Clone() Predictor
}

// ModelSelector is a Predictor that searches over candidate
// sub-models during Fit and afterwards exposes the winner.
type ModelSelector interface {
	Predictor
	BestPredictor() Predictor
	BestScore() float64
	ScoringMetric() Metric
}

// ScaleEstimator maps residuals to a robust noise scale, e.g. the
// median absolute deviation.
type ScaleEstimator func(residuals []float64) float64
