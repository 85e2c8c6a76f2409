package regression

import (
	"lcfit/ports"
)

// PredictorConfig controls how MakePredictor assembles the fitting
// pipeline.
type PredictorConfig struct {
	// Regressor is the regression backend; nil selects the default
	// lasso with AIC strength selection.
	Regressor ports.Regressor
	// DegreeLow and DegreeHigh bound the Fourier degree search.
	DegreeLow  int
	DegreeHigh int
	// Metric scores selector candidates.
	Metric ports.Metric
	// Folds is the cross-validation fold count used for scoring.
	Folds int
	// UseBaart switches from grid-search selection to Baart's
	// adaptive-degree rule inside the pipeline.
	UseBaart bool
	// SelectorWorkers bounds concurrent candidate evaluation.
	SelectorWorkers int
}

// DefaultPredictorConfig mirrors the standard fitting setup: lasso
// backend, degrees 2 through 25, R² scoring over 3 folds.
func DefaultPredictorConfig() PredictorConfig {
	return PredictorConfig{
		DegreeLow:       2,
		DegreeHigh:      25,
		Metric:          ports.MetricR2,
		Folds:           3,
		SelectorWorkers: 1,
	}
}

// MakePredictor builds the two-stage Fourier/regression pipeline,
// wrapped in a grid-search selector unless Baart mode is requested.
func MakePredictor(cfg PredictorConfig) (ports.Predictor, error) {
	backend := cfg.Regressor
	if backend == nil {
		backend = NewLassoIC()
	}
	if cfg.UseBaart {
		return NewBaartPipeline(cfg.DegreeLow, cfg.DegreeHigh, backend), nil
	}
	base := NewPipeline(cfg.DegreeLow, backend)
	return NewGridSearch(base, cfg.DegreeLow, cfg.DegreeHigh, cfg.Metric, cfg.Folds, cfg.SelectorWorkers)
}
