package periodogram

import (
	"lcfit/domain/lightcurve"
	"lcfit/ports"
)

// SearchConfig bounds a two-pass period search.
type SearchConfig struct {
	MinPeriod float64 `json:"min_period"`
	MaxPeriod float64 `json:"max_period"`
	MinCount  int     `json:"min_count"`
	MaxCount  int     `json:"max_count"`
	// CoarsePrecision is the step of the first full-range sweep;
	// FinePrecision the step of the refinement pass around the coarse
	// estimate.
	CoarsePrecision float64 `json:"coarse_precision"`
	FinePrecision   float64 `json:"fine_precision"`
	Workers         int     `json:"workers"`
}

// DefaultSearchConfig returns the standard search bounds for classical
// pulsators: periods between 0.2 and 32 days.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		MinPeriod:       0.2,
		MaxPeriod:       32.0,
		MinCount:        1,
		MaxCount:        1,
		CoarsePrecision: 1e-5,
		FinePrecision:   1e-9,
		Workers:         1,
	}
}

// FindPeriod wraps a periodogram estimator in a two-pass precision
// refinement: a coarse pass over the full range, then a fine pass over
// the window of one coarse step around the coarse estimate. When the
// coarse precision is already at least as fine as the fine precision,
// the coarse result is returned as-is. A degenerate range
// (MinPeriod >= MaxPeriod) is treated as a caller-pinned period and
// returned without searching.
func FindPeriod(obs []lightcurve.Observation, pg ports.Periodogram, cfg SearchConfig) ([]float64, error) {
	if cfg.MinPeriod >= cfg.MaxPeriod {
		return []float64{cfg.MinPeriod}, nil
	}

	coarse, err := pg(obs, cfg.CoarsePrecision, cfg.MinPeriod, cfg.MaxPeriod,
		cfg.MinCount, cfg.MaxCount, cfg.Workers)
	if err != nil {
		return nil, err
	}
	if cfg.CoarsePrecision <= cfg.FinePrecision {
		return coarse, nil
	}

	return pg(obs, cfg.FinePrecision,
		coarse[0]-cfg.CoarsePrecision, coarse[0]+cfg.CoarsePrecision,
		cfg.MinCount, cfg.MaxCount, cfg.Workers)
}
