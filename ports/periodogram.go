package ports

import (
	"lcfit/domain/lightcurve"
)

// Periodogram scores candidate periods for the given observations and
// returns the best-fitting one(s), constrained to
// [minPeriod, maxPeriod] and to [minCount, maxCount] periods.
// Estimators that cannot honor the requested count or worker
// configuration return an error wrapping core.ErrUnsupportedConfig.
// Candidate evaluation may run on up to workers goroutines; results
// must not depend on the worker count.
type Periodogram func(obs []lightcurve.Observation, precision, minPeriod, maxPeriod float64,
	minCount, maxCount, workers int) ([]float64, error)
