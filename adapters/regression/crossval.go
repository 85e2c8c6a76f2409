package regression

import (
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"lcfit/domain/core"
	"lcfit/ports"
)

// CrossValScore scores a predictor by k-fold cross validation over
// contiguous folds, refitting an unfitted clone per fold. The returned
// value is greater-is-better: R² for MetricR2, negative mean squared
// error for MetricMSE. Fold evaluations run on up to workers
// goroutines; the result is independent of the worker count.
func CrossValScore(pred ports.Predictor, times, mags []float64, folds int, metric ports.Metric, workers int) (float64, error) {
	n := len(times)
	if folds < 2 || n < folds {
		return 0, core.NewInsufficientDataError(n, folds)
	}

	scores := make([]float64, folds)
	eval := func(k int) error {
		lo := k * n / folds
		hi := (k + 1) * n / folds

		trainT := make([]float64, 0, n-(hi-lo))
		trainM := make([]float64, 0, n-(hi-lo))
		trainT = append(append(trainT, times[:lo]...), times[hi:]...)
		trainM = append(append(trainM, mags[:lo]...), mags[hi:]...)

		c := pred.Clone()
		if err := c.Fit(trainT, trainM); err != nil {
			return err
		}
		est := c.Predict(times[lo:hi])
		scores[k] = foldScore(est, mags[lo:hi], metric)
		return nil
	}

	if workers <= 1 {
		for k := 0; k < folds; k++ {
			if err := eval(k); err != nil {
				return 0, err
			}
		}
	} else {
		var g errgroup.Group
		g.SetLimit(workers)
		for k := 0; k < folds; k++ {
			k := k
			g.Go(func() error { return eval(k) })
		}
		if err := g.Wait(); err != nil {
			return 0, err
		}
	}

	total := 0.0
	for _, s := range scores {
		total += s
	}
	return total / float64(folds), nil
}

func foldScore(estimates, values []float64, metric ports.Metric) float64 {
	switch metric {
	case ports.MetricMSE:
		mse := 0.0
		for i, e := range estimates {
			d := e - values[i]
			mse += d * d
		}
		return -mse / float64(len(values))
	default:
		return stat.RSquaredFrom(estimates, values, nil)
	}
}
