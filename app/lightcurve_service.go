// Package app orchestrates the fitting workflow: the robust
// sigma-clipping fit loop for one star, and batch runs over many.
package app

import (
	"context"
	"errors"
	"log"
	"math"

	"gonum.org/v1/gonum/floats"

	"lcfit/adapters/periodogram"
	"lcfit/adapters/regression"
	"lcfit/domain/core"
	"lcfit/domain/lightcurve"
	"lcfit/internal/robust"
	"lcfit/ports"
)

// fitState labels the phases of the robust fitting loop.
type fitState string

const (
	stateSearchingPeriod  fitState = "searching_period"
	stateFitting          fitState = "fitting"
	stateCheckingOutliers fitState = "checking_outliers"
	stateConverged        fitState = "converged"
	stateAborted          fitState = "aborted"
)

// FitConfig holds the knobs of the robust fitting loop. The zero
// value is not usable; start from DefaultFitConfig.
type FitConfig struct {
	// Periodogram estimates the period from inliers; nil selects
	// Lomb-Scargle.
	Periodogram ports.Periodogram
	// Scale maps residuals to a robust noise scale; nil selects the
	// median absolute deviation.
	Scale ports.ScaleEstimator
	// Search bounds the two-pass period search.
	Search periodogram.SearchConfig
	// Metric and Folds configure fit quality scoring.
	Metric ports.Metric
	Folds  int
	// ScoringWorkers bounds concurrency of final score computation.
	ScoringWorkers int
	// Sigma is the clipping threshold; zero or negative disables
	// outlier rejection entirely.
	Sigma float64
	// SamplePoints is the length of the sampled output curve.
	SamplePoints int
	// CoverageBins is the bin count of the informational
	// phase-coverage fraction.
	CoverageBins int
}

// DefaultFitConfig mirrors the standard fitting setup.
func DefaultFitConfig() FitConfig {
	return FitConfig{
		Search:         periodogram.DefaultSearchConfig(),
		Metric:         ports.MetricR2,
		Folds:          3,
		ScoringWorkers: 1,
		Sigma:          20,
		SamplePoints:   100,
		CoverageBins:   100,
	}
}

// FitRequest is one star's input to the fitting loop.
type FitRequest struct {
	Name string
	Data lightcurve.Dataset
	// Mask carries previously known outliers; the zero value starts
	// with every row as an inlier.
	Mask lightcurve.Mask
	// Periods pins the oscillation period(s), skipping the period
	// search. Nil means search. A pinned zero period is a caller
	// contract violation and reaches the phase transform, which
	// panics.
	Periods []float64
	// Predictor overrides the fitted model; nil builds the default
	// grid-search lasso pipeline.
	Predictor ports.Predictor
}

// LightCurveService runs the robust fitting loop.
type LightCurveService struct {
	cfg FitConfig
}

// NewLightCurveService creates the service. Nil collaborators in cfg
// fall back to the defaults.
func NewLightCurveService(cfg FitConfig) *LightCurveService {
	if cfg.Periodogram == nil {
		cfg.Periodogram = periodogram.LombScargle
	}
	if cfg.Scale == nil {
		cfg.Scale = robust.MAD
	}
	if cfg.SamplePoints <= 0 {
		cfg.SamplePoints = 100
	}
	if cfg.CoverageBins <= 0 {
		cfg.CoverageBins = 100
	}
	return &LightCurveService{cfg: cfg}
}

// GetLightCurve fits a light curve to the requested dataset: period
// search over current inliers, predictor fit, residual-based outlier
// detection over the full dataset, repeated until the outlier set
// stabilizes. Expected failures (too few inliers, regression
// non-convergence) return a nil result with an error satisfying
// core.IsNullResult, so batch callers can skip the star.
//
// Cancellation is only observed between refit rounds; an individual
// period sweep runs to completion.
func (s *LightCurveService) GetLightCurve(ctx context.Context, req FitRequest) (*lightcurve.FitResult, error) {
	data := req.Data
	if data.Len() == 0 {
		return nil, core.ErrEmptyDataset
	}

	mask := req.Mask
	if mask.Len() == 0 {
		mask = lightcurve.NewMask(data.Len())
	}
	if err := mask.Validate(data); err != nil {
		return nil, err
	}

	predictor := req.Predictor
	if predictor == nil {
		var err error
		predictor, err = regression.MakePredictor(regression.PredictorConfig{
			DegreeLow:       2,
			DegreeHigh:      25,
			Metric:          s.cfg.Metric,
			Folds:           s.cfg.Folds,
			SelectorWorkers: s.cfg.ScoringWorkers,
		})
		if err != nil {
			return nil, err
		}
	}

	state := stateSearchingPeriod
	iterations := 0
	var period float64
	var fitTimes, fitMags []float64

	for state != stateConverged {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		iterations++

		// SEARCHING_PERIOD
		inliers := data.Inliers(mask)
		if len(inliers) <= s.cfg.Folds {
			log.Printf("[LightCurve] %s: aborted, %d inliers with %d folds", req.Name, len(inliers), s.cfg.Folds)
			return nil, core.NewInsufficientDataError(len(inliers), s.cfg.Folds)
		}

		if len(req.Periods) > 0 {
			period = req.Periods[0]
		} else {
			found, err := periodogram.FindPeriod(inliers, s.cfg.Periodogram, s.cfg.Search)
			if err != nil {
				return nil, err
			}
			period = found[0]
		}
		log.Printf("[LightCurve] %s: using period %v", req.Name, period)

		// FITTING
		state = stateFitting
		fitTimes = make([]float64, len(inliers))
		fitMags = make([]float64, len(inliers))
		for i, o := range inliers {
			fitTimes[i] = o.Time
			fitMags[i] = o.Mag
		}
		predictor.SetPeriod(period)
		if err := predictor.Fit(fitTimes, fitMags); err != nil {
			if errors.Is(err, core.ErrNonConvergence) {
				log.Printf("[LightCurve] %s: aborted, %v", req.Name, err)
				return nil, err
			}
			return nil, err
		}

		// CHECKING_OUTLIERS
		if s.cfg.Sigma <= 0 {
			state = stateConverged
			break
		}
		state = stateCheckingOutliers
		detected := findOutliers(data, predictor, s.cfg.Sigma, s.cfg.Scale)
		if len(detected) == 0 || mask.ContainsAll(detected) {
			// The final residual check is authoritative; rows it no
			// longer flags are re-admitted.
			mask = mask.Replace(detected)
			state = stateConverged
			break
		}
		log.Printf("[LightCurve] %s: %d outliers", req.Name, len(detected))
		mask = mask.Union(detected)
		state = stateSearchingPeriod
	}

	return s.buildResult(req.Name, predictor, period, mask, fitTimes, fitMags, iterations)
}

// findOutliers re-evaluates every row of the dataset, masked or not,
// against the fitted model. A row is an outlier when its residual
// exceeds both its reported measurement error (when present) and
// sigma times the robust scale of all residuals.
func findOutliers(data lightcurve.Dataset, predictor ports.Predictor, sigma float64, scale ports.ScaleEstimator) []int {
	times := data.Times()
	mags := data.Mags()
	pred := predictor.Predict(times)

	residuals := make([]float64, len(mags))
	for i := range mags {
		residuals[i] = math.Abs(pred[i] - mags[i])
	}
	threshold := sigma * scale(residuals)

	var out []int
	for i, r := range residuals {
		if data.HasErrors && r <= data.Observations[i].Err {
			continue
		}
		if r > threshold {
			out = append(out, i)
		}
	}
	return out
}

// buildResult samples the fitted curve, rotates it to maximum
// brightness and assembles the immutable fit record.
func (s *LightCurveService) buildResult(name string, predictor ports.Predictor, period float64,
	mask lightcurve.Mask, fitTimes, fitMags []float64, iterations int) (*lightcurve.FitResult, error) {

	sample := make([]float64, s.cfg.SamplePoints)
	floats.Span(sample, floats.Min(fitTimes), floats.Max(fitTimes))
	curve := predictor.Predict(sample)

	// Magnitudes are inverted: the curve minimum is maximum
	// brightness.
	argMaxLight := floats.MinIdx(curve)
	rotated := make([]float64, 0, len(curve))
	rotated = append(rotated, curve[argMaxLight:]...)
	rotated = append(rotated, curve[:argMaxLight]...)
	shift := float64(argMaxLight) / float64(len(fitTimes))

	estimator := predictor
	var selector ports.ModelSelector
	if sel, ok := predictor.(ports.ModelSelector); ok {
		selector = sel
		estimator = sel.BestPredictor()
	}

	// Scores already produced by the selection process are reused
	// only when the scoring metric matches exactly; the other one is
	// computed by cross validation.
	getScore := func(metric ports.Metric) (float64, error) {
		if selector != nil && selector.ScoringMetric() == metric {
			return selector.BestScore(), nil
		}
		return regression.CrossValScore(estimator, fitTimes, fitMags, s.cfg.Folds, metric, s.cfg.ScoringWorkers)
	}

	r2, err := getScore(ports.MetricR2)
	if err != nil {
		return nil, err
	}
	mse, err := getScore(ports.MetricMSE)
	if err != nil {
		return nil, err
	}

	phases := lightcurve.Phase(fitTimes, period, 0)

	return &lightcurve.FitResult{
		Name:         name,
		Period:       period,
		Curve:        rotated,
		Coefficients: estimator.Coefficients(),
		MeanMagErr:   robust.SEM(rotated),
		R2:           r2,
		MSE:          math.Abs(mse),
		Degree:       estimator.Degree(),
		Shift:        shift,
		Coverage:     lightcurve.PhaseCoverage(phases, s.cfg.CoverageBins),
		Mask:         mask,
		Iterations:   iterations,
	}, nil
}
