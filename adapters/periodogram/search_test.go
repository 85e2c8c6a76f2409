package periodogram

import (
	"math"
	"testing"

	"lcfit/domain/lightcurve"
	"lcfit/internal/testkit"
)

func TestFindPeriod_DegenerateRangeIsPinned(t *testing.T) {
	calls := 0
	stub := func(_ []lightcurve.Observation, _, _, _ float64, _, _, _ int) ([]float64, error) {
		calls++
		return []float64{1}, nil
	}

	cfg := DefaultSearchConfig()
	cfg.MinPeriod = 2.5
	cfg.MaxPeriod = 2.5

	got, err := FindPeriod(nil, stub, cfg)
	if err != nil {
		t.Fatalf("FindPeriod failed: %v", err)
	}
	if got[0] != 2.5 {
		t.Errorf("Pinned period = %v, want 2.5", got[0])
	}
	if calls != 0 {
		t.Errorf("Estimator called %d times for a pinned period", calls)
	}
}

func TestFindPeriod_SkipsRefinementWhenCoarseIsFine(t *testing.T) {
	calls := 0
	stub := func(_ []lightcurve.Observation, _, _, _ float64, _, _, _ int) ([]float64, error) {
		calls++
		return []float64{0.42}, nil
	}

	cfg := DefaultSearchConfig()
	cfg.CoarsePrecision = 1e-9
	cfg.FinePrecision = 1e-9

	got, err := FindPeriod(nil, stub, cfg)
	if err != nil {
		t.Fatalf("FindPeriod failed: %v", err)
	}
	if got[0] != 0.42 {
		t.Errorf("Got %v, want the coarse estimate", got[0])
	}
	if calls != 1 {
		t.Errorf("Expected exactly one pass, got %d", calls)
	}
}

func TestFindPeriod_FinePassNarrowsTheWindow(t *testing.T) {
	var windows [][2]float64
	stub := func(_ []lightcurve.Observation, _, lo, hi float64, _, _, _ int) ([]float64, error) {
		windows = append(windows, [2]float64{lo, hi})
		return []float64{(lo + hi) / 2}, nil
	}

	cfg := DefaultSearchConfig()
	cfg.MinPeriod = 0.2
	cfg.MaxPeriod = 1.0
	cfg.CoarsePrecision = 1e-2
	cfg.FinePrecision = 1e-5

	_, err := FindPeriod(nil, stub, cfg)
	if err != nil {
		t.Fatalf("FindPeriod failed: %v", err)
	}
	if len(windows) != 2 {
		t.Fatalf("Expected two passes, got %d", len(windows))
	}
	coarse := (windows[0][0] + windows[0][1]) / 2
	if windows[1][0] != coarse-cfg.CoarsePrecision || windows[1][1] != coarse+cfg.CoarsePrecision {
		t.Errorf("Fine window %v not one coarse step around %v", windows[1], coarse)
	}
}

func TestFindPeriod_TwoPassRecovery(t *testing.T) {
	cfg := testkit.DefaultGeneratorConfig()
	cfg.NoiseSigma = 0.05
	data, _ := testkit.NewGenerator(cfg).Generate()

	search := SearchConfig{
		MinPeriod:       0.3,
		MaxPeriod:       0.7,
		MinCount:        1,
		MaxCount:        1,
		CoarsePrecision: 1e-3,
		FinePrecision:   1e-5,
		Workers:         1,
	}
	got, err := FindPeriod(data.Observations, LombScargle, search)
	if err != nil {
		t.Fatalf("FindPeriod failed: %v", err)
	}
	if math.Abs(got[0]-cfg.Period) > 1e-3 {
		t.Errorf("Recovered period %v, want %v", got[0], cfg.Period)
	}
}
