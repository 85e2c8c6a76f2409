package regression

import (
	"errors"
	"testing"

	"lcfit/domain/core"
	"lcfit/ports"
)

func TestNewGridSearch_RejectsBadBounds(t *testing.T) {
	base := NewPipeline(2, NewOLS())

	_, err := NewGridSearch(base, 5, 2, ports.MetricR2, 3, 1)
	if !errors.Is(err, core.ErrDegreeBounds) {
		t.Errorf("Expected ErrDegreeBounds for inverted range, got %v", err)
	}
	_, err = NewGridSearch(base, -1, 2, ports.MetricR2, 3, 1)
	if !errors.Is(err, core.ErrDegreeBounds) {
		t.Errorf("Expected ErrDegreeBounds for negative degree, got %v", err)
	}
}

func TestGridSearch_SelectsTheSignalDegree(t *testing.T) {
	// The ninth harmonic only becomes fittable at degree 9, so cross
	// validation favors degrees at or above it.
	phases, mags := phasedColumns(120, 0.02)

	gs, err := NewGridSearch(NewPipeline(2, NewOLS()), 2, 12, ports.MetricR2, 3, 1)
	if err != nil {
		t.Fatalf("NewGridSearch failed: %v", err)
	}
	if err := gs.Fit(phases, mags); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if d := gs.Degree(); d < 9 || d > 12 {
		t.Errorf("Selected degree %d, want between 9 and 12", d)
	}
	if gs.BestScore() < 0.9 {
		t.Errorf("Best R² = %v, want > 0.9", gs.BestScore())
	}
	if gs.ScoringMetric() != ports.MetricR2 {
		t.Errorf("ScoringMetric = %v, want r2", gs.ScoringMetric())
	}
	if gs.BestPredictor() == nil {
		t.Error("BestPredictor should be set after Fit")
	}
	if len(gs.Coefficients()) != 2*gs.Degree()+1 {
		t.Errorf("Coefficient count %d does not match degree %d", len(gs.Coefficients()), gs.Degree())
	}
}

func TestGridSearch_WorkerCountInvariant(t *testing.T) {
	phases, mags := phasedColumns(90, 0.05)

	run := func(workers int) (int, float64) {
		gs, err := NewGridSearch(NewPipeline(2, NewOLS()), 2, 8, ports.MetricR2, 3, workers)
		if err != nil {
			t.Fatalf("NewGridSearch failed: %v", err)
		}
		if err := gs.Fit(phases, mags); err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		return gs.Degree(), gs.BestScore()
	}

	d1, s1 := run(1)
	d4, s4 := run(4)
	if d1 != d4 || s1 != s4 {
		t.Errorf("Worker count changed selection: degree %d/%d score %v/%v", d1, d4, s1, s4)
	}
}

func TestCrossValScore_Determinism(t *testing.T) {
	phases, mags := phasedColumns(60, 0.05)
	p := NewPipeline(4, NewOLS())

	a, err := CrossValScore(p, phases, mags, 3, ports.MetricR2, 1)
	if err != nil {
		t.Fatalf("CrossValScore failed: %v", err)
	}
	b, err := CrossValScore(p, phases, mags, 3, ports.MetricR2, 4)
	if err != nil {
		t.Fatalf("CrossValScore failed: %v", err)
	}
	if a != b {
		t.Errorf("Score depends on worker count: %v vs %v", a, b)
	}
}

func TestCrossValScore_MetricSigns(t *testing.T) {
	phases, mags := phasedColumns(60, 0.05)
	p := NewPipeline(4, NewOLS())

	r2, err := CrossValScore(p, phases, mags, 3, ports.MetricR2, 1)
	if err != nil {
		t.Fatalf("CrossValScore failed: %v", err)
	}
	negMSE, err := CrossValScore(p, phases, mags, 3, ports.MetricMSE, 1)
	if err != nil {
		t.Fatalf("CrossValScore failed: %v", err)
	}

	// Both metrics are greater-is-better: R² approaches 1 from below,
	// MSE comes back negated.
	if r2 <= 0 || r2 > 1 {
		t.Errorf("Cross-validated R² = %v, want value in (0,1]", r2)
	}
	if negMSE > 0 {
		t.Errorf("Negated MSE = %v, want <= 0", negMSE)
	}
}

func TestCrossValScore_InsufficientData(t *testing.T) {
	p := NewPipeline(2, NewOLS())
	_, err := CrossValScore(p, []float64{0.1, 0.2}, []float64{1, 2}, 3, ports.MetricR2, 1)
	if !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData, got %v", err)
	}
	if !core.IsNullResult(err) {
		t.Error("Insufficient data should be a null-result error")
	}
}

func TestGridSearch_CloneIsUnfitted(t *testing.T) {
	phases, mags := phasedColumns(60, 0.05)
	gs, err := NewGridSearch(NewPipeline(2, NewOLS()), 2, 6, ports.MetricR2, 3, 1)
	if err != nil {
		t.Fatalf("NewGridSearch failed: %v", err)
	}
	if err := gs.Fit(phases, mags); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	c := gs.Clone().(*GridSearch)
	if c.BestPredictor() != nil {
		t.Error("Clone should carry no fitted winner")
	}
	if gs.BestPredictor() == nil {
		t.Error("Cloning reset the original selector")
	}
}
