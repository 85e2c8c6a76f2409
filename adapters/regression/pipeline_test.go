package regression

import (
	"math"
	"testing"

	"lcfit/domain/core"
	"lcfit/internal/testkit"
)

func phasedColumns(samples int, noise float64) ([]float64, []float64) {
	cfg := testkit.DefaultGeneratorConfig()
	cfg.Samples = samples
	cfg.NoiseSigma = noise
	ds := testkit.NewGenerator(cfg).GeneratePhased()
	return ds.Times(), ds.Mags()
}

func TestPipeline_FitAndPredictPhasedData(t *testing.T) {
	phases, mags := phasedColumns(100, 0.01)

	p := NewPipeline(9, NewOLS())
	if err := p.Fit(phases, mags); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	pred := p.Predict(phases)
	for i := range mags {
		if math.Abs(pred[i]-mags[i]) > 0.1 {
			t.Errorf("Prediction %d off by %v", i, math.Abs(pred[i]-mags[i]))
		}
	}
}

func TestPipeline_SetPeriodPhasesRawTimes(t *testing.T) {
	cfg := testkit.DefaultGeneratorConfig()
	cfg.NoiseSigma = 0.01
	cfg.Samples = 100
	ds, _ := testkit.NewGenerator(cfg).Generate()

	p := NewPipeline(9, NewOLS())
	p.SetPeriod(cfg.Period)
	if err := p.Fit(ds.Times(), ds.Mags()); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	pred := p.Predict(ds.Times())
	var sse float64
	for i, m := range ds.Mags() {
		sse += (pred[i] - m) * (pred[i] - m)
	}
	if rmse := math.Sqrt(sse / float64(ds.Len())); rmse > 0.05 {
		t.Errorf("RMSE %v too large for a correctly phased fit", rmse)
	}
}

func TestPipeline_ZeroPeriodPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != core.ErrZeroPeriod {
			t.Fatalf("Expected ErrZeroPeriod panic, got %v", r)
		}
	}()
	p := NewPipeline(2, NewOLS())
	p.SetPeriod(0)
	_ = p.Fit([]float64{0.1, 0.2, 0.3}, []float64{1, 2, 3})
}

func TestBaartPipeline_StopsAtTheSignalDegree(t *testing.T) {
	// The model carries a ninth harmonic; below degree 9 the
	// residuals stay structured and the rule keeps going.
	phases, mags := phasedColumns(150, 0.02)

	p := NewBaartPipeline(2, 15, NewOLS())
	if err := p.Fit(phases, mags); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if d := p.Degree(); d < 9 || d > 15 {
		t.Errorf("Selected degree %d, want between 9 and 15", d)
	}
	pred := p.Predict(phases)
	var sse float64
	for i := range mags {
		sse += (pred[i] - mags[i]) * (pred[i] - mags[i])
	}
	if rmse := math.Sqrt(sse / float64(len(mags))); rmse > 0.05 {
		t.Errorf("RMSE %v too large after degree selection", rmse)
	}
}

func TestPipeline_CloneIsIndependent(t *testing.T) {
	phases, mags := phasedColumns(60, 0.01)

	p := NewPipeline(4, NewOLS())
	if err := p.Fit(phases, mags); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	c := p.Clone().(*Pipeline)
	c.SetPeriod(2.0)
	c.SetDegree(7)

	if p.Degree() != 4 {
		t.Errorf("Clone mutation changed the original degree to %d", p.Degree())
	}
	if len(c.Coefficients()) != 0 {
		t.Error("Clone should carry no fitted coefficients")
	}
}
