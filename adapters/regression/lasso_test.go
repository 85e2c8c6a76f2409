package regression

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"lcfit/domain/core"
)

func TestOLS_RecoversExactCoefficients(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	phases := make([]float64, 12)
	for i := range phases {
		phases[i] = rng.Float64()
	}
	want := []float64{2, 0.5, -1}

	x := NewFourier(1).Transform(phases)
	targets := make([]float64, len(phases))
	for i := range targets {
		for j, c := range want {
			targets[i] += c * x.At(i, j)
		}
	}

	ols := NewOLS()
	if err := ols.Fit(x, targets); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	for j, c := range ols.Coefficients() {
		if math.Abs(c-want[j]) > 1e-9 {
			t.Errorf("Coefficient %d = %v, want %v", j, c, want[j])
		}
	}

	pred := ols.Predict(x)
	for i := range targets {
		if math.Abs(pred[i]-targets[i]) > 1e-9 {
			t.Errorf("Prediction %d = %v, want %v", i, pred[i], targets[i])
		}
	}
}

func TestOLS_EmptyInput(t *testing.T) {
	err := NewOLS().Fit(NewFourier(1).Transform(nil), nil)
	if !errors.Is(err, core.ErrEmptyDataset) {
		t.Errorf("Expected ErrEmptyDataset, got %v", err)
	}
}

func TestLassoIC_FitsDominantHarmonic(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	n := 80
	phases := make([]float64, n)
	targets := make([]float64, n)
	for i := range phases {
		phases[i] = rng.Float64()
		targets[i] = 10 + math.Cos(2*math.Pi*phases[i]) + rng.NormFloat64()*0.01
	}

	x := NewFourier(6).Transform(phases)
	l := NewLassoIC()
	if err := l.Fit(x, targets); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	// Training fit should be tight despite the shrinkage.
	pred := l.Predict(x)
	var sse, sst, mean float64
	for _, v := range targets {
		mean += v
	}
	mean /= float64(n)
	for i := range targets {
		sse += (pred[i] - targets[i]) * (pred[i] - targets[i])
		sst += (targets[i] - mean) * (targets[i] - mean)
	}
	if r2 := 1 - sse/sst; r2 < 0.95 {
		t.Errorf("Training R² = %v, want > 0.95", r2)
	}

	// The constant and first cosine carry the signal; the estimated
	// sparse solution keeps them dominant.
	coef := l.Coefficients()
	if math.Abs(coef[0]-10) > 0.5 {
		t.Errorf("Constant coefficient %v far from 10", coef[0])
	}
	if math.Abs(coef[1]-1) > 0.3 {
		t.Errorf("First cosine coefficient %v far from 1", coef[1])
	}
}

func TestLassoIC_ZeroTargetsGiveZeroSolution(t *testing.T) {
	phases := []float64{0.1, 0.3, 0.6, 0.8}
	l := NewLassoIC()
	if err := l.Fit(NewFourier(1).Transform(phases), []float64{0, 0, 0, 0}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	for j, c := range l.Coefficients() {
		if c != 0 {
			t.Errorf("Coefficient %d = %v, want 0", j, c)
		}
	}
}

func TestLassoIC_CloneIsUnfitted(t *testing.T) {
	phases := []float64{0.1, 0.4, 0.7, 0.9, 0.2}
	targets := []float64{1, 2, 3, 2, 1}
	l := NewLassoIC()
	l.Criterion = CriterionBIC
	if err := l.Fit(NewFourier(1).Transform(phases), targets); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	c := l.Clone().(*LassoIC)
	if len(c.Coefficients()) != 0 {
		t.Error("Clone should carry no fitted coefficients")
	}
	if c.Criterion != CriterionBIC {
		t.Error("Clone should keep the configured criterion")
	}
	if len(l.Coefficients()) == 0 {
		t.Error("Cloning should not reset the original")
	}
}
