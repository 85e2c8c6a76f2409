package lightcurve

import (
	"lcfit/domain/core"
)

// Observation is one photometric measurement of a star.
type Observation struct {
	Time float64 `json:"time"`
	Mag  float64 `json:"mag"`
	Err  float64 `json:"err,omitempty"`
}

// Dataset is an ordered sequence of observations. HasErrors reports
// whether the Err column carries real measurement errors; when false
// the Err values are meaningless and outlier detection ignores them.
type Dataset struct {
	Observations []Observation `json:"observations"`
	HasErrors    bool          `json:"has_errors"`
}

// Len returns the number of observations.
func (d Dataset) Len() int { return len(d.Observations) }

// Times returns a copy of the time column.
func (d Dataset) Times() []float64 {
	out := make([]float64, len(d.Observations))
	for i, o := range d.Observations {
		out[i] = o.Time
	}
	return out
}

// Mags returns a copy of the magnitude column.
func (d Dataset) Mags() []float64 {
	out := make([]float64, len(d.Observations))
	for i, o := range d.Observations {
		out[i] = o.Mag
	}
	return out
}

// Inliers returns the observations not marked as outliers by mask.
func (d Dataset) Inliers(mask Mask) []Observation {
	out := make([]Observation, 0, d.Len()-mask.OutlierCount())
	for i, o := range d.Observations {
		if !mask.IsOutlier(i) {
			out = append(out, o)
		}
	}
	return out
}

// Outliers returns the observations marked as outliers by mask.
func (d Dataset) Outliers(mask Mask) []Observation {
	out := make([]Observation, 0, mask.OutlierCount())
	for i, o := range d.Observations {
		if mask.IsOutlier(i) {
			out = append(out, o)
		}
	}
	return out
}

// Mask is an immutable set of outlier row indices parallel to a
// dataset. All update operations return a new Mask; the original is
// never mutated, which keeps the monotonicity of the fitting loop
// auditable.
type Mask struct {
	outlier []bool
}

// NewMask returns an all-inlier mask for n rows.
func NewMask(n int) Mask {
	return Mask{outlier: make([]bool, n)}
}

// MaskFromIndices returns a mask for n rows with the given rows marked
// as outliers.
func MaskFromIndices(n int, indices []int) Mask {
	m := NewMask(n)
	for _, idx := range indices {
		m.outlier[idx] = true
	}
	return m
}

// Len returns the number of rows the mask covers.
func (m Mask) Len() int { return len(m.outlier) }

// IsOutlier reports whether row i is masked.
func (m Mask) IsOutlier(i int) bool { return m.outlier[i] }

// OutlierCount returns the number of masked rows.
func (m Mask) OutlierCount() int {
	n := 0
	for _, b := range m.outlier {
		if b {
			n++
		}
	}
	return n
}

// InlierCount returns the number of unmasked rows.
func (m Mask) InlierCount() int { return m.Len() - m.OutlierCount() }

// Indices returns the masked row indices in ascending order.
func (m Mask) Indices() []int {
	out := make([]int, 0, m.OutlierCount())
	for i, b := range m.outlier {
		if b {
			out = append(out, i)
		}
	}
	return out
}

// Union returns a new mask with the given rows additionally masked.
func (m Mask) Union(indices []int) Mask {
	out := Mask{outlier: make([]bool, len(m.outlier))}
	copy(out.outlier, m.outlier)
	for _, idx := range indices {
		out.outlier[idx] = true
	}
	return out
}

// ContainsAll reports whether every given index is already masked.
func (m Mask) ContainsAll(indices []int) bool {
	for _, idx := range indices {
		if !m.outlier[idx] {
			return false
		}
	}
	return true
}

// Replace returns a mask for the same rows with exactly the given rows
// masked, discarding the previous state. Used at convergence, where
// the final residual check is authoritative and previously rejected
// rows may be re-admitted.
func (m Mask) Replace(indices []int) Mask {
	return MaskFromIndices(m.Len(), indices)
}

// Validate checks the mask/dataset length invariant.
func (m Mask) Validate(d Dataset) error {
	if m.Len() != d.Len() {
		return core.ErrLengthMismatch
	}
	return nil
}

// FitResult is the immutable record produced by one converged fit.
type FitResult struct {
	// Name of the star, when known.
	Name string `json:"name,omitempty"`
	// Period of oscillation used for the fit, in the input time unit.
	Period float64 `json:"period"`
	// Curve holds the fitted light curve sampled at evenly spaced
	// points across the inlier time range, rotated so that maximum
	// brightness sits at index 0.
	Curve []float64 `json:"curve"`
	// Coefficients of the fitted Fourier series.
	Coefficients []float64 `json:"coefficients"`
	// MeanMagErr is the standard error of the sampled curve, an
	// estimate of the error on the mean magnitude.
	MeanMagErr float64 `json:"mean_mag_err"`
	// R2 and MSE are cross-validated fit quality scores.
	R2  float64 `json:"r2"`
	MSE float64 `json:"mse"`
	// Degree is the selected Fourier degree.
	Degree int `json:"degree"`
	// Shift is the phase shift aligning phase zero with maximum
	// brightness, as a fraction.
	Shift float64 `json:"shift"`
	// Coverage is the fraction of the phase interval containing at
	// least one inlier. Informational only; the fitting loop never
	// gates on it.
	Coverage float64 `json:"coverage"`
	// Mask is the accepted outlier mask at convergence.
	Mask Mask `json:"-"`
	// Iterations is the number of fit/clip rounds performed.
	Iterations int `json:"iterations"`
}
