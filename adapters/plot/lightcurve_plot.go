// Package plot renders fitted light curves as PNG images: phased
// inliers, rejected outliers and the fitted curve over two cycles,
// with the magnitude axis inverted so brightness increases upward.
package plot

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"lcfit/domain/lightcurve"
)

// LightCurvePlot writes a plot of the fit to path. The data is phased
// with the fitted period; both data and curve are doubled across
// phase [0,2) so the cycle boundary stays readable.
func LightCurvePlot(path string, data lightcurve.Dataset, result *lightcurve.FitResult) error {
	if result == nil {
		return fmt.Errorf("no fit result to plot")
	}

	p := plot.New()
	p.Title.Text = result.Name
	p.X.Label.Text = fmt.Sprintf("Phase (%.7g period)", result.Period)
	p.Y.Label.Text = "Magnitude"
	p.X.Min, p.X.Max = 0, 2
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}

	phased := lightcurve.Rephase(data, result.Period, 0)

	inliers, err := plotter.NewScatter(doubledPoints(phased.Inliers(result.Mask)))
	if err != nil {
		return err
	}
	inliers.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(inliers)
	p.Legend.Add("Inliers", inliers)

	if result.Mask.OutlierCount() > 0 {
		outliers, err := plotter.NewScatter(doubledPoints(phased.Outliers(result.Mask)))
		if err != nil {
			return err
		}
		outliers.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(outliers)
		p.Legend.Add("Outliers", outliers)
	}

	curve, err := plotter.NewLine(curvePoints(result.Curve))
	if err != nil {
		return err
	}
	p.Add(curve)
	p.Legend.Add("Light Curve", curve)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// doubledPoints plots each observation at its phase and again one
// cycle later.
func doubledPoints(obs []lightcurve.Observation) plotter.XYs {
	out := make(plotter.XYs, 0, 2*len(obs))
	for _, o := range obs {
		out = append(out, plotter.XY{X: o.Time, Y: o.Mag})
		out = append(out, plotter.XY{X: o.Time + 1, Y: o.Mag})
	}
	return out
}

func curvePoints(curve []float64) plotter.XYs {
	n := len(curve)
	out := make(plotter.XYs, 0, 2*n)
	for rep := 0; rep < 2; rep++ {
		for i, m := range curve {
			out = append(out, plotter.XY{
				X: float64(rep) + float64(i)/float64(n),
				Y: m,
			})
		}
	}
	return out
}
