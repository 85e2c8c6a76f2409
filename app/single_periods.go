package app

import (
	"context"
	"log"

	"gonum.org/v1/gonum/floats"

	"lcfit/domain/core"
	"lcfit/domain/lightcurve"
	"lcfit/ports"
)

// GetLightCurveFromFile reads one photometry file and fits it.
func (s *LightCurveService) GetLightCurveFromFile(ctx context.Context, reader ports.PhotometryReader,
	path, name string) (*lightcurve.FitResult, error) {
	data, err := reader.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return s.GetLightCurve(ctx, FitRequest{Name: name, Data: data})
}

// SinglePeriods splits the dataset's time range into consecutive
// windows of one period and fits each window separately with the
// period pinned, yielding per-cycle light curves. Windows with fewer
// than minPoints observations, and windows producing a null result,
// are skipped.
func (s *LightCurveService) SinglePeriods(ctx context.Context, req FitRequest,
	period float64, minPoints int) ([]*lightcurve.FitResult, error) {
	if req.Data.Len() == 0 {
		return nil, core.ErrEmptyDataset
	}
	if period <= 0 {
		return nil, core.ErrInvalidPrecision
	}

	times := req.Data.Times()
	tStart := floats.Min(times)
	tFinal := floats.Max(times)

	var out []*lightcurve.FitResult
	cycle := 0
	for lo := tStart; lo < tFinal; lo += period {
		cycle++
		hi := lo + period
		var window lightcurve.Dataset
		window.HasErrors = req.Data.HasErrors
		for _, o := range req.Data.Observations {
			if o.Time > lo && o.Time <= hi {
				window.Observations = append(window.Observations, o)
			}
		}
		if window.Len() <= minPoints {
			continue
		}

		res, err := s.GetLightCurve(ctx, FitRequest{
			Name:      req.Name,
			Data:      window,
			Periods:   []float64{period},
			Predictor: clonePredictor(req.Predictor),
		})
		if err != nil {
			if core.IsNullResult(err) {
				log.Printf("[LightCurve] %s: cycle %d skipped, %v", req.Name, cycle, err)
				continue
			}
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func clonePredictor(p ports.Predictor) ports.Predictor {
	if p == nil {
		return nil
	}
	return p.Clone()
}
