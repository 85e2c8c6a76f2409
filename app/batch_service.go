package app

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"lcfit/domain/core"
	"lcfit/ports"
)

// BatchService fits every photometry file in a directory. Stars that
// produce a null result (too few usable points, non-convergent fits)
// are recorded and skipped; the run itself keeps going.
type BatchService struct {
	fitter  *LightCurveService
	reader  ports.PhotometryReader
	workers int
}

// NewBatchService creates the service. workers bounds concurrent
// per-star fits; values below 1 mean sequential.
func NewBatchService(fitter *LightCurveService, reader ports.PhotometryReader, workers int) *BatchService {
	if workers < 1 {
		workers = 1
	}
	return &BatchService{fitter: fitter, reader: reader, workers: workers}
}

// BatchResult summarizes one directory run.
type BatchResult struct {
	RunID     string              `json:"run_id"`
	Records   []ports.BatchRecord `json:"records"`
	RuntimeMs int64               `json:"runtime_ms"`
}

// Fitted returns the records that produced a result.
func (r *BatchResult) Fitted() []ports.BatchRecord {
	out := make([]ports.BatchRecord, 0, len(r.Records))
	for _, rec := range r.Records {
		if rec.Result != nil {
			out = append(out, rec)
		}
	}
	return out
}

// Run fits every file in dir whose base name matches pattern
// (filepath.Match syntax; "*" fits everything). Records come back in
// directory order regardless of the worker count.
func (b *BatchService) Run(ctx context.Context, dir, pattern string) (*BatchResult, error) {
	start := time.Now()
	runID := uuid.New().String()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ok, err := filepath.Match(pattern, e.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}

	records := make([]ports.BatchRecord, len(paths))
	var g errgroup.Group
	g.SetLimit(b.workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			rec, err := b.fitOne(ctx, path)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &BatchResult{
		RunID:     runID,
		Records:   records,
		RuntimeMs: time.Since(start).Milliseconds(),
	}
	log.Printf("[Batch] run %s: %d files, %d fitted, %dms",
		runID, len(records), len(result.Fitted()), result.RuntimeMs)
	return result, nil
}

func (b *BatchService) fitOne(ctx context.Context, path string) (ports.BatchRecord, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	data, err := b.reader.ReadFile(path)
	if err != nil {
		return ports.BatchRecord{}, err
	}

	res, err := b.fitter.GetLightCurve(ctx, FitRequest{Name: name, Data: data})
	if err != nil {
		if core.IsNullResult(err) {
			log.Printf("[Batch] %s: skipped, %v", name, err)
			return ports.BatchRecord{Name: name, Skipped: err.Error()}, nil
		}
		return ports.BatchRecord{}, err
	}
	return ports.BatchRecord{Name: name, Result: res}, nil
}
