package ports

import (
	"lcfit/domain/lightcurve"
)

// BatchRecord is one row of a batch run summary.
type BatchRecord struct {
	Name    string
	Result  *lightcurve.FitResult
	Skipped string // reason, when Result is nil
}

// ResultWriter persists a batch run summary. The writer owns the
// output format; the caller owns the destination path.
type ResultWriter interface {
	Write(path string, runID string, records []BatchRecord) error
}
