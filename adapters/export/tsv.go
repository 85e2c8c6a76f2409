package export

import (
	"fmt"
	"os"
	"strings"

	"lcfit/ports"
)

// TSVWriter writes a batch summary as tab-separated text, one row per
// star, suitable for downstream table tooling.
type TSVWriter struct{}

// NewTSVWriter returns a TSV writer.
func NewTSVWriter() *TSVWriter { return &TSVWriter{} }

// Write creates the file at path.
func (t *TSVWriter) Write(path, runID string, records []ports.BatchRecord) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# run %s\n", runID)
	b.WriteString(strings.Join(columns, "\t"))
	b.WriteByte('\n')

	for _, rec := range records {
		if rec.Result == nil {
			fmt.Fprintf(&b, "%s\t\t\t\t\t\t\t\t%s\n", rec.Name, rec.Skipped)
			continue
		}
		r := rec.Result
		fmt.Fprintf(&b, "%s\t%.9f\t%d\t%.6f\t%.6f\t%.4f\t%.6f\t%d\t\n",
			rec.Name, r.Period, r.Degree, r.R2, r.MSE, r.Shift, r.MeanMagErr, r.Mask.OutlierCount())
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}
