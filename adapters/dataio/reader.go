// Package dataio reads photometry from whitespace-separated text
// files: one observation per line, columns time, magnitude and
// optionally measurement error.
package dataio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"lcfit/domain/lightcurve"
)

// FileReader loads photometry files. The zero value reads every line
// and the first two or three columns.
type FileReader struct {
	// SkipRows drops leading lines, e.g. column headers.
	SkipRows int
	// UseCols selects field indices for time, magnitude and
	// (optionally) error. Nil uses columns 0, 1 and, when present, 2.
	UseCols []int
}

// NewFileReader returns a reader with default column handling.
func NewFileReader() *FileReader { return &FileReader{} }

// ReadFile parses the file into a dataset. Lines starting with '#'
// and blank lines are skipped. An empty file yields an empty dataset,
// not an error.
func (r *FileReader) ReadFile(path string) (lightcurve.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return lightcurve.Dataset{}, err
	}
	defer f.Close()

	var ds lightcurve.Dataset
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		if line <= r.SkipRows {
			continue
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		cols := r.UseCols
		if cols == nil {
			if len(fields) >= 3 {
				cols = []int{0, 1, 2}
			} else {
				cols = []int{0, 1}
			}
		}
		if len(cols) < 2 {
			return lightcurve.Dataset{}, fmt.Errorf("line %d: need at least time and magnitude columns", line)
		}

		values := make([]float64, len(cols))
		for i, c := range cols {
			if c >= len(fields) {
				return lightcurve.Dataset{}, fmt.Errorf("line %d: column %d out of range", line, c)
			}
			v, err := strconv.ParseFloat(fields[c], 64)
			if err != nil {
				return lightcurve.Dataset{}, fmt.Errorf("line %d: %w", line, err)
			}
			values[i] = v
		}

		obs := lightcurve.Observation{Time: values[0], Mag: values[1]}
		if len(values) >= 3 {
			obs.Err = values[2]
			ds.HasErrors = true
		}
		ds.Observations = append(ds.Observations, obs)
	}
	if err := scanner.Err(); err != nil {
		return lightcurve.Dataset{}, err
	}
	return ds, nil
}
