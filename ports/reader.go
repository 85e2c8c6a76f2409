package ports

import (
	"lcfit/domain/lightcurve"
)

// PhotometryReader loads timestamped brightness measurements from a
// file. Implementations decide the on-disk format.
type PhotometryReader interface {
	ReadFile(path string) (lightcurve.Dataset, error)
}
