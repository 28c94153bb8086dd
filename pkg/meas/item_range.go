package meas

import (
	"math"

	"meascodec/pkg/meas/errs"
	"meascodec/pkg/meas/xsd"
)

// CountRange is an inclusive integer interval
type CountRange struct {
	Low     int64
	High    int64
	Quality *DataQuality
}

// NewCountRange creates a CountRange; low must not exceed high
func NewCountRange(low, high int64) (*CountRange, error) {
	r := &CountRange{Low: low, High: high}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (*CountRange) Kind() ItemKind              { return KindCountRange }
func (r *CountRange) DataQuality() *DataQuality { return r.Quality }
func (*CountRange) item()                       {}

func (r *CountRange) validate() error {
	if r.Low > r.High {
		return errs.InvalidArgumentf("meas.CountRange", "Range low value %d is greater than high value %d", r.Low, r.High)
	}
	return nil
}

// CategoryRange is an interval between two ordered terms
type CategoryRange struct {
	Low       string
	High      string
	CodeSpace string
	Quality   *DataQuality
}

// NewCategoryRange creates a CategoryRange. The bounds are written as a
// space-separated pair, so they must be non-empty and free of whitespace.
func NewCategoryRange(low, high string) (*CategoryRange, error) {
	r := &CategoryRange{Low: low, High: high}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (*CategoryRange) Kind() ItemKind              { return KindCategoryRange }
func (r *CategoryRange) DataQuality() *DataQuality { return r.Quality }
func (*CategoryRange) item()                       {}

func (r *CategoryRange) validate() error {
	_, err := xsd.FormatStrings([]string{r.Low, r.High})
	return err
}

// MeasurementRange is a quantity interval with a unit of measure
type MeasurementRange struct {
	UnitOfMeasure string
	Low           float64
	High          float64
	Quality       *DataQuality
}

// NewMeasurementRange creates a MeasurementRange; low must not exceed high
func NewMeasurementRange(unitOfMeasure string, low, high float64) (*MeasurementRange, error) {
	r := &MeasurementRange{UnitOfMeasure: unitOfMeasure, Low: low, High: high}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (*MeasurementRange) Kind() ItemKind              { return KindMeasurementRange }
func (r *MeasurementRange) DataQuality() *DataQuality { return r.Quality }
func (*MeasurementRange) item()                       {}

func (r *MeasurementRange) validate() error {
	if math.IsNaN(r.Low) || math.IsNaN(r.High) {
		return errs.InvalidArgumentf("meas.MeasurementRange", "Range bounds must not be NaN")
	}
	if r.Low > r.High {
		return errs.InvalidArgumentf("meas.MeasurementRange", "Range low value %s is greater than high value %s",
			xsd.FormatDouble(r.Low), xsd.FormatDouble(r.High))
	}
	return nil
}
