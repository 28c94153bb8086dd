package meas

import (
	"time"

	"meascodec/pkg/meas/errs"
	"meascodec/pkg/meas/xsd"
)

// TimeSeriesConstant is a sequence of measurements sampled at a fixed interval
// starting from BaseTime. Values and PointQualities are parallel slices.
type TimeSeriesConstant struct {
	UnitOfMeasure  string
	BaseTime       time.Time
	Spacing        time.Duration
	Values         []float64
	PointQualities []DataQuality
	Quality        *DataQuality
}

// NewTimeSeriesConstant creates an empty constant-interval series
func NewTimeSeriesConstant(unitOfMeasure string, baseTime time.Time, spacing time.Duration) (*TimeSeriesConstant, error) {
	ts := &TimeSeriesConstant{UnitOfMeasure: unitOfMeasure, BaseTime: baseTime, Spacing: spacing}
	if err := ts.validate(); err != nil {
		return nil, err
	}
	return ts, nil
}

func (*TimeSeriesConstant) Kind() ItemKind               { return KindTimeSeriesConstant }
func (ts *TimeSeriesConstant) DataQuality() *DataQuality { return ts.Quality }
func (*TimeSeriesConstant) item()                        {}

// Add appends a value
func (ts *TimeSeriesConstant) Add(value float64, quality DataQuality) {
	ts.Values = append(ts.Values, value)
	ts.PointQualities = append(ts.PointQualities, quality)
}

// Len returns the number of values
func (ts *TimeSeriesConstant) Len() int {
	return len(ts.Values)
}

// Timestamp returns the sampling time of value i
func (ts *TimeSeriesConstant) Timestamp(i int) time.Time {
	return ts.BaseTime.Add(time.Duration(i) * ts.Spacing)
}

func (ts *TimeSeriesConstant) validate() error {
	if err := xsd.RequireUTC(ts.BaseTime, "meas.TimeSeriesConstant"); err != nil {
		return err
	}
	if ts.Spacing <= 0 {
		return errs.InvalidArgumentf("meas.TimeSeriesConstant", "Time series spacing must be positive, got %s", ts.Spacing)
	}
	if len(ts.PointQualities) != len(ts.Values) {
		return errs.InvalidArgumentf("meas.TimeSeriesConstant",
			"Time series has %d values but %d qualities", len(ts.Values), len(ts.PointQualities))
	}
	return nil
}

// TimeSeriesFlexible is a sequence of measurements with explicit timestamps.
// Timestamps, Values and PointQualities are parallel slices.
type TimeSeriesFlexible struct {
	UnitOfMeasure  string
	Timestamps     []time.Time
	Values         []float64
	PointQualities []DataQuality
	Quality        *DataQuality
}

// NewTimeSeriesFlexible creates an empty series
func NewTimeSeriesFlexible(unitOfMeasure string) *TimeSeriesFlexible {
	return &TimeSeriesFlexible{UnitOfMeasure: unitOfMeasure}
}

func (*TimeSeriesFlexible) Kind() ItemKind               { return KindTimeSeriesFlexible }
func (ts *TimeSeriesFlexible) DataQuality() *DataQuality { return ts.Quality }
func (*TimeSeriesFlexible) item()                        {}

// Add appends a timestamped value. The timestamp must be in UTC.
func (ts *TimeSeriesFlexible) Add(timestamp time.Time, value float64, quality DataQuality) error {
	if err := xsd.RequireUTC(timestamp, "meas.TimeSeriesFlexible.Add"); err != nil {
		return err
	}
	ts.Timestamps = append(ts.Timestamps, timestamp)
	ts.Values = append(ts.Values, value)
	ts.PointQualities = append(ts.PointQualities, quality)
	return nil
}

// Len returns the number of values
func (ts *TimeSeriesFlexible) Len() int {
	return len(ts.Values)
}

func (ts *TimeSeriesFlexible) validate() error {
	if len(ts.Timestamps) != len(ts.Values) || len(ts.PointQualities) != len(ts.Values) {
		return errs.InvalidArgumentf("meas.TimeSeriesFlexible",
			"Time series has %d timestamps, %d values and %d qualities",
			len(ts.Timestamps), len(ts.Values), len(ts.PointQualities))
	}
	for _, t := range ts.Timestamps {
		if err := xsd.RequireUTC(t, "meas.TimeSeriesFlexible"); err != nil {
			return err
		}
	}
	return nil
}
