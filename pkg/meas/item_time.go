package meas

import (
	"time"

	"meascodec/pkg/meas/errs"
	"meascodec/pkg/meas/xsd"
)

// TimeInstant is a point in time. The timestamp must be in UTC.
type TimeInstant struct {
	Value   time.Time
	Quality *DataQuality
}

// NewTimeInstant creates a TimeInstant
func NewTimeInstant(value time.Time) (*TimeInstant, error) {
	ti := &TimeInstant{Value: value}
	if err := ti.validate(); err != nil {
		return nil, err
	}
	return ti, nil
}

func (*TimeInstant) Kind() ItemKind               { return KindTimeInstant }
func (ti *TimeInstant) DataQuality() *DataQuality { return ti.Quality }
func (*TimeInstant) item()                        {}

func (ti *TimeInstant) validate() error {
	return xsd.RequireUTC(ti.Value, "meas.TimeInstant")
}

// TimeRange is a closed time interval. Both ends must be in UTC.
type TimeRange struct {
	Start   time.Time
	End     time.Time
	Quality *DataQuality
}

// NewTimeRange creates a TimeRange; start must not be after end
func NewTimeRange(start, end time.Time) (*TimeRange, error) {
	tr := &TimeRange{Start: start, End: end}
	if err := tr.validate(); err != nil {
		return nil, err
	}
	return tr, nil
}

func (*TimeRange) Kind() ItemKind               { return KindTimeRange }
func (tr *TimeRange) DataQuality() *DataQuality { return tr.Quality }
func (*TimeRange) item()                        {}

// Duration returns the length of the range
func (tr *TimeRange) Duration() time.Duration {
	return tr.End.Sub(tr.Start)
}

func (tr *TimeRange) validate() error {
	if err := xsd.RequireUTC(tr.Start, "meas.TimeRange"); err != nil {
		return err
	}
	if err := xsd.RequireUTC(tr.End, "meas.TimeRange"); err != nil {
		return err
	}
	if tr.Start.After(tr.End) {
		return errs.InvalidArgumentf("meas.TimeRange", "Time range start %s is after end %s",
			tr.Start.Format(time.RFC3339Nano), tr.End.Format(time.RFC3339Nano))
	}
	return nil
}
