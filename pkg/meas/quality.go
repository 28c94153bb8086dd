package meas

import (
	"strings"

	"meascodec/pkg/meas/errs"
	"meascodec/pkg/meas/xsd"
)

const (
	qualityGood = "good"
	qualityBad  = "bad"
)

// DataQuality tags a value as good or bad. A bad tag may carry a reason such
// as "sensorfault" or "range/high". The zero value is good.
type DataQuality struct {
	bad    bool
	reason string
}

// Good returns a good data quality
func Good() DataQuality {
	return DataQuality{}
}

// Bad returns a bad data quality. reason may be empty; it must not contain whitespace.
func Bad(reason string) (DataQuality, error) {
	if xsd.ContainsWhitespace(reason) {
		return DataQuality{}, errs.InvalidArgumentf("meas.Bad", "Data quality reason must not contain whitespaces")
	}
	return DataQuality{bad: true, reason: reason}, nil
}

// ParseDataQuality parses the compact form: "good", "bad" or "bad/<reason>"
func ParseDataQuality(s string) (DataQuality, error) {
	if xsd.ContainsWhitespace(s) {
		return DataQuality{}, errs.InvalidArgumentf("meas.ParseDataQuality", "Data quality string must not contain whitespaces")
	}

	switch {
	case s == qualityGood:
		return Good(), nil
	case s == qualityBad:
		return DataQuality{bad: true}, nil
	case strings.HasPrefix(s, qualityBad+"/") && len(s) > len(qualityBad)+1:
		return DataQuality{bad: true, reason: s[len(qualityBad)+1:]}, nil
	}
	return DataQuality{}, errs.InvalidArgumentf("meas.ParseDataQuality", "Cannot interpret data quality value %q", s)
}

// IsGood reports whether the quality is good
func (q DataQuality) IsGood() bool {
	return !q.bad
}

// Reason returns the reason of a bad quality, or ""
func (q DataQuality) Reason() string {
	return q.reason
}

// ReasonSegments splits the reason at its first slash into the primary reason
// and the sub-reason. It returns nil when there is no reason.
func (q DataQuality) ReasonSegments() []string {
	if q.reason == "" {
		return nil
	}
	return strings.SplitN(q.reason, "/", 2)
}

// String returns the compact form
func (q DataQuality) String() string {
	if !q.bad {
		return qualityGood
	}
	if q.reason == "" {
		return qualityBad
	}
	return qualityBad + "/" + q.reason
}
