package xsd

import (
	"regexp"
	"strings"
	"time"

	"meascodec/pkg/meas/errs"
)

// Unspecified is the location given to timestamps parsed without a zone
// designator. Their wall-clock fields are kept exactly as written.
var Unspecified = time.FixedZone("Unspecified", 0)

// DateTimeKind tells how a timestamp relates to UTC
type DateTimeKind int

const (
	// DateTimeUnspecified marks a timestamp that carried no zone designator
	DateTimeUnspecified DateTimeKind = iota
	// DateTimeUTC marks a timestamp in UTC
	DateTimeUTC
	// DateTimeLocal marks a timestamp in any other location
	DateTimeLocal
)

// String returns the string representation of DateTimeKind
func (k DateTimeKind) String() string {
	switch k {
	case DateTimeUTC:
		return "utc"
	case DateTimeLocal:
		return "local"
	default:
		return "unspecified"
	}
}

const (
	dateTimeLayout      = "2006-01-02T15:04:05.000Z"
	localDateTimeLayout = "2006-01-02T15:04:05.999999999"
)

var zoneSuffix = regexp.MustCompile(`(Z|[+-]\d{2}:\d{2})$`)

// KindOfDateTime returns the kind of t
func KindOfDateTime(t time.Time) DateTimeKind {
	switch t.Location() {
	case time.UTC:
		return DateTimeUTC
	case Unspecified:
		return DateTimeUnspecified
	default:
		return DateTimeLocal
	}
}

// FormatDateTime renders t in extended ISO 8601 with milliseconds and a trailing Z.
// t must be in UTC.
func FormatDateTime(t time.Time) (string, error) {
	if err := RequireUTC(t, "xsd.FormatDateTime"); err != nil {
		return "", err
	}
	return t.Format(dateTimeLayout), nil
}

// RequireUTC returns a DateTime kind error unless t is in UTC
func RequireUTC(t time.Time, op string) error {
	if KindOfDateTime(t) != DateTimeUTC {
		return errs.DateTimeKindf(op, "DateTime must have UTC kind, got %s (%s)",
			KindOfDateTime(t), t.Location())
	}
	return nil
}

// ParseDateTime parses an ISO 8601 timestamp. Values with Z or an explicit offset
// are converted to UTC; values without a zone get the Unspecified location and
// are not shifted.
func ParseDateTime(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, errs.InvalidArgumentf("xsd.ParseDateTime", "Failed to parse DateTime %q", s)
	}

	if zoneSuffix.MatchString(trimmed) {
		t, err := time.Parse(time.RFC3339Nano, trimmed)
		if err != nil {
			return time.Time{}, errs.InvalidArgumentf("xsd.ParseDateTime", "Failed to parse DateTime %q", s)
		}
		return t.UTC(), nil
	}

	t, err := time.ParseInLocation(localDateTimeLayout, trimmed, Unspecified)
	if err != nil {
		return time.Time{}, errs.InvalidArgumentf("xsd.ParseDateTime", "Failed to parse DateTime %q", s)
	}
	return t, nil
}

// ToUTC converts t to UTC unless its kind is unspecified, in which case t is
// returned untouched.
func ToUTC(t time.Time) time.Time {
	if KindOfDateTime(t) == DateTimeUnspecified {
		return t
	}
	return t.UTC()
}
