package xsd

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"meascodec/pkg/meas/errs"
)

var durationPattern = regexp.MustCompile(`^(-)?PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?$`)

// FormatDuration renders d using the hours/minutes/seconds subset of ISO 8601,
// e.g. "PT15H", "PT1H30M", "PT2.5S". A zero duration is "PT0S".
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return "PT0S"
	}

	var b strings.Builder
	if d < 0 {
		b.WriteString("-")
		d = -d
	}
	b.WriteString("PT")

	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute

	if hours > 0 {
		fmt.Fprintf(&b, "%dH", hours)
	}
	if minutes > 0 {
		fmt.Fprintf(&b, "%dM", minutes)
	}
	if d > 0 {
		b.WriteString(formatSeconds(d))
		b.WriteString("S")
	}
	return b.String()
}

func formatSeconds(d time.Duration) string {
	whole := d / time.Second
	frac := d % time.Second
	if frac == 0 {
		return strconv.FormatInt(int64(whole), 10)
	}
	s := fmt.Sprintf("%d.%09d", whole, frac)
	return strings.TrimRight(s, "0")
}

// ParseDuration parses the hours/minutes/seconds subset of an ISO 8601 duration.
// Years, months and days are rejected.
func ParseDuration(s string) (time.Duration, error) {
	trimmed := strings.TrimSpace(s)
	m := durationPattern.FindStringSubmatch(trimmed)
	if m == nil || (m[2] == "" && m[3] == "" && m[4] == "") {
		return 0, errs.InvalidArgumentf("xsd.ParseDuration", "Failed to parse duration %q", s)
	}

	var (
		total time.Duration
		ok    bool
	)
	if m[2] != "" {
		h, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil || h > math.MaxInt64/int64(time.Hour) {
			return 0, errs.InvalidArgumentf("xsd.ParseDuration", "Failed to parse duration %q: hours out of range", s)
		}
		if total, ok = addDuration(total, time.Duration(h)*time.Hour); !ok {
			return 0, errs.InvalidArgumentf("xsd.ParseDuration", "Failed to parse duration %q: out of range", s)
		}
	}
	if m[3] != "" {
		mins, err := strconv.ParseInt(m[3], 10, 64)
		if err != nil || mins > math.MaxInt64/int64(time.Minute) {
			return 0, errs.InvalidArgumentf("xsd.ParseDuration", "Failed to parse duration %q: minutes out of range", s)
		}
		if total, ok = addDuration(total, time.Duration(mins)*time.Minute); !ok {
			return 0, errs.InvalidArgumentf("xsd.ParseDuration", "Failed to parse duration %q: out of range", s)
		}
	}
	if m[4] != "" {
		secs, err := time.ParseDuration(m[4] + "s")
		if err != nil {
			return 0, errs.InvalidArgumentf("xsd.ParseDuration", "Failed to parse duration %q: seconds out of range", s)
		}
		if total, ok = addDuration(total, secs); !ok {
			return 0, errs.InvalidArgumentf("xsd.ParseDuration", "Failed to parse duration %q: out of range", s)
		}
	}

	if m[1] == "-" {
		total = -total
	}
	return total, nil
}

func addDuration(total, part time.Duration) (time.Duration, bool) {
	if part > 0 && total > math.MaxInt64-part {
		return 0, false
	}
	return total + part, true
}
