package xsd

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"meascodec/pkg/meas/errs"
)

var integerPattern = regexp.MustCompile(`^[+-]?\d+$`)

// FormatInt32 renders v as a decimal integer
func FormatInt32(v int32) string {
	return strconv.FormatInt(int64(v), 10)
}

// FormatInt64 renders v as a decimal integer
func FormatInt64(v int64) string {
	return strconv.FormatInt(v, 10)
}

// ParseInt32 parses a decimal 32-bit integer
func ParseInt32(s string) (int32, error) {
	v, err := parseInteger(s, 32, "int32", "xsd.ParseInt32")
	return int32(v), err
}

// ParseInt64 parses a decimal 64-bit integer
func ParseInt64(s string) (int64, error) {
	return parseInteger(s, 64, "int64", "xsd.ParseInt64")
}

func parseInteger(s string, bitSize int, typeName, op string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	if !integerPattern.MatchString(trimmed) {
		return 0, errs.InvalidArgumentf(op, "Failed to parse %s %q", typeName, s)
	}

	v, err := strconv.ParseInt(trimmed, 10, bitSize)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			if strings.HasPrefix(trimmed, "-") {
				return 0, errs.InvalidArgumentf(op, "Failed to parse %s %q: value too small", typeName, s)
			}
			return 0, errs.InvalidArgumentf(op, "Failed to parse %s %q: value too big", typeName, s)
		}
		return 0, errs.InvalidArgumentf(op, "Failed to parse %s %q", typeName, s)
	}
	return v, nil
}
