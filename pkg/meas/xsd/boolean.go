package xsd

import (
	"strings"

	"meascodec/pkg/meas/errs"
)

// FormatBool renders v as "true" or "false"
func FormatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// ParseBool accepts "true", "false", "1" and "0" (case-sensitive, trimmed)
func ParseBool(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, errs.InvalidArgumentf("xsd.ParseBool", "Failed to parse boolean %q", s)
}
