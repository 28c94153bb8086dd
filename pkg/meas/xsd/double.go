package xsd

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"meascodec/pkg/meas/errs"
)

// Decimal exponents in [minPlainExponent, maxPlainExponent) are written without
// scientific notation.
const (
	minPlainExponent = -4
	maxPlainExponent = 15
)

var doublePattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// FormatDouble renders v with the minimal number of digits that round-trips.
// Whole numbers have no fraction ("0", "12"), magnitudes outside the plain range
// use an upper-case exponent with a sign and at least two digits ("2E+15", "1E-05").
func FormatDouble(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "INF"
	case math.IsInf(v, -1):
		return "-INF"
	case v == 0:
		if math.Signbit(v) {
			return "-0"
		}
		return "0"
	}

	sci := strconv.FormatFloat(v, 'e', -1, 64)
	mantissa, expPart, _ := strings.Cut(sci, "e")
	exp, _ := strconv.Atoi(expPart)

	if exp >= minPlainExponent && exp < maxPlainExponent {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	sign := "+"
	if exp < 0 {
		sign = "-"
		exp = -exp
	}
	expDigits := strconv.Itoa(exp)
	if len(expDigits) < 2 {
		expDigits = "0" + expDigits
	}
	return mantissa + "E" + sign + expDigits
}

// ParseDouble parses an XML Schema double. Surrounding whitespace is ignored.
func ParseDouble(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)

	switch trimmed {
	case "NaN":
		return math.NaN(), nil
	case "INF", "+INF":
		return math.Inf(1), nil
	case "-INF":
		return math.Inf(-1), nil
	}

	if !doublePattern.MatchString(trimmed) {
		return 0, errs.InvalidArgumentf("xsd.ParseDouble", "Failed to parse double %q", s)
	}

	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		// Out-of-range magnitudes saturate to infinity or zero, which is what
		// the schema datatype prescribes.
		if errors.Is(err, strconv.ErrRange) {
			return v, nil
		}
		return 0, errs.InvalidArgumentf("xsd.ParseDouble", "Failed to parse double %q", s)
	}
	return v, nil
}
