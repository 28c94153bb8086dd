package xsd

import (
	"strings"
	"time"

	"meascodec/pkg/meas/errs"
)

// FormatList encodes each value and joins the results with single spaces.
// An empty slice yields an empty string.
func FormatList[T any](values []T, format func(T) (string, error)) (string, error) {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		s, err := format(v)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " "), nil
}

// ParseList splits s on runs of whitespace and parses every token. Leading,
// trailing and repeated separators are tolerated; an empty input yields an
// empty, non-nil slice.
func ParseList[T any](s string, parse func(string) (T, error)) ([]T, error) {
	tokens := strings.Fields(s)
	values := make([]T, 0, len(tokens))
	for _, token := range tokens {
		v, err := parse(token)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func infallible[T any](format func(T) string) func(T) (string, error) {
	return func(v T) (string, error) {
		return format(v), nil
	}
}

// FormatDoubles encodes a list of doubles
func FormatDoubles(values []float64) string {
	s, _ := FormatList(values, infallible(FormatDouble))
	return s
}

// ParseDoubles decodes a list of doubles
func ParseDoubles(s string) ([]float64, error) {
	return ParseList(s, ParseDouble)
}

// FormatInt32s encodes a list of 32-bit integers
func FormatInt32s(values []int32) string {
	s, _ := FormatList(values, infallible(FormatInt32))
	return s
}

// ParseInt32s decodes a list of 32-bit integers
func ParseInt32s(s string) ([]int32, error) {
	return ParseList(s, ParseInt32)
}

// FormatInt64s encodes a list of 64-bit integers
func FormatInt64s(values []int64) string {
	s, _ := FormatList(values, infallible(FormatInt64))
	return s
}

// ParseInt64s decodes a list of 64-bit integers
func ParseInt64s(s string) ([]int64, error) {
	return ParseList(s, ParseInt64)
}

// FormatBools encodes a list of booleans
func FormatBools(values []bool) string {
	s, _ := FormatList(values, infallible(FormatBool))
	return s
}

// ParseBools decodes a list of booleans
func ParseBools(s string) ([]bool, error) {
	return ParseList(s, ParseBool)
}

// FormatDateTimes encodes a list of UTC timestamps
func FormatDateTimes(values []time.Time) (string, error) {
	return FormatList(values, FormatDateTime)
}

// ParseDateTimes decodes a list of timestamps
func ParseDateTimes(s string) ([]time.Time, error) {
	return ParseList(s, ParseDateTime)
}

// FormatStrings joins values with spaces. It fails before producing any output
// if an item contains whitespace, since whitespace is the separator.
func FormatStrings(values []string) (string, error) {
	for i, v := range values {
		if v == "" {
			return "", errs.InvalidArgumentf("xsd.FormatStrings", "List item must not be empty (item %d)", i)
		}
		if ContainsWhitespace(v) {
			return "", errs.InvalidArgumentf("xsd.FormatStrings",
				"List item must not contain whitespaces (item %d: %q)", i, v)
		}
	}
	return strings.Join(values, " "), nil
}

// ParseStrings splits s on runs of whitespace
func ParseStrings(s string) []string {
	tokens := strings.Fields(s)
	if tokens == nil {
		return []string{}
	}
	return tokens
}
