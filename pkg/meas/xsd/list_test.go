package xsd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meascodec/pkg/meas/errs"
)

func TestContainsWhitespace(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"abc", false},
		{"", false},
		{"a b", true},
		{"a\tb", true},
		{"line\r\n", true},
		{"nbsp\u00a0", true},
		{"em\u2003space", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ContainsWhitespace(tt.input), "%q", tt.input)
	}
}

func TestEmptyLists(t *testing.T) {
	doubles, err := ParseDoubles(FormatDoubles(nil))
	require.NoError(t, err)
	assert.Empty(t, doubles)
	assert.NotNil(t, doubles)

	ints, err := ParseInt64s(FormatInt64s([]int64{}))
	require.NoError(t, err)
	assert.Empty(t, ints)

	bools, err := ParseBools("")
	require.NoError(t, err)
	assert.Empty(t, bools)

	s, err := FormatStrings(nil)
	require.NoError(t, err)
	assert.Equal(t, "", s)
	assert.Equal(t, []string{}, ParseStrings(s))
}

func TestListIrregularSpacing(t *testing.T) {
	regular, err := ParseDoubles("1.5 2 -3")
	require.NoError(t, err)

	irregular, err := ParseDoubles("  1.5   2\t\n-3  ")
	require.NoError(t, err)

	assert.Equal(t, regular, irregular)
	assert.Equal(t, []float64{1.5, 2, -3}, irregular)

	assert.Equal(t, []string{"a", "b", "cc", "ddd"}, ParseStrings(" a  b cc\nddd "))
}

func TestListRoundTrips(t *testing.T) {
	assert.Equal(t, "0 10.1 -3.8 2E+15", FormatDoubles([]float64{0, 10.1, -3.8, 2e15}))

	i32, err := ParseInt32s(FormatInt32s([]int32{1, -2, 3}))
	require.NoError(t, err)
	assert.Equal(t, []int32{1, -2, 3}, i32)

	bools, err := ParseBools(FormatBools([]bool{true, false, true}))
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, bools)

	times := []time.Time{
		time.Date(2021, 5, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2021, 5, 1, 10, 0, 1, 500_000_000, time.UTC),
	}
	encoded, err := FormatDateTimes(times)
	require.NoError(t, err)
	assert.Equal(t, "2021-05-01T10:00:00.000Z 2021-05-01T10:00:01.500Z", encoded)
	decoded, err := ParseDateTimes(encoded)
	require.NoError(t, err)
	assert.Equal(t, times, decoded)

	s, err := FormatStrings([]string{"a", "b", "cc", "ddd"})
	require.NoError(t, err)
	assert.Equal(t, "a b cc ddd", s)
}

func TestListFailures(t *testing.T) {
	_, err := ParseDoubles("1 2 x 4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to parse double")

	_, err = ParseInt64s("1 9223372036854775808")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too big")

	_, err = FormatDateTimes([]time.Time{time.Date(2021, 1, 1, 0, 0, 0, 0, time.FixedZone("X", 3600))})
	require.Error(t, err)
	assert.True(t, errs.IsDateTimeKind(err))
}

func TestFormatStringsRejectsWhitespace(t *testing.T) {
	for _, item := range []string{"a b", "tab\t", "cr\r", "lf\n"} {
		_, err := FormatStrings([]string{"ok", item})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "List item must not contain whitespaces")
		assert.True(t, errs.IsInvalidArgument(err))
	}

	_, err := FormatStrings([]string{"ok", ""})
	require.Error(t, err)
}
