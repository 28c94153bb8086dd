package xsd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meascodec/pkg/meas/errs"
)

func TestParseInt64(t *testing.T) {
	v, err := ParseInt64(" 9223372036854775807 ")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), v)

	v, err = ParseInt64("-9223372036854775808")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), v)

	_, err = ParseInt64("9223372036854775808")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too big")
	assert.True(t, errs.IsInvalidArgument(err))

	_, err = ParseInt64("-9223372036854775809")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too small")
}

func TestParseInt32(t *testing.T) {
	v, err := ParseInt32("-2147483648")
	require.NoError(t, err)
	assert.Equal(t, int32(math.MinInt32), v)

	_, err = ParseInt32("2147483648")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too big")

	_, err = ParseInt32("-2147483649")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too small")
}

func TestParseIntegerRejectsNonDecimal(t *testing.T) {
	for _, input := range []string{"", "1.0", "0x1F", "1e3", "12a", "1 2"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseInt64(input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "Failed to parse int64")

			_, err = ParseInt32(input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "Failed to parse int32")
		})
	}
}

func TestFormatIntegers(t *testing.T) {
	assert.Equal(t, "-42", FormatInt32(-42))
	assert.Equal(t, "9223372036854775807", FormatInt64(math.MaxInt64))
}

func TestBool(t *testing.T) {
	assert.Equal(t, "true", FormatBool(true))
	assert.Equal(t, "false", FormatBool(false))

	tests := []struct {
		input    string
		expected bool
	}{
		{"true", true},
		{" 1 ", true},
		{"false", false},
		{"0", false},
	}
	for _, tt := range tests {
		v, err := ParseBool(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, v, tt.input)
	}

	for _, input := range []string{"True", "FALSE", "yes", "", "2"} {
		_, err := ParseBool(input)
		assert.Error(t, err, input)
	}
}
