package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := InvalidArgumentf("xsd.ParseDouble", "Failed to parse double %q", "1,5")
	assert.Equal(t, `Failed to parse double "1,5"`, err.Error())

	wrapped := InvalidMessage(err, "meas.ItemFromElement", "invalid value in swe:Quantity")
	assert.Equal(t, `invalid value in swe:Quantity: Failed to parse double "1,5"`, wrapped.Error())
	assert.True(t, errors.Is(wrapped, err))
}

func TestKindPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
	}{
		{"invalid argument", InvalidArgumentf("op", "bad"), KindInvalidArgument},
		{"datetime", DateTimeKindf("op", "not utc"), KindDateTime},
		{"invalid message", InvalidMessage(nil, "op", "missing"), KindInvalidMessage},
		{"wrapped by fmt", fmt.Errorf("array member 0: %w", DateTimeKindf("op", "not utc")), KindDateTime},
		{"foreign", errors.New("boom"), KindUnknown},
		{"nil", nil, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.Equal(t, tt.kind == KindInvalidArgument, IsInvalidArgument(tt.err))
			assert.Equal(t, tt.kind == KindDateTime, IsDateTimeKind(tt.err))
			assert.Equal(t, tt.kind == KindInvalidMessage, IsInvalidMessage(tt.err))
		})
	}
}

func TestHasKindWalksChain(t *testing.T) {
	cause := DateTimeKindf("xsd.FormatDateTime", "DateTime must have UTC kind")
	err := InvalidMessage(cause, "meas.decodeGMLTime", "invalid gml:timePosition")

	assert.Equal(t, KindInvalidMessage, KindOf(err))
	assert.True(t, HasKind(err, KindDateTime))
	assert.True(t, HasKind(err, KindInvalidMessage))
	assert.False(t, HasKind(err, KindInvalidArgument))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "invalid argument", KindInvalidArgument.String())
	assert.Equal(t, "datetime kind", KindDateTime.String())
	assert.Equal(t, "invalid message", KindInvalidMessage.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
