package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meascodec/pkg/meas/errs"
)

func TestObserveDocument(t *testing.T) {
	m := New()
	m.ObserveDocument("decode", "sos:InsertObservation", 1024)
	m.ObserveDocument("decode", "sos:InsertObservation", 2048)
	m.ObserveDocument("encode", "sps:Submit", 512)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.documentsTotal.WithLabelValues("decode", "sos:InsertObservation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.documentsTotal.WithLabelValues("encode", "sps:Submit")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.documentBytes))
}

func TestObserveFailure(t *testing.T) {
	m := New()
	m.ObserveFailure("decode", errs.InvalidMessage(nil, "op", "missing element"))
	m.ObserveFailure("decode", errors.New("read failed"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.failuresTotal.WithLabelValues("decode", "invalid message")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failuresTotal.WithLabelValues("decode", "unknown")))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveDocument("decode", "sps:GetStatus", 300)

	path := filepath.Join(t.TempDir(), "meascodec.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `meascodec_documents_total{kind="sps:GetStatus",operation="decode"} 1`)
}
