package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeExample(t *testing.T, dir, kind string, extra ...string) string {
	t.Helper()
	out, _, err := run(t, append([]string{"example", kind}, extra...)...)
	require.NoError(t, err)
	path := filepath.Join(dir, kind+".xml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o644))
	return path
}

func TestExamplesValidate(t *testing.T) {
	dir := t.TempDir()
	for name := range exampleBuilders {
		t.Run(name, func(t *testing.T) {
			path := writeExample(t, dir, name)
			out, _, err := run(t, "validate", path)
			require.NoError(t, err)
			assert.Contains(t, out, "ok")
		})
	}
}

func TestExampleUnknownKind(t *testing.T) {
	_, _, err := run(t, "example", "teapot")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown example teapot")
}

func TestInspect(t *testing.T) {
	path := writeExample(t, t.TempDir(), "submit")

	out, _, err := run(t, "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "sps:Submit")
	assert.Contains(t, out, exampleProcedure)
	assert.Contains(t, out, "parameter setpoint")

	out, _, err = run(t, "inspect", "--json", path)
	require.NoError(t, err)
	var fields []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &fields))
	require.NotEmpty(t, fields)
	assert.Equal(t, map[string]string{"name": "kind", "value": "sps:Submit"}, fields[0])
}

func TestRoundtripUsesFlags(t *testing.T) {
	dir := t.TempDir()
	path := writeExample(t, dir, "insert-observation")

	target := filepath.Join(dir, "out.xml")
	_, _, err := run(t, "roundtrip", "--indent", "0", "--id-prefix", "rt_", "-o", target, path)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `gml:id="rt_obs_1"`)
	assert.NotContains(t, string(data), "\n  <")
}

func TestRoundtripReadsEnvironment(t *testing.T) {
	path := writeExample(t, t.TempDir(), "status-report")
	t.Setenv("MEASCODEC_PARAMETER_PREFIX", "p")

	out, _, err := run(t, "roundtrip", path)
	require.NoError(t, err)
	assert.Contains(t, out, `name="p1"`)
}

func TestRoundtripReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeExample(t, dir, "get-observation")
	cfg := filepath.Join(dir, "meascodec.yml")
	require.NoError(t, os.WriteFile(cfg, []byte("output:\n  id_prefix: cfg_\n"), 0o644))

	out, _, err := run(t, "roundtrip", "--config", cfg, path)
	require.NoError(t, err)
	assert.Contains(t, out, `gml:id="cfg_tf_1"`)
}

func TestInvalidConfig(t *testing.T) {
	_, _, err := run(t, "kinds", "--indent", "20")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.output.indent")
}

func TestValidateReportsFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeExample(t, dir, "cancel")
	bad := filepath.Join(dir, "bad.xml")
	require.NoError(t, os.WriteFile(bad, []byte(`<sps:Cancel xmlns:sps="http://www.opengis.net/sps/2.0" service="SPS" version="2.0.0"/>`), 0o644))

	out, _, err := run(t, "validate", "--json", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 documents are invalid")

	var results []validation
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.True(t, results[0].Valid)
	assert.Equal(t, "sps:Cancel", results[0].Kind)
	assert.False(t, results[1].Valid)
	assert.Equal(t, "invalid message", results[1].ErrorKind)
}

func TestBatchWritesMetrics(t *testing.T) {
	dir := t.TempDir()
	writeExample(t, dir, "submit")
	writeExample(t, dir, "get-status")
	metricsFile := filepath.Join(t.TempDir(), "meascodec.prom")

	out, stderr, err := run(t, "batch", "--workers", "2", "--metrics-file", metricsFile, dir)
	require.NoError(t, err, stderr)
	assert.Contains(t, out, "submit.xml")
	assert.Contains(t, out, "get-status.xml")
	assert.Contains(t, stderr, "batch finished")

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `meascodec_documents_total{kind="sps:Submit",operation="encode"} 1`)
}

func TestBatchEmptyDirectory(t *testing.T) {
	_, _, err := run(t, "batch", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .xml documents")
}

func TestKinds(t *testing.T) {
	out, _, err := run(t, "kinds")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 11)
	assert.Equal(t, "sos:GetObservation", lines[0])
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "meascodec dev (unknown) - unknown\n", out)
}

const coverageResponse = `<wfs:FeatureCollection xmlns:wfs="http://www.opengis.net/wfs/2.0" xmlns:om="http://www.opengis.net/om/2.0"
  xmlns:omso="http://inspire.ec.europa.eu/schemas/omso/3.0" xmlns:gml="http://www.opengis.net/gml/3.2"
  xmlns:gmlcov="http://www.opengis.net/gmlcov/1.0" xmlns:xlink="http://www.w3.org/1999/xlink">
  <wfs:member>
    <omso:GridSeriesObservation gml:id="obs-1">
      <om:procedure xlink:href="urn:example:process"/>
      <om:observedProperty xlink:href="https://example.org/meta?param=temperature,humidity"/>
      <om:result>
        <gmlcov:MultiPointCoverage gml:id="mpcv-1">
          <gml:domainSet>
            <gmlcov:SimpleMultiPoint gml:id="mp-1" srsDimension="3">
              <gmlcov:positions>60.1 24.9 1756548000 60.1 24.9 1756548600</gmlcov:positions>
            </gmlcov:SimpleMultiPoint>
          </gml:domainSet>
          <gml:rangeSet>
            <gml:DataBlock>
              <gml:doubleOrNilReasonTupleList>
                14.5 81
                NaN 80
              </gml:doubleOrNilReasonTupleList>
            </gml:DataBlock>
          </gml:rangeSet>
        </gmlcov:MultiPointCoverage>
      </om:result>
    </omso:GridSeriesObservation>
  </wfs:member>
</wfs:FeatureCollection>`

func TestImportCoverage(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "coverage.xml")
	require.NoError(t, os.WriteFile(source, []byte(coverageResponse), 0o644))

	out, _, err := run(t, "import", "--offering", "urn:example:offering", "--unit", "temperature=Cel", source)
	require.NoError(t, err)
	assert.Contains(t, out, "sos:InsertObservation")
	assert.Contains(t, out, `code="Cel"`)
	assert.Contains(t, out, "bad/missing")

	target := filepath.Join(dir, "insert.xml")
	require.NoError(t, os.WriteFile(target, []byte(out), 0o644))
	_, _, err = run(t, "validate", target)
	require.NoError(t, err)

	inspect, _, err := run(t, "inspect", target)
	require.NoError(t, err)
	assert.Contains(t, inspect, "temperature")
	assert.Contains(t, inspect, "humidity")
}
