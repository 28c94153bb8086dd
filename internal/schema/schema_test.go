package schema

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meascodec/pkg/meas"
	"meascodec/pkg/meas/xmltree"
)

const (
	statusReportNS = `xmlns:sps="http://www.opengis.net/sps/2.0"`
	componentNS    = `xmlns:swe="http://www.opengis.net/swe/2.0" xmlns:xlink="http://www.w3.org/1999/xlink"`
	timeseriesNS   = componentNS + ` xmlns:tsml="http://www.opengis.net/tsml/1.0" xmlns:gml="http://www.opengis.net/gml/3.2"`
)

func TestDefaultSettingsLoadsOnce(t *testing.T) {
	s := DefaultSettings()
	require.NotNil(t, s)
	assert.Same(t, s, DefaultSettings())
	assert.Greater(t, s.Len(), 30)
}

func TestValidateAcceptsWellFormedDocument(t *testing.T) {
	data := []byte(`<sps:StatusReport ` + statusReportNS + `>
  <sps:task>t1</sps:task>
  <sps:procedure>p1</sps:procedure>
  <sps:requestStatus>Pending</sps:requestStatus>
  <sps:updateTime>2020-01-01T00:00:00.000Z</sps:updateTime>
</sps:StatusReport>`)

	assert.NoError(t, DefaultSettings().Validate(data))
}

func TestValidateReportsProblems(t *testing.T) {
	tests := []struct {
		name     string
		xml      string
		expected string
	}{
		{
			"missing child",
			`<sps:StatusReport ` + statusReportNS + `><sps:task>t</sps:task></sps:StatusReport>`,
			"/sps:StatusReport: missing child sps:procedure",
		},
		{
			"out of order",
			`<sps:StatusReport ` + statusReportNS + `><sps:procedure>p</sps:procedure><sps:task>t</sps:task>
			<sps:requestStatus>Pending</sps:requestStatus><sps:updateTime>x</sps:updateTime></sps:StatusReport>`,
			"child sps:task is out of order",
		},
		{
			"unexpected child",
			`<sps:Cancel ` + statusReportNS + ` service="SPS" version="2.0.0"><sps:task>t</sps:task><sps:since>x</sps:since></sps:Cancel>`,
			"unexpected child sps:since",
		},
		{
			"missing attribute",
			`<sps:Cancel ` + statusReportNS + `><sps:task>t</sps:task></sps:Cancel>`,
			"missing attribute service",
		},
		{
			"qualified attribute",
			`<gml:TimeInstant xmlns:gml="http://www.opengis.net/gml/3.2"><gml:timePosition>x</gml:timePosition></gml:TimeInstant>`,
			"missing attribute gml:id",
		},
		{
			"unknown namespace",
			`<x:Thing xmlns:x="urn:example"/>`,
			"element is not in a known namespace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DefaultSettings().Validate([]byte(tt.xml))
			require.Error(t, err)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestValidateAggregateComponentShape(t *testing.T) {
	tests := []struct {
		name     string
		xml      string
		expected string
	}{
		{
			"record quality after field",
			`<swe:DataRecord ` + componentNS + `><swe:field name="a"><swe:Count><swe:value>1</swe:value></swe:Count></swe:field>
			<swe:quality xlink:href="good"/></swe:DataRecord>`,
			"/swe:DataRecord: child swe:quality is out of order",
		},
		{
			"record label after quality",
			`<swe:DataRecord ` + componentNS + `><swe:quality xlink:href="good"/><swe:label>x</swe:label></swe:DataRecord>`,
			"/swe:DataRecord: child swe:label is out of order",
		},
		{
			"record unexpected child",
			`<swe:DataRecord ` + componentNS + `><swe:uom code="m"/></swe:DataRecord>`,
			"/swe:DataRecord: unexpected child swe:uom",
		},
		{
			"array quality after members",
			`<swe:DataArray ` + componentNS + `><swe:elementCount><swe:Count><swe:value>0</swe:value></swe:Count></swe:elementCount>
			<swe:quality xlink:href="good"/></swe:DataArray>`,
			"/swe:DataArray: child swe:quality is out of order",
		},
		{
			"timeseries quality after points",
			`<tsml:MeasurementTimeseries ` + timeseriesNS + ` gml:id="ts1"><tsml:point/><swe:quality xlink:href="good"/></tsml:MeasurementTimeseries>`,
			"/tsml:MeasurementTimeseries: child swe:quality is out of order",
		},
		{
			"timeseries unexpected child",
			`<tsml:MeasurementTimeseries ` + timeseriesNS + ` gml:id="ts1"><swe:value>1</swe:value></tsml:MeasurementTimeseries>`,
			"/tsml:MeasurementTimeseries: unexpected child swe:value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DefaultSettings().Validate([]byte(tt.xml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestValidateAcceptsEncodedAggregates(t *testing.T) {
	bad, err := meas.Bad("calibration")
	require.NoError(t, err)

	ts, err := meas.NewTimeSeriesConstant("Cel", time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC), time.Hour)
	require.NoError(t, err)
	ts.Add(20.5, meas.Good())
	ts.Quality = &bad

	inner := meas.NewDataRecord()
	inner.Quality = &bad
	require.NoError(t, inner.Add("depth", meas.NewMeasurement("m", 2)))
	array := meas.NewArray(meas.NewCount(1), meas.NewCount(2))
	array.Quality = &bad

	rec := meas.NewDataRecord()
	require.NoError(t, rec.Add("setpoints", inner))
	require.NoError(t, rec.Add("pumps", array))
	require.NoError(t, rec.Add("series", ts))

	doc, root := xmltree.NewDocument(xmltree.NSSWES, "extension")
	_, err = meas.EncodeTaskingParameters(root, rec, meas.NewWriteOptions().NewEncodeContext())
	require.NoError(t, err)
	data, err := xmltree.WriteDocument(doc, 2, "test")
	require.NoError(t, err)

	assert.NoError(t, DefaultSettings().Validate(data))
}

func TestLoadSettings(t *testing.T) {
	custom, err := LoadSettings([]byte(`
elements:
  sps:Cancel:
    required: [sps:task]
`))
	require.NoError(t, err)

	merged := DefaultSettings().Merge(custom)
	assert.Equal(t, DefaultSettings().Len(), merged.Len())
	assert.NoError(t, merged.Validate([]byte(`<sps:Cancel `+statusReportNS+`><sps:task>t</sps:task></sps:Cancel>`)))

	_, err = LoadSettings([]byte(`elements: {Cancel: {}}`))
	assert.ErrorContains(t, err, "has no prefix")

	_, err = LoadSettings([]byte(`elements: {foo:Cancel: {}}`))
	assert.ErrorContains(t, err, "unknown prefix")

	_, err = LoadSettings([]byte(`elements: [`))
	assert.ErrorContains(t, err, "invalid schema rules yaml")
}
