package coverage

import (
	"bytes"
	"compress/gzip"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meascodec/pkg/meas"
)

const twoStationResponse = `<?xml version="1.0" encoding="UTF-8"?>
<wfs:FeatureCollection timeStamp="2025-08-30T10:33:46Z" numberMatched="1" numberReturned="1"
  xmlns:wfs="http://www.opengis.net/wfs/2.0"
  xmlns:xlink="http://www.w3.org/1999/xlink"
  xmlns:om="http://www.opengis.net/om/2.0"
  xmlns:omso="http://inspire.ec.europa.eu/schemas/omso/3.0"
  xmlns:gml="http://www.opengis.net/gml/3.2"
  xmlns:swe="http://www.opengis.net/swe/2.0"
  xmlns:gmlcov="http://www.opengis.net/gmlcov/1.0"
  xmlns:sam="http://www.opengis.net/sampling/2.0"
  xmlns:sams="http://www.opengis.net/samplingSpatial/2.0"
  xmlns:target="http://xml.fmi.fi/namespace/om/atmosphericfeatures/1.1">
  <wfs:member>
    <omso:GridSeriesObservation gml:id="obs-1">
      <om:resultTime>
        <gml:TimeInstant gml:id="time-1">
          <gml:timePosition>2025-08-30T10:30:00Z</gml:timePosition>
        </gml:TimeInstant>
      </om:resultTime>
      <om:procedure xlink:href="http://xml.fmi.fi/inspire/process/opendata"/>
      <om:observedProperty xlink:href="https://opendata.fmi.fi/meta?observableProperty=observation&amp;param=windspeedms,winddirection&amp;language=eng"/>
      <om:featureOfInterest>
        <sams:SF_SpatialSamplingFeature gml:id="sampling-feature-1">
          <sam:sampledFeature>
            <target:LocationCollection gml:id="locations-1">
              <target:member>
                <target:Location gml:id="loc-100996">
                  <gml:identifier codeSpace="http://xml.fmi.fi/namespace/stationcode/fmisid">100996</gml:identifier>
                  <gml:name codeSpace="http://xml.fmi.fi/namespace/locationcode/name">Helsinki Harmaja</gml:name>
                  <gml:name codeSpace="http://xml.fmi.fi/namespace/locationcode/wmo">2795</gml:name>
                  <target:region codeSpace="http://xml.fmi.fi/namespace/location/region">Helsinki</target:region>
                </target:Location>
              </target:member>
              <target:member>
                <target:Location gml:id="loc-101023">
                  <gml:identifier codeSpace="http://xml.fmi.fi/namespace/stationcode/fmisid">101023</gml:identifier>
                  <gml:name codeSpace="http://xml.fmi.fi/namespace/locationcode/name">Porvoo Emäsalo</gml:name>
                  <target:region codeSpace="http://xml.fmi.fi/namespace/location/region">Porvoo</target:region>
                </target:Location>
              </target:member>
            </target:LocationCollection>
          </sam:sampledFeature>
          <sams:shape>
            <gml:MultiPoint gml:id="mp-1">
              <gml:pointMember>
                <gml:Point gml:id="point-1" srsName="http://www.opengis.net/def/crs/EPSG/0/4258" srsDimension="2">
                  <gml:name>Helsinki Harmaja</gml:name>
                  <gml:pos>60.10512 24.97539 </gml:pos>
                </gml:Point>
              </gml:pointMember>
              <gml:pointMember>
                <gml:Point gml:id="point-2" srsName="http://www.opengis.net/def/crs/EPSG/0/4258" srsDimension="2">
                  <gml:name>Porvoo Emäsalo</gml:name>
                  <gml:pos>60.20382 25.62546 </gml:pos>
                </gml:Point>
              </gml:pointMember>
            </gml:MultiPoint>
          </sams:shape>
        </sams:SF_SpatialSamplingFeature>
      </om:featureOfInterest>
      <om:result>
        <gmlcov:MultiPointCoverage gml:id="mpcv-1">
          <gml:domainSet>
            <gmlcov:SimpleMultiPoint gml:id="mp-2" srsDimension="3">
              <gmlcov:positions>
                60.10512 24.97539  1756548000
                60.10512 24.97539  1756548600
                60.20382 25.62546  1756548000
                60.20382 25.62546  1756548600
              </gmlcov:positions>
            </gmlcov:SimpleMultiPoint>
          </gml:domainSet>
          <gml:rangeSet>
            <gml:DataBlock>
              <gml:rangeParameters/>
              <gml:doubleOrNilReasonTupleList>
                7.2 245.0
                8.1 250.0
                NaN 190.0
                5.4 195.0
              </gml:doubleOrNilReasonTupleList>
            </gml:DataBlock>
          </gml:rangeSet>
          <gmlcov:rangeType>
            <swe:DataRecord>
              <swe:field name="windspeedms" xlink:href="https://opendata.fmi.fi/meta?param=windspeedms"/>
              <swe:field name="winddirection" xlink:href="https://opendata.fmi.fi/meta?param=winddirection"/>
            </swe:DataRecord>
          </gmlcov:rangeType>
        </gmlcov:MultiPointCoverage>
      </om:result>
    </omso:GridSeriesObservation>
  </wfs:member>
</wfs:FeatureCollection>`

func TestParse(t *testing.T) {
	opts := Options{Units: map[string]string{"windspeedms": "m/s", "winddirection": "deg"}, FeaturePrefix: "fmisid:"}
	observations, err := Parse(strings.NewReader(twoStationResponse), opts)
	require.NoError(t, err)
	require.Len(t, observations, 4)

	first := observations[0]
	assert.Equal(t, "Helsinki Harmaja", first.Name)
	assert.Equal(t, "fmisid:100996", first.FeatureOfInterest)
	assert.Equal(t, "windspeedms", first.ObservedProperty)
	assert.Equal(t, "http://xml.fmi.fi/inspire/process/opendata", first.Procedure)
	assert.Equal(t, time.Date(2025, 8, 30, 10, 30, 0, 0, time.UTC), first.ResultTime)

	ts, ok := first.Result.(*meas.TimeSeriesFlexible)
	require.True(t, ok)
	assert.Equal(t, "m/s", ts.UnitOfMeasure)
	assert.Equal(t, []float64{7.2, 8.1}, ts.Values)
	assert.Equal(t, time.Unix(1756548000, 0).UTC(), ts.Timestamps[0])

	period, ok := first.PhenomenonTime.(*meas.TimeRange)
	require.True(t, ok)
	assert.Equal(t, 10*time.Minute, period.Duration())

	assert.Equal(t, "winddirection", observations[1].ObservedProperty)
	assert.Equal(t, "deg", observations[1].Result.(*meas.TimeSeriesFlexible).UnitOfMeasure)

	emasalo := observations[2].Result.(*meas.TimeSeriesFlexible)
	assert.Equal(t, "fmisid:101023", observations[2].FeatureOfInterest)
	assert.True(t, math.IsNaN(emasalo.Values[0]))
	assert.False(t, emasalo.PointQualities[0].IsGood())
	assert.Equal(t, MissingReason, emasalo.PointQualities[0].Reason())
	assert.True(t, emasalo.PointQualities[1].IsGood())
}

func TestReadGzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(twoStationResponse))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	observations, err := Read(&buf, Options{})
	require.NoError(t, err)
	require.Len(t, observations, 4)
	assert.Equal(t, DefaultUnit, observations[0].Result.(*meas.TimeSeriesFlexible).UnitOfMeasure)
}

func TestParameterNamesFromURL(t *testing.T) {
	doc := strings.Replace(twoStationResponse, `<swe:field name="windspeedms" xlink:href="https://opendata.fmi.fi/meta?param=windspeedms"/>`, "", 1)
	doc = strings.Replace(doc, `<swe:field name="winddirection" xlink:href="https://opendata.fmi.fi/meta?param=winddirection"/>`, "", 1)

	observations, err := Parse(strings.NewReader(doc), Options{})
	require.NoError(t, err)
	assert.Equal(t, "windspeedms", observations[0].ObservedProperty)
	assert.Equal(t, "winddirection", observations[1].ObservedProperty)
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		expected string
	}{
		{"not xml", "garbage", "failed to decode XML"},
		{"no members", `<FeatureCollection/>`, "no observation data"},
		{"count mismatch", strings.Replace(twoStationResponse, "5.4 195.0", "", 1), "position count (4) doesn't match data count (3)"},
		{"bad positions", strings.Replace(twoStationResponse, "1756548600\n                60.20382", "\n                60.20382", 1), "expected triplets"},
		{"short tuple", strings.Replace(twoStationResponse, "8.1 250.0", "8.1", 1), "tuple 1 has 1 values, expected 2"},
		{"bad value", strings.Replace(twoStationResponse, "8.1 250.0", "8.1 east", 1), "failed to parse data values"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc), Options{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestParsePositions(t *testing.T) {
	positions, err := ParsePositions("60.1 24.9 0\n 61.5 23.7 60")
	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.Equal(t, Position{Lat: 61.5, Lon: 23.7, Timestamp: time.Unix(60, 0).UTC()}, positions[1])

	_, err = ParsePositions("60.1 24.9 soon")
	assert.ErrorContains(t, err, "invalid timestamp at position 2")
}

func TestUnknownCoordinatesBecomeLocations(t *testing.T) {
	doc := strings.Replace(twoStationResponse, "<gml:pos>60.20382 25.62546 </gml:pos>", "<gml:pos>0 0</gml:pos>", 1)
	observations, err := Parse(strings.NewReader(doc), Options{})
	require.NoError(t, err)
	require.Len(t, observations, 4)

	var features []string
	for _, o := range observations {
		features = append(features, o.FeatureOfInterest)
	}
	assert.Contains(t, features, "60.20382,25.62546")
}
