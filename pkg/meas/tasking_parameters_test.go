package meas

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meascodec/pkg/meas/errs"
	"meascodec/pkg/meas/xmltree"
)

func TestTaskingParametersRoundTrip(t *testing.T) {
	setpoints := NewDataRecord()
	require.NoError(t, setpoints.Add("low", NewMeasurement("Cel", 18)))
	require.NoError(t, setpoints.Add("high", NewMeasurement("Cel", 24)))

	rec := NewDataRecord()
	require.NoError(t, rec.Add("mode", NewCategory("auto")))
	require.NoError(t, rec.Add("setpoints", setpoints))
	require.NoError(t, rec.Add("enabled", NewBoolean(true)))

	doc, root := xmltree.NewDocument(xmltree.NSSPS, "Submit")
	ctx := NewWriteOptions(WithParameterPrefix("test-")).NewEncodeContext()
	_, err := EncodeTaskingParameters(root, rec, ctx)
	require.NoError(t, err)

	data, err := xmltree.WriteDocument(doc, 2, "test")
	require.NoError(t, err)
	xml := string(data)
	assert.Contains(t, xml, `name="test-1"`)
	assert.Contains(t, xml, `name="test-2"`)
	assert.Contains(t, xml, `name="test-3"`)
	assert.Contains(t, xml, `<swe:label>setpoints</swe:label>`)
	assert.Contains(t, xml, `<swe:XMLEncoding/>`)

	parsed, err := xmltree.ReadDocument(data, xmltree.NSSPS, "Submit", "test")
	require.NoError(t, err)
	decoded, err := DecodeTaskingParameters(xmltree.FirstChild(parsed, xmltree.NSSPS, "taskingParameters"))
	require.NoError(t, err)

	assert.Equal(t, []string{"mode", "setpoints", "enabled"}, decoded.Names())
	sp, ok := decoded.Get("setpoints")
	require.True(t, ok)
	assert.Equal(t, []string{"low", "high"}, sp.(*DataRecord).Names())
	mode, _ := decoded.Get("mode")
	assert.Equal(t, "auto", mode.(*Category).Value)
}

func TestTaskingParametersNilContext(t *testing.T) {
	rec := NewDataRecord()
	require.NoError(t, rec.Add("mode", NewCategory("auto")))
	require.NoError(t, rec.Add("enabled", NewBoolean(true)))

	el, err := EncodeTaskingParameters(etree.NewElement("holder"), rec, nil)
	require.NoError(t, err)
	var names []string
	for _, field := range el.FindElements(".//swe:field") {
		names = append(names, field.SelectAttrValue("name", ""))
	}
	assert.Equal(t, []string{DefaultParameterPrefix + "1", DefaultParameterPrefix + "2"}, names)
}

func TestTaskingParametersEmpty(t *testing.T) {
	rec, err := DecodeTaskingParameters(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Len())

	holder := etree.NewElement("holder")
	el, err := EncodeTaskingParameters(holder, NewDataRecord(), NewWriteOptions().NewEncodeContext())
	require.NoError(t, err)

	rec, err = DecodeTaskingParameters(el)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Len())
}

func TestTaskingParametersRequireLabels(t *testing.T) {
	data := []byte(`<sps:taskingParameters xmlns:sps="http://www.opengis.net/sps/2.0" xmlns:swe="http://www.opengis.net/swe/2.0">
  <sps:ParameterData>
    <sps:encoding><swe:XMLEncoding/></sps:encoding>
    <sps:values>
      <swe:DataRecord>
        <swe:field name="param-1"><swe:Count><swe:value>1</swe:value></swe:Count></swe:field>
      </swe:DataRecord>
    </sps:values>
  </sps:ParameterData>
</sps:taskingParameters>`)

	root, err := xmltree.ReadRoot(data, "test")
	require.NoError(t, err)
	_, err = DecodeTaskingParameters(root)
	require.Error(t, err)
	assert.True(t, errs.IsInvalidMessage(err))
	assert.Contains(t, err.Error(), `tasking parameter "param-1" has no swe:label`)
}
