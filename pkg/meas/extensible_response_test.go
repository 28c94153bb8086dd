package meas

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meascodec/pkg/meas/errs"
	"meascodec/pkg/meas/xmltree"
)

func TestExtensibleResponseDefaultWritesNothing(t *testing.T) {
	holder := etree.NewElement("holder")
	var r ExtensibleResponse
	require.NoError(t, r.PopulateToProxy(holder, NewWriteOptions().NewEncodeContext()))
	assert.Empty(t, holder.ChildElements())

	r.ExtensionItems = NewDataRecord()
	require.NoError(t, r.PopulateToProxy(holder, NewWriteOptions().NewEncodeContext()))
	assert.Empty(t, holder.ChildElements())
}

func TestExtensibleResponseMissingExtension(t *testing.T) {
	root, err := xmltree.ReadRoot([]byte(`<sos:InsertObservationResponse xmlns:sos="http://www.opengis.net/sos/2.0"/>`), "test")
	require.NoError(t, err)

	r := ExtensibleResponse{RequestResult: RequestResultOk, RequestResultMessage: "stale"}
	require.NoError(t, r.ReadFromProxy(root))
	assert.Equal(t, RequestResultUnknown, r.RequestResult)
	assert.Empty(t, r.RequestResultMessage)
	assert.Equal(t, 0, r.ExtensionItems.Len())
}

func TestExtensibleResponseRoundTrip(t *testing.T) {
	items := NewDataRecord()
	require.NoError(t, items.Add("batch", NewCount(7)))

	r := ExtensibleResponse{
		RequestResult:        RequestResultServerError,
		RequestResultMessage: "sensor offline",
		ExtensionItems:       items,
	}

	doc, root := xmltree.NewDocument(xmltree.NSSOS, "InsertObservationResponse")
	require.NoError(t, r.PopulateToProxy(root, NewWriteOptions().NewEncodeContext()))
	data, err := xmltree.WriteDocument(doc, 2, "test")
	require.NoError(t, err)
	assert.Contains(t, string(data), `<swe:field name="RequestResult">`)

	parsed, err := xmltree.ReadRoot(data, "test")
	require.NoError(t, err)
	var decoded ExtensibleResponse
	require.NoError(t, decoded.ReadFromProxy(parsed))
	assert.Equal(t, RequestResultServerError, decoded.RequestResult)
	assert.Equal(t, "sensor offline", decoded.RequestResultMessage)
	assert.Equal(t, []string{"batch"}, decoded.ExtensionItems.Names())
}

func TestExtensibleResponseResultCodes(t *testing.T) {
	tests := []struct {
		result RequestResultType
		token  string
	}{
		{RequestResultOk, "Ok"},
		{RequestResultBadRequest, "BadRequest"},
		{RequestResultNotFound, "NotFound"},
		{RequestResultConflict, "Conflict"},
		{RequestResultServerError, "ServerError"},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.token, tt.result.String())
			parsed, err := ParseRequestResultType(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.result, parsed)

			r := ExtensibleResponse{RequestResult: tt.result}
			doc, root := xmltree.NewDocument(xmltree.NSSOS, "InsertObservationResponse")
			require.NoError(t, r.PopulateToProxy(root, NewWriteOptions().NewEncodeContext()))
			data, err := xmltree.WriteDocument(doc, 0, "test")
			require.NoError(t, err)
			assert.Contains(t, string(data), "<swe:value>"+tt.token+"</swe:value>")

			decodedRoot, err := xmltree.ReadRoot(data, "test")
			require.NoError(t, err)
			var decoded ExtensibleResponse
			require.NoError(t, decoded.ReadFromProxy(decodedRoot))
			assert.Equal(t, tt.result, decoded.RequestResult)
		})
	}
}

func TestExtensibleResponseUnknownResultIsOmitted(t *testing.T) {
	assert.Equal(t, "Unknown", RequestResultUnknown.String())
	parsed, err := ParseRequestResultType("Unknown")
	require.NoError(t, err)
	assert.Equal(t, RequestResultUnknown, parsed)

	r := ExtensibleResponse{RequestResult: RequestResultUnknown, RequestResultMessage: "queued"}
	holder := etree.NewElement("holder")
	require.NoError(t, r.PopulateToProxy(holder, NewWriteOptions().NewEncodeContext()))
	fields := holder.FindElements("./swes:extension/swe:DataRecord/swe:field")
	require.Len(t, fields, 1)
	assert.Equal(t, RequestResultMessageField, fields[0].SelectAttrValue("name", ""))
}

func TestExtensibleResponseRejectsOutOfRangeResult(t *testing.T) {
	for _, result := range []RequestResultType{-1, RequestResultServerError + 1} {
		r := ExtensibleResponse{RequestResult: result}
		err := r.PopulateToProxy(etree.NewElement("holder"), NewWriteOptions().NewEncodeContext())
		require.Error(t, err)
		assert.True(t, errs.IsInvalidArgument(err))
	}
}

func TestExtensibleResponseRejectsReservedNames(t *testing.T) {
	items := NewDataRecord()
	require.NoError(t, items.Add(RequestResultField, NewCategory("Ok")))
	r := ExtensibleResponse{ExtensionItems: items}

	err := r.PopulateToProxy(etree.NewElement("holder"), NewWriteOptions().NewEncodeContext())
	require.Error(t, err)
	assert.True(t, errs.IsInvalidArgument(err))
}

func TestExtensibleResponseUnknownResultToken(t *testing.T) {
	data := []byte(`<sps:SubmitResponse xmlns:sps="http://www.opengis.net/sps/2.0"
    xmlns:swes="http://www.opengis.net/swes/2.0" xmlns:swe="http://www.opengis.net/swe/2.0">
  <swes:extension>
    <swe:DataRecord>
      <swe:field name="RequestResult"><swe:Category><swe:value>Partial</swe:value></swe:Category></swe:field>
    </swe:DataRecord>
  </swes:extension>
</sps:SubmitResponse>`)

	root, err := xmltree.ReadRoot(data, "test")
	require.NoError(t, err)
	var r ExtensibleResponse
	err = r.ReadFromProxy(root)
	require.Error(t, err)
	assert.True(t, errs.IsInvalidMessage(err))
}

func TestExtensibleRequestRoundTrip(t *testing.T) {
	first := NewDataRecord()
	require.NoError(t, first.Add("operator", NewText("alice")))
	second := NewDataRecord()
	require.NoError(t, second.Add("priority", NewCount(2)))

	req := ExtensibleRequest{Items: []*DataRecord{first, second}}
	doc, root := xmltree.NewDocument(xmltree.NSSOS, "GetObservation")
	require.NoError(t, req.PopulateToProxy(root, NewWriteOptions().NewEncodeContext()))
	data, err := xmltree.WriteDocument(doc, 0, "test")
	require.NoError(t, err)

	parsed, err := xmltree.ReadRoot(data, "test")
	require.NoError(t, err)
	var decoded ExtensibleRequest
	require.NoError(t, decoded.ReadFromProxy(parsed))
	require.Len(t, decoded.Items, 2)
	assert.Equal(t, []string{"operator"}, decoded.Items[0].Names())
	assert.Equal(t, []string{"priority"}, decoded.Items[1].Names())
}
