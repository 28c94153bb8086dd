package convert

import (
	"maps"
	"slices"

	"meascodec/pkg/meas"
	"meascodec/pkg/meas/sos"
	"meascodec/pkg/meas/sps"
)

// StatusReportDocument is a standalone sps:StatusReport
type StatusReportDocument struct {
	*meas.TaskStatusReport
}

// Marshal writes the report document
func (d StatusReportDocument) Marshal(opts ...meas.WriteOption) ([]byte, error) {
	return d.ToXMLBytes(opts...)
}

type decoder func(data []byte) (Message, error)

func wrap[T Message](fn func([]byte) (T, error)) decoder {
	return func(data []byte) (Message, error) {
		msg, err := fn(data)
		if err != nil {
			return nil, err
		}
		return msg, nil
	}
}

var decoders = map[string]decoder{
	"sos:GetObservation":            wrap(sos.UnmarshalGetObservationRequest),
	"sos:GetObservationResponse":    wrap(sos.UnmarshalGetObservationResponse),
	"sos:InsertObservation":         wrap(sos.UnmarshalInsertObservationRequest),
	"sos:InsertObservationResponse": wrap(sos.UnmarshalInsertObservationResponse),
	"sps:Submit":                    wrap(sps.UnmarshalSubmitRequest),
	"sps:SubmitResponse":            wrap(sps.UnmarshalSubmitResponse),
	"sps:Cancel":                    wrap(sps.UnmarshalCancelRequest),
	"sps:CancelResponse":            wrap(sps.UnmarshalCancelResponse),
	"sps:GetStatus":                 wrap(sps.UnmarshalGetStatusRequest),
	"sps:GetStatusResponse":         wrap(sps.UnmarshalGetStatusResponse),
	"sps:StatusReport": func(data []byte) (Message, error) {
		report, err := meas.TaskStatusReportFromXMLBytes(data)
		if err != nil {
			return nil, err
		}
		return StatusReportDocument{report}, nil
	},
}

// Kinds lists the supported root elements in sorted order
func Kinds() []string {
	return slices.Sorted(maps.Keys(decoders))
}
