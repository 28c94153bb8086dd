package sps

import (
	"meascodec/pkg/meas"
	"meascodec/pkg/meas/xmltree"
)

// SubmitRequest asks a procedure to execute a task with the given parameters
type SubmitRequest struct {
	meas.ExtensibleRequest

	ProcedureID       string
	TaskingParameters *meas.DataRecord
}

// NewSubmitRequest creates a request with an empty parameter record
func NewSubmitRequest() *SubmitRequest {
	return &SubmitRequest{TaskingParameters: meas.NewDataRecord()}
}

// Marshal writes the request as a sps:Submit document
func (r *SubmitRequest) Marshal(opts ...meas.WriteOption) ([]byte, error) {
	const op = "sps.SubmitRequest.Marshal"

	o := meas.NewWriteOptions(opts...)
	ctx := o.NewEncodeContext()
	doc, root := newRequestDocument("Submit")

	if err := r.ExtensibleRequest.PopulateToProxy(root, ctx); err != nil {
		return nil, err
	}
	xmltree.AddTextChild(root, sps, "procedure", r.ProcedureID)
	if _, err := meas.EncodeTaskingParameters(root, r.TaskingParameters, ctx); err != nil {
		return nil, err
	}
	return xmltree.WriteDocument(doc, o.Indent, op)
}

// UnmarshalSubmitRequest reads a sps:Submit document
func UnmarshalSubmitRequest(data []byte) (*SubmitRequest, error) {
	const op = "sps.UnmarshalSubmitRequest"

	root, err := readRequestDocument(data, "Submit", op)
	if err != nil {
		return nil, err
	}

	r := &SubmitRequest{}
	if err := r.ExtensibleRequest.ReadFromProxy(root); err != nil {
		return nil, err
	}
	procedure, err := xmltree.RequireChild(root, sps, "procedure", op)
	if err != nil {
		return nil, err
	}
	r.ProcedureID = procedure.Text()

	params, err := xmltree.RequireChild(root, sps, "taskingParameters", op)
	if err != nil {
		return nil, err
	}
	if r.TaskingParameters, err = meas.DecodeTaskingParameters(params); err != nil {
		return nil, err
	}
	return r, nil
}

// SubmitResponse reports the state of a submitted task
type SubmitResponse struct {
	reportResponse
}

// NewSubmitResponse creates a response carrying status
func NewSubmitResponse(status *meas.TaskStatusReport) *SubmitResponse {
	return &SubmitResponse{reportResponse{Status: status}}
}

// Marshal writes the response as a sps:SubmitResponse document
func (r *SubmitResponse) Marshal(opts ...meas.WriteOption) ([]byte, error) {
	return r.marshal("SubmitResponse", "sps.SubmitResponse.Marshal", opts)
}

// UnmarshalSubmitResponse reads a sps:SubmitResponse document
func UnmarshalSubmitResponse(data []byte) (*SubmitResponse, error) {
	r := &SubmitResponse{}
	if err := r.unmarshal(data, "SubmitResponse", "sps.UnmarshalSubmitResponse"); err != nil {
		return nil, err
	}
	return r, nil
}
