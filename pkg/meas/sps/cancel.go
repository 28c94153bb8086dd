package sps

import (
	"meascodec/pkg/meas"
	"meascodec/pkg/meas/xmltree"
)

// CancelRequest asks for a task to be cancelled
type CancelRequest struct {
	meas.ExtensibleRequest

	TaskID string
}

// NewCancelRequest creates a request for taskID
func NewCancelRequest(taskID string) *CancelRequest {
	return &CancelRequest{TaskID: taskID}
}

// Marshal writes the request as a sps:Cancel document
func (r *CancelRequest) Marshal(opts ...meas.WriteOption) ([]byte, error) {
	o := meas.NewWriteOptions(opts...)
	doc, root := newRequestDocument("Cancel")
	if err := r.ExtensibleRequest.PopulateToProxy(root, o.NewEncodeContext()); err != nil {
		return nil, err
	}
	xmltree.AddTextChild(root, sps, "task", r.TaskID)
	return xmltree.WriteDocument(doc, o.Indent, "sps.CancelRequest.Marshal")
}

// UnmarshalCancelRequest reads a sps:Cancel document
func UnmarshalCancelRequest(data []byte) (*CancelRequest, error) {
	const op = "sps.UnmarshalCancelRequest"

	root, err := readRequestDocument(data, "Cancel", op)
	if err != nil {
		return nil, err
	}
	r := &CancelRequest{}
	if err := r.ExtensibleRequest.ReadFromProxy(root); err != nil {
		return nil, err
	}
	task, err := xmltree.RequireChild(root, sps, "task", op)
	if err != nil {
		return nil, err
	}
	r.TaskID = task.Text()
	return r, nil
}

// CancelResponse reports the state of a cancelled task
type CancelResponse struct {
	reportResponse
}

// NewCancelResponse creates a response carrying status
func NewCancelResponse(status *meas.TaskStatusReport) *CancelResponse {
	return &CancelResponse{reportResponse{Status: status}}
}

// Marshal writes the response as a sps:CancelResponse document
func (r *CancelResponse) Marshal(opts ...meas.WriteOption) ([]byte, error) {
	return r.marshal("CancelResponse", "sps.CancelResponse.Marshal", opts)
}

// UnmarshalCancelResponse reads a sps:CancelResponse document
func UnmarshalCancelResponse(data []byte) (*CancelResponse, error) {
	r := &CancelResponse{}
	if err := r.unmarshal(data, "CancelResponse", "sps.UnmarshalCancelResponse"); err != nil {
		return nil, err
	}
	return r, nil
}
