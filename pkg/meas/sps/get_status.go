package sps

import (
	"fmt"
	"time"

	"meascodec/pkg/meas"
	"meascodec/pkg/meas/errs"
	"meascodec/pkg/meas/xmltree"
	"meascodec/pkg/meas/xsd"
)

// GetStatusRequest asks for the status reports of a task
type GetStatusRequest struct {
	meas.ExtensibleRequest

	TaskID string
	// Since limits the reports to those updated after it. Zero means no limit.
	Since time.Time
}

// NewGetStatusRequest creates a request for taskID
func NewGetStatusRequest(taskID string) *GetStatusRequest {
	return &GetStatusRequest{TaskID: taskID}
}

// Marshal writes the request as a sps:GetStatus document
func (r *GetStatusRequest) Marshal(opts ...meas.WriteOption) ([]byte, error) {
	const op = "sps.GetStatusRequest.Marshal"

	o := meas.NewWriteOptions(opts...)
	doc, root := newRequestDocument("GetStatus")
	if err := r.ExtensibleRequest.PopulateToProxy(root, o.NewEncodeContext()); err != nil {
		return nil, err
	}
	xmltree.AddTextChild(root, sps, "task", r.TaskID)
	if !r.Since.IsZero() {
		since, err := xsd.FormatDateTime(r.Since)
		if err != nil {
			return nil, err
		}
		xmltree.AddTextChild(root, sps, "since", since)
	}
	return xmltree.WriteDocument(doc, o.Indent, op)
}

// UnmarshalGetStatusRequest reads a sps:GetStatus document
func UnmarshalGetStatusRequest(data []byte) (*GetStatusRequest, error) {
	const op = "sps.UnmarshalGetStatusRequest"

	root, err := readRequestDocument(data, "GetStatus", op)
	if err != nil {
		return nil, err
	}
	r := &GetStatusRequest{}
	if err := r.ExtensibleRequest.ReadFromProxy(root); err != nil {
		return nil, err
	}
	task, err := xmltree.RequireChild(root, sps, "task", op)
	if err != nil {
		return nil, err
	}
	r.TaskID = task.Text()

	if sinceEl := xmltree.FirstChild(root, sps, "since"); sinceEl != nil {
		since, err := xsd.ParseDateTime(sinceEl.Text())
		if err == nil {
			err = xsd.RequireUTC(since, op)
		}
		if err != nil {
			return nil, errs.InvalidMessage(err, op, "invalid sps:since")
		}
		r.Since = since
	}
	return r, nil
}

// GetStatusResponse carries the status reports of a task
type GetStatusResponse struct {
	meas.ExtensibleResponse

	StatusReports []*meas.TaskStatusReport
}

// NewGetStatusResponse creates an empty response
func NewGetStatusResponse() *GetStatusResponse {
	return &GetStatusResponse{}
}

// Marshal writes the response as a sps:GetStatusResponse document
func (r *GetStatusResponse) Marshal(opts ...meas.WriteOption) ([]byte, error) {
	const op = "sps.GetStatusResponse.Marshal"

	o := meas.NewWriteOptions(opts...)
	ctx := o.NewEncodeContext()
	doc, root := xmltree.NewDocument(sps, "GetStatusResponse")

	if err := r.ExtensibleResponse.PopulateToProxy(root, ctx); err != nil {
		return nil, err
	}
	for i, report := range r.StatusReports {
		if report == nil {
			return nil, errs.InvalidArgumentf(op, "Status report %d must not be nil", i)
		}
		if _, err := report.AppendTo(xmltree.AddChild(root, sps, "status"), ctx); err != nil {
			return nil, fmt.Errorf("status report %d: %w", i, err)
		}
	}
	return xmltree.WriteDocument(doc, o.Indent, op)
}

// UnmarshalGetStatusResponse reads a sps:GetStatusResponse document
func UnmarshalGetStatusResponse(data []byte) (*GetStatusResponse, error) {
	const op = "sps.UnmarshalGetStatusResponse"

	root, err := xmltree.ReadDocument(data, sps, "GetStatusResponse", op)
	if err != nil {
		return nil, err
	}
	r := &GetStatusResponse{}
	if err := r.ExtensibleResponse.ReadFromProxy(root); err != nil {
		return nil, err
	}

	holders := xmltree.Children(root, sps, "status")
	r.StatusReports = make([]*meas.TaskStatusReport, 0, len(holders))
	for _, holder := range holders {
		el, err := xmltree.RequireChild(holder, sps, "StatusReport", op)
		if err != nil {
			return nil, err
		}
		report, err := meas.TaskStatusReportFromElement(el)
		if err != nil {
			return nil, err
		}
		r.StatusReports = append(r.StatusReports, report)
	}
	return r, nil
}
