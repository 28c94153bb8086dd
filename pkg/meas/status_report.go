package meas

import (
	"fmt"
	"math"
	"time"

	"github.com/beevik/etree"

	"meascodec/pkg/meas/errs"
	"meascodec/pkg/meas/xmltree"
	"meascodec/pkg/meas/xsd"
)

// TaskingRequestStatusCode is the acceptance state of a tasking request
type TaskingRequestStatusCode int

const (
	RequestPending TaskingRequestStatusCode = iota
	RequestAccepted
	RequestRejected
)

var requestStatusTokens = []string{"Pending", "Accepted", "Rejected"}

func (c TaskingRequestStatusCode) String() string {
	if int(c) >= 0 && int(c) < len(requestStatusTokens) {
		return requestStatusTokens[c]
	}
	return fmt.Sprintf("TaskingRequestStatusCode(%d)", int(c))
}

// ParseTaskingRequestStatusCode maps a wire token to a code
func ParseTaskingRequestStatusCode(s string) (TaskingRequestStatusCode, error) {
	for i, token := range requestStatusTokens {
		if token == s {
			return TaskingRequestStatusCode(i), nil
		}
	}
	return 0, errs.InvalidArgumentf("meas.ParseTaskingRequestStatusCode", "Unknown request status %q", s)
}

// TaskStatusCode is the execution state of a task. TaskStatusUnknown is not written.
type TaskStatusCode int

const (
	TaskStatusUnknown TaskStatusCode = iota
	TaskStatusCancelled
	TaskStatusCompleted
	TaskStatusExpired
	TaskStatusFailed
	TaskStatusInExecution
	TaskStatusReserved
)

var taskStatusTokens = []string{"Unknown", "Cancelled", "Completed", "Expired", "Failed", "InExecution", "Reserved"}

func (c TaskStatusCode) String() string {
	if int(c) >= 0 && int(c) < len(taskStatusTokens) {
		return taskStatusTokens[c]
	}
	return fmt.Sprintf("TaskStatusCode(%d)", int(c))
}

// ParseTaskStatusCode maps a wire token to a code
func ParseTaskStatusCode(s string) (TaskStatusCode, error) {
	for i, token := range taskStatusTokens {
		if i > 0 && token == s {
			return TaskStatusCode(i), nil
		}
	}
	return 0, errs.InvalidArgumentf("meas.ParseTaskStatusCode", "Unknown task status %q", s)
}

// TaskStatusReport describes the state of an SPS task
type TaskStatusReport struct {
	TaskID            string
	ProcedureID       string
	RequestStatus     TaskingRequestStatusCode
	StatusMessages    []string
	TaskStatusCode    TaskStatusCode
	TaskingParameters *DataRecord

	updateTime          time.Time
	estimatedCompletion time.Time
	percentCompletion   float64
	hasPercent          bool
}

// NewTaskStatusReport creates a pending report updated now
func NewTaskStatusReport(taskID, procedureID string) *TaskStatusReport {
	return &TaskStatusReport{
		TaskID:            taskID,
		ProcedureID:       procedureID,
		TaskingParameters: NewDataRecord(),
		updateTime:        time.Now().UTC().Truncate(time.Millisecond),
	}
}

// UpdateTime returns when the report was last updated
func (r *TaskStatusReport) UpdateTime() time.Time {
	return r.updateTime
}

// SetUpdateTime sets the update time, which must be in UTC
func (r *TaskStatusReport) SetUpdateTime(t time.Time) error {
	if err := xsd.RequireUTC(t, "meas.TaskStatusReport.SetUpdateTime"); err != nil {
		return err
	}
	r.updateTime = t
	return nil
}

// EstimatedCompletion returns the estimated time of completion, if set
func (r *TaskStatusReport) EstimatedCompletion() (time.Time, bool) {
	return r.estimatedCompletion, !r.estimatedCompletion.IsZero()
}

// SetEstimatedCompletion sets the estimated time of completion, which must be in UTC
func (r *TaskStatusReport) SetEstimatedCompletion(t time.Time) error {
	if err := xsd.RequireUTC(t, "meas.TaskStatusReport.SetEstimatedCompletion"); err != nil {
		return err
	}
	r.estimatedCompletion = t
	return nil
}

// ClearEstimatedCompletion removes the estimated time of completion
func (r *TaskStatusReport) ClearEstimatedCompletion() {
	r.estimatedCompletion = time.Time{}
}

// PercentCompletion returns the completion percentage, if set
func (r *TaskStatusReport) PercentCompletion() (float64, bool) {
	return r.percentCompletion, r.hasPercent
}

// SetPercentCompletion sets the completion percentage in [0, 100]
func (r *TaskStatusReport) SetPercentCompletion(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 100 {
		return errs.InvalidArgumentf("meas.TaskStatusReport.SetPercentCompletion",
			"Percent completion must be between 0 and 100, got %s", xsd.FormatDouble(p))
	}
	r.percentCompletion = p
	r.hasPercent = true
	return nil
}

// ClearPercentCompletion removes the completion percentage
func (r *TaskStatusReport) ClearPercentCompletion() {
	r.percentCompletion = 0
	r.hasPercent = false
}

// ToXMLBytes writes the report as a standalone sps:StatusReport document
func (r *TaskStatusReport) ToXMLBytes(opts ...WriteOption) ([]byte, error) {
	o := NewWriteOptions(opts...)
	doc, root := xmltree.NewDocument(sps, "StatusReport")
	if err := r.writeContent(root, o.NewEncodeContext()); err != nil {
		return nil, err
	}
	return xmltree.WriteDocument(doc, o.Indent, "meas.TaskStatusReport.ToXMLBytes")
}

// TaskStatusReportFromXMLBytes reads a standalone sps:StatusReport document
func TaskStatusReportFromXMLBytes(data []byte) (*TaskStatusReport, error) {
	root, err := xmltree.ReadDocument(data, sps, "StatusReport", "meas.TaskStatusReportFromXMLBytes")
	if err != nil {
		return nil, err
	}
	return TaskStatusReportFromElement(root)
}

// AppendTo writes the report as a sps:StatusReport child of parent
func (r *TaskStatusReport) AppendTo(parent *etree.Element, ctx *EncodeContext) (*etree.Element, error) {
	el := xmltree.AddChild(parent, sps, "StatusReport")
	if err := r.writeContent(el, ctx.orDefault()); err != nil {
		return nil, err
	}
	return el, nil
}

func (r *TaskStatusReport) writeContent(el *etree.Element, ctx *EncodeContext) error {
	const op = "meas.TaskStatusReport"

	if r.RequestStatus < RequestPending || r.RequestStatus > RequestRejected {
		return errs.InvalidArgumentf(op, "Invalid request status %d", int(r.RequestStatus))
	}
	if r.TaskStatusCode < TaskStatusUnknown || r.TaskStatusCode > TaskStatusReserved {
		return errs.InvalidArgumentf(op, "Invalid task status %d", int(r.TaskStatusCode))
	}
	updateTime, err := xsd.FormatDateTime(r.updateTime)
	if err != nil {
		return err
	}

	xmltree.AddTextChild(el, sps, "task", r.TaskID)
	if !r.estimatedCompletion.IsZero() {
		estimated, err := xsd.FormatDateTime(r.estimatedCompletion)
		if err != nil {
			return err
		}
		xmltree.AddTextChild(el, sps, "estimatedToC", estimated)
	}
	if r.hasPercent {
		xmltree.AddTextChild(el, sps, "percentCompletion", xsd.FormatDouble(r.percentCompletion))
	}
	xmltree.AddTextChild(el, sps, "procedure", r.ProcedureID)
	xmltree.AddTextChild(el, sps, "requestStatus", r.RequestStatus.String())
	for _, msg := range r.StatusMessages {
		xmltree.AddTextChild(el, sps, "statusMessage", msg)
	}
	if r.TaskStatusCode != TaskStatusUnknown {
		xmltree.AddTextChild(el, sps, "taskStatus", r.TaskStatusCode.String())
	}
	xmltree.AddTextChild(el, sps, "updateTime", updateTime)

	if r.TaskingParameters != nil && r.TaskingParameters.Len() > 0 {
		if _, err := EncodeTaskingParameters(el, r.TaskingParameters, ctx); err != nil {
			return err
		}
	}
	return nil
}

// TaskStatusReportFromElement reads a sps:StatusReport element
func TaskStatusReportFromElement(el *etree.Element) (*TaskStatusReport, error) {
	const op = "meas.TaskStatusReportFromElement"

	if !xmltree.Is(el, sps, "StatusReport") {
		return nil, errs.InvalidMessage(nil, op, "unexpected element %s, expected sps:StatusReport", xmltree.Describe(el))
	}

	r := &TaskStatusReport{StatusMessages: []string{}}

	task, err := xmltree.RequireChild(el, sps, "task", op)
	if err != nil {
		return nil, err
	}
	r.TaskID = task.Text()

	procedure, err := xmltree.RequireChild(el, sps, "procedure", op)
	if err != nil {
		return nil, err
	}
	r.ProcedureID = procedure.Text()

	if estimated := xmltree.FirstChild(el, sps, "estimatedToC"); estimated != nil {
		t, err := parseUTC(estimated.Text(), op)
		if err != nil {
			return nil, errs.InvalidMessage(err, op, "invalid sps:estimatedToC")
		}
		r.estimatedCompletion = t
	}

	if percent := xmltree.FirstChild(el, sps, "percentCompletion"); percent != nil {
		p, err := xsd.ParseDouble(percent.Text())
		if err != nil {
			return nil, errs.InvalidMessage(err, op, "invalid sps:percentCompletion")
		}
		if err := r.SetPercentCompletion(p); err != nil {
			return nil, errs.InvalidMessage(err, op, "invalid sps:percentCompletion")
		}
	}

	requestStatus, err := xmltree.RequireChild(el, sps, "requestStatus", op)
	if err != nil {
		return nil, err
	}
	if r.RequestStatus, err = ParseTaskingRequestStatusCode(requestStatus.Text()); err != nil {
		return nil, errs.InvalidMessage(err, op, "invalid sps:requestStatus")
	}

	for _, msg := range xmltree.Children(el, sps, "statusMessage") {
		r.StatusMessages = append(r.StatusMessages, msg.Text())
	}

	if taskStatus := xmltree.FirstChild(el, sps, "taskStatus"); taskStatus != nil {
		if r.TaskStatusCode, err = ParseTaskStatusCode(taskStatus.Text()); err != nil {
			return nil, errs.InvalidMessage(err, op, "invalid sps:taskStatus")
		}
	}

	updateTime, err := xmltree.RequireChild(el, sps, "updateTime", op)
	if err != nil {
		return nil, err
	}
	if r.updateTime, err = parseUTC(updateTime.Text(), op); err != nil {
		return nil, errs.InvalidMessage(err, op, "invalid sps:updateTime")
	}

	if r.TaskingParameters, err = DecodeTaskingParameters(xmltree.FirstChild(el, sps, "taskingParameters")); err != nil {
		return nil, err
	}
	return r, nil
}
