package convert

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"meascodec/pkg/meas"
	"meascodec/pkg/meas/sos"
	"meascodec/pkg/meas/sps"
	"meascodec/pkg/meas/xsd"
)

// Summarize lists the main fields of a decoded message for display
func Summarize(kind string, msg Message) []Field {
	fields := []Field{{"kind", kind}}
	add := func(name, value string) {
		if value != "" {
			fields = append(fields, Field{name, value})
		}
	}

	switch m := msg.(type) {
	case *sos.GetObservationRequest:
		add("procedures", strings.Join(m.Procedures, ", "))
		add("offerings", strings.Join(m.Offerings, ", "))
		add("observed properties", strings.Join(m.ObservedProperties, ", "))
		add("features of interest", strings.Join(m.FeaturesOfInterest, ", "))
		for _, f := range m.TemporalFilters {
			add("temporal filter", describeFilter(f))
		}
		add("response format", m.ResponseFormat)
		add("extensions", strconv.Itoa(len(m.Items)))
	case *sos.GetObservationResponse:
		fields = appendResponse(fields, &m.ExtensibleResponse)
		fields = appendObservations(fields, m.Observations)
	case *sos.InsertObservationRequest:
		add("offerings", strings.Join(m.Offerings, ", "))
		fields = appendObservations(fields, m.Observations)
	case *sos.InsertObservationResponse:
		fields = appendResponse(fields, &m.ExtensibleResponse)
		add("observation ids", strings.Join(m.ObservationIDs, ", "))
	case *sps.SubmitRequest:
		add("procedure", m.ProcedureID)
		fields = appendParameters(fields, m.TaskingParameters)
	case *sps.SubmitResponse:
		fields = appendResponse(fields, &m.ExtensibleResponse)
		fields = appendReport(fields, m.Status)
	case *sps.CancelRequest:
		add("task", m.TaskID)
	case *sps.CancelResponse:
		fields = appendResponse(fields, &m.ExtensibleResponse)
		fields = appendReport(fields, m.Status)
	case *sps.GetStatusRequest:
		add("task", m.TaskID)
		if !m.Since.IsZero() {
			add("since", formatTime(m.Since))
		}
	case *sps.GetStatusResponse:
		fields = appendResponse(fields, &m.ExtensibleResponse)
		for _, r := range m.StatusReports {
			fields = appendReport(fields, r)
		}
	case StatusReportDocument:
		fields = appendReport(fields, m.TaskStatusReport)
	}
	return fields
}

func appendResponse(fields []Field, r *meas.ExtensibleResponse) []Field {
	fields = append(fields, Field{"result", r.RequestResult.String()})
	if r.RequestResultMessage != "" {
		fields = append(fields, Field{"result message", r.RequestResultMessage})
	}
	if r.ExtensionItems != nil && r.ExtensionItems.Len() > 0 {
		fields = append(fields, Field{"extensions", strings.Join(r.ExtensionItems.Names(), ", ")})
	}
	return fields
}

func appendObservations(fields []Field, observations []*meas.Observation) []Field {
	fields = append(fields, Field{"observations", strconv.Itoa(len(observations))})
	for i, o := range observations {
		value := fmt.Sprintf("%s %s", meas.ObservationType(o.Result), o.ObservedProperty)
		if q := o.ResultQuality; !q.IsGood() {
			value += " [" + q.String() + "]"
		}
		fields = append(fields, Field{fmt.Sprintf("observation %d", i+1), strings.TrimSpace(value)})
	}
	return fields
}

func appendParameters(fields []Field, rec *meas.DataRecord) []Field {
	if rec == nil {
		return fields
	}
	for name, it := range rec.All() {
		fields = append(fields, Field{"parameter " + name, string(it.Kind())})
	}
	return fields
}

func appendReport(fields []Field, r *meas.TaskStatusReport) []Field {
	if r == nil {
		return fields
	}
	fields = append(fields,
		Field{"task", r.TaskID},
		Field{"procedure", r.ProcedureID},
		Field{"request status", r.RequestStatus.String()},
		Field{"updated", formatTime(r.UpdateTime())},
	)
	if r.TaskStatusCode != meas.TaskStatusUnknown {
		fields = append(fields, Field{"task status", r.TaskStatusCode.String()})
	}
	if p, ok := r.PercentCompletion(); ok {
		fields = append(fields, Field{"percent completion", xsd.FormatDouble(p)})
	}
	if t, ok := r.EstimatedCompletion(); ok {
		fields = append(fields, Field{"estimated completion", formatTime(t)})
	}
	for _, msg := range r.StatusMessages {
		fields = append(fields, Field{"status message", msg})
	}
	return appendParameters(fields, r.TaskingParameters)
}

func describeFilter(f *meas.TemporalFilter) string {
	var operand string
	switch t := f.Time().(type) {
	case *meas.TimeInstant:
		operand = formatTime(t.Value)
	case *meas.TimeRange:
		operand = formatTime(t.Start) + "/" + formatTime(t.End)
	}
	return fmt.Sprintf("%s %s %s", f.ValueReference(), f.Operator(), operand)
}

func formatTime(t time.Time) string {
	s, err := xsd.FormatDateTime(t)
	if err != nil {
		return t.String()
	}
	return s
}
