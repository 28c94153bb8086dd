package main

import (
	"time"

	"github.com/google/uuid"

	"meascodec/internal/convert"
	"meascodec/pkg/meas"
	"meascodec/pkg/meas/sos"
	"meascodec/pkg/meas/sps"
)

const (
	exampleProcedure = "urn:example:plant:pump-7"
	exampleProperty  = "urn:example:property:outlet-temperature"
	exampleFeature   = "urn:example:plant:line-2"
)

var exampleBuilders = map[string]func() (convert.Message, error){
	"get-observation": func() (convert.Message, error) {
		end := exampleNow()
		during, err := meas.NewTimeRange(end.Add(-time.Hour), end)
		if err != nil {
			return nil, err
		}
		filter, err := meas.NewTemporalFilter(meas.PhenomenonTime, meas.During, during)
		if err != nil {
			return nil, err
		}
		req := sos.NewGetObservationRequest()
		req.Procedures = []string{exampleProcedure}
		req.ObservedProperties = []string{exampleProperty}
		req.FeaturesOfInterest = []string{exampleFeature}
		req.TemporalFilters = []*meas.TemporalFilter{filter}
		return req, nil
	},
	"get-observation-response": func() (convert.Message, error) {
		obs, err := exampleSeriesObservation()
		if err != nil {
			return nil, err
		}
		res := sos.NewGetObservationResponse()
		res.Observations = []*meas.Observation{obs}
		return res, nil
	},
	"insert-observation": func() (convert.Message, error) {
		obs, err := exampleSeriesObservation()
		if err != nil {
			return nil, err
		}
		req := sos.NewInsertObservationRequest()
		req.Offerings = []string{"urn:example:offering:line-2"}
		req.Observations = []*meas.Observation{obs, exampleMeasurementObservation()}
		return req, nil
	},
	"submit": func() (convert.Message, error) {
		req := sps.NewSubmitRequest()
		req.ProcedureID = exampleProcedure
		params, err := exampleParameters()
		if err != nil {
			return nil, err
		}
		req.TaskingParameters = params
		return req, nil
	},
	"submit-response": func() (convert.Message, error) {
		report, err := exampleReport()
		if err != nil {
			return nil, err
		}
		res := sps.NewSubmitResponse(report)
		res.RequestResult = meas.RequestResultOk
		return res, nil
	},
	"get-status": func() (convert.Message, error) {
		req := sps.NewGetStatusRequest(uuid.NewString())
		req.Since = exampleNow().Add(-24 * time.Hour)
		return req, nil
	},
	"cancel": func() (convert.Message, error) {
		return sps.NewCancelRequest(uuid.NewString()), nil
	},
	"status-report": func() (convert.Message, error) {
		report, err := exampleReport()
		if err != nil {
			return nil, err
		}
		return convert.StatusReportDocument{TaskStatusReport: report}, nil
	},
}

func exampleNow() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func exampleMeasurementObservation() *meas.Observation {
	obs := meas.NewObservation(meas.NewMeasurement("Cel", 64.2))
	obs.Procedure = exampleProcedure
	obs.ObservedProperty = exampleProperty
	obs.FeatureOfInterest = exampleFeature
	return obs
}

func exampleSeriesObservation() (*meas.Observation, error) {
	end := exampleNow()
	start := end.Add(-3 * time.Minute)
	series, err := meas.NewTimeSeriesConstant("Cel", start, time.Minute)
	if err != nil {
		return nil, err
	}
	drift, err := meas.Bad("sensor/drift")
	if err != nil {
		return nil, err
	}
	series.Add(63.9, meas.Good())
	series.Add(64.0, meas.Good())
	series.Add(71.8, drift)

	period, err := meas.NewTimeRange(start, end)
	if err != nil {
		return nil, err
	}
	obs := meas.NewObservation(series)
	obs.Name = "Outlet temperature"
	obs.Procedure = exampleProcedure
	obs.ObservedProperty = exampleProperty
	obs.FeatureOfInterest = exampleFeature
	obs.PhenomenonTime = period
	return obs, nil
}

func exampleParameters() (*meas.DataRecord, error) {
	window, err := meas.NewMeasurementRange("Cel", 60, 75)
	if err != nil {
		return nil, err
	}
	params := meas.NewDataRecord()
	for _, p := range []struct {
		name string
		item meas.Item
	}{
		{"setpoint", meas.NewMeasurement("Cel", 68)},
		{"allowed range", window},
		{"mode", meas.NewCategory("eco")},
		{"enabled", meas.NewBoolean(true)},
	} {
		if err := params.Add(p.name, p.item); err != nil {
			return nil, err
		}
	}
	return params, nil
}

func exampleReport() (*meas.TaskStatusReport, error) {
	report := meas.NewTaskStatusReport(uuid.NewString(), exampleProcedure)
	report.RequestStatus = meas.RequestAccepted
	report.TaskStatusCode = meas.TaskStatusInExecution
	report.StatusMessages = []string{"setpoint ramp in progress"}
	if err := report.SetPercentCompletion(25); err != nil {
		return nil, err
	}
	if err := report.SetEstimatedCompletion(exampleNow().Add(15 * time.Minute)); err != nil {
		return nil, err
	}
	params, err := exampleParameters()
	if err != nil {
		return nil, err
	}
	report.TaskingParameters = params
	return report, nil
}
