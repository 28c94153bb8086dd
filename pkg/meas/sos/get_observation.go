package sos

import (
	"fmt"

	"meascodec/pkg/meas"
	"meascodec/pkg/meas/errs"
	"meascodec/pkg/meas/xmltree"
)

// GetObservationRequest asks a service for observations matching its filters
type GetObservationRequest struct {
	meas.ExtensibleRequest

	Procedures         []string
	Offerings          []string
	ObservedProperties []string
	TemporalFilters    []*meas.TemporalFilter
	FeaturesOfInterest []string
	// ResponseFormat is omitted when empty
	ResponseFormat string
}

// NewGetObservationRequest creates an empty request
func NewGetObservationRequest() *GetObservationRequest {
	return &GetObservationRequest{}
}

// Marshal writes the request as a sos:GetObservation document
func (r *GetObservationRequest) Marshal(opts ...meas.WriteOption) ([]byte, error) {
	const op = "sos.GetObservationRequest.Marshal"

	o := meas.NewWriteOptions(opts...)
	ctx := o.NewEncodeContext()
	doc, root := newRequestDocument("GetObservation")

	if err := r.ExtensibleRequest.PopulateToProxy(root, ctx); err != nil {
		return nil, err
	}
	appendTexts(root, "procedure", r.Procedures)
	appendTexts(root, "offering", r.Offerings)
	appendTexts(root, "observedProperty", r.ObservedProperties)
	for i, f := range r.TemporalFilters {
		if f == nil {
			return nil, errs.InvalidArgumentf(op, "Temporal filter %d must not be nil", i)
		}
		if _, err := f.AppendTo(root, ctx); err != nil {
			return nil, fmt.Errorf("temporal filter %d: %w", i, err)
		}
	}
	appendTexts(root, "featureOfInterest", r.FeaturesOfInterest)
	if r.ResponseFormat != "" {
		xmltree.AddTextChild(root, sos, "responseFormat", r.ResponseFormat)
	}

	return xmltree.WriteDocument(doc, o.Indent, op)
}

// UnmarshalGetObservationRequest reads a sos:GetObservation document
func UnmarshalGetObservationRequest(data []byte) (*GetObservationRequest, error) {
	root, err := readRequestDocument(data, "GetObservation", "sos.UnmarshalGetObservationRequest")
	if err != nil {
		return nil, err
	}

	r := &GetObservationRequest{
		Procedures:         readTexts(root, "procedure"),
		Offerings:          readTexts(root, "offering"),
		ObservedProperties: readTexts(root, "observedProperty"),
		TemporalFilters:    []*meas.TemporalFilter{},
		FeaturesOfInterest: readTexts(root, "featureOfInterest"),
	}
	if err := r.ExtensibleRequest.ReadFromProxy(root); err != nil {
		return nil, err
	}
	for _, el := range xmltree.Children(root, sos, "temporalFilter") {
		f, err := meas.TemporalFilterFromXMLProxy(el)
		if err != nil {
			return nil, err
		}
		r.TemporalFilters = append(r.TemporalFilters, f)
	}
	if rf := xmltree.FirstChild(root, sos, "responseFormat"); rf != nil {
		r.ResponseFormat = rf.Text()
	}
	return r, nil
}

// GetObservationResponse carries the observations found by a GetObservation request
type GetObservationResponse struct {
	meas.ExtensibleResponse

	Observations []*meas.Observation
}

// NewGetObservationResponse creates an empty response
func NewGetObservationResponse() *GetObservationResponse {
	return &GetObservationResponse{}
}

// Marshal writes the response as a sos:GetObservationResponse document
func (r *GetObservationResponse) Marshal(opts ...meas.WriteOption) ([]byte, error) {
	const op = "sos.GetObservationResponse.Marshal"

	o := meas.NewWriteOptions(opts...)
	ctx := o.NewEncodeContext()
	doc, root := xmltree.NewDocument(sos, "GetObservationResponse")

	if err := r.ExtensibleResponse.PopulateToProxy(root, ctx); err != nil {
		return nil, err
	}
	if err := appendObservations(root, "observationData", r.Observations, ctx, op); err != nil {
		return nil, err
	}
	return xmltree.WriteDocument(doc, o.Indent, op)
}

// UnmarshalGetObservationResponse reads a sos:GetObservationResponse document
func UnmarshalGetObservationResponse(data []byte) (*GetObservationResponse, error) {
	const op = "sos.UnmarshalGetObservationResponse"

	root, err := xmltree.ReadDocument(data, sos, "GetObservationResponse", op)
	if err != nil {
		return nil, err
	}

	r := &GetObservationResponse{}
	if err := r.ExtensibleResponse.ReadFromProxy(root); err != nil {
		return nil, err
	}
	if r.Observations, err = readObservations(root, "observationData", op); err != nil {
		return nil, err
	}
	return r, nil
}
