package sos

import (
	"fmt"

	"github.com/beevik/etree"

	"meascodec/pkg/meas"
	"meascodec/pkg/meas/errs"
	"meascodec/pkg/meas/xmltree"
)

// InsertObservationRequest submits observations to the given offerings
type InsertObservationRequest struct {
	meas.ExtensibleRequest

	Offerings    []string
	Observations []*meas.Observation
}

// NewInsertObservationRequest creates an empty request
func NewInsertObservationRequest() *InsertObservationRequest {
	return &InsertObservationRequest{}
}

// Marshal writes the request as a sos:InsertObservation document. The
// request must hold at least one observation.
func (r *InsertObservationRequest) Marshal(opts ...meas.WriteOption) ([]byte, error) {
	const op = "sos.InsertObservationRequest.Marshal"

	if len(r.Observations) == 0 {
		return nil, errs.InvalidArgumentf(op, "insert observation request must contain at least one observation")
	}

	o := meas.NewWriteOptions(opts...)
	ctx := o.NewEncodeContext()
	doc, root := newRequestDocument("InsertObservation")

	if err := r.ExtensibleRequest.PopulateToProxy(root, ctx); err != nil {
		return nil, err
	}
	appendTexts(root, "offering", r.Offerings)
	if err := appendObservations(root, "observation", r.Observations, ctx, op); err != nil {
		return nil, err
	}
	return xmltree.WriteDocument(doc, o.Indent, op)
}

// UnmarshalInsertObservationRequest reads a sos:InsertObservation document
func UnmarshalInsertObservationRequest(data []byte) (*InsertObservationRequest, error) {
	const op = "sos.UnmarshalInsertObservationRequest"

	root, err := readRequestDocument(data, "InsertObservation", op)
	if err != nil {
		return nil, err
	}

	r := &InsertObservationRequest{Offerings: readTexts(root, "offering")}
	if err := r.ExtensibleRequest.ReadFromProxy(root); err != nil {
		return nil, err
	}
	if r.Observations, err = readObservations(root, "observation", op); err != nil {
		return nil, err
	}
	return r, nil
}

// InsertObservationResponse reports the identifiers of inserted observations
type InsertObservationResponse struct {
	meas.ExtensibleResponse

	ObservationIDs []string
}

// NewInsertObservationResponse creates an empty response
func NewInsertObservationResponse() *InsertObservationResponse {
	return &InsertObservationResponse{}
}

// Marshal writes the response as a sos:InsertObservationResponse document
func (r *InsertObservationResponse) Marshal(opts ...meas.WriteOption) ([]byte, error) {
	const op = "sos.InsertObservationResponse.Marshal"

	o := meas.NewWriteOptions(opts...)
	doc, root := xmltree.NewDocument(sos, "InsertObservationResponse")
	if err := r.ExtensibleResponse.PopulateToProxy(root, o.NewEncodeContext()); err != nil {
		return nil, err
	}
	appendTexts(root, "observation", r.ObservationIDs)
	return xmltree.WriteDocument(doc, o.Indent, op)
}

// UnmarshalInsertObservationResponse reads a sos:InsertObservationResponse document
func UnmarshalInsertObservationResponse(data []byte) (*InsertObservationResponse, error) {
	root, err := xmltree.ReadDocument(data, sos, "InsertObservationResponse", "sos.UnmarshalInsertObservationResponse")
	if err != nil {
		return nil, err
	}

	r := &InsertObservationResponse{ObservationIDs: readTexts(root, "observation")}
	if err := r.ExtensibleResponse.ReadFromProxy(root); err != nil {
		return nil, err
	}
	return r, nil
}

// appendObservations wraps each observation in its own sos:<local> element
func appendObservations(root *etree.Element, local string, observations []*meas.Observation, ctx *meas.EncodeContext, op string) error {
	for i, obs := range observations {
		if obs == nil {
			return errs.InvalidArgumentf(op, "Observation %d must not be nil", i)
		}
		holder := xmltree.AddChild(root, sos, local)
		if _, err := obs.AppendTo(holder, ctx); err != nil {
			return fmt.Errorf("observation %d: %w", i, err)
		}
	}
	return nil
}

func readObservations(root *etree.Element, local, op string) ([]*meas.Observation, error) {
	holders := xmltree.Children(root, sos, local)
	out := make([]*meas.Observation, 0, len(holders))
	for i, holder := range holders {
		el, err := xmltree.RequireChild(holder, xmltree.NSOM, "OM_Observation", op)
		if err != nil {
			return nil, err
		}
		obs, err := meas.ObservationFromElement(el)
		if err != nil {
			return nil, fmt.Errorf("observation %d: %w", i, err)
		}
		out = append(out, obs)
	}
	return out, nil
}
