package meas

import (
	"time"

	"github.com/beevik/etree"

	"meascodec/pkg/meas/errs"
	"meascodec/pkg/meas/xmltree"
)

const om = xmltree.NSOM

const observationTypeBase = "http://www.opengis.net/def/observationType/OGC-OM/2.0/"

// Observation is an O&M observation whose result is an Item
type Observation struct {
	Name        string
	Description string

	Procedure         string
	ObservedProperty  string
	FeatureOfInterest string

	// PhenomenonTime is a *TimeInstant, a *TimeRange or nil
	PhenomenonTime Item
	// ResultTime is omitted when zero
	ResultTime    time.Time
	ResultQuality DataQuality

	Result Item
}

// NewObservation creates an observation of result with the result time set to now
func NewObservation(result Item) *Observation {
	return &Observation{
		ResultTime: time.Now().UTC().Truncate(time.Millisecond),
		Result:     result,
	}
}

// ObservationType returns the O&M observation type URI matching the result variant
func ObservationType(result Item) string {
	name := "OM_Observation"
	switch result.(type) {
	case *Measurement:
		name = "OM_Measurement"
	case *Count:
		name = "OM_CountObservation"
	case *Boolean:
		name = "OM_TruthObservation"
	case *Category:
		name = "OM_CategoryObservation"
	case *Text:
		name = "OM_TextObservation"
	case *TimeInstant, *TimeRange:
		name = "OM_TemporalObservation"
	case *DataRecord:
		name = "OM_ComplexObservation"
	}
	return observationTypeBase + name
}

// AppendTo writes the observation as an om:OM_Observation child of parent
func (o *Observation) AppendTo(parent *etree.Element, ctx *EncodeContext) (*etree.Element, error) {
	const op = "meas.Observation.AppendTo"

	if o.Result == nil {
		return nil, errs.InvalidArgumentf(op, "Observation result must not be nil")
	}

	ctx = ctx.orDefault()
	el := xmltree.AddChild(parent, om, "OM_Observation")
	xmltree.SetAttr(el, gml, "id", ctx.NextID("obs"))

	if o.Description != "" {
		xmltree.AddTextChild(el, gml, "description", o.Description)
	}
	if o.Name != "" {
		xmltree.AddTextChild(el, gml, "name", o.Name)
	}

	typ := xmltree.AddChild(el, om, "type")
	xmltree.SetAttr(typ, xmltree.NSXLink, "href", ObservationType(o.Result))

	phenomenonTime := xmltree.AddChild(el, om, "phenomenonTime")
	if o.PhenomenonTime != nil {
		if _, err := appendGMLTime(phenomenonTime, o.PhenomenonTime, ctx.NextID("pt")); err != nil {
			return nil, err
		}
	} else {
		setMissing(phenomenonTime)
	}

	resultTime := xmltree.AddChild(el, om, "resultTime")
	if !o.ResultTime.IsZero() {
		if _, err := appendTimeInstant(resultTime, ctx.NextID("rt"), o.ResultTime); err != nil {
			return nil, err
		}
	} else {
		setMissing(resultTime)
	}

	appendReference(el, om, "procedure", o.Procedure)
	appendReference(el, om, "observedProperty", o.ObservedProperty)
	appendReference(el, om, "featureOfInterest", o.FeatureOfInterest)

	if !o.ResultQuality.IsGood() {
		rq := xmltree.AddChild(el, om, "resultQuality")
		xmltree.SetAttr(rq, xmltree.NSXLink, "href", o.ResultQuality.String())
	}

	result := xmltree.AddChild(el, om, "result")
	if _, err := AppendItem(result, o.Result, ctx); err != nil {
		return nil, err
	}
	return el, nil
}

// ObservationFromElement reads an om:OM_Observation element
func ObservationFromElement(el *etree.Element) (*Observation, error) {
	const op = "meas.ObservationFromElement"

	if !xmltree.Is(el, om, "OM_Observation") {
		return nil, errs.InvalidMessage(nil, op, "unexpected element %s, expected om:OM_Observation", xmltree.Describe(el))
	}

	o := &Observation{}
	if d := xmltree.FirstChild(el, gml, "description"); d != nil {
		o.Description = d.Text()
	}
	if n := xmltree.FirstChild(el, gml, "name"); n != nil {
		o.Name = n.Text()
	}

	if pt := xmltree.FirstChild(el, om, "phenomenonTime"); pt != nil && len(pt.ChildElements()) > 0 {
		t, err := decodeGMLTime(pt.ChildElements()[0])
		if err != nil {
			return nil, err
		}
		o.PhenomenonTime = t
	}

	if rt := xmltree.FirstChild(el, om, "resultTime"); rt != nil && len(rt.ChildElements()) > 0 {
		t, err := decodeGMLTime(rt.ChildElements()[0])
		if err != nil {
			return nil, err
		}
		instant, ok := t.(*TimeInstant)
		if !ok {
			return nil, errs.InvalidMessage(nil, op, "om:resultTime must hold a gml:TimeInstant")
		}
		o.ResultTime = instant.Value
	}

	o.Procedure = referenceOf(el, om, "procedure")
	o.ObservedProperty = referenceOf(el, om, "observedProperty")
	o.FeatureOfInterest = referenceOf(el, om, "featureOfInterest")

	if rq := xmltree.FirstChild(el, om, "resultQuality"); rq != nil {
		if href, ok := xmltree.Attr(rq, xmltree.NSXLink, "href"); ok {
			q, err := ParseDataQuality(href)
			if err != nil {
				return nil, errs.InvalidMessage(err, op, "invalid om:resultQuality")
			}
			o.ResultQuality = q
		}
	}

	result, err := xmltree.RequireChild(el, om, "result", op)
	if err != nil {
		return nil, err
	}
	content, err := xmltree.SingleChild(result, op)
	if err != nil {
		return nil, err
	}
	if o.Result, err = ItemFromElement(content); err != nil {
		return nil, err
	}
	return o, nil
}

func setMissing(el *etree.Element) {
	xmltree.SetAttr(el, "", "nilReason", "missing")
}

// appendReference writes a by-reference property; an empty href is written as missing
func appendReference(parent *etree.Element, ns, local, href string) *etree.Element {
	el := xmltree.AddChild(parent, ns, local)
	if href == "" {
		setMissing(el)
	} else {
		xmltree.SetAttr(el, xmltree.NSXLink, "href", href)
	}
	return el
}

func referenceOf(parent *etree.Element, ns, local string) string {
	el := xmltree.FirstChild(parent, ns, local)
	if el == nil {
		return ""
	}
	href, _ := xmltree.Attr(el, xmltree.NSXLink, "href")
	return href
}
