package meas

import (
	"time"

	"github.com/beevik/etree"

	"meascodec/pkg/meas/errs"
	"meascodec/pkg/meas/xmltree"
	"meascodec/pkg/meas/xsd"
)

const gml = xmltree.NSGML

// appendGMLTime writes a gml:TimeInstant for *TimeInstant or a gml:TimePeriod for *TimeRange
func appendGMLTime(parent *etree.Element, it Item, id string) (*etree.Element, error) {
	const op = "meas.appendGMLTime"

	switch v := it.(type) {
	case *TimeInstant:
		if err := v.validate(); err != nil {
			return nil, err
		}
		return appendTimeInstant(parent, id, v.Value)

	case *TimeRange:
		if err := v.validate(); err != nil {
			return nil, err
		}
		begin, err := xsd.FormatDateTime(v.Start)
		if err != nil {
			return nil, err
		}
		end, err := xsd.FormatDateTime(v.End)
		if err != nil {
			return nil, err
		}
		period := xmltree.AddChild(parent, gml, "TimePeriod")
		xmltree.SetAttr(period, gml, "id", id)
		xmltree.AddTextChild(period, gml, "beginPosition", begin)
		xmltree.AddTextChild(period, gml, "endPosition", end)
		return period, nil
	}
	return nil, errs.InvalidArgumentf(op, "Expected a time instant or time range, got %T", it)
}

func appendTimeInstant(parent *etree.Element, id string, t time.Time) (*etree.Element, error) {
	pos, err := xsd.FormatDateTime(t)
	if err != nil {
		return nil, err
	}
	instant := xmltree.AddChild(parent, gml, "TimeInstant")
	xmltree.SetAttr(instant, gml, "id", id)
	xmltree.AddTextChild(instant, gml, "timePosition", pos)
	return instant, nil
}

// decodeGMLTime reads a gml:TimeInstant into *TimeInstant or a gml:TimePeriod into *TimeRange
func decodeGMLTime(el *etree.Element) (Item, error) {
	const op = "meas.decodeGMLTime"

	switch {
	case xmltree.Is(el, gml, "TimeInstant"):
		pos, err := xmltree.RequireChild(el, gml, "timePosition", op)
		if err != nil {
			return nil, err
		}
		t, err := parseUTC(pos.Text(), op)
		if err != nil {
			return nil, errs.InvalidMessage(err, op, "invalid gml:timePosition")
		}
		return &TimeInstant{Value: t}, nil

	case xmltree.Is(el, gml, "TimePeriod"):
		beginEl, err := xmltree.RequireChild(el, gml, "beginPosition", op)
		if err != nil {
			return nil, err
		}
		endEl, err := xmltree.RequireChild(el, gml, "endPosition", op)
		if err != nil {
			return nil, err
		}
		begin, err := parseUTC(beginEl.Text(), op)
		if err != nil {
			return nil, errs.InvalidMessage(err, op, "invalid gml:beginPosition")
		}
		end, err := parseUTC(endEl.Text(), op)
		if err != nil {
			return nil, errs.InvalidMessage(err, op, "invalid gml:endPosition")
		}
		r := &TimeRange{Start: begin, End: end}
		if err := r.validate(); err != nil {
			return nil, errs.InvalidMessage(err, op, "invalid gml:TimePeriod")
		}
		return r, nil
	}
	return nil, errs.InvalidMessage(nil, op, "unexpected time element %s", xmltree.Describe(el))
}
