package meas

import (
	"fmt"
	"time"

	"github.com/beevik/etree"

	"meascodec/pkg/meas/errs"
	"meascodec/pkg/meas/xmltree"
	"meascodec/pkg/meas/xsd"
)

// ISOTimeUOM is the unit reference written on swe:Time and swe:TimeRange
const ISOTimeUOM = "http://www.opengis.net/def/uom/ISO-8601/0/Gregorian"

const (
	swe  = xmltree.NSSWE
	tsml = xmltree.NSTSML
)

// AppendItem encodes it as a new child of parent and returns the created element
func AppendItem(parent *etree.Element, it Item, ctx *EncodeContext) (*etree.Element, error) {
	return appendItem(parent, it, "", ctx.orDefault())
}

// ItemFromElement decodes an item element such as swe:Quantity or swe:DataRecord
func ItemFromElement(el *etree.Element) (Item, error) {
	it, _, err := decodeItem(el)
	return it, err
}

func validateItem(it Item) error {
	switch v := it.(type) {
	case *CountRange:
		return v.validate()
	case *CategoryRange:
		return v.validate()
	case *MeasurementRange:
		return v.validate()
	case *TimeInstant:
		return v.validate()
	case *TimeRange:
		return v.validate()
	case *TimeSeriesConstant:
		return v.validate()
	case *TimeSeriesFlexible:
		return v.validate()
	}
	return nil
}

// appendItem writes it under parent. A non-empty label is written as swe:label.
func appendItem(parent *etree.Element, it Item, label string, ctx *EncodeContext) (*etree.Element, error) {
	const op = "meas.AppendItem"

	if it == nil {
		return nil, errs.InvalidArgumentf(op, "Item must not be nil")
	}
	if err := validateItem(it); err != nil {
		return nil, err
	}

	switch v := it.(type) {
	case *Boolean:
		el := startComponent(parent, swe, "Boolean", label, v.Quality)
		xmltree.AddTextChild(el, swe, "value", xsd.FormatBool(v.Value))
		return el, nil

	case *Count:
		el := startComponent(parent, swe, "Count", label, v.Quality)
		xmltree.AddTextChild(el, swe, "value", xsd.FormatInt64(v.Value))
		return el, nil

	case *CountRange:
		el := startComponent(parent, swe, "CountRange", label, v.Quality)
		xmltree.AddTextChild(el, swe, "value", xsd.FormatInt64s([]int64{v.Low, v.High}))
		return el, nil

	case *Category:
		el := startComponent(parent, swe, "Category", label, v.Quality)
		appendCodeSpace(el, v.CodeSpace)
		xmltree.AddTextChild(el, swe, "value", v.Value)
		return el, nil

	case *CategoryRange:
		el := startComponent(parent, swe, "CategoryRange", label, v.Quality)
		appendCodeSpace(el, v.CodeSpace)
		value, err := xsd.FormatStrings([]string{v.Low, v.High})
		if err != nil {
			return nil, err
		}
		xmltree.AddTextChild(el, swe, "value", value)
		return el, nil

	case *Measurement:
		el := startComponent(parent, swe, "Quantity", label, v.Quality)
		appendUOMCode(el, swe, v.UnitOfMeasure)
		xmltree.AddTextChild(el, swe, "value", xsd.FormatDouble(v.Value))
		return el, nil

	case *MeasurementRange:
		el := startComponent(parent, swe, "QuantityRange", label, v.Quality)
		appendUOMCode(el, swe, v.UnitOfMeasure)
		xmltree.AddTextChild(el, swe, "value", xsd.FormatDoubles([]float64{v.Low, v.High}))
		return el, nil

	case *Text:
		el := startComponent(parent, swe, "Text", label, v.Quality)
		xmltree.AddTextChild(el, swe, "value", v.Value)
		return el, nil

	case *TimeInstant:
		value, err := xsd.FormatDateTime(v.Value)
		if err != nil {
			return nil, err
		}
		el := startComponent(parent, swe, "Time", label, v.Quality)
		appendUOMHref(el, ISOTimeUOM)
		xmltree.AddTextChild(el, swe, "value", value)
		return el, nil

	case *TimeRange:
		value, err := xsd.FormatDateTimes([]time.Time{v.Start, v.End})
		if err != nil {
			return nil, err
		}
		el := startComponent(parent, swe, "TimeRange", label, v.Quality)
		appendUOMHref(el, ISOTimeUOM)
		xmltree.AddTextChild(el, swe, "value", value)
		return el, nil

	case *Array:
		el := startComponent(parent, swe, "DataArray", label, v.Quality)
		count := xmltree.AddChild(xmltree.AddChild(el, swe, "elementCount"), swe, "Count")
		xmltree.AddTextChild(count, swe, "value", xsd.FormatInt64(int64(len(v.Items))))
		for i, member := range v.Items {
			holder := xmltree.AddChild(el, swe, "member")
			if _, err := appendItem(holder, member, "", ctx); err != nil {
				return nil, fmt.Errorf("array member %d: %w", i, err)
			}
		}
		return el, nil

	case *DataRecord:
		el := startComponent(parent, swe, "DataRecord", label, v.Quality)
		for name, field := range v.All() {
			holder := xmltree.AddChild(el, swe, "field")
			xmltree.SetAttr(holder, "", "name", name)
			if _, err := appendItem(holder, field, "", ctx); err != nil {
				return nil, fmt.Errorf("data record field %q: %w", name, err)
			}
		}
		return el, nil

	case *TimeSeriesConstant:
		baseTime, err := xsd.FormatDateTime(v.BaseTime)
		if err != nil {
			return nil, err
		}
		el := startTimeseries(parent, label, v.Quality, ctx)
		meta := xmltree.AddChild(xmltree.AddChild(el, tsml, "metadata"), tsml, "MeasurementTimeseriesMetadata")
		xmltree.AddTextChild(meta, tsml, "baseTime", baseTime)
		xmltree.AddTextChild(meta, tsml, "spacing", xsd.FormatDuration(v.Spacing))
		appendDefaultPointUOM(el, v.UnitOfMeasure)
		for i := range v.Values {
			if err := appendTVP(el, nil, v.Values[i], v.PointQualities[i]); err != nil {
				return nil, err
			}
		}
		return el, nil

	case *TimeSeriesFlexible:
		el := startTimeseries(parent, label, v.Quality, ctx)
		appendDefaultPointUOM(el, v.UnitOfMeasure)
		for i := range v.Values {
			if err := appendTVP(el, &v.Timestamps[i], v.Values[i], v.PointQualities[i]); err != nil {
				return nil, err
			}
		}
		return el, nil
	}

	return nil, errs.InvalidArgumentf(op, "Unsupported item type %T", it)
}

// startComponent creates an item element with its optional label and quality
func startComponent(parent *etree.Element, ns, local, label string, quality *DataQuality) *etree.Element {
	el := xmltree.AddChild(parent, ns, local)
	if label != "" {
		xmltree.AddTextChild(el, swe, "label", label)
	}
	if quality != nil {
		q := xmltree.AddChild(el, swe, "quality")
		xmltree.SetAttr(q, xmltree.NSXLink, "href", quality.String())
	}
	return el
}

func startTimeseries(parent *etree.Element, label string, quality *DataQuality, ctx *EncodeContext) *etree.Element {
	el := startComponent(parent, tsml, "MeasurementTimeseries", label, quality)
	xmltree.SetAttr(el, xmltree.NSGML, "id", ctx.NextID("ts"))
	return el
}

func appendCodeSpace(el *etree.Element, codeSpace string) {
	if codeSpace == "" {
		return
	}
	cs := xmltree.AddChild(el, swe, "codeSpace")
	xmltree.SetAttr(cs, xmltree.NSXLink, "href", codeSpace)
}

func appendUOMCode(el *etree.Element, ns, code string) {
	uom := xmltree.AddChild(el, ns, "uom")
	xmltree.SetAttr(uom, "", "code", code)
}

func appendUOMHref(el *etree.Element, href string) {
	uom := xmltree.AddChild(el, swe, "uom")
	xmltree.SetAttr(uom, xmltree.NSXLink, "href", href)
}

func appendDefaultPointUOM(series *etree.Element, code string) {
	dpm := xmltree.AddChild(series, tsml, "defaultPointMetadata")
	meta := xmltree.AddChild(dpm, tsml, "DefaultTVPMeasurementMetadata")
	appendUOMCode(meta, tsml, code)
}

func appendTVP(series *etree.Element, timestamp *time.Time, value float64, quality DataQuality) error {
	tvp := xmltree.AddChild(xmltree.AddChild(series, tsml, "point"), tsml, "MeasurementTVP")
	if timestamp != nil {
		s, err := xsd.FormatDateTime(*timestamp)
		if err != nil {
			return err
		}
		xmltree.AddTextChild(tvp, tsml, "time", s)
	}
	xmltree.AddTextChild(tvp, tsml, "value", xsd.FormatDouble(value))
	if !quality.IsGood() {
		meta := xmltree.AddChild(xmltree.AddChild(tvp, tsml, "metadata"), tsml, "TVPMeasurementMetadata")
		qualifier := xmltree.AddChild(meta, tsml, "qualifier")
		xmltree.SetAttr(qualifier, xmltree.NSXLink, "href", quality.String())
	}
	return nil
}

// decodeItem reads an item element and returns it with its swe:label, if any
func decodeItem(el *etree.Element) (Item, string, error) {
	const op = "meas.ItemFromElement"

	var label string
	if l := xmltree.FirstChild(el, swe, "label"); l != nil {
		label = l.Text()
	}

	quality, err := decodeQuality(el)
	if err != nil {
		return nil, "", err
	}

	var it Item
	switch {
	case xmltree.NamespaceOf(el) == swe:
		it, err = decodeComponent(el, quality)
	case xmltree.Is(el, tsml, "MeasurementTimeseries"):
		it, err = decodeTimeseries(el, quality)
	}
	if err != nil {
		return nil, "", err
	}
	if it == nil {
		return nil, "", errs.InvalidMessage(nil, op, "unsupported item element %s", xmltree.Describe(el))
	}
	return it, label, nil
}

func decodeQuality(el *etree.Element) (*DataQuality, error) {
	q := xmltree.FirstChild(el, swe, "quality")
	if q == nil {
		return nil, nil
	}
	href, ok := xmltree.Attr(q, xmltree.NSXLink, "href")
	if !ok {
		return nil, errs.InvalidMessage(nil, "meas.decodeQuality", "missing xlink:href on swe:quality in %s",
			xmltree.Describe(el))
	}
	quality, err := ParseDataQuality(href)
	if err != nil {
		return nil, errs.InvalidMessage(err, "meas.decodeQuality", "invalid data quality in %s", xmltree.Describe(el))
	}
	return &quality, nil
}

func decodeComponent(el *etree.Element, quality *DataQuality) (Item, error) {
	const op = "meas.ItemFromElement"

	invalid := func(err error) error {
		return errs.InvalidMessage(err, op, "invalid value in %s", xmltree.Describe(el))
	}

	switch el.Tag {
	case "Boolean":
		s, err := valueText(el)
		if err != nil {
			return nil, err
		}
		v, err := xsd.ParseBool(s)
		if err != nil {
			return nil, invalid(err)
		}
		return &Boolean{Value: v, Quality: quality}, nil

	case "Count":
		s, err := valueText(el)
		if err != nil {
			return nil, err
		}
		v, err := xsd.ParseInt64(s)
		if err != nil {
			return nil, invalid(err)
		}
		return &Count{Value: v, Quality: quality}, nil

	case "CountRange":
		s, err := valueText(el)
		if err != nil {
			return nil, err
		}
		v, err := xsd.ParseInt64s(s)
		if err != nil {
			return nil, invalid(err)
		}
		if len(v) != 2 {
			return nil, errs.InvalidMessage(nil, op, "expected two values in %s, found %d", xmltree.Describe(el), len(v))
		}
		r := &CountRange{Low: v[0], High: v[1], Quality: quality}
		if err := r.validate(); err != nil {
			return nil, invalid(err)
		}
		return r, nil

	case "Category":
		s, err := valueText(el)
		if err != nil {
			return nil, err
		}
		return &Category{Value: s, CodeSpace: codeSpace(el), Quality: quality}, nil

	case "CategoryRange":
		s, err := valueText(el)
		if err != nil {
			return nil, err
		}
		v := xsd.ParseStrings(s)
		if len(v) != 2 {
			return nil, errs.InvalidMessage(nil, op, "expected two values in %s, found %d", xmltree.Describe(el), len(v))
		}
		return &CategoryRange{Low: v[0], High: v[1], CodeSpace: codeSpace(el), Quality: quality}, nil

	case "Quantity":
		uom, err := uomCode(el, swe)
		if err != nil {
			return nil, err
		}
		s, err := valueText(el)
		if err != nil {
			return nil, err
		}
		v, err := xsd.ParseDouble(s)
		if err != nil {
			return nil, invalid(err)
		}
		return &Measurement{UnitOfMeasure: uom, Value: v, Quality: quality}, nil

	case "QuantityRange":
		uom, err := uomCode(el, swe)
		if err != nil {
			return nil, err
		}
		s, err := valueText(el)
		if err != nil {
			return nil, err
		}
		v, err := xsd.ParseDoubles(s)
		if err != nil {
			return nil, invalid(err)
		}
		if len(v) != 2 {
			return nil, errs.InvalidMessage(nil, op, "expected two values in %s, found %d", xmltree.Describe(el), len(v))
		}
		r := &MeasurementRange{UnitOfMeasure: uom, Low: v[0], High: v[1], Quality: quality}
		if err := r.validate(); err != nil {
			return nil, invalid(err)
		}
		return r, nil

	case "Text":
		s, err := valueText(el)
		if err != nil {
			return nil, err
		}
		return &Text{Value: s, Quality: quality}, nil

	case "Time":
		s, err := valueText(el)
		if err != nil {
			return nil, err
		}
		t, err := parseUTC(s, op)
		if err != nil {
			return nil, invalid(err)
		}
		return &TimeInstant{Value: t, Quality: quality}, nil

	case "TimeRange":
		s, err := valueText(el)
		if err != nil {
			return nil, err
		}
		v, err := xsd.ParseDateTimes(s)
		if err != nil {
			return nil, invalid(err)
		}
		if len(v) != 2 {
			return nil, errs.InvalidMessage(nil, op, "expected two values in %s, found %d", xmltree.Describe(el), len(v))
		}
		r := &TimeRange{Start: v[0], End: v[1], Quality: quality}
		if err := r.validate(); err != nil {
			return nil, invalid(err)
		}
		return r, nil

	case "DataArray":
		return decodeArray(el, quality)

	case "DataRecord":
		return decodeRecord(el, quality)
	}
	return nil, nil
}

func decodeArray(el *etree.Element, quality *DataQuality) (Item, error) {
	const op = "meas.ItemFromElement"

	members := xmltree.Children(el, swe, "member")
	if countEl := xmltree.FirstChild(el, swe, "elementCount"); countEl != nil {
		count, err := xmltree.RequireChild(countEl, swe, "Count", op)
		if err != nil {
			return nil, err
		}
		s, err := valueText(count)
		if err != nil {
			return nil, err
		}
		n, err := xsd.ParseInt64(s)
		if err != nil {
			return nil, errs.InvalidMessage(err, op, "invalid element count in %s", xmltree.Describe(el))
		}
		if n != int64(len(members)) {
			return nil, errs.InvalidMessage(nil, op, "element count %d does not match %d members in %s",
				n, len(members), xmltree.Describe(el))
		}
	}

	items := make([]Item, 0, len(members))
	for i, member := range members {
		child, err := xmltree.SingleChild(member, op)
		if err != nil {
			return nil, err
		}
		it, _, err := decodeItem(child)
		if err != nil {
			return nil, fmt.Errorf("array member %d: %w", i, err)
		}
		items = append(items, it)
	}
	return &Array{Items: items, Quality: quality}, nil
}

func decodeRecord(el *etree.Element, quality *DataQuality) (Item, error) {
	const op = "meas.ItemFromElement"

	rec := NewDataRecord()
	rec.Quality = quality
	for _, field := range xmltree.Children(el, swe, "field") {
		name, ok := xmltree.Attr(field, "", "name")
		if !ok {
			return nil, errs.InvalidMessage(nil, op, "missing name attribute on swe:field")
		}
		child, err := xmltree.SingleChild(field, op)
		if err != nil {
			return nil, err
		}
		it, _, err := decodeItem(child)
		if err != nil {
			return nil, fmt.Errorf("data record field %q: %w", name, err)
		}
		if err := rec.Add(name, it); err != nil {
			return nil, errs.InvalidMessage(err, op, "invalid data record")
		}
	}
	return rec, nil
}

func decodeTimeseries(el *etree.Element, quality *DataQuality) (Item, error) {
	const op = "meas.ItemFromElement"

	var uom string
	if dpm := xmltree.FirstChild(el, tsml, "defaultPointMetadata"); dpm != nil {
		if meta := xmltree.FirstChild(dpm, tsml, "DefaultTVPMeasurementMetadata"); meta != nil {
			code, err := uomCode(meta, tsml)
			if err != nil {
				return nil, err
			}
			uom = code
		}
	}

	var seriesMeta *etree.Element
	if m := xmltree.FirstChild(el, tsml, "metadata"); m != nil {
		seriesMeta = xmltree.FirstChild(m, tsml, "MeasurementTimeseriesMetadata")
	}
	points := xmltree.Children(el, tsml, "point")

	if seriesMeta != nil && xmltree.FirstChild(seriesMeta, tsml, "spacing") != nil {
		baseEl, err := xmltree.RequireChild(seriesMeta, tsml, "baseTime", op)
		if err != nil {
			return nil, err
		}
		baseTime, err := parseUTC(baseEl.Text(), op)
		if err != nil {
			return nil, errs.InvalidMessage(err, op, "invalid base time in %s", xmltree.Describe(el))
		}
		spacing, err := xsd.ParseDuration(xmltree.FirstChild(seriesMeta, tsml, "spacing").Text())
		if err != nil {
			return nil, errs.InvalidMessage(err, op, "invalid spacing in %s", xmltree.Describe(el))
		}

		ts := &TimeSeriesConstant{
			UnitOfMeasure:  uom,
			BaseTime:       baseTime,
			Spacing:        spacing,
			Values:         make([]float64, 0, len(points)),
			PointQualities: make([]DataQuality, 0, len(points)),
			Quality:        quality,
		}
		for _, point := range points {
			_, value, q, err := decodeTVP(point, false)
			if err != nil {
				return nil, err
			}
			ts.Add(value, q)
		}
		if err := ts.validate(); err != nil {
			return nil, errs.InvalidMessage(err, op, "invalid time series")
		}
		return ts, nil
	}

	ts := &TimeSeriesFlexible{
		UnitOfMeasure:  uom,
		Timestamps:     make([]time.Time, 0, len(points)),
		Values:         make([]float64, 0, len(points)),
		PointQualities: make([]DataQuality, 0, len(points)),
		Quality:        quality,
	}
	for _, point := range points {
		t, value, q, err := decodeTVP(point, true)
		if err != nil {
			return nil, err
		}
		ts.Timestamps = append(ts.Timestamps, t)
		ts.Values = append(ts.Values, value)
		ts.PointQualities = append(ts.PointQualities, q)
	}
	return ts, nil
}

func decodeTVP(point *etree.Element, withTime bool) (time.Time, float64, DataQuality, error) {
	const op = "meas.ItemFromElement"

	var t time.Time
	tvp, err := xmltree.RequireChild(point, tsml, "MeasurementTVP", op)
	if err != nil {
		return t, 0, DataQuality{}, err
	}

	if withTime {
		timeEl, err := xmltree.RequireChild(tvp, tsml, "time", op)
		if err != nil {
			return t, 0, DataQuality{}, err
		}
		t, err = parseUTC(timeEl.Text(), op)
		if err != nil {
			return t, 0, DataQuality{}, errs.InvalidMessage(err, op, "invalid time in tsml:MeasurementTVP")
		}
	}

	valueEl, err := xmltree.RequireChild(tvp, tsml, "value", op)
	if err != nil {
		return t, 0, DataQuality{}, err
	}
	value, err := xsd.ParseDouble(valueEl.Text())
	if err != nil {
		return t, 0, DataQuality{}, errs.InvalidMessage(err, op, "invalid value in tsml:MeasurementTVP")
	}

	quality := Good()
	if meta := xmltree.FirstChild(tvp, tsml, "metadata"); meta != nil {
		if tvpMeta := xmltree.FirstChild(meta, tsml, "TVPMeasurementMetadata"); tvpMeta != nil {
			if qualifier := xmltree.FirstChild(tvpMeta, tsml, "qualifier"); qualifier != nil {
				href, _ := xmltree.Attr(qualifier, xmltree.NSXLink, "href")
				quality, err = ParseDataQuality(href)
				if err != nil {
					return t, 0, DataQuality{}, errs.InvalidMessage(err, op, "invalid qualifier in tsml:MeasurementTVP")
				}
			}
		}
	}
	return t, value, quality, nil
}

func valueText(el *etree.Element) (string, error) {
	v, err := xmltree.RequireChild(el, swe, "value", "meas.ItemFromElement")
	if err != nil {
		return "", err
	}
	return v.Text(), nil
}

func codeSpace(el *etree.Element) string {
	cs := xmltree.FirstChild(el, swe, "codeSpace")
	if cs == nil {
		return ""
	}
	href, _ := xmltree.Attr(cs, xmltree.NSXLink, "href")
	return href
}

func uomCode(el *etree.Element, ns string) (string, error) {
	uom, err := xmltree.RequireChild(el, ns, "uom", "meas.ItemFromElement")
	if err != nil {
		return "", err
	}
	code, _ := xmltree.Attr(uom, "", "code")
	return code, nil
}

// parseUTC parses a timestamp that must carry a UTC designator or offset
func parseUTC(s, op string) (time.Time, error) {
	t, err := xsd.ParseDateTime(s)
	if err != nil {
		return time.Time{}, err
	}
	if err := xsd.RequireUTC(t, op); err != nil {
		return time.Time{}, err
	}
	return t, nil
}
