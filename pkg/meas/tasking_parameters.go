package meas

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"meascodec/pkg/meas/errs"
	"meascodec/pkg/meas/xmltree"
)

const sps = xmltree.NSSPS

// EncodeTaskingParameters writes rec as a sps:taskingParameters element under
// parent. Fields are named with the context's parameter prefix and a running
// number; the record's field names travel in each item's swe:label.
func EncodeTaskingParameters(parent *etree.Element, rec *DataRecord, ctx *EncodeContext) (*etree.Element, error) {
	ctx = ctx.orDefault()
	el := xmltree.AddChild(parent, sps, "taskingParameters")
	data := xmltree.AddChild(el, sps, "ParameterData")
	xmltree.AddChild(xmltree.AddChild(data, sps, "encoding"), swe, "XMLEncoding")
	record := xmltree.AddChild(xmltree.AddChild(data, sps, "values"), swe, "DataRecord")

	if rec == nil {
		return el, nil
	}

	i := 0
	for name, it := range rec.All() {
		i++
		field := xmltree.AddChild(record, swe, "field")
		xmltree.SetAttr(field, "", "name", ctx.ParameterPrefix()+strconv.Itoa(i))
		if _, err := appendItem(field, it, name, ctx); err != nil {
			return nil, fmt.Errorf("tasking parameter %q: %w", name, err)
		}
	}
	return el, nil
}

// DecodeTaskingParameters rebuilds a record from a sps:taskingParameters
// element. The generated field names are ignored. A nil element yields an
// empty record.
func DecodeTaskingParameters(el *etree.Element) (*DataRecord, error) {
	const op = "meas.DecodeTaskingParameters"

	rec := NewDataRecord()
	if el == nil {
		return rec, nil
	}

	data := xmltree.FirstChild(el, sps, "ParameterData")
	if data == nil {
		return rec, nil
	}
	values := xmltree.FirstChild(data, sps, "values")
	if values == nil {
		return rec, nil
	}
	record, err := xmltree.RequireChild(values, swe, "DataRecord", op)
	if err != nil {
		return nil, err
	}

	for _, field := range xmltree.Children(record, swe, "field") {
		child, err := xmltree.SingleChild(field, op)
		if err != nil {
			return nil, err
		}
		it, label, err := decodeItem(child)
		if err != nil {
			return nil, err
		}
		if label == "" {
			fieldName, _ := xmltree.Attr(field, "", "name")
			return nil, errs.InvalidMessage(nil, op, "tasking parameter %q has no swe:label", fieldName)
		}
		if err := rec.Add(label, it); err != nil {
			return nil, errs.InvalidMessage(err, op, "invalid tasking parameters")
		}
	}
	return rec, nil
}
