package meas

import (
	"fmt"

	"github.com/beevik/etree"

	"meascodec/pkg/meas/errs"
	"meascodec/pkg/meas/xmltree"
)

// ValueReference selects the observation time a filter applies to
type ValueReference int

const (
	ResultTime ValueReference = iota
	PhenomenonTime
)

var valueReferenceTokens = map[ValueReference]string{
	ResultTime:     "om:resultTime",
	PhenomenonTime: "om:phenomenonTime",
}

// String returns the fes:ValueReference token
func (r ValueReference) String() string {
	if s, ok := valueReferenceTokens[r]; ok {
		return s
	}
	return fmt.Sprintf("ValueReference(%d)", int(r))
}

// ParseValueReference maps a fes:ValueReference token to a ValueReference
func ParseValueReference(s string) (ValueReference, error) {
	for ref, token := range valueReferenceTokens {
		if token == s {
			return ref, nil
		}
	}
	return 0, errs.InvalidArgumentf("meas.ParseValueReference", "Unknown value reference %q", s)
}

// TemporalOperator is a FES temporal comparison
type TemporalOperator int

const (
	After TemporalOperator = iota
	Before
	During
)

var operatorNames = map[TemporalOperator]string{
	After:  "After",
	Before: "Before",
	During: "During",
}

// String returns the FES element name of the operator
func (o TemporalOperator) String() string {
	if s, ok := operatorNames[o]; ok {
		return s
	}
	return fmt.Sprintf("TemporalOperator(%d)", int(o))
}

// ParseTemporalOperator maps a FES element name to a TemporalOperator
func ParseTemporalOperator(s string) (TemporalOperator, error) {
	for op, name := range operatorNames {
		if name == s {
			return op, nil
		}
	}
	return 0, errs.InvalidArgumentf("meas.ParseTemporalOperator", "Unknown temporal operator %q", s)
}

// TemporalFilter restricts observations by time. After and Before compare
// against a *TimeInstant; During compares against a *TimeRange.
type TemporalFilter struct {
	ref      ValueReference
	operator TemporalOperator
	operand  Item
}

// NewTemporalFilter creates a filter, checking that operand suits operator
func NewTemporalFilter(ref ValueReference, operator TemporalOperator, operand Item) (*TemporalFilter, error) {
	const op = "meas.NewTemporalFilter"

	if _, ok := valueReferenceTokens[ref]; !ok {
		return nil, errs.InvalidArgumentf(op, "Unknown value reference %d", int(ref))
	}

	switch operator {
	case After, Before:
		instant, ok := operand.(*TimeInstant)
		if !ok {
			return nil, errs.InvalidArgumentf(op, "Operator %s requires a time instant operand, got %s", operator, describeKind(operand))
		}
		if err := instant.validate(); err != nil {
			return nil, err
		}
	case During:
		period, ok := operand.(*TimeRange)
		if !ok {
			return nil, errs.InvalidArgumentf(op, "Operator %s requires a time range operand, got %s", operator, describeKind(operand))
		}
		if err := period.validate(); err != nil {
			return nil, err
		}
	default:
		return nil, errs.InvalidArgumentf(op, "Unknown temporal operator %d", int(operator))
	}

	return &TemporalFilter{ref: ref, operator: operator, operand: operand}, nil
}

func describeKind(it Item) string {
	if it == nil {
		return "nil"
	}
	return string(it.Kind())
}

// ValueReference returns the filtered time property
func (f *TemporalFilter) ValueReference() ValueReference { return f.ref }

// Operator returns the comparison
func (f *TemporalFilter) Operator() TemporalOperator { return f.operator }

// Time returns the operand, a *TimeInstant or *TimeRange
func (f *TemporalFilter) Time() Item { return f.operand }

// ToXMLProxy returns a detached sos:temporalFilter element. Generated gml:id
// values start with idPrefix.
func (f *TemporalFilter) ToXMLProxy(idPrefix string) (*etree.Element, error) {
	holder := etree.NewElement("holder")
	ctx := WriteOptions{IDPrefix: idPrefix}.NewEncodeContext()
	el, err := f.AppendTo(holder, ctx)
	if err != nil {
		return nil, err
	}
	holder.RemoveChild(el)
	return el, nil
}

// AppendTo writes the filter as a sos:temporalFilter child of parent
func (f *TemporalFilter) AppendTo(parent *etree.Element, ctx *EncodeContext) (*etree.Element, error) {
	ctx = ctx.orDefault()
	el := xmltree.AddChild(parent, xmltree.NSSOS, "temporalFilter")
	opEl := xmltree.AddChild(el, xmltree.NSFES, f.operator.String())
	xmltree.AddTextChild(opEl, xmltree.NSFES, "ValueReference", f.ref.String())
	if _, err := appendGMLTime(opEl, f.operand, ctx.NextID("tf")); err != nil {
		return nil, err
	}
	return el, nil
}

// TemporalFilterFromXMLProxy reads a sos:temporalFilter element
func TemporalFilterFromXMLProxy(el *etree.Element) (*TemporalFilter, error) {
	const op = "meas.TemporalFilterFromXMLProxy"

	if !xmltree.Is(el, xmltree.NSSOS, "temporalFilter") {
		return nil, errs.InvalidMessage(nil, op, "unexpected element %s, expected sos:temporalFilter", xmltree.Describe(el))
	}
	opEl, err := xmltree.SingleChild(el, op)
	if err != nil {
		return nil, err
	}
	if xmltree.NamespaceOf(opEl) != xmltree.NSFES {
		return nil, errs.InvalidMessage(nil, op, "unexpected temporal operator %s", xmltree.Describe(opEl))
	}
	operator, err := ParseTemporalOperator(opEl.Tag)
	if err != nil {
		return nil, errs.InvalidMessage(err, op, "invalid temporal filter")
	}

	refEl, err := xmltree.RequireChild(opEl, xmltree.NSFES, "ValueReference", op)
	if err != nil {
		return nil, err
	}
	ref, err := ParseValueReference(refEl.Text())
	if err != nil {
		return nil, errs.InvalidMessage(err, op, "invalid temporal filter")
	}

	var operand Item
	for _, child := range opEl.ChildElements() {
		if xmltree.NamespaceOf(child) == gml {
			if operand, err = decodeGMLTime(child); err != nil {
				return nil, err
			}
			break
		}
	}
	if operand == nil {
		return nil, errs.InvalidMessage(nil, op, "missing time operand in %s", xmltree.Describe(opEl))
	}

	f, err := NewTemporalFilter(ref, operator, operand)
	if err != nil {
		return nil, errs.InvalidMessage(err, op, "invalid temporal filter")
	}
	return f, nil
}
