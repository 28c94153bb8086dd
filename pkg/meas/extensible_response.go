package meas

import (
	"fmt"

	"github.com/beevik/etree"

	"meascodec/pkg/meas/errs"
	"meascodec/pkg/meas/xmltree"
)

const swes = xmltree.NSSWES

// Reserved extension field names
const (
	RequestResultField        = "RequestResult"
	RequestResultMessageField = "RequestResultMessage"
)

// RequestResultType is the outcome a service reports for a request
type RequestResultType int

const (
	RequestResultUnknown RequestResultType = iota
	RequestResultOk
	RequestResultBadRequest
	RequestResultNotFound
	RequestResultConflict
	RequestResultServerError
)

var requestResultTokens = []string{"Unknown", "Ok", "BadRequest", "NotFound", "Conflict", "ServerError"}

func (t RequestResultType) String() string {
	if int(t) >= 0 && int(t) < len(requestResultTokens) {
		return requestResultTokens[t]
	}
	return fmt.Sprintf("RequestResultType(%d)", int(t))
}

// ParseRequestResultType maps a wire token to a result type
func ParseRequestResultType(s string) (RequestResultType, error) {
	for i, token := range requestResultTokens {
		if token == s {
			return RequestResultType(i), nil
		}
	}
	return 0, errs.InvalidArgumentf("meas.ParseRequestResultType", "Unknown request result %q", s)
}

// ExtensibleResponse carries the result code, message and extension items
// shared by every response envelope
type ExtensibleResponse struct {
	RequestResult        RequestResultType
	RequestResultMessage string
	ExtensionItems       *DataRecord
}

func (r *ExtensibleResponse) hasExtension() bool {
	return r.RequestResult != RequestResultUnknown ||
		r.RequestResultMessage != "" ||
		(r.ExtensionItems != nil && r.ExtensionItems.Len() > 0)
}

// PopulateToProxy writes a swes:extension child of el when the response has
// anything to report
func (r *ExtensibleResponse) PopulateToProxy(el *etree.Element, ctx *EncodeContext) error {
	const op = "meas.ExtensibleResponse.PopulateToProxy"

	if !r.hasExtension() {
		return nil
	}
	if r.RequestResult < RequestResultUnknown || r.RequestResult > RequestResultServerError {
		return errs.InvalidArgumentf(op, "Invalid request result %d", int(r.RequestResult))
	}

	rec := NewDataRecord()
	if r.RequestResult != RequestResultUnknown {
		if err := rec.Add(RequestResultField, NewCategory(r.RequestResult.String())); err != nil {
			return err
		}
	}
	if r.RequestResultMessage != "" {
		if err := rec.Add(RequestResultMessageField, NewText(r.RequestResultMessage)); err != nil {
			return err
		}
	}
	if r.ExtensionItems != nil {
		for name, it := range r.ExtensionItems.All() {
			if name == RequestResultField || name == RequestResultMessageField {
				return errs.InvalidArgumentf(op, "Extension item name %q is reserved", name)
			}
			if err := rec.Add(name, it); err != nil {
				return err
			}
		}
	}

	ext := xmltree.AddChild(el, swes, "extension")
	_, err := AppendItem(ext, rec, ctx)
	return err
}

// ReadFromProxy reads the swes:extension children of el. Missing extensions
// leave the result unknown.
func (r *ExtensibleResponse) ReadFromProxy(el *etree.Element) error {
	const op = "meas.ExtensibleResponse.ReadFromProxy"

	r.RequestResult = RequestResultUnknown
	r.RequestResultMessage = ""
	r.ExtensionItems = NewDataRecord()

	for _, rec := range extensionRecords(el) {
		for _, field := range xmltree.Children(rec, swe, "field") {
			name, _ := xmltree.Attr(field, "", "name")
			child, err := xmltree.SingleChild(field, op)
			if err != nil {
				return err
			}
			it, _, err := decodeItem(child)
			if err != nil {
				return err
			}

			switch name {
			case RequestResultField:
				cat, ok := it.(*Category)
				if !ok {
					return errs.InvalidMessage(nil, op, "%s must be a swe:Category", RequestResultField)
				}
				if r.RequestResult, err = ParseRequestResultType(cat.Value); err != nil {
					return errs.InvalidMessage(err, op, "invalid request result")
				}
			case RequestResultMessageField:
				text, ok := it.(*Text)
				if !ok {
					return errs.InvalidMessage(nil, op, "%s must be a swe:Text", RequestResultMessageField)
				}
				r.RequestResultMessage = text.Value
			default:
				if err := r.ExtensionItems.Add(name, it); err != nil {
					return errs.InvalidMessage(err, op, "invalid extension")
				}
			}
		}
	}
	return nil
}

// extensionRecords returns the swe:DataRecord elements held by the swes:extension children of el
func extensionRecords(el *etree.Element) []*etree.Element {
	var out []*etree.Element
	for _, ext := range xmltree.Children(el, swes, "extension") {
		if rec := xmltree.FirstChild(ext, swe, "DataRecord"); rec != nil {
			out = append(out, rec)
		}
	}
	return out
}
