// Package xmltree holds the namespace table and element helpers shared by the
// measurement codec packages. It sits on top of the etree element tree; the
// codec never handles raw markup text.
package xmltree

import (
	"github.com/beevik/etree"

	"meascodec/pkg/meas/errs"
)

// OGC and W3C namespaces used by the codec
const (
	NSGML   = "http://www.opengis.net/gml/3.2"
	NSOM    = "http://www.opengis.net/om/2.0"
	NSSWE   = "http://www.opengis.net/swe/2.0"
	NSSWES  = "http://www.opengis.net/swes/2.0"
	NSSOS   = "http://www.opengis.net/sos/2.0"
	NSSPS   = "http://www.opengis.net/sps/2.0"
	NSFES   = "http://www.opengis.net/fes/2.0"
	NSTSML  = "http://www.opengis.net/tsml/1.0"
	NSXLink = "http://www.w3.org/1999/xlink"
	NSXSI   = "http://www.w3.org/2001/XMLSchema-instance"
)

// namespaces lists every namespace in the order it is declared on a document root
var namespaces = []struct {
	prefix string
	uri    string
}{
	{"gml", NSGML},
	{"om", NSOM},
	{"swe", NSSWE},
	{"swes", NSSWES},
	{"sos", NSSOS},
	{"sps", NSSPS},
	{"fes", NSFES},
	{"tsml", NSTSML},
	{"xlink", NSXLink},
	{"xsi", NSXSI},
}

var (
	prefixByURI = make(map[string]string, len(namespaces))
	uriByPrefix = make(map[string]string, len(namespaces))
)

func init() {
	for _, ns := range namespaces {
		prefixByURI[ns.uri] = ns.prefix
		uriByPrefix[ns.prefix] = ns.uri
	}
}

// Prefix returns the conventional prefix of a namespace URI
func Prefix(uri string) string {
	return prefixByURI[uri]
}

// NamespaceURI returns the namespace bound to a conventional prefix, or ""
func NamespaceURI(prefix string) string {
	return uriByPrefix[prefix]
}

// KnownNamespace reports whether uri is one of the codec's namespaces
func KnownNamespace(uri string) bool {
	_, ok := prefixByURI[uri]
	return ok
}

// QName returns the prefixed name of local in namespace uri
func QName(uri, local string) string {
	if p := prefixByURI[uri]; p != "" {
		return p + ":" + local
	}
	return local
}

// NewElement creates a detached element
func NewElement(uri, local string) *etree.Element {
	return etree.NewElement(QName(uri, local))
}

// AddChild appends a new child element to parent
func AddChild(parent *etree.Element, uri, local string) *etree.Element {
	return parent.CreateElement(QName(uri, local))
}

// AddTextChild appends a new child element holding text
func AddTextChild(parent *etree.Element, uri, local, text string) *etree.Element {
	child := AddChild(parent, uri, local)
	child.SetText(text)
	return child
}

// SetAttr sets an attribute. An empty uri creates an unqualified attribute.
func SetAttr(el *etree.Element, uri, local, value string) {
	el.CreateAttr(QName(uri, local), value)
}

// Attr returns the value of an attribute and whether it was present
func Attr(el *etree.Element, uri, local string) (string, bool) {
	for i := range el.Attr {
		a := &el.Attr[i]
		if a.Key != local {
			continue
		}
		if attrNamespace(a) == uri {
			return a.Value, true
		}
	}
	return "", false
}

func attrNamespace(a *etree.Attr) string {
	if a.Space == "" {
		return ""
	}
	if uri := a.NamespaceURI(); uri != "" {
		return uri
	}
	return uriByPrefix[a.Space]
}

// NamespaceOf resolves the namespace URI of el. Elements detached from their
// declarations fall back to the conventional prefix table.
func NamespaceOf(el *etree.Element) string {
	if uri := el.NamespaceURI(); uri != "" {
		return uri
	}
	return uriByPrefix[el.Space]
}

// Is reports whether el has the given namespace and local name
func Is(el *etree.Element, uri, local string) bool {
	return el != nil && el.Tag == local && NamespaceOf(el) == uri
}

// Children returns the child elements of el with the given name, in document order
func Children(el *etree.Element, uri, local string) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if Is(child, uri, local) {
			out = append(out, child)
		}
	}
	return out
}

// FirstChild returns the first child element with the given name, or nil
func FirstChild(el *etree.Element, uri, local string) *etree.Element {
	for _, child := range el.ChildElements() {
		if Is(child, uri, local) {
			return child
		}
	}
	return nil
}

// RequireChild returns the first child element with the given name or an
// invalid message error naming the missing element
func RequireChild(el *etree.Element, uri, local, op string) (*etree.Element, error) {
	if child := FirstChild(el, uri, local); child != nil {
		return child, nil
	}
	return nil, errs.InvalidMessage(nil, op, "missing element %s in %s", QName(uri, local), Describe(el))
}

// SingleChild returns the only child element of el
func SingleChild(el *etree.Element, op string) (*etree.Element, error) {
	children := el.ChildElements()
	if len(children) != 1 {
		return nil, errs.InvalidMessage(nil, op, "expected exactly one child element in %s, found %d",
			Describe(el), len(children))
	}
	return children[0], nil
}

// Describe returns the prefixed name of el for error messages
func Describe(el *etree.Element) string {
	if el == nil {
		return "<nil>"
	}
	if p := prefixByURI[NamespaceOf(el)]; p != "" {
		return p + ":" + el.Tag
	}
	return el.FullTag()
}
