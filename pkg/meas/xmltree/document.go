package xmltree

import (
	"github.com/beevik/etree"

	"meascodec/pkg/meas/errs"
)

// NewDocument creates a document with an XML declaration and a root element
// that declares every codec namespace
func NewDocument(uri, local string) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(QName(uri, local))
	for _, ns := range namespaces {
		root.CreateAttr("xmlns:"+ns.prefix, ns.uri)
	}
	return doc, root
}

// WriteDocument serializes doc. A positive indent pretty-prints the tree.
func WriteDocument(doc *etree.Document, indent int, op string) ([]byte, error) {
	if indent > 0 {
		doc.Indent(indent)
	}
	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, errs.InvalidMessage(err, op, "failed to serialize XML document")
	}
	return data, nil
}

// ReadDocument parses data and returns the root element, which must have the
// given name
func ReadDocument(data []byte, uri, local, op string) (*etree.Element, error) {
	root, err := ReadRoot(data, op)
	if err != nil {
		return nil, err
	}
	if !Is(root, uri, local) {
		return nil, errs.InvalidMessage(nil, op, "unexpected root element %s, expected %s",
			Describe(root), QName(uri, local))
	}
	return root, nil
}

// ReadRoot parses data and returns its root element regardless of its name
func ReadRoot(data []byte, op string) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errs.InvalidMessage(err, op, "failed to parse XML document")
	}
	root := doc.Root()
	if root == nil {
		return nil, errs.InvalidMessage(nil, op, "XML document has no root element")
	}
	return root, nil
}
