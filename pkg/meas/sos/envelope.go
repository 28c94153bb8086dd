package sos

import (
	"github.com/beevik/etree"

	"meascodec/pkg/meas/errs"
	"meascodec/pkg/meas/xmltree"
)

// Service attribute values written on every request
const (
	Service = "SOS"
	Version = "2.0.0"
)

const sos = xmltree.NSSOS

func newRequestDocument(local string) (*etree.Document, *etree.Element) {
	doc, root := xmltree.NewDocument(sos, local)
	xmltree.SetAttr(root, "", "service", Service)
	xmltree.SetAttr(root, "", "version", Version)
	return doc, root
}

func readRequestDocument(data []byte, local, op string) (*etree.Element, error) {
	root, err := xmltree.ReadDocument(data, sos, local, op)
	if err != nil {
		return nil, err
	}
	if service, ok := xmltree.Attr(root, "", "service"); ok && service != Service {
		return nil, errs.InvalidMessage(nil, op, "unexpected service %q, expected %q", service, Service)
	}
	return root, nil
}

func appendTexts(parent *etree.Element, local string, values []string) {
	for _, v := range values {
		xmltree.AddTextChild(parent, sos, local, v)
	}
}

// readTexts returns the text of every child with the given name; never nil
func readTexts(parent *etree.Element, local string) []string {
	children := xmltree.Children(parent, sos, local)
	out := make([]string, 0, len(children))
	for _, child := range children {
		out = append(out, child.Text())
	}
	return out
}
