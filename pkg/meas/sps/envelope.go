package sps

import (
	"github.com/beevik/etree"

	"meascodec/pkg/meas"
	"meascodec/pkg/meas/errs"
	"meascodec/pkg/meas/xmltree"
)

// Service attribute values written on every request
const (
	Service = "SPS"
	Version = "2.0.0"
)

const sps = xmltree.NSSPS

func newRequestDocument(local string) (*etree.Document, *etree.Element) {
	doc, root := xmltree.NewDocument(sps, local)
	xmltree.SetAttr(root, "", "service", Service)
	xmltree.SetAttr(root, "", "version", Version)
	return doc, root
}

func readRequestDocument(data []byte, local, op string) (*etree.Element, error) {
	root, err := xmltree.ReadDocument(data, sps, local, op)
	if err != nil {
		return nil, err
	}
	if service, ok := xmltree.Attr(root, "", "service"); ok && service != Service {
		return nil, errs.InvalidMessage(nil, op, "unexpected service %q, expected %q", service, Service)
	}
	return root, nil
}

// reportResponse is the shape shared by Submit and Cancel responses: the
// extensible response followed by sps:result/sps:StatusReport
type reportResponse struct {
	meas.ExtensibleResponse

	Status *meas.TaskStatusReport
}

func (r *reportResponse) marshal(local, op string, opts []meas.WriteOption) ([]byte, error) {
	if r.Status == nil {
		return nil, errs.InvalidArgumentf(op, "Response status report must not be nil")
	}

	o := meas.NewWriteOptions(opts...)
	ctx := o.NewEncodeContext()
	doc, root := xmltree.NewDocument(sps, local)

	if err := r.ExtensibleResponse.PopulateToProxy(root, ctx); err != nil {
		return nil, err
	}
	if _, err := r.Status.AppendTo(xmltree.AddChild(root, sps, "result"), ctx); err != nil {
		return nil, err
	}
	return xmltree.WriteDocument(doc, o.Indent, op)
}

func (r *reportResponse) unmarshal(data []byte, local, op string) error {
	root, err := xmltree.ReadDocument(data, sps, local, op)
	if err != nil {
		return err
	}
	if err := r.ExtensibleResponse.ReadFromProxy(root); err != nil {
		return err
	}
	result, err := xmltree.RequireChild(root, sps, "result", op)
	if err != nil {
		return err
	}
	report, err := xmltree.RequireChild(result, sps, "StatusReport", op)
	if err != nil {
		return err
	}
	r.Status, err = meas.TaskStatusReportFromElement(report)
	return err
}
