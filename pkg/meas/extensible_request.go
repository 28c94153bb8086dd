package meas

import (
	"github.com/beevik/etree"

	"meascodec/pkg/meas/errs"
	"meascodec/pkg/meas/xmltree"
)

// ExtensibleRequest carries request extensions. Each record is written in its
// own swes:extension.
type ExtensibleRequest struct {
	Items []*DataRecord
}

// PopulateToProxy writes one swes:extension child of el per record
func (r *ExtensibleRequest) PopulateToProxy(el *etree.Element, ctx *EncodeContext) error {
	for i, rec := range r.Items {
		if rec == nil {
			return errs.InvalidArgumentf("meas.ExtensibleRequest.PopulateToProxy", "Extension %d must not be nil", i)
		}
		ext := xmltree.AddChild(el, swes, "extension")
		if _, err := AppendItem(ext, rec, ctx); err != nil {
			return err
		}
	}
	return nil
}

// ReadFromProxy reads every data record extension of el
func (r *ExtensibleRequest) ReadFromProxy(el *etree.Element) error {
	r.Items = []*DataRecord{}
	for _, recEl := range extensionRecords(el) {
		it, err := ItemFromElement(recEl)
		if err != nil {
			return err
		}
		r.Items = append(r.Items, it.(*DataRecord))
	}
	return nil
}
