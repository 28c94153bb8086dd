package meas

import (
	"iter"
	"slices"

	"meascodec/pkg/meas/errs"
)

// Array is an ordered sequence of items
type Array struct {
	Items   []Item
	Quality *DataQuality
}

// NewArray creates an Array holding items
func NewArray(items ...Item) *Array {
	return &Array{Items: items}
}

func (*Array) Kind() ItemKind              { return KindArray }
func (a *Array) DataQuality() *DataQuality { return a.Quality }
func (*Array) item()                       {}

// DataRecord maps unique field names to items. Fields keep their insertion order.
type DataRecord struct {
	Quality *DataQuality

	names []string
	items map[string]Item
}

// NewDataRecord creates an empty record
func NewDataRecord() *DataRecord {
	return &DataRecord{items: make(map[string]Item)}
}

func (*DataRecord) Kind() ItemKind              { return KindDataRecord }
func (r *DataRecord) DataQuality() *DataQuality { return r.Quality }
func (*DataRecord) item()                       {}

// Add appends a field. Adding a name that is already present is rejected.
func (r *DataRecord) Add(name string, it Item) error {
	if name == "" {
		return errs.InvalidArgumentf("meas.DataRecord.Add", "Data record field name must not be empty")
	}
	if it == nil {
		return errs.InvalidArgumentf("meas.DataRecord.Add", "Data record field %q must not be nil", name)
	}
	if r.items == nil {
		r.items = make(map[string]Item)
	}
	if _, exists := r.items[name]; exists {
		return errs.InvalidArgumentf("meas.DataRecord.Add", "Data record already contains field %q", name)
	}
	r.names = append(r.names, name)
	r.items[name] = it
	return nil
}

// Get returns the item stored under name
func (r *DataRecord) Get(name string) (Item, bool) {
	it, ok := r.items[name]
	return it, ok
}

// Remove deletes a field and reports whether it existed
func (r *DataRecord) Remove(name string) bool {
	if _, ok := r.items[name]; !ok {
		return false
	}
	delete(r.items, name)
	r.names = slices.DeleteFunc(r.names, func(n string) bool { return n == name })
	return true
}

// Len returns the number of fields
func (r *DataRecord) Len() int {
	return len(r.names)
}

// Names returns the field names in insertion order
func (r *DataRecord) Names() []string {
	return slices.Clone(r.names)
}

// All iterates over the fields in insertion order
func (r *DataRecord) All() iter.Seq2[string, Item] {
	return func(yield func(string, Item) bool) {
		for _, name := range r.names {
			if !yield(name, r.items[name]) {
				return
			}
		}
	}
}
