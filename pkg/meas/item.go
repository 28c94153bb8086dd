package meas

// ItemKind names an Item variant
type ItemKind string

// Item variants
const (
	KindBoolean            ItemKind = "Boolean"
	KindCount              ItemKind = "Count"
	KindCountRange         ItemKind = "CountRange"
	KindCategory           ItemKind = "Category"
	KindCategoryRange      ItemKind = "CategoryRange"
	KindMeasurement        ItemKind = "Measurement"
	KindMeasurementRange   ItemKind = "MeasurementRange"
	KindText               ItemKind = "Text"
	KindArray              ItemKind = "Array"
	KindDataRecord         ItemKind = "DataRecord"
	KindTimeInstant        ItemKind = "TimeInstant"
	KindTimeRange          ItemKind = "TimeRange"
	KindTimeSeriesConstant ItemKind = "TimeSeriesConstant"
	KindTimeSeriesFlexible ItemKind = "TimeSeriesFlexible"
)

// Item is a single SWE Common value. The set of variants is closed: every
// implementation lives in this package and encoding switches over them.
//
// Every variant carries an optional data quality; nil means the value has no
// quality annotation.
type Item interface {
	// Kind names the variant
	Kind() ItemKind
	// DataQuality returns the quality annotation, or nil
	DataQuality() *DataQuality

	item()
}

// QualityOf returns the quality of it, treating a missing annotation as good
func QualityOf(it Item) DataQuality {
	if q := it.DataQuality(); q != nil {
		return *q
	}
	return Good()
}
