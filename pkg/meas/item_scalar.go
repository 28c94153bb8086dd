package meas

// Boolean is a true/false value
type Boolean struct {
	Value   bool
	Quality *DataQuality
}

// NewBoolean creates a Boolean item
func NewBoolean(value bool) *Boolean {
	return &Boolean{Value: value}
}

func (*Boolean) Kind() ItemKind              { return KindBoolean }
func (b *Boolean) DataQuality() *DataQuality { return b.Quality }
func (*Boolean) item()                       {}

// Count is an integer count
type Count struct {
	Value   int64
	Quality *DataQuality
}

// NewCount creates a Count item
func NewCount(value int64) *Count {
	return &Count{Value: value}
}

func (*Count) Kind() ItemKind              { return KindCount }
func (c *Count) DataQuality() *DataQuality { return c.Quality }
func (*Count) item()                       {}

// Category is a term, optionally qualified by a code space (vocabulary URI)
type Category struct {
	Value     string
	CodeSpace string
	Quality   *DataQuality
}

// NewCategory creates a Category item
func NewCategory(value string) *Category {
	return &Category{Value: value}
}

func (*Category) Kind() ItemKind              { return KindCategory }
func (c *Category) DataQuality() *DataQuality { return c.Quality }
func (*Category) item()                       {}

// Measurement is a quantity with a unit of measure (UCUM code)
type Measurement struct {
	UnitOfMeasure string
	Value         float64
	Quality       *DataQuality
}

// NewMeasurement creates a Measurement item
func NewMeasurement(unitOfMeasure string, value float64) *Measurement {
	return &Measurement{UnitOfMeasure: unitOfMeasure, Value: value}
}

func (*Measurement) Kind() ItemKind              { return KindMeasurement }
func (m *Measurement) DataQuality() *DataQuality { return m.Quality }
func (*Measurement) item()                       {}

// Text is free text
type Text struct {
	Value   string
	Quality *DataQuality
}

// NewText creates a Text item
func NewText(value string) *Text {
	return &Text{Value: value}
}

func (*Text) Kind() ItemKind              { return KindText }
func (t *Text) DataQuality() *DataQuality { return t.Quality }
func (*Text) item()                       {}
