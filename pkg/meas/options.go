package meas

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Defaults applied by NewWriteOptions
const (
	DefaultParameterPrefix = "param-"
	DefaultIndent          = 2
)

// WriteOptions control how documents are written
type WriteOptions struct {
	// IDPrefix starts every generated gml:id. Empty selects a random prefix.
	IDPrefix string
	// ParameterPrefix starts the generated tasking parameter field names
	ParameterPrefix string
	// Indent is the pretty-print width; zero or less writes compact XML
	Indent int
}

// WriteOption adjusts WriteOptions
type WriteOption func(*WriteOptions)

// WithIDPrefix sets the gml:id prefix
func WithIDPrefix(prefix string) WriteOption {
	return func(o *WriteOptions) { o.IDPrefix = prefix }
}

// WithParameterPrefix sets the tasking parameter name prefix
func WithParameterPrefix(prefix string) WriteOption {
	return func(o *WriteOptions) { o.ParameterPrefix = prefix }
}

// WithIndent sets the pretty-print width
func WithIndent(spaces int) WriteOption {
	return func(o *WriteOptions) { o.Indent = spaces }
}

// NewWriteOptions applies opts over the defaults
func NewWriteOptions(opts ...WriteOption) WriteOptions {
	o := WriteOptions{ParameterPrefix: DefaultParameterPrefix, Indent: DefaultIndent}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// EncodeContext carries per-document state while a tree is written
type EncodeContext struct {
	ids             *IDGenerator
	parameterPrefix string
}

// NewEncodeContext creates the state for writing one document
func (o WriteOptions) NewEncodeContext() *EncodeContext {
	prefix := o.ParameterPrefix
	if prefix == "" {
		prefix = DefaultParameterPrefix
	}
	return &EncodeContext{ids: NewIDGenerator(o.IDPrefix), parameterPrefix: prefix}
}

// NextID returns a fresh gml:id. A nil context draws from a one-off random
// prefix so the id is still unique.
func (c *EncodeContext) NextID(kind string) string {
	if c == nil || c.ids == nil {
		return NewIDGenerator("").Next(kind)
	}
	return c.ids.Next(kind)
}

// ParameterPrefix returns the prefix for generated tasking parameter names
func (c *EncodeContext) ParameterPrefix() string {
	if c == nil || c.parameterPrefix == "" {
		return DefaultParameterPrefix
	}
	return c.parameterPrefix
}

// orDefault returns c, or a context built from the default options when c is nil
func (c *EncodeContext) orDefault() *EncodeContext {
	if c == nil {
		return NewWriteOptions().NewEncodeContext()
	}
	return c
}

// IDGenerator produces gml:id values that are unique within one document
type IDGenerator struct {
	prefix string
	next   int
}

// NewIDGenerator creates a generator. An empty prefix is replaced with a random one.
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "i" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12] + "_"
	}
	return &IDGenerator{prefix: prefix}
}

// Next returns the next identifier, e.g. "p_obs_1"
func (g *IDGenerator) Next(kind string) string {
	g.next++
	return fmt.Sprintf("%s%s_%d", g.prefix, kind, g.next)
}
