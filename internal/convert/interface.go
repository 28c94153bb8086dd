// Package convert drives the codec for the command line tool: it detects the
// message held by a document, decodes it into the typed envelope and writes
// it back with the configured options.
package convert

import (
	"context"
	"time"

	"meascodec/pkg/meas"
)

// Converter defines the document operations offered by the command line tool
type Converter interface {
	// Detect returns the prefixed root element name of a document, e.g. "sps:Submit"
	Detect(data []byte) (string, error)

	// Decode parses a document into its typed message
	Decode(data []byte) (string, Message, error)

	// Roundtrip decodes a document and writes it again with the configured options
	Roundtrip(data []byte) ([]byte, error)

	// Validate decodes a document and checks its structure
	Validate(data []byte) error

	// Batch round-trips every file, using up to workers goroutines
	Batch(ctx context.Context, paths []string, workers int) ([]Result, error)
}

// Message is any decoded document that can be written back
type Message interface {
	Marshal(opts ...meas.WriteOption) ([]byte, error)
}

// Result is the outcome for one file of a batch
type Result struct {
	Path     string
	Kind     string
	Size     int
	Duration time.Duration
	Err      error
}

// Field is one line of a message summary
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
