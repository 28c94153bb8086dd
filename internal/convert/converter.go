package convert

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"meascodec/internal/metrics"
	"meascodec/internal/schema"
	"meascodec/pkg/meas"
	"meascodec/pkg/meas/errs"
	"meascodec/pkg/meas/xmltree"
)

// Metric operation labels
const (
	OpDecode   = "decode"
	OpEncode   = "encode"
	OpValidate = "validate"
)

// converter implements the Converter interface
type converter struct {
	logger   *slog.Logger
	metrics  *metrics.Metrics
	rules    *schema.Settings
	writeOpt []meas.WriteOption
}

// Option configures a converter
type Option func(*converter)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *converter) { c.logger = logger }
}

// WithMetrics records decode, encode and validation counts in m
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *converter) { c.metrics = m }
}

// WithSchema replaces the built-in structural rules
func WithSchema(rules *schema.Settings) Option {
	return func(c *converter) { c.rules = rules }
}

// WithWriteOptions sets the options used when documents are written
func WithWriteOptions(opts ...meas.WriteOption) Option {
	return func(c *converter) { c.writeOpt = opts }
}

// New creates a converter
func New(opts ...Option) Converter {
	c := &converter{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.rules == nil {
		c.rules = schema.DefaultSettings()
	}
	return c
}

// Detect returns the prefixed root element name of a document
func (c *converter) Detect(data []byte) (string, error) {
	const op = "convert.Detect"
	root, err := xmltree.ReadRoot(data, op)
	if err != nil {
		return "", err
	}
	uri := xmltree.NamespaceOf(root)
	if !xmltree.KnownNamespace(uri) {
		return "", errs.InvalidMessage(nil, op, "root element %s is not in a known namespace", root.Tag)
	}
	return xmltree.QName(uri, root.Tag), nil
}

// Decode parses a document into its typed message
func (c *converter) Decode(data []byte) (string, Message, error) {
	kind, msg, err := c.decode(data)
	if err != nil {
		c.fail(OpDecode, kind, err)
		return kind, nil, err
	}
	c.observe(OpDecode, kind, len(data))
	return kind, msg, nil
}

func (c *converter) decode(data []byte) (string, Message, error) {
	kind, err := c.Detect(data)
	if err != nil {
		return "", nil, err
	}
	dec, ok := decoders[kind]
	if !ok {
		return kind, nil, errs.InvalidMessage(nil, "convert.Decode", "unsupported message %s", kind)
	}
	msg, err := dec(data)
	if err != nil {
		return kind, nil, err
	}
	return kind, msg, nil
}

// Roundtrip decodes a document and writes it again
func (c *converter) Roundtrip(data []byte) ([]byte, error) {
	kind, msg, err := c.Decode(data)
	if err != nil {
		return nil, err
	}
	out, err := msg.Marshal(c.writeOpt...)
	if err != nil {
		c.fail(OpEncode, kind, err)
		return nil, fmt.Errorf("failed to write %s: %w", kind, err)
	}
	c.observe(OpEncode, kind, len(out))
	return out, nil
}

// Validate decodes a document and checks its structure
func (c *converter) Validate(data []byte) error {
	kind, _, err := c.Decode(data)
	if err != nil {
		return err
	}
	if err := c.rules.Validate(data); err != nil {
		c.fail(OpValidate, kind, err)
		return err
	}
	c.observe(OpValidate, kind, len(data))
	return nil
}

// Batch round-trips every file and checks the written documents. Per-file
// failures are reported in the results; only cancellation stops the batch.
func (c *converter) Batch(ctx context.Context, paths []string, workers int) ([]Result, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.process(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (c *converter) process(path string) Result {
	start := time.Now()
	res := Result{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("failed to read %s: %w", path, err)
		return res
	}
	res.Size = len(data)
	res.Kind, _ = c.Detect(data)

	out, err := c.Roundtrip(data)
	if err == nil {
		err = c.rules.Validate(out)
		if err != nil {
			c.fail(OpValidate, res.Kind, err)
		}
	}
	res.Err = err
	res.Duration = time.Since(start)

	if err != nil {
		c.logger.Warn("document failed", "path", path, "kind", res.Kind, "error", err)
	} else {
		c.logger.Debug("document converted", "path", path, "kind", res.Kind, "bytes", len(out), "duration", res.Duration)
	}
	return res
}

func (c *converter) observe(operation, kind string, size int) {
	if c.metrics != nil {
		c.metrics.ObserveDocument(operation, kind, size)
	}
}

func (c *converter) fail(operation, kind string, err error) {
	c.logger.Debug("codec operation failed", "operation", operation, "kind", kind, "error_kind", errs.KindOf(err).String(), "error", err)
	if c.metrics != nil {
		c.metrics.ObserveFailure(operation, err)
	}
}
