package bincursor

import (
	"log/slog"

	"github.com/google/uuid"
)

type config struct {
	name     string
	identity string
	limit    uint64
	limited  bool
	logger   *slog.Logger
	limits   Limits
	onClose  func() error
}

// Option configures a root cursor.
type Option func(*config)

// WithName sets the name of the root cursor. The name starts every path in
// the tree.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithIdentity sets the identity reported in diagnostics, typically a file
// name or URI. Without it a random urn:uuid identity is used.
func WithIdentity(id string) Option {
	return func(c *config) { c.identity = id }
}

// WithLimit bounds the root cursor to n bytes.
func WithLimit(n uint64) Option {
	return func(c *config) {
		c.limit = n
		c.limited = true
	}
}

// WithLogger sets the logger used for debug records. It defaults to
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithLimits sets the allocation limits of readers in the tree.
func WithLimits(l Limits) Option {
	return func(c *config) { c.limits = l }
}

// WithOnClose registers a release action run once when the root cursor is
// closed.
func WithOnClose(fn func() error) Option {
	return func(c *config) { c.onClose = fn }
}

func newConfig(opts []Option) config {
	cfg := config{name: "root"}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.identity == "" {
		cfg.identity = uuid.New().URN()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	cfg.limits = cfg.limits.withDefaults()
	return cfg
}

// rootRange returns the declared range of a root cursor. size is the size of
// the store where it is known.
func (c config) rootRange(size uint64, sizeKnown bool) Range {
	if c.limited {
		return Range{upper: c.limit, bounded: true}
	}
	if sizeKnown {
		return Range{upper: size, bounded: true}
	}
	return NewRange(0)
}
