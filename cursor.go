package bincursor

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"sync/atomic"
)

const pathSeparator = "."

// physicalStore reports the physical extent of a backing store.
type physicalStore interface {
	physicalUpper() (uint64, bool)
}

// positioner is implemented by forward-only stores, whose transfer counter is
// the single position shared by every cursor of the tree.
type positioner interface {
	position() uint64
}

// tree is the state shared by a root cursor and all of its descendants.
type tree struct {
	identity string
	logger   *slog.Logger
	limits   Limits
	store    physicalStore
	seq      positioner // nil for random-access stores

	// scratch carries every multi-byte primitive of the tree.
	scratch [8]byte

	release    func() error
	once       sync.Once
	releaseErr error
}

func (t *tree) close() error {
	t.once.Do(func() {
		if t.release != nil {
			t.releaseErr = t.release()
		}
		t.logger.Debug("bincursor: released store", "identity", t.identity)
	})
	return t.releaseErr
}

// cursor holds the position and bounds of one reader or writer.
type cursor struct {
	t      *tree
	parent *cursor
	name   string
	path   string
	rel    Range // relative to the parent's absolute offset at creation
	abs    Range
	offset uint64 // unused by sequential trees
	closed atomic.Bool
}

func newRoot(cfg config, store physicalStore, seq positioner, size uint64, sizeKnown bool) *cursor {
	t := &tree{
		identity: cfg.identity,
		logger:   cfg.logger,
		limits:   cfg.limits,
		store:    store,
		seq:      seq,
		release:  cfg.onClose,
	}
	r := cfg.rootRange(size, sizeKnown)
	c := &cursor{t: t, name: cfg.name, path: cfg.name, rel: r, abs: r}
	t.logger.Debug("bincursor: opened", "identity", t.identity, "path", c.path, "bounds", r.String())
	return c
}

// newChild creates a cursor whose relative range is anchored at the absolute
// offset base of c. The range must already have been validated.
func (c *cursor) newChild(name string, rel Range, base uint64) *cursor {
	abs, _ := rel.Translate(base)
	child := &cursor{
		t:      c.t,
		parent: c,
		name:   name,
		path:   c.path + pathSeparator + name,
		rel:    rel,
		abs:    abs,
	}
	c.t.logger.Debug("bincursor: sub-cursor", "identity", c.t.identity, "path", child.path, "bounds", abs.String())
	return child
}

// Name returns the name of this cursor alone.
func (c *cursor) Name() string { return c.name }

// Path returns the names of this cursor and its ancestors joined by ".".
func (c *cursor) Path() string { return c.path }

// Identity returns the identity of the backing store.
func (c *cursor) Identity() string { return c.t.identity }

// Bounds returns the range of the cursor relative to its parent.
func (c *cursor) Bounds() Range { return c.rel }

// AbsoluteBounds returns the range of the cursor in store coordinates.
func (c *cursor) AbsoluteBounds() Range { return c.abs }

// OffsetRelative returns the current position relative to the start of the
// cursor.
func (c *cursor) OffsetRelative() uint64 {
	if c.t.seq != nil {
		p := c.t.seq.position()
		if p < c.abs.lower {
			return 0
		}
		return p - c.abs.lower
	}
	return c.offset
}

// OffsetAbsolute returns the current position in store coordinates.
func (c *cursor) OffsetAbsolute() uint64 {
	return c.abs.lower + c.OffsetRelative()
}

// BytesRemaining returns the number of bytes between the current position
// and the nearer of the declared and physical upper bounds. The second result
// is false when neither bound is known.
func (c *cursor) BytesRemaining() (uint64, bool) {
	upper, ok := c.effectiveUpper()
	if !ok {
		return 0, false
	}
	here := c.OffsetAbsolute()
	if here >= upper {
		return 0, true
	}
	return upper - here, true
}

// effectiveUpper is the nearer of the declared and physical upper bounds in
// store coordinates.
func (c *cursor) effectiveUpper() (uint64, bool) {
	pu, pok := c.t.store.physicalUpper()
	return minUpper(c.abs.upper, c.abs.bounded, pu, pok)
}

// Closed reports whether this cursor or any of its ancestors is closed.
func (c *cursor) Closed() bool {
	for p := c; p != nil; p = p.parent {
		if p.closed.Load() {
			return true
		}
	}
	return false
}

// Close marks the cursor closed. Closing the root also runs the release
// action. Only the first call has an effect.
func (c *cursor) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	if c.parent == nil {
		return c.t.close()
	}
	return nil
}

// advance moves c and every ancestor past n consumed bytes. An ancestor
// stops at the end of its own range. Sequential trees share the stream
// counter and need no bookkeeping.
func (c *cursor) advance(n uint64) {
	if c.t.seq != nil {
		return
	}
	c.offset += n
	for p := c.parent; p != nil; p = p.parent {
		p.offset = clampedAdd(p.offset, n, p.abs)
	}
}

func clampedAdd(off, n uint64, r Range) uint64 {
	size, bounded := r.Size()
	if !bounded {
		return off + n
	}
	if off >= size || n >= size-off {
		return size
	}
	return off + n
}

// newError builds a diagnostic carrying the identity, path and offsets of c
// ahead of the caller attributes.
func (c *cursor) newError(kind error, msg string, attrs map[string]string, cause error) *Error {
	e := newError(kind, msg, attrs, cause)
	ctx := []Attr{
		{Key: "Identity", Value: c.t.identity},
		{Key: "Path", Value: c.path},
		{Key: "Offset (Relative)", Value: hex(c.OffsetRelative())},
		{Key: "Offset (Absolute)", Value: hex(c.OffsetAbsolute())},
	}
	e.Attrs = append(ctx, e.Attrs...)
	return e
}

func (c *cursor) ioError(op string, err error) error {
	return fmt.Errorf("bincursor: %s: %s: %s at %s: %w", c.t.identity, c.path, op, hex(c.OffsetAbsolute()), err)
}

func (c *cursor) checkNotClosed(op string) error {
	if !c.Closed() {
		return nil
	}
	return c.newError(ErrClosed, "Cursor is closed.", map[string]string{"Operation": op}, nil)
}

// checkHasBytesRemaining fails when width bytes at the current position
// would cross the effective upper bound. A position already past that bound
// fails even for width 0.
func (c *cursor) checkHasBytesRemaining(field string, width uint64) error {
	upper, ok := c.effectiveUpper()
	if !ok {
		return nil
	}
	here := c.OffsetAbsolute()
	if here <= upper && width <= upper-here {
		return nil
	}
	rem, _ := c.BytesRemaining()
	pu, pok := c.t.store.physicalUpper()
	physical := "unbounded"
	if pok {
		physical = hex(pu)
	}
	return c.newError(ErrOutOfBounds, "Operation would cross the end of the cursor.", map[string]string{
		"Field":                field,
		"Size":                 strconv.FormatUint(width, 10),
		"Bytes Remaining":      strconv.FormatUint(rem, 10),
		"Bounds (Absolute)":    c.abs.String(),
		"Physical Upper Bound": physical,
		"Target Offset":        targetHex(c.OffsetAbsolute(), width),
	}, nil)
}

func (c *cursor) illegalBounds(requested string, rel string) error {
	return c.newError(ErrIllegalBounds, "Requested sub-range is not included in the bounds of the cursor.", map[string]string{
		"Bounds (Absolute)":           c.abs.String(),
		"Requested Bounds (Absolute)": requested,
		"Requested Bounds (Relative)": rel,
	}, nil)
}

// subRange validates a sub-range of size bytes starting offset bytes past
// the current position and returns it relative to that position.
func (c *cursor) subRange(offset, size uint64) (Range, error) {
	here := c.OffsetAbsolute()
	rel, err := rangeOfSize(offset, size)
	if err != nil {
		return Range{}, c.illegalBounds("overflow", fmt.Sprintf("offset 0x%x size 0x%x", offset, size))
	}
	cand, err := rel.Translate(here)
	if err != nil {
		return Range{}, c.illegalBounds("overflow", rel.String())
	}
	if !cand.IncludedIn(c.abs) {
		return Range{}, c.illegalBounds(cand.String(), rel.String())
	}
	return rel, nil
}

// offsetSubRange validates a sub-range starting offset bytes past the
// current position and extending to the upper bound of c.
func (c *cursor) offsetSubRange(offset uint64) (Range, error) {
	here := c.OffsetAbsolute()
	if offset > math.MaxUint64-here {
		return Range{}, c.illegalBounds("overflow", fmt.Sprintf("offset 0x%x", offset))
	}
	lower := here + offset
	if !c.abs.bounded {
		return NewRange(offset), nil
	}
	if lower > c.abs.upper {
		cand := NewRange(lower)
		return Range{}, c.illegalBounds(cand.String(), NewRange(offset).String())
	}
	return Range{lower: offset, upper: offset + (c.abs.upper - lower), bounded: true}, nil
}

// seekTo moves a random-access cursor to pos, which must lie inside the
// cursor's range.
func (c *cursor) seekTo(pos uint64) error {
	if err := c.checkNotClosed("seek"); err != nil {
		return err
	}
	size, bounded := c.abs.Size()
	if bounded && pos >= size {
		return c.newError(ErrOutOfBounds, "Seek target is outside the cursor.", map[string]string{
			"Bounds (Absolute)": c.abs.String(),
			"Target Offset":     hex(pos),
		}, nil)
	}
	c.offset = pos
	return nil
}

// alignment returns how many bytes must be skipped to reach the next
// absolute multiple of n.
func (c *cursor) alignment(n uint64) (uint64, error) {
	if n == 0 {
		return 0, fmt.Errorf("%w: alignment must be positive", ErrInvalidWidth)
	}
	diff := c.OffsetAbsolute() % n
	if diff == 0 {
		return 0, nil
	}
	return n - diff, nil
}

func hex(v uint64) string {
	return "0x" + strconv.FormatUint(v, 16)
}

func targetHex(here, width uint64) string {
	if width > math.MaxUint64-here {
		return "overflow"
	}
	return hex(here + width)
}
