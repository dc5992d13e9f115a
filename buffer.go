package bincursor

import (
	"errors"
	"fmt"
)

var errBufferRange = errors.New("buffer access out of range")

// bufferStore addresses a byte slice directly. Its physical bound is the
// length of the slice.
type bufferStore struct {
	buf []byte
}

func (b *bufferStore) physicalUpper() (uint64, bool) {
	return uint64(len(b.buf)), true
}

func (b *bufferStore) readAt(off uint64, p []byte) error {
	if err := b.check(off, len(p)); err != nil {
		return err
	}
	copy(p, b.buf[off:off+uint64(len(p))])
	return nil
}

func (b *bufferStore) skip(off, n uint64) error { return nil }

func (b *bufferStore) writeAt(off uint64, p []byte) error {
	if err := b.check(off, len(p)); err != nil {
		return err
	}
	copy(b.buf[off:off+uint64(len(p))], p)
	return nil
}

func (b *bufferStore) check(off uint64, n int) error {
	size := uint64(len(b.buf))
	if off > size || uint64(n) > size-off {
		return fmt.Errorf("%w: %d bytes at 0x%x in a buffer of %d bytes", errBufferRange, n, off, size)
	}
	return nil
}

// NewBufferReader returns a reader over buf. Without WithLimit the reader is
// bounded by len(buf).
func NewBufferReader(buf []byte, opts ...Option) *RandomReader {
	cfg := newConfig(opts)
	st := &bufferStore{buf: buf}
	return &RandomReader{reader{cursor: newRoot(cfg, st, nil, uint64(len(buf)), true), src: st}}
}

// NewBufferWriter returns a writer over buf. Writes never grow buf; the
// writer is bounded by len(buf) or by WithLimit, whichever is smaller.
func NewBufferWriter(buf []byte, opts ...Option) *RandomWriter {
	cfg := newConfig(opts)
	st := &bufferStore{buf: buf}
	return &RandomWriter{writer{cursor: newRoot(cfg, st, nil, uint64(len(buf)), true), dst: st}}
}
