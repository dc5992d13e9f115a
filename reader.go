package bincursor

import (
	"encoding/binary"
	"errors"
	"math"
	"strconv"
)

// source is the read side of a backing store.
type source interface {
	physicalStore
	// readAt fills p from absolute offset off.
	readAt(off uint64, p []byte) error
	// skip moves past n bytes at off. Random-access stores do nothing.
	skip(off, n uint64) error
}

// reader implements the primitive decoding shared by every reader kind.
type reader struct {
	*cursor
	src source
}

func (r *reader) transfer(field string, p []byte) error {
	if err := r.checkNotClosed(field); err != nil {
		return err
	}
	if err := r.checkHasBytesRemaining(field, uint64(len(p))); err != nil {
		return err
	}
	if err := r.src.readAt(r.OffsetAbsolute(), p); err != nil {
		return r.readError(field, uint64(len(p)), err)
	}
	r.advance(uint64(len(p)))
	return nil
}

func (r *reader) readError(field string, want uint64, err error) error {
	var st *shortTransfer
	if !errors.As(err, &st) {
		return r.ioError("read "+field, err)
	}
	kind, msg := ErrShortRead, "Stream ended before the requested bytes were read."
	if st.got == 0 {
		kind, msg = ErrEndOfInput, "Stream has no more bytes."
	}
	return r.newError(kind, msg, map[string]string{
		"Field":          field,
		"Size":           strconv.FormatUint(want, 10),
		"Bytes Received": strconv.FormatUint(st.got, 10),
	}, st.err)
}

func (r *reader) scratchOf(width int) []byte {
	return r.t.scratch[:width]
}

// ReadUint reads an unsigned integer of width 1, 2, 4 or 8 bytes.
func (r *reader) ReadUint(field string, width int, order binary.ByteOrder) (uint64, error) {
	if err := checkWidth(width); err != nil {
		return 0, err
	}
	b := r.scratchOf(width)
	if err := r.transfer(field, b); err != nil {
		return 0, err
	}
	return decodeUint(b, order), nil
}

// ReadInt reads a signed integer of width 1, 2, 4 or 8 bytes.
func (r *reader) ReadInt(field string, width int, order binary.ByteOrder) (int64, error) {
	if err := checkWidth(width); err != nil {
		return 0, err
	}
	b := r.scratchOf(width)
	if err := r.transfer(field, b); err != nil {
		return 0, err
	}
	return decodeInt(b, order), nil
}

func (r *reader) ReadU8(field string) (uint8, error) {
	v, err := r.ReadUint(field, 1, binary.BigEndian)
	return uint8(v), err
}

func (r *reader) ReadS8(field string) (int8, error) {
	v, err := r.ReadInt(field, 1, binary.BigEndian)
	return int8(v), err
}

func (r *reader) ReadU16(field string, order binary.ByteOrder) (uint16, error) {
	v, err := r.ReadUint(field, 2, order)
	return uint16(v), err
}

func (r *reader) ReadS16(field string, order binary.ByteOrder) (int16, error) {
	v, err := r.ReadInt(field, 2, order)
	return int16(v), err
}

func (r *reader) ReadU32(field string, order binary.ByteOrder) (uint32, error) {
	v, err := r.ReadUint(field, 4, order)
	return uint32(v), err
}

func (r *reader) ReadS32(field string, order binary.ByteOrder) (int32, error) {
	v, err := r.ReadInt(field, 4, order)
	return int32(v), err
}

func (r *reader) ReadU64(field string, order binary.ByteOrder) (uint64, error) {
	return r.ReadUint(field, 8, order)
}

func (r *reader) ReadS64(field string, order binary.ByteOrder) (int64, error) {
	return r.ReadInt(field, 8, order)
}

// ReadF16 reads an IEEE 754 binary16 value.
func (r *reader) ReadF16(field string, order binary.ByteOrder) (float32, error) {
	v, err := r.ReadUint(field, 2, order)
	if err != nil {
		return 0, err
	}
	return halfToFloat(uint16(v)), nil
}

func (r *reader) ReadF32(field string, order binary.ByteOrder) (float32, error) {
	v, err := r.ReadUint(field, 4, order)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(v)), nil
}

func (r *reader) ReadF64(field string, order binary.ByteOrder) (float64, error) {
	v, err := r.ReadUint(field, 8, order)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadBytes reads exactly n bytes into a new slice.
func (r *reader) ReadBytes(field string, n uint64) ([]byte, error) {
	if err := r.checkNotClosed(field); err != nil {
		return nil, err
	}
	if err := r.checkHasBytesRemaining(field, n); err != nil {
		return nil, err
	}
	if n > r.t.limits.MaxSpan {
		return nil, r.newError(ErrLimitExceeded, "Span exceeds the configured limit.", map[string]string{
			"Field": field,
			"Size":  strconv.FormatUint(n, 10),
			"Limit": strconv.FormatUint(r.t.limits.MaxSpan, 10),
		}, nil)
	}
	p := make([]byte, n)
	if err := r.transfer(field, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ReadFull fills p completely.
func (r *reader) ReadFull(field string, p []byte) error {
	return r.transfer(field, p)
}

// Skip moves past n bytes.
func (r *reader) Skip(n uint64) error {
	if err := r.checkNotClosed("skip"); err != nil {
		return err
	}
	if err := r.checkHasBytesRemaining("skip", n); err != nil {
		return err
	}
	if err := r.src.skip(r.OffsetAbsolute(), n); err != nil {
		return r.readError("skip", n, err)
	}
	r.advance(n)
	return nil
}

// Align skips to the next absolute offset that is a multiple of n.
func (r *reader) Align(n uint64) error {
	if err := r.checkNotClosed("align"); err != nil {
		return err
	}
	gap, err := r.alignment(n)
	if err != nil || gap == 0 {
		return err
	}
	return r.Skip(gap)
}

// RandomReader reads from a store that supports absolute positioning: a
// byte buffer or a seekable channel.
type RandomReader struct {
	reader
}

// SeekTo moves to pos, relative to the start of the reader.
func (r *RandomReader) SeekTo(pos uint64) error {
	return r.seekTo(pos)
}

// SubReaderAt returns a reader starting offset bytes past the current
// position and sharing the upper bound of r.
func (r *RandomReader) SubReaderAt(name string, offset uint64) (*RandomReader, error) {
	if err := r.checkNotClosed("sub-reader"); err != nil {
		return nil, err
	}
	here := r.OffsetAbsolute()
	rel, err := r.offsetSubRange(offset)
	if err != nil {
		return nil, err
	}
	return &RandomReader{reader{cursor: r.newChild(name, rel, here), src: r.src}}, nil
}

// SubReaderAtBounded returns a reader over size bytes starting offset bytes
// past the current position.
func (r *RandomReader) SubReaderAtBounded(name string, offset, size uint64) (*RandomReader, error) {
	if err := r.checkNotClosed("sub-reader"); err != nil {
		return nil, err
	}
	here := r.OffsetAbsolute()
	rel, err := r.subRange(offset, size)
	if err != nil {
		return nil, err
	}
	return &RandomReader{reader{cursor: r.newChild(name, rel, here), src: r.src}}, nil
}

// StreamReader reads from a forward-only stream. Sub-readers always start at
// the current position.
type StreamReader struct {
	reader
}

// SubReader returns a reader starting at the current position and sharing
// the upper bound of r.
func (r *StreamReader) SubReader(name string) (*StreamReader, error) {
	if err := r.checkNotClosed("sub-reader"); err != nil {
		return nil, err
	}
	here := r.OffsetAbsolute()
	rel, err := r.offsetSubRange(0)
	if err != nil {
		return nil, err
	}
	return &StreamReader{reader{cursor: r.newChild(name, rel, here), src: r.src}}, nil
}

// SubReaderBounded returns a reader over the next size bytes.
func (r *StreamReader) SubReaderBounded(name string, size uint64) (*StreamReader, error) {
	if err := r.checkNotClosed("sub-reader"); err != nil {
		return nil, err
	}
	here := r.OffsetAbsolute()
	rel, err := r.subRange(0, size)
	if err != nil {
		return nil, err
	}
	return &StreamReader{reader{cursor: r.newChild(name, rel, here), src: r.src}}, nil
}
