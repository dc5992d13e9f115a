package bincursor

import (
	"encoding/binary"
	"math"
)

// sink is the write side of a backing store.
type sink interface {
	physicalStore
	// writeAt stores all of p at absolute offset off.
	writeAt(off uint64, p []byte) error
}

const padChunk = 512

// writer implements the primitive encoding shared by every writer kind.
type writer struct {
	*cursor
	dst sink
}

func (w *writer) transfer(field string, p []byte) error {
	if err := w.checkNotClosed(field); err != nil {
		return err
	}
	if err := w.checkHasBytesRemaining(field, uint64(len(p))); err != nil {
		return err
	}
	if err := w.dst.writeAt(w.OffsetAbsolute(), p); err != nil {
		return w.ioError("write "+field, err)
	}
	w.advance(uint64(len(p)))
	return nil
}

// WriteUint writes v as an unsigned integer of width 1, 2, 4 or 8 bytes.
// Values that do not fit the width are rejected.
func (w *writer) WriteUint(field string, width int, order binary.ByteOrder, v uint64) error {
	if err := checkWidth(width); err != nil {
		return err
	}
	b := w.t.scratch[:width]
	if err := encodeUint(b, order, v); err != nil {
		return err
	}
	return w.transfer(field, b)
}

// WriteInt writes v as a signed integer of width 1, 2, 4 or 8 bytes.
func (w *writer) WriteInt(field string, width int, order binary.ByteOrder, v int64) error {
	if err := checkWidth(width); err != nil {
		return err
	}
	b := w.t.scratch[:width]
	if err := encodeInt(b, order, v); err != nil {
		return err
	}
	return w.transfer(field, b)
}

func (w *writer) WriteU8(field string, v uint8) error {
	return w.WriteUint(field, 1, binary.BigEndian, uint64(v))
}

func (w *writer) WriteS8(field string, v int8) error {
	return w.WriteInt(field, 1, binary.BigEndian, int64(v))
}

func (w *writer) WriteU16(field string, order binary.ByteOrder, v uint16) error {
	return w.WriteUint(field, 2, order, uint64(v))
}

func (w *writer) WriteS16(field string, order binary.ByteOrder, v int16) error {
	return w.WriteInt(field, 2, order, int64(v))
}

func (w *writer) WriteU32(field string, order binary.ByteOrder, v uint32) error {
	return w.WriteUint(field, 4, order, uint64(v))
}

func (w *writer) WriteS32(field string, order binary.ByteOrder, v int32) error {
	return w.WriteInt(field, 4, order, int64(v))
}

func (w *writer) WriteU64(field string, order binary.ByteOrder, v uint64) error {
	return w.WriteUint(field, 8, order, v)
}

func (w *writer) WriteS64(field string, order binary.ByteOrder, v int64) error {
	return w.WriteInt(field, 8, order, v)
}

// WriteF16 writes v as an IEEE 754 binary16 value, rounding to nearest even.
func (w *writer) WriteF16(field string, order binary.ByteOrder, v float32) error {
	return w.WriteUint(field, 2, order, uint64(floatToHalf(v)))
}

func (w *writer) WriteF32(field string, order binary.ByteOrder, v float32) error {
	return w.WriteUint(field, 4, order, uint64(math.Float32bits(v)))
}

func (w *writer) WriteF64(field string, order binary.ByteOrder, v float64) error {
	return w.WriteUint(field, 8, order, math.Float64bits(v))
}

// WriteBytes writes all of p.
func (w *writer) WriteBytes(field string, p []byte) error {
	return w.transfer(field, p)
}

// pad writes n copies of value.
func (w *writer) pad(field string, n uint64, value byte) error {
	if err := w.checkNotClosed(field); err != nil {
		return err
	}
	if err := w.checkHasBytesRemaining(field, n); err != nil {
		return err
	}
	var chunk [padChunk]byte
	if value != 0 {
		for i := range chunk {
			chunk[i] = value
		}
	}
	for n > 0 {
		k := min(n, padChunk)
		if err := w.dst.writeAt(w.OffsetAbsolute(), chunk[:k]); err != nil {
			return w.ioError("write "+field, err)
		}
		w.advance(k)
		n -= k
	}
	return nil
}

// Skip writes n zero bytes.
func (w *writer) Skip(n uint64) error {
	return w.pad("skip", n, 0)
}

// Align writes zero bytes up to the next absolute offset that is a multiple
// of n.
func (w *writer) Align(n uint64) error {
	if err := w.checkNotClosed("align"); err != nil {
		return err
	}
	gap, err := w.alignment(n)
	if err != nil || gap == 0 {
		return err
	}
	return w.Skip(gap)
}

// PadTo writes value until the relative offset reaches offset. Nothing is
// written if the writer is already at or past offset.
func (w *writer) PadTo(offset uint64, value byte) error {
	here := w.OffsetRelative()
	if offset <= here {
		return w.checkNotClosed("pad")
	}
	return w.pad("pad", offset-here, value)
}

// RandomWriter writes to a store that supports absolute positioning: a byte
// buffer or a seekable channel.
type RandomWriter struct {
	writer
}

// SeekTo moves to pos, relative to the start of the writer.
func (w *RandomWriter) SeekTo(pos uint64) error {
	return w.seekTo(pos)
}

// SubWriterAt returns a writer starting offset bytes past the current
// position and sharing the upper bound of w.
func (w *RandomWriter) SubWriterAt(name string, offset uint64) (*RandomWriter, error) {
	if err := w.checkNotClosed("sub-writer"); err != nil {
		return nil, err
	}
	here := w.OffsetAbsolute()
	rel, err := w.offsetSubRange(offset)
	if err != nil {
		return nil, err
	}
	return &RandomWriter{writer{cursor: w.newChild(name, rel, here), dst: w.dst}}, nil
}

// SubWriterAtBounded returns a writer over size bytes starting offset bytes
// past the current position.
func (w *RandomWriter) SubWriterAtBounded(name string, offset, size uint64) (*RandomWriter, error) {
	if err := w.checkNotClosed("sub-writer"); err != nil {
		return nil, err
	}
	here := w.OffsetAbsolute()
	rel, err := w.subRange(offset, size)
	if err != nil {
		return nil, err
	}
	return &RandomWriter{writer{cursor: w.newChild(name, rel, here), dst: w.dst}}, nil
}

// StreamWriter writes to a forward-only stream.
type StreamWriter struct {
	writer
}

// SubWriterAt returns a writer starting offset bytes ahead of the current
// position and sharing the upper bound of w. The gap is written as zeros
// before the sub-writer is returned.
func (w *StreamWriter) SubWriterAt(name string, offset uint64) (*StreamWriter, error) {
	if err := w.checkNotClosed("sub-writer"); err != nil {
		return nil, err
	}
	here := w.OffsetAbsolute()
	rel, err := w.offsetSubRange(offset)
	if err != nil {
		return nil, err
	}
	if err := w.pad("sub-writer gap", offset, 0); err != nil {
		return nil, err
	}
	return &StreamWriter{writer{cursor: w.newChild(name, rel, here), dst: w.dst}}, nil
}

// SubWriterAtBounded returns a writer over size bytes starting offset bytes
// ahead of the current position. The gap is written as zeros.
func (w *StreamWriter) SubWriterAtBounded(name string, offset, size uint64) (*StreamWriter, error) {
	if err := w.checkNotClosed("sub-writer"); err != nil {
		return nil, err
	}
	here := w.OffsetAbsolute()
	rel, err := w.subRange(offset, size)
	if err != nil {
		return nil, err
	}
	if err := w.pad("sub-writer gap", offset, 0); err != nil {
		return nil, err
	}
	return &StreamWriter{writer{cursor: w.newChild(name, rel, here), dst: w.dst}}, nil
}
