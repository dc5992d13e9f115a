// Package bincursor implements bounded, hierarchical cursors for reading and
// writing binary data.
//
// A root cursor covers a whole backing store: a byte slice, a seekable
// channel such as an *os.File, or a forward-only stream. Sub-cursors are
// carved out of a parent to mirror the nesting of a binary format. Each
// sub-cursor is restricted to a range relative to its parent's position at
// creation and carries a dotted path of names used in diagnostics. Bytes
// consumed through a sub-cursor also advance its ancestors.
//
// # Cursor Kinds
//
//   - [RandomReader] and [RandomWriter] work on buffers and channels. They
//     can seek, and sub-cursors may start anywhere within the parent.
//   - [StreamReader] and [StreamWriter] work on streams. They only move
//     forward; sub-readers start at the current position and sub-writers may
//     start ahead of it, with the gap written as zeros.
//
// Integers of 1, 2, 4 and 8 bytes are read and written in either byte order,
// along with binary16, binary32 and binary64 floats and raw byte spans.
//
// # Basic Usage
//
//	buf := make([]byte, 16)
//	w := bincursor.NewBufferWriter(buf, bincursor.WithName("file"))
//	hdr, _ := w.SubWriterAtBounded("header", 0, 8)
//	_ = hdr.WriteU32("magic", binary.BigEndian, 0x7f454c46)
//	_ = hdr.WriteU32("version", binary.BigEndian, 1)
//
//	r := bincursor.NewBufferReader(buf, bincursor.WithName("file"))
//	hdrR, _ := r.SubReaderAtBounded("header", 0, 8)
//	magic, _ := hdrR.ReadU32("magic", binary.BigEndian)
//
// # Errors
//
// Bounds, closed-state and short-read failures are reported as [*Error]
// values listing the identity, path and offsets of the failing cursor. Use
// errors.Is with [ErrOutOfBounds], [ErrIllegalBounds], [ErrClosed],
// [ErrShortRead] or [ErrEndOfInput] to classify them. Failures of the
// underlying store are wrapped and remain matchable with errors.Is.
//
// # Concurrency
//
// The cursors of one tree share a position register and a scratch buffer and
// must not be used concurrently. Close may be called from any goroutine; the
// release action of the root runs exactly once.
package bincursor
