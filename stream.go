package bincursor

import (
	"errors"
	"fmt"
	"io"
)

// shortTransfer reports a stream that ended before a transfer completed.
type shortTransfer struct {
	want, got uint64
	err       error
}

func (s *shortTransfer) Error() string {
	return fmt.Sprintf("short transfer: wanted %d bytes, got %d: %v", s.want, s.got, s.err)
}

func (s *shortTransfer) Unwrap() error { return s.err }

// streamSource reads forward only and counts the bytes consumed.
type streamSource struct {
	r        io.Reader
	consumed uint64
}

func (s *streamSource) physicalUpper() (uint64, bool) { return 0, false }

func (s *streamSource) position() uint64 { return s.consumed }

func (s *streamSource) readAt(_ uint64, p []byte) error {
	n, err := io.ReadFull(s.r, p)
	s.consumed += uint64(n)
	return s.classify(uint64(len(p)), uint64(n), err)
}

func (s *streamSource) skip(_ uint64, n uint64) error {
	got, err := io.CopyN(io.Discard, s.r, int64(n))
	s.consumed += uint64(got)
	if err == io.EOF && uint64(got) < n && got > 0 {
		err = io.ErrUnexpectedEOF
	}
	return s.classify(n, uint64(got), err)
}

func (s *streamSource) classify(want, got uint64, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &shortTransfer{want: want, got: got, err: err}
	}
	return err
}

// streamSink writes forward only and counts the bytes written.
type streamSink struct {
	w       io.Writer
	written uint64
}

func (s *streamSink) physicalUpper() (uint64, bool) { return 0, false }

func (s *streamSink) position() uint64 { return s.written }

func (s *streamSink) writeAt(_ uint64, p []byte) error {
	n, err := s.w.Write(p)
	s.written += uint64(n)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	return err
}

// NewStreamReader returns a reader over r. Without WithLimit the reader is
// unbounded and reads until r is exhausted.
func NewStreamReader(r io.Reader, opts ...Option) *StreamReader {
	cfg := newConfig(opts)
	st := &streamSource{r: r}
	return &StreamReader{reader{cursor: newRoot(cfg, st, st, 0, false), src: st}}
}

// NewStreamWriter returns a writer over w. Without WithLimit the writer is
// unbounded.
func NewStreamWriter(w io.Writer, opts ...Option) *StreamWriter {
	cfg := newConfig(opts)
	st := &streamSink{w: w}
	return &StreamWriter{writer{cursor: newRoot(cfg, st, st, 0, false), dst: st}}
}
