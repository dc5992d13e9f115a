package bincursor

import (
	"fmt"
	"io"
	"io/fs"
	"math"
)

// channelSource positions a seekable reader before every transfer.
type channelSource struct {
	rs   io.ReadSeeker
	size uint64
}

func (c *channelSource) physicalUpper() (uint64, bool) { return c.size, true }

func (c *channelSource) readAt(off uint64, p []byte) error {
	if err := seekAbs(c.rs, off); err != nil {
		return err
	}
	_, err := io.ReadFull(c.rs, p)
	return err
}

func (c *channelSource) skip(off, n uint64) error { return nil }

// channelSink positions a seekable writer before every transfer. Writing
// past the current end grows the underlying file.
type channelSink struct {
	ws io.WriteSeeker
}

func (c *channelSink) physicalUpper() (uint64, bool) { return 0, false }

func (c *channelSink) writeAt(off uint64, p []byte) error {
	if err := seekAbs(c.ws, off); err != nil {
		return err
	}
	n, err := c.ws.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	return err
}

func seekAbs(s io.Seeker, off uint64) error {
	if off > math.MaxInt64 {
		return fmt.Errorf("offset 0x%x exceeds the seekable range", off)
	}
	_, err := s.Seek(int64(off), io.SeekStart)
	return err
}

// channelSize returns the current size of rs, preferring Stat when rs is a
// file.
func channelSize(rs io.ReadSeeker) (uint64, error) {
	if st, ok := rs.(interface{ Stat() (fs.FileInfo, error) }); ok {
		fi, err := st.Stat()
		if err != nil {
			return 0, err
		}
		return uint64(fi.Size()), nil
	}
	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	return uint64(end), nil
}

// NewChannelReader returns a reader over rs. The physical bound is the size
// of rs when the reader is created; without WithLimit that size is also the
// declared bound.
func NewChannelReader(rs io.ReadSeeker, opts ...Option) (*RandomReader, error) {
	cfg := newConfig(opts)
	size, err := channelSize(rs)
	if err != nil {
		return nil, fmt.Errorf("bincursor: %s: size of channel: %w", cfg.identity, err)
	}
	st := &channelSource{rs: rs, size: size}
	return &RandomReader{reader{cursor: newRoot(cfg, st, nil, size, true), src: st}}, nil
}

// NewChannelWriter returns a writer over ws. Without WithLimit the writer is
// unbounded.
func NewChannelWriter(ws io.WriteSeeker, opts ...Option) *RandomWriter {
	cfg := newConfig(opts)
	st := &channelSink{ws: ws}
	return &RandomWriter{writer{cursor: newRoot(cfg, st, nil, 0, false), dst: st}}
}
