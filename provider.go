package bincursor

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
)

// Cursor is the part of the API shared by every reader and writer.
type Cursor interface {
	Name() string
	Path() string
	Identity() string
	Bounds() Range
	AbsoluteBounds() Range
	OffsetRelative() uint64
	OffsetAbsolute() uint64
	BytesRemaining() (uint64, bool)
	Closed() bool
	Close() error
	Skip(n uint64) error
	Align(n uint64) error
}

// Reader is implemented by *RandomReader and *StreamReader.
type Reader interface {
	Cursor
	ReadUint(field string, width int, order binary.ByteOrder) (uint64, error)
	ReadInt(field string, width int, order binary.ByteOrder) (int64, error)
	ReadU8(field string) (uint8, error)
	ReadS8(field string) (int8, error)
	ReadU16(field string, order binary.ByteOrder) (uint16, error)
	ReadS16(field string, order binary.ByteOrder) (int16, error)
	ReadU32(field string, order binary.ByteOrder) (uint32, error)
	ReadS32(field string, order binary.ByteOrder) (int32, error)
	ReadU64(field string, order binary.ByteOrder) (uint64, error)
	ReadS64(field string, order binary.ByteOrder) (int64, error)
	ReadF16(field string, order binary.ByteOrder) (float32, error)
	ReadF32(field string, order binary.ByteOrder) (float32, error)
	ReadF64(field string, order binary.ByteOrder) (float64, error)
	ReadBytes(field string, n uint64) ([]byte, error)
	ReadFull(field string, p []byte) error
}

// Writer is implemented by *RandomWriter and *StreamWriter.
type Writer interface {
	Cursor
	WriteUint(field string, width int, order binary.ByteOrder, v uint64) error
	WriteInt(field string, width int, order binary.ByteOrder, v int64) error
	WriteU8(field string, v uint8) error
	WriteS8(field string, v int8) error
	WriteU16(field string, order binary.ByteOrder, v uint16) error
	WriteS16(field string, order binary.ByteOrder, v int16) error
	WriteU32(field string, order binary.ByteOrder, v uint32) error
	WriteS32(field string, order binary.ByteOrder, v int32) error
	WriteU64(field string, order binary.ByteOrder, v uint64) error
	WriteS64(field string, order binary.ByteOrder, v int64) error
	WriteF16(field string, order binary.ByteOrder, v float32) error
	WriteF32(field string, order binary.ByteOrder, v float32) error
	WriteF64(field string, order binary.ByteOrder, v float64) error
	WriteBytes(field string, p []byte) error
	PadTo(offset uint64, value byte) error
}

var (
	_ Reader = (*RandomReader)(nil)
	_ Reader = (*StreamReader)(nil)
	_ Writer = (*RandomWriter)(nil)
	_ Writer = (*StreamWriter)(nil)
)

// Kind selects the backing-store adapter built by OpenReader and OpenWriter.
type Kind int

const (
	KindBuffer Kind = iota
	KindChannel
	KindStream
)

func (k Kind) String() string {
	switch k {
	case KindBuffer:
		return "buffer"
	case KindChannel:
		return "channel"
	case KindStream:
		return "stream"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Config describes a root cursor. A nil Limit leaves readers bounded by the
// actual size of the store where it can be determined and writers
// unbounded.
type Config struct {
	Kind     Kind
	Limit    *uint64
	Name     string
	Identity string
	Logger   *slog.Logger
	Limits   Limits
	OnClose  func() error
}

func (c Config) options() []Option {
	opts := []Option{WithLimits(c.Limits)}
	if c.Limit != nil {
		opts = append(opts, WithLimit(*c.Limit))
	}
	if c.Name != "" {
		opts = append(opts, WithName(c.Name))
	}
	if c.Identity != "" {
		opts = append(opts, WithIdentity(c.Identity))
	}
	if c.Logger != nil {
		opts = append(opts, WithLogger(c.Logger))
	}
	if c.OnClose != nil {
		opts = append(opts, WithOnClose(c.OnClose))
	}
	return opts
}

// OpenReader builds a root reader of cfg.Kind over store, which must be a
// []byte for KindBuffer, an io.ReadSeeker for KindChannel and an io.Reader
// for KindStream.
func OpenReader(cfg Config, store any) (Reader, error) {
	opts := cfg.options()
	switch cfg.Kind {
	case KindBuffer:
		if b, ok := store.([]byte); ok {
			return NewBufferReader(b, opts...), nil
		}
	case KindChannel:
		if rs, ok := store.(io.ReadSeeker); ok {
			r, err := NewChannelReader(rs, opts...)
			if err != nil {
				return nil, err
			}
			return r, nil
		}
	case KindStream:
		if r, ok := store.(io.Reader); ok {
			return NewStreamReader(r, opts...), nil
		}
	default:
		return nil, fmt.Errorf("%w: unknown kind %s", ErrUnsupported, cfg.Kind)
	}
	return nil, fmt.Errorf("%w: %T cannot back a %s reader", ErrUnsupported, store, cfg.Kind)
}

// OpenWriter builds a root writer of cfg.Kind over store, which must be a
// []byte for KindBuffer, an io.WriteSeeker for KindChannel and an io.Writer
// for KindStream.
func OpenWriter(cfg Config, store any) (Writer, error) {
	opts := cfg.options()
	switch cfg.Kind {
	case KindBuffer:
		if b, ok := store.([]byte); ok {
			return NewBufferWriter(b, opts...), nil
		}
	case KindChannel:
		if ws, ok := store.(io.WriteSeeker); ok {
			return NewChannelWriter(ws, opts...), nil
		}
	case KindStream:
		if w, ok := store.(io.Writer); ok {
			return NewStreamWriter(w, opts...), nil
		}
	default:
		return nil, fmt.Errorf("%w: unknown kind %s", ErrUnsupported, cfg.Kind)
	}
	return nil, fmt.Errorf("%w: %T cannot back a %s writer", ErrUnsupported, store, cfg.Kind)
}
