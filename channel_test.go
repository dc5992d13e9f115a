package bincursor

import (
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// memFile is a growable in-memory io.ReadWriteSeeker.
type memFile struct {
	data  []byte
	pos   int64
	seeks int
}

func (m *memFile) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *memFile) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.data)) {
		m.data = append(m.data, make([]byte, end-int64(len(m.data)))...)
	}
	copy(m.data[m.pos:], p)
	m.pos = end
	return len(p), nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	m.seeks++
	switch whence {
	case io.SeekStart:
		m.pos = offset
	case io.SeekCurrent:
		m.pos += offset
	case io.SeekEnd:
		m.pos = int64(len(m.data)) + offset
	}
	if m.pos < 0 {
		return 0, errors.New("negative position")
	}
	return m.pos, nil
}

type failingSeeker struct {
	memFile
}

func (f *failingSeeker) Seek(int64, int) (int64, error) { return 0, io.ErrClosedPipe }

func TestChannel_BigEndianRegression(t *testing.T) {
	f := &memFile{}
	w := NewChannelWriter(f)
	if err := w.WriteU32("a", binary.BigEndian, 0x10203040); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteU32("b", binary.BigEndian, 0x50607080); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x10, 0x20, 0x30, 0x40, 0x50, 0x60, 0x70, 0x80}
	if diff := cmp.Diff(want, f.data); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	r, err := NewChannelReader(f)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := r.ReadU32("a", binary.BigEndian)
	b, _ := r.ReadU32("b", binary.BigEndian)
	if a != 0x10203040 || b != 0x50607080 {
		t.Fatalf("read back %#x %#x", a, b)
	}
}

func TestChannel_WriterGrowsAndSeeks(t *testing.T) {
	f := &memFile{}
	w := NewChannelWriter(f, WithName("file"))
	if _, ok := w.BytesRemaining(); ok {
		t.Fatal("channel writer is unbounded")
	}
	if err := w.SeekTo(6); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteU16("tail", binary.LittleEndian, 0x0201); err != nil {
		t.Fatal(err)
	}
	if err := w.SeekTo(0); err != nil {
		t.Fatal(err)
	}
	if err := w.Skip(2); err != nil {
		t.Fatal(err)
	}
	sub, err := w.SubWriterAtBounded("mid", 0, 4)
	if err != nil {
		t.Fatal(err)
	}
	if err := sub.WriteBytes("mid", []byte{9, 9, 9, 9}); err != nil {
		t.Fatal(err)
	}
	want := []byte{0, 0, 9, 9, 9, 9, 1, 2}
	if diff := cmp.Diff(want, f.data); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if f.seeks == 0 {
		t.Fatal("channel writes must position the channel")
	}
}

func TestChannel_ReaderPhysicalBound(t *testing.T) {
	f := &memFile{data: sequence(6)}
	r, err := NewChannelReader(f, WithLimit(100))
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := r.BytesRemaining(); !ok || n != 6 {
		t.Fatalf("got %d, %v", n, ok)
	}
	if _, err := r.ReadU64("v", binary.BigEndian); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	s, err := r.SubReaderAtBounded("s", 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	v, err := s.ReadU32("v", binary.BigEndian)
	if err != nil || v != 0x02030405 {
		t.Fatalf("got %#x, %v", v, err)
	}
}

func TestChannel_SiblingsShareChannel(t *testing.T) {
	f := &memFile{data: sequence(8)}
	r, err := NewChannelReader(f)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := r.SubReaderAtBounded("a", 0, 4)
	b, _ := r.SubReaderAtBounded("b", 4, 4)
	for i := 0; i < 4; i++ {
		va, err := a.ReadU8("v")
		if err != nil {
			t.Fatal(err)
		}
		vb, err := b.ReadU8("v")
		if err != nil {
			t.Fatal(err)
		}
		if va != byte(i) || vb != byte(i+4) {
			t.Fatalf("interleaved reads got %d %d", va, vb)
		}
	}
}

func TestChannel_SeekFailureWrapped(t *testing.T) {
	f := &failingSeeker{memFile{data: sequence(4)}}
	w := NewChannelWriter(f, WithIdentity("bad"))
	err := w.WriteU8("v", 1)
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("expected io.ErrClosedPipe, got %v", err)
	}
	if w.OffsetRelative() != 0 {
		t.Fatal("failed write must not advance")
	}
	if _, err := NewChannelReader(f); !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("expected io.ErrClosedPipe, got %v", err)
	}
}

func TestChannel_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := NewChannelWriter(f, WithIdentity(path), WithOnClose(f.Close))
	if err := w.WriteF64("pi", binary.BigEndian, 3.5); err != nil {
		t.Fatal(err)
	}
	if err := w.Align(16); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteS16("neg", binary.LittleEndian, -5); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte{1}); err == nil {
		t.Fatal("release action should have closed the file")
	}

	rf, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer rf.Close()
	r, err := NewChannelReader(rf, WithIdentity(path))
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := r.BytesRemaining(); n != 18 {
		t.Fatalf("file size %d", n)
	}
	pi, err := r.ReadF64("pi", binary.BigEndian)
	if err != nil || pi != 3.5 {
		t.Fatalf("got %v, %v", pi, err)
	}
	if err := r.SeekTo(16); err != nil {
		t.Fatal(err)
	}
	neg, err := r.ReadS16("neg", binary.LittleEndian)
	if err != nil || neg != -5 {
		t.Fatalf("got %v, %v", neg, err)
	}
	_, err = r.ReadU8("past")
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	var de *Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if v, _ := de.Attr("Identity"); v != path {
		t.Fatalf("Identity = %q", v)
	}
}
