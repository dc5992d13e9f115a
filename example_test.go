package bincursor_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/logicossoftware/go-bincursor"
)

// ExampleNewBufferWriter writes a small header through a bounded sub-writer
// and reads it back.
func ExampleNewBufferWriter() {
	buf := make([]byte, 12)
	w := bincursor.NewBufferWriter(buf, bincursor.WithName("file"))

	hdr, err := w.SubWriterAtBounded("header", 0, 8)
	if err != nil {
		fmt.Printf("Error creating header: %v\n", err)
		return
	}
	_ = hdr.WriteU32("magic", binary.BigEndian, 0x4D444F43)
	_ = hdr.WriteU16("version", binary.LittleEndian, 3)

	r := bincursor.NewBufferReader(buf, bincursor.WithName("file"))
	magic, _ := r.ReadU32("magic", binary.BigEndian)
	version, _ := r.ReadU16("version", binary.LittleEndian)
	fmt.Printf("magic=%#x version=%d\n", magic, version)

	// Output:
	// magic=0x4d444f43 version=3
}

// ExampleRandomReader_SubReaderAtBounded shows a sub-reader refusing to read
// past its bounds.
func ExampleRandomReader_SubReaderAtBounded() {
	r := bincursor.NewBufferReader([]byte{0, 1, 2, 3, 4, 5, 6, 7}, bincursor.WithIdentity("example"))

	s, _ := r.SubReaderAtBounded("pair", 4, 2)
	a, _ := s.ReadU8("a")
	b, _ := s.ReadU8("b")
	_, err := s.ReadU8("c")

	fmt.Println(a, b, s.Path())
	fmt.Println(errors.Is(err, bincursor.ErrOutOfBounds))

	// Output:
	// 4 5 root.pair
	// true
}

// ExampleStreamReader_SubReaderBounded reads a length-prefixed record from a
// stream through a sub-reader limited to the record.
func ExampleStreamReader_SubReaderBounded() {
	var buf bytes.Buffer
	w := bincursor.NewStreamWriter(&buf)
	_ = w.WriteU16("len", binary.BigEndian, 5)
	_ = w.WriteBytes("record", []byte("hello"))
	_ = w.WriteU8("trailer", 0xFF)

	r := bincursor.NewStreamReader(&buf, bincursor.WithName("stream"))
	n, _ := r.ReadU16("len", binary.BigEndian)
	rec, err := r.SubReaderBounded("record", uint64(n))
	if err != nil {
		fmt.Printf("Error creating record reader: %v\n", err)
		return
	}
	data, _ := rec.ReadBytes("payload", uint64(n))
	trailer, _ := r.ReadU8("trailer")
	fmt.Printf("%s %s %#x\n", rec.Path(), data, trailer)

	// Output:
	// stream.record hello 0xff
}
