package bincursor

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/x448/float16"
)

func checkWidth(width int) error {
	switch width {
	case 1, 2, 4, 8:
		return nil
	}
	return fmt.Errorf("%w: %d", ErrInvalidWidth, width)
}

// decodeUint interprets b as an unsigned integer of len(b) bytes. The result
// is widened to uint64 for every width.
func decodeUint(b []byte, order binary.ByteOrder) uint64 {
	switch len(b) {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(order.Uint16(b))
	case 4:
		return uint64(order.Uint32(b))
	default:
		return order.Uint64(b)
	}
}

// decodeInt sign-extends a len(b)-byte two's complement integer.
func decodeInt(b []byte, order binary.ByteOrder) int64 {
	switch len(b) {
	case 1:
		return int64(int8(b[0]))
	case 2:
		return int64(int16(order.Uint16(b)))
	case 4:
		return int64(int32(order.Uint32(b)))
	default:
		return int64(order.Uint64(b))
	}
}

func encodeUint(b []byte, order binary.ByteOrder, v uint64) error {
	width := len(b)
	if width < 8 && v>>(uint(width)*8) != 0 {
		return fmt.Errorf("%w: value 0x%x does not fit in %d bytes", ErrInvalidWidth, v, width)
	}
	switch width {
	case 1:
		b[0] = byte(v)
	case 2:
		order.PutUint16(b, uint16(v))
	case 4:
		order.PutUint32(b, uint32(v))
	default:
		order.PutUint64(b, v)
	}
	return nil
}

func encodeInt(b []byte, order binary.ByteOrder, v int64) error {
	width := len(b)
	if width < 8 {
		bits := uint(width) * 8
		lo, hi := -int64(1)<<(bits-1), int64(1)<<(bits-1)-1
		if v < lo || v > hi {
			return fmt.Errorf("%w: value %d does not fit in %d bytes", ErrInvalidWidth, v, width)
		}
	}
	return encodeUint(b, order, uint64(v)&widthMask(width))
}

func widthMask(width int) uint64 {
	if width >= 8 {
		return math.MaxUint64
	}
	return 1<<(uint(width)*8) - 1
}

func halfToFloat(bits uint16) float32 {
	return float16.Frombits(bits).Float32()
}

func floatToHalf(v float32) uint16 {
	return float16.Fromfloat32(v).Bits()
}
