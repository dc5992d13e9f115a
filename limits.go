package bincursor

import "math"

// Limits caps the allocations a reader makes on behalf of its caller.
type Limits struct {
	MaxSpan uint64 // bytes accepted by a single ReadBytes
}

func defaultLimits() Limits {
	return Limits{
		MaxSpan: 256 << 20, // 256 MiB
	}
}

// withDefaults fills zero fields and caps MaxSpan at what a slice can hold.
func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxSpan == 0 {
		l.MaxSpan = d.MaxSpan
	}
	if l.MaxSpan > math.MaxInt {
		l.MaxSpan = math.MaxInt
	}
	return l
}
