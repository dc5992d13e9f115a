package bincursor

import (
	"fmt"
	"math"
)

// Range is a half-open interval [lower, upper) of byte offsets. A Range
// without an upper bound extends indefinitely.
type Range struct {
	lower   uint64
	upper   uint64
	bounded bool
}

// NewRange returns the unbounded range [lower, +inf).
func NewRange(lower uint64) Range {
	return Range{lower: lower}
}

// NewBoundedRange returns [lower, upper). It fails with ErrInvalidRange when
// lower > upper.
func NewBoundedRange(lower, upper uint64) (Range, error) {
	if lower > upper {
		return Range{}, fmt.Errorf("%w: lower 0x%x exceeds upper 0x%x", ErrInvalidRange, lower, upper)
	}
	return Range{lower: lower, upper: upper, bounded: true}, nil
}

// rangeOfSize returns [lower, lower+size), failing if the upper bound overflows.
func rangeOfSize(lower, size uint64) (Range, error) {
	if size > math.MaxUint64-lower {
		return Range{}, fmt.Errorf("%w: 0x%x + 0x%x overflows", ErrInvalidRange, lower, size)
	}
	return Range{lower: lower, upper: lower + size, bounded: true}, nil
}

// Lower returns the inclusive lower bound.
func (r Range) Lower() uint64 { return r.lower }

// Upper returns the exclusive upper bound and whether there is one.
func (r Range) Upper() (uint64, bool) { return r.upper, r.bounded }

// Bounded reports whether r has an upper bound.
func (r Range) Bounded() bool { return r.bounded }

// Size returns upper-lower for bounded ranges.
func (r Range) Size() (uint64, bool) {
	if !r.bounded {
		return 0, false
	}
	return r.upper - r.lower, true
}

// Includes reports whether lower <= v < upper.
func (r Range) Includes(v uint64) bool {
	if v < r.lower {
		return false
	}
	return !r.bounded || v < r.upper
}

// IncludedIn reports whether r lies entirely inside o. Only the lower bound
// is compared when o is unbounded.
func (r Range) IncludedIn(o Range) bool {
	if r.lower < o.lower {
		return false
	}
	if !o.bounded {
		return true
	}
	return r.bounded && r.upper <= o.upper
}

// Translate shifts both bounds up by the given amount.
func (r Range) Translate(by uint64) (Range, error) {
	if by > math.MaxUint64-r.lower || (r.bounded && by > math.MaxUint64-r.upper) {
		return Range{}, fmt.Errorf("%w: translating %s by 0x%x overflows", ErrInvalidRange, r, by)
	}
	r.lower += by
	if r.bounded {
		r.upper += by
	}
	return r, nil
}

func (r Range) String() string {
	if !r.bounded {
		return fmt.Sprintf("[0x%x,+inf)", r.lower)
	}
	return fmt.Sprintf("[0x%x,0x%x)", r.lower, r.upper)
}

// MinimumUpperBound returns the smaller of the two upper bounds. A missing
// bound defers to the other one; if both are missing there is no bound.
func MinimumUpperBound(a, b Range) (uint64, bool) {
	return minUpper(a.upper, a.bounded, b.upper, b.bounded)
}

func minUpper(a uint64, aok bool, b uint64, bok bool) (uint64, bool) {
	switch {
	case aok && bok:
		return min(a, b), true
	case aok:
		return a, true
	case bok:
		return b, true
	}
	return 0, false
}
