package rangeset

import (
	"fmt"
	"strings"
)

// MaxWidth is the largest supported domain bit width.
const MaxWidth = uint8(64)

// RangeSet is a set of unsigned integers drawn from the cyclic domain
// [0, 2^width), stored as an ordered sequence of disjoint, non-adjacent
// half-open [begin, end) intervals.
//
// The intervals are kept as a flat boundary list of even length whose values
// are strictly increasing, with one exception: a final boundary of 0 denotes
// 2^width, the end of the domain. The empty set is the empty list, the full
// set is [0, 0], and a logically wrapping interval (begin > end) is stored
// split at 0 so the list always reads as a single linear traversal of the
// cyclic domain.
//
// A RangeSet owns its boundary list outright. Use Copy for an independent
// value; operations returning a new set never alias the receiver.
type RangeSet struct {
	width  uint8
	bounds []uint64
}

// Interval is one half-open [Begin, End) interval of a set. An End of 0
// denotes the end of the domain.
type Interval struct {
	Begin uint64
	End   uint64
}

// New returns the empty set over the domain [0, 2^width).
func New(width uint8) (*RangeSet, error) {
	if width == 0 || width > MaxWidth {
		return nil, fmt.Errorf("%w: got %d, want 1..%d", ErrInvalidWidth, width, MaxWidth)
	}
	return &RangeSet{width: width}, nil
}

// Full returns the set containing every value of the domain [0, 2^width).
func Full(width uint8) (*RangeSet, error) {
	s, err := New(width)
	if err != nil {
		return nil, err
	}
	s.bounds = []uint64{0, 0}
	return s, nil
}

// Single returns the set containing only the value v.
func Single(width uint8, v uint64) (*RangeSet, error) {
	s, err := New(width)
	if err != nil {
		return nil, err
	}
	if v > s.max() {
		return nil, fmt.Errorf("%w: value %d does not fit in %d bits", ErrInvalidRange, v, width)
	}
	// v+1 wraps to the end-of-domain sentinel when v is the domain maximum
	s.bounds = []uint64{v, (v + 1) & s.max()}
	return s, nil
}

// Range returns the set covering the half-open interval [begin, end).
// If begin > end the interval wraps around the domain boundary, covering
// [begin, 2^width) and [0, end). An end of 0 denotes the end of the domain.
// begin == end is ambiguous between empty and full and is rejected.
func Range(width uint8, begin, end uint64) (*RangeSet, error) {
	s, err := New(width)
	if err != nil {
		return nil, err
	}
	if err := s.checkRange(begin, end); err != nil {
		return nil, err
	}
	switch {
	case begin < end:
		s.bounds = []uint64{begin, end}
	case end == 0:
		s.bounds = []uint64{begin, 0}
	default:
		// wrapping interval, stored split at 0
		s.bounds = []uint64{0, end, begin, 0}
	}
	return s, nil
}

// Copy returns an independently owned copy of s.
func (s *RangeSet) Copy() *RangeSet {
	out := &RangeSet{width: s.width}
	if len(s.bounds) > 0 {
		out.bounds = make([]uint64, len(s.bounds))
		copy(out.bounds, s.bounds)
	}
	return out
}

// Width returns the domain bit width of s.
func (s *RangeSet) Width() uint8 { return s.width }

// Empty reports whether s contains no values.
func (s *RangeSet) Empty() bool { return len(s.bounds) == 0 }

// Full reports whether s contains every value of its domain.
func (s *RangeSet) Full() bool {
	return len(s.bounds) == 2 && s.bounds[0] == 0 && s.bounds[1] == 0
}

// NumRanges returns the number of intervals in canonical form.
func (s *RangeSet) NumRanges() int { return len(s.bounds) / 2 }

// Cardinality returns the number of values in s. For the full set over a
// 64 bit domain the true count 2^64 wraps to 0.
func (s *RangeSet) Cardinality() uint64 {
	var n uint64
	for i := 0; i < len(s.bounds); i += 2 {
		n += (s.bounds[i+1] - s.bounds[i]) & s.max()
	}
	if s.Full() && s.width < MaxWidth {
		return uint64(1) << s.width
	}
	return n
}

// Equal reports whether s and o are the same set over the same domain.
// Canonical form is unique, so element-wise boundary comparison suffices.
func (s *RangeSet) Equal(o *RangeSet) bool {
	if s.width != o.width || len(s.bounds) != len(o.bounds) {
		return false
	}
	for i := range s.bounds {
		if s.bounds[i] != o.bounds[i] {
			return false
		}
	}
	return true
}

// Ranges returns the ordered intervals of s.
func (s *RangeSet) Ranges() []Interval {
	out := make([]Interval, 0, s.NumRanges())
	for i := 0; i < len(s.bounds); i += 2 {
		out = append(out, Interval{Begin: s.bounds[i], End: s.bounds[i+1]})
	}
	return out
}

// String renders s as an ordered list of (begin, end) pairs, e.g. [(1, 10)].
func (s *RangeSet) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < len(s.bounds); i += 2 {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "(%d, %d)", s.bounds[i], s.bounds[i+1])
	}
	b.WriteByte(']')
	return b.String()
}

// max returns the largest value of the domain.
func (s *RangeSet) max() uint64 {
	if s.width == MaxWidth {
		return ^uint64(0)
	}
	return (uint64(1) << s.width) - 1
}

// lo returns the first value of interval i.
func (s *RangeSet) lo(i int) uint64 { return s.bounds[2*i] }

// hi returns the last value of interval i. The end-of-domain sentinel 0
// wraps to the domain maximum under the subtraction.
func (s *RangeSet) hi(i int) uint64 { return (s.bounds[2*i+1] - 1) & s.max() }

// check verifies that o is defined over the same domain as s.
func (s *RangeSet) check(o *RangeSet) error {
	if s.width != o.width {
		return fmt.Errorf("%w: %d bits vs %d bits", ErrDomainMismatch, s.width, o.width)
	}
	return nil
}

// checkRange validates a half-open (begin, end) argument against the domain.
func (s *RangeSet) checkRange(begin, end uint64) error {
	if begin == end {
		return fmt.Errorf("%w: begin == end (%d) is ambiguous between empty and full", ErrInvalidRange, begin)
	}
	if begin > s.max() || end > s.max() {
		return fmt.Errorf("%w: (%d, %d) does not fit in %d bits", ErrInvalidRange, begin, end, s.width)
	}
	return nil
}

// checkValue validates a single value argument against the domain.
func (s *RangeSet) checkValue(v uint64) error {
	if v > s.max() {
		return fmt.Errorf("%w: value %d does not fit in %d bits", ErrInvalidRange, v, s.width)
	}
	return nil
}
