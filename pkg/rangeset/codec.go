package rangeset

import (
	"fmt"
	"strconv"
	"strings"
)

// A set serializes to its flat boundary list: the canonical form is unique,
// so serialize/deserialize and render/parse both round-trip to an equal set.

// Bounds returns a copy of the flat boundary list of s: 2N values, the
// (begin, end) boundaries of each interval in traversal order.
func (s *RangeSet) Bounds() []uint64 {
	out := make([]uint64, len(s.bounds))
	copy(out, s.bounds)
	return out
}

// FromBounds builds a set from a flat boundary list as returned by Bounds.
// The list must already be canonical: even length, strictly increasing
// within the domain, with only a final 0 acting as the end-of-domain
// sentinel. Anything else signals ErrInvalidEncoding.
func FromBounds(width uint8, bounds []uint64) (*RangeSet, error) {
	s, err := New(width)
	if err != nil {
		return nil, err
	}
	if len(bounds)%2 != 0 {
		return nil, fmt.Errorf("%w: odd boundary count %d", ErrInvalidEncoding, len(bounds))
	}
	for i, v := range bounds {
		if v > s.max() {
			return nil, fmt.Errorf("%w: boundary %d does not fit in %d bits", ErrInvalidEncoding, v, width)
		}
		if i == 0 {
			continue
		}
		if v == 0 && i == len(bounds)-1 {
			// end-of-domain sentinel, sorts after everything
			continue
		}
		if bounds[i-1] >= v {
			return nil, fmt.Errorf("%w: boundaries not strictly increasing at index %d", ErrInvalidEncoding, i)
		}
	}
	if len(bounds) > 0 {
		s.bounds = make([]uint64, len(bounds))
		copy(s.bounds, bounds)
	}
	return s, nil
}

// MarshalBinary encodes s as one width byte followed by the boundary list
// as big-endian 64 bit values.
func (s *RangeSet) MarshalBinary() ([]byte, error) {
	out := make([]byte, 1+8*len(s.bounds))
	out[0] = s.width
	for i, v := range s.bounds {
		bePutUint64(out[1+8*i:], v)
	}
	return out, nil
}

// UnmarshalBinary decodes data produced by MarshalBinary, replacing s.
// Inputs with a truncated or odd-count boundary list, or boundaries that
// violate the ordering invariant, signal ErrInvalidEncoding and leave s
// untouched.
func (s *RangeSet) UnmarshalBinary(data []byte) error {
	if len(data) < 1 {
		return fmt.Errorf("%w: missing width byte", ErrInvalidEncoding)
	}
	if (len(data)-1)%16 != 0 {
		return fmt.Errorf("%w: body of %d bytes is not a sequence of boundary pairs", ErrInvalidEncoding, len(data)-1)
	}
	width := data[0]
	if width == 0 || width > MaxWidth {
		return fmt.Errorf("%w: width byte %d", ErrInvalidEncoding, width)
	}
	bounds := make([]uint64, (len(data)-1)/8)
	for i := range bounds {
		bounds[i] = beUint64(data[1+8*i:])
	}
	r, err := FromBounds(width, bounds)
	if err != nil {
		return err
	}
	s.width = r.width
	s.bounds = r.bounds
	return nil
}

// Parse reads the rendering produced by String, e.g. [(1, 10), (20, 30)],
// back into an equal set.
func Parse(width uint8, in string) (*RangeSet, error) {
	t := strings.TrimSpace(in)
	if len(t) < 2 || t[0] != '[' || t[len(t)-1] != ']' {
		return nil, fmt.Errorf("%w: expected [(begin, end), ...], got %q", ErrInvalidEncoding, in)
	}
	t = strings.TrimSpace(t[1 : len(t)-1])
	if t == "" {
		return New(width)
	}
	fields := strings.Fields(strings.NewReplacer("(", " ", ")", " ", ",", " ").Replace(t))
	bounds := make([]uint64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: boundary %q in %q", ErrInvalidEncoding, f, in)
		}
		bounds = append(bounds, v)
	}
	return FromBounds(width, bounds)
}

func bePutUint64(b []byte, v uint64) {
	_ = b[7] // early bounds check to guarantee safety of writes below
	b[0] = byte(v >> 56)
	b[1] = byte(v >> 48)
	b[2] = byte(v >> 40)
	b[3] = byte(v >> 32)
	b[4] = byte(v >> 24)
	b[5] = byte(v >> 16)
	b[6] = byte(v >> 8)
	b[7] = byte(v)
}

func beUint64(b []byte) uint64 {
	_ = b[7] // bounds check hint to compiler; see golang.org/issue/14808
	return uint64(b[7]) | uint64(b[6])<<8 | uint64(b[5])<<16 | uint64(b[4])<<24 |
		uint64(b[3])<<32 | uint64(b[2])<<40 | uint64(b[1])<<48 | uint64(b[0])<<56
}
