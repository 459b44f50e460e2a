// Package cellset decomposes range sets into hierarchical cells: aligned
// power-of-two blocks of the domain, identified by their first value and the
// number of leading bits they fix. A cell with Bits b over a width w domain
// covers 2^(w-b) consecutive values starting at a 2^(w-b) aligned ID.
package cellset

import (
	"fmt"
	"math/bits"

	"github.com/henderiw/rangeset/pkg/rangeset"
)

// Cell is one aligned block of the domain.
type Cell struct {
	ID   uint64 // first value covered by the cell
	Bits uint8  // leading bits fixed by the cell, 0..width
}

func (c Cell) String() string {
	return fmt.Sprintf("%d/%d", c.ID, c.Bits)
}

// Decompose returns the minimal ordered sequence of cells covering exactly
// the values of s.
func Decompose(s *rangeset.RangeSet) []Cell {
	width := s.Width()
	var out []Cell
	iter := s.Iterate()
	for iter.Next() {
		iv := iter.Value()
		// work on left-aligned inclusive bounds so the same masks serve
		// every domain width; pad the upper bound with ones so its cell
		// arithmetic sees a full 64 bit value
		shift := 64 - uint(width)
		x := iv.Begin << shift
		y := ((iv.End - 1) << shift) | pad(shift)
		out = appendCells(out, x, y, width)
	}
	return out
}

// FromCells reconstitutes the canonical set covered by cells. Cells must lie
// within the domain and be aligned to their own size.
func FromCells(width uint8, cells []Cell) (*rangeset.RangeSet, error) {
	s, err := rangeset.New(width)
	if err != nil {
		return nil, err
	}
	for _, c := range cells {
		if c.Bits > width {
			return nil, fmt.Errorf("cell %s: bits exceed domain width %d", c, width)
		}
		span := spanMask(width, c.Bits)
		if c.ID&span != 0 {
			return nil, fmt.Errorf("cell %s: id is not aligned to the cell size", c)
		}
		if err := insertSpan(s, width, c.ID, c.ID|span); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// insertSpan adds the inclusive range [lo, hi] to s. A span covering the
// whole domain cannot be expressed as one half-open insert, so it unions
// with the full set instead.
func insertSpan(s *rangeset.RangeSet, width uint8, lo, hi uint64) error {
	maxVal := ^uint64(0)
	if width < 64 {
		maxVal = (uint64(1) << width) - 1
	}
	if lo == 0 && hi == maxVal {
		f, err := rangeset.Full(width)
		if err != nil {
			return err
		}
		return s.UnionWith(f)
	}
	return s.Insert(lo, (hi+1)&maxVal)
}

// pad returns shift low one bits.
func pad(shift uint) uint64 {
	return (uint64(1) << shift) - 1
}

// spanMask returns the low bits spanned by a cell fixing b of width bits.
func spanMask(width, b uint8) uint64 {
	// 1<<64 is defined as 0 in Go, so a zero-bit cell spans the whole domain
	return (uint64(1) << (uint(width) - uint(b))) - 1
}

// mask64 returns a mask of the n leading bits of a 64 bit value.
func mask64(n uint8) uint64 {
	return ^uint64(0) << (64 - uint(n))
}

// appendCells splits the left-aligned inclusive range [x, y] into maximal
// aligned cells, largest-common-prefix first on each side of the split.
func appendCells(dst []Cell, x, y uint64, width uint8) []Cell {
	common, aligned := splitPoint(x, y)
	if aligned {
		return append(dst, Cell{ID: x >> (64 - uint(width)), Bits: common})
	}
	dst = appendCells(dst, x, x|^mask64(common+1), width)
	return appendCells(dst, y&mask64(common+1), y, width)
}

// splitPoint returns the length of the common bit prefix of x and y, and
// whether [x, y] is itself an aligned cell: after the common bits, x must be
// all zero bits and y all one bits.
func splitPoint(x, y uint64) (common uint8, aligned bool) {
	common = uint8(bits.LeadingZeros64(x ^ y))
	if common == 64 {
		return common, true
	}
	m := mask64(common)
	return common, x&^m == 0 && y|m == ^uint64(0)
}
