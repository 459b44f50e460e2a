package rangeset

import "sort"

// Insertion and erasure splice the boundary list directly instead of going
// through the merge engine, so the work done is bounded by the number of
// intervals the edit touches plus the final memmove. Both work on inclusive
// [lo, hi] bounds internally: hi is derived from the stored half-open end by
// a wrapping decrement, which turns the end-of-domain sentinel into the
// domain maximum and removes every sentinel special case from the
// arithmetic below.

// Insert adds the half-open range [begin, end) to the set, merging with
// neighboring intervals as needed. If begin > end the range wraps around
// the domain boundary. begin == end signals ErrInvalidRange.
func (s *RangeSet) Insert(begin, end uint64) error {
	if err := s.checkRange(begin, end); err != nil {
		return err
	}
	if begin < end {
		s.insert(begin, end-1)
		return nil
	}
	s.insert(begin, s.max())
	if end != 0 {
		s.insert(0, end-1)
	}
	return nil
}

// InsertValue adds the single value v to the set.
func (s *RangeSet) InsertValue(v uint64) error {
	if err := s.checkValue(v); err != nil {
		return err
	}
	s.insert(v, v)
	return nil
}

// Erase removes the half-open range [begin, end) from the set, shrinking,
// splitting or deleting the intervals it overlaps. If begin > end the range
// wraps around the domain boundary. begin == end signals ErrInvalidRange.
func (s *RangeSet) Erase(begin, end uint64) error {
	if err := s.checkRange(begin, end); err != nil {
		return err
	}
	if begin < end {
		s.erase(begin, end-1)
		return nil
	}
	s.erase(begin, s.max())
	if end != 0 {
		s.erase(0, end-1)
	}
	return nil
}

// EraseValue removes the single value v from the set.
func (s *RangeSet) EraseValue(v uint64) error {
	if err := s.checkValue(v); err != nil {
		return err
	}
	s.erase(v, v)
	return nil
}

// insert merges the inclusive range [lo, hi] into the set.
func (s *RangeSet) insert(lo, hi uint64) {
	n := s.NumRanges()
	// k1 is the first interval that overlaps or touches [lo, hi]; everything
	// before it ends at least two below lo.
	k1 := sort.Search(n, func(k int) bool {
		h := s.hi(k)
		return h >= lo || lo-h == 1
	})
	// k2 is the first interval that starts at least two above hi; intervals
	// k1..k2-1 coalesce with the new range.
	k2 := sort.Search(n, func(k int) bool {
		l := s.lo(k)
		return l > hi && l-hi > 1
	})
	if k1 < k2 {
		lo = min(lo, s.lo(k1))
		hi = max(hi, s.hi(k2-1))
	}
	end := (hi + 1) & s.max() // domain maximum wraps to the 0 sentinel
	if k1 == k2 {
		// no overlap or adjacency, splice in a new interval
		s.bounds = append(s.bounds, 0, 0)
		copy(s.bounds[2*k1+2:], s.bounds[2*k1:])
		s.bounds[2*k1] = lo
		s.bounds[2*k1+1] = end
		return
	}
	s.bounds[2*k1] = lo
	s.bounds[2*k1+1] = end
	s.bounds = append(s.bounds[:2*k1+2], s.bounds[2*k2:]...)
}

// erase removes the inclusive range [lo, hi] from the set.
func (s *RangeSet) erase(lo, hi uint64) {
	n := s.NumRanges()
	k1 := sort.Search(n, func(k int) bool { return s.hi(k) >= lo })
	k2 := sort.Search(n, func(k int) bool { return s.lo(k) > hi })
	if k1 >= k2 {
		return
	}
	keepLeft := s.lo(k1) < lo    // lo > 0 here, lo-1 cannot wrap
	keepRight := s.hi(k2-1) > hi // hi < max here, hi+1 cannot wrap
	out := make([]uint64, 0, len(s.bounds)+2)
	out = append(out, s.bounds[:2*k1]...)
	if keepLeft {
		out = append(out, s.lo(k1), lo)
	}
	if keepRight {
		out = append(out, hi+1, (s.hi(k2-1)+1)&s.max())
	}
	out = append(out, s.bounds[2*k2:]...)
	s.bounds = out
}
