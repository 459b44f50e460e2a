package rangeset

// The containment and overlap predicates walk the two interval sequences
// with a pair of cursors, comparing inclusive bounds. No predicate ever
// inspects individual values inside an interval.

// contains reports whether every value of o is a value of s.
func (s *RangeSet) contains(o *RangeSet) bool {
	i, n := 0, s.NumRanges()
	for j := 0; j < o.NumRanges(); j++ {
		for i < n && s.hi(i) < o.lo(j) {
			i++
		}
		if i == n || s.lo(i) > o.lo(j) || s.hi(i) < o.hi(j) {
			return false
		}
	}
	return true
}

// intersects reports whether s and o share at least one value, stopping at
// the first overlapping pair.
func (s *RangeSet) intersects(o *RangeSet) bool {
	i, j := 0, 0
	for i < s.NumRanges() && j < o.NumRanges() {
		switch {
		case s.hi(i) < o.lo(j):
			i++
		case o.hi(j) < s.lo(i):
			j++
		default:
			return true
		}
	}
	return false
}

// promoteRange returns the canonical singleton set for a raw (begin, end)
// argument over the domain of s.
func (s *RangeSet) promoteRange(begin, end uint64) (*RangeSet, error) {
	return Range(s.width, begin, end)
}

// promoteValue returns the canonical singleton set for a raw value argument
// over the domain of s.
func (s *RangeSet) promoteValue(v uint64) (*RangeSet, error) {
	return Single(s.width, v)
}

// Contains reports whether every value of o is a value of s.
func (s *RangeSet) Contains(o *RangeSet) (bool, error) {
	if err := s.check(o); err != nil {
		return false, err
	}
	return s.contains(o), nil
}

// ContainsRange reports whether s contains every value of [begin, end).
func (s *RangeSet) ContainsRange(begin, end uint64) (bool, error) {
	o, err := s.promoteRange(begin, end)
	if err != nil {
		return false, err
	}
	return s.contains(o), nil
}

// ContainsValue reports whether s contains the value v.
func (s *RangeSet) ContainsValue(v uint64) (bool, error) {
	o, err := s.promoteValue(v)
	if err != nil {
		return false, err
	}
	return s.contains(o), nil
}

// IsWithin reports whether every value of s is a value of o.
func (s *RangeSet) IsWithin(o *RangeSet) (bool, error) {
	if err := s.check(o); err != nil {
		return false, err
	}
	return o.contains(s), nil
}

// IsWithinRange reports whether every value of s lies in [begin, end).
func (s *RangeSet) IsWithinRange(begin, end uint64) (bool, error) {
	o, err := s.promoteRange(begin, end)
	if err != nil {
		return false, err
	}
	return o.contains(s), nil
}

// IsWithinValue reports whether every value of s equals v.
func (s *RangeSet) IsWithinValue(v uint64) (bool, error) {
	o, err := s.promoteValue(v)
	if err != nil {
		return false, err
	}
	return o.contains(s), nil
}

// Intersects reports whether s and o share at least one value.
func (s *RangeSet) Intersects(o *RangeSet) (bool, error) {
	if err := s.check(o); err != nil {
		return false, err
	}
	return s.intersects(o), nil
}

// IntersectsRange reports whether s shares at least one value with
// [begin, end).
func (s *RangeSet) IntersectsRange(begin, end uint64) (bool, error) {
	o, err := s.promoteRange(begin, end)
	if err != nil {
		return false, err
	}
	return s.intersects(o), nil
}

// IntersectsValue reports whether s contains the value v.
func (s *RangeSet) IntersectsValue(v uint64) (bool, error) {
	o, err := s.promoteValue(v)
	if err != nil {
		return false, err
	}
	return s.intersects(o), nil
}

// IsDisjointFrom reports whether s and o share no values.
func (s *RangeSet) IsDisjointFrom(o *RangeSet) (bool, error) {
	ok, err := s.Intersects(o)
	return !ok && err == nil, err
}

// IsDisjointFromRange reports whether s shares no values with [begin, end).
func (s *RangeSet) IsDisjointFromRange(begin, end uint64) (bool, error) {
	ok, err := s.IntersectsRange(begin, end)
	return !ok && err == nil, err
}

// IsDisjointFromValue reports whether s does not contain the value v.
func (s *RangeSet) IsDisjointFromValue(v uint64) (bool, error) {
	ok, err := s.IntersectsValue(v)
	return !ok && err == nil, err
}
