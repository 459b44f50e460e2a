package rangeset

// The four binary set operations share one linear merge scan over the two
// operands' boundary lists. Membership in each operand flips at every
// boundary; a boundary of the result is emitted wherever the combined
// membership changes. Because wrapping intervals are stored split at 0, both
// lists are already linear and the scan needs no modular comparisons; the
// only special boundary is the end-of-domain sentinel, which sorts after
// every ordinary value.

// peekBound returns boundary k of bounds, reporting whether it is the
// end-of-domain sentinel. Only a final 0 can be the sentinel: 0 anywhere
// else would violate the strictly-increasing invariant.
func peekBound(bounds []uint64, k int) (v uint64, sup bool) {
	v = bounds[k]
	sup = v == 0 && k == len(bounds)-1
	return v, sup
}

// boundLess orders boundaries, placing the end-of-domain sentinel last.
func boundLess(v1 uint64, sup1 bool, v2 uint64, sup2 bool) bool {
	if sup1 || sup2 {
		return !sup1 && sup2
	}
	return v1 < v2
}

// merge scans the boundary lists of s and o in one pass and returns the
// canonical result set whose membership at every point is keep(in s, in o).
// keep must be false when both inputs are false, so the scan starts and ends
// outside the result.
func (s *RangeSet) merge(o *RangeSet, keep func(a, b bool) bool) *RangeSet {
	out := make([]uint64, 0, len(s.bounds)+len(o.bounds))
	i, j := 0, 0
	inA, inB, in := false, false, false
	for i < len(s.bounds) || j < len(o.bounds) {
		var v uint64
		var sup, takeA, takeB bool
		switch {
		case j >= len(o.bounds):
			takeA = true
		case i >= len(s.bounds):
			takeB = true
		default:
			va, supA := peekBound(s.bounds, i)
			vb, supB := peekBound(o.bounds, j)
			takeA = !boundLess(vb, supB, va, supA)
			takeB = !boundLess(va, supA, vb, supB)
		}
		if takeA {
			v, sup = peekBound(s.bounds, i)
			inA = !inA
			i++
		}
		if takeB {
			v, sup = peekBound(o.bounds, j)
			inB = !inB
			j++
		}
		if next := keep(inA, inB); next != in {
			if sup {
				v = 0
			}
			out = append(out, v)
			in = next
		}
	}
	return &RangeSet{width: s.width, bounds: out}
}

// Union returns the set of values in s, in o, or in both.
func (s *RangeSet) Union(o *RangeSet) (*RangeSet, error) {
	if err := s.check(o); err != nil {
		return nil, err
	}
	return s.merge(o, func(a, b bool) bool { return a || b }), nil
}

// Intersect returns the set of values in both s and o.
func (s *RangeSet) Intersect(o *RangeSet) (*RangeSet, error) {
	if err := s.check(o); err != nil {
		return nil, err
	}
	return s.merge(o, func(a, b bool) bool { return a && b }), nil
}

// Subtract returns the set of values in s but not in o.
func (s *RangeSet) Subtract(o *RangeSet) (*RangeSet, error) {
	if err := s.check(o); err != nil {
		return nil, err
	}
	return s.merge(o, func(a, b bool) bool { return a && !b }), nil
}

// SymDiff returns the set of values in exactly one of s and o.
func (s *RangeSet) SymDiff(o *RangeSet) (*RangeSet, error) {
	if err := s.check(o); err != nil {
		return nil, err
	}
	return s.merge(o, func(a, b bool) bool { return a != b }), nil
}

// UnionWith replaces s with the union of s and o.
func (s *RangeSet) UnionWith(o *RangeSet) error {
	r, err := s.Union(o)
	if err != nil {
		return err
	}
	s.bounds = r.bounds
	return nil
}

// IntersectWith replaces s with the intersection of s and o.
func (s *RangeSet) IntersectWith(o *RangeSet) error {
	r, err := s.Intersect(o)
	if err != nil {
		return err
	}
	s.bounds = r.bounds
	return nil
}

// SubtractWith replaces s with the difference of s and o.
func (s *RangeSet) SubtractWith(o *RangeSet) error {
	r, err := s.Subtract(o)
	if err != nil {
		return err
	}
	s.bounds = r.bounds
	return nil
}

// SymDiffWith replaces s with the symmetric difference of s and o.
func (s *RangeSet) SymDiffWith(o *RangeSet) error {
	r, err := s.SymDiff(o)
	if err != nil {
		return err
	}
	s.bounds = r.bounds
	return nil
}

// Complement returns the set of domain values not in s. The domain boundary
// 0 acts as an implicit marker at both ends of the boundary list: it is
// prepended or stripped at the front, and appended or stripped at the back.
func (s *RangeSet) Complement() *RangeSet {
	n := len(s.bounds)
	if n == 0 {
		return &RangeSet{width: s.width, bounds: []uint64{0, 0}}
	}
	startsAtZero := s.bounds[0] == 0
	endsAtMax := s.bounds[n-1] == 0
	var out []uint64
	switch {
	case startsAtZero && endsAtMax:
		out = make([]uint64, 0, n-2)
		out = append(out, s.bounds[1:n-1]...)
	case startsAtZero:
		out = make([]uint64, 0, n)
		out = append(out, s.bounds[1:]...)
		out = append(out, 0)
	case endsAtMax:
		out = make([]uint64, 0, n)
		out = append(out, 0)
		out = append(out, s.bounds[:n-1]...)
	default:
		out = make([]uint64, 0, n+2)
		out = append(out, 0)
		out = append(out, s.bounds...)
		out = append(out, 0)
	}
	return &RangeSet{width: s.width, bounds: out}
}
