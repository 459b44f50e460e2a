package rangeset

// Iterator walks the intervals of a set in canonical traversal order. It is
// restartable by calling Iterate again; the set must not be mutated while
// iterating.
type Iterator struct {
	current int
	bounds  []uint64
}

// Iterate returns an iterator over the intervals of s.
func (s *RangeSet) Iterate() *Iterator {
	return &Iterator{current: -1, bounds: s.bounds}
}

// Next advances to the next interval. It returns false when the sequence is
// exhausted.
func (r *Iterator) Next() bool {
	r.current++
	return r.current < len(r.bounds)/2
}

// Value returns the current interval.
func (r *Iterator) Value() Interval {
	return Interval{
		Begin: r.bounds[2*r.current],
		End:   r.bounds[2*r.current+1],
	}
}
