package rangeset

// Simplify returns a superset of s with at most maxRanges intervals,
// produced by repeatedly filling the smallest gap between two consecutive
// intervals (first such gap wins on ties). The result is s itself when the
// interval count already satisfies the constraint, so the operation is
// idempotent. This is lossy by design: the gaps that are filled become part
// of the set. A maxRanges below 1 is treated as 1.
func (s *RangeSet) Simplify(maxRanges int) *RangeSet {
	if maxRanges < 1 {
		maxRanges = 1
	}
	out := s.Copy()
	for out.NumRanges() > maxRanges {
		best, bestGap := -1, uint64(0)
		for k := 0; k+1 < out.NumRanges(); k++ {
			// end of interval k is never the sentinel here since k is not last
			gap := out.lo(k+1) - out.bounds[2*k+1]
			if best == -1 || gap < bestGap {
				best, bestGap = k, gap
			}
		}
		// drop the end of interval best and the start of interval best+1
		out.bounds = append(out.bounds[:2*best+1], out.bounds[2*best+3:]...)
	}
	return out
}
