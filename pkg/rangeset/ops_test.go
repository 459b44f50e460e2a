package rangeset

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// sampleBounds covers the interesting shapes: empty, full, singletons,
// plain ranges, wrapping ranges split at 0, sets touching either domain
// boundary, and multi-interval sets.
var sampleBounds = [][]uint64{
	nil,
	{0, 0},
	{1, 2},
	{2, 4},
	{0, 2, 4, 0},
	{2, 3, 5, 7, 11, 13, 17, 19},
	{0, 1, 3, 7, 9, 0},
	{5, 0},
	{0, 10},
	{7, 8, 9, 10},
}

func sampleSets(t *testing.T) []*RangeSet {
	t.Helper()
	out := make([]*RangeSet, 0, len(sampleBounds))
	for _, b := range sampleBounds {
		out = append(out, mustFromBounds(t, 64, b))
	}
	return out
}

func TestComplementLaws(t *testing.T) {
	for _, s := range sampleSets(t) {
		c := s.Complement()
		assert.True(t, c.Complement().Equal(s), "double complement of %s", s)

		u, err := s.Union(c)
		assert.NoError(t, err)
		assert.True(t, u.Full(), "%s | ~%s", s, s)

		x, err := s.Intersect(c)
		assert.NoError(t, err)
		assert.True(t, x.Empty(), "%s & ~%s", s, s)
	}
}

func TestIdempotenceLaws(t *testing.T) {
	for _, s := range sampleSets(t) {
		u, err := s.Union(s)
		assert.NoError(t, err)
		assert.True(t, u.Equal(s), "%s | %s", s, s)

		x, err := s.Intersect(s)
		assert.NoError(t, err)
		assert.True(t, x.Equal(s), "%s & %s", s, s)

		d, err := s.Subtract(s)
		assert.NoError(t, err)
		assert.True(t, d.Empty(), "%s - %s", s, s)
	}
}

func TestAlgebraicLaws(t *testing.T) {
	sets := sampleSets(t)
	for _, s := range sets {
		for _, o := range sets {
			// S - T == S & ~T
			d, err := s.Subtract(o)
			assert.NoError(t, err)
			x, err := s.Intersect(o.Complement())
			assert.NoError(t, err)
			assert.True(t, d.Equal(x), "%s - %s", s, o)

			// S ^ T == (S - T) | (T - S)
			sd, err := s.SymDiff(o)
			assert.NoError(t, err)
			d2, err := o.Subtract(s)
			assert.NoError(t, err)
			u, err := d.Union(d2)
			assert.NoError(t, err)
			assert.True(t, sd.Equal(u), "%s ^ %s", s, o)

			// commutativity
			u1, err := s.Union(o)
			assert.NoError(t, err)
			u2, err := o.Union(s)
			assert.NoError(t, err)
			assert.True(t, u1.Equal(u2))
			x1, err := s.Intersect(o)
			assert.NoError(t, err)
			x2, err := o.Intersect(s)
			assert.NoError(t, err)
			assert.True(t, x1.Equal(x2))
			sd2, err := o.SymDiff(s)
			assert.NoError(t, err)
			assert.True(t, sd.Equal(sd2))
		}
	}
}

func TestContainmentConsistency(t *testing.T) {
	sets := sampleSets(t)
	for _, s := range sets {
		for _, o := range sets {
			contains, err := s.Contains(o)
			assert.NoError(t, err)
			u, err := s.Union(o)
			assert.NoError(t, err)
			within, err := o.IsWithin(s)
			assert.NoError(t, err)
			assert.Equal(t, contains, u.Equal(s), "%s contains %s", s, o)
			assert.Equal(t, contains, within, "%s contains %s", s, o)

			intersects, err := s.Intersects(o)
			assert.NoError(t, err)
			x, err := s.Intersect(o)
			assert.NoError(t, err)
			assert.Equal(t, intersects, !x.Empty(), "%s intersects %s", s, o)
			disjoint, err := s.IsDisjointFrom(o)
			assert.NoError(t, err)
			assert.Equal(t, !intersects, disjoint)
		}
	}
}

func TestInPlaceMatchesPure(t *testing.T) {
	sets := sampleSets(t)
	for _, s := range sets {
		for _, o := range sets {
			pure := func(a, b *RangeSet, op string) *RangeSet {
				var r *RangeSet
				var err error
				switch op {
				case "union":
					r, err = a.Union(b)
				case "intersect":
					r, err = a.Intersect(b)
				case "subtract":
					r, err = a.Subtract(b)
				case "symdiff":
					r, err = a.SymDiff(b)
				}
				assert.NoError(t, err)
				return r
			}
			for _, op := range []string{"union", "intersect", "subtract", "symdiff"} {
				in := s.Copy()
				var err error
				switch op {
				case "union":
					err = in.UnionWith(o)
				case "intersect":
					err = in.IntersectWith(o)
				case "subtract":
					err = in.SubtractWith(o)
				case "symdiff":
					err = in.SymDiffWith(o)
				}
				assert.NoError(t, err)
				want := pure(s, o, op)
				if diff := cmp.Diff(want.Bounds(), in.Bounds()); diff != "" {
					t.Errorf("%s of %s and %s: -want, +got:\n%s", op, s, o, diff)
				}
			}
		}
	}
}

func TestOperationsProduceCanonicalForm(t *testing.T) {
	// feeding an operation result back through the canonical constructor
	// must be a no-op
	sets := sampleSets(t)
	for _, s := range sets {
		for _, o := range sets {
			u, err := s.Union(o)
			assert.NoError(t, err)
			back, err := FromBounds(64, u.Bounds())
			assert.NoError(t, err)
			assert.True(t, back.Equal(u))
		}
	}
}

func TestDomainMismatch(t *testing.T) {
	a := mustSingle(t, 64, 1)
	b := mustSingle(t, 32, 1)

	_, err := a.Union(b)
	assert.ErrorIs(t, err, ErrDomainMismatch)
	_, err = a.Intersect(b)
	assert.ErrorIs(t, err, ErrDomainMismatch)
	_, err = a.Subtract(b)
	assert.ErrorIs(t, err, ErrDomainMismatch)
	_, err = a.SymDiff(b)
	assert.ErrorIs(t, err, ErrDomainMismatch)
	assert.ErrorIs(t, a.UnionWith(b), ErrDomainMismatch)
	_, err = a.Contains(b)
	assert.ErrorIs(t, err, ErrDomainMismatch)
	_, err = a.IsWithin(b)
	assert.ErrorIs(t, err, ErrDomainMismatch)
	_, err = a.Intersects(b)
	assert.ErrorIs(t, err, ErrDomainMismatch)
	_, err = a.IsDisjointFrom(b)
	assert.ErrorIs(t, err, ErrDomainMismatch)

	// a failed in-place operation leaves the receiver untouched
	assert.True(t, a.Equal(mustSingle(t, 64, 1)))
}

func TestNarrowWidthOperations(t *testing.T) {
	// the same algebra holds over a 16 bit domain, with wrap at 2^16
	s := mustRange(t, 16, 0xfff0, 2)
	want := mustFromBounds(t, 16, []uint64{0, 2, 0xfff0, 0})
	assert.True(t, s.Equal(want))

	c := s.Complement()
	assert.True(t, c.Equal(mustRange(t, 16, 2, 0xfff0)))

	u, err := s.Union(c)
	assert.NoError(t, err)
	assert.True(t, u.Full())
}
