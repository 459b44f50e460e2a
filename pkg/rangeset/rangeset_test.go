package rangeset

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func mustNew(t *testing.T, width uint8) *RangeSet {
	t.Helper()
	s, err := New(width)
	assert.NoError(t, err)
	return s
}

func mustFull(t *testing.T, width uint8) *RangeSet {
	t.Helper()
	s, err := Full(width)
	assert.NoError(t, err)
	return s
}

func mustSingle(t *testing.T, width uint8, v uint64) *RangeSet {
	t.Helper()
	s, err := Single(width, v)
	assert.NoError(t, err)
	return s
}

func mustRange(t *testing.T, width uint8, begin, end uint64) *RangeSet {
	t.Helper()
	s, err := Range(width, begin, end)
	assert.NoError(t, err)
	return s
}

func mustFromBounds(t *testing.T, width uint8, bounds []uint64) *RangeSet {
	t.Helper()
	s, err := FromBounds(width, bounds)
	assert.NoError(t, err)
	return s
}

func TestConstruction(t *testing.T) {
	s1 := mustSingle(t, 64, 1)
	s2 := mustNew(t, 64)
	s3 := mustRange(t, 64, 2, 1)
	s4 := s3.Copy()
	assert.True(t, s2.Empty())
	assert.False(t, s3.Empty())
	assert.True(t, s4.Equal(s3))
	assert.True(t, s1.Equal(s3.Complement()))

	_, err := New(0)
	assert.ErrorIs(t, err, ErrInvalidWidth)
	_, err = New(65)
	assert.ErrorIs(t, err, ErrInvalidWidth)
	_, err = Range(64, 3, 3)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = Single(16, 1<<16)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = Range(12, 4096, 2)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestConstructionCanonicalUniqueness(t *testing.T) {
	// the same mathematical set built along different paths must serialize
	// identically
	a := mustRange(t, 64, 4, 2)
	b := mustRange(t, 64, 2, 4).Complement()
	c := mustNew(t, 64)
	assert.NoError(t, c.Insert(4, 0))
	assert.NoError(t, c.Insert(0, 2))
	d := mustFromBounds(t, 64, []uint64{0, 2, 4, 0})
	for _, s := range []*RangeSet{b, c, d} {
		if diff := cmp.Diff(a.Bounds(), s.Bounds()); diff != "" {
			t.Errorf("-want, +got:\n%s", diff)
		}
	}
}

func TestComparisonOperators(t *testing.T) {
	s1 := mustSingle(t, 64, 1)
	s2 := mustSingle(t, 64, 2)
	assert.False(t, s1.Equal(s2))
	assert.NoError(t, s1.InsertValue(2))
	assert.NoError(t, s2.InsertValue(1))
	assert.True(t, s1.Equal(s2))

	ok, err := mustRange(t, 64, 2, 1).Contains(mustRange(t, 64, 3, 4))
	assert.NoError(t, err)
	assert.True(t, ok)
	ok, err = mustRange(t, 64, 2, 1).ContainsRange(3, 4)
	assert.NoError(t, err)
	assert.True(t, ok)
	ok, err = mustRange(t, 64, 2, 1).ContainsValue(3)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = mustRange(t, 64, 2, 4).IsWithin(mustRange(t, 64, 1, 5))
	assert.NoError(t, err)
	assert.True(t, ok)
	ok, err = mustRange(t, 64, 2, 4).IsWithinRange(1, 5)
	assert.NoError(t, err)
	assert.True(t, ok)
	ok, err = mustRange(t, 64, 2, 4).IsWithinValue(3)
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = mustRange(t, 64, 2, 4).Intersects(mustRange(t, 64, 3, 5))
	assert.NoError(t, err)
	assert.True(t, ok)
	ok, err = mustRange(t, 64, 2, 4).IntersectsRange(3, 5)
	assert.NoError(t, err)
	assert.True(t, ok)
	ok, err = mustRange(t, 64, 2, 4).IntersectsValue(3)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = mustRange(t, 64, 2, 4).IsDisjointFrom(mustRange(t, 64, 6, 8))
	assert.NoError(t, err)
	assert.True(t, ok)
	ok, err = mustRange(t, 64, 2, 4).IsDisjointFromRange(6, 8)
	assert.NoError(t, err)
	assert.True(t, ok)
	ok, err = mustRange(t, 64, 2, 4).IsDisjointFromValue(6)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestSetOperators(t *testing.T) {
	a := mustSingle(t, 64, 1)
	b := a.Complement()

	u, err := a.Union(b)
	assert.NoError(t, err)
	assert.True(t, u.Full())

	x, err := a.Intersect(b)
	assert.NoError(t, err)
	assert.True(t, x.Empty())

	d, err := a.Subtract(b)
	assert.NoError(t, err)
	assert.True(t, d.Equal(a))
	d, err = b.Subtract(a)
	assert.NoError(t, err)
	assert.True(t, d.Equal(b))

	assert.NoError(t, a.IntersectWith(a))
	assert.NoError(t, b.IntersectWith(b))

	c, err := a.SymDiff(b)
	assert.NoError(t, err)
	assert.NoError(t, c.SubtractWith(mustRange(t, 64, 2, 4)))
	assert.True(t, c.Equal(mustRange(t, 64, 4, 2)))

	assert.NoError(t, c.UnionWith(b))
	assert.True(t, c.Full())
	assert.NoError(t, c.SymDiffWith(c))
	assert.True(t, c.Empty())
}

func TestRanges(t *testing.T) {
	s := mustNew(t, 64)
	assert.NoError(t, s.Insert(0, 1))
	assert.NoError(t, s.Insert(2, 3))
	want := []Interval{{Begin: 0, End: 1}, {Begin: 2, End: 3}}
	if diff := cmp.Diff(want, s.Ranges()); diff != "" {
		t.Errorf("-want, +got:\n%s", diff)
	}

	s = mustRange(t, 64, 4, 2)
	want = []Interval{{Begin: 0, End: 2}, {Begin: 4, End: 0}}
	if diff := cmp.Diff(want, s.Ranges()); diff != "" {
		t.Errorf("-want, +got:\n%s", diff)
	}
}

func TestIterator(t *testing.T) {
	s := mustFromBounds(t, 64, []uint64{2, 3, 5, 7, 11, 13})
	// the iterator is restartable: two passes see the same intervals
	for pass := 0; pass < 2; pass++ {
		var got []Interval
		iter := s.Iterate()
		for iter.Next() {
			got = append(got, iter.Value())
		}
		if diff := cmp.Diff(s.Ranges(), got); diff != "" {
			t.Errorf("pass %d: -want, +got:\n%s", pass, diff)
		}
	}

	iter := mustNew(t, 64).Iterate()
	assert.False(t, iter.Next())
}

func TestString(t *testing.T) {
	cases := map[string]struct {
		set  *RangeSet
		want string
	}{
		"Empty":    {set: mustNew(t, 64), want: "[]"},
		"Full":     {set: mustFull(t, 64), want: "[(0, 0)]"},
		"Single":   {set: mustRange(t, 64, 1, 10), want: "[(1, 10)]"},
		"Wrapping": {set: mustRange(t, 64, 4, 2), want: "[(0, 2), (4, 0)]"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.set.String())
			back, err := Parse(64, tc.set.String())
			assert.NoError(t, err)
			assert.True(t, back.Equal(tc.set))
		})
	}
}

func TestCardinality(t *testing.T) {
	cases := map[string]struct {
		set  *RangeSet
		want uint64
	}{
		"Empty":        {set: mustNew(t, 64), want: 0},
		"Full64":       {set: mustFull(t, 64), want: 0}, // 2^64 wraps to 0
		"Full16":       {set: mustFull(t, 16), want: 1 << 16},
		"Single":       {set: mustSingle(t, 64, 42), want: 1},
		"Wrapping":     {set: mustRange(t, 64, 4, 2), want: ^uint64(1)}, // 2^64 - 2
		"Plain":        {set: mustRange(t, 64, 10, 20), want: 10},
		"Wrapping16":   {set: mustRange(t, 16, 0xfffe, 2), want: 4},
		"UpperTail16":  {set: mustRange(t, 16, 0xfff0, 0), want: 16},
		"MultiRange":   {set: mustFromBounds(t, 64, []uint64{2, 3, 5, 7, 11, 13}), want: 5},
		"DomainMinus1": {set: mustSingle(t, 16, 7).Complement(), want: (1 << 16) - 1},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.set.Cardinality())
		})
	}
}

func TestEqualAcrossWidths(t *testing.T) {
	a := mustSingle(t, 64, 1)
	b := mustSingle(t, 32, 1)
	assert.False(t, a.Equal(b))
	assert.False(t, mustNew(t, 64).Equal(mustNew(t, 32)))
}

func TestCopyIsIndependent(t *testing.T) {
	a := mustRange(t, 64, 10, 20)
	b := a.Copy()
	assert.NoError(t, b.Insert(30, 40))
	assert.True(t, a.Equal(mustRange(t, 64, 10, 20)))
	assert.Equal(t, 2, b.NumRanges())
}
