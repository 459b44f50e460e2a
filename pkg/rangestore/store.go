// Package rangestore tracks labeled claims over a cyclic unsigned domain.
// Every claim covers a range of values and carries a label set; the claimed
// coverage is kept as a range set so overlap checks and free-space searches
// stay proportional to the number of claims, not the domain size.
package rangestore

import (
	"fmt"
	"sort"
	"sync"

	"k8s.io/apimachinery/pkg/labels"

	"github.com/henderiw/rangeset/pkg/rangeset"
)

type Store interface {
	Get(begin uint64) (Entry, error)
	Claim(begin, end uint64, d labels.Set) error
	ClaimValue(v uint64, d labels.Set) error
	ClaimSize(size uint64, d labels.Set) (Entry, error)
	Release(begin uint64) error
	Update(begin uint64, d labels.Set) error

	Iterate() *Iterator

	Count() int
	Has(begin uint64) bool

	IsFree(begin, end uint64) (bool, error)
	FindFree(size uint64) (uint64, error)

	Claimed() *rangeset.RangeSet
	Free() *rangeset.RangeSet

	GetAll() []Entry
	GetByLabel(selector labels.Selector) []Entry
}

// Entry is one claim, keyed by the first value of its range.
type Entry struct {
	Range  rangeset.Interval
	Labels labels.Set
}

type ValidationFn func(begin, end uint64) error

func New(width uint8, v ValidationFn) (Store, error) {
	claimed, err := rangeset.New(width)
	if err != nil {
		return nil, err
	}
	return &store{
		m:          new(sync.RWMutex),
		width:      width,
		entries:    map[uint64]Entry{},
		claimed:    claimed,
		validateFn: v,
	}, nil
}

type store struct {
	m          *sync.RWMutex
	width      uint8
	entries    map[uint64]Entry
	claimed    *rangeset.RangeSet
	validateFn ValidationFn
}

func (r *store) validate(begin, end uint64) error {
	if r.validateFn != nil {
		if err := r.validateFn(begin, end); err != nil {
			return err
		}
	}
	return nil
}

func (r *store) Get(begin uint64) (Entry, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	e, ok := r.entries[begin]
	if !ok {
		return Entry{}, fmt.Errorf("no match found for: %d", begin)
	}
	return e, nil
}

func (r *store) Claim(begin, end uint64, d labels.Set) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.add(begin, end, d)
}

func (r *store) ClaimValue(v uint64, d labels.Set) error {
	r.m.Lock()
	defer r.m.Unlock()

	max := r.maxValue()
	return r.add(v, (v+1)&max, d)
}

func (r *store) ClaimSize(size uint64, d labels.Set) (Entry, error) {
	r.m.Lock()
	defer r.m.Unlock()

	begin, err := r.findFree(size)
	if err != nil {
		return Entry{}, err
	}
	end := (begin + size) & r.maxValue()
	if err := r.add(begin, end, d); err != nil {
		return Entry{}, err
	}
	return r.entries[begin], nil
}

func (r *store) Release(begin uint64) error {
	r.m.Lock()
	defer r.m.Unlock()

	e, ok := r.entries[begin]
	if !ok {
		return fmt.Errorf("entry %d not found", begin)
	}
	if err := r.claimed.Erase(e.Range.Begin, e.Range.End); err != nil {
		return err
	}
	delete(r.entries, begin)
	return nil
}

func (r *store) Update(begin uint64, d labels.Set) error {
	r.m.Lock()
	defer r.m.Unlock()

	e, ok := r.entries[begin]
	if !ok {
		return fmt.Errorf("entry %d not found", begin)
	}
	e.Labels = d
	r.entries[begin] = e
	return nil
}

func (r *store) Iterate() *Iterator {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.iterate()
}

func (r *store) iterate() *Iterator {
	keys := make([]uint64, 0, len(r.entries))
	for key := range r.entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i int, j int) bool {
		return keys[i] < keys[j]
	})

	return &Iterator{current: -1, keys: keys, entries: r.entries}
}

func (r *store) Count() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return len(r.entries)
}

func (r *store) Has(begin uint64) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	_, ok := r.entries[begin]
	return ok
}

func (r *store) IsFree(begin, end uint64) (bool, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.isFree(begin, end)
}

func (r *store) isFree(begin, end uint64) (bool, error) {
	want, err := rangeset.Range(r.width, begin, end)
	if err != nil {
		return false, err
	}
	used, err := r.claimed.Intersects(want)
	if err != nil {
		return false, err
	}
	return !used, nil
}

func (r *store) FindFree(size uint64) (uint64, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.findFree(size)
}

// findFree returns the first value starting a free run of at least size
// consecutive values. Runs never cross the wrap from the domain maximum
// back to zero.
func (r *store) findFree(size uint64) (uint64, error) {
	if size == 0 {
		return 0, fmt.Errorf("size must be at least 1")
	}
	free := r.claimed.Complement()
	if free.Full() {
		if r.width < 64 && size > uint64(1)<<r.width {
			return 0, fmt.Errorf("size %d is bigger than the domain", size)
		}
		return 0, nil
	}
	max := r.maxValue()
	iter := free.Iterate()
	for iter.Next() {
		iv := iter.Value()
		// the subtraction wraps the end-of-domain sentinel to the run length
		if (iv.End-iv.Begin)&max >= size {
			return iv.Begin, nil
		}
	}
	return 0, fmt.Errorf("no free range of size %d found", size)
}

func (r *store) Claimed() *rangeset.RangeSet {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.claimed.Copy()
}

func (r *store) Free() *rangeset.RangeSet {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.claimed.Complement()
}

func (r *store) GetAll() []Entry {
	r.m.RLock()
	defer r.m.RUnlock()

	entries := make([]Entry, 0, len(r.entries))
	iter := r.iterate()
	for iter.Next() {
		entries = append(entries, iter.Value())
	}
	return entries
}

func (r *store) GetByLabel(selector labels.Selector) []Entry {
	r.m.RLock()
	defer r.m.RUnlock()

	var entries []Entry
	iter := r.iterate()
	for iter.Next() {
		if selector.Matches(iter.Value().Labels) {
			entries = append(entries, iter.Value())
		}
	}
	return entries
}

func (r *store) add(begin, end uint64, d labels.Set) error {
	if err := r.validate(begin, end); err != nil {
		return err
	}
	free, err := r.isFree(begin, end)
	if err != nil {
		return err
	}
	if !free {
		return fmt.Errorf("range (%d, %d) overlaps an existing claim", begin, end)
	}
	if _, exists := r.entries[begin]; exists {
		return fmt.Errorf("entry %d already exists", begin)
	}
	if err := r.claimed.Insert(begin, end); err != nil {
		return err
	}
	r.entries[begin] = Entry{
		Range:  rangeset.Interval{Begin: begin, End: end},
		Labels: d,
	}
	return nil
}

func (r *store) maxValue() uint64 {
	if r.width < 64 {
		return uint64(1)<<r.width - 1
	}
	return ^uint64(0)
}

type Iterator struct {
	current int
	keys    []uint64
	entries map[uint64]Entry
}

func (r *Iterator) Value() Entry {
	return r.entries[r.keys[r.current]]
}

func (r *Iterator) ID() uint64 {
	return r.keys[r.current]
}

func (r *Iterator) Next() bool {
	r.current++
	return r.current < len(r.keys)
}
