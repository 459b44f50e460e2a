// Package ipset manages claims of IPv4 addresses, blocks and prefixes out of
// a pool bounded by an address range. The pool and its claims are tracked as
// range sets over the 32 bit address space, so a claim of any size costs the
// same as a claim of one address.
package ipset

import (
	"fmt"
	"net/netip"
	"sort"
	"sync"

	"github.com/hansthienpondt/nipam/pkg/table"
	"go4.org/netipx"
	"k8s.io/apimachinery/pkg/labels"

	"github.com/henderiw/rangeset/pkg/rangeset"
)

type IPSet interface {
	Get(addr string) (table.Route, error)
	Claim(addr string, d table.Route) error
	ClaimPrefix(prefix string, d table.Route) error
	ClaimRange(ipRange string, d table.Route) error
	Release(addr string) error
	Update(addr string, d table.Route) error

	Count() int
	Has(addr string) bool

	IsFree(addr string) bool
	FindFree() (netip.Addr, error)
	FindFreeSize(size uint64) (netip.Addr, error)

	Claimed() *rangeset.RangeSet
	Available() *rangeset.RangeSet

	GetAll() table.Routes
	GetByLabel(selector labels.Selector) table.Routes
}

const addrWidth = 8 * 4

func New(from, to netip.Addr) (IPSet, error) {
	if !from.Is4() || !to.Is4() {
		return nil, fmt.Errorf("pool from %s to %s must be IPv4", from, to)
	}
	ipRange := netipx.IPRangeFrom(from, to)
	if !ipRange.IsValid() {
		return nil, fmt.Errorf("invalid pool range from %s to %s", from, to)
	}
	allowed, err := rangeset.New(addrWidth)
	if err != nil {
		return nil, err
	}
	if err := insertSpan(allowed, addrToIndex(from), addrToIndex(to)); err != nil {
		return nil, err
	}
	claimed, err := rangeset.New(addrWidth)
	if err != nil {
		return nil, err
	}
	return &ipSet{
		m:       new(sync.RWMutex),
		ipRange: ipRange,
		allowed: allowed,
		claimed: claimed,
		routes:  map[uint64]ipClaim{},
	}, nil
}

// ipClaim is one claimed address span, keyed by its first address.
type ipClaim struct {
	from, to uint64 // inclusive
	route    table.Route
}

type ipSet struct {
	m       *sync.RWMutex
	ipRange netipx.IPRange
	allowed *rangeset.RangeSet
	claimed *rangeset.RangeSet
	routes  map[uint64]ipClaim
}

func (r *ipSet) Get(addr string) (table.Route, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	claimIP, err := r.validateIP(addr)
	if err != nil {
		return table.Route{}, err
	}
	c, ok := r.routes[addrToIndex(claimIP)]
	if !ok {
		return table.Route{}, fmt.Errorf("no match found for: %s", addr)
	}
	return c.route, nil
}

func (r *ipSet) Claim(addr string, d table.Route) error {
	r.m.Lock()
	defer r.m.Unlock()

	claimIP, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	id := addrToIndex(claimIP)
	return r.add(id, id, d)
}

func (r *ipSet) ClaimPrefix(prefix string, d table.Route) error {
	r.m.Lock()
	defer r.m.Unlock()

	p, err := netip.ParsePrefix(prefix)
	if err != nil {
		return fmt.Errorf("prefix %s is invalid", prefix)
	}
	ipRange := netipx.RangeOfPrefix(p.Masked())
	return r.claimIPRange(ipRange, d)
}

func (r *ipSet) ClaimRange(ipRange string, d table.Route) error {
	r.m.Lock()
	defer r.m.Unlock()

	rng, err := netipx.ParseIPRange(ipRange)
	if err != nil {
		return fmt.Errorf("range %s is invalid", ipRange)
	}
	return r.claimIPRange(rng, d)
}

func (r *ipSet) claimIPRange(ipRange netipx.IPRange, d table.Route) error {
	if !ipRange.IsValid() || !ipRange.From().Is4() {
		return fmt.Errorf("range %s is not a valid IPv4 range", ipRange)
	}
	if !r.ipRange.Contains(ipRange.From()) || !r.ipRange.Contains(ipRange.To()) {
		return fmt.Errorf("range %s does not fit in the pool from %s to %s",
			ipRange, r.ipRange.From(), r.ipRange.To())
	}
	return r.add(addrToIndex(ipRange.From()), addrToIndex(ipRange.To()), d)
}

func (r *ipSet) Release(addr string) error {
	r.m.Lock()
	defer r.m.Unlock()

	claimIP, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	id := addrToIndex(claimIP)
	c, ok := r.routes[id]
	if !ok {
		return fmt.Errorf("entry %s not found", addr)
	}
	if err := eraseSpan(r.claimed, c.from, c.to); err != nil {
		return err
	}
	delete(r.routes, id)
	return nil
}

func (r *ipSet) Update(addr string, d table.Route) error {
	r.m.Lock()
	defer r.m.Unlock()

	claimIP, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	id := addrToIndex(claimIP)
	c, ok := r.routes[id]
	if !ok {
		return fmt.Errorf("update failed ip %s not claimed", addr)
	}
	c.route = d
	r.routes[id] = c
	return nil
}

func (r *ipSet) Count() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return len(r.routes)
}

func (r *ipSet) Has(addr string) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	claimIP, err := r.validateIP(addr)
	if err != nil {
		return false
	}
	_, ok := r.routes[addrToIndex(claimIP)]
	return ok
}

func (r *ipSet) IsFree(addr string) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	claimIP, err := r.validateIP(addr)
	if err != nil {
		return false
	}
	free, err := r.claimed.ContainsValue(addrToIndex(claimIP))
	if err != nil {
		return false
	}
	return !free
}

func (r *ipSet) FindFree() (netip.Addr, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.findFreeSize(1)
}

func (r *ipSet) FindFreeSize(size uint64) (netip.Addr, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.findFreeSize(size)
}

func (r *ipSet) findFreeSize(size uint64) (netip.Addr, error) {
	if size == 0 {
		return netip.Addr{}, fmt.Errorf("size must be at least 1")
	}
	avail, err := r.allowed.Subtract(r.claimed)
	if err != nil {
		return netip.Addr{}, err
	}
	if avail.Full() {
		if size > uint64(1)<<addrWidth {
			return netip.Addr{}, fmt.Errorf("no free range of size %d found", size)
		}
		return indexToAddr(0), nil
	}
	iter := avail.Iterate()
	for iter.Next() {
		iv := iter.Value()
		if (iv.End-iv.Begin)&(1<<addrWidth-1) >= size {
			return indexToAddr(iv.Begin), nil
		}
	}
	return netip.Addr{}, fmt.Errorf("no free range of size %d found", size)
}

func (r *ipSet) Claimed() *rangeset.RangeSet {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.claimed.Copy()
}

func (r *ipSet) Available() *rangeset.RangeSet {
	r.m.RLock()
	defer r.m.RUnlock()

	avail, err := r.allowed.Subtract(r.claimed)
	if err != nil {
		return r.allowed.Copy()
	}
	return avail
}

func (r *ipSet) GetAll() table.Routes {
	r.m.RLock()
	defer r.m.RUnlock()

	var routes table.Routes
	for _, id := range r.sortedKeys() {
		routes = append(routes, r.routes[id].route)
	}
	return routes
}

func (r *ipSet) GetByLabel(selector labels.Selector) table.Routes {
	r.m.RLock()
	defer r.m.RUnlock()

	var routes table.Routes
	for _, id := range r.sortedKeys() {
		route := r.routes[id].route
		if selector.Matches(route.Labels()) {
			routes = append(routes, route)
		}
	}
	return routes
}

func (r *ipSet) sortedKeys() []uint64 {
	keys := make([]uint64, 0, len(r.routes))
	for key := range r.routes {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i int, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func (r *ipSet) add(from, to uint64, d table.Route) error {
	want, err := rangeset.New(addrWidth)
	if err != nil {
		return err
	}
	if err := insertSpan(want, from, to); err != nil {
		return err
	}
	used, err := r.claimed.Intersects(want)
	if err != nil {
		return err
	}
	if used {
		return fmt.Errorf("claim failed %s-%s already claimed", indexToAddr(from), indexToAddr(to))
	}
	if _, exists := r.routes[from]; exists {
		return fmt.Errorf("entry %s already exists", indexToAddr(from))
	}
	if err := r.claimed.UnionWith(want); err != nil {
		return err
	}
	r.routes[from] = ipClaim{from: from, to: to, route: d}
	return nil
}

func (r *ipSet) validateIP(addr string) (netip.Addr, error) {
	claimIP, err := netip.ParseAddr(addr)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("ip address %s is invalid", addr)
	}
	if !claimIP.Is4() {
		return netip.Addr{}, fmt.Errorf("ip address %s is not IPv4", addr)
	}
	if !r.ipRange.Contains(claimIP) {
		return netip.Addr{}, fmt.Errorf("ip address %s, does not fit in the range from %s to %s",
			addr, r.ipRange.From().String(), r.ipRange.To().String())
	}
	return claimIP, nil
}

// insertSpan adds the inclusive index range [from, to] to s. A span covering
// the whole address space cannot be expressed as one half-open insert.
func insertSpan(s *rangeset.RangeSet, from, to uint64) error {
	max := uint64(1)<<addrWidth - 1
	if from == 0 && to == max {
		f, err := rangeset.Full(addrWidth)
		if err != nil {
			return err
		}
		return s.UnionWith(f)
	}
	return s.Insert(from, (to+1)&max)
}

func eraseSpan(s *rangeset.RangeSet, from, to uint64) error {
	max := uint64(1)<<addrWidth - 1
	if from == 0 && to == max {
		empty, err := rangeset.New(addrWidth)
		if err != nil {
			return err
		}
		return s.IntersectWith(empty)
	}
	return s.Erase(from, (to+1)&max)
}

func addrToIndex(ip netip.Addr) uint64 {
	b := ip.As4()
	return uint64(b[0])<<24 | uint64(b[1])<<16 | uint64(b[2])<<8 | uint64(b[3])
}

func indexToAddr(id uint64) netip.Addr {
	return netip.AddrFrom4([4]byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)})
}
