package kbucket

import (
	"sort"
	"sync"
	"time"

	"github.com/puneettiwariofficial/go-dpt/pkg/events"
	"github.com/puneettiwariofficial/go-dpt/pkg/types"
)

// DefaultK is the bucket capacity used when no override is given.
const DefaultK = 16

// OnPingFunc resolves the k-bucket's "ping" contract (spec.md §4.7/§4.8):
// when a full, unsplittable bucket receives a new candidate, the table
// hands every current member (the "K old candidates") and the candidate
// to this callback, blocking the insertion until it returns. The table
// never pings anything itself — the coordinator pings every old
// candidate concurrently and reports back which failed (evictIDs) and
// whether the newcomer should be admitted into the freed slot(s)
// (insert). Per Kademlia policy, insert is only true when at least one
// old candidate failed its ping.
type OnPingFunc func(old []types.PeerInfo, newPeer types.PeerInfo) (evictIDs []ID, insert bool)

// Table is a Kademlia-style routing table for one local node.
type Table struct {
	mu      sync.RWMutex
	localID ID
	k       int
	buckets []*bucket
	onPing  OnPingFunc
	bus     *events.Bus

	// byAddr and byAddrPort index every current member (never a
	// replacement-cache entry) by address and address:udpPort, mirroring
	// banlist.List's identifier maps, so a peer reference can be resolved
	// by id, address, or address:udpPort — whichever a caller has.
	byAddr     map[string]ID
	byAddrPort map[string]ID
}

// New returns an empty Table for localID with capacity k (DefaultK if
// k <= 0). bus may be nil; if set, Add/Remove publish PeerAdded and
// PeerRemoved. onPing may be nil, in which case a full unsplittable
// bucket always rejects new candidates.
func New(localID ID, k int, bus *events.Bus, onPing OnPingFunc) *Table {
	if k <= 0 {
		k = DefaultK
	}
	return &Table{
		localID:    localID,
		k:          k,
		buckets:    []*bucket{newBucket(k)},
		onPing:     onPing,
		bus:        bus,
		byAddr:     make(map[string]ID),
		byAddrPort: make(map[string]ID),
	}
}

// indexAdd registers n's address and address:udpPort against its id.
// Caller must hold t.mu.
func (t *Table) indexAdd(n *Node) {
	if n == nil || n.Peer.Address == "" {
		return
	}
	t.byAddr[n.Peer.Address] = n.id
	t.byAddrPort[addrPortKey(n.Peer.Address, n.Peer.UDPPort)] = n.id
}

// indexRemove drops n's address/address:udpPort entries, but only if they
// still point at n.id — guarding against clobbering a different node that
// has since taken the same address. Caller must hold t.mu.
func (t *Table) indexRemove(n *Node) {
	if n == nil || n.Peer.Address == "" {
		return
	}
	if id, ok := t.byAddr[n.Peer.Address]; ok && id == n.id {
		delete(t.byAddr, n.Peer.Address)
	}
	key := addrPortKey(n.Peer.Address, n.Peer.UDPPort)
	if id, ok := t.byAddrPort[key]; ok && id == n.id {
		delete(t.byAddrPort, key)
	}
}

func addrPortKey(addr string, port uint16) string {
	return addr + ":" + itoa(port)
}

func itoa(v uint16) string {
	if v == 0 {
		return "0"
	}
	var buf [5]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// bucketIndex returns the index of the bucket that currently owns id.
// Every id with a common-prefix-length at or beyond the last bucket's
// depth falls into the last bucket, since it is the only one still
// eligible to split.
func (t *Table) bucketIndex(id ID) int {
	cpl := CommonPrefixLen(t.localID, id)
	if cpl >= len(t.buckets) {
		return len(t.buckets) - 1
	}
	return cpl
}

// Add inserts or refreshes peer. It returns true if the peer ends up a
// member of the table (as opposed to sitting in a replacement cache or
// being rejected outright).
//
// When the peer's bucket is full and unsplittable, Add releases t.mu
// before consulting onPing — which the coordinator wires to a concurrent
// network ping round bounded by its own timeout — so every other Get,
// Add, Remove, and Closest call on the table proceeds without blocking
// on that round-trip, then reacquires t.mu to apply the result.
func (t *Table) Add(peer types.PeerInfo) bool {
	if !peer.HasID() {
		return false
	}
	id := IDFromPubkey(peer.ID)
	if id == t.localID {
		return false
	}

	t.mu.Lock()
	accepted, removed, needPing, old := t.tryAdd(id, peer)
	t.mu.Unlock()

	if needPing {
		evictIDs, insert := t.onPing(old, peer)
		t.mu.Lock()
		accepted, removed = t.applyPingDecision(id, peer, evictIDs, insert)
		t.mu.Unlock()
	}

	if t.bus != nil {
		for _, r := range removed {
			t.bus.Publish(events.NewPeerRemoved(r))
		}
		if accepted {
			t.bus.Publish(events.NewPeerAdded(peer))
		}
	}
	return accepted
}

// tryAdd inserts peer into its bucket, splitting as needed, entirely
// under t.mu. When the bucket is full, unsplittable, and onPing is set,
// it stops short of calling onPing and instead reports needPing with a
// snapshot of the bucket's current members, leaving the call itself to
// Add once the lock is released. Caller must hold t.mu.
func (t *Table) tryAdd(id ID, peer types.PeerInfo) (accepted bool, removed []types.PeerInfo, needPing bool, old []types.PeerInfo) {
	idx := t.bucketIndex(id)
	b := t.buckets[idx]

	if b.touch(id) {
		return true, nil, false, nil
	}

	if !b.full() {
		n := &Node{Peer: peer, id: id, AddedAt: time.Now(), SeenAt: time.Now()}
		b.pushFront(n)
		t.indexAdd(n)
		return true, nil, false, nil
	}

	if idx == len(t.buckets)-1 && t.bucketIndex(t.localID) == idx {
		t.split(idx)
		return t.tryAdd(id, peer)
	}

	if t.onPing == nil {
		b.addReplacement(&Node{Peer: peer, id: id, AddedAt: time.Now(), SeenAt: time.Now()})
		return false, nil, false, nil
	}

	return false, nil, true, b.peers()
}

// applyPingDecision acts on the coordinator's evictIDs/insert verdict for
// peer, re-resolving peer's bucket (it may have split while the lock was
// released) and re-checking membership in case a concurrent Add already
// admitted it. Caller must hold t.mu.
func (t *Table) applyPingDecision(id ID, peer types.PeerInfo, evictIDs []ID, insert bool) (accepted bool, removed []types.PeerInfo) {
	idx := t.bucketIndex(id)
	b := t.buckets[idx]

	if b.touch(id) {
		return true, nil
	}

	for _, eid := range evictIDs {
		if n := b.removeByID(eid); n != nil {
			t.indexRemove(n)
			removed = append(removed, n.Peer)
		}
	}

	if insert && len(b.nodes) < t.k {
		n := &Node{Peer: peer, id: id, AddedAt: time.Now(), SeenAt: time.Now()}
		b.pushFront(n)
		t.indexAdd(n)
		accepted = true
	}
	for len(b.nodes) < t.k && len(b.replacement) > 0 {
		if promoted := b.promoteReplacement(); promoted != nil {
			t.indexAdd(promoted)
		}
	}
	if !accepted {
		b.addReplacement(&Node{Peer: peer, id: id, AddedAt: time.Now(), SeenAt: time.Now()})
	}
	return accepted, removed
}

// split divides bucket idx — which must be the last bucket and must
// contain the local id's own range — into two buckets at the next
// prefix depth, redistributing its nodes by the bit that separates them.
func (t *Table) split(idx int) {
	old := t.buckets[idx]
	depth := idx

	a := newBucket(t.k)
	b := newBucket(t.k)
	for _, n := range old.nodes {
		if CommonPrefixLen(t.localID, n.id) > depth {
			b.nodes = append(b.nodes, n)
		} else {
			a.nodes = append(a.nodes, n)
		}
	}
	for _, n := range old.replacement {
		if CommonPrefixLen(t.localID, n.id) > depth {
			b.addReplacement(n)
		} else {
			a.addReplacement(n)
		}
	}

	t.buckets[idx] = a
	t.buckets = append(t.buckets, b)
}

// Get returns the peer matching id, if present.
func (t *Table) Get(id ID) (types.PeerInfo, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := t.bucketIndex(id)
	if n := t.buckets[idx].find(id); n != nil {
		return n.Peer, true
	}
	return types.PeerInfo{}, false
}

// GetByAddress returns the member peer currently indexed under addr, if
// any.
func (t *Table) GetByAddress(addr string) (types.PeerInfo, bool) {
	t.mu.RLock()
	id, ok := t.byAddr[addr]
	t.mu.RUnlock()
	if !ok {
		return types.PeerInfo{}, false
	}
	return t.Get(id)
}

// GetByAddressPort returns the member peer currently indexed under
// addr:udpPort, if any.
func (t *Table) GetByAddressPort(addr string, udpPort uint16) (types.PeerInfo, bool) {
	t.mu.RLock()
	id, ok := t.byAddrPort[addrPortKey(addr, udpPort)]
	t.mu.RUnlock()
	if !ok {
		return types.PeerInfo{}, false
	}
	return t.Get(id)
}

// Find resolves ref to its current table entry by id, then
// address:udpPort, then bare address — whichever identifiers ref carries.
func (t *Table) Find(ref types.PeerInfo) (types.PeerInfo, bool) {
	if ref.HasID() {
		if p, ok := t.Get(IDFromPubkey(ref.ID)); ok {
			return p, true
		}
	}
	if ref.Address != "" {
		if p, ok := t.GetByAddressPort(ref.Address, ref.UDPPort); ok {
			return p, true
		}
		if p, ok := t.GetByAddress(ref.Address); ok {
			return p, true
		}
	}
	return types.PeerInfo{}, false
}

// Remove deletes id from the table, promoting a replacement candidate
// into its place if one is cached. It reports whether id was found, either
// as a member or in its bucket's replacement cache.
func (t *Table) Remove(id ID) bool {
	t.mu.Lock()
	idx := t.bucketIndex(id)
	b := t.buckets[idx]
	n := b.removeByID(id)
	if n != nil {
		t.indexRemove(n)
		if len(b.nodes) < t.k {
			if promoted := b.promoteReplacement(); promoted != nil {
				t.indexAdd(promoted)
			}
		}
	}
	t.mu.Unlock()

	if n == nil {
		return false
	}
	if t.bus != nil {
		t.bus.Publish(events.NewPeerRemoved(n.Peer))
	}
	return true
}

// RemoveRef removes whichever table entry ref resolves to, by the same
// id/address:udpPort/address precedence as Find.
func (t *Table) RemoveRef(ref types.PeerInfo) bool {
	if ref.HasID() {
		if t.Remove(IDFromPubkey(ref.ID)) {
			return true
		}
	}
	if ref.Address != "" {
		if p, ok := t.GetByAddressPort(ref.Address, ref.UDPPort); ok {
			return t.Remove(IDFromPubkey(p.ID))
		}
		if p, ok := t.GetByAddress(ref.Address); ok {
			return t.Remove(IDFromPubkey(p.ID))
		}
	}
	return false
}

// Closest returns up to n peers ordered by increasing XOR distance from
// target.
func (t *Table) Closest(target ID, n int) []types.PeerInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()

	all := t.allLocked()
	sort.Slice(all, func(i, j int) bool {
		di := Distance(IDFromPubkey(all[i].ID), target)
		dj := Distance(IDFromPubkey(all[j].ID), target)
		return Less(di, dj)
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// GetAll returns every peer currently in the table, in no particular
// order.
func (t *Table) GetAll() []types.PeerInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.allLocked()
}

func (t *Table) allLocked() []types.PeerInfo {
	var out []types.PeerInfo
	for _, b := range t.buckets {
		for _, n := range b.nodes {
			out = append(out, n.Peer)
		}
	}
	return out
}

// Len returns the number of peers currently in the table.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, b := range t.buckets {
		n += len(b.nodes)
	}
	return n
}
