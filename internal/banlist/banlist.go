// Package banlist implements a time-bounded denial set keyed by peer
// identity: id, address, or address:udpPort, whichever a caller has on
// hand.
//
// Structurally grounded on internal/core/connmgr/gater/gater.go (three
// independent lock-guarded index maps, read-mostly RWMutex), generalized
// from the teacher's permanent block-list to a time-bounded one with lazy
// expiry on lookup, per spec.md §3 and §4.6.
package banlist

import (
	"sync"
	"time"

	"github.com/puneettiwariofficial/go-dpt/pkg/types"
)

// DefaultDuration is the ban length applied when Add is called with a
// non-positive maxAge.
const DefaultDuration = 5 * time.Minute

// List is a set of banned peer identifiers, each with an expiry.
type List struct {
	mu         sync.RWMutex
	byID       map[string]time.Time
	byAddr     map[string]time.Time
	byAddrPort map[string]time.Time
}

// New returns an empty List.
func New() *List {
	return &List{
		byID:       make(map[string]time.Time),
		byAddr:     make(map[string]time.Time),
		byAddrPort: make(map[string]time.Time),
	}
}

// Add bans every identifier p carries (id, address, address:udpPort) for
// maxAge, or DefaultDuration if maxAge <= 0.
func (l *List) Add(p types.PeerInfo, maxAge time.Duration) {
	if maxAge <= 0 {
		maxAge = DefaultDuration
	}
	expiry := time.Now().Add(maxAge)

	l.mu.Lock()
	defer l.mu.Unlock()

	if p.HasID() {
		l.byID[p.ID.String()] = expiry
	}
	if p.Address != "" {
		l.byAddr[p.Address] = expiry
		l.byAddrPort[addrPortKey(p.Address, p.UDPPort)] = expiry
	}
}

// Has reports whether a non-expired ban covers any identifier of p.
// Expired entries encountered along the way are purged.
func (l *List) Has(p types.PeerInfo) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if p.HasID() {
		if banned(l.byID, p.ID.String(), now) {
			return true
		}
	}
	if p.Address != "" {
		if banned(l.byAddr, p.Address, now) {
			return true
		}
		if banned(l.byAddrPort, addrPortKey(p.Address, p.UDPPort), now) {
			return true
		}
	}
	return false
}

// banned reports whether key has a non-expired entry in m, deleting it
// first if it has expired.
func banned(m map[string]time.Time, key string, now time.Time) bool {
	expiry, ok := m[key]
	if !ok {
		return false
	}
	if now.After(expiry) {
		delete(m, key)
		return false
	}
	return true
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
