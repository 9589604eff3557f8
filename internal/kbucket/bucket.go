package kbucket

import (
	"time"

	"github.com/puneettiwariofficial/go-dpt/pkg/types"
)

// Node is a routing table entry: a peer plus the bookkeeping the table
// needs to pick a ping-eviction candidate.
type Node struct {
	Peer     types.PeerInfo
	id       ID
	AddedAt  time.Time
	SeenAt   time.Time
}

// bucket holds up to k nodes, most-recently-seen at the front, plus a
// replacement cache of equal capacity for candidates that arrived while
// the bucket was full.
type bucket struct {
	nodes       []*Node
	replacement []*Node
	k           int
}

func newBucket(k int) *bucket {
	return &bucket{
		nodes:       make([]*Node, 0, k),
		replacement: make([]*Node, 0, k),
		k:           k,
	}
}

func (b *bucket) find(id ID) *Node {
	for _, n := range b.nodes {
		if n.id == id {
			return n
		}
	}
	return nil
}

// touch moves an existing node to the front and refreshes SeenAt.
func (b *bucket) touch(id ID) bool {
	for i, n := range b.nodes {
		if n.id == id {
			n.SeenAt = time.Now()
			b.nodes = append(b.nodes[:i], b.nodes[i+1:]...)
			b.nodes = append([]*Node{n}, b.nodes...)
			return true
		}
	}
	return false
}

func (b *bucket) full() bool {
	return len(b.nodes) >= b.k
}

// pushFront inserts n at the front. Caller must ensure the bucket has
// room.
func (b *bucket) pushFront(n *Node) {
	b.nodes = append([]*Node{n}, b.nodes...)
}

// peers returns the PeerInfo of every node currently in the bucket, in
// no particular order.
func (b *bucket) peers() []types.PeerInfo {
	out := make([]types.PeerInfo, len(b.nodes))
	for i, n := range b.nodes {
		out[i] = n.Peer
	}
	return out
}

func (b *bucket) removeByID(id ID) *Node {
	for i, n := range b.nodes {
		if n.id == id {
			b.nodes = append(b.nodes[:i], b.nodes[i+1:]...)
			return n
		}
	}
	for i, n := range b.replacement {
		if n.id == id {
			b.replacement = append(b.replacement[:i], b.replacement[i+1:]...)
			return n
		}
	}
	return nil
}

// promoteReplacement pulls the most recently cached replacement into the
// now-vacant slot at the back of nodes, if one exists, and returns the
// promoted node (nil if the replacement cache was empty).
func (b *bucket) promoteReplacement() *Node {
	if len(b.replacement) == 0 {
		return nil
	}
	next := b.replacement[0]
	b.replacement = b.replacement[1:]
	b.nodes = append(b.nodes, next)
	return next
}

func (b *bucket) addReplacement(n *Node) {
	for i, existing := range b.replacement {
		if existing.id == n.id {
			b.replacement = append(b.replacement[:i], b.replacement[i+1:]...)
			break
		}
	}
	b.replacement = append([]*Node{n}, b.replacement...)
	if len(b.replacement) > b.k {
		b.replacement = b.replacement[:b.k]
	}
}
