// Package kbucket implements the Kademlia-style k-bucket routing table:
// a binary trie of buckets keyed by XOR distance from the local node,
// splitting on overflow along the branch that contains the local id,
// with a ping-eviction hook for buckets that cannot split further.
//
// Structurally grounded on internal/discovery/dht/routing.go (bucket as
// a node slice plus a replacement cache, most-recently-seen kept at the
// front) and xor.go (distance and common-prefix-length math), but the
// teacher's routing table never splits — it pre-allocates one bucket per
// possible common-prefix length. This package implements the genuine
// split-on-overflow behaviour the DPT routing table requires.
package kbucket

import "github.com/puneettiwariofficial/go-dpt/internal/keccak"

// IDSize is the width of the distance space, in bytes.
const IDSize = keccak.Size

// ID is a node's position in the distance space: the keccak256 hash of
// its public key.
type ID [IDSize]byte

// IDFromPubkey derives the distance-space ID of an uncompressed
// public key (64 bytes, no 0x04 tag).
func IDFromPubkey(pub []byte) ID {
	return ID(keccak.Sum256(pub))
}

// Distance returns the XOR distance between a and b.
func Distance(a, b ID) ID {
	var d ID
	for i := range d {
		d[i] = a[i] ^ b[i]
	}
	return d
}

// Less reports whether a is numerically smaller than b, treating both as
// big-endian unsigned integers.
func Less(a, b ID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// CommonPrefixLen returns the number of leading bits a and b share.
func CommonPrefixLen(a, b ID) int {
	d := Distance(a, b)
	bits := 0
	for _, byt := range d {
		if byt == 0 {
			bits += 8
			continue
		}
		for mask := byte(0x80); mask > 0; mask >>= 1 {
			if byt&mask != 0 {
				return bits
			}
			bits++
		}
		return bits
	}
	return bits
}
