// Package types defines the value types shared across the DPT core: the
// peer identity record and its identifiers. The coordinator's lifecycle
// events live in pkg/events.
//
// Grounded structurally on the teacher's pkg/types package (the
// lowest-level, dependency-free package in the tree that every other
// package imports), but with devp2p-shaped contents: a raw secp256k1
// public key and UDP/TCP ports in place of the teacher's Base58 NodeID and
// Multiaddr list, which belong to a different wire format.
package types

// PeerID is the uncompressed secp256k1 public key of a remote node, with
// the leading 0x04 tag stripped: 64 bytes. It is absent (nil) before the
// first successful contact with a peer identified only by address.
type PeerID []byte

// String renders the id as lowercase hex, or the empty string when absent.
func (id PeerID) String() string {
	if len(id) == 0 {
		return ""
	}
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(id)*2)
	for i, b := range id {
		out[i*2] = hexDigits[b>>4]
		out[i*2+1] = hexDigits[b&0x0f]
	}
	return string(out)
}

// Equal reports whether id and other are the same non-empty key.
func (id PeerID) Equal(other PeerID) bool {
	if len(id) == 0 || len(other) == 0 || len(id) != len(other) {
		return false
	}
	for i := range id {
		if id[i] != other[i] {
			return false
		}
	}
	return true
}

// PeerInfo is the identity record of a remote node: an optional public key
// plus whatever network-reachability information has been learned so far.
//
// A PeerInfo is identified by ID when present, else by (Address, UDPPort).
// Two PeerInfos are equivalent when any identifier matches — see Matches.
type PeerInfo struct {
	ID      PeerID
	Address string
	UDPPort uint16
	TCPPort uint16
}

// HasID reports whether the peer's public key is known.
func (p PeerInfo) HasID() bool {
	return len(p.ID) > 0
}

// Key returns the identifier this PeerInfo should be indexed and looked up
// by: the hex-encoded public key when known, otherwise "address:udpPort".
func (p PeerInfo) Key() string {
	if p.HasID() {
		return p.ID.String()
	}
	return p.addrKey()
}

func (p PeerInfo) addrKey() string {
	return p.Address + ":" + itoa(p.UDPPort)
}

// Matches reports whether p and other share any identifier: the same ID
// or the same Address.
func (p PeerInfo) Matches(other PeerInfo) bool {
	if p.HasID() && other.HasID() && p.ID.Equal(other.ID) {
		return true
	}
	return p.Address != "" && p.Address == other.Address
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
