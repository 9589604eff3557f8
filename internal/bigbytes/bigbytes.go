// Package bigbytes converts between arbitrary-precision unsigned integers
// and their canonical RLP byte form: big-endian, no leading zero byte, and
// zero encodes as the empty byte string.
package bigbytes

import "math/big"

// ToUnpadded returns n as big-endian bytes with no leading zero byte. Zero
// returns an empty (non-nil) slice.
func ToUnpadded(n *big.Int) []byte {
	if n == nil || n.Sign() == 0 {
		return []byte{}
	}
	return n.Bytes()
}

// FromUnpadded decodes big-endian bytes (as produced by ToUnpadded) into a
// big.Int. An empty slice decodes to zero.
func FromUnpadded(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// IsCanonical reports whether b is the canonical unpadded big-endian
// encoding of some non-negative integer: either empty, or with a non-zero
// leading byte.
func IsCanonical(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	return b[0] != 0
}
