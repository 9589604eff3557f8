// Package keccak wraps the keccak-256 hash used throughout the account and
// address model (RLP-hash of the empty trie, empty-code hash, checksum
// preimages, CREATE/CREATE2 address derivation).
package keccak

import "golang.org/x/crypto/sha3"

// Size is the output length of keccak-256 in bytes.
const Size = 32

// Sum256 returns the keccak-256 digest of the concatenation of data.
func Sum256(data ...[]byte) [Size]byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out [Size]byte
	h.Sum(out[:0])
	return out
}

// KeccakRLPEmpty is the keccak-256 hash of the RLP encoding of an empty
// trie node, i.e. keccak256(RLP("")) = keccak256(0x80). It is the default
// storageRoot of an account that owns no storage.
var KeccakRLPEmpty = Sum256([]byte{0x80})

// KeccakNull is the keccak-256 hash of the empty byte string. It is the
// default codeHash of an account that owns no code.
var KeccakNull = Sum256([]byte{})
