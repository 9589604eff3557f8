// Package nodekey derives devp2p node identity (64-byte uncompressed
// public key, 20-byte address) from a secp256k1 private key, and validates
// keys against the curve's rules.
//
// Grounded on the teacher's pkg/lib/crypto/secp256k1.go (key-size
// constants, the retry-until-valid generation loop) but delegates the
// actual curve arithmetic to github.com/decred/dcrd/dcrec/secp256k1/v4 — a
// direct teacher dependency declared in its go.mod but never imported by
// its own tree until now.
package nodekey

import (
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/puneettiwariofficial/go-dpt/internal/keccak"
)

// PrivateKeySize is the byte length of a secp256k1 private key.
const PrivateKeySize = 32

// PublicKeySize is the byte length of a devp2p node public key: an
// uncompressed secp256k1 point with the leading 0x04 tag stripped.
const PublicKeySize = 64

// AddressSize is the byte length of a derived node address.
const AddressSize = 20

// IsValidPrivate reports whether k is 32 bytes and within [1, N-1] for the
// secp256k1 group order N.
func IsValidPrivate(k []byte) bool {
	if len(k) != PrivateKeySize {
		return false
	}
	var scalar secp256k1.ModNScalar
	overflow := scalar.SetByteSlice(k)
	return !overflow && !scalar.IsZero()
}

// IsValidPublic reports whether pub is a valid secp256k1 point.
//
// When len(pub) == PublicKeySize, pub is treated as the tag-less
// uncompressed form and accepted iff prefixing 0x04 yields a point on the
// curve. When len(pub) != PublicKeySize and sanitize is true, pub is
// handed to the library's general parser (which also accepts compressed
// and hybrid encodings); otherwise it is rejected outright.
func IsValidPublic(pub []byte, sanitize bool) bool {
	if len(pub) == PublicKeySize {
		_, err := secp256k1.ParsePubKey(tagUncompressed(pub))
		return err == nil
	}
	if sanitize {
		_, err := secp256k1.ParsePubKey(pub)
		return err == nil
	}
	return false
}

// PubToAddress returns the low AddressSize bytes of keccak256(pub64),
// where pub64 is pub itself when len(pub) == PublicKeySize, or — when
// sanitize is true and pub has some other recognized encoding — the
// tag-less uncompressed form the library parses it into.
func PubToAddress(pub []byte, sanitize bool) ([AddressSize]byte, error) {
	pub64, err := normalizePublic(pub, sanitize)
	if err != nil {
		return [AddressSize]byte{}, err
	}
	return addressOf(pub64), nil
}

// PrivateToPublic returns the tag-less uncompressed public key (64 bytes)
// corresponding to k.
func PrivateToPublic(k []byte) ([PublicKeySize]byte, error) {
	if !IsValidPrivate(k) {
		return [PublicKeySize]byte{}, ErrInvalidKey
	}
	priv := secp256k1.PrivKeyFromBytes(k)
	defer priv.Zero()

	uncompressed := priv.PubKey().SerializeUncompressed()
	var out [PublicKeySize]byte
	copy(out[:], uncompressed[1:])
	return out, nil
}

// PrivateToAddress derives the devp2p node address for private key k:
// PubToAddress(PrivateToPublic(k)).
func PrivateToAddress(k []byte) ([AddressSize]byte, error) {
	pub, err := PrivateToPublic(k)
	if err != nil {
		return [AddressSize]byte{}, err
	}
	return PubToAddress(pub[:], false)
}

// ImportPublic normalizes pub to the 64-byte tag-less form, parsing via
// the library when pub is not already in that form.
func ImportPublic(pub []byte) ([PublicKeySize]byte, error) {
	pub64, err := normalizePublic(pub, true)
	if err != nil {
		return [PublicKeySize]byte{}, err
	}
	var out [PublicKeySize]byte
	copy(out[:], pub64)
	return out, nil
}

// GeneratePrivateKey draws 32 bytes from src, retrying until the result is
// a valid secp256k1 private key. Mirrors the teacher's
// GenerateSecp256k1Key retry loop.
func GeneratePrivateKey(src io.Reader) ([]byte, error) {
	for {
		k := make([]byte, PrivateKeySize)
		if _, err := io.ReadFull(src, k); err != nil {
			return nil, err
		}
		if IsValidPrivate(k) {
			return k, nil
		}
	}
}

func normalizePublic(pub []byte, sanitize bool) ([]byte, error) {
	if len(pub) == PublicKeySize {
		if _, err := secp256k1.ParsePubKey(tagUncompressed(pub)); err != nil {
			return nil, ErrInvalidKey
		}
		return pub, nil
	}
	if !sanitize {
		return nil, ErrLength
	}
	parsed, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return nil, ErrInvalidKey
	}
	return parsed.SerializeUncompressed()[1:], nil
}

func tagUncompressed(pub64 []byte) []byte {
	out := make([]byte, 1+PublicKeySize)
	out[0] = 0x04
	copy(out[1:], pub64)
	return out
}

func addressOf(pub64 []byte) [AddressSize]byte {
	digest := keccak.Sum256(pub64)
	var out [AddressSize]byte
	copy(out[:], digest[len(digest)-AddressSize:])
	return out
}
