package nodekey

import "errors"

var (
	// ErrInvalidKey is returned when a secp256k1 private or public key
	// fails the curve's validity rules.
	ErrInvalidKey = errors.New("nodekey: invalid secp256k1 key")

	// ErrLength is returned when a key argument has the wrong fixed
	// length for the operation being performed.
	ErrLength = errors.New("nodekey: wrong length")
)
