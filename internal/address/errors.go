package address

import "errors"

// ErrLength is returned when an address, salt or public key argument has
// the wrong fixed length for the operation being performed.
var ErrLength = errors.New("address: wrong length")

// ErrInvalidAddress is returned when a string does not match the
// 0x-prefixed 40-hex-digit address shape.
var ErrInvalidAddress = errors.New("address: not a valid hex address")
