package account

import "errors"

var (
	// ErrMalformed is returned when an RLP payload is not a 4-element list
	// of byte strings.
	ErrMalformed = errors.New("account: malformed RLP payload")

	// ErrInvalid is returned when a well-formed account's fields break an
	// invariant (negative nonce/balance, wrong-length root).
	ErrInvalid = errors.New("account: invalid fields")
)
