package dpt

import "errors"

var (
	// ErrBanned is returned by AddPeer/Bootstrap when the candidate is
	// currently on the ban list.
	ErrBanned = errors.New("dpt: peer is banned")

	// ErrPingFailed is returned by AddPeer when the liveness probe to a
	// previously-unknown peer fails.
	ErrPingFailed = errors.New("dpt: ping failed")

	// ErrNotBound is returned by operations that require Bind to have
	// succeeded first.
	ErrNotBound = errors.New("dpt: coordinator is not bound")

	// ErrAlreadyBound is returned by Bind when called a second time.
	ErrAlreadyBound = errors.New("dpt: coordinator is already bound")

	// ErrDestroyed is returned by any operation issued after Destroy.
	ErrDestroyed = errors.New("dpt: coordinator is destroyed")
)
