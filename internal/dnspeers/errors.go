package dnspeers

import "errors"

var (
	// ErrNoDomains is returned when GetPeers is called with no networks
	// configured and none passed by the caller.
	ErrNoDomains = errors.New("dnspeers: no domains configured")

	// ErrNotImplemented marks the parts of EIP-1459 this provider does
	// not carry out: walking an enrtree-branch past its first level, and
	// decoding or signature-checking an individual ENR record. Both are
	// out of scope per this module's DNS/ENR boundary.
	ErrNotImplemented = errors.New("dnspeers: ENR tree walking and record verification not implemented")

	// ErrMalformedRoot is returned when a domain's root TXT record does
	// not match the "enrtree-root=v1 ..." format.
	ErrMalformedRoot = errors.New("dnspeers: malformed enrtree-root record")
)
