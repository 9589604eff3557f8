// Package interfaces defines the boundary the DPT coordinator talks to:
// the UDP wire server and the DNS peer-list provider. Neither is
// implemented here — both are external collaborators per spec.md §6 —
// grounded on the teacher's pkg/interfaces package, which defines every
// subsystem boundary the same way (one interface per file, named for the
// subsystem it fronts, documented with its implementation's location).
package interfaces

import (
	"context"

	"github.com/puneettiwariofficial/go-dpt/pkg/events"
	"github.com/puneettiwariofficial/go-dpt/pkg/types"
)

// Server is the wire-level discovery transport the coordinator drives.
// Its implementation owns the UDP socket, message codec, and signature
// verification; the coordinator only calls it and listens on its events.
type Server interface {
	// Bind starts listening. It must publish events.Listening once bound.
	Bind(ctx context.Context) error

	// Destroy tears the server down and publishes events.Closed.
	Destroy() error

	// Ping probes peer and returns its observed identity once the peer
	// replies, or an error if it times out or the reply is malformed.
	Ping(ctx context.Context, peer types.PeerInfo) (types.PeerInfo, error)

	// FindNeighbours asks peer for the peers in its table closest to
	// target, identified as a raw distance-space id.
	FindNeighbours(ctx context.Context, peer types.PeerInfo, target []byte) ([]types.PeerInfo, error)

	// Events returns the bus the server publishes Listening, Closed, and
	// ErrorOccurred on.
	Events() *events.Bus
}

// DNSProvider supplies peers from a DNS-based peer list (spec.md's
// EIP-1459-lite DNS ingest source). Implemented by internal/dnspeers.
type DNSProvider interface {
	// GetPeers returns up to n peers drawn from the given network names,
	// or an error if no provider network could be resolved.
	GetPeers(ctx context.Context, n int, networks []string) ([]types.PeerInfo, error)
}
