package dpt

import (
	"time"

	"github.com/puneettiwariofficial/go-dpt/pkg/types"
)

// Config holds the coordinator's tunables. Every field matches a named
// option from spec.md §4.8's configuration table.
type Config struct {
	// ShouldFindNeighbours enables findneighbours probes during refresh.
	ShouldFindNeighbours bool

	// ShouldGetDNSPeers enables DNS ingest during refresh.
	ShouldGetDNSPeers bool

	// DNSRefreshQuantity is the requested peer count per DNS refresh;
	// the coordinator actually asks for half of this, per the source
	// quirk spec.md §9 says to preserve.
	DNSRefreshQuantity int

	// DNSNetworks is the set of ENR-tree domains queried for peers.
	DNSNetworks []string

	// RefreshInterval is the base refresh period; the coordinator ticks
	// at RefreshInterval/10.
	RefreshInterval time.Duration

	// Timeout bounds each UDP ping issued through Server.
	Timeout time.Duration

	// K overrides the k-bucket capacity. Zero uses kbucket.DefaultK.
	K int

	// Endpoint is the address/ports this node advertises to peers. Only
	// Address/UDPPort/TCPPort are read; ID is always the key derived in
	// New, regardless of what Endpoint.ID carries.
	Endpoint types.PeerInfo
}

// DefaultConfig returns spec.md §4.8's documented defaults.
func DefaultConfig() Config {
	return Config{
		ShouldFindNeighbours: true,
		ShouldGetDNSPeers:    false,
		DNSRefreshQuantity:   25,
		RefreshInterval:      60 * time.Second,
		Timeout:              5 * time.Second,
	}
}
