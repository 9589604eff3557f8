package dnspeers

import "time"

// Config configures a Provider.
type Config struct {
	// Domains is the default set of enrtree root domains queried when
	// GetPeers is called with no networks of its own.
	Domains []string

	// Nameserver is the resolver address ("host:port") queried for TXT
	// records. Empty uses the system resolver's configured servers.
	Nameserver string

	// Timeout bounds each individual TXT lookup.
	Timeout time.Duration
}

// DefaultConfig returns a Config with a conservative lookup timeout, no
// domains configured, and Google's public resolver as the nameserver.
func DefaultConfig() Config {
	return Config{Timeout: 5 * time.Second, Nameserver: "8.8.8.8:53"}
}
