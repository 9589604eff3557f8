// Package dnspeers implements the DNS-lookup leaf of spec.md's
// EIP-1459-lite DNS peer ingest source: fetching a domain's
// enrtree-root TXT record over github.com/miekg/dns.
//
// Grounded on internal/discovery/dns/dns.go (Discoverer wraps a
// resolver behind a Resolve(ctx, domain) call, config carries timeout
// and domain list) but replaces the teacher's dnsaddr TXT format with
// devp2p's enrtree format, and stops at the root record: walking an
// enrtree-branch past its first level and decoding/verifying an
// individual ENR are both out of scope (spec.md marks full ENR
// handling as an external collaborator's problem), so both return
// ErrNotImplemented rather than being silently skipped.
package dnspeers

import (
	"context"
	"fmt"
	"strings"

	"github.com/miekg/dns"

	"github.com/puneettiwariofficial/go-dpt/pkg/types"
)

const (
	rootPrefix = "enrtree-root=v1"
)

// Provider resolves peers from DNS enrtree roots.
type Provider struct {
	cfg     Config
	client  *dns.Client
	servers []string
}

// New builds a Provider. If cfg.Nameserver is empty, the system
// resolver configuration (/etc/resolv.conf) supplies the server list.
func New(cfg Config) (*Provider, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	var servers []string
	if cfg.Nameserver != "" {
		servers = []string{cfg.Nameserver}
	} else {
		conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
		if err != nil {
			return nil, fmt.Errorf("dnspeers: load resolver config: %w", err)
		}
		for _, s := range conf.Servers {
			servers = append(servers, s+":"+conf.Port)
		}
	}
	if len(servers) == 0 {
		return nil, fmt.Errorf("dnspeers: no nameservers available")
	}

	return &Provider{
		cfg:     cfg,
		client:  &dns.Client{Timeout: cfg.Timeout},
		servers: servers,
	}, nil
}

// GetPeers implements interfaces.DNSProvider. It fetches the root TXT
// record of each of networks (or cfg.Domains when networks is empty)
// and always fails with ErrNotImplemented once it reaches the entry
// tree itself, since walking and verifying it is out of scope — callers
// should not expect this to return peers yet, only to exercise the
// lookup and the scoping boundary.
func (p *Provider) GetPeers(ctx context.Context, n int, networks []string) ([]types.PeerInfo, error) {
	domains := networks
	if len(domains) == 0 {
		domains = p.cfg.Domains
	}
	if len(domains) == 0 {
		return nil, ErrNoDomains
	}

	var peers []types.PeerInfo
	var firstErr error
	for _, domain := range domains {
		got, err := p.getPeersForDomain(ctx, domain)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		peers = append(peers, got...)
		if n > 0 && len(peers) >= n {
			return peers[:n], nil
		}
	}
	if len(peers) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return peers, nil
}

func (p *Provider) getPeersForDomain(ctx context.Context, domain string) ([]types.PeerInfo, error) {
	root, err := p.lookupTXT(ctx, domain)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(root, rootPrefix) {
		return nil, ErrMalformedRoot
	}
	return nil, ErrNotImplemented
}

// lookupTXT queries every configured server in turn and returns the
// first TXT record found for domain.
func (p *Provider) lookupTXT(ctx context.Context, domain string) (string, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), dns.TypeTXT)

	var lastErr error
	for _, server := range p.servers {
		reply, _, err := p.client.ExchangeContext(ctx, msg, server)
		if err != nil {
			lastErr = err
			continue
		}
		for _, rr := range reply.Answer {
			if txt, ok := rr.(*dns.TXT); ok && len(txt.Txt) > 0 {
				return strings.Join(txt.Txt, ""), nil
			}
		}
		lastErr = fmt.Errorf("dnspeers: no TXT record for %s", domain)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("dnspeers: no nameserver answered for %s", domain)
	}
	return "", lastErr
}
