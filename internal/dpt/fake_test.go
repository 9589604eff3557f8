package dpt

import (
	"context"
	"sync"

	"github.com/puneettiwariofficial/go-dpt/internal/nodekey"
	"github.com/puneettiwariofficial/go-dpt/pkg/events"
	"github.com/puneettiwariofficial/go-dpt/pkg/types"
)

type findCall struct {
	Peer   types.PeerInfo
	Target []byte
}

// fakeServer is an in-memory interfaces.Server stand-in: Ping succeeds
// unless a per-peer error has been staged, and FindNeighbours records
// every call it receives for assertion.
type fakeServer struct {
	mu sync.Mutex

	bus *events.Bus

	pingErr   map[string]error
	pingCalls int

	findCalls  []findCall
	findResult []types.PeerInfo
	findErr    error
}

func newFakeServer() *fakeServer {
	return &fakeServer{bus: events.NewBus(), pingErr: map[string]error{}}
}

func (s *fakeServer) Bind(ctx context.Context) error { return nil }
func (s *fakeServer) Destroy() error                 { return nil }
func (s *fakeServer) Events() *events.Bus            { return s.bus }

func (s *fakeServer) Ping(ctx context.Context, peer types.PeerInfo) (types.PeerInfo, error) {
	s.mu.Lock()
	s.pingCalls++
	err := s.pingErr[peer.Key()]
	s.mu.Unlock()
	if err != nil {
		return types.PeerInfo{}, err
	}
	return peer, nil
}

func (s *fakeServer) FindNeighbours(ctx context.Context, peer types.PeerInfo, target []byte) ([]types.PeerInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findCalls = append(s.findCalls, findCall{Peer: peer, Target: append([]byte(nil), target...)})
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.findResult, nil
}

func (s *fakeServer) setPingErr(peer types.PeerInfo, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pingErr[peer.Key()] = err
}

func (s *fakeServer) calls() []findCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]findCall(nil), s.findCalls...)
}

func (s *fakeServer) pingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pingCalls
}

// fakeDNSProvider is an in-memory interfaces.DNSProvider stand-in.
type fakeDNSProvider struct {
	peers []types.PeerInfo
	err   error
}

func (d *fakeDNSProvider) GetPeers(ctx context.Context, n int, networks []string) ([]types.PeerInfo, error) {
	if d.err != nil {
		return nil, d.err
	}
	if n < len(d.peers) {
		return d.peers[:n], nil
	}
	return d.peers, nil
}

func fakePubKey(seed byte) types.PeerID {
	b := make([]byte, nodekey.PublicKeySize)
	for i := range b {
		b[i] = seed + byte(i)
	}
	return types.PeerID(b)
}
