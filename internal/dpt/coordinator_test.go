package dpt

import (
	"context"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puneettiwariofficial/go-dpt/internal/kbucket"
	"github.com/puneettiwariofficial/go-dpt/internal/nodekey"
	"github.com/puneettiwariofficial/go-dpt/pkg/events"
	"github.com/puneettiwariofficial/go-dpt/pkg/types"
)

func mustPrivateKey(t *testing.T) []byte {
	t.Helper()
	k, err := nodekey.GeneratePrivateKey(rand.Reader)
	require.NoError(t, err)
	return k
}

func newTestCoordinator(t *testing.T, server *fakeServer, dns *fakeDNSProvider, cfg Config) *Coordinator {
	t.Helper()
	var provider interface {
		GetPeers(ctx context.Context, n int, networks []string) ([]types.PeerInfo, error)
	}
	if dns != nil {
		provider = dns
	}
	c, err := New(mustPrivateKey(t), server, provider, cfg)
	require.NoError(t, err)
	return c
}

func TestBootstrapSucceedsInvokesFindNeighboursOnceAndInsertsPeer(t *testing.T) {
	server := newFakeServer()
	coord := newTestCoordinator(t, server, nil, DefaultConfig())

	require.NoError(t, coord.Bind(context.Background()))
	defer coord.Destroy()

	peer := types.PeerInfo{ID: fakePubKey(5), Address: "10.0.0.5", UDPPort: 30303}
	require.NoError(t, coord.Bootstrap(context.Background(), peer))

	calls := server.calls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].Peer.Matches(peer))
	assert.Equal(t, []byte(coord.ID()), calls[0].Target)

	got, ok := coord.GetPeer(peer.ID)
	require.True(t, ok)
	assert.Equal(t, peer.Address, got.Address)
}

func TestBootstrapWithFindNeighboursDisabledNeverCallsIt(t *testing.T) {
	server := newFakeServer()
	cfg := DefaultConfig()
	cfg.ShouldFindNeighbours = false
	coord := newTestCoordinator(t, server, nil, cfg)

	require.NoError(t, coord.Bind(context.Background()))
	defer coord.Destroy()

	peer := types.PeerInfo{ID: fakePubKey(6), Address: "10.0.0.6"}
	require.NoError(t, coord.Bootstrap(context.Background(), peer))

	assert.Empty(t, server.calls())
	_, ok := coord.GetPeer(peer.ID)
	assert.True(t, ok)
}

func TestBootstrapSwallowsAddPeerFailureAndPublishesError(t *testing.T) {
	server := newFakeServer()
	coord := newTestCoordinator(t, server, nil, DefaultConfig())
	require.NoError(t, coord.Bind(context.Background()))
	defer coord.Destroy()

	sub := coord.Events().Subscribe(nil)
	defer sub.Close()

	peer := types.PeerInfo{ID: fakePubKey(7), Address: "10.0.0.7"}
	server.setPingErr(peer, errors.New("no route to host"))

	require.NoError(t, coord.Bootstrap(context.Background(), peer))
	assert.Empty(t, server.calls())

	select {
	case e := <-sub.C():
		assert.Equal(t, events.KindError, e.Kind())
	default:
		t.Fatal("expected an error event")
	}

	_, ok := coord.GetPeer(peer.ID)
	assert.False(t, ok)
}

func TestAddPeerReturnsBannedForBannedCandidate(t *testing.T) {
	server := newFakeServer()
	coord := newTestCoordinator(t, server, nil, DefaultConfig())

	peer := types.PeerInfo{ID: fakePubKey(8)}
	coord.BanPeer(peer, 0)

	_, err := coord.AddPeer(context.Background(), peer)
	require.ErrorIs(t, err, ErrBanned)

	_, ok := coord.GetPeer(peer.ID)
	assert.False(t, ok)
}

func TestBanPeerThenAddPeerFailsAndGetPeerReturnsAbsent(t *testing.T) {
	server := newFakeServer()
	coord := newTestCoordinator(t, server, nil, DefaultConfig())

	peer := types.PeerInfo{ID: fakePubKey(9), Address: "10.0.0.9"}
	_, err := coord.AddPeer(context.Background(), peer)
	require.NoError(t, err)
	_, ok := coord.GetPeer(peer.ID)
	require.True(t, ok)

	coord.BanPeer(peer, 0)

	_, err = coord.AddPeer(context.Background(), peer)
	require.ErrorIs(t, err, ErrBanned)

	_, ok = coord.GetPeer(peer.ID)
	assert.False(t, ok)
}

func TestAddPeerSkipsPingForAddressOnlyKnownPeer(t *testing.T) {
	server := newFakeServer()
	coord := newTestCoordinator(t, server, nil, DefaultConfig())

	peer := types.PeerInfo{ID: fakePubKey(11), Address: "10.0.0.11", UDPPort: 30303}
	_, err := coord.AddPeer(context.Background(), peer)
	require.NoError(t, err)
	require.Equal(t, 1, server.pingCount())

	// A bootstrap/findneighbours result often carries only the wire
	// address, not the full id — the already-resident check must still
	// find the peer by address:udpPort and skip re-pinging it.
	addressOnly := types.PeerInfo{Address: "10.0.0.11", UDPPort: 30303}
	got, err := coord.AddPeer(context.Background(), addressOnly)
	require.NoError(t, err)
	assert.Equal(t, peer.ID, got.ID)
	assert.Equal(t, 1, server.pingCount())
}

func TestBanPeerByAddressOnlyEvictsResidentByAddress(t *testing.T) {
	server := newFakeServer()
	coord := newTestCoordinator(t, server, nil, DefaultConfig())

	peer := types.PeerInfo{ID: fakePubKey(12), Address: "10.0.0.12", UDPPort: 30303}
	_, err := coord.AddPeer(context.Background(), peer)
	require.NoError(t, err)
	_, ok := coord.GetPeer(peer.ID)
	require.True(t, ok)

	coord.BanPeer(types.PeerInfo{Address: "10.0.0.12", UDPPort: 30303}, 0)

	_, ok = coord.GetPeer(peer.ID)
	assert.False(t, ok)
}

func TestAddPeerBansCandidateOnPingFailure(t *testing.T) {
	server := newFakeServer()
	coord := newTestCoordinator(t, server, nil, DefaultConfig())

	peer := types.PeerInfo{ID: fakePubKey(10)}
	server.setPingErr(peer, errors.New("timeout"))

	_, err := coord.AddPeer(context.Background(), peer)
	require.ErrorIs(t, err, ErrPingFailed)

	_, err = coord.AddPeer(context.Background(), peer)
	require.ErrorIs(t, err, ErrBanned)
}

func TestResolvePingEvictionAcceptsCandidateWhenAnOldPingFails(t *testing.T) {
	server := newFakeServer()
	coord := newTestCoordinator(t, server, nil, DefaultConfig())

	old1 := types.PeerInfo{ID: fakePubKey(1)}
	old2 := types.PeerInfo{ID: fakePubKey(2)}
	newPeer := types.PeerInfo{ID: fakePubKey(3)}
	server.setPingErr(old1, errors.New("timeout"))

	evictIDs, insert := coord.resolvePingEviction([]types.PeerInfo{old1, old2}, newPeer)

	assert.True(t, insert)
	require.Len(t, evictIDs, 1)
	assert.Equal(t, kbucket.IDFromPubkey(old1.ID), evictIDs[0])
	assert.True(t, coord.bans.Has(old1))
	assert.False(t, coord.bans.Has(newPeer))
}

func TestResolvePingEvictionBansNewcomerWhenAllOldPingsSucceed(t *testing.T) {
	server := newFakeServer()
	coord := newTestCoordinator(t, server, nil, DefaultConfig())

	old1 := types.PeerInfo{ID: fakePubKey(1)}
	old2 := types.PeerInfo{ID: fakePubKey(2)}
	newPeer := types.PeerInfo{ID: fakePubKey(3)}

	evictIDs, insert := coord.resolvePingEviction([]types.PeerInfo{old1, old2}, newPeer)

	assert.False(t, insert)
	assert.Empty(t, evictIDs)
	assert.True(t, coord.bans.Has(newPeer))
	assert.False(t, coord.bans.Has(old1))
	assert.False(t, coord.bans.Has(old2))
}

func TestResolvePingEvictionSkipsEntirelyWhenNewcomerAlreadyBanned(t *testing.T) {
	server := newFakeServer()
	coord := newTestCoordinator(t, server, nil, DefaultConfig())

	old1 := types.PeerInfo{ID: fakePubKey(1)}
	newPeer := types.PeerInfo{ID: fakePubKey(3)}
	coord.bans.Add(newPeer, 0)

	evictIDs, insert := coord.resolvePingEviction([]types.PeerInfo{old1}, newPeer)

	assert.False(t, insert)
	assert.Nil(t, evictIDs)
	assert.Equal(t, 0, server.pingCount())
}

func TestRefreshTickOnlyProbesPeersMatchingSelector(t *testing.T) {
	server := newFakeServer()
	coord := newTestCoordinator(t, server, nil, DefaultConfig())

	peerA := types.PeerInfo{ID: fakePubKey(3)}  // id[0] % 10 == 3
	peerB := types.PeerInfo{ID: fakePubKey(13)} // id[0] % 10 == 3
	peerC := types.PeerInfo{ID: fakePubKey(4)}  // id[0] % 10 == 4

	for _, p := range []types.PeerInfo{peerA, peerB, peerC} {
		_, err := coord.AddPeer(context.Background(), p)
		require.NoError(t, err)
	}

	coord.tick.Store(3)
	coord.Refresh(context.Background())
	coord.wg.Wait()

	calls := server.calls()
	probed := map[string]bool{}
	for _, c := range calls {
		probed[c.Peer.Key()] = true
	}
	assert.True(t, probed[peerA.Key()])
	assert.True(t, probed[peerB.Key()])
	assert.False(t, probed[peerC.Key()])
	assert.EqualValues(t, 4, coord.tick.Load())
}

func TestGetDnsPeersRequestsHalfConfiguredQuantity(t *testing.T) {
	server := newFakeServer()
	dns := &fakeDNSProvider{peers: []types.PeerInfo{
		{ID: fakePubKey(20)}, {ID: fakePubKey(21)}, {ID: fakePubKey(22)},
	}}
	cfg := DefaultConfig()
	cfg.DNSRefreshQuantity = 4
	coord := newTestCoordinator(t, server, dns, cfg)

	got, err := coord.GetDnsPeers(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestGetClosestPeersOrdersByDistance(t *testing.T) {
	server := newFakeServer()
	coord := newTestCoordinator(t, server, nil, DefaultConfig())

	var last types.PeerInfo
	for i := byte(1); i <= 5; i++ {
		p := types.PeerInfo{ID: fakePubKey(i)}
		_, err := coord.AddPeer(context.Background(), p)
		require.NoError(t, err)
		last = p
	}

	closest := coord.GetClosestPeers(last.ID, 2)
	require.NotEmpty(t, closest)
	assert.True(t, closest[0].Matches(last))
}

func TestDestroyBeforeBindReturnsErrNotBound(t *testing.T) {
	server := newFakeServer()
	coord := newTestCoordinator(t, server, nil, DefaultConfig())

	err := coord.Destroy()
	assert.ErrorIs(t, err, ErrNotBound)
}

func TestBindTwiceReturnsErrAlreadyBound(t *testing.T) {
	server := newFakeServer()
	coord := newTestCoordinator(t, server, nil, DefaultConfig())

	require.NoError(t, coord.Bind(context.Background()))
	defer coord.Destroy()

	err := coord.Bind(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyBound)
}
