package events

import "github.com/puneettiwariofficial/go-dpt/pkg/types"

// Listening fires once the UDP server reports it is bound.
type Listening struct{ Base }

// NewListening builds a Listening event.
func NewListening() Listening { return Listening{NewBase(KindListening)} }

// Closed fires once the coordinator has torn down.
type Closed struct{ Base }

// NewClosed builds a Closed event.
func NewClosed() Closed { return Closed{NewBase(KindClose)} }

// ErrorOccurred carries an asynchronous fault from the refresh loop, batch
// ingest, or ping-eviction — per spec.md §7, these never abort their loop.
type ErrorOccurred struct {
	Base
	Err error
}

// NewErrorOccurred builds an ErrorOccurred event.
func NewErrorOccurred(err error) ErrorOccurred {
	return ErrorOccurred{NewBase(KindError), err}
}

// PeerAdded fires after a peer is inserted into the k-bucket.
type PeerAdded struct {
	Base
	Peer types.PeerInfo
}

// NewPeerAdded builds a PeerAdded event.
func NewPeerAdded(p types.PeerInfo) PeerAdded {
	return PeerAdded{NewBase(KindPeerAdded), p}
}

// PeerRemoved fires after a peer is removed from the k-bucket.
type PeerRemoved struct {
	Base
	Peer types.PeerInfo
}

// NewPeerRemoved builds a PeerRemoved event.
func NewPeerRemoved(p types.PeerInfo) PeerRemoved {
	return PeerRemoved{NewBase(KindPeerRemoved), p}
}

// PeerNew fires once per peer, at first successful liveness confirmation,
// before it is inserted into the k-bucket.
type PeerNew struct {
	Base
	Peer types.PeerInfo
}

// NewPeerNew builds a PeerNew event.
func NewPeerNew(p types.PeerInfo) PeerNew {
	return PeerNew{NewBase(KindPeerNew), p}
}
