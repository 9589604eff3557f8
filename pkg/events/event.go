// Package events implements the typed publish/subscribe fabric the k-bucket
// and the DPT coordinator emit on: listening, close, error, and the three
// peer lifecycle events.
//
// Grounded on the teacher's pkg/types/events.go (Event interface, BaseEvent
// embedding) and pkg/interfaces/eventbus.go (Subscribe/Emitter split,
// buffered-channel subscriptions), narrowed from the teacher's
// general-purpose any-typed dispatch to the six concrete kinds this spec
// names — see SPEC_FULL.md §4.9 for why the narrower bus is the right
// adaptation rather than a wholesale import of the general one.
package events

import "time"

// Kind identifies the six event kinds the coordinator emits.
type Kind string

const (
	KindListening    Kind = "listening"
	KindClose        Kind = "close"
	KindError        Kind = "error"
	KindPeerAdded    Kind = "peer:added"
	KindPeerRemoved  Kind = "peer:removed"
	KindPeerNew      Kind = "peer:new"
)

// Event is anything carried on the Bus.
type Event interface {
	Kind() Kind
	At() time.Time
}

// Base is embedded by every concrete event to satisfy Event.
type Base struct {
	kind Kind
	at   time.Time
}

// NewBase stamps a Base with the current time.
func NewBase(kind Kind) Base {
	return Base{kind: kind, at: time.Now()}
}

func (b Base) Kind() Kind    { return b.kind }
func (b Base) At() time.Time { return b.at }
