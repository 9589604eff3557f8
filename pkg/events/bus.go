package events

import "sync"

// SubscriptionOpt configures a Subscription at creation time, mirroring
// the teacher's BufSize-style functional option.
type SubscriptionOpt func(*subscriptionSettings)

type subscriptionSettings struct {
	buffer int
}

// BufSize sets the subscription's channel buffer size. The default is 16.
func BufSize(n int) SubscriptionOpt {
	return func(s *subscriptionSettings) { s.buffer = n }
}

// Subscription is a live registration for one or more event kinds.
type Subscription struct {
	out    chan Event
	kinds  map[Kind]struct{}
	bus    *Bus
	closed bool
	mu     sync.Mutex
}

// C returns the channel new matching events are delivered on.
func (s *Subscription) C() <-chan Event { return s.out }

// Close cancels the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.bus.unsubscribe(s)
	close(s.out)
}

func (s *Subscription) wants(k Kind) bool {
	_, ok := s.kinds[k]
	return ok
}

func (s *Subscription) deliver(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.out <- e:
	default:
		// A slow subscriber drops events rather than blocking Publish —
		// the coordinator's event emission must never stall on a
		// listener that stopped draining its channel.
	}
}

// Bus is a small typed publish/subscribe fabric scoped to the Event kinds
// this module emits.
type Bus struct {
	mu   sync.RWMutex
	subs []*Subscription
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers for the given kinds (all kinds, if none given) and
// returns a Subscription whose channel receives every matching Publish.
func (b *Bus) Subscribe(kinds []Kind, opts ...SubscriptionOpt) *Subscription {
	settings := subscriptionSettings{buffer: 16}
	for _, opt := range opts {
		opt(&settings)
	}

	set := make(map[Kind]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}

	sub := &Subscription{
		out:   make(chan Event, settings.buffer),
		kinds: set,
		bus:   b,
	}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	return sub
}

// Publish delivers e to every subscription registered for e.Kind(), or
// registered for all kinds (an empty kind set from Subscribe(nil, ...)).
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		if len(sub.kinds) == 0 || sub.wants(e.Kind()) {
			sub.deliver(e)
		}
	}
}

func (b *Bus) unsubscribe(target *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub == target {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}
