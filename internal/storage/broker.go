package storage

import "sync"

// ChangeKind identifies which list of a trip changed.
type ChangeKind string

const (
	ChangeTrip        ChangeKind = "trip"
	ChangeExpenses    ChangeKind = "expenses"
	ChangeSettlements ChangeKind = "settlements"
	ChangeProducts    ChangeKind = "products"
)

// Change is published after a committed write.
type Change struct {
	TripID string
	Kind   ChangeKind
}

type subscription struct {
	tripID string
	kinds  map[ChangeKind]bool
	ch     chan Change
}

// Broker fans out changes to subscribers of a trip.
//
// Each subscriber holds at most one pending notification. Publishing to a subscriber
// whose slot is full is a no-op: the pending notification already tells it to reload.
type Broker struct {
	mu   sync.Mutex
	subs map[*subscription]struct{}
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[*subscription]struct{})}
}

// Subscribe registers for changes to tripID. With no kinds, every kind is delivered.
// The returned cancel func unregisters and closes the channel; it is safe to call twice.
func (b *Broker) Subscribe(tripID string, kinds ...ChangeKind) (<-chan Change, func()) {
	sub := &subscription{
		tripID: tripID,
		ch:     make(chan Change, 1),
	}
	if len(kinds) > 0 {
		sub.kinds = make(map[ChangeKind]bool, len(kinds))
		for _, k := range kinds {
			sub.kinds[k] = true
		}
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, sub)
			b.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// Publish notifies every matching subscriber without blocking.
func (b *Broker) Publish(change Change) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs {
		if sub.tripID != change.TripID {
			continue
		}
		if sub.kinds != nil && !sub.kinds[change.Kind] {
			continue
		}
		select {
		case sub.ch <- change:
		default:
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
