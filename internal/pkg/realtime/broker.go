package realtime

import (
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned when subscribing to a closed source
var ErrClosed = errors.New("realtime source closed")

// subBuffer is the per-subscription event buffer. Listeners coalesce bursts,
// so dropping events beyond the buffer is acceptable as long as at least one
// is delivered.
const subBuffer = 16

// Broker is an in-process Source. Repositories publish into it after store
// writes, which gives a single-process deployment the same reload feedback
// loop a hosted change feed provides.
type Broker struct {
	mu     sync.Mutex
	subs   map[string]map[*brokerSub]struct{}
	closed bool
}

type brokerSub struct {
	table  string
	events chan Event
	once   sync.Once
	unsub  func()
}

// NewBroker creates an empty broker
func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[*brokerSub]struct{})}
}

// Subscribe registers for events on a table
func (b *Broker) Subscribe(table string) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	sub := &brokerSub{
		table:  table,
		events: make(chan Event, subBuffer),
	}
	sub.unsub = func() { b.remove(table, sub) }
	if b.subs[table] == nil {
		b.subs[table] = make(map[*brokerSub]struct{})
	}
	b.subs[table][sub] = struct{}{}
	return sub, nil
}

// Publish delivers an event to all subscribers of its table. Slow
// subscribers with a full buffer miss the event.
func (b *Broker) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs[event.Table] {
		select {
		case sub.events <- event:
		default:
		}
	}
}

// Close drops all subscriptions
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for table, subs := range b.subs {
		for sub := range subs {
			sub.once.Do(func() { close(sub.events) })
		}
		delete(b.subs, table)
	}
	return nil
}

func (s *brokerSub) Events() <-chan Event {
	return s.events
}

func (s *brokerSub) Unsubscribe() {
	if s.unsub != nil {
		s.unsub()
	}
}

func (b *Broker) remove(table string, sub *brokerSub) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subs, ok := b.subs[table]; ok {
		if _, ok := subs[sub]; ok {
			delete(subs, sub)
			sub.once.Do(func() { close(sub.events) })
		}
	}
}
