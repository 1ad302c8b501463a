package events

import (
	"slices"
	"sync"
)

const eventBufferSize = 64

// Subscription receives the events of the kinds it subscribed to.
type Subscription struct {
	Events <-chan Event
	Done   <-chan struct{}

	kinds   []Kind
	eventCh chan Event
	doneCh  chan struct{}
	once    sync.Once
}

func newSubscription(kinds []Kind) *Subscription {
	s := &Subscription{
		kinds:   kinds,
		eventCh: make(chan Event, eventBufferSize),
		doneCh:  make(chan struct{}),
	}
	s.Events = s.eventCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) wants(kind Kind) bool {
	return len(s.kinds) == 0 || slices.Contains(s.kinds, kind)
}

// send delivers e without blocking. Events are dropped when the buffer is full.
func (s *Subscription) send(e Event) {
	select {
	case s.eventCh <- e:
	default:
	}
}

func (s *Subscription) close() {
	s.once.Do(func() { close(s.doneCh) })
}

// Bus is an in-process publish/subscribe hub. Publish never blocks, so it is
// safe to call while holding the play queue lock.
type Bus struct {
	mu     sync.RWMutex
	subs   []*Subscription
	closed bool
}

// NewBus creates an event bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a subscriber for kinds. No kinds means every kind.
func (b *Bus) Subscribe(kinds ...Kind) *Subscription {
	s := newSubscription(kinds)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		s.close()
		return s
	}
	b.subs = append(b.subs, s)
	return s
}

// Unsubscribe removes s and signals its Done channel.
func (b *Bus) Unsubscribe(s *Subscription) {
	b.mu.Lock()
	b.subs = slices.DeleteFunc(b.subs, func(c *Subscription) bool { return c == s })
	b.mu.Unlock()
	s.close()
}

// Publish sends an event to matching subscribers.
func (b *Bus) Publish(kind Kind, attrs Attrs) {
	e := newEvent(kind, attrs)
	b.mu.RLock()
	subs := slices.Clone(b.subs)
	b.mu.RUnlock()
	for _, s := range subs {
		if s.wants(kind) {
			s.send(e)
		}
	}
}

// Close signals every subscriber and rejects new ones.
func (b *Bus) Close() {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.closed = true
	b.mu.Unlock()
	for _, s := range subs {
		s.close()
	}
}
