// Package eventbus fans the observation stream out to asynchronous
// consumers. The engine publishes through the sim.Observer interface and
// each consumer drains its own buffered channel. Delivery is lossy under
// backpressure so the event loop never blocks on a slow sink.
package eventbus

import (
	"sync"
	"sync/atomic"

	"github.com/Jingren-Tang/minitransit/core/sim"
)

// Bus is a publish/subscribe fan-out for observation records.
type Bus struct {
	mu      sync.RWMutex
	subs    []chan sim.Observation
	closed  bool
	dropped atomic.Uint64
}

// New creates an empty Bus.
func New() *Bus { return &Bus{} }

// Observe implements sim.Observer. Records that do not fit a subscriber
// buffer are dropped and counted.
func (b *Bus) Observe(o sim.Observation) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- o:
		default:
			b.dropped.Add(1)
		}
	}
}

// Subscribe registers a consumer with the given buffer size and returns its
// channel. A non-positive buffer falls back to a small default.
func (b *Bus) Subscribe(buffer int) <-chan sim.Observation {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan sim.Observation, buffer)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs = append(b.subs, ch)
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the consumer and closes its channel.
func (b *Bus) Unsubscribe(sub <-chan sim.Observation) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Dropped reports how many records were discarded due to full buffers.
func (b *Bus) Dropped() uint64 { return b.dropped.Load() }

// Close closes all subscriber channels and rejects further records.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
	b.mu.Unlock()
}
