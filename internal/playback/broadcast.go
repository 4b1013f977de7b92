package playback

import (
	"context"
	"sync"
)

// Broadcaster holds a single latest value and fans it out to listeners.
// There is no queue: a listener that falls behind only ever sees the most
// recent value. Listeners must not publish to the same Broadcaster.
type Broadcaster[T any] struct {
	deliver sync.Mutex // serialises listener calls

	mu        sync.Mutex
	value     T
	listeners map[int]func(T)
	order     []int
	nextID    int
}

// NewBroadcaster creates a Broadcaster seeded with an initial value.
func NewBroadcaster[T any](initial T) *Broadcaster[T] {
	return &Broadcaster[T]{
		value:     initial,
		listeners: make(map[int]func(T)),
	}
}

// Value returns the current value.
func (b *Broadcaster[T]) Value() T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value
}

// Publish replaces the current value and notifies listeners in subscription
// order on the calling goroutine. Concurrent publishers may coalesce: every
// listener's final call always carries the latest value.
func (b *Broadcaster[T]) Publish(v T) {
	b.store(v)
	b.flush()
}

// store sets the current value without notifying anyone. Callers that
// order their own writes call store under their lock and flush after it.
func (b *Broadcaster[T]) store(v T) {
	b.mu.Lock()
	b.value = v
	b.mu.Unlock()
}

// flush delivers whatever value is current to every listener.
func (b *Broadcaster[T]) flush() {
	b.deliver.Lock()
	defer b.deliver.Unlock()

	b.mu.Lock()
	latest := b.value
	fns := b.snapshotListeners()
	b.mu.Unlock()

	for _, fn := range fns {
		fn(latest)
	}
}

// Subscribe registers fn, calls it immediately with the current value, and
// returns a function that removes the subscription.
func (b *Broadcaster[T]) Subscribe(fn func(T)) (cancel func()) {
	b.deliver.Lock()
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.order = append(b.order, id)
	current := b.value
	b.mu.Unlock()

	fn(current)
	b.deliver.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.listeners, id)
			for i, oid := range b.order {
				if oid == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Watch streams values on a channel with room for one pending value. If the
// reader has not consumed the pending value it is replaced by the newer
// one. The channel is closed when ctx is done.
func (b *Broadcaster[T]) Watch(ctx context.Context) <-chan T {
	ch := make(chan T, 1)
	var mu sync.Mutex
	closed := false

	cancel := b.Subscribe(func(v T) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	})

	go func() {
		<-ctx.Done()
		cancel()
		mu.Lock()
		closed = true
		close(ch)
		mu.Unlock()
	}()
	return ch
}

func (b *Broadcaster[T]) snapshotListeners() []func(T) {
	fns := make([]func(T), 0, len(b.order))
	for _, id := range b.order {
		fns = append(fns, b.listeners[id])
	}
	return fns
}
