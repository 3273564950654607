package composer

import (
	"context"
	"sync"
)

const subscriberBuffer = 16

// Store serializes dispatches for a single session and fans out each new
// state to subscribers. A slow subscriber misses intermediate states but
// the newest state is always queued for it.
type Store struct {
	mu    sync.Mutex
	state State
	subs  map[chan State]struct{}
}

func NewStore() *Store {
	return &Store{
		state: Initial(),
		subs:  make(map[chan State]struct{}),
	}
}

// Dispatch reduces the action and reports whether the state changed.
// Subscribers are notified under the lock so they observe versions in order.
func (s *Store) Dispatch(action Action) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state
	next := Reduce(prev, action)
	if next.Version == prev.Version {
		return prev.Clone(), false
	}
	s.state = next
	for ch := range s.subs {
		deliverLatest(ch, next.Clone())
	}
	return next.Clone(), true
}

// deliverLatest queues state, evicting the oldest queued state when the
// buffer is full. Callers hold s.mu, so no other sender can refill the slot.
func deliverLatest(ch chan State, state State) {
	select {
	case ch <- state:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- state:
	default:
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe returns a channel of states that is closed when ctx is done.
// The current state is delivered first.
func (s *Store) Subscribe(ctx context.Context) <-chan State {
	ch := make(chan State, subscriberBuffer)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	ch <- s.state.Clone()
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, ch)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}
