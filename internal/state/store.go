package state

import (
	"sync"
	"sync/atomic"
)

// Store holds the current State and serializes every mutation through its
// reducer: one dispatch runs to completion, repository round-trips
// included, before the next is accepted. Reading the current snapshot is a
// lock-free atomic load and may happen concurrently with a dispatch.
//
// A process creates exactly one Store at startup, after the migration
// pipeline has finished, and passes it by reference to its consumers.
type Store struct {
	mu      sync.Mutex
	reducer *Reducer
	current atomic.Pointer[State]
	subs    map[int]func(State)
	nextSub int
}

func NewStore(initial State, reducer *Reducer) *Store {
	s := &Store{
		reducer: reducer,
		subs:    make(map[int]func(State)),
	}
	s.current.Store(&initial)
	return s
}

// State returns the last published snapshot.
func (s *Store) State() State {
	return *s.current.Load()
}

// Dispatch reduces one event and publishes the resulting snapshot.
// Subscribers are notified after the reducer returns, still under the
// dispatch lock, so they observe states in dispatch order.
func (s *Store) Dispatch(event Event) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.reducer.Reduce(*s.current.Load(), event)
	s.current.Store(&next)
	for _, notify := range s.subs {
		notify(next)
	}
	return next
}

// Subscribe registers a listener for published snapshots and returns its
// cancel function.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
