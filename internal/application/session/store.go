package session

import (
	"sync"
)

const defaultSubscriberBuffer = 16

// Change is delivered to subscribers after every dispatch
type Change struct {
	Action string `json:"action"`
	State  State  `json:"state"`
}

// Store holds the state of one session and applies actions one at a time
type Store struct {
	mu          sync.RWMutex
	state       State
	subscribers map[int]chan Change
	nextSubID   int
	closed      bool
}

// NewStore creates a store holding the initial state
func NewStore() *Store {
	return &Store{
		state:       InitialState(),
		subscribers: make(map[int]chan Change),
	}
}

// Dispatch applies a and notifies subscribers. A subscriber whose buffer is
// full misses the change; the next one it receives carries the full state.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, a)
	snapshot := s.state.Clone()

	for _, ch := range s.subscribers {
		select {
		case ch <- Change{Action: a.Type(), State: snapshot.Clone()}:
		default:
		}
	}
	return snapshot
}

// State returns a copy of the current state
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Subscribe registers for changes. The returned func unsubscribes and
// closes the channel; it is safe to call more than once.
func (s *Store) Subscribe(buffer int) (<-chan Change, func()) {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	ch := make(chan Change, buffer)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(ch)
		}
	}
}

// Close unsubscribes everyone. Later subscriptions get a closed channel.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}
