package session

import "sync"

// State is the snapshot of session facts the navigation guard consumes.
// OnboardingCompleted is meaningful only while Authenticated is true; the
// guard never reads it for a logged-out session.
type State struct {
	Authenticated       bool
	OnboardingCompleted bool

	UserID string
	Email  string

	// Prefill values supplied by a federated sign-in provider, consumed by
	// the onboarding flow. Empty for password logins.
	PrefillName      string
	PrefillAvatarRef string
}

// Subscriber is notified after every state mutation with the new snapshot.
type Subscriber func(State)

// Store owns the session state for a running app instance. There is exactly
// one Store per process; it is passed explicitly to the guard and the
// navigation controller rather than looked up ambiently.
type Store struct {
	lock        sync.RWMutex
	state       State
	subscribers []Subscriber
}

// NewStore returns a store holding the logged-out default state.
func NewStore() *Store {
	return &Store{}
}

// Snapshot returns the current session state by value.
func (s *Store) Snapshot() State {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.state
}

// Subscribe registers a callback invoked after every mutation. Used by the
// rendering layer to trigger rebuilds; the core's contracts do not depend
// on it.
func (s *Store) Subscribe(fn Subscriber) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) set(state State) {
	s.lock.Lock()
	s.state = state
	subs := make([]Subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.lock.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}
