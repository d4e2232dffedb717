package conversation

import (
	"sync"

	"puppymentor/internal/domain"
)

// Store holds the single pending input state of every user.
// Operations on one user are serialized by that user's lock; users never block each other.
type Store struct {
	stateMux sync.RWMutex
	states   map[int64]domain.PendingState

	userLocks map[int64]*sync.Mutex
	locksMux  sync.Mutex
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		states:    make(map[int64]domain.PendingState),
		userLocks: make(map[int64]*sync.Mutex),
	}
}

func (s *Store) userLock(userID int64) *sync.Mutex {
	s.locksMux.Lock()
	defer s.locksMux.Unlock()

	if _, exists := s.userLocks[userID]; !exists {
		s.userLocks[userID] = &sync.Mutex{}
	}
	return s.userLocks[userID]
}

// Get returns the user's state, StateNone when nothing is pending
func (s *Store) Get(userID int64) domain.PendingState {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	return s.get(userID)
}

// Set replaces the user's state
func (s *Store) Set(userID int64, state domain.PendingState) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	s.set(userID, state)
}

// Clear drops the user's state
func (s *Store) Clear(userID int64) {
	s.Set(userID, domain.NoState())
}

// Len returns the number of users with a pending state
func (s *Store) Len() int {
	s.stateMux.RLock()
	defer s.stateMux.RUnlock()
	return len(s.states)
}

// withUser runs fn holding the user's lock; fn must use the unlocked accessors
func (s *Store) withUser(userID int64, fn func()) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()
	fn()
}

func (s *Store) get(userID int64) domain.PendingState {
	s.stateMux.RLock()
	defer s.stateMux.RUnlock()

	if st, ok := s.states[userID]; ok {
		return st
	}
	return domain.NoState()
}

func (s *Store) set(userID int64, state domain.PendingState) {
	s.stateMux.Lock()
	defer s.stateMux.Unlock()

	if !state.Active() {
		delete(s.states, userID)
		return
	}
	s.states[userID] = state
}
