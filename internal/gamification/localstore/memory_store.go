package localstore

import (
	"context"
	"sync"

	"github.com/2beens/nutrifit/internal/gamification"
)

type MemoryStore struct {
	mu     sync.Mutex
	states map[string]gamification.State

	// GetErr and SaveErr, when set, are returned by the respective calls
	GetErr  error
	SaveErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[string]gamification.State),
	}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (gamification.State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.GetErr != nil {
		return gamification.State{}, false, s.GetErr
	}
	state, ok := s.states[userID]
	if !ok {
		return gamification.State{}, false, nil
	}
	return state.Clone(), true, nil
}

func (s *MemoryStore) Save(_ context.Context, userID string, state gamification.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.states[userID] = state.Clone()
	return nil
}
