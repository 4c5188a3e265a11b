package remote

import (
	"context"
	"sync"
	"time"

	"github.com/2beens/nutrifit/internal/gamification"
)

// MemoryStore has the same upsert semantics as PsqlStore, without a database.
type MemoryStore struct {
	mu   sync.Mutex
	rows map[string]Row
	now  func() time.Time

	upserts int

	// FetchErr and UpsertErr, when set, are returned by the respective calls
	FetchErr  error
	UpsertErr error
}

func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		rows: make(map[string]Row),
		now:  now,
	}
}

func (s *MemoryStore) Fetch(_ context.Context, userID string) (gamification.State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FetchErr != nil {
		return gamification.State{}, false, s.FetchErr
	}
	row, ok := s.rows[userID]
	if !ok {
		return gamification.State{}, false, nil
	}
	return row.State(), true, nil
}

func (s *MemoryStore) Upsert(_ context.Context, userID string, state gamification.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.upserts++
	if s.UpsertErr != nil {
		return s.UpsertErr
	}

	row := ToRow(userID, state.Clone(), s.now().UTC())
	if existing, ok := s.rows[userID]; ok && existing.sameData(row) {
		return nil
	}
	s.rows[userID] = row
	return nil
}

// Row returns the stored row of a user, as it would be read from the table.
func (s *MemoryStore) Row(userID string) (Row, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[userID]
	return row, ok
}

// Upserts returns the number of Upsert calls, failed ones included.
func (s *MemoryStore) Upserts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upserts
}

// SetErrors changes the injected errors while the store is in use.
func (s *MemoryStore) SetErrors(fetchErr, upsertErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FetchErr = fetchErr
	s.UpsertErr = upsertErr
}
