package localstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/nutrifit/internal/gamification"

	"github.com/coocood/freecache"
)

// CacheStore is an in-process store, used when redis is not reachable.
// Data does not survive a restart, the remote store is the source to recover from.
type CacheStore struct {
	cache *freecache.Cache
}

func NewCacheStore(sizeMegabytes int) *CacheStore {
	megabyte := 1024 * 1024
	return &CacheStore{
		cache: freecache.NewCache(sizeMegabytes * megabyte),
	}
}

func (s *CacheStore) Get(_ context.Context, userID string) (gamification.State, bool, error) {
	stateJson, err := s.cache.Get([]byte(stateKey(userID)))
	if errors.Is(err, freecache.ErrNotFound) {
		return gamification.State{}, false, nil
	}
	if err != nil {
		return gamification.State{}, false, fmt.Errorf("cache get: %w", err)
	}

	state, err := decode(stateJson)
	if err != nil {
		return gamification.State{}, false, err
	}
	return state, true, nil
}

func (s *CacheStore) Save(_ context.Context, userID string, state gamification.State) error {
	stateJson, err := encode(state)
	if err != nil {
		return err
	}
	if err := s.cache.Set([]byte(stateKey(userID)), stateJson, 0); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
