package localstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2beens/nutrifit/internal/gamification"
)

const keyPrefix = "gamification::"

var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*CacheStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

// Store keeps the serialized gamification state of a user.
// A missing record is reported with found == false, not with an error.
type Store interface {
	Get(ctx context.Context, userID string) (_ gamification.State, found bool, _ error)
	Save(ctx context.Context, userID string, state gamification.State) error
}

func stateKey(userID string) string {
	return keyPrefix + userID
}

func encode(state gamification.State) ([]byte, error) {
	stateJson, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return stateJson, nil
}

func decode(stateJson []byte) (gamification.State, error) {
	var state gamification.State
	if err := json.Unmarshal(stateJson, &state); err != nil {
		return gamification.State{}, fmt.Errorf("unmarshal state: %w", err)
	}
	return gamification.Normalize(state), nil
}
