package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/2beens/nutrifit/internal/gamification"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

func testState() gamification.State {
	activity := time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC)
	s := gamification.DefaultState()
	s.Points = 130
	s.Level = 2
	s.Streak = 4
	s.TotalMealsLogged = 11
	s.TotalWorkoutsCompleted = 1
	s.LastActivityDate = &activity
	s.UnlockedBadges = []string{"first_meal", "meal_tracker", "first_workout", "century"}
	return s
}

func TestRedisStore_GetMissing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db)

	mock.ExpectGet("gamification::user-1").RedisNil()

	state, found, err := store.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, gamification.State{}, state)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_SaveAndGet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db)
	state := testState()

	stateJson, err := json.Marshal(state)
	require.NoError(t, err)

	mock.ExpectSet("gamification::user-1", stateJson, 0).SetVal("OK")
	mock.ExpectGet("gamification::user-1").SetVal(string(stateJson))

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "user-1", state))

	got, found, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, state, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Errors(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db)

	mock.ExpectGet("gamification::user-1").SetErr(errors.New("connection refused"))
	_, found, err := store.Get(context.Background(), "user-1")
	require.Error(t, err)
	assert.False(t, found)
	assert.Contains(t, err.Error(), "connection refused")

	mock.ExpectGet("gamification::user-2").SetVal("{not json")
	_, found, err = store.Get(context.Background(), "user-2")
	require.Error(t, err)
	assert.False(t, found)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheStore(t *testing.T) {
	store := NewCacheStore(1)
	ctx := context.Background()

	_, found, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, found)

	state := testState()
	require.NoError(t, store.Save(ctx, "user-1", state))

	got, found, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, state, got)

	// overwrite
	state.Points = 200
	state.Level = 3
	require.NoError(t, store.Save(ctx, "user-1", state))
	got, _, err = store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 200, got.Points)
}

func TestCacheStore_NormalizesOnRead(t *testing.T) {
	store := NewCacheStore(1)
	ctx := context.Background()

	state := gamification.State{Points: 340, Level: 1}
	require.NoError(t, store.Save(ctx, "user-1", state))

	got, found, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 4, got.Level)
	assert.NotNil(t, got.UnlockedBadges)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	state := testState()
	require.NoError(t, store.Save(ctx, "user-1", state))

	// stored copy is isolated from the caller
	state.UnlockedBadges[0] = "tampered"
	got, found, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "first_meal", got.UnlockedBadges[0])

	store.GetErr = errors.New("boom")
	_, _, err = store.Get(ctx, "user-1")
	assert.EqualError(t, err, "boom")
}
