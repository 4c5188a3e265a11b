//go:build integration_test || all_tests

package remote

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/2beens/nutrifit/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPsqlStoreSetup(t *testing.T) (*PsqlStore, func()) {
	t.Helper()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	t.Logf("using postres host: %s", host)

	dbPool, err := db.NewDBPool(timeoutCtx, db.NewDBPoolParams{
		DBHost:         host,
		DBPort:         "5432",
		DBName:         "nutrifit",
		DBUser:         "postgres",
		TracingEnabled: false,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(timeoutCtx, dbPool))

	_, err = dbPool.Exec(timeoutCtx, `DELETE FROM gamification_state`)
	require.NoError(t, err)

	return NewPsqlStore(dbPool), func() {
		dbPool.Close()
	}
}

func TestPsqlStore_FetchUpsert(t *testing.T) {
	store, shutdown := testPsqlStoreSetup(t)
	defer shutdown()

	ctx := context.Background()

	_, found, err := store.Fetch(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, found)

	state := testState()
	require.NoError(t, store.Upsert(ctx, "user-1", state))

	fetched, found, err := store.Fetch(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, state.Points, fetched.Points)
	assert.Equal(t, state.UnlockedBadges, fetched.UnlockedBadges)
	require.NotNil(t, fetched.LastActivityDate)
	assert.True(t, state.LastActivityDate.Equal(*fetched.LastActivityDate))
	assert.Nil(t, fetched.LastLoginDate)

	first, err := store.fetchRow(ctx, "user-1")
	require.NoError(t, err)

	// identical upsert later on leaves the row untouched
	store.now = func() time.Time { return time.Now().Add(time.Hour) }
	require.NoError(t, store.Upsert(ctx, "user-1", state))
	second, err := store.fetchRow(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, first.UpdatedAt.Equal(second.UpdatedAt))
	assert.True(t, first.sameData(*second))

	state.Points += 10
	require.NoError(t, store.Upsert(ctx, "user-1", state))
	third, err := store.fetchRow(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, state.Points, third.Points)
	assert.True(t, third.UpdatedAt.After(second.UpdatedAt))
}
