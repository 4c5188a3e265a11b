//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/nutrifit/internal/gamification"
	"github.com/2beens/nutrifit/internal/rewards"
	"github.com/2beens/nutrifit/internal/workout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) remotePoints(ctx context.Context, userID string) int {
	var points int
	err := s.dbPool.QueryRow(ctx, "SELECT points FROM gamification_state WHERE user_id = $1", userID).Scan(&points)
	if err != nil {
		return -1
	}
	return points
}

func (s *IntegrationTestSuite) TestGamification_PublicCatalog() {
	t := s.T()
	ctx := context.Background()

	status, body := s.do(ctx, http.MethodGet, "/workouts", nil, false)
	require.Equal(t, http.StatusOK, status)
	var workouts []workout.Workout
	require.NoError(t, json.Unmarshal(body, &workouts))
	require.NotEmpty(t, workouts)

	status, body = s.do(ctx, http.MethodGet, "/workouts/"+workouts[0].ID, nil, false)
	require.Equal(t, http.StatusOK, status)
	var wo workout.Workout
	require.NoError(t, json.Unmarshal(body, &wo))
	assert.Equal(t, workouts[0].Name, wo.Name)

	status, _ = s.do(ctx, http.MethodGet, "/workouts/no-such-workout", nil, false)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = s.do(ctx, http.MethodGet, "/badges", nil, false)
	require.Equal(t, http.StatusOK, status)
	var badges []gamification.Badge
	require.NoError(t, json.Unmarshal(body, &badges))
	assert.Len(t, badges, len(gamification.Badges()))

	status, body = s.do(ctx, http.MethodGet, "/levels/3", nil, false)
	require.Equal(t, http.StatusOK, status)
	var levelInfo gamification.LevelInfo
	require.NoError(t, json.Unmarshal(body, &levelInfo))
	assert.Equal(t, gamification.GetLevelInfo(3), levelInfo)
}

func (s *IntegrationTestSuite) TestGamification_Flow() {
	t := s.T()
	ctx := context.Background()
	s.deleteAll(ctx)

	userID := fmt.Sprintf("flow-user-%d", time.Now().UnixNano())

	status, body := s.do(ctx, http.MethodPost, "/users/"+userID+"/login", nil, true)
	require.Equal(t, http.StatusOK, status, string(body))
	var outcome rewards.Outcome
	require.NoError(t, json.Unmarshal(body, &outcome))
	assert.Equal(t, gamification.DailyLoginPoints, outcome.Award.PointsAwarded)

	// second login on the same day is free
	status, body = s.do(ctx, http.MethodPost, "/users/"+userID+"/login", nil, true)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &outcome))
	assert.Equal(t, 0, outcome.Award.PointsAwarded)
	assert.Equal(t, 1, outcome.State.TotalLogins)

	status, _ = s.do(ctx, http.MethodPost, "/users/"+userID+"/workouts/no-such-workout/complete", nil, true)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = s.do(ctx, http.MethodPost, "/users/"+userID+"/workouts/quick-start/complete", nil, true)
	require.Equal(t, http.StatusCreated, status, string(body))
	require.NoError(t, json.Unmarshal(body, &outcome))
	wantPoints := gamification.DailyLoginPoints + gamification.WorkoutPoints
	assert.Equal(t, wantPoints, outcome.State.Points)
	assert.Equal(t, 1, outcome.State.Streak)
	require.Len(t, outcome.NewBadges, 1)
	assert.Equal(t, "first_workout", outcome.NewBadges[0].ID)

	require.Eventually(t, func() bool {
		return s.remotePoints(ctx, userID) == wantPoints
	}, 5*time.Second, 50*time.Millisecond)

	status, body = s.do(ctx, http.MethodGet, "/users/"+userID+"/gamification", nil, true)
	require.Equal(t, http.StatusOK, status)
	var progress rewards.ProgressResponse
	require.NoError(t, json.Unmarshal(body, &progress))
	assert.Equal(t, wantPoints, progress.State.Points)
	assert.Equal(t, 1, progress.State.Level)
	assert.Equal(t, 100-wantPoints, progress.PointsToNextLevel)
}

func (s *IntegrationTestSuite) TestGamification_SyncMergesRemote() {
	t := s.T()
	ctx := context.Background()
	s.deleteAll(ctx)

	userID := fmt.Sprintf("sync-user-%d", time.Now().UnixNano())

	status, body := s.do(ctx, http.MethodPost, "/users/"+userID+"/workouts/quick-start/complete", nil, true)
	require.Equal(t, http.StatusCreated, status, string(body))
	require.Eventually(t, func() bool {
		return s.remotePoints(ctx, userID) == gamification.WorkoutPoints
	}, 5*time.Second, 50*time.Millisecond)

	// another device got further ahead
	_, err := s.dbPool.Exec(ctx, `
		UPDATE gamification_state
		SET points = 250, level = 3, total_meals_logged = 12, unlocked_badges = '{first_meal,meal_tracker}'
		WHERE user_id = $1`, userID)
	require.NoError(t, err)

	status, body = s.do(ctx, http.MethodPost, "/users/"+userID+"/gamification/sync", nil, true)
	require.Equal(t, http.StatusOK, status, string(body))
	var progress rewards.ProgressResponse
	require.NoError(t, json.Unmarshal(body, &progress))
	assert.Equal(t, 250, progress.State.Points)
	assert.Equal(t, 3, progress.State.Level)
	assert.Equal(t, 12, progress.State.TotalMealsLogged)
	assert.Equal(t, 1, progress.State.TotalWorkoutsCompleted)
	assert.ElementsMatch(t, []string{"first_workout", "first_meal", "meal_tracker", "century"}, progress.State.UnlockedBadges)

	status, body = s.do(ctx, http.MethodGet, "/users/"+userID+"/gamification", nil, true)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &progress))
	assert.Equal(t, 250, progress.State.Points)
}
