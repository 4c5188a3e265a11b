//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/nutrifit/internal/meals"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestMeals() {
	t := s.T()
	ctx := context.Background()
	s.deleteAll(ctx)

	userID := fmt.Sprintf("meals-user-%d", time.Now().UnixNano())

	status, _ := s.do(ctx, http.MethodGet, "/users/"+userID+"/meals", nil, false)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := s.do(ctx, http.MethodGet, "/users/"+userID+"/meals", nil, true)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[]", string(body))

	var added []meals.AddMealResponse
	for i, m := range []map[string]any{
		{"name": "Porridge", "type": "breakfast", "calories": 350, "protein_g": 12.5},
		{"name": "Salad", "type": "lunch", "calories": 420, "carbs_g": 30},
	} {
		status, body = s.do(ctx, http.MethodPost, "/users/"+userID+"/meals", m, true)
		require.Equal(t, http.StatusCreated, status, string(body))

		var resp meals.AddMealResponse
		require.NoError(t, json.Unmarshal(body, &resp))
		require.NotNil(t, resp.Rewards)
		assert.Equal(t, (i+1)*10, resp.Rewards.State.Points)
		added = append(added, resp)
	}

	status, body = s.do(ctx, http.MethodGet, "/users/"+userID+"/meals", nil, true)
	require.Equal(t, http.StatusOK, status)
	var listed []meals.Meal
	require.NoError(t, json.Unmarshal(body, &listed))
	require.Len(t, listed, 2)

	status, body = s.do(ctx, http.MethodGet, "/users/"+userID+"/meals/daily?days=1", nil, true)
	require.Equal(t, http.StatusOK, status, string(body))
	var daily []meals.DailyTotals
	require.NoError(t, json.Unmarshal(body, &daily))
	require.Len(t, daily, 1)
	assert.Equal(t, 2, daily[0].Meals)
	assert.Equal(t, 770, daily[0].Calories)

	status, body = s.do(ctx, http.MethodDelete, "/users/"+userID+"/meals/"+added[0].Meal.ID.String(), nil, true)
	require.Equal(t, http.StatusOK, status, string(body))

	status, _ = s.do(ctx, http.MethodDelete, "/users/"+userID+"/meals/"+added[0].Meal.ID.String(), nil, true)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = s.do(ctx, http.MethodGet, "/users/"+userID+"/meals", nil, true)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Salad", listed[0].Name)

	var count int
	require.NoError(t, s.dbPool.QueryRow(ctx, "SELECT count(*) FROM meal WHERE user_id = $1", userID).Scan(&count))
	assert.Equal(t, 1, count)
}
