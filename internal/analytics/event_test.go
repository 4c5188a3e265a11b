package analytics_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/2beens/nutrifit/internal/analytics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testTimestamp = time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

func TestNewEvent_KindFromPayload(t *testing.T) {
	payloads := []analytics.Payload{
		analytics.PageView{Path: "/dashboard"},
		analytics.Workout{WorkoutID: "hiit-20", Action: analytics.WorkoutStarted},
		analytics.Meal{MealID: "m1", Calories: 420},
		analytics.Engagement{Action: "share"},
		analytics.Error{Message: "boom"},
		analytics.Conversion{Name: "premium"},
		analytics.BadgeUnlocked{BadgeID: "first_meal", Name: "First Bite"},
		analytics.LevelUp{PreviousLevel: 1, Level: 2, Title: "Novice"},
	}

	for _, p := range payloads {
		ev := analytics.NewEvent("u1", testTimestamp, p)
		assert.Equal(t, p.Kind(), ev.Kind)
		assert.True(t, ev.Kind.IsValid())
	}
}

func TestEvent_UnmarshalJSON(t *testing.T) {
	ev := analytics.NewEvent("u1", testTimestamp, analytics.Workout{
		WorkoutID:     "hiit-20",
		Action:        analytics.WorkoutExerciseCompleted,
		ExerciseIndex: 2,
		Seconds:       30,
	})

	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded analytics.Event
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, ev, decoded)

	workout, ok := decoded.Payload.(analytics.Workout)
	require.True(t, ok)
	assert.Equal(t, 2, workout.ExerciseIndex)
}

func TestEvent_UnmarshalJSON_MissingPayload(t *testing.T) {
	var ev analytics.Event
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"page_view","user_id":"u2"}`), &ev))
	assert.Equal(t, analytics.KindPageView, ev.Kind)
	assert.Equal(t, analytics.PageView{}, ev.Payload)
	assert.True(t, ev.Timestamp.IsZero())
}

func TestEvent_UnmarshalJSON_Errors(t *testing.T) {
	var ev analytics.Event

	err := json.Unmarshal([]byte(`{"kind":"dance","payload":{}}`), &ev)
	require.ErrorIs(t, err, analytics.ErrUnknownKind)
	assert.False(t, analytics.Kind("dance").IsValid())

	err = json.Unmarshal([]byte(`{"kind":"meal","payload":{"calories":"many"}}`), &ev)
	require.Error(t, err)
	assert.NotErrorIs(t, err, analytics.ErrUnknownKind)
	assert.Contains(t, err.Error(), "unmarshal meal payload")
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "analytics.level_up", analytics.RoutingKey(analytics.KindLevelUp))
	assert.Equal(t, "analytics.page_view", analytics.RoutingKey(analytics.KindPageView))
}
