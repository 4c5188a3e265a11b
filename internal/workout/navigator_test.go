package workout_test

import (
	"testing"

	"github.com/2beens/nutrifit/internal/workout"

	"github.com/stretchr/testify/assert"
)

func TestNavigator_Bounds(t *testing.T) {
	nav := workout.NewNavigator(3)

	assert.False(t, nav.Previous())
	assert.Equal(t, 0, nav.Current())
	assert.False(t, nav.IsLast())

	assert.True(t, nav.Next())
	assert.True(t, nav.Next())
	assert.Equal(t, 2, nav.Current())
	assert.True(t, nav.IsLast())

	// no wraparound, the caller branches to Complete
	assert.False(t, nav.Next())
	assert.Equal(t, 2, nav.Current())
	assert.False(t, nav.Completed())

	assert.True(t, nav.Previous())
	assert.Equal(t, 1, nav.Current())
}

func TestNavigator_Complete(t *testing.T) {
	nav := workout.NewNavigator(2)
	nav.Next()

	assert.True(t, nav.Complete())
	assert.False(t, nav.Complete())
	assert.True(t, nav.Completed())

	assert.False(t, nav.Previous())
	assert.False(t, nav.Next())
	assert.Equal(t, 1, nav.Current())
}

func TestNavigator_SingleAndEmpty(t *testing.T) {
	single := workout.NewNavigator(1)
	assert.True(t, single.IsLast())
	assert.False(t, single.Next())
	assert.False(t, single.Previous())

	empty := workout.NewNavigator(-1)
	assert.Equal(t, 0, empty.Total())
	assert.True(t, empty.IsLast())
	assert.False(t, empty.Next())
}
