package analytics

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrUnknownKind = errors.New("unknown event kind")

// Kind can be one of:
//   - page_view
//   - workout
//   - meal
//   - engagement
//   - error
//   - conversion
//   - badge_unlocked
//   - level_up
type Kind string

const (
	KindPageView      Kind = "page_view"
	KindWorkout       Kind = "workout"
	KindMeal          Kind = "meal"
	KindEngagement    Kind = "engagement"
	KindError         Kind = "error"
	KindConversion    Kind = "conversion"
	KindBadgeUnlocked Kind = "badge_unlocked"
	KindLevelUp       Kind = "level_up"
)

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	_, err := newPayload(k)
	return err == nil
}

// Payload is implemented only by the payload types of this package,
// each one tied to exactly one Kind.
type Payload interface {
	Kind() Kind
}

type PageView struct {
	Path  string `json:"path"`
	Title string `json:"title,omitempty"`
}

// WorkoutAction can be one of: started, paused, resumed, exercise_completed, completed, abandoned
type WorkoutAction string

const (
	WorkoutStarted           WorkoutAction = "started"
	WorkoutPaused            WorkoutAction = "paused"
	WorkoutResumed           WorkoutAction = "resumed"
	WorkoutExerciseCompleted WorkoutAction = "exercise_completed"
	WorkoutCompleted         WorkoutAction = "completed"
	WorkoutAbandoned         WorkoutAction = "abandoned"
)

type Workout struct {
	WorkoutID     string        `json:"workout_id"`
	Action        WorkoutAction `json:"action"`
	ExerciseIndex int           `json:"exercise_index,omitempty"`
	Seconds       int           `json:"seconds,omitempty"`
}

type Meal struct {
	MealID   string `json:"meal_id"`
	MealType string `json:"meal_type,omitempty"`
	Calories int    `json:"calories"`
}

type Engagement struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Value  float64 `json:"value,omitempty"`
}

type Error struct {
	Message string `json:"message"`
	Where   string `json:"where,omitempty"`
	Fatal   bool   `json:"fatal,omitempty"`
}

type Conversion struct {
	Name  string  `json:"name"`
	Value float64 `json:"value,omitempty"`
}

type BadgeUnlocked struct {
	BadgeID string `json:"badge_id"`
	Name    string `json:"name"`
}

type LevelUp struct {
	PreviousLevel int    `json:"previous_level"`
	Level         int    `json:"level"`
	Title         string `json:"title"`
}

func (PageView) Kind() Kind      { return KindPageView }
func (Workout) Kind() Kind       { return KindWorkout }
func (Meal) Kind() Kind          { return KindMeal }
func (Engagement) Kind() Kind    { return KindEngagement }
func (Error) Kind() Kind         { return KindError }
func (Conversion) Kind() Kind    { return KindConversion }
func (BadgeUnlocked) Kind() Kind { return KindBadgeUnlocked }
func (LevelUp) Kind() Kind       { return KindLevelUp }

type Event struct {
	Kind      Kind      `json:"kind"`
	UserID    string    `json:"user_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   Payload   `json:"payload"`
}

// NewEvent takes the kind from the payload, so the two can never disagree.
func NewEvent(userID string, timestamp time.Time, payload Payload) Event {
	return Event{
		Kind:      payload.Kind(),
		UserID:    userID,
		Timestamp: timestamp,
		Payload:   payload,
	}
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind      Kind            `json:"kind"`
		UserID    string          `json:"user_id"`
		Timestamp time.Time       `json:"timestamp"`
		Payload   json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	payload, err := newPayload(raw.Kind)
	if err != nil {
		return err
	}
	if len(raw.Payload) > 0 && string(raw.Payload) != "null" {
		if err := json.Unmarshal(raw.Payload, payload); err != nil {
			return fmt.Errorf("unmarshal %s payload: %w", raw.Kind, err)
		}
	}

	e.Kind = raw.Kind
	e.UserID = raw.UserID
	e.Timestamp = raw.Timestamp
	e.Payload = deref(payload)
	return nil
}

func newPayload(kind Kind) (any, error) {
	switch kind {
	case KindPageView:
		return &PageView{}, nil
	case KindWorkout:
		return &Workout{}, nil
	case KindMeal:
		return &Meal{}, nil
	case KindEngagement:
		return &Engagement{}, nil
	case KindError:
		return &Error{}, nil
	case KindConversion:
		return &Conversion{}, nil
	case KindBadgeUnlocked:
		return &BadgeUnlocked{}, nil
	case KindLevelUp:
		return &LevelUp{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func deref(payload any) Payload {
	switch p := payload.(type) {
	case *PageView:
		return *p
	case *Workout:
		return *p
	case *Meal:
		return *p
	case *Engagement:
		return *p
	case *Error:
		return *p
	case *Conversion:
		return *p
	case *BadgeUnlocked:
		return *p
	case *LevelUp:
		return *p
	default:
		return nil
	}
}
