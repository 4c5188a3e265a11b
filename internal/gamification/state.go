package gamification

import (
	"time"
)

const (
	MealPoints       = 10
	WorkoutPoints    = 20
	DailyLoginPoints = 5

	pointsPerLevel = 100
)

// State is the per-user gamification record.
// Level is always derived from Points, see LevelForPoints.
// A nil date means "never happened", there is no other absent sentinel.
type State struct {
	Points                 int        `json:"points"`
	Level                  int        `json:"level"`
	Streak                 int        `json:"streak"`
	UnlockedBadges         []string   `json:"unlocked_badges"`
	TotalMealsLogged       int        `json:"total_meals_logged"`
	TotalWorkoutsCompleted int        `json:"total_workouts_completed"`
	TotalLogins            int        `json:"total_logins"`
	LastActivityDate       *time.Time `json:"last_activity_date"`
	LastLoginDate          *time.Time `json:"last_login_date"`
}

// DefaultState returns a fresh record for a user with no history.
func DefaultState() State {
	return State{
		Points:         0,
		Level:          1,
		Streak:         0,
		UnlockedBadges: []string{},
	}
}

func (s State) HasBadge(id string) bool {
	for _, b := range s.UnlockedBadges {
		if b == id {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no memory with s.
func (s State) Clone() State {
	c := s
	c.UnlockedBadges = make([]string, len(s.UnlockedBadges))
	copy(c.UnlockedBadges, s.UnlockedBadges)
	c.LastActivityDate = cloneDate(s.LastActivityDate)
	c.LastLoginDate = cloneDate(s.LastLoginDate)
	return c
}

// Normalize clamps malformed values instead of rejecting them:
// negative counters become 0, the level is recomputed and duplicate badges are dropped.
func Normalize(s State) State {
	n := s.Clone()
	n.Points = nonNegative(n.Points)
	n.Streak = nonNegative(n.Streak)
	n.TotalMealsLogged = nonNegative(n.TotalMealsLogged)
	n.TotalWorkoutsCompleted = nonNegative(n.TotalWorkoutsCompleted)
	n.TotalLogins = nonNegative(n.TotalLogins)
	n.Level = LevelForPoints(n.Points)

	seen := make(map[string]bool, len(n.UnlockedBadges))
	badges := make([]string, 0, len(n.UnlockedBadges))
	for _, b := range n.UnlockedBadges {
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		badges = append(badges, b)
	}
	n.UnlockedBadges = badges

	if n.LastActivityDate != nil {
		d := DateOf(*n.LastActivityDate)
		n.LastActivityDate = &d
	}
	if n.LastLoginDate != nil {
		d := DateOf(*n.LastLoginDate)
		n.LastLoginDate = &d
	}

	return n
}

// DateOf returns the calendar day of t (in t's location) as UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func cloneDate(d *time.Time) *time.Time {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
