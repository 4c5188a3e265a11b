package remote

import (
	"time"

	"github.com/2beens/nutrifit/internal/gamification"
)

// Row mirrors a gamification_state table row.
// Absent dates are nil and stored as NULL, in both directions.
type Row struct {
	UserID                 string     `json:"user_id"`
	Points                 int        `json:"points"`
	Level                  int        `json:"level"`
	Streak                 int        `json:"streak"`
	LastActivityDate       *time.Time `json:"last_activity_date"`
	LastLoginDate          *time.Time `json:"last_login_date"`
	UnlockedBadges         []string   `json:"unlocked_badges"`
	TotalMealsLogged       int        `json:"total_meals_logged"`
	TotalWorkoutsCompleted int        `json:"total_workouts_completed"`
	TotalLogins            int        `json:"total_logins"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

func ToRow(userID string, state gamification.State, updatedAt time.Time) Row {
	s := gamification.Normalize(state)
	return Row{
		UserID:                 userID,
		Points:                 s.Points,
		Level:                  s.Level,
		Streak:                 s.Streak,
		LastActivityDate:       s.LastActivityDate,
		LastLoginDate:          s.LastLoginDate,
		UnlockedBadges:         s.UnlockedBadges,
		TotalMealsLogged:       s.TotalMealsLogged,
		TotalWorkoutsCompleted: s.TotalWorkoutsCompleted,
		TotalLogins:            s.TotalLogins,
		UpdatedAt:              updatedAt,
	}
}

func (r Row) State() gamification.State {
	return gamification.Normalize(gamification.State{
		Points:                 r.Points,
		Level:                  r.Level,
		Streak:                 r.Streak,
		UnlockedBadges:         r.UnlockedBadges,
		TotalMealsLogged:       r.TotalMealsLogged,
		TotalWorkoutsCompleted: r.TotalWorkoutsCompleted,
		TotalLogins:            r.TotalLogins,
		LastActivityDate:       r.LastActivityDate,
		LastLoginDate:          r.LastLoginDate,
	})
}

// sameData reports whether two rows differ only in updated_at.
func (r Row) sameData(o Row) bool {
	if r.UserID != o.UserID ||
		r.Points != o.Points ||
		r.Level != o.Level ||
		r.Streak != o.Streak ||
		r.TotalMealsLogged != o.TotalMealsLogged ||
		r.TotalWorkoutsCompleted != o.TotalWorkoutsCompleted ||
		r.TotalLogins != o.TotalLogins ||
		!sameDate(r.LastActivityDate, o.LastActivityDate) ||
		!sameDate(r.LastLoginDate, o.LastLoginDate) ||
		len(r.UnlockedBadges) != len(o.UnlockedBadges) {
		return false
	}
	for i := range r.UnlockedBadges {
		if r.UnlockedBadges[i] != o.UnlockedBadges[i] {
			return false
		}
	}
	return true
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
