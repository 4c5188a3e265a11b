package gamification

import (
	"time"
)

// AwardKind can be one of:
//   - meal
//   - workout
//   - login
type AwardKind string

const (
	AwardKindMeal    AwardKind = "meal"
	AwardKindWorkout AwardKind = "workout"
	AwardKindLogin   AwardKind = "login"
)

func (k AwardKind) String() string {
	return string(k)
}

// Award describes what a single rules engine call changed.
type Award struct {
	Kind           AwardKind `json:"kind"`
	PointsAwarded  int       `json:"points_awarded"`
	PreviousLevel  int       `json:"previous_level"`
	NewLevel       int       `json:"new_level"`
	LevelUp        bool      `json:"level_up"`
	PreviousStreak int       `json:"previous_streak"`
	NewStreak      int       `json:"new_streak"`
}

func AwardMealPoints(s State, now time.Time) (State, Award) {
	next := Normalize(s)
	next.TotalMealsLogged++
	return awardActivity(s, next, now, AwardKindMeal, MealPoints)
}

func AwardWorkoutPoints(s State, now time.Time) (State, Award) {
	next := Normalize(s)
	next.TotalWorkoutsCompleted++
	return awardActivity(s, next, now, AwardKindWorkout, WorkoutPoints)
}

// RecordLogin counts at most one login per calendar day; only that first login earns points.
func RecordLogin(s State, now time.Time) (State, Award) {
	prev := Normalize(s)
	next := prev.Clone()
	today := DateOf(now)

	award := Award{
		Kind:           AwardKindLogin,
		PreviousLevel:  prev.Level,
		NewLevel:       prev.Level,
		PreviousStreak: prev.Streak,
		NewStreak:      prev.Streak,
	}
	if next.LastLoginDate != nil && next.LastLoginDate.Equal(today) {
		return next, award
	}

	next.TotalLogins++
	next.LastLoginDate = &today
	next.Points += DailyLoginPoints
	next.Level = LevelForPoints(next.Points)

	award.PointsAwarded = DailyLoginPoints
	award.NewLevel = next.Level
	award.LevelUp = next.Level > prev.Level
	return next, award
}

func awardActivity(orig, next State, now time.Time, kind AwardKind, points int) (State, Award) {
	prevLevel := LevelForPoints(nonNegative(orig.Points))
	prevStreak := next.Streak

	today := DateOf(now)
	next.Streak = UpdateStreak(next.Streak, next.LastActivityDate, now)
	next.LastActivityDate = &today
	next.Points += points
	next.Level = LevelForPoints(next.Points)

	return next, Award{
		Kind:           kind,
		PointsAwarded:  points,
		PreviousLevel:  prevLevel,
		NewLevel:       next.Level,
		LevelUp:        next.Level > prevLevel,
		PreviousStreak: prevStreak,
		NewStreak:      next.Streak,
	}
}

// UpdateStreak applies the streak policy for an activity happening at now:
// last activity yesterday increments, today keeps the streak (at least 1),
// anything else (gap, first activity, date in the future) restarts at 1.
func UpdateStreak(streak int, lastActivity *time.Time, now time.Time) int {
	if lastActivity == nil {
		return 1
	}

	today := DateOf(now)
	last := DateOf(*lastActivity)
	switch {
	case last.Equal(today):
		if streak < 1 {
			return 1
		}
		return streak
	case last.Equal(today.AddDate(0, 0, -1)):
		return nonNegative(streak) + 1
	default:
		return 1
	}
}

// CheckBadgeUnlocks evaluates the whole catalog in order and unlocks every badge whose
// predicate holds and which is not unlocked yet. Calling it again without a state change
// returns no badges.
func CheckBadgeUnlocks(s State) (State, []Badge) {
	next := Normalize(s)
	var unlocked []Badge
	for _, b := range badgeCatalog {
		if next.HasBadge(b.ID) || !b.IsUnlockedBy(next) {
			continue
		}
		next.UnlockedBadges = append(next.UnlockedBadges, b.ID)
		unlocked = append(unlocked, b)
	}
	if unlocked == nil {
		unlocked = []Badge{}
	}
	return next, unlocked
}
