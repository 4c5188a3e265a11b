package gamification

import (
	"time"
)

// Merge reconciles a local and a remote record of the same user.
// Counters only grow and badges are never removed, so the merge takes the max of every
// counter and the union of badges. The streak belongs to whichever side was active last.
func Merge(local, remote State) State {
	l := Normalize(local)
	r := Normalize(remote)

	merged := State{
		Points:                 max(l.Points, r.Points),
		TotalMealsLogged:       max(l.TotalMealsLogged, r.TotalMealsLogged),
		TotalWorkoutsCompleted: max(l.TotalWorkoutsCompleted, r.TotalWorkoutsCompleted),
		TotalLogins:            max(l.TotalLogins, r.TotalLogins),
		LastActivityDate:       latestDate(l.LastActivityDate, r.LastActivityDate),
		LastLoginDate:          latestDate(l.LastLoginDate, r.LastLoginDate),
	}
	merged.Level = LevelForPoints(merged.Points)

	switch compareDates(l.LastActivityDate, r.LastActivityDate) {
	case 1:
		merged.Streak = l.Streak
	case -1:
		merged.Streak = r.Streak
	default:
		merged.Streak = max(l.Streak, r.Streak)
	}

	merged.UnlockedBadges = make([]string, 0, len(l.UnlockedBadges)+len(r.UnlockedBadges))
	merged.UnlockedBadges = append(merged.UnlockedBadges, l.UnlockedBadges...)
	for _, b := range r.UnlockedBadges {
		if !l.HasBadge(b) {
			merged.UnlockedBadges = append(merged.UnlockedBadges, b)
		}
	}

	return merged
}

// compareDates returns 1 if a is later than b, -1 if earlier, 0 if equal.
// A nil date is earlier than any date.
func compareDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case a.After(*b):
		return 1
	case a.Before(*b):
		return -1
	default:
		return 0
	}
}

func latestDate(a, b *time.Time) *time.Time {
	if compareDates(a, b) >= 0 {
		return cloneDate(a)
	}
	return cloneDate(b)
}
