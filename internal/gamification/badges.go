package gamification

// Badge is a static catalog entry. Badge IDs are persisted by clients, keep them stable.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`

	unlocked func(s State) bool
}

func (b Badge) IsUnlockedBy(s State) bool {
	return b.unlocked != nil && b.unlocked(s)
}

var badgeCatalog = []Badge{
	{
		ID: "first_meal", Name: "First Bite", Icon: "🍎",
		Description: "Log your first meal",
		unlocked:    func(s State) bool { return s.TotalMealsLogged >= 1 },
	},
	{
		ID: "meal_tracker", Name: "Meal Tracker", Icon: "📝",
		Description: "Log 10 meals",
		unlocked:    func(s State) bool { return s.TotalMealsLogged >= 10 },
	},
	{
		ID: "nutrition_pro", Name: "Nutrition Pro", Icon: "🥗",
		Description: "Log 50 meals",
		unlocked:    func(s State) bool { return s.TotalMealsLogged >= 50 },
	},
	{
		ID: "first_workout", Name: "First Sweat", Icon: "💦",
		Description: "Complete your first workout",
		unlocked:    func(s State) bool { return s.TotalWorkoutsCompleted >= 1 },
	},
	{
		ID: "workout_warrior", Name: "Workout Warrior", Icon: "🏋️",
		Description: "Complete 10 workouts",
		unlocked:    func(s State) bool { return s.TotalWorkoutsCompleted >= 10 },
	},
	{
		ID: "fitness_fanatic", Name: "Fitness Fanatic", Icon: "🔥",
		Description: "Complete 50 workouts",
		unlocked:    func(s State) bool { return s.TotalWorkoutsCompleted >= 50 },
	},
	{
		ID: "on_a_roll", Name: "On a Roll", Icon: "⚡",
		Description: "Keep a 3 day streak",
		unlocked:    func(s State) bool { return s.Streak >= 3 },
	},
	{
		ID: "week_warrior", Name: "Week Warrior", Icon: "📅",
		Description: "Keep a 7 day streak",
		unlocked:    func(s State) bool { return s.Streak >= 7 },
	},
	{
		ID: "unstoppable", Name: "Unstoppable", Icon: "🏆",
		Description: "Keep a 30 day streak",
		unlocked:    func(s State) bool { return s.Streak >= 30 },
	},
	{
		ID: "century", Name: "Century", Icon: "💯",
		Description: "Earn 100 points",
		unlocked:    func(s State) bool { return s.Points >= 100 },
	},
	{
		ID: "high_scorer", Name: "High Scorer", Icon: "⭐",
		Description: "Earn 500 points",
		unlocked:    func(s State) bool { return s.Points >= 500 },
	},
	{
		ID: "regular", Name: "Regular", Icon: "🎯",
		Description: "Log in on 10 different days",
		unlocked:    func(s State) bool { return s.TotalLogins >= 10 },
	},
	{
		ID: "rising_star", Name: "Rising Star", Icon: "🌟",
		Description: "Reach level 5",
		unlocked:    func(s State) bool { return s.Level >= 5 },
	},
}

// Badges returns the catalog in its canonical order.
func Badges() []Badge {
	badges := make([]Badge, len(badgeCatalog))
	copy(badges, badgeCatalog)
	return badges
}

func BadgeByID(id string) (Badge, bool) {
	for _, b := range badgeCatalog {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
