package gamification

type LevelInfo struct {
	Level int    `json:"level"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

var levelInfos = []LevelInfo{
	{Level: 1, Title: "Beginner", Icon: "🌱"},
	{Level: 2, Title: "Novice", Icon: "🌿"},
	{Level: 3, Title: "Apprentice", Icon: "🍃"},
	{Level: 4, Title: "Enthusiast", Icon: "💪"},
	{Level: 5, Title: "Dedicated", Icon: "🔥"},
	{Level: 6, Title: "Committed", Icon: "⚡"},
	{Level: 7, Title: "Athlete", Icon: "🏃"},
	{Level: 8, Title: "Expert", Icon: "🏅"},
	{Level: 9, Title: "Master", Icon: "🥇"},
	{Level: 10, Title: "Legend", Icon: "👑"},
}

// LevelForPoints returns floor(points/100) + 1. Negative points count as 0.
func LevelForPoints(points int) int {
	return nonNegative(points)/pointsPerLevel + 1
}

// GetLevelInfo never fails: levels past the table get the highest known title,
// levels below 1 get the first one.
func GetLevelInfo(level int) LevelInfo {
	if level < 1 {
		return levelInfos[0]
	}
	if level > len(levelInfos) {
		info := levelInfos[len(levelInfos)-1]
		info.Level = level
		return info
	}
	return levelInfos[level-1]
}

// CalculateProgress returns the percentage [0, 100] of the way through the given level.
func CalculateProgress(points, level int) float64 {
	if level < 1 {
		level = 1
	}
	inLevel := float64(points - (level-1)*pointsPerLevel)
	progress := inLevel * 100 / pointsPerLevel
	switch {
	case progress < 0:
		return 0
	case progress > 100:
		return 100
	default:
		return progress
	}
}

// PointsToNextLevel returns how many points are missing to reach level+1.
func PointsToNextLevel(points int) int {
	points = nonNegative(points)
	return LevelForPoints(points)*pointsPerLevel - points
}
