// services/gamification.go - Levels, badges and point awards
package services

import (
	"time"

	"pharmprep/database"
	"pharmprep/models"

	"gorm.io/gorm"
)

// LevelTier is one row of the fixed level table.
type LevelTier struct {
	Level int    `json:"level"`
	MinXP int    `json:"min_xp"`
	Title string `json:"title"`
}

// levelTable is ascending by MinXP. CalculateLevel depends on that order.
var levelTable = []LevelTier{
	{Level: 1, MinXP: 0, Title: "Novice"},
	{Level: 2, MinXP: 500, Title: "Apprentice"},
	{Level: 3, MinXP: 1500, Title: "Scholar"},
	{Level: 4, MinXP: 3500, Title: "Expert"},
	{Level: 5, MinXP: 6000, Title: "Master"},
	{Level: 6, MinXP: 10000, Title: "Genius"},
}

// CalculateLevel maps a cumulative point total to the highest tier whose
// MinXP does not exceed it. Total for all points >= 0.
func CalculateLevel(points int) LevelTier {
	tier := levelTable[0]
	for _, t := range levelTable {
		if points >= t.MinXP {
			tier = t
		}
	}
	return tier
}

// NextLevel returns the tier above the given level. ok is false at the
// top tier; callers render progress as 100% in that case.
func NextLevel(currentLevel int) (LevelTier, bool) {
	for _, t := range levelTable {
		if t.Level == currentLevel+1 {
			return t, true
		}
	}
	return LevelTier{}, false
}

// MaxLevel returns the highest defined level.
func MaxLevel() int {
	return levelTable[len(levelTable)-1].Level
}

// BadgeDefinition is a built-in badge with an eligibility predicate over
// an analytics snapshot. These are recomputed from scratch on every call;
// admin-defined badges live in the badges table and are evaluated by
// requirement type instead.
type BadgeDefinition struct {
	Key         string                   `json:"key"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Icon        string                   `json:"icon"`
	Qualifies   func(UserAnalytics) bool `json:"-"`
}

var badgeDefinitions = []BadgeDefinition{
	{
		Key: "first_steps", Name: "First Steps", Icon: "👣",
		Description: "Answer your first question",
		Qualifies:   func(s UserAnalytics) bool { return s.TotalQuestionsAnswered >= 1 },
	},
	{
		Key: "century_club", Name: "Century Club", Icon: "💯",
		Description: "Answer 100 questions",
		Qualifies:   func(s UserAnalytics) bool { return s.TotalQuestionsAnswered >= 100 },
	},
	{
		Key: "quiz_master", Name: "Quiz Master", Icon: "🏆",
		Description: "Score 100% on 5 quizzes",
		Qualifies:   func(s UserAnalytics) bool { return s.PerfectScores >= 5 },
	},
	{
		Key: "week_warrior", Name: "Week Warrior", Icon: "🔥",
		Description: "Keep a 7-day study streak",
		Qualifies:   func(s UserAnalytics) bool { return s.StreakDays >= 7 },
	},
	{
		Key: "topic_tamer", Name: "Topic Tamer", Icon: "📚",
		Description: "Master 3 topics",
		Qualifies:   func(s UserAnalytics) bool { return s.TopicsMastered >= 3 },
	},
	{
		Key: "sharp_mind", Name: "Sharp Mind", Icon: "🧠",
		Description: "Reach a cognitive score of 80",
		Qualifies:   func(s UserAnalytics) bool { return s.CognitiveScore >= 80 },
	},
	{
		Key: "community_voice", Name: "Community Voice", Icon: "💬",
		Description: "Reach a social impact of 50",
		Qualifies:   func(s UserAnalytics) bool { return s.SocialImpact >= 50 },
	},
}

// BuiltInBadges returns the full built-in badge catalog.
func BuiltInBadges() []BadgeDefinition {
	return badgeDefinitions
}

// CalculateBadges returns the built-in badges whose predicates hold for
// the given snapshot.
func CalculateBadges(stats UserAnalytics) []BadgeDefinition {
	earned := []BadgeDefinition{}
	for _, b := range badgeDefinitions {
		if b.Qualifies(stats) {
			earned = append(earned, b)
		}
	}
	return earned
}

// statValue extracts the stat an admin badge requirement refers to.
func statValue(requirementType string, stats UserAnalytics) int {
	switch requirementType {
	case models.RequirementTotalQuestions:
		return stats.TotalQuestionsAnswered
	case models.RequirementPerfectScores:
		return stats.PerfectScores
	case models.RequirementStreakDays:
		return stats.StreakDays
	case models.RequirementTopicsMastered:
		return stats.TopicsMastered
	case models.RequirementTotalPoints:
		return stats.TotalPoints
	case models.RequirementAvgScore:
		return stats.AvgScore
	default:
		return 0
	}
}

// EvaluateStoredBadges unlocks any admin-defined badges the user now
// qualifies for and persists UserBadge rows inside tx. Newly unlocked
// badge point rewards are added to points.
func EvaluateStoredBadges(tx *gorm.DB, userID uint, stats UserAnalytics, points *models.UserPoints) ([]models.Badge, error) {
	var all []models.Badge
	if err := tx.Find(&all).Error; err != nil {
		return nil, err
	}

	var unlockedIDs []uint
	if err := tx.Model(&models.UserBadge{}).Where("user_id = ?", userID).
		Pluck("badge_id", &unlockedIDs).Error; err != nil {
		return nil, err
	}
	unlocked := make(map[uint]bool, len(unlockedIDs))
	for _, id := range unlockedIDs {
		unlocked[id] = true
	}

	var newBadges []models.Badge
	for _, badge := range all {
		if unlocked[badge.ID] {
			continue
		}
		if statValue(badge.RequirementType, stats) < badge.RequirementValue {
			continue
		}

		ub := models.UserBadge{
			UserID:     userID,
			BadgeID:    badge.ID,
			EarnedDate: time.Now(),
		}
		if err := tx.Create(&ub).Error; err != nil {
			return nil, err
		}
		if points != nil {
			points.TotalPoints += badge.PointsReward
		}
		newBadges = append(newBadges, badge)
	}
	return newBadges, nil
}

// GetOrCreatePoints fetches the user's points row, creating it when
// missing. The unique index on user_id makes concurrent get-or-create
// converge on a single row.
func GetOrCreatePoints(tx *gorm.DB, userID uint) (*models.UserPoints, error) {
	if tx == nil {
		tx = database.GetDB()
	}
	var points models.UserPoints
	err := tx.Where(models.UserPoints{UserID: userID}).
		Attrs(models.UserPoints{Level: 1}).
		FirstOrCreate(&points).Error
	if err != nil {
		return nil, err
	}
	return &points, nil
}

// AwardPoints adds points to the user's total and refreshes the derived
// level, inside the given transaction. Points are keyed by user id.
func AwardPoints(tx *gorm.DB, userID uint, amount int) (*models.UserPoints, error) {
	points, err := GetOrCreatePoints(tx, userID)
	if err != nil {
		return nil, err
	}

	points.TotalPoints += amount
	points.Level = CalculateLevel(points.TotalPoints).Level

	if err := tx.Save(points).Error; err != nil {
		return nil, err
	}
	return points, nil
}

// UpdateStreak advances the daily streak given the current activity time:
// same day keeps it, the next day extends it, any gap resets to 1.
func UpdateStreak(points *models.UserPoints, now time.Time) {
	today := now.Truncate(24 * time.Hour)
	if points.LastActivityDate == nil {
		points.StreakDays = 1
	} else {
		last := points.LastActivityDate.Truncate(24 * time.Hour)
		switch int(today.Sub(last).Hours() / 24) {
		case 0:
			// already counted today
		case 1:
			points.StreakDays++
		default:
			points.StreakDays = 1
		}
	}
	points.LastActivityDate = &today
}
