// services/analytics.go - User analytics aggregation
package services

import (
	"math"

	"pharmprep/database"
	"pharmprep/models"
)

// UserAnalytics is the derived statistics snapshot for one user. It
// merges the raw points record with fields reduced from attempt and
// message history.
type UserAnalytics struct {
	UserID      uint `json:"user_id"`
	TotalPoints int  `json:"total_points"`
	Level       int  `json:"level"`
	StreakDays  int  `json:"streak_days"`

	TotalAttempts          int `json:"total_attempts"`
	CompletedAttempts      int `json:"completed_attempts"`
	TotalQuestionsAnswered int `json:"total_questions_answered"`
	PerfectScores          int `json:"perfect_scores"`
	TopicsMastered         int `json:"topics_mastered"`
	AvgScore               int `json:"avg_score"`
	CognitiveScore         int `json:"cognitive_score"`
	SocialImpact           int `json:"social_impact"`
	MessagesCount          int `json:"messages_count"`
}

// EmptyAnalytics returns the snapshot a user with no recorded activity
// gets. Aggregation is best-effort, so handlers fall back to this when
// the store can't be read and the dashboard renders empty instead of
// erroring.
func EmptyAnalytics(userID uint) *UserAnalytics {
	return &UserAnalytics{UserID: userID}
}

// ComputeAnalytics reduces raw records into the snapshot. Pure: calling
// it twice over the same inputs yields identical output.
//
// The composite weights (0.5 per avg point, 5 per streak day, capped
// question volume / 10, 0.5 per message capped at 100) come straight
// from the product definition of cognitive score and social impact.
func ComputeAnalytics(attempts []models.QuizAttempt, points *models.UserPoints, messagesCount int) UserAnalytics {
	stats := UserAnalytics{MessagesCount: messagesCount}
	if points != nil {
		stats.UserID = points.UserID
		stats.TotalPoints = points.TotalPoints
		stats.Level = points.Level
		stats.StreakDays = points.StreakDays
	}

	stats.TotalAttempts = len(attempts)

	// Topic mastery: mean percentage across all attempts on a topic >= 80.
	type topicAgg struct {
		sum   int
		count int
	}
	topicScores := make(map[uint]*topicAgg)

	completedSum := 0
	for _, a := range attempts {
		stats.TotalQuestionsAnswered += a.TotalQuestions
		if a.Percentage == 100 {
			stats.PerfectScores++
		}
		if a.IsCompleted {
			stats.CompletedAttempts++
			completedSum += a.Percentage
		}
		if a.TopicID != nil {
			agg := topicScores[*a.TopicID]
			if agg == nil {
				agg = &topicAgg{}
				topicScores[*a.TopicID] = agg
			}
			agg.sum += a.Percentage
			agg.count++
		}
	}

	for _, agg := range topicScores {
		if float64(agg.sum)/float64(agg.count) >= 80 {
			stats.TopicsMastered++
		}
	}

	if stats.CompletedAttempts > 0 {
		stats.AvgScore = int(math.Round(float64(completedSum) / float64(stats.CompletedAttempts)))
	}

	cappedQuestions := stats.TotalQuestionsAnswered
	if cappedQuestions > 1000 {
		cappedQuestions = 1000
	}
	stats.CognitiveScore = int(math.Round(
		float64(stats.AvgScore)*0.5 + float64(stats.StreakDays)*5 + float64(cappedQuestions)/10))

	social := int(math.Round(float64(messagesCount) * 0.5))
	if social > 100 {
		social = 100
	}
	stats.SocialImpact = social

	return stats
}

// FetchUserAnalytics pulls the user's attempts, points row and message
// count, then reduces them. Every call re-fetches the full history.
func FetchUserAnalytics(userID uint) (*UserAnalytics, error) {
	db := database.GetDB()

	var attempts []models.QuizAttempt
	if err := db.Where("user_id = ?", userID).Find(&attempts).Error; err != nil {
		return nil, err
	}

	points, err := GetOrCreatePoints(db, userID)
	if err != nil {
		return nil, err
	}

	var messagesCount int64
	if err := db.Model(&models.Message{}).Where("user_id = ?", userID).
		Count(&messagesCount).Error; err != nil {
		return nil, err
	}

	stats := ComputeAnalytics(attempts, points, int(messagesCount))
	stats.UserID = userID
	return &stats, nil
}
