// handlers/leaderboard.go - Point rankings and recent activity feed
package handlers

import (
	"fmt"
	"sort"
	"time"

	"pharmprep/database"
	"pharmprep/middleware"
	"pharmprep/models"

	"github.com/gofiber/fiber/v2"
)

// Ranking order: higher totals first, ties broken by user id ascending
// so the board is stable across refreshes. rankingOrder and
// rankedAboveSQL are the SQL forms of rankedAbove and must agree with
// it; the agreement is pinned by tests.
const (
	rankingOrder   = "user_points.total_points DESC, user_points.user_id ASC"
	rankedAboveSQL = "user_points.total_points > ? OR (user_points.total_points = ? AND user_points.user_id < ?)"
)

// rankedAbove reports whether (aPoints, aID) sorts ahead of
// (bPoints, bID) on the board.
func rankedAbove(aPoints int, aID uint, bPoints int, bID uint) bool {
	if aPoints != bPoints {
		return aPoints > bPoints
	}
	return aID < bID
}

// assignRanks sorts entries into board order and numbers them from 1.
func assignRanks(entries []LeaderboardEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return rankedAbove(entries[i].TotalPoints, entries[i].UserID,
			entries[j].TotalPoints, entries[j].UserID)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      uint   `json:"user_id"`
	FullName    string `json:"full_name"`
	Avatar      string `json:"avatar"`
	TotalPoints int    `json:"total_points"`
	Level       int    `json:"level"`
	StreakDays  int    `json:"streak_days"`
	AvgScore    int    `json:"avg_score"`
}

// GetLeaderboard returns the top users by total points. Ties break on
// user id ascending so the ordering is stable across refreshes.
func GetLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 100 {
		limit = 50
	}

	db := database.GetDB()

	var entries []LeaderboardEntry
	err := db.Table("user_points").
		Select(`user_points.user_id, users.full_name, users.avatar,
			user_points.total_points, user_points.level, user_points.streak_days,
			COALESCE(ROUND(AVG(quiz_attempts.percentage) FILTER (WHERE quiz_attempts.is_completed)), 0) AS avg_score`).
		Joins("JOIN users ON users.id = user_points.user_id").
		Joins("LEFT JOIN quiz_attempts ON quiz_attempts.user_id = user_points.user_id").
		Where("users.is_banned = ?", false).
		Group("user_points.user_id, users.full_name, users.avatar, user_points.total_points, user_points.level, user_points.streak_days").
		Order(rankingOrder).
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch leaderboard"})
	}

	assignRanks(entries)

	return c.JSON(fiber.Map{"success": true, "leaderboard": entries, "total": len(entries)})
}

// GetUserRank returns the authenticated user's position. Rank counts
// users strictly ahead under the same ordering as the board.
func GetUserRank(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var points models.UserPoints
	if err := db.Where("user_id = ?", userID).First(&points).Error; err != nil {
		return c.JSON(fiber.Map{"success": true, "rank": 0, "total_points": 0})
	}

	var ahead int64
	err = db.Model(&models.UserPoints{}).
		Joins("JOIN users ON users.id = user_points.user_id").
		Where("users.is_banned = ?", false).
		Where(rankedAboveSQL, points.TotalPoints, points.TotalPoints, userID).
		Count(&ahead).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute rank"})
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"rank":         ahead + 1,
		"total_points": points.TotalPoints,
		"level":        points.Level,
	})
}

// GetRecentActivity returns the latest completed attempts across all
// users, for the community feed.
func GetRecentActivity(c *fiber.Ctx) error {
	db := database.GetDB()

	var attempts []models.QuizAttempt
	if err := db.Preload("User").Preload("Topic").
		Where("is_completed = ?", true).
		Order("created_at DESC").
		Limit(20).
		Find(&attempts).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch activity"})
	}

	now := time.Now()
	feed := make([]fiber.Map, len(attempts))
	for i, a := range attempts {
		entry := fiber.Map{
			"user_id":       a.UserID,
			"score":         a.Score,
			"total":         a.TotalQuestions,
			"percentage":    a.Percentage,
			"is_mock_exam":  a.IsMockExam,
			"points_earned": a.PointsEarned,
			"when":          relativeTime(now.Sub(a.CreatedAt)),
		}
		if a.User != nil {
			entry["full_name"] = a.User.FullName
			entry["avatar"] = a.User.Avatar
		}
		if a.Topic != nil {
			entry["topic"] = a.Topic.Title
		}
		feed[i] = entry
	}

	return c.JSON(fiber.Map{"success": true, "activity": feed})
}

func relativeTime(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
