// handlers/progression.go - Levels, badges and daily challenges
package handlers

import (
	"fmt"
	"time"

	"pharmprep/database"
	"pharmprep/middleware"
	"pharmprep/models"
	"pharmprep/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetProgression returns the user's level, points, streak and progress
// toward the next tier.
func GetProgression(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	points, err := services.GetOrCreatePoints(nil, userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch progression"})
	}

	current := services.CalculateLevel(points.TotalPoints)

	progress := 100
	var nextTier *services.LevelTier
	if next, ok := services.NextLevel(current.Level); ok {
		nextTier = &next
		if span := next.MinXP - current.MinXP; span > 0 {
			progress = (points.TotalPoints - current.MinXP) * 100 / span
		}
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"total_points": points.TotalPoints,
		"level":        current,
		"next_level":   nextTier,
		"progress_pct": progress,
		"streak_days":  points.StreakDays,
	})
}

// GetBadges returns built-in badges with earned status plus any unlocked
// admin-defined badges.
func GetBadges(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	stats, err := services.FetchUserAnalytics(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch analytics"})
	}

	earnedKeys := make(map[string]bool)
	for _, b := range services.CalculateBadges(*stats) {
		earnedKeys[b.Key] = true
	}

	defs := services.BuiltInBadges()
	builtIn := make([]fiber.Map, 0, len(defs))
	for _, b := range defs {
		builtIn = append(builtIn, fiber.Map{
			"key":         b.Key,
			"name":        b.Name,
			"description": b.Description,
			"icon":        b.Icon,
			"earned":      earnedKeys[b.Key],
		})
	}

	db := database.GetDB()
	var stored []models.UserBadge
	if err := db.Preload("Badge").Where("user_id = ?", userID).
		Order("earned_date DESC").Find(&stored).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch badges"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"built_in": builtIn,
		"unlocked": stored,
	})
}

var dailyChallengePoints = map[string]int{
	"daily_quiz":      25,
	"perfect_ten":     50,
	"case_study":      30,
	"review_mistakes": 20,
}

// CompleteDailyChallenge awards points for a named daily challenge, once
// per challenge per day.
func CompleteDailyChallenge(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req struct {
		Challenge string `json:"challenge"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	award, ok := dailyChallengePoints[req.Challenge]
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Unknown challenge"})
	}

	// Keys are date-scoped so each challenge can be claimed once a day.
	key := fmt.Sprintf("%s:%s", time.Now().Format("2006-01-02"), req.Challenge)

	var points *models.UserPoints
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		var txErr error
		points, txErr = services.GetOrCreatePoints(tx, userID)
		if txErr != nil {
			return txErr
		}
		if points.HasCompletedChallenge(key) {
			return errChallengeDone
		}

		if txErr = points.SetDailyChallenges(append(points.DailyChallenges(), key)); txErr != nil {
			return txErr
		}
		points.TotalPoints += award
		points.Level = services.CalculateLevel(points.TotalPoints).Level
		services.UpdateStreak(points, time.Now())

		return tx.Save(points).Error
	})
	if err == errChallengeDone {
		return c.Status(409).JSON(fiber.Map{"error": "Challenge already completed today"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to complete challenge"})
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"points_earned": award,
		"total_points":  points.TotalPoints,
		"level":         points.Level,
		"streak_days":   points.StreakDays,
	})
}

var errChallengeDone = fmt.Errorf("challenge already completed")
