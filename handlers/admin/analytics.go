package admin

import (
	"time"

	"pharmprep/database"
	"pharmprep/models"
	"pharmprep/services"

	"github.com/gofiber/fiber/v2"
)

// GetPlatformStats returns aggregate platform counters for the dashboard
func GetPlatformStats(c *fiber.Ctx) error {
	db := database.GetDB()

	var totalUsers, activeSubscriptions, bannedUsers int64
	db.Model(&models.User{}).Count(&totalUsers)
	db.Model(&models.User{}).Where("subscription_status = ?", models.SubscriptionActive).Count(&activeSubscriptions)
	db.Model(&models.User{}).Where("is_banned = ?", true).Count(&bannedUsers)

	var totalQuestions, totalTopics, totalCases int64
	db.Model(&models.Question{}).Count(&totalQuestions)
	db.Model(&models.Topic{}).Count(&totalTopics)
	db.Model(&models.Case{}).Count(&totalCases)

	var totalAttempts, mockExams int64
	db.Model(&models.QuizAttempt{}).Count(&totalAttempts)
	db.Model(&models.QuizAttempt{}).Where("is_mock_exam = ?", true).Count(&mockExams)

	weekAgo := time.Now().AddDate(0, 0, -7)
	var activeThisWeek int64
	db.Model(&models.User{}).Where("last_activity > ?", weekAgo).Count(&activeThisWeek)

	var attemptsThisWeek int64
	db.Model(&models.QuizAttempt{}).Where("created_at > ?", weekAgo).Count(&attemptsThisWeek)

	return c.JSON(fiber.Map{
		"users": fiber.Map{
			"total":                totalUsers,
			"active_subscriptions": activeSubscriptions,
			"banned":               bannedUsers,
			"active_this_week":     activeThisWeek,
		},
		"content": fiber.Map{
			"questions": totalQuestions,
			"topics":    totalTopics,
			"cases":     totalCases,
		},
		"activity": fiber.Map{
			"total_attempts":     totalAttempts,
			"mock_exams":         mockExams,
			"attempts_this_week": attemptsThisWeek,
		},
	})
}

// GetUserAnalytics returns the derived statistics for one user
func GetUserAnalytics(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid id"})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	stats, err := services.FetchUserAnalytics(uint(id))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch analytics"})
	}

	return c.JSON(fiber.Map{
		"user":      user,
		"analytics": stats,
	})
}
