// handlers/studyplan.go - Personalized study plans
package handlers

import (
	"pharmprep/database"
	"pharmprep/middleware"
	"pharmprep/models"
	"pharmprep/services"

	"github.com/gofiber/fiber/v2"
)

// GenerateStudyPlan builds a study plan from the user's analytics and
// weakest topics. Subscriber feature.
func GenerateStudyPlan(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}
	if !user.HasActiveSubscription() && !user.IsAdmin() {
		return c.Status(403).JSON(fiber.Map{"error": "Study plans require an active subscription"})
	}

	stats, err := services.FetchUserAnalytics(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch analytics"})
	}

	weakTopics, err := weakestTopics(userID, 3)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch topic performance"})
	}

	plan, err := services.GetGenerator().GenerateStudyPlan(c.Context(), *stats, weakTopics)
	if err != nil {
		return c.Status(502).JSON(fiber.Map{"error": "Failed to generate study plan"})
	}

	return c.JSON(fiber.Map{"success": true, "plan": plan, "weak_topics": weakTopics})
}

// weakestTopics returns the titles of the topics with the lowest mean
// attempt percentage for the user.
func weakestTopics(userID uint, limit int) ([]string, error) {
	db := database.GetDB()

	var titles []string
	err := db.Table("quiz_attempts").
		Select("topics.title").
		Joins("JOIN topics ON topics.id = quiz_attempts.topic_id").
		Where("quiz_attempts.user_id = ? AND quiz_attempts.topic_id IS NOT NULL", userID).
		Group("topics.id, topics.title").
		Order("AVG(quiz_attempts.percentage) ASC").
		Limit(limit).
		Pluck("topics.title", &titles).Error
	return titles, err
}
