// handlers/analytics.go
package handlers

import (
	"log"

	"pharmprep/middleware"
	"pharmprep/services"

	"github.com/gofiber/fiber/v2"
)

// GetMyAnalytics returns the authenticated user's derived statistics.
// A storage failure degrades to the empty snapshot rather than a 500.
func GetMyAnalytics(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	stats, err := services.FetchUserAnalytics(userID)
	if err != nil {
		log.Printf("Failed to fetch analytics for user %d: %v", userID, err)
		stats = services.EmptyAnalytics(userID)
	}

	return c.JSON(fiber.Map{"success": true, "analytics": stats})
}
