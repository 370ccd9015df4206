// handlers/messages.go - Community message board
package handlers

import (
	"strings"

	"pharmprep/database"
	"pharmprep/middleware"
	"pharmprep/models"

	"github.com/gofiber/fiber/v2"
)

const maxMessageLength = 500

// GetMessages returns the latest board messages, newest first
func GetMessages(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 100 {
		limit = 50
	}

	db := database.GetDB()

	var messages []models.Message
	if err := db.Preload("User").Order("created_at DESC").
		Limit(limit).Find(&messages).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch messages"})
	}

	data := make([]fiber.Map, len(messages))
	for i, m := range messages {
		entry := fiber.Map{
			"id":         m.ID,
			"user_id":    m.UserID,
			"content":    m.Content,
			"created_at": m.CreatedAt,
		}
		if m.User != nil {
			entry["full_name"] = m.User.FullName
			entry["avatar"] = m.User.Avatar
		}
		data[i] = entry
	}

	return c.JSON(fiber.Map{"success": true, "messages": data})
}

// PostMessage publishes a message to the board. Message volume feeds the
// social impact stat.
func PostMessage(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Message content required"})
	}
	if len(req.Content) > maxMessageLength {
		return c.Status(400).JSON(fiber.Map{"error": "Message too long"})
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}
	if user.IsBanned {
		return c.Status(403).JSON(fiber.Map{"error": "Account suspended"})
	}

	message := models.Message{
		UserID:  userID,
		Content: req.Content,
	}
	if err := db.Create(&message).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to post message"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "message": message})
}
