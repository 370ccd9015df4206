package admin

import (
	"pharmprep/database"
	"pharmprep/models"

	"github.com/gofiber/fiber/v2"
)

// GetBadges returns all admin-defined badges
func GetBadges(c *fiber.Ctx) error {
	repo := database.NewRepository[models.Badge](nil)
	badges, err := repo.List(0, "requirement_type ASC, requirement_value ASC")
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch badges"})
	}
	return c.JSON(badges)
}

// CreateBadge creates a new badge
func CreateBadge(c *fiber.Ctx) error {
	var badge models.Badge
	if err := c.BodyParser(&badge); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if badge.Name == "" || badge.RequirementType == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Name and requirement_type are required"})
	}

	repo := database.NewRepository[models.Badge](nil)
	if err := repo.Create(&badge); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create badge"})
	}
	return c.Status(201).JSON(badge)
}

// UpdateBadge updates an existing badge
func UpdateBadge(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid id"})
	}

	repo := database.NewRepository[models.Badge](nil)
	badge, err := repo.Get(uint(id))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Badge not found"})
	}

	if err := c.BodyParser(badge); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := repo.Update(badge); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update badge"})
	}
	return c.JSON(badge)
}

// DeleteBadge deletes a badge and its user unlock rows
func DeleteBadge(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid id"})
	}

	db := database.GetDB()
	if err := db.Where("badge_id = ?", id).Delete(&models.UserBadge{}).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete badge unlocks"})
	}

	repo := database.NewRepository[models.Badge](nil)
	if err := repo.Delete(uint(id)); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete badge"})
	}
	return c.JSON(fiber.Map{"message": "Badge deleted successfully"})
}

// ── Reward items ───────────────────────────────────────────

// GetRewardItems returns the full reward catalog including inactive items
func GetRewardItems(c *fiber.Ctx) error {
	repo := database.NewRepository[models.RewardItem](nil)
	items, err := repo.List(0, "cost ASC")
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch reward items"})
	}
	return c.JSON(items)
}

// CreateRewardItem creates a new reward item
func CreateRewardItem(c *fiber.Ctx) error {
	var item models.RewardItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if item.Name == "" || item.Cost <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Name and a positive cost are required"})
	}

	repo := database.NewRepository[models.RewardItem](nil)
	if err := repo.Create(&item); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create reward item"})
	}
	return c.Status(201).JSON(item)
}

// UpdateRewardItem updates an existing reward item
func UpdateRewardItem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid id"})
	}

	repo := database.NewRepository[models.RewardItem](nil)
	item, err := repo.Get(uint(id))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Reward item not found"})
	}

	if err := c.BodyParser(item); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := repo.Update(item); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update reward item"})
	}
	return c.JSON(item)
}

// DeleteRewardItem deactivates a reward item. Purchases survive, so the
// item is never hard-deleted once owned.
func DeleteRewardItem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid id"})
	}

	db := database.GetDB()

	var owned int64
	db.Model(&models.UserReward{}).Where("reward_item_id = ?", id).Count(&owned)

	repo := database.NewRepository[models.RewardItem](nil)
	if owned > 0 {
		item, err := repo.Get(uint(id))
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Reward item not found"})
		}
		item.IsActive = false
		if err := repo.Update(item); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to deactivate reward item"})
		}
		return c.JSON(fiber.Map{"message": "Reward item deactivated (owned by users)"})
	}

	if err := repo.Delete(uint(id)); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete reward item"})
	}
	return c.JSON(fiber.Map{"message": "Reward item deleted successfully"})
}
