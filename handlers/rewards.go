// handlers/rewards.go - Point-shop reward items
package handlers

import (
	"errors"
	"time"

	"pharmprep/database"
	"pharmprep/middleware"
	"pharmprep/models"
	"pharmprep/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	errInsufficientPoints = errors.New("not enough points")
	errAlreadyOwned       = errors.New("reward already owned")
)

// GetRewardItems lists the active reward catalog
func GetRewardItems(c *fiber.Ctx) error {
	db := database.GetDB()

	var items []models.RewardItem
	if err := db.Where("is_active = ?", true).Order("cost ASC").Find(&items).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch rewards"})
	}

	return c.JSON(fiber.Map{"success": true, "rewards": items, "total": len(items)})
}

// GetMyRewards lists the rewards the user owns
func GetMyRewards(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var owned []models.UserReward
	if err := db.Preload("RewardItem").Where("user_id = ?", userID).
		Order("purchased_at DESC").Find(&owned).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch rewards"})
	}

	return c.JSON(fiber.Map{"success": true, "rewards": owned})
}

// PurchaseReward spends points on a reward item. The deduction and the
// ownership row commit together.
func PurchaseReward(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req struct {
		RewardItemID uint `json:"reward_item_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	db := database.GetDB()

	var item models.RewardItem
	if err := db.Where("id = ? AND is_active = ?", req.RewardItemID, true).
		First(&item).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Reward not found"})
	}

	var points *models.UserPoints
	err = db.Transaction(func(tx *gorm.DB) error {
		var existing models.UserReward
		if err := tx.Where("user_id = ? AND reward_item_id = ?", userID, item.ID).
			First(&existing).Error; err == nil {
			return errAlreadyOwned
		}

		var txErr error
		points, txErr = services.GetOrCreatePoints(tx, userID)
		if txErr != nil {
			return txErr
		}
		if points.TotalPoints < item.Cost {
			return errInsufficientPoints
		}

		points.TotalPoints -= item.Cost
		points.Level = services.CalculateLevel(points.TotalPoints).Level
		if err := tx.Save(points).Error; err != nil {
			return err
		}

		return tx.Create(&models.UserReward{
			UserID:       userID,
			RewardItemID: item.ID,
			PurchasedAt:  time.Now(),
		}).Error
	})
	switch {
	case errors.Is(err, errAlreadyOwned):
		return c.Status(409).JSON(fiber.Map{"error": "Reward already owned"})
	case errors.Is(err, errInsufficientPoints):
		return c.Status(402).JSON(fiber.Map{"error": "Not enough points"})
	case err != nil:
		return c.Status(500).JSON(fiber.Map{"error": "Failed to purchase reward"})
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"reward":           item,
		"remaining_points": points.TotalPoints,
	})
}

// EquipReward marks one owned reward of its type as equipped,
// unequipping any other of the same type.
func EquipReward(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req struct {
		RewardItemID uint `json:"reward_item_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	db := database.GetDB()

	var owned models.UserReward
	if err := db.Preload("RewardItem").
		Where("user_id = ? AND reward_item_id = ?", userID, req.RewardItemID).
		First(&owned).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Reward not owned"})
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if owned.RewardItem != nil {
			if err := tx.Model(&models.UserReward{}).
				Where("user_id = ? AND reward_item_id IN (?)", userID,
					tx.Model(&models.RewardItem{}).Select("id").Where("type = ?", owned.RewardItem.Type)).
				Update("is_equipped", false).Error; err != nil {
				return err
			}
		}
		return tx.Model(&owned).Update("is_equipped", true).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to equip reward"})
	}

	return c.JSON(fiber.Map{"success": true})
}
