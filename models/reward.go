// models/reward.go - Virtual-currency reward store
package models

import "time"

// RewardItem is a purchasable cosmetic (avatar frame, title, theme).
type RewardItem struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:100"`
	Description string    `json:"description" gorm:"type:text"`
	Type        string    `json:"type" gorm:"not null;size:50"` // avatar_frame, title, theme
	Cost        int       `json:"cost" gorm:"not null"`
	Icon        string    `json:"icon" gorm:"size:50"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserReward is a purchase record; at most one reward per type is equipped.
type UserReward struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	UserID       uint        `json:"user_id" gorm:"not null;index:idx_user_reward,unique"`
	RewardItemID uint        `json:"reward_item_id" gorm:"not null;index:idx_user_reward,unique"`
	RewardItem   *RewardItem `json:"reward_item,omitempty" gorm:"foreignKey:RewardItemID"`
	IsEquipped   bool        `json:"is_equipped" gorm:"default:false"`
	PurchasedAt  time.Time   `json:"purchased_at"`
}

func (RewardItem) TableName() string {
	return "reward_items"
}

func (UserReward) TableName() string {
	return "user_rewards"
}
