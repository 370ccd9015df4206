// models/badge.go
package models

import "time"

// Badge requirement types understood by the gamification service.
const (
	RequirementTotalQuestions = "total_questions"
	RequirementPerfectScores  = "perfect_scores"
	RequirementStreakDays     = "streak_days"
	RequirementTopicsMastered = "topics_mastered"
	RequirementTotalPoints    = "total_points"
	RequirementAvgScore       = "avg_score"
)

// Badge is an admin-defined badge unlocked when the stat named by
// RequirementType reaches RequirementValue.
type Badge struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	Name             string `gorm:"not null;uniqueIndex" json:"name"`
	Description      string `gorm:"not null" json:"description"`
	Icon             string `json:"icon"`
	RequirementType  string `gorm:"not null;index" json:"requirement_type"`
	RequirementValue int    `gorm:"not null" json:"requirement_value"`
	PointsReward     int    `gorm:"default:0" json:"points_reward"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserBadge struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index:idx_user_badge,unique" json:"user_id"`
	BadgeID    uint      `gorm:"not null;index:idx_user_badge,unique" json:"badge_id"`
	EarnedDate time.Time `json:"earned_date"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Badge Badge `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
}

func (Badge) TableName() string {
	return "badges"
}

func (UserBadge) TableName() string {
	return "user_badges"
}
