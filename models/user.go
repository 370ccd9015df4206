// models/user.go
package models

import (
	"time"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"

	SubscriptionFree    = "free"
	SubscriptionActive  = "active"
	SubscriptionExpired = "expired"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	FullName string `json:"full_name"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio"`

	Role               string `gorm:"default:'student';size:20;index" json:"role"`
	SubscriptionStatus string `gorm:"default:'free';size:20" json:"subscription_status"`
	IsBanned           bool   `gorm:"default:false" json:"is_banned"`

	// Timestamps
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLogin    time.Time  `json:"last_login"`
	LastActivity *time.Time `json:"last_activity,omitempty"`

	// Relationships
	Points   *UserPoints   `gorm:"foreignKey:UserID" json:"points,omitempty"`
	Badges   []UserBadge   `gorm:"foreignKey:UserID" json:"badges,omitempty"`
	Attempts []QuizAttempt `gorm:"foreignKey:UserID" json:"attempts,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasActiveSubscription reports whether subscription-gated content is available.
func (u *User) HasActiveSubscription() bool {
	return u.SubscriptionStatus == SubscriptionActive
}
