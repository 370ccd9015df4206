// models/points.go - Per-user points, level and streak state
package models

import (
	"encoding/json"
	"time"
)

// UserPoints holds one row per user, mutated additively as attempts
// and daily challenges are recorded.
type UserPoints struct {
	ID     uint  `json:"id" gorm:"primaryKey"`
	UserID uint  `json:"user_id" gorm:"uniqueIndex;not null"`
	User   *User `json:"user,omitempty" gorm:"foreignKey:UserID"`

	TotalPoints int `json:"total_points" gorm:"default:0;index"`
	Level       int `json:"level" gorm:"default:1"`
	StreakDays  int `json:"streak_days" gorm:"default:0"`

	// DailyChallengesJSON is a JSON array of YYYY-MM-DD dates.
	DailyChallengesJSON string     `json:"-" gorm:"column:daily_challenges_completed;type:text"`
	LastActivityDate    *time.Time `json:"last_activity_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserPoints) TableName() string {
	return "user_points"
}

// DailyChallenges decodes the completed-challenge date list.
func (p *UserPoints) DailyChallenges() []string {
	var dates []string
	if p.DailyChallengesJSON == "" {
		return dates
	}
	if err := json.Unmarshal([]byte(p.DailyChallengesJSON), &dates); err != nil {
		return nil
	}
	return dates
}

// SetDailyChallenges encodes the completed-challenge date list.
func (p *UserPoints) SetDailyChallenges(dates []string) error {
	data, err := json.Marshal(dates)
	if err != nil {
		return err
	}
	p.DailyChallengesJSON = string(data)
	return nil
}

// HasCompletedChallenge reports whether the given date is already recorded.
func (p *UserPoints) HasCompletedChallenge(date string) bool {
	for _, d := range p.DailyChallenges() {
		if d == date {
			return true
		}
	}
	return false
}
