// database/seed.go - Default content seeding
package database

import (
	"log"
	"os"
	"pharmprep/models"

	"golang.org/x/crypto/bcrypt"
)

// SeedDefaults inserts baseline rows on an empty database: the PEBC
// competency blueprint, the built-in badge catalog, the reward store,
// and an admin account from ADMIN_EMAIL/ADMIN_PASSWORD. Idempotent.
func SeedDefaults() {
	seedCompetencies()
	seedBadges()
	seedRewardItems()
	seedAdminUser()
}

func seedCompetencies() {
	db := GetDB()

	var count int64
	db.Model(&models.Competency{}).Count(&count)
	if count > 0 {
		return
	}

	competencies := []models.Competency{
		{Title: "Ethical, Legal and Professional Responsibilities", Weight: 12, SortOrder: 1},
		{Title: "Patient Care", Weight: 38, SortOrder: 2},
		{Title: "Product Distribution", Weight: 10, SortOrder: 3},
		{Title: "Practice Setting", Weight: 8, SortOrder: 4},
		{Title: "Health Promotion", Weight: 12, SortOrder: 5},
		{Title: "Knowledge and Research Application", Weight: 20, SortOrder: 6},
	}

	if err := db.Create(&competencies).Error; err != nil {
		log.Printf("Failed to seed competencies: %v", err)
		return
	}
	log.Printf("Seeded %d competencies", len(competencies))
}

func seedBadges() {
	db := GetDB()

	var count int64
	db.Model(&models.Badge{}).Count(&count)
	if count > 0 {
		return
	}

	badges := []models.Badge{
		{Name: "First Steps", Description: "Answer your first question", RequirementType: models.RequirementTotalQuestions, RequirementValue: 1, PointsReward: 10, Icon: "👣"},
		{Name: "Century Club", Description: "Answer 100 questions", RequirementType: models.RequirementTotalQuestions, RequirementValue: 100, PointsReward: 50, Icon: "💯"},
		{Name: "Quiz Master", Description: "Score 100% on 5 quizzes", RequirementType: models.RequirementPerfectScores, RequirementValue: 5, PointsReward: 100, Icon: "🏆"},
		{Name: "Week Warrior", Description: "Keep a 7-day study streak", RequirementType: models.RequirementStreakDays, RequirementValue: 7, PointsReward: 70, Icon: "🔥"},
		{Name: "Topic Tamer", Description: "Master 3 topics", RequirementType: models.RequirementTopicsMastered, RequirementValue: 3, PointsReward: 60, Icon: "📚"},
		{Name: "Point Collector", Description: "Earn 5000 points", RequirementType: models.RequirementTotalPoints, RequirementValue: 5000, PointsReward: 200, Icon: "💎"},
	}

	if err := db.Create(&badges).Error; err != nil {
		log.Printf("Failed to seed badges: %v", err)
		return
	}
	log.Printf("Seeded %d badges", len(badges))
}

func seedRewardItems() {
	db := GetDB()

	var count int64
	db.Model(&models.RewardItem{}).Count(&count)
	if count > 0 {
		return
	}

	items := []models.RewardItem{
		{Name: "Gold Frame", Description: "Gold avatar frame", Type: "avatar_frame", Cost: 500, Icon: "🟡"},
		{Name: "Mortar & Pestle", Description: "Classic pharmacy avatar frame", Type: "avatar_frame", Cost: 750, Icon: "⚗️"},
		{Name: "Future PharmD", Description: "Profile title", Type: "title", Cost: 300, Icon: "🎓"},
		{Name: "Night Owl", Description: "Dark dashboard theme", Type: "theme", Cost: 400, Icon: "🦉"},
	}

	if err := db.Create(&items).Error; err != nil {
		log.Printf("Failed to seed reward items: %v", err)
		return
	}
	log.Printf("Seeded %d reward items", len(items))
}

func seedAdminUser() {
	db := GetDB()

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}

	admin := models.User{
		Email:    email,
		Password: string(hash),
		FullName: "Administrator",
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed admin user: %v", err)
		return
	}
	log.Printf("Seeded admin user %s", email)
}
