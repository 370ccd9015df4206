// database/migrate.go - Database Migration Runner
package database

import (
	"log"
	"pharmprep/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Competency{},
		&models.Topic{},
		&models.Case{},
		&models.Question{},
		&models.TopicQuestion{},
		&models.QuizAttempt{},
		&models.UserPoints{},
		&models.Badge{},
		&models.UserBadge{},
		&models.RewardItem{},
		&models.UserReward{},
		&models.Message{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()

	log.Println("✅ All migrations completed successfully")
}

// createIndexes creates indexes the ORM tags don't cover
func createIndexes() {
	db := GetDB()

	// Leaderboard ordering: points descending, ties broken by user id ascending
	db.Exec("CREATE INDEX IF NOT EXISTS idx_user_points_rank ON user_points(total_points DESC, user_id ASC)")

	// Attempt history and analytics scans
	db.Exec("CREATE INDEX IF NOT EXISTS idx_quiz_attempts_user_created ON quiz_attempts(user_id, created_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_quiz_attempts_completed ON quiz_attempts(is_completed, created_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_quiz_attempts_user_topic ON quiz_attempts(user_id, topic_id)")

	// Question sampling by difficulty
	db.Exec("CREATE INDEX IF NOT EXISTS idx_questions_difficulty ON questions(difficulty)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_topic_questions_topic ON topic_questions(topic_id)")

	// Message counts per user
	db.Exec("CREATE INDEX IF NOT EXISTS idx_messages_user ON messages(user_id)")
}
