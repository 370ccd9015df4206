// handlers/quiz.go - Practice quiz attempt recording
package handlers

import (
	"strings"

	"pharmprep/database"
	"pharmprep/middleware"
	"pharmprep/models"
	"pharmprep/services"

	"github.com/gofiber/fiber/v2"
)

type SubmittedAnswer struct {
	QuestionID     uint `json:"question_id"`
	SelectedAnswer int  `json:"selected_answer"`
}

type RecordQuizRequest struct {
	TopicID          *uint             `json:"topic_id"`
	Difficulty       string            `json:"difficulty"`
	Answers          []SubmittedAnswer `json:"answers"`
	TimeSpentSeconds int               `json:"time_spent_seconds"`
}

// RecordQuizAttempt scores a finished practice quiz server-side and
// persists the attempt with its point award in one transaction.
func RecordQuizAttempt(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req RecordQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if len(req.Answers) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "No answers submitted"})
	}

	db := database.GetDB()

	questionIDs, selections := collectSubmission(req.Answers)

	var questions []models.Question
	if err := db.Where("id IN ?", questionIDs).Find(&questions).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load questions"})
	}
	if len(questions) != len(questionIDs) {
		return c.Status(400).JSON(fiber.Map{"error": "Unknown question in submission"})
	}

	answers, score := services.ScoreExam(questions, selections)
	total := len(questions)

	attempt := models.QuizAttempt{
		UserID:           userID,
		TopicID:          req.TopicID,
		Score:            score,
		TotalQuestions:   total,
		Percentage:       services.Percentage(score, total),
		TimeSpentSeconds: req.TimeSpentSeconds,
		Difficulty:       strings.ToLower(strings.TrimSpace(req.Difficulty)),
		IsCompleted:      true,
	}
	if err := attempt.SetAnswers(answers); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to encode answers"})
	}

	result, err := services.RecordCompletedAttempt(db, &attempt)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to record attempt"})
	}

	return c.JSON(fiber.Map{"success": true, "result": result})
}

// collectSubmission flattens submitted answers into unique question ids
// plus the selection per question. Repeats of a question keep the last
// selection and count once, so the unknown-question check in
// RecordQuizAttempt only fires for ids that really don't exist.
func collectSubmission(answers []SubmittedAnswer) ([]uint, map[uint]int) {
	questionIDs := make([]uint, 0, len(answers))
	selections := make(map[uint]int, len(answers))
	seen := make(map[uint]bool, len(answers))
	for _, a := range answers {
		if !seen[a.QuestionID] {
			seen[a.QuestionID] = true
			questionIDs = append(questionIDs, a.QuestionID)
		}
		if a.SelectedAnswer >= 0 {
			selections[a.QuestionID] = a.SelectedAnswer
		}
	}
	return questionIDs, selections
}

// GetQuizHistory returns the user's attempts, newest first
// GET /api/quiz/history?limit=20&offset=0
func GetQuizHistory(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	db := database.GetDB()

	var attempts []models.QuizAttempt
	if err := db.Preload("Topic").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&attempts).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch history"})
	}

	var total int64
	db.Model(&models.QuizAttempt{}).Where("user_id = ?", userID).Count(&total)

	return c.JSON(fiber.Map{
		"success":  true,
		"attempts": attempts,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetQuizAttempt returns one attempt with decoded answers
func GetQuizAttempt(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var attempt models.QuizAttempt
	if err := db.Where("id = ? AND user_id = ?", c.Params("id"), userID).
		First(&attempt).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Attempt not found"})
	}

	answers, err := attempt.Answers()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to decode answers"})
	}

	return c.JSON(fiber.Map{"success": true, "attempt": attempt, "answers": answers})
}
