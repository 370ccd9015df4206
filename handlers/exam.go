// handlers/exam.go - Timed mock exam endpoints
package handlers

import (
	"errors"
	"time"

	"pharmprep/database"
	"pharmprep/middleware"
	"pharmprep/models"
	"pharmprep/services"

	"github.com/gofiber/fiber/v2"
)

type StartExamRequest struct {
	Difficulties    []string `json:"difficulties"`
	QuestionCount   int      `json:"question_count"`
	DurationMinutes int      `json:"duration_minutes"`
}

// examStatus converts the given error to the matching HTTP status.
func examStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		return 404
	case errors.Is(err, services.ErrSessionExpired):
		return 410
	case errors.Is(err, services.ErrSessionSubmitted):
		return 409
	case errors.Is(err, services.ErrQuestionNotInSet),
		errors.Is(err, services.ErrInvalidOption),
		errors.Is(err, services.ErrEmptyQuestionPool):
		return 400
	default:
		return 500
	}
}

// StartExam opens a timed mock exam session. Mock exams are a
// subscriber feature.
func StartExam(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}
	if !user.HasActiveSubscription() && !user.IsAdmin() {
		return c.Status(403).JSON(fiber.Map{"error": "Mock exams require an active subscription"})
	}

	var req StartExamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	duration := time.Duration(req.DurationMinutes) * time.Minute
	session, err := services.GetExamService().StartSession(userID, req.Difficulties, req.QuestionCount, duration)
	if err != nil {
		return c.Status(examStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "session": session.View(time.Now())})
}

// GetExamState returns the current state of an open session
func GetExamState(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	session, err := services.GetExamService().GetSession(c.Params("id"), userID)
	if err != nil {
		return c.Status(examStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "session": session.View(time.Now())})
}

// AnswerExamQuestion records an answer inside an open session
func AnswerExamQuestion(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req struct {
		QuestionID     uint `json:"question_id"`
		SelectedAnswer int  `json:"selected_answer"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := services.GetExamService().Answer(c.Params("id"), userID, req.QuestionID, req.SelectedAnswer); err != nil {
		return c.Status(examStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}

// FlagExamQuestion toggles the review flag on a question
func FlagExamQuestion(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req struct {
		QuestionID uint `json:"question_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	flagged, err := services.GetExamService().ToggleFlag(c.Params("id"), userID, req.QuestionID)
	if err != nil {
		return c.Status(examStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "flagged": flagged})
}

// SubmitExam finalizes the session and returns the scored result
func SubmitExam(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := services.GetExamService().Submit(c.Params("id"), userID)
	if err != nil {
		return c.Status(examStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "result": result})
}
