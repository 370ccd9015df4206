// handlers/questions.go - Practice quiz question sampling
package handlers

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"pharmprep/database"
	"pharmprep/models"
	"pharmprep/services"

	"github.com/gofiber/fiber/v2"
)

// questionPayloads flattens questions for the client, decoding the JSON
// columns into arrays.
func questionPayloads(questions []models.Question) []fiber.Map {
	data := make([]fiber.Map, len(questions))
	for i, q := range questions {
		data[i] = fiber.Map{
			"id":             q.ID,
			"question_text":  q.QuestionText,
			"options":        q.Options(),
			"correct_answer": q.CorrectAnswer,
			"explanation":    q.Explanation,
			"difficulty":     q.Difficulty,
			"tags":           q.Tags(),
			"case_id":        q.CaseID,
		}
	}
	return data
}

// GetQuizQuestions samples questions for a practice quiz
// GET /api/questions/quiz?topic_id=3&difficulty=easy,medium&count=10
func GetQuizQuestions(c *fiber.Ctx) error {
	db := database.GetDB()

	count := c.QueryInt("count", 10)
	if count < 1 {
		count = 1
	}
	if count > 100 {
		count = 100
	}

	difficulties := splitCSV(c.Query("difficulty"))

	query := db.Model(&models.Question{})
	if topicID := c.QueryInt("topic_id", 0); topicID > 0 {
		query = query.Where("id IN (?)",
			db.Model(&models.TopicQuestion{}).Select("question_id").Where("topic_id = ?", topicID))
	}
	if len(difficulties) > 0 {
		query = query.Where("difficulty IN ?", difficulties)
	}

	var pool []models.Question
	if err := query.Find(&pool).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch questions"})
	}

	sampled := sampleQuizQuestions(pool, difficulties, count)

	return c.JSON(fiber.Map{
		"success":   true,
		"questions": questionPayloads(sampled),
		"count":     len(sampled),
	})
}

// GetQuestion returns a single question with its case context
func GetQuestion(c *fiber.Ctx) error {
	db := database.GetDB()
	id := c.Params("id")

	var question models.Question
	if err := db.Preload("Case").First(&question, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Question not found"})
	}

	payload := questionPayloads([]models.Question{question})[0]
	if question.Case != nil {
		payload["case"] = question.Case
	}

	return c.JSON(fiber.Map{"success": true, "question": payload})
}

var (
	quizRng   = rand.New(rand.NewSource(time.Now().UnixNano()))
	quizRngMu sync.Mutex
)

// sampleQuizQuestions samples under quizRngMu; rand.Rand is not safe
// for concurrent use and quiz requests share one source.
func sampleQuizQuestions(pool []models.Question, difficulties []string, count int) []models.Question {
	quizRngMu.Lock()
	defer quizRngMu.Unlock()
	return services.SampleQuestions(pool, difficulties, count, quizRng)
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
