package admin

import (
	"errors"

	"pharmprep/database"
	"pharmprep/models"
	"pharmprep/qbank"
	"pharmprep/services"

	"github.com/gofiber/fiber/v2"
)

type GenerateQuestionsRequest struct {
	TopicID    uint   `json:"topic_id"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
}

// GenerateQuestions produces a draft question batch for review. Nothing
// is persisted; the admin imports the reviewed batch separately.
func GenerateQuestions(c *fiber.Ctx) error {
	var req GenerateQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Count < 1 || req.Count > 20 {
		req.Count = 5
	}
	if req.Difficulty == "" {
		req.Difficulty = "medium"
	}

	db := database.GetDB()
	var topic models.Topic
	if err := db.First(&topic, req.TopicID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Topic not found"})
	}

	batch, usage, err := services.GetGenerator().GenerateQuestionBatch(
		c.Context(), topic.Title, req.Difficulty, req.Count)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			return c.Status(422).JSON(fiber.Map{
				"error":  "Generated batch failed validation",
				"issues": vErr.Errors,
			})
		}
		return c.Status(502).JSON(fiber.Map{"error": "Generation failed"})
	}

	resp := fiber.Map{
		"topic_id":   topic.ID,
		"topic":      topic.Title,
		"difficulty": req.Difficulty,
		"questions":  batch.Questions,
	}
	if usage != nil {
		resp["usage"] = fiber.Map{
			"prompt_tokens": usage.PromptTokens,
			"output_tokens": usage.OutputTokens,
		}
	}
	return c.JSON(resp)
}

type ImportGeneratedRequest struct {
	TopicID   uint                         `json:"topic_id"`
	Questions []services.GeneratedQuestion `json:"questions"`
}

// ImportGenerated persists a reviewed generated batch through the same
// validation path as file imports.
func ImportGenerated(c *fiber.Ctx) error {
	var req ImportGeneratedRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	inputs := make([]qbank.GeneratedInput, len(req.Questions))
	for i, q := range req.Questions {
		inputs[i] = qbank.GeneratedInput{
			QuestionText:  q.QuestionText,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Difficulty:    q.Difficulty,
			Tags:          q.Tags,
		}
	}
	bank := qbank.FromGenerated(inputs, req.TopicID)

	result := qbank.Validate(bank)
	if !result.Valid() {
		return c.Status(400).JSON(fiber.Map{
			"error":  "Batch failed validation",
			"issues": result.Issues,
		})
	}

	questions, links, err := qbank.ToModels(bank)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to convert questions"})
	}

	repo := database.NewRepository[models.Question](nil)
	if err := repo.BulkCreate(questions, 200); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to import questions"})
	}

	linked, failed := insertTopicLinks(database.GetDB(), topicLinkRows(questions, links))

	return c.Status(201).JSON(fiber.Map{
		"imported":      len(questions),
		"linked":        linked,
		"link_failures": failed,
	})
}

// RegenerateExplanation rewrites the explanation on one question
func RegenerateExplanation(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid id"})
	}

	db := database.GetDB()
	var question models.Question
	if err := db.First(&question, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Question not found"})
	}

	explanation, err := services.GetGenerator().GenerateExplanation(
		c.Context(), question.QuestionText, question.Options(), question.CorrectAnswer)
	if err != nil {
		return c.Status(502).JSON(fiber.Map{"error": "Generation failed"})
	}

	question.Explanation = explanation
	if err := db.Save(&question).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to save explanation"})
	}

	return c.JSON(question)
}

// AnalyzeUserPerformance produces a narrative analysis of one student
func AnalyzeUserPerformance(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid id"})
	}

	stats, err := services.FetchUserAnalytics(uint(id))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch analytics"})
	}

	analysis, err := services.GetGenerator().AnalyzePerformance(c.Context(), *stats)
	if err != nil {
		return c.Status(502).JSON(fiber.Map{"error": "Generation failed"})
	}

	return c.JSON(fiber.Map{
		"user_id":   id,
		"analytics": stats,
		"analysis":  analysis,
	})
}
