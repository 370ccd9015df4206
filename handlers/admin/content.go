package admin

import (
	"log"

	"pharmprep/database"
	"pharmprep/models"
	"pharmprep/qbank"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ── Competencies ───────────────────────────────────────────

// GetCompetencies returns all competencies in blueprint order
func GetCompetencies(c *fiber.Ctx) error {
	repo := database.NewRepository[models.Competency](nil)
	competencies, err := repo.List(0, "sort_order ASC")
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch competencies"})
	}
	return c.JSON(competencies)
}

// CreateCompetency creates a new competency
func CreateCompetency(c *fiber.Ctx) error {
	var competency models.Competency
	if err := c.BodyParser(&competency); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if competency.Title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Title is required"})
	}

	repo := database.NewRepository[models.Competency](nil)
	if err := repo.Create(&competency); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create competency"})
	}
	return c.Status(201).JSON(competency)
}

// UpdateCompetency updates an existing competency
func UpdateCompetency(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid id"})
	}

	repo := database.NewRepository[models.Competency](nil)
	competency, err := repo.Get(uint(id))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Competency not found"})
	}

	if err := c.BodyParser(competency); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := repo.Update(competency); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update competency"})
	}
	return c.JSON(competency)
}

// DeleteCompetency deletes a competency
func DeleteCompetency(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid id"})
	}

	repo := database.NewRepository[models.Competency](nil)
	if err := repo.Delete(uint(id)); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete competency"})
	}
	return c.JSON(fiber.Map{"message": "Competency deleted successfully"})
}

// ── Topics ─────────────────────────────────────────────────

// GetTopics returns topics, optionally filtered by competency
func GetTopics(c *fiber.Ctx) error {
	repo := database.NewRepository[models.Topic](nil)

	var topics []models.Topic
	var err error
	if competencyID := c.QueryInt("competency_id", 0); competencyID > 0 {
		topics, err = repo.Filter(map[string]any{"competency_id": competencyID}, 0, "title ASC")
	} else {
		topics, err = repo.List(0, "title ASC")
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch topics"})
	}
	return c.JSON(topics)
}

// CreateTopic creates a new topic
func CreateTopic(c *fiber.Ctx) error {
	var topic models.Topic
	if err := c.BodyParser(&topic); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if topic.Title == "" || topic.CompetencyID == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Title and competency_id are required"})
	}

	repo := database.NewRepository[models.Topic](nil)
	if err := repo.Create(&topic); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create topic"})
	}
	return c.Status(201).JSON(topic)
}

// UpdateTopic updates an existing topic
func UpdateTopic(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid id"})
	}

	repo := database.NewRepository[models.Topic](nil)
	topic, err := repo.Get(uint(id))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Topic not found"})
	}

	if err := c.BodyParser(topic); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := repo.Update(topic); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update topic"})
	}
	return c.JSON(topic)
}

// DeleteTopic deletes a topic and its question links
func DeleteTopic(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid id"})
	}

	db := database.GetDB()
	if err := db.Where("topic_id = ?", id).Delete(&models.TopicQuestion{}).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete topic links"})
	}

	repo := database.NewRepository[models.Topic](nil)
	if err := repo.Delete(uint(id)); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete topic"})
	}
	return c.JSON(fiber.Map{"message": "Topic deleted successfully"})
}

// ── Cases ──────────────────────────────────────────────────

// GetCases returns all clinical cases
func GetCases(c *fiber.Ctx) error {
	repo := database.NewRepository[models.Case](nil)
	cases, err := repo.List(0, "created_at DESC")
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch cases"})
	}
	return c.JSON(cases)
}

// CreateCase creates a new clinical case
func CreateCase(c *fiber.Ctx) error {
	var clinicalCase models.Case
	if err := c.BodyParser(&clinicalCase); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if clinicalCase.Title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Title is required"})
	}

	repo := database.NewRepository[models.Case](nil)
	if err := repo.Create(&clinicalCase); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create case"})
	}
	return c.Status(201).JSON(clinicalCase)
}

// UpdateCase updates an existing case
func UpdateCase(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid id"})
	}

	repo := database.NewRepository[models.Case](nil)
	clinicalCase, err := repo.Get(uint(id))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Case not found"})
	}

	if err := c.BodyParser(clinicalCase); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := repo.Update(clinicalCase); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update case"})
	}
	return c.JSON(clinicalCase)
}

// DeleteCase deletes a case
func DeleteCase(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid id"})
	}

	repo := database.NewRepository[models.Case](nil)
	if err := repo.Delete(uint(id)); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete case"})
	}
	return c.JSON(fiber.Map{"message": "Case deleted successfully"})
}

// ── Questions ──────────────────────────────────────────────

type QuestionRequest struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
	Tags          []string `json:"tags"`
	CaseID        *uint    `json:"case_id"`
	TopicIDs      []uint   `json:"topic_ids"`
}

func (r *QuestionRequest) apply(q *models.Question) error {
	q.QuestionText = r.QuestionText
	q.CorrectAnswer = r.CorrectAnswer
	q.Explanation = r.Explanation
	q.CaseID = r.CaseID
	if r.Difficulty != "" {
		q.Difficulty = r.Difficulty
	}
	if err := q.SetOptions(r.Options); err != nil {
		return err
	}
	return q.SetTags(r.Tags)
}

// GetQuestions returns questions with pagination
func GetQuestions(c *fiber.Ctx) error {
	db := database.GetDB()

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 50)
	offset := (page - 1) * limit

	query := db.Model(&models.Question{})
	if difficulty := c.Query("difficulty"); difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	if topicID := c.QueryInt("topic_id", 0); topicID > 0 {
		query = query.Where("id IN (?)",
			db.Model(&models.TopicQuestion{}).Select("question_id").Where("topic_id = ?", topicID))
	}

	var total int64
	query.Count(&total)

	var questions []models.Question
	if err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&questions).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch questions"})
	}

	return c.JSON(fiber.Map{
		"questions": questions,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}

// CreateQuestion creates a question and links it to topics
func CreateQuestion(c *fiber.Ctx) error {
	var req QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validateQuestionRequest(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	var question models.Question
	if err := req.apply(&question); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to encode question"})
	}

	db := database.GetDB()
	if err := db.Create(&question).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create question"})
	}

	for _, topicID := range req.TopicIDs {
		db.Create(&models.TopicQuestion{TopicID: topicID, QuestionID: question.ID})
	}

	return c.Status(201).JSON(question)
}

// UpdateQuestion updates a question and rewrites its topic links
func UpdateQuestion(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid id"})
	}

	db := database.GetDB()

	var question models.Question
	if err := db.First(&question, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Question not found"})
	}

	var req QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validateQuestionRequest(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	if err := req.apply(&question); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to encode question"})
	}

	if err := db.Save(&question).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update question"})
	}

	if req.TopicIDs != nil {
		db.Where("question_id = ?", question.ID).Delete(&models.TopicQuestion{})
		for _, topicID := range req.TopicIDs {
			db.Create(&models.TopicQuestion{TopicID: topicID, QuestionID: question.ID})
		}
	}

	return c.JSON(question)
}

// DeleteQuestion deletes a question and its topic links
func DeleteQuestion(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid id"})
	}

	db := database.GetDB()
	if err := db.Where("question_id = ?", id).Delete(&models.TopicQuestion{}).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete topic links"})
	}

	repo := database.NewRepository[models.Question](nil)
	if err := repo.Delete(uint(id)); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete question"})
	}
	return c.JSON(fiber.Map{"message": "Question deleted successfully"})
}

// BulkImportQuestions validates and inserts a question-bank payload
func BulkImportQuestions(c *fiber.Ctx) error {
	var payload qbank.Bank
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result := qbank.Validate(&payload)
	if !result.Valid() {
		return c.Status(400).JSON(fiber.Map{
			"error":  "Question bank failed validation",
			"issues": result.Issues,
		})
	}

	questions, links, err := qbank.ToModels(&payload)
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

// topicLinkRows pairs imported questions with their topic ids; entries
// with no topic are skipped.
func topicLinkRows(questions []models.Question, links []uint) []models.TopicQuestion {
	var rows []models.TopicQuestion
	for i, topicID := range links {
		if topicID == 0 || i >= len(questions) {
			continue
		}
		rows = append(rows, models.TopicQuestion{TopicID: topicID, QuestionID: questions[i].ID})
	}
	return rows
}

// insertTopicLinks creates link rows one at a time so a single failure
// doesn't drop the remaining links.
func insertTopicLinks(db *gorm.DB, rows []models.TopicQuestion) (linked, failed int) {
	for _, row := range rows {
		if err := db.Create(&row).Error; err != nil {
			log.Printf("Failed to link question %d to topic %d: %v", row.QuestionID, row.TopicID, err)
			failed++
			continue
		}
		linked++
	}
	return linked, failed
}

func validateQuestionRequest(req *QuestionRequest) error {
	if req.QuestionText == "" {
		return fiber.NewError(400, "question_text is required")
	}
	if len(req.Options) != 4 {
		return fiber.NewError(400, "exactly 4 options are required")
	}
	if req.CorrectAnswer < 0 || req.CorrectAnswer >= len(req.Options) {
		return fiber.NewError(400, "correct_answer out of range")
	}
	return nil
}
