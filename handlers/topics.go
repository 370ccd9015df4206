// handlers/topics.go - Content catalog browsing
package handlers

import (
	"pharmprep/database"
	"pharmprep/models"

	"github.com/gofiber/fiber/v2"
)

// GetCompetencies returns the PEBC blueprint with topic counts
func GetCompetencies(c *fiber.Ctx) error {
	db := database.GetDB()

	var competencies []models.Competency
	if err := db.Order("sort_order ASC").Find(&competencies).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch competencies"})
	}

	data := make([]fiber.Map, len(competencies))
	for i, comp := range competencies {
		var topicCount int64
		db.Model(&models.Topic{}).Where("competency_id = ?", comp.ID).Count(&topicCount)

		data[i] = fiber.Map{
			"id":          comp.ID,
			"title":       comp.Title,
			"weight":      comp.Weight,
			"order":       comp.SortOrder,
			"topic_count": topicCount,
		}
	}

	return c.JSON(fiber.Map{"success": true, "competencies": data, "total": len(data)})
}

// GetTopics returns topics, optionally filtered by competency
func GetTopics(c *fiber.Ctx) error {
	db := database.GetDB()

	query := db.Model(&models.Topic{}).Preload("Competency")
	if competencyID := c.QueryInt("competency_id", 0); competencyID > 0 {
		query = query.Where("competency_id = ?", competencyID)
	}

	var topics []models.Topic
	if err := query.Order("title ASC").Find(&topics).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch topics"})
	}

	return c.JSON(fiber.Map{"success": true, "topics": topics, "total": len(topics)})
}

// GetTopic returns one topic with its question count
func GetTopic(c *fiber.Ctx) error {
	db := database.GetDB()
	id := c.Params("id")

	var topic models.Topic
	if err := db.Preload("Competency").First(&topic, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Topic not found"})
	}

	var questionCount int64
	db.Model(&models.TopicQuestion{}).Where("topic_id = ?", topic.ID).Count(&questionCount)

	return c.JSON(fiber.Map{
		"success":        true,
		"topic":          topic,
		"question_count": questionCount,
	})
}

// GetCases returns clinical cases, optionally filtered by topic
func GetCases(c *fiber.Ctx) error {
	db := database.GetDB()

	query := db.Model(&models.Case{})
	if topicID := c.QueryInt("topic_id", 0); topicID > 0 {
		query = query.Where("topic_id = ?", topicID)
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}

	var cases []models.Case
	if err := query.Find(&cases).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch cases"})
	}

	return c.JSON(fiber.Map{"success": true, "cases": cases, "total": len(cases)})
}

// GetCase returns one case with its questions
func GetCase(c *fiber.Ctx) error {
	db := database.GetDB()
	id := c.Params("id")

	var clinicalCase models.Case
	if err := db.Preload("Topic").First(&clinicalCase, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Case not found"})
	}

	var questions []models.Question
	if err := db.Where("case_id = ?", clinicalCase.ID).Find(&questions).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch questions"})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"case":      clinicalCase,
		"questions": questionPayloads(questions),
	})
}
