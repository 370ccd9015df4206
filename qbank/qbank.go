// Package qbank parses and validates question-bank JSON files, the
// interchange format used by the bulk import endpoint and the cmd tools.
package qbank

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"pharmprep/models"
)

// Bank is one question-bank document.
type Bank struct {
	Source    string  `json:"source,omitempty"`
	Questions []Entry `json:"questions"`
}

// Entry is one question in a bank. TopicID 0 leaves the question
// unlinked; the admin can attach topics later.
type Entry struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
	Tags          []string `json:"tags"`
	TopicID       uint     `json:"topic_id"`
	CaseID        *uint    `json:"case_id"`
}

// Result collects validation findings for a bank.
type Result struct {
	Issues []string `json:"issues"`
}

// Valid reports whether the bank passed with no issues.
func (r *Result) Valid() bool {
	return len(r.Issues) == 0
}

var validDifficulties = map[string]bool{"easy": true, "medium": true, "hard": true}

// Parse decodes a bank document.
func Parse(data []byte) (*Bank, error) {
	var bank Bank
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	return &bank, nil
}

// ParseFile reads and decodes a bank file.
func ParseFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data)
}

// Validate checks every entry against the question constraints: text
// present, exactly 4 options, keyed answer in range, known difficulty.
func Validate(bank *Bank) *Result {
	result := &Result{}

	if len(bank.Questions) == 0 {
		result.Issues = append(result.Issues, "bank contains no questions")
		return result
	}

	seen := make(map[string]int)
	for i, q := range bank.Questions {
		num := i + 1

		text := strings.TrimSpace(q.QuestionText)
		if text == "" {
			result.Issues = append(result.Issues, fmt.Sprintf("question %d: empty question_text", num))
		} else if first, dup := seen[text]; dup {
			result.Issues = append(result.Issues, fmt.Sprintf("question %d: duplicate of question %d", num, first))
		} else {
			seen[text] = num
		}

		if len(q.Options) != 4 {
			result.Issues = append(result.Issues, fmt.Sprintf("question %d: expected 4 options, got %d", num, len(q.Options)))
			continue
		}
		for j, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				result.Issues = append(result.Issues, fmt.Sprintf("question %d: option %d is empty", num, j))
			}
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			result.Issues = append(result.Issues, fmt.Sprintf("question %d: correct_answer %d out of range", num, q.CorrectAnswer))
		}
		if q.Difficulty != "" && !validDifficulties[q.Difficulty] {
			result.Issues = append(result.Issues, fmt.Sprintf("question %d: invalid difficulty %q", num, q.Difficulty))
		}
	}

	return result
}

// ToModels converts a validated bank into question rows plus a parallel
// slice of topic ids for linking (0 means no link).
func ToModels(bank *Bank) ([]models.Question, []uint, error) {
	questions := make([]models.Question, 0, len(bank.Questions))
	topics := make([]uint, 0, len(bank.Questions))

	for _, entry := range bank.Questions {
		q := models.Question{
			QuestionText:  strings.TrimSpace(entry.QuestionText),
			CorrectAnswer: entry.CorrectAnswer,
			Explanation:   strings.TrimSpace(entry.Explanation),
			Difficulty:    entry.Difficulty,
			CaseID:        entry.CaseID,
		}
		if q.Difficulty == "" {
			q.Difficulty = "medium"
		}
		if err := q.SetOptions(entry.Options); err != nil {
			return nil, nil, err
		}
		if err := q.SetTags(entry.Tags); err != nil {
			return nil, nil, err
		}
		questions = append(questions, q)
		topics = append(topics, entry.TopicID)
	}

	return questions, topics, nil
}

// FromGenerated converts generator output into bank entries so generated
// batches flow through the same validation as file imports.
func FromGenerated(questions []GeneratedInput, topicID uint) *Bank {
	bank := &Bank{Questions: make([]Entry, 0, len(questions))}
	for _, q := range questions {
		bank.Questions = append(bank.Questions, Entry{
			QuestionText:  q.QuestionText,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Difficulty:    q.Difficulty,
			Tags:          q.Tags,
			TopicID:       topicID,
		})
	}
	return bank
}

// GeneratedInput mirrors the generator's question shape without
// importing the services package.
type GeneratedInput struct {
	QuestionText  string
	Options       []string
	CorrectAnswer int
	Explanation   string
	Difficulty    string
	Tags          []string
}
