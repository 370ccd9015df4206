// services/generator_parser.go - Prompt building and response parsing
package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GeneratedBatch is the JSON shape the question prompts request.
type GeneratedBatch struct {
	Questions []GeneratedQuestion `json:"questions"`
}

// GeneratedQuestion mirrors the question model before import.
type GeneratedQuestion struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
	Tags          []string `json:"tags"`
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

const questionSystemPrompt = `You are a pharmacy licensing exam item writer. You write multiple-choice questions in the style of the PEBC qualifying exam: clinically grounded, unambiguous, with exactly one defensible answer. You respond ONLY with JSON matching the schema you are given, with no surrounding prose.`

const explanationSystemPrompt = `You are a pharmacy educator. You write concise answer explanations that justify the correct option and briefly dismiss each distractor. Respond ONLY with JSON of the form {"text": "..."}.`

const studyPlanSystemPrompt = `You are a pharmacy exam tutor. You write practical, encouraging weekly study plans grounded in the student's statistics. Respond ONLY with JSON of the form {"text": "..."}.`

const analysisSystemPrompt = `You are an education analyst. You summarize a student's performance for program staff: strengths, weaknesses, and recommended interventions. Respond ONLY with JSON of the form {"text": "..."}.`

// BuildQuestionPrompt asks for count questions on a topic.
func BuildQuestionPrompt(topicTitle, difficulty string, count int) string {
	return fmt.Sprintf(`Write %d %s-difficulty multiple-choice questions on the topic "%s".

Each question must have exactly 4 options and one correct answer.

Respond with JSON matching exactly:
{"questions": [{"question_text": "...", "options": ["...", "...", "...", "..."], "correct_answer": 0, "explanation": "...", "difficulty": %q, "tags": ["..."]}]}

correct_answer is the zero-based index into options. Vary the position of the correct answer across questions.`, count, difficulty, topicTitle, difficulty)
}

// BuildExplanationPrompt asks for a rewritten explanation.
func BuildExplanationPrompt(questionText string, options []string, correctIndex int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nOptions:\n", questionText)
	for i, opt := range options {
		marker := " "
		if i == correctIndex {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %d. %s\n", marker, i, opt)
	}
	b.WriteString("\nThe starred option is correct. Write the explanation.")
	return b.String()
}

// BuildStudyPlanPrompt summarizes a user's stats for plan generation.
func BuildStudyPlanPrompt(stats UserAnalytics, weakTopics []string) string {
	return fmt.Sprintf(`Student statistics:
- average score: %d%%
- questions answered: %d
- study streak: %d days
- topics mastered: %d
- weakest topics: %s

Write a one-week study plan for this student preparing for the PEBC qualifying exam.`,
		stats.AvgScore, stats.TotalQuestionsAnswered, stats.StreakDays,
		stats.TopicsMastered, strings.Join(weakTopics, ", "))
}

// BuildAnalysisPrompt summarizes a user's stats for staff analysis.
func BuildAnalysisPrompt(stats UserAnalytics) string {
	return fmt.Sprintf(`Student statistics:
- attempts: %d (%d completed)
- average score: %d%%
- perfect scores: %d
- questions answered: %d
- streak: %d days
- cognitive score: %d, social impact: %d

Write a short performance analysis for program staff.`,
		stats.TotalAttempts, stats.CompletedAttempts, stats.AvgScore,
		stats.PerfectScores, stats.TotalQuestionsAnswered, stats.StreakDays,
		stats.CognitiveScore, stats.SocialImpact)
}

// ParseQuestionBatch parses and validates a question-generation response.
func ParseQuestionBatch(responseBody string) (*GeneratedBatch, error) {
	cleaned := stripCodeFences(responseBody)

	var batch GeneratedBatch
	if err := json.Unmarshal([]byte(cleaned), &batch); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := validateBatch(&batch); err != nil {
		return nil, err
	}

	return &batch, nil
}

// ParseTextResult parses a {"text": "..."} response.
func ParseTextResult(responseBody string) (string, error) {
	cleaned := stripCodeFences(responseBody)

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return "", fmt.Errorf("failed to parse JSON response: %w", err)
	}
	if strings.TrimSpace(result.Text) == "" {
		return "", fmt.Errorf("empty text in response")
	}
	return result.Text, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

var validDifficulties = map[string]bool{"easy": true, "medium": true, "hard": true}

func validateBatch(batch *GeneratedBatch) error {
	var errs []string

	if len(batch.Questions) == 0 {
		return &ValidationError{Errors: []string{"no questions in batch"}}
	}

	for i, q := range batch.Questions {
		qNum := i + 1

		if strings.TrimSpace(q.QuestionText) == "" {
			errs = append(errs, fmt.Sprintf("question %d: empty question_text", qNum))
		}
		if len(q.Options) != 4 {
			errs = append(errs, fmt.Sprintf("question %d: expected 4 options, got %d", qNum, len(q.Options)))
			continue
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			errs = append(errs, fmt.Sprintf("question %d: correct_answer %d out of range", qNum, q.CorrectAnswer))
		}
		if strings.TrimSpace(q.Explanation) == "" {
			errs = append(errs, fmt.Sprintf("question %d: empty explanation", qNum))
		}
		if q.Difficulty != "" && !validDifficulties[q.Difficulty] {
			errs = append(errs, fmt.Sprintf("question %d: invalid difficulty %q", qNum, q.Difficulty))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
