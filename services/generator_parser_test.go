package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func validQuestionJSON(count int) string {
	batch := GeneratedBatch{Questions: make([]GeneratedQuestion, count)}
	for i := range batch.Questions {
		batch.Questions[i] = GeneratedQuestion{
			QuestionText:  "A patient presents a new prescription. What is the most appropriate action?",
			Options:       []string{"Counsel the patient", "Refuse to dispense", "Call the prescriber", "Delay the fill"},
			CorrectAnswer: i % 4,
			Explanation:   "Counselling at first dispense is required practice.",
			Difficulty:    "medium",
			Tags:          []string{"practice"},
		}
	}
	data, _ := json.Marshal(batch)
	return string(data)
}

func TestParseQuestionBatch_ValidJSON(t *testing.T) {
	batch, err := ParseQuestionBatch(validQuestionJSON(5))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(batch.Questions) != 5 {
		t.Errorf("expected 5 questions, got %d", len(batch.Questions))
	}
}

func TestParseQuestionBatch_MarkdownFences(t *testing.T) {
	input := "```json\n" + validQuestionJSON(3) + "\n```"

	batch, err := ParseQuestionBatch(input)
	if err != nil {
		t.Fatalf("expected no error with markdown fences, got: %v", err)
	}
	if len(batch.Questions) != 3 {
		t.Errorf("expected 3 questions, got %d", len(batch.Questions))
	}
}

func TestParseQuestionBatch_WrongOptionCount(t *testing.T) {
	batch := GeneratedBatch{Questions: []GeneratedQuestion{{
		QuestionText:  "Which action is correct?",
		Options:       []string{"only", "three", "options"},
		CorrectAnswer: 0,
		Explanation:   "explanation",
	}}}
	data, _ := json.Marshal(batch)

	_, err := ParseQuestionBatch(string(data))
	if err == nil {
		t.Fatal("expected validation error for 3 options")
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got: %T", err)
	}

	found := false
	for _, e := range ve.Errors {
		if strings.Contains(e, "expected 4 options") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected error about 4 options, got: %v", ve.Errors)
	}
}

func TestParseQuestionBatch_CorrectAnswerOutOfRange(t *testing.T) {
	batch := GeneratedBatch{Questions: []GeneratedQuestion{{
		QuestionText:  "Which action is correct?",
		Options:       []string{"a", "b", "c", "d"},
		CorrectAnswer: 4,
		Explanation:   "explanation",
	}}}
	data, _ := json.Marshal(batch)

	_, err := ParseQuestionBatch(string(data))
	if err == nil {
		t.Fatal("expected validation error for out-of-range correct_answer")
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got: %T", err)
	}
}

func TestParseQuestionBatch_EmptyBatch(t *testing.T) {
	_, err := ParseQuestionBatch(`{"questions": []}`)
	if err == nil {
		t.Fatal("expected error for empty batch")
	}
}

func TestParseQuestionBatch_NotJSON(t *testing.T) {
	_, err := ParseQuestionBatch("Here are your questions: 1. What is ...")
	if err == nil {
		t.Fatal("expected error for non-JSON response")
	}
}

func TestParseTextResult(t *testing.T) {
	text, err := ParseTextResult(`{"text": "Focus on pharmacology this week."}`)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if text != "Focus on pharmacology this week." {
		t.Errorf("unexpected text: %q", text)
	}

	if _, err := ParseTextResult(`{"text": "   "}`); err == nil {
		t.Error("expected error for blank text")
	}
	if _, err := ParseTextResult("plain prose"); err == nil {
		t.Error("expected error for non-JSON response")
	}
}

func TestMockClientBatchIsValid(t *testing.T) {
	resp, err := NewMockClient().Generate(context.Background(), questionSystemPrompt, "anything")
	if err != nil {
		t.Fatalf("mock generate: %v", err)
	}

	batch, err := ParseQuestionBatch(resp.Content)
	if err != nil {
		t.Fatalf("mock output failed validation: %v", err)
	}
	if len(batch.Questions) != 5 {
		t.Errorf("mock batch has %d questions, want 5", len(batch.Questions))
	}
}

func TestBuildQuestionPrompt(t *testing.T) {
	prompt := BuildQuestionPrompt("Pharmacokinetics", "hard", 8)

	for _, want := range []string{"8", "hard", "Pharmacokinetics", "correct_answer"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
