package qbank

import (
	"strings"
	"testing"
)

func validEntry() Entry {
	return Entry{
		QuestionText:  "A patient asks about taking ibuprofen with warfarin. What should the pharmacist advise?",
		Options:       []string{"Avoid the combination", "Take them together", "Double the warfarin dose", "No interaction exists"},
		CorrectAnswer: 0,
		Explanation:   "NSAIDs raise bleeding risk with warfarin.",
		Difficulty:    "medium",
		Tags:          []string{"interactions"},
		TopicID:       3,
	}
}

func TestParse(t *testing.T) {
	data := []byte(`{
		"source": "unit-test",
		"questions": [
			{"question_text": "q", "options": ["a","b","c","d"], "correct_answer": 1, "explanation": "e", "difficulty": "easy", "topic_id": 2}
		]
	}`)

	bank, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if bank.Source != "unit-test" {
		t.Errorf("Source = %q, want unit-test", bank.Source)
	}
	if len(bank.Questions) != 1 {
		t.Fatalf("Questions = %d, want 1", len(bank.Questions))
	}
	if bank.Questions[0].TopicID != 2 {
		t.Errorf("TopicID = %d, want 2", bank.Questions[0].TopicID)
	}
}

func TestParse_Malformed(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestValidate_OK(t *testing.T) {
	bank := &Bank{Questions: []Entry{validEntry()}}
	result := Validate(bank)
	if !result.Valid() {
		t.Errorf("valid bank rejected: %v", result.Issues)
	}
}

func TestValidate_EmptyBank(t *testing.T) {
	result := Validate(&Bank{})
	if result.Valid() {
		t.Fatal("empty bank passed validation")
	}
}

func TestValidate_Issues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Entry)
		wantSub string
	}{
		{
			name:    "empty text",
			mutate:  func(e *Entry) { e.QuestionText = "  " },
			wantSub: "empty question_text",
		},
		{
			name:    "wrong option count",
			mutate:  func(e *Entry) { e.Options = e.Options[:3] },
			wantSub: "expected 4 options",
		},
		{
			name:    "blank option",
			mutate:  func(e *Entry) { e.Options[2] = "" },
			wantSub: "option 2 is empty",
		},
		{
			name:    "answer out of range",
			mutate:  func(e *Entry) { e.CorrectAnswer = 4 },
			wantSub: "out of range",
		},
		{
			name:    "bad difficulty",
			mutate:  func(e *Entry) { e.Difficulty = "extreme" },
			wantSub: "invalid difficulty",
		},
	}

	for _, tt := range tests {
		entry := validEntry()
		tt.mutate(&entry)
		result := Validate(&Bank{Questions: []Entry{entry}})

		if result.Valid() {
			t.Errorf("%s: expected validation failure", tt.name)
			continue
		}
		found := false
		for _, issue := range result.Issues {
			if strings.Contains(issue, tt.wantSub) {
				found = true
			}
		}
		if !found {
			t.Errorf("%s: no issue containing %q in %v", tt.name, tt.wantSub, result.Issues)
		}
	}
}

func TestValidate_Duplicates(t *testing.T) {
	entry := validEntry()
	result := Validate(&Bank{Questions: []Entry{entry, entry}})

	if result.Valid() {
		t.Fatal("duplicate questions passed validation")
	}
	found := false
	for _, issue := range result.Issues {
		if strings.Contains(issue, "duplicate") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a duplicate issue, got: %v", result.Issues)
	}
}

func TestToModels(t *testing.T) {
	entry := validEntry()
	noDifficulty := validEntry()
	noDifficulty.QuestionText = "A different question about the same interaction risk profile?"
	noDifficulty.Difficulty = ""
	noDifficulty.TopicID = 0

	questions, topics, err := ToModels(&Bank{Questions: []Entry{entry, noDifficulty}})
	if err != nil {
		t.Fatalf("ToModels: %v", err)
	}
	if len(questions) != 2 || len(topics) != 2 {
		t.Fatalf("got %d questions and %d topic links, want 2 and 2", len(questions), len(topics))
	}

	if got := questions[0].Options(); len(got) != 4 || got[0] != "Avoid the combination" {
		t.Errorf("options round-trip failed: %v", got)
	}
	if questions[1].Difficulty != "medium" {
		t.Errorf("missing difficulty defaulted to %q, want medium", questions[1].Difficulty)
	}
	if topics[0] != 3 || topics[1] != 0 {
		t.Errorf("topic links = %v, want [3 0]", topics)
	}
}

func TestFromGenerated(t *testing.T) {
	inputs := []GeneratedInput{{
		QuestionText:  "Generated question?",
		Options:       []string{"a", "b", "c", "d"},
		CorrectAnswer: 2,
		Explanation:   "because",
		Difficulty:    "hard",
	}}

	bank := FromGenerated(inputs, 9)
	if len(bank.Questions) != 1 {
		t.Fatalf("Questions = %d, want 1", len(bank.Questions))
	}
	if bank.Questions[0].TopicID != 9 {
		t.Errorf("TopicID = %d, want 9", bank.Questions[0].TopicID)
	}
	if result := Validate(bank); !result.Valid() {
		t.Errorf("generated bank rejected: %v", result.Issues)
	}
}
