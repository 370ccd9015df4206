package services

import (
	"math/rand"
	"testing"
	"time"

	"pharmprep/models"
)

func makeQuestions(n int) []models.Question {
	questions := make([]models.Question, n)
	for i := range questions {
		q := models.Question{
			ID:            uint(i + 1),
			QuestionText:  "question",
			CorrectAnswer: i % 4,
			Difficulty:    []string{"easy", "medium", "hard"}[i%3],
		}
		q.SetOptions([]string{"a", "b", "c", "d"})
		questions[i] = q
	}
	return questions
}

func TestScoreExam(t *testing.T) {
	questions := makeQuestions(4)

	answers := map[uint]int{
		1: 0, // correct (CorrectAnswer 0)
		2: 0, // wrong (CorrectAnswer 1)
		3: 2, // correct (CorrectAnswer 2)
		// question 4 unanswered
	}

	records, score := ScoreExam(questions, answers)

	if score != 2 {
		t.Errorf("score = %d, want 2", score)
	}
	if len(records) != 4 {
		t.Fatalf("records = %d, want one per question", len(records))
	}

	if !records[0].IsCorrect || records[0].SelectedAnswer != 0 {
		t.Errorf("question 1 record = %+v, want correct with selection 0", records[0])
	}
	if records[1].IsCorrect {
		t.Errorf("question 2 marked correct with wrong answer")
	}
	if records[3].SelectedAnswer != -1 || records[3].IsCorrect {
		t.Errorf("unanswered question record = %+v, want -1 and not correct", records[3])
	}
}

func TestScoreExam_Empty(t *testing.T) {
	records, score := ScoreExam(nil, nil)
	if score != 0 || len(records) != 0 {
		t.Errorf("empty exam: score = %d, records = %d, want 0 and 0", score, len(records))
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		score, total, want int
	}{
		{0, 0, 0},
		{0, 10, 0},
		{10, 10, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds up
	}

	for _, tt := range tests {
		if got := Percentage(tt.score, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.score, tt.total, got, tt.want)
		}
	}
}

func TestSampleQuestions_DifficultyFilter(t *testing.T) {
	pool := makeQuestions(30)
	rng := rand.New(rand.NewSource(1))

	sampled := SampleQuestions(pool, []string{"hard"}, 50, rng)
	for _, q := range sampled {
		if q.Difficulty != "hard" {
			t.Errorf("sampled %q question, want hard only", q.Difficulty)
		}
	}
	// makeQuestions yields 10 of each difficulty.
	if len(sampled) != 10 {
		t.Errorf("sampled %d hard questions, want all 10", len(sampled))
	}
}

func TestSampleQuestions_CountBound(t *testing.T) {
	pool := makeQuestions(30)
	rng := rand.New(rand.NewSource(2))

	sampled := SampleQuestions(pool, nil, 5, rng)
	if len(sampled) != 5 {
		t.Errorf("sampled %d questions, want 5", len(sampled))
	}

	seen := make(map[uint]bool)
	for _, q := range sampled {
		if seen[q.ID] {
			t.Errorf("question %d sampled twice", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestSampleQuestions_SeededDeterminism(t *testing.T) {
	pool := makeQuestions(20)

	first := SampleQuestions(pool, nil, 10, rand.New(rand.NewSource(42)))
	second := SampleQuestions(pool, nil, 10, rand.New(rand.NewSource(42)))

	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("same seed produced different draws at %d: %d vs %d", i, first[i].ID, second[i].ID)
		}
	}
}

func TestSessionRemaining(t *testing.T) {
	now := time.Now()
	session := &ExamSession{
		StartedAt: now,
		Deadline:  now.Add(90 * time.Second),
	}

	if got := session.Remaining(now); got != 90 {
		t.Errorf("Remaining at start = %d, want 90", got)
	}
	if got := session.Remaining(now.Add(30 * time.Second)); got != 60 {
		t.Errorf("Remaining mid-session = %d, want 60", got)
	}
	if got := session.Remaining(now.Add(2 * time.Hour)); got != 0 {
		t.Errorf("Remaining past deadline = %d, want 0 (never negative)", got)
	}
}

func TestAttemptPoints(t *testing.T) {
	tests := []struct {
		name    string
		attempt models.QuizAttempt
		want    int
	}{
		{
			name:    "base scoring",
			attempt: models.QuizAttempt{Score: 7, TotalQuestions: 10, Percentage: 70, IsCompleted: true},
			want:    70,
		},
		{
			name:    "perfect bonus",
			attempt: models.QuizAttempt{Score: 10, TotalQuestions: 10, Percentage: 100, IsCompleted: true},
			want:    150, // 100 + 50
		},
		{
			name:    "hard multiplier",
			attempt: models.QuizAttempt{Score: 6, TotalQuestions: 10, Percentage: 60, IsCompleted: true, Difficulty: "hard"},
			want:    90, // 60 * 1.5
		},
		{
			name:    "perfect hard run",
			attempt: models.QuizAttempt{Score: 10, TotalQuestions: 10, Percentage: 100, IsCompleted: true, Difficulty: "hard"},
			want:    225, // (100 + 50) * 1.5
		},
		{
			name:    "incomplete perfect gets no bonus",
			attempt: models.QuizAttempt{Score: 10, TotalQuestions: 10, Percentage: 100, IsCompleted: false},
			want:    100,
		},
	}

	for _, tt := range tests {
		if got := AttemptPoints(&tt.attempt); got != tt.want {
			t.Errorf("%s: AttemptPoints = %d, want %d", tt.name, got, tt.want)
		}
	}
}
