package handlers

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"pharmprep/models"
)

func quizPool(n int) []models.Question {
	pool := make([]models.Question, n)
	difficulties := []string{"easy", "medium", "hard"}
	for i := range pool {
		pool[i] = models.Question{
			ID:           uint(i + 1),
			QuestionText: fmt.Sprintf("Question %d", i+1),
			Difficulty:   difficulties[i%3],
		}
	}
	return pool
}

// Sampling shares one rng across requests, so concurrent callers must
// not trip the race detector and every call must still return a full
// sample.
func TestSampleQuizQuestionsConcurrent(t *testing.T) {
	pool := quizPool(30)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				got := sampleQuizQuestions(pool, nil, 5)
				if len(got) != 5 {
					t.Errorf("sampleQuizQuestions returned %d questions, want 5", len(got))
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestSampleQuizQuestionsDifficulty(t *testing.T) {
	pool := quizPool(30)

	got := sampleQuizQuestions(pool, []string{"hard"}, 50)
	if len(got) != 10 {
		t.Fatalf("got %d hard questions, want 10", len(got))
	}
	for _, q := range got {
		if q.Difficulty != "hard" {
			t.Errorf("question %d has difficulty %q, want hard", q.ID, q.Difficulty)
		}
	}
}

func TestSplitCSV(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"easy", []string{"easy"}},
		{"easy,medium", []string{"easy", "medium"}},
		{" easy , ,hard ", []string{"easy", "hard"}},
	}

	for _, tt := range tests {
		if got := splitCSV(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitCSV(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
