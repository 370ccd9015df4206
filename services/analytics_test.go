package services

import (
	"reflect"
	"testing"

	"pharmprep/models"
)

func attempt(topicID uint, score, total int, completed bool) models.QuizAttempt {
	a := models.QuizAttempt{
		Score:          score,
		TotalQuestions: total,
		Percentage:     Percentage(score, total),
		IsCompleted:    completed,
	}
	if topicID != 0 {
		a.TopicID = &topicID
	}
	return a
}

func TestComputeAnalytics_Empty(t *testing.T) {
	stats := ComputeAnalytics(nil, nil, 0)

	if stats.TotalAttempts != 0 || stats.TotalQuestionsAnswered != 0 ||
		stats.AvgScore != 0 || stats.TopicsMastered != 0 {
		t.Errorf("empty input produced non-zero stats: %+v", stats)
	}
	if stats.CognitiveScore != 0 || stats.SocialImpact != 0 {
		t.Errorf("empty input produced non-zero composites: %+v", stats)
	}
}

// The degraded payload handlers fall back to must look exactly like a
// user with no recorded activity.
func TestEmptyAnalyticsMatchesNoData(t *testing.T) {
	got := EmptyAnalytics(7)

	want := ComputeAnalytics(nil, nil, 0)
	want.UserID = 7

	if !reflect.DeepEqual(*got, want) {
		t.Errorf("EmptyAnalytics(7) = %+v, want %+v", *got, want)
	}
}

func TestComputeAnalytics_Formulas(t *testing.T) {
	attempts := []models.QuizAttempt{
		attempt(1, 10, 10, true), // 100%, perfect
		attempt(1, 8, 10, true),  // 80%
		attempt(2, 5, 10, true),  // 50%
		attempt(0, 3, 10, false), // incomplete, excluded from avg
	}
	points := &models.UserPoints{UserID: 7, TotalPoints: 1200, Level: 2, StreakDays: 4}

	stats := ComputeAnalytics(attempts, points, 30)

	if stats.TotalAttempts != 4 {
		t.Errorf("TotalAttempts = %d, want 4", stats.TotalAttempts)
	}
	if stats.CompletedAttempts != 3 {
		t.Errorf("CompletedAttempts = %d, want 3", stats.CompletedAttempts)
	}
	if stats.TotalQuestionsAnswered != 40 {
		t.Errorf("TotalQuestionsAnswered = %d, want 40", stats.TotalQuestionsAnswered)
	}
	if stats.PerfectScores != 1 {
		t.Errorf("PerfectScores = %d, want 1", stats.PerfectScores)
	}

	// avg = round((100+80+50)/3) = round(76.67) = 77
	if stats.AvgScore != 77 {
		t.Errorf("AvgScore = %d, want 77", stats.AvgScore)
	}

	// Topic 1 mean = 90 >= 80, topic 2 mean = 50 < 80.
	if stats.TopicsMastered != 1 {
		t.Errorf("TopicsMastered = %d, want 1", stats.TopicsMastered)
	}

	// cognitive = round(77*0.5 + 4*5 + 40/10) = round(62.5) = 63
	if stats.CognitiveScore != 63 {
		t.Errorf("CognitiveScore = %d, want 63", stats.CognitiveScore)
	}

	// social = round(30*0.5) = 15
	if stats.SocialImpact != 15 {
		t.Errorf("SocialImpact = %d, want 15", stats.SocialImpact)
	}
}

func TestComputeAnalytics_Caps(t *testing.T) {
	// 200 completed perfect attempts of 10 questions: 2000 answered,
	// capped at 1000 for the cognitive composite.
	var attempts []models.QuizAttempt
	for i := 0; i < 200; i++ {
		attempts = append(attempts, attempt(0, 10, 10, true))
	}

	stats := ComputeAnalytics(attempts, nil, 1000)

	// cognitive = round(100*0.5 + 0 + 1000/10) = 150
	if stats.CognitiveScore != 150 {
		t.Errorf("CognitiveScore = %d, want 150", stats.CognitiveScore)
	}

	// social capped at 100
	if stats.SocialImpact != 100 {
		t.Errorf("SocialImpact = %d, want 100 (capped)", stats.SocialImpact)
	}
}

func TestComputeAnalytics_Pure(t *testing.T) {
	attempts := []models.QuizAttempt{
		attempt(1, 7, 10, true),
		attempt(2, 9, 10, true),
	}
	points := &models.UserPoints{UserID: 3, TotalPoints: 640, Level: 2, StreakDays: 2}

	first := ComputeAnalytics(attempts, points, 12)
	second := ComputeAnalytics(attempts, points, 12)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("ComputeAnalytics not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
