package services

import (
	"testing"
	"time"

	"pharmprep/models"
)

func TestCalculateLevel(t *testing.T) {
	tests := []struct {
		points    int
		wantLevel int
		wantTitle string
	}{
		{0, 1, "Novice"},
		{499, 1, "Novice"},
		{500, 2, "Apprentice"},
		{1499, 2, "Apprentice"},
		{1500, 3, "Scholar"},
		{3500, 4, "Expert"},
		{6000, 5, "Master"},
		{9999, 5, "Master"},
		{10000, 6, "Genius"},
		{999999, 6, "Genius"},
	}

	for _, tt := range tests {
		got := CalculateLevel(tt.points)
		if got.Level != tt.wantLevel {
			t.Errorf("CalculateLevel(%d).Level = %d, want %d", tt.points, got.Level, tt.wantLevel)
		}
		if got.Title != tt.wantTitle {
			t.Errorf("CalculateLevel(%d).Title = %q, want %q", tt.points, got.Title, tt.wantTitle)
		}
	}
}

func TestNextLevel(t *testing.T) {
	next, ok := NextLevel(1)
	if !ok {
		t.Fatal("NextLevel(1) not ok, want a tier")
	}
	if next.Level != 2 || next.MinXP != 500 {
		t.Errorf("NextLevel(1) = %+v, want level 2 at 500", next)
	}

	if _, ok := NextLevel(MaxLevel()); ok {
		t.Errorf("NextLevel(%d) ok, want false at top tier", MaxLevel())
	}
}

func TestCalculateBadges_Empty(t *testing.T) {
	earned := CalculateBadges(UserAnalytics{})
	if len(earned) != 0 {
		t.Errorf("expected no badges for empty stats, got %d", len(earned))
	}
}

func TestCalculateBadges_Thresholds(t *testing.T) {
	hasBadge := func(badges []BadgeDefinition, key string) bool {
		for _, b := range badges {
			if b.Key == key {
				return true
			}
		}
		return false
	}

	// One below the quiz_master threshold.
	earned := CalculateBadges(UserAnalytics{PerfectScores: 4})
	if hasBadge(earned, "quiz_master") {
		t.Error("quiz_master awarded at 4 perfect scores, want 5")
	}

	earned = CalculateBadges(UserAnalytics{PerfectScores: 5})
	if !hasBadge(earned, "quiz_master") {
		t.Error("quiz_master not awarded at 5 perfect scores")
	}

	earned = CalculateBadges(UserAnalytics{
		TotalQuestionsAnswered: 100,
		StreakDays:             7,
		TopicsMastered:         3,
		CognitiveScore:         80,
		SocialImpact:           50,
	})
	for _, key := range []string{"first_steps", "century_club", "week_warrior", "topic_tamer", "sharp_mind", "community_voice"} {
		if !hasBadge(earned, key) {
			t.Errorf("expected badge %q at threshold stats", key)
		}
	}
}

func TestStatValue(t *testing.T) {
	stats := UserAnalytics{
		TotalQuestionsAnswered: 42,
		PerfectScores:          3,
		StreakDays:             9,
		TopicsMastered:         2,
		TotalPoints:            1200,
		AvgScore:               77,
	}

	tests := []struct {
		reqType string
		want    int
	}{
		{models.RequirementTotalQuestions, 42},
		{models.RequirementPerfectScores, 3},
		{models.RequirementStreakDays, 9},
		{models.RequirementTopicsMastered, 2},
		{models.RequirementTotalPoints, 1200},
		{models.RequirementAvgScore, 77},
		{"unknown_stat", 0},
	}

	for _, tt := range tests {
		if got := statValue(tt.reqType, stats); got != tt.want {
			t.Errorf("statValue(%q) = %d, want %d", tt.reqType, got, tt.want)
		}
	}
}

func TestUpdateStreak(t *testing.T) {
	day := func(offset int) time.Time {
		return time.Date(2026, 3, 10+offset, 15, 0, 0, 0, time.UTC)
	}

	// First ever activity starts the streak at 1.
	points := &models.UserPoints{}
	UpdateStreak(points, day(0))
	if points.StreakDays != 1 {
		t.Errorf("first activity: streak = %d, want 1", points.StreakDays)
	}

	// Same day again keeps it.
	UpdateStreak(points, day(0))
	if points.StreakDays != 1 {
		t.Errorf("same day: streak = %d, want 1", points.StreakDays)
	}

	// Next day extends it.
	UpdateStreak(points, day(1))
	if points.StreakDays != 2 {
		t.Errorf("next day: streak = %d, want 2", points.StreakDays)
	}

	// A gap resets to 1.
	UpdateStreak(points, day(4))
	if points.StreakDays != 1 {
		t.Errorf("after gap: streak = %d, want 1", points.StreakDays)
	}
}
