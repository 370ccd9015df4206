package handlers

import (
	"testing"
)

func boardEntries() []LeaderboardEntry {
	// Deliberately shuffled, with a three-way tie at 800 points.
	return []LeaderboardEntry{
		{UserID: 9, TotalPoints: 800},
		{UserID: 2, TotalPoints: 1500},
		{UserID: 4, TotalPoints: 800},
		{UserID: 7, TotalPoints: 0},
		{UserID: 1, TotalPoints: 800},
		{UserID: 3, TotalPoints: 2100},
	}
}

func TestAssignRanks(t *testing.T) {
	entries := boardEntries()
	assignRanks(entries)

	wantOrder := []uint{3, 2, 1, 4, 9, 7}
	for i, want := range wantOrder {
		if entries[i].UserID != want {
			t.Fatalf("position %d: got user %d, want %d", i, entries[i].UserID, want)
		}
		if entries[i].Rank != i+1 {
			t.Errorf("user %d: rank = %d, want %d", entries[i].UserID, entries[i].Rank, i+1)
		}
	}

	// Truncating a ranked board keeps exactly the top entries.
	top := entries[:3]
	for _, rest := range entries[3:] {
		for _, kept := range top {
			if rankedAbove(rest.TotalPoints, rest.UserID, kept.TotalPoints, kept.UserID) {
				t.Errorf("user %d was cut but outranks kept user %d", rest.UserID, kept.UserID)
			}
		}
	}
}

// A user's rank is one plus the count of users ranked above them, so
// the pairwise comparison must agree with board order exactly.
func TestRankedAboveAgreesWithBoardOrder(t *testing.T) {
	entries := boardEntries()
	assignRanks(entries)

	for i := range entries {
		ahead := 0
		for j := range entries {
			if i == j {
				continue
			}
			if rankedAbove(entries[j].TotalPoints, entries[j].UserID,
				entries[i].TotalPoints, entries[i].UserID) {
				ahead++
			}
		}
		if ahead+1 != entries[i].Rank {
			t.Errorf("user %d: count-ahead rank = %d, board rank = %d",
				entries[i].UserID, ahead+1, entries[i].Rank)
		}
	}
}

func TestRankedAbove(t *testing.T) {
	tests := []struct {
		name             string
		aPoints, bPoints int
		aID, bID         uint
		want             bool
	}{
		{"higher points win", 900, 500, 8, 1, true},
		{"lower points lose", 500, 900, 1, 8, false},
		{"tie breaks to lower id", 500, 500, 3, 7, true},
		{"tie breaks against higher id", 500, 500, 7, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rankedAbove(tt.aPoints, tt.aID, tt.bPoints, tt.bID); got != tt.want {
				t.Errorf("rankedAbove(%d,%d vs %d,%d) = %v, want %v",
					tt.aPoints, tt.aID, tt.bPoints, tt.bID, got, tt.want)
			}
		})
	}
}
