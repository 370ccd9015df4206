package handlers

import (
	"reflect"
	"testing"
)

func TestCollectSubmission(t *testing.T) {
	tests := []struct {
		name           string
		answers        []SubmittedAnswer
		wantIDs        []uint
		wantSelections map[uint]int
	}{
		{
			name: "distinct questions",
			answers: []SubmittedAnswer{
				{QuestionID: 1, SelectedAnswer: 2},
				{QuestionID: 2, SelectedAnswer: 0},
			},
			wantIDs:        []uint{1, 2},
			wantSelections: map[uint]int{1: 2, 2: 0},
		},
		{
			name: "duplicate question counts once, last selection wins",
			answers: []SubmittedAnswer{
				{QuestionID: 1, SelectedAnswer: 0},
				{QuestionID: 2, SelectedAnswer: 3},
				{QuestionID: 1, SelectedAnswer: 2},
			},
			wantIDs:        []uint{1, 2},
			wantSelections: map[uint]int{1: 2, 2: 3},
		},
		{
			name: "unanswered stays out of selections",
			answers: []SubmittedAnswer{
				{QuestionID: 1, SelectedAnswer: -1},
				{QuestionID: 2, SelectedAnswer: 1},
			},
			wantIDs:        []uint{1, 2},
			wantSelections: map[uint]int{2: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, selections := collectSubmission(tt.answers)
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
			}
			if !reflect.DeepEqual(selections, tt.wantSelections) {
				t.Errorf("selections = %v, want %v", selections, tt.wantSelections)
			}
		})
	}
}
