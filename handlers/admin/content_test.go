package admin

import (
	"reflect"
	"testing"

	"pharmprep/models"
)

func TestTopicLinkRows(t *testing.T) {
	questions := []models.Question{
		{ID: 11, QuestionText: "Q1"},
		{ID: 12, QuestionText: "Q2"},
		{ID: 13, QuestionText: "Q3"},
	}

	tests := []struct {
		name  string
		links []uint
		want  []models.TopicQuestion
	}{
		{
			name:  "all linked",
			links: []uint{3, 3, 5},
			want: []models.TopicQuestion{
				{TopicID: 3, QuestionID: 11},
				{TopicID: 3, QuestionID: 12},
				{TopicID: 5, QuestionID: 13},
			},
		},
		{
			name:  "unlinked entries skipped",
			links: []uint{0, 4, 0},
			want: []models.TopicQuestion{
				{TopicID: 4, QuestionID: 12},
			},
		},
		{
			name:  "no links",
			links: []uint{0, 0, 0},
			want:  nil,
		},
		{
			name:  "links beyond question count ignored",
			links: []uint{2, 2, 2, 2, 2},
			want: []models.TopicQuestion{
				{TopicID: 2, QuestionID: 11},
				{TopicID: 2, QuestionID: 12},
				{TopicID: 2, QuestionID: 13},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := topicLinkRows(questions, tt.links)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("topicLinkRows() = %v, want %v", got, tt.want)
			}
		})
	}
}
