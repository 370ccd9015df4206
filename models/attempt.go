// models/attempt.go - Quiz and mock exam attempt records
package models

import (
	"encoding/json"
	"time"
)

// AttemptAnswer is one answered (or skipped) question inside an attempt.
// SelectedAnswer is -1 when the question was left unanswered.
type AttemptAnswer struct {
	QuestionID     uint `json:"question_id"`
	SelectedAnswer int  `json:"selected_answer"`
	IsCorrect      bool `json:"is_correct"`
}

// QuizAttempt records one quiz or mock exam session.
// Completed attempts are immutable.
type QuizAttempt struct {
	ID     uint  `json:"id" gorm:"primaryKey"`
	UserID uint  `json:"user_id" gorm:"not null;index"`
	User   *User `json:"user,omitempty" gorm:"foreignKey:UserID"`

	TopicID *uint  `json:"topic_id" gorm:"index"`
	Topic   *Topic `json:"topic,omitempty" gorm:"foreignKey:TopicID"`

	AnswersJSON      string `json:"-" gorm:"column:answers;type:text"`
	Score            int    `json:"score" gorm:"default:0"`
	TotalQuestions   int    `json:"total_questions" gorm:"default:0"`
	Percentage       int    `json:"percentage" gorm:"default:0"`
	TimeSpentSeconds int    `json:"time_spent_seconds" gorm:"default:0"`
	Difficulty       string `json:"difficulty" gorm:"size:20"`
	IsCompleted      bool   `json:"is_completed" gorm:"default:false;index"`
	IsMockExam       bool   `json:"is_mock_exam" gorm:"default:false"`
	PointsEarned     int    `json:"points_earned" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// Answers decodes the JSON answers column.
func (a *QuizAttempt) Answers() ([]AttemptAnswer, error) {
	var answers []AttemptAnswer
	if a.AnswersJSON == "" {
		return answers, nil
	}
	err := json.Unmarshal([]byte(a.AnswersJSON), &answers)
	return answers, err
}

// SetAnswers encodes answers into the JSON column.
func (a *QuizAttempt) SetAnswers(answers []AttemptAnswer) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	a.AnswersJSON = string(data)
	return nil
}

// IsPerfect reports a 100% completed attempt.
func (a *QuizAttempt) IsPerfect() bool {
	return a.IsCompleted && a.Percentage == 100
}
