// models/models.go - Content catalog models
package models

import (
	"encoding/json"
	"time"
)

// Competency is a top-level PEBC exam blueprint category.
// Weight is the blueprint percentage (0-100) of the exam drawn from it.
type Competency struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null;size:200"`
	Weight    int       `json:"weight" gorm:"default:0"`
	SortOrder int       `json:"order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Topics    []Topic   `json:"topics,omitempty" gorm:"foreignKey:CompetencyID"`
}

// Topic is a subject area nested under a Competency.
type Topic struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	Title        string      `json:"title" gorm:"not null;size:200"`
	CompetencyID uint        `json:"competency_id" gorm:"not null;index"`
	Competency   *Competency `json:"competency,omitempty" gorm:"foreignKey:CompetencyID"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Case is an optional clinical scenario attached to one or more questions.
type Case struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title" gorm:"not null;size:200"`
	CaseText   string    `json:"case_text" gorm:"type:text"`
	CaseType   string    `json:"case_type" gorm:"size:50"`
	Difficulty string    `json:"difficulty" gorm:"default:'medium';size:20"`
	TopicID    *uint     `json:"topic_id" gorm:"index"`
	Topic      *Topic    `json:"topic,omitempty" gorm:"foreignKey:TopicID"`
	CreatedAt  time.Time `json:"created_at"`
}

// Question is a four-option multiple choice question.
// Options and tags are stored as JSON text columns.
type Question struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	QuestionText  string    `json:"question_text" gorm:"not null;type:text"`
	OptionsJSON   string    `json:"-" gorm:"column:options;not null;type:text"`
	CorrectAnswer int       `json:"correct_answer" gorm:"not null"`
	Explanation   string    `json:"explanation" gorm:"type:text"`
	Difficulty    string    `json:"difficulty" gorm:"default:'medium';size:20;index"`
	TagsJSON      string    `json:"-" gorm:"column:tags;type:text"`
	CaseID        *uint     `json:"case_id" gorm:"index"`
	Case          *Case     `json:"case,omitempty" gorm:"foreignKey:CaseID"`
	CreatedAt     time.Time `json:"created_at"`
}

// TopicQuestion joins questions to topics (many-to-many).
type TopicQuestion struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	TopicID    uint `json:"topic_id" gorm:"not null;index:idx_topic_question,unique"`
	QuestionID uint `json:"question_id" gorm:"not null;index:idx_topic_question,unique"`
}

func (Competency) TableName() string {
	return "competencies"
}

func (Topic) TableName() string {
	return "topics"
}

func (Case) TableName() string {
	return "cases"
}

func (Question) TableName() string {
	return "questions"
}

func (TopicQuestion) TableName() string {
	return "topic_questions"
}

// Options decodes the JSON options column. A malformed column yields nil.
func (q *Question) Options() []string {
	var opts []string
	if q.OptionsJSON == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(q.OptionsJSON), &opts); err != nil {
		return nil
	}
	return opts
}

// SetOptions encodes options into the JSON column.
func (q *Question) SetOptions(opts []string) error {
	data, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	q.OptionsJSON = string(data)
	return nil
}

// Tags decodes the JSON tags column.
func (q *Question) Tags() []string {
	var tags []string
	if q.TagsJSON == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(q.TagsJSON), &tags); err != nil {
		return nil
	}
	return tags
}

// SetTags encodes tags into the JSON column.
func (q *Question) SetTags(tags []string) error {
	data, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	q.TagsJSON = string(data)
	return nil
}
