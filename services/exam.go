// services/exam.go - Timed mock exam session controller
package services

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"pharmprep/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSessionNotFound   = errors.New("exam session not found")
	ErrSessionExpired    = errors.New("exam session expired")
	ErrSessionSubmitted  = errors.New("exam session already submitted")
	ErrQuestionNotInSet  = errors.New("question not part of this session")
	ErrInvalidOption     = errors.New("selected option out of range")
	ErrEmptyQuestionPool = errors.New("no questions match the requested difficulties")
)

const (
	DefaultExamQuestions = 50
	DefaultExamDuration  = 90 * time.Minute
	sessionGracePeriod   = 10 * time.Minute
)

// ExamSession is the in-memory state of one timed mock exam. All state
// lives server-side for the lifetime of the session; an unsubmitted
// session past its grace window is auto-submitted by the sweep.
type ExamSession struct {
	ID     string
	UserID uint

	// Questions is drawn once at start and frozen for the session.
	Questions []models.Question
	Answers   map[uint]int
	Flagged   map[uint]bool

	Difficulties []string
	StartedAt    time.Time
	Deadline     time.Time

	Submitted bool
	AttemptID uint

	mu sync.Mutex
}

// Remaining returns whole seconds until the deadline, never negative.
// Derived from the wall clock, not interval ticks.
func (s *ExamSession) Remaining(now time.Time) int {
	left := int(s.Deadline.Sub(now).Seconds())
	if left < 0 {
		return 0
	}
	return left
}

// SessionQuestionView is the client shape of one session question.
// Correct answers and explanations stay server-side until submission.
type SessionQuestionView struct {
	ID           uint     `json:"id"`
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
	Difficulty   string   `json:"difficulty"`
	CaseID       *uint    `json:"case_id"`
	Selected     int      `json:"selected"`
	Flagged      bool     `json:"flagged"`
}

// SessionView is the client shape of a whole session.
type SessionView struct {
	SessionID        string                `json:"session_id"`
	Questions        []SessionQuestionView `json:"questions"`
	TotalQuestions   int                   `json:"total_questions"`
	Answered         int                   `json:"answered"`
	StartedAt        time.Time             `json:"started_at"`
	Deadline         time.Time             `json:"deadline"`
	RemainingSeconds int                   `json:"remaining_seconds"`
	Submitted        bool                  `json:"submitted"`
}

// View builds a consistent client snapshot of the session.
func (s *ExamSession) View(now time.Time) SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions := make([]SessionQuestionView, len(s.Questions))
	for i, q := range s.Questions {
		selected, answered := s.Answers[q.ID]
		if !answered {
			selected = -1
		}
		questions[i] = SessionQuestionView{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			Options:      q.Options(),
			Difficulty:   q.Difficulty,
			CaseID:       q.CaseID,
			Selected:     selected,
			Flagged:      s.Flagged[q.ID],
		}
	}

	return SessionView{
		SessionID:        s.ID,
		Questions:        questions,
		TotalQuestions:   len(s.Questions),
		Answered:         len(s.Answers),
		StartedAt:        s.StartedAt,
		Deadline:         s.Deadline,
		RemainingSeconds: s.Remaining(now),
		Submitted:        s.Submitted,
	}
}

// Progress returns a consistent countdown snapshot.
func (s *ExamSession) Progress(now time.Time) (remaining, answered, total int, submitted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Remaining(now), len(s.Answers), len(s.Questions), s.Submitted
}

// ExamService owns the session registry.
type ExamService struct {
	db       *gorm.DB
	sessions map[string]*ExamSession
	mu       sync.RWMutex
	rng      *rand.Rand
	rngMu    sync.Mutex
}

var examService *ExamService

// InitExamService initializes the singleton exam service.
func InitExamService(db *gorm.DB) {
	examService = NewExamService(db, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// GetExamService returns the initialized exam service.
func GetExamService() *ExamService {
	return examService
}

// NewExamService builds a service with an explicit random source so
// tests can pin the shuffle.
func NewExamService(db *gorm.DB, rng *rand.Rand) *ExamService {
	return &ExamService{
		db:       db,
		sessions: make(map[string]*ExamSession),
		rng:      rng,
	}
}

// SampleQuestions filters the pool to the difficulty set, shuffles with
// Fisher-Yates and returns the first count. The result is shorter than
// count when the filtered pool is smaller.
func SampleQuestions(pool []models.Question, difficulties []string, count int, rng *rand.Rand) []models.Question {
	allowed := make(map[string]bool, len(difficulties))
	for _, d := range difficulties {
		allowed[strings.ToLower(strings.TrimSpace(d))] = true
	}

	filtered := make([]models.Question, 0, len(pool))
	for _, q := range pool {
		if len(allowed) == 0 || allowed[strings.ToLower(q.Difficulty)] {
			filtered = append(filtered, q)
		}
	}

	for i := len(filtered) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		filtered[i], filtered[j] = filtered[j], filtered[i]
	}

	if count > len(filtered) {
		count = len(filtered)
	}
	return filtered[:count]
}

// StartSession draws a frozen question set and opens a timed session.
func (es *ExamService) StartSession(userID uint, difficulties []string, count int, duration time.Duration) (*ExamSession, error) {
	if count <= 0 {
		count = DefaultExamQuestions
	}
	if duration <= 0 {
		duration = DefaultExamDuration
	}

	var pool []models.Question
	query := es.db.Model(&models.Question{})
	if len(difficulties) > 0 {
		query = query.Where("difficulty IN ?", difficulties)
	}
	if err := query.Find(&pool).Error; err != nil {
		return nil, fmt.Errorf("load question pool: %w", err)
	}

	es.rngMu.Lock()
	questions := SampleQuestions(pool, difficulties, count, es.rng)
	es.rngMu.Unlock()

	if len(questions) == 0 {
		return nil, ErrEmptyQuestionPool
	}

	now := time.Now()
	session := &ExamSession{
		ID:           uuid.New().String(),
		UserID:       userID,
		Questions:    questions,
		Answers:      make(map[uint]int),
		Flagged:      make(map[uint]bool),
		Difficulties: difficulties,
		StartedAt:    now,
		Deadline:     now.Add(duration),
	}

	es.mu.Lock()
	es.sessions[session.ID] = session
	es.mu.Unlock()

	return session, nil
}

// GetSession looks up a session owned by the given user.
func (es *ExamService) GetSession(sessionID string, userID uint) (*ExamSession, error) {
	es.mu.RLock()
	session, ok := es.sessions[sessionID]
	es.mu.RUnlock()
	if !ok || session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Answer records a selection for a question. Re-answering overwrites the
// previous choice until submission.
func (es *ExamService) Answer(sessionID string, userID uint, questionID uint, selected int) error {
	session, err := es.GetSession(sessionID, userID)
	if err != nil {
		return err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.Submitted {
		return ErrSessionSubmitted
	}
	if time.Now().After(session.Deadline) {
		return ErrSessionExpired
	}

	var question *models.Question
	for i := range session.Questions {
		if session.Questions[i].ID == questionID {
			question = &session.Questions[i]
			break
		}
	}
	if question == nil {
		return ErrQuestionNotInSet
	}
	if selected < 0 || selected >= len(question.Options()) {
		return ErrInvalidOption
	}

	session.Answers[questionID] = selected
	return nil
}

// ToggleFlag flips the review flag on a question. Flags carry no
// scoring weight.
func (es *ExamService) ToggleFlag(sessionID string, userID uint, questionID uint) (bool, error) {
	session, err := es.GetSession(sessionID, userID)
	if err != nil {
		return false, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.Submitted {
		return false, ErrSessionSubmitted
	}

	found := false
	for i := range session.Questions {
		if session.Questions[i].ID == questionID {
			found = true
			break
		}
	}
	if !found {
		return false, ErrQuestionNotInSet
	}

	session.Flagged[questionID] = !session.Flagged[questionID]
	return session.Flagged[questionID], nil
}

// ScoreExam builds one answer record per session question. Unanswered
// questions contribute selected_answer -1 and are never correct;
// correctness is strict index equality.
func ScoreExam(questions []models.Question, answers map[uint]int) ([]models.AttemptAnswer, int) {
	records := make([]models.AttemptAnswer, 0, len(questions))
	score := 0
	for _, q := range questions {
		selected, answered := answers[q.ID]
		if !answered {
			selected = -1
		}
		correct := answered && selected == q.CorrectAnswer
		if correct {
			score++
		}
		records = append(records, models.AttemptAnswer{
			QuestionID:     q.ID,
			SelectedAnswer: selected,
			IsCorrect:      correct,
		})
	}
	return records, score
}

// Percentage rounds score/total to the nearest whole percent.
func Percentage(score, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// ExamResult is returned on submission.
type ExamResult struct {
	AttemptID    uint                   `json:"attempt_id"`
	Score        int                    `json:"score"`
	Total        int                    `json:"total_questions"`
	Percentage   int                    `json:"percentage"`
	TimeSpent    int                    `json:"time_spent_seconds"`
	PointsEarned int                    `json:"points_earned"`
	TotalPoints  int                    `json:"total_points"`
	Level        int                    `json:"level"`
	NewBadges    []models.Badge         `json:"new_badges"`
	Answers      []models.AttemptAnswer `json:"answers"`
}

// Submit finalizes the session, scoring all questions and persisting the
// attempt and points in one transaction. Submitting twice returns the
// first result.
func (es *ExamService) Submit(sessionID string, userID uint) (*ExamResult, error) {
	session, err := es.GetSession(sessionID, userID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.Submitted {
		return nil, ErrSessionSubmitted
	}

	return es.submitLocked(session)
}

// submitLocked requires session.mu to be held.
func (es *ExamService) submitLocked(session *ExamSession) (*ExamResult, error) {
	now := time.Now()
	answers, score := ScoreExam(session.Questions, session.Answers)
	total := len(session.Questions)
	percentage := Percentage(score, total)

	elapsed := int(now.Sub(session.StartedAt).Seconds())
	if allotted := int(session.Deadline.Sub(session.StartedAt).Seconds()); elapsed > allotted {
		elapsed = allotted
	}

	attempt := models.QuizAttempt{
		UserID:           session.UserID,
		Score:            score,
		TotalQuestions:   total,
		Percentage:       percentage,
		TimeSpentSeconds: elapsed,
		Difficulty:       strings.Join(session.Difficulties, ","),
		IsCompleted:      true,
		IsMockExam:       true,
	}
	if err := attempt.SetAnswers(answers); err != nil {
		return nil, err
	}

	result, err := RecordCompletedAttempt(es.db, &attempt)
	if err != nil {
		return nil, err
	}

	session.Submitted = true
	session.AttemptID = attempt.ID
	return result, nil
}

// SweepExpired auto-submits sessions past their deadline and drops
// submitted ones past the grace period. Returns the auto-submit count.
func (es *ExamService) SweepExpired(now time.Time) int {
	es.mu.Lock()
	sessions := make([]*ExamSession, 0, len(es.sessions))
	for _, s := range es.sessions {
		sessions = append(sessions, s)
	}
	es.mu.Unlock()

	submitted := 0
	for _, session := range sessions {
		session.mu.Lock()
		if !session.Submitted && now.After(session.Deadline) {
			if _, err := es.submitLocked(session); err == nil {
				submitted++
			}
		}
		drop := session.Submitted && now.After(session.Deadline.Add(sessionGracePeriod))
		session.mu.Unlock()

		if drop {
			es.mu.Lock()
			delete(es.sessions, session.ID)
			es.mu.Unlock()
		}
	}
	return submitted
}

// AttemptPoints converts a completed attempt into a point award: 10 per
// correct answer, +50 for a perfect run, 1.5x on hard-only sets.
func AttemptPoints(attempt *models.QuizAttempt) int {
	points := attempt.Score * 10
	if attempt.IsPerfect() {
		points += 50
	}
	if attempt.Difficulty == "hard" {
		points = int(float64(points) * 1.5)
	}
	return points
}

// RecordCompletedAttempt persists a completed attempt together with its
// point award, streak update and badge evaluation in one transaction, so
// a crash cannot leave points behind a recorded attempt.
func RecordCompletedAttempt(db *gorm.DB, attempt *models.QuizAttempt) (*ExamResult, error) {
	earned := AttemptPoints(attempt)
	attempt.PointsEarned = earned

	var result *ExamResult
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return fmt.Errorf("record attempt: %w", err)
		}

		points, err := GetOrCreatePoints(tx, attempt.UserID)
		if err != nil {
			return err
		}
		points.TotalPoints += earned
		UpdateStreak(points, time.Now())

		// Badge requirements look at post-attempt history.
		var attempts []models.QuizAttempt
		if err := tx.Where("user_id = ?", attempt.UserID).Find(&attempts).Error; err != nil {
			return err
		}
		var messagesCount int64
		if err := tx.Model(&models.Message{}).Where("user_id = ?", attempt.UserID).
			Count(&messagesCount).Error; err != nil {
			return err
		}
		stats := ComputeAnalytics(attempts, points, int(messagesCount))

		newBadges, err := EvaluateStoredBadges(tx, attempt.UserID, stats, points)
		if err != nil {
			return err
		}

		points.Level = CalculateLevel(points.TotalPoints).Level
		if err := tx.Save(points).Error; err != nil {
			return fmt.Errorf("update points: %w", err)
		}

		answers, _ := attempt.Answers()
		result = &ExamResult{
			AttemptID:    attempt.ID,
			Score:        attempt.Score,
			Total:        attempt.TotalQuestions,
			Percentage:   attempt.Percentage,
			TimeSpent:    attempt.TimeSpentSeconds,
			PointsEarned: earned,
			TotalPoints:  points.TotalPoints,
			Level:        points.Level,
			NewBadges:    newBadges,
			Answers:      answers,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
