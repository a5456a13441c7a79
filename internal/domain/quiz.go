package domain

import (
	"strings"
	"time"
)

// CreationStatus is the lifecycle state of a quiz's question generation.
type CreationStatus string

const (
	CreationNotStarted CreationStatus = "NOT_STARTED"
	CreationInProgress CreationStatus = "IN_PROGRESS"
	CreationSuccess    CreationStatus = "SUCCESS"
	CreationFailure    CreationStatus = "FAILURE"
)

// CanTransitionTo reports whether the status may advance to next.
// The only valid path is NOT_STARTED -> IN_PROGRESS -> {SUCCESS, FAILURE}.
func (s CreationStatus) CanTransitionTo(next CreationStatus) bool {
	switch s {
	case CreationNotStarted:
		return next == CreationInProgress
	case CreationInProgress:
		return next == CreationSuccess || next == CreationFailure
	default:
		return false
	}
}

// IsTerminal reports whether the status is a final state.
func (s CreationStatus) IsTerminal() bool {
	return s == CreationSuccess || s == CreationFailure
}

// OptionsPerQuestion is the fixed answer-option arity for generated questions.
const OptionsPerQuestion = 4

// Quiz represents a generated set of questions under one topic, difficulty
// and requested count, with a generation lifecycle status.
type Quiz struct {
	ID             string
	Topic          string
	Difficulty     string
	NumQuestions   int
	UserID         string
	CreationStatus CreationStatus
	Questions      []*Question
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewQuiz creates a Quiz in the NOT_STARTED state for the given user.
func NewQuiz(userID, topic, difficulty string, numQuestions int) *Quiz {
	now := time.Now()
	return &Quiz{
		UserID:         userID,
		Topic:          topic,
		Difficulty:     difficulty,
		NumQuestions:   numQuestions,
		CreationStatus: CreationNotStarted,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Validate validates the quiz creation parameters.
func (q *Quiz) Validate() error {
	if q.UserID == "" {
		return NewInvalidInputError("user ID is required")
	}
	if strings.TrimSpace(q.Topic) == "" {
		return NewInvalidInputError("topic is required")
	}
	if strings.TrimSpace(q.Difficulty) == "" {
		return NewInvalidInputError("difficulty is required")
	}
	if q.NumQuestions <= 0 {
		return NewInvalidInputError("number of questions must be positive")
	}
	return nil
}

// Question is a single generated question. Questions are created only by the
// generation pipeline and are immutable afterwards.
type Question struct {
	ID            string
	QuizID        string
	Text          string
	Options       []string
	CorrectAnswer string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks the structural invariants of a generated question.
func (q *Question) Validate() error {
	if q.Text == "" {
		return NewInvalidInputError("question text is required")
	}
	if len(q.Options) != OptionsPerQuestion {
		return NewInvalidInputError("question must have exactly four options")
	}
	if !q.HasOption(q.CorrectAnswer) {
		return NewInvalidInputError("correct answer must be one of the options")
	}
	return nil
}

// HasOption reports whether value matches one of the options, ignoring case.
func (q *Question) HasOption(value string) bool {
	for _, opt := range q.Options {
		if strings.EqualFold(opt, value) {
			return true
		}
	}
	return false
}

// IsCorrect reports whether the selected option matches the correct answer,
// ignoring case.
func (q *Question) IsCorrect(selected string) bool {
	return strings.EqualFold(q.CorrectAnswer, selected)
}

// Progress tracks one user's session on one quiz: which questions were
// issued, what is currently pending an answer, and the running score.
type Progress struct {
	ID                  string
	UserID              string
	QuizID              string
	AskedQuestionIDs    []string
	AnsweredQuestionIDs []string
	CurrentQuestionID   string
	Score               int
	WrongAnswers        int
	TotalQuestions      int
	Completed           bool
	Version             int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewProgress creates a fresh Progress for the (user, quiz) pair with the
// quiz question count snapshotted as TotalQuestions.
func NewProgress(userID, quizID string, totalQuestions int) *Progress {
	now := time.Now()
	return &Progress{
		UserID:              userID,
		QuizID:              quizID,
		AskedQuestionIDs:    []string{},
		AnsweredQuestionIDs: []string{},
		TotalQuestions:      totalQuestions,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// HasAsked reports whether the question id was already issued in this session.
func (p *Progress) HasAsked(questionID string) bool {
	for _, id := range p.AskedQuestionIDs {
		if id == questionID {
			return true
		}
	}
	return false
}

// MarkAsked records the question as issued and pending an answer. Duplicate
// ids are ignored so the asked set stays a set.
func (p *Progress) MarkAsked(questionID string) {
	if !p.HasAsked(questionID) {
		p.AskedQuestionIDs = append(p.AskedQuestionIDs, questionID)
	}
	p.CurrentQuestionID = questionID
}

// HasAnswered reports whether the question id was already answered in this
// session.
func (p *Progress) HasAnswered(questionID string) bool {
	for _, id := range p.AnsweredQuestionIDs {
		if id == questionID {
			return true
		}
	}
	return false
}

// RecordAnswer tallies an answer outcome and moves the current-question
// pointer to the answered question. Each question counts exactly once; a
// repeat answer is a no-op. Completed flips once every question has been
// issued and answered.
func (p *Progress) RecordAnswer(questionID string, correct bool) {
	if p.HasAnswered(questionID) {
		return
	}
	p.AnsweredQuestionIDs = append(p.AnsweredQuestionIDs, questionID)
	if correct {
		p.Score++
	} else {
		p.WrongAnswers++
	}
	p.CurrentQuestionID = questionID
	if len(p.AskedQuestionIDs) >= p.TotalQuestions && len(p.AnsweredQuestionIDs) >= p.TotalQuestions {
		p.Completed = true
	}
}
