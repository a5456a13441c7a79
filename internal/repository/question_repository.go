package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mind-maze/internal/domain"
	"mind-maze/internal/repository/models"
	"mind-maze/internal/util"

	"github.com/jmoiron/sqlx"
)

// QuestionDatabaseAdapter implements domain.QuestionRepository using sqlx.DB
type QuestionDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuestionDatabaseAdapter creates a new instance of QuestionDatabaseAdapter
func NewQuestionDatabaseAdapter(db *sqlx.DB) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db}
}

const questionColumns = `
		id "id",
		quiz_id "quiz_id",
		question_text "question_text",
		options "options",
		correct_answer "correct_answer",
		created_at "created_at",
		updated_at "updated_at"`

// SaveQuestions implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) SaveQuestions(ctx context.Context, questions []*domain.Question) error {
	query := `INSERT INTO quiz_questions (
		id, quiz_id, question_text, options, correct_answer, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7
	)`

	executor := GetExecutor(ctx, a.db)
	now := time.Now()

	for _, question := range questions {
		modelQuestion := toModelQuestion(question)
		if modelQuestion == nil {
			return fmt.Errorf("cannot save nil question")
		}
		if modelQuestion.ID == "" {
			modelQuestion.ID = util.NewULID()
		}
		modelQuestion.CreatedAt = now
		modelQuestion.UpdatedAt = now

		// go-ora wants the CLOB payload as a plain string
		optionsVal, err := modelQuestion.Options.Value()
		if err != nil {
			return fmt.Errorf("failed to encode question options: %w", err)
		}

		_, err = executor.ExecContext(ctx, query,
			modelQuestion.ID,
			modelQuestion.QuizID,
			modelQuestion.QuestionText,
			optionsVal,
			modelQuestion.CorrectAnswer,
			modelQuestion.CreatedAt,
			modelQuestion.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save question: %w", err)
		}

		question.ID = modelQuestion.ID
		question.CreatedAt = modelQuestion.CreatedAt
		question.UpdatedAt = modelQuestion.UpdatedAt
	}
	return nil
}

// GetQuestionByID implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetQuestionByID(ctx context.Context, id string) (*domain.Question, error) {
	var modelQuestion models.Question
	query := `SELECT ` + questionColumns + `
	FROM quiz_questions
	WHERE id = :1`

	err := GetExecutor(ctx, a.db).GetContext(ctx, &modelQuestion, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question by ID %s: %w", id, err)
	}
	return toDomainQuestion(&modelQuestion), nil
}

// ListQuestionsByQuiz implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) ListQuestionsByQuiz(ctx context.Context, quizID string) ([]*domain.Question, error) {
	var modelQuestions []*models.Question
	query := `SELECT ` + questionColumns + `
	FROM quiz_questions
	WHERE quiz_id = :1
	ORDER BY id ASC`

	err := GetExecutor(ctx, a.db).SelectContext(ctx, &modelQuestions, query, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions for quiz %s: %w", quizID, err)
	}

	questions := make([]*domain.Question, 0, len(modelQuestions))
	for _, mq := range modelQuestions {
		questions = append(questions, toDomainQuestion(mq))
	}
	return questions, nil
}

// DeleteQuestionsByQuiz implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) DeleteQuestionsByQuiz(ctx context.Context, quizID string) error {
	query := `DELETE FROM quiz_questions WHERE quiz_id = :1`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, quizID)
	if err != nil {
		return fmt.Errorf("failed to delete questions for quiz %s: %w", quizID, err)
	}
	return nil
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	return &domain.Question{
		ID:            m.ID,
		QuizID:        m.QuizID,
		Text:          m.QuestionText,
		Options:       []string(m.Options),
		CorrectAnswer: m.CorrectAnswer,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toModelQuestion(d *domain.Question) *models.Question {
	if d == nil {
		return nil
	}
	return &models.Question{
		ID:            d.ID,
		QuizID:        d.QuizID,
		QuestionText:  d.Text,
		Options:       models.StringSlice(d.Options),
		CorrectAnswer: d.CorrectAnswer,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
