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

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

const quizColumns = `
		id "id",
		topic "topic",
		difficulty "difficulty",
		num_questions "num_questions",
		user_id "user_id",
		creation_status "creation_status",
		created_at "created_at",
		updated_at "updated_at",
		deleted_at "deleted_at"`

// SaveQuiz implements domain.QuizRepository
func (a *QuizDatabaseAdapter) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	modelQuiz := toModelQuiz(quiz)
	if modelQuiz == nil {
		return fmt.Errorf("cannot save nil quiz")
	}
	if modelQuiz.ID == "" {
		modelQuiz.ID = util.NewULID()
	}
	modelQuiz.CreatedAt = time.Now()
	modelQuiz.UpdatedAt = time.Now()

	query := `INSERT INTO quizzes (
		id, topic, difficulty, num_questions,
		user_id, creation_status, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8
	)`

	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		modelQuiz.ID,
		modelQuiz.Topic,
		modelQuiz.Difficulty,
		modelQuiz.NumQuestions,
		modelQuiz.UserID,
		modelQuiz.CreationStatus,
		modelQuiz.CreatedAt,
		modelQuiz.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz: %w", err)
	}

	quiz.ID = modelQuiz.ID
	quiz.CreatedAt = modelQuiz.CreatedAt
	quiz.UpdatedAt = modelQuiz.UpdatedAt
	return nil
}

// GetQuizByID implements domain.QuizRepository
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	var modelQuiz models.Quiz
	query := `SELECT ` + quizColumns + `
	FROM quizzes
	WHERE id = :1
	AND deleted_at IS NULL`

	err := GetExecutor(ctx, a.db).GetContext(ctx, &modelQuiz, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by ID %s: %w", id, err)
	}
	return toDomainQuiz(&modelQuiz), nil
}

// UpdateQuizStatus implements domain.QuizRepository
func (a *QuizDatabaseAdapter) UpdateQuizStatus(ctx context.Context, quizID string, status domain.CreationStatus) error {
	query := `UPDATE quizzes SET
		creation_status = :1,
		updated_at = :2
	WHERE id = :3
	AND deleted_at IS NULL`

	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, string(status), time.Now(), quizID)
	if err != nil {
		return fmt.Errorf("failed to update quiz status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("quiz with ID %s not found or not updated", quizID)
	}
	return nil
}

// ListQuizzesByUser implements domain.QuizRepository
func (a *QuizDatabaseAdapter) ListQuizzesByUser(ctx context.Context, userID string) ([]*domain.Quiz, error) {
	var modelQuizzes []*models.Quiz
	query := `SELECT ` + quizColumns + `
	FROM quizzes
	WHERE user_id = :1
	AND deleted_at IS NULL
	ORDER BY created_at DESC`

	err := GetExecutor(ctx, a.db).SelectContext(ctx, &modelQuizzes, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes for user %s: %w", userID, err)
	}

	domainQuizzes := make([]*domain.Quiz, 0, len(modelQuizzes))
	for _, mq := range modelQuizzes {
		domainQuizzes = append(domainQuizzes, toDomainQuiz(mq))
	}
	return domainQuizzes, nil
}

// DeleteQuiz implements domain.QuizRepository. The quiz row is soft-deleted;
// question and progress rows are removed by their own repositories within the
// surrounding transaction.
func (a *QuizDatabaseAdapter) DeleteQuiz(ctx context.Context, quizID string) error {
	query := `UPDATE quizzes SET
		deleted_at = :1,
		updated_at = :2
	WHERE id = :3
	AND deleted_at IS NULL`

	result, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, time.Now(), time.Now(), quizID)
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("quiz with ID %s not found", quizID)
	}
	return nil
}

// Helper functions for model conversion
func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	if m == nil {
		return nil
	}
	return &domain.Quiz{
		ID:             m.ID,
		Topic:          m.Topic,
		Difficulty:     m.Difficulty,
		NumQuestions:   m.NumQuestions,
		UserID:         m.UserID,
		CreationStatus: domain.CreationStatus(m.CreationStatus),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toModelQuiz(d *domain.Quiz) *models.Quiz {
	if d == nil {
		return nil
	}
	return &models.Quiz{
		ID:             d.ID,
		Topic:          d.Topic,
		Difficulty:     d.Difficulty,
		NumQuestions:   d.NumQuestions,
		UserID:         d.UserID,
		CreationStatus: string(d.CreationStatus),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}
