package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"mind-maze/internal/domain"
	"mind-maze/internal/repository/models"
	"mind-maze/internal/util"

	"github.com/jmoiron/sqlx"
)

// ProgressDatabaseAdapter implements domain.ProgressRepository using sqlx.DB
type ProgressDatabaseAdapter struct {
	db *sqlx.DB
}

// NewProgressDatabaseAdapter creates a new instance of ProgressDatabaseAdapter
func NewProgressDatabaseAdapter(db *sqlx.DB) domain.ProgressRepository {
	return &ProgressDatabaseAdapter{db: db}
}

const progressColumns = `
		id "id",
		user_id "user_id",
		quiz_id "quiz_id",
		asked_question_ids "asked_question_ids",
		answered_question_ids "answered_question_ids",
		current_question_id "current_question_id",
		score "score",
		wrong_answers "wrong_answers",
		total_questions "total_questions",
		completed "completed",
		version "version",
		created_at "created_at",
		updated_at "updated_at"`

// GetProgress implements domain.ProgressRepository
func (a *ProgressDatabaseAdapter) GetProgress(ctx context.Context, userID, quizID string) (*domain.Progress, error) {
	var modelProgress models.Progress
	query := `SELECT ` + progressColumns + `
	FROM quiz_progress
	WHERE user_id = :1
	AND quiz_id = :2`

	err := GetExecutor(ctx, a.db).GetContext(ctx, &modelProgress, query, userID, quizID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get progress for user %s, quiz %s: %w", userID, quizID, err)
	}
	return toDomainProgress(&modelProgress), nil
}

// SaveProgress implements domain.ProgressRepository. Inserts assign a fresh
// id and version 1. Updates are guarded by the row version; when the version
// in the database no longer matches, domain.ErrProgressConflict is returned
// so the caller can re-read and retry.
func (a *ProgressDatabaseAdapter) SaveProgress(ctx context.Context, progress *domain.Progress) error {
	modelProgress := toModelProgress(progress)
	if modelProgress == nil {
		return fmt.Errorf("cannot save nil progress")
	}

	askedVal, err := modelProgress.AskedQuestionIDs.Value()
	if err != nil {
		return fmt.Errorf("failed to encode asked question ids: %w", err)
	}
	answeredVal, err := modelProgress.AnsweredQuestionIDs.Value()
	if err != nil {
		return fmt.Errorf("failed to encode answered question ids: %w", err)
	}

	executor := GetExecutor(ctx, a.db)
	now := time.Now()

	if modelProgress.ID == "" {
		modelProgress.ID = util.NewULID()
		query := `INSERT INTO quiz_progress (
			id, user_id, quiz_id, asked_question_ids, answered_question_ids,
			current_question_id, score, wrong_answers, total_questions,
			completed, version, created_at, updated_at
		) VALUES (
			:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11, :12, :13
		)`

		_, err := executor.ExecContext(ctx, query,
			modelProgress.ID,
			modelProgress.UserID,
			modelProgress.QuizID,
			askedVal,
			answeredVal,
			modelProgress.CurrentQuestionID,
			modelProgress.Score,
			modelProgress.WrongAnswers,
			modelProgress.TotalQuestions,
			boolToInt(modelProgress.Completed),
			int64(1),
			now,
			now,
		)
		if err != nil {
			// Two sessions can race past the existence check and both try the
			// first insert; the loser trips uq_quiz_progress_user_quiz and
			// must re-read the winner's row.
			if isUniqueViolation(err) {
				return domain.ErrProgressConflict
			}
			return fmt.Errorf("failed to insert progress: %w", err)
		}
		progress.ID = modelProgress.ID
		progress.Version = 1
		progress.CreatedAt = now
		progress.UpdatedAt = now
		return nil
	}

	query := `UPDATE quiz_progress SET
		asked_question_ids = :1,
		answered_question_ids = :2,
		current_question_id = :3,
		score = :4,
		wrong_answers = :5,
		completed = :6,
		version = :7,
		updated_at = :8
	WHERE id = :9
	AND version = :10`

	result, err := executor.ExecContext(ctx, query,
		askedVal,
		answeredVal,
		modelProgress.CurrentQuestionID,
		modelProgress.Score,
		modelProgress.WrongAnswers,
		boolToInt(modelProgress.Completed),
		modelProgress.Version+1,
		now,
		modelProgress.ID,
		modelProgress.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrProgressConflict
	}

	progress.Version = modelProgress.Version + 1
	progress.UpdatedAt = now
	return nil
}

// DeleteProgressByQuiz implements domain.ProgressRepository
func (a *ProgressDatabaseAdapter) DeleteProgressByQuiz(ctx context.Context, quizID string) error {
	query := `DELETE FROM quiz_progress WHERE quiz_id = :1`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, quizID)
	if err != nil {
		return fmt.Errorf("failed to delete progress for quiz %s: %w", quizID, err)
	}
	return nil
}

// isUniqueViolation reports whether the driver error is an ORA-00001
// unique-constraint violation. go-ora surfaces it as a plain error string,
// so match on the Oracle error code.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "ORA-00001")
}

// Oracle has no boolean column type; COMPLETED is NUMBER(1).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func toDomainProgress(m *models.Progress) *domain.Progress {
	if m == nil {
		return nil
	}
	asked := []string(m.AskedQuestionIDs)
	if asked == nil {
		asked = []string{}
	}
	answered := []string(m.AnsweredQuestionIDs)
	if answered == nil {
		answered = []string{}
	}
	return &domain.Progress{
		ID:                  m.ID,
		UserID:              m.UserID,
		QuizID:              m.QuizID,
		AskedQuestionIDs:    asked,
		AnsweredQuestionIDs: answered,
		CurrentQuestionID:   m.CurrentQuestionID.String,
		Score:               m.Score,
		WrongAnswers:        m.WrongAnswers,
		TotalQuestions:      m.TotalQuestions,
		Completed:           m.Completed,
		Version:             m.Version,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func toModelProgress(d *domain.Progress) *models.Progress {
	if d == nil {
		return nil
	}
	return &models.Progress{
		ID:                  d.ID,
		UserID:              d.UserID,
		QuizID:              d.QuizID,
		AskedQuestionIDs:    models.StringSlice(d.AskedQuestionIDs),
		AnsweredQuestionIDs: models.StringSlice(d.AnsweredQuestionIDs),
		CurrentQuestionID:   util.StringToNullString(d.CurrentQuestionID),
		Score:               d.Score,
		WrongAnswers:        d.WrongAnswers,
		TotalQuestions:      d.TotalQuestions,
		Completed:           d.Completed,
		Version:             d.Version,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}
