package domain

import "context"

// QuizRepository defines the persistence contract for quizzes.
type QuizRepository interface {
	// SaveQuiz persists a new quiz.
	SaveQuiz(ctx context.Context, quiz *Quiz) error

	// GetQuizByID retrieves a quiz by its ID. Returns (nil, nil) when absent.
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)

	// UpdateQuizStatus durably records a creation-status transition.
	UpdateQuizStatus(ctx context.Context, quizID string, status CreationStatus) error

	// ListQuizzesByUser returns all quizzes owned by the user.
	ListQuizzesByUser(ctx context.Context, userID string) ([]*Quiz, error)

	// DeleteQuiz removes the quiz row. Questions and progress rows are
	// removed by their own repositories inside the same transaction.
	DeleteQuiz(ctx context.Context, quizID string) error
}

// QuestionRepository defines the persistence contract for generated questions.
type QuestionRepository interface {
	// SaveQuestions persists a batch of questions for one quiz.
	SaveQuestions(ctx context.Context, questions []*Question) error

	// GetQuestionByID retrieves a question by its ID. Returns (nil, nil) when absent.
	GetQuestionByID(ctx context.Context, id string) (*Question, error)

	// ListQuestionsByQuiz returns the quiz's questions in insertion order.
	ListQuestionsByQuiz(ctx context.Context, quizID string) ([]*Question, error)

	// DeleteQuestionsByQuiz removes all questions belonging to the quiz.
	DeleteQuestionsByQuiz(ctx context.Context, quizID string) error
}

// ErrProgressConflict is returned by SaveProgress when the row was modified
// concurrently; callers should re-read and retry the mutation.
const ErrProgressConflict = progressConflictError("progress: concurrent modification")

type progressConflictError string

func (e progressConflictError) Error() string { return string(e) }

// ProgressRepository defines the persistence contract for attempt progress.
type ProgressRepository interface {
	// GetProgress retrieves the progress row for the (user, quiz) pair.
	// Returns (nil, nil) when absent.
	GetProgress(ctx context.Context, userID, quizID string) (*Progress, error)

	// SaveProgress inserts or updates a progress row. Updates are guarded by
	// the row version; a stale version yields ErrProgressConflict.
	SaveProgress(ctx context.Context, progress *Progress) error

	// DeleteProgressByQuiz removes all progress rows referencing the quiz.
	DeleteProgressByQuiz(ctx context.Context, quizID string) error
}

// TransactionManager runs a function inside a storage transaction. The
// transaction is carried in the context so repository calls made by fn
// participate in it.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
