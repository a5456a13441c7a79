package service

import (
	"context"

	"mind-maze/internal/domain"
	"mind-maze/internal/dto"
	"mind-maze/internal/logger"

	"go.uber.org/zap"
)

// maxQuestionsPerQuiz bounds the requested count so a single request cannot
// monopolize the model server.
const maxQuestionsPerQuiz = 50

// QuizGenerator schedules background question generation for a quiz.
type QuizGenerator interface {
	StartGeneration(quiz *domain.Quiz)
}

// QuizService handles the quiz CRUD surface: creation (which triggers
// generation), status reads, listing, and cascading deletion.
type QuizService struct {
	quizRepo      domain.QuizRepository
	questionRepo  domain.QuestionRepository
	progressRepo  domain.ProgressRepository
	generator     QuizGenerator
	txManager     domain.TransactionManager
	questionCache *QuestionCache
}

// NewQuizService creates a QuizService.
func NewQuizService(
	quizRepo domain.QuizRepository,
	questionRepo domain.QuestionRepository,
	progressRepo domain.ProgressRepository,
	generator QuizGenerator,
	txManager domain.TransactionManager,
	questionCache *QuestionCache,
) *QuizService {
	return &QuizService{
		quizRepo:      quizRepo,
		questionRepo:  questionRepo,
		progressRepo:  progressRepo,
		generator:     generator,
		txManager:     txManager,
		questionCache: questionCache,
	}
}

// CreateQuiz validates the request, persists the quiz in NOT_STARTED and
// schedules generation. It returns before any model work happens; the
// caller polls the creation status.
func (s *QuizService) CreateQuiz(ctx context.Context, userID string, req dto.CreateQuizRequest) (*dto.QuizResponse, error) {
	quiz := domain.NewQuiz(userID, req.Topic, req.Difficulty, req.NumQuestions)
	if err := quiz.Validate(); err != nil {
		return nil, err
	}
	if quiz.NumQuestions > maxQuestionsPerQuiz {
		return nil, domain.NewInvalidInputError("number of questions is too large")
	}

	if err := s.quizRepo.SaveQuiz(ctx, quiz); err != nil {
		return nil, domain.NewInternalError("failed to save quiz", err)
	}

	logger.Get().Info("Quiz created, scheduling generation",
		zap.String("quiz_id", quiz.ID),
		zap.String("user_id", userID),
		zap.String("topic", quiz.Topic))

	// Snapshot the response before the generation job is scheduled so the
	// caller always sees the quiz as it was created, in NOT_STARTED.
	resp := toQuizResponse(quiz)
	s.generator.StartGeneration(quiz)

	return resp, nil
}

// GetQuiz returns the quiz if it exists and belongs to the user.
func (s *QuizService) GetQuiz(ctx context.Context, userID, quizID string) (*dto.QuizResponse, error) {
	quiz, err := s.getOwnedQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	return toQuizResponse(quiz), nil
}

// ListQuizzes returns all quizzes owned by the user, newest first.
func (s *QuizService) ListQuizzes(ctx context.Context, userID string) ([]*dto.QuizResponse, error) {
	quizzes, err := s.quizRepo.ListQuizzesByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list quizzes", err)
	}
	responses := make([]*dto.QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		responses = append(responses, toQuizResponse(quiz))
	}
	return responses, nil
}

// DeleteQuiz removes the quiz together with its questions and any progress
// referencing it. The three deletes are one atomic unit.
func (s *QuizService) DeleteQuiz(ctx context.Context, userID, quizID string) error {
	quiz, err := s.getOwnedQuiz(ctx, userID, quizID)
	if err != nil {
		return err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.progressRepo.DeleteProgressByQuiz(txCtx, quiz.ID); err != nil {
			return err
		}
		if err := s.questionRepo.DeleteQuestionsByQuiz(txCtx, quiz.ID); err != nil {
			return err
		}
		return s.quizRepo.DeleteQuiz(txCtx, quiz.ID)
	})
	if err != nil {
		return domain.NewInternalError("failed to delete quiz", err)
	}

	s.questionCache.Invalidate(ctx, quiz.ID)

	logger.Get().Info("Quiz deleted",
		zap.String("quiz_id", quiz.ID),
		zap.String("user_id", userID))
	return nil
}

// getOwnedQuiz fetches the quiz and hides its existence from non-owners.
func (s *QuizService) getOwnedQuiz(ctx context.Context, userID, quizID string) (*domain.Quiz, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get quiz", err)
	}
	if quiz == nil || quiz.UserID != userID {
		return nil, domain.NewQuizNotFoundError(quizID)
	}
	return quiz, nil
}

func toQuizResponse(quiz *domain.Quiz) *dto.QuizResponse {
	return &dto.QuizResponse{
		ID:             quiz.ID,
		Topic:          quiz.Topic,
		Difficulty:     quiz.Difficulty,
		NumQuestions:   quiz.NumQuestions,
		CreationStatus: string(quiz.CreationStatus),
	}
}
