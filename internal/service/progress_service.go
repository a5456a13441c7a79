package service

import (
	"context"

	"mind-maze/internal/domain"
	"mind-maze/internal/dto"
	"mind-maze/internal/logger"

	"go.uber.org/zap"
)

// progressWriteRetries bounds how often a progress mutation is retried when
// a concurrent writer bumps the row version first. Each retry re-reads the
// row and re-applies the mutation against fresh state.
const progressWriteRetries = 3

// ProgressService owns the per-(user, quiz) session state machine: question
// issue without repetition, answer recording, resume, and score snapshots.
type ProgressService struct {
	quizRepo     domain.QuizRepository
	progressRepo domain.ProgressRepository
	questions    *QuestionCache
}

// NewProgressService creates a ProgressService.
func NewProgressService(
	quizRepo domain.QuizRepository,
	progressRepo domain.ProgressRepository,
	questions *QuestionCache,
) *ProgressService {
	return &ProgressService{
		quizRepo:     quizRepo,
		progressRepo: progressRepo,
		questions:    questions,
	}
}

// NextQuestion issues one not-yet-seen question for the session, creating
// the progress row lazily on first call. Once every question has been
// issued it fails with QUESTIONS_EXHAUSTED, a terminal signal rather than
// a retryable error.
func (s *ProgressService) NextQuestion(ctx context.Context, userID, quizID string) (*dto.QuestionResponse, error) {
	questions, err := s.readyQuizQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}

	var issued *domain.Question
	err = s.withProgressRetry(ctx, func() error {
		progress, err := s.progressRepo.GetProgress(ctx, userID, quizID)
		if err != nil {
			return domain.NewInternalError("failed to get progress", err)
		}
		if progress == nil {
			progress = domain.NewProgress(userID, quizID, len(questions))
		}

		issued = pickUnseen(questions, progress)
		if issued == nil {
			return domain.NewQuestionsExhaustedError(userID, quizID)
		}

		progress.MarkAsked(issued.ID)
		return s.progressRepo.SaveProgress(ctx, progress)
	})
	if err != nil {
		return nil, err
	}

	return toQuestionResponse(issued), nil
}

// RecordAnswer scores the selected option against the question's correct
// answer, case-insensitively, and moves the current-question pointer. A
// question scores at most once per session; answering it again is rejected
// as invalid input.
func (s *ProgressService) RecordAnswer(ctx context.Context, userID, quizID string, req dto.RecordAnswerRequest) (*dto.AnswerResultResponse, error) {
	if req.QuestionID == "" {
		return nil, domain.NewInvalidInputError("question ID is required")
	}

	questions, err := s.readyQuizQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}

	question := findQuestion(questions, req.QuestionID)
	if question == nil {
		other, err := s.questions.GetQuestion(ctx, req.QuestionID)
		if err != nil {
			return nil, domain.NewInternalError("failed to look up question", err)
		}
		if other == nil {
			return nil, domain.NewQuestionNotFoundError(req.QuestionID)
		}
		// A real question from another quiz is invalid input, not a missing
		// resource.
		return nil, domain.NewInvalidInputError("question does not belong to this quiz")
	}

	correct := question.IsCorrect(req.SelectedOption)

	err = s.withProgressRetry(ctx, func() error {
		progress, err := s.progressRepo.GetProgress(ctx, userID, quizID)
		if err != nil {
			return domain.NewInternalError("failed to get progress", err)
		}
		if progress == nil {
			return domain.NewProgressNotFoundError(userID, quizID)
		}
		if progress.HasAnswered(question.ID) {
			return domain.NewInvalidInputError("question has already been answered")
		}

		progress.RecordAnswer(question.ID, correct)
		return s.progressRepo.SaveProgress(ctx, progress)
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Debug("Answer recorded",
		zap.String("user_id", userID),
		zap.String("quiz_id", quizID),
		zap.String("question_id", question.ID),
		zap.Bool("correct", correct))

	return &dto.AnswerResultResponse{
		IsCorrect:     correct,
		CorrectOption: question.CorrectAnswer,
		Question:      question.Text,
	}, nil
}

// Resume re-issues the question currently pending an answer, without any
// mutation. An absent session is an empty result, not an error.
func (s *ProgressService) Resume(ctx context.Context, userID, quizID string) (*dto.ResumeResponse, error) {
	questions, err := s.readyQuizQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}

	progress, err := s.progressRepo.GetProgress(ctx, userID, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get progress", err)
	}
	if progress == nil || progress.CurrentQuestionID == "" {
		return &dto.ResumeResponse{}, nil
	}

	question := findQuestion(questions, progress.CurrentQuestionID)
	if question == nil {
		return nil, domain.NewQuestionNotFoundError(progress.CurrentQuestionID)
	}
	return &dto.ResumeResponse{Question: toQuestionResponse(question)}, nil
}

// GetScore returns a read-only snapshot of the session's score.
func (s *ProgressService) GetScore(ctx context.Context, userID, quizID string) (*dto.ScoreResponse, error) {
	progress, err := s.progressRepo.GetProgress(ctx, userID, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get progress", err)
	}
	if progress == nil {
		return nil, domain.NewProgressNotFoundError(userID, quizID)
	}
	return &dto.ScoreResponse{
		CorrectAnswers: progress.Score,
		WrongAnswers:   progress.WrongAnswers,
		TotalQuestions: progress.TotalQuestions,
	}, nil
}

// readyQuizQuestions loads the quiz's questions after checking the quiz
// exists and generation has succeeded.
func (s *ProgressService) readyQuizQuestions(ctx context.Context, quizID string) ([]*domain.Question, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}
	if quiz.CreationStatus != domain.CreationSuccess {
		return nil, domain.NewInvalidInputError("quiz questions are not ready yet")
	}

	questions, err := s.questions.GetQuestions(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load quiz questions", err)
	}
	return questions, nil
}

// withProgressRetry runs a read-modify-write cycle against the progress row,
// retrying when a concurrent writer invalidated the version read.
func (s *ProgressService) withProgressRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < progressWriteRetries; attempt++ {
		err = fn()
		if err != domain.ErrProgressConflict {
			return err
		}
		logger.Get().Debug("Progress version conflict, retrying", zap.Int("attempt", attempt+1))
	}
	return domain.NewInternalError("progress update kept conflicting", err)
}

// pickUnseen returns the first question not yet issued in this session.
// Issue order follows storage order, which is stable; the contract only
// requires that no question repeats.
func pickUnseen(questions []*domain.Question, progress *domain.Progress) *domain.Question {
	for _, q := range questions {
		if !progress.HasAsked(q.ID) {
			return q
		}
	}
	return nil
}

func findQuestion(questions []*domain.Question, id string) *domain.Question {
	for _, q := range questions {
		if q.ID == id {
			return q
		}
	}
	return nil
}

func toQuestionResponse(q *domain.Question) *dto.QuestionResponse {
	return &dto.QuestionResponse{
		ID:       q.ID,
		Question: q.Text,
		Options:  q.Options,
	}
}
