package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"mind-maze/internal/domain"
	"mind-maze/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// promptTemplate instructs the model to generate questions for exactly the
// parameters it is given and to answer with nothing but the JSON document.
// The identifying fields are embedded verbatim and the model is forbidden
// from changing them, which lets the parser verify the echo.
const promptTemplate = `You are a quiz organizer. Your task is to generate a quiz based strictly on the provided details:
- quizId: {quizId} (a unique identifier, do not modify)
- topic: {topic} (e.g., Math, Science, History, as provided in the input)
- difficulty: {difficulty} (e.g., Easy, Medium, Hard, as provided in the input)
- numberOfQuestions: {numberOfQuestions} (an integer, as provided in the input)

Constraints:
1. Do not modify or infer any values for quizId, topic, difficulty, or numberOfQuestions.
2. Generate exactly the number of questions specified in numberOfQuestions.
3. Each question must have four options, and only one correct answer.
4. Ensure the response strictly adheres to the format below.

Expected Response Format:
{
    "quizId": "{quizId}",
    "topic": "{topic}",
    "difficulty": "{difficulty}",
    "numberOfQuestions": {numberOfQuestions},
    "questions": [
        {
            "question": "question-text",
            "options": ["option1", "option2", "option3", "option4"],
            "answer": "correct-answer"
        }
    ]
}

Do not include any additional information or deviate from the format. Only return the JSON response.`

// GenerationService drives a quiz through its generation lifecycle:
// IN_PROGRESS is persisted before the model is contacted, questions are
// persisted before SUCCESS is, and every failure lands the quiz in FAILURE.
type GenerationService struct {
	quizRepo     domain.QuizRepository
	questionRepo domain.QuestionRepository
	modelClient  domain.ModelClient
	parser       *ResponseParser
	jobs         *semaphore.Weighted
}

// NewGenerationService creates a GenerationService. maxConcurrentJobs caps
// how many generation jobs may run at once across all quizzes.
func NewGenerationService(
	quizRepo domain.QuizRepository,
	questionRepo domain.QuestionRepository,
	modelClient domain.ModelClient,
	parser *ResponseParser,
	maxConcurrentJobs int64,
) *GenerationService {
	if maxConcurrentJobs <= 0 {
		maxConcurrentJobs = 1
	}
	return &GenerationService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		modelClient:  modelClient,
		parser:       parser,
		jobs:         semaphore.NewWeighted(maxConcurrentJobs),
	}
}

// StartGeneration schedules a generation job for the quiz and returns
// immediately. The job runs on its own goroutine with its own error
// boundary; the caller observes the outcome through the persisted quiz
// status. The job works on a private copy of the quiz so the caller's
// struct is never touched after this returns.
func (s *GenerationService) StartGeneration(quiz *domain.Quiz) {
	job := *quiz
	go func() {
		quiz := &job
		l := logger.Get()
		defer func() {
			if r := recover(); r != nil {
				l.Error("Panic in generation job",
					zap.String("quiz_id", quiz.ID),
					zap.Any("panic", r))
			}
		}()

		// Detached from the request context; the HTTP caller has already
		// been answered by the time this runs.
		ctx := context.Background()

		if err := s.jobs.Acquire(ctx, 1); err != nil {
			l.Error("Failed to acquire generation slot", zap.Error(err), zap.String("quiz_id", quiz.ID))
			return
		}
		defer s.jobs.Release(1)

		if err := s.Generate(ctx, quiz); err != nil {
			l.Error("Quiz generation failed",
				zap.String("quiz_id", quiz.ID),
				zap.Error(err))
		}
	}()
}

// Generate runs the generation pipeline synchronously. The quiz must already
// be persisted in the NOT_STARTED state.
func (s *GenerationService) Generate(ctx context.Context, quiz *domain.Quiz) error {
	l := logger.Get()

	if !quiz.CreationStatus.CanTransitionTo(domain.CreationInProgress) {
		return domain.NewGenerationFailureError(
			fmt.Sprintf("quiz %s is in state %s, cannot start generation", quiz.ID, quiz.CreationStatus), nil)
	}

	// Persist IN_PROGRESS before contacting the model, so a crash mid-call
	// leaves an observably stuck quiz rather than a false NOT_STARTED.
	if err := s.quizRepo.UpdateQuizStatus(ctx, quiz.ID, domain.CreationInProgress); err != nil {
		return domain.NewGenerationFailureError("failed to mark quiz in progress", err)
	}
	quiz.CreationStatus = domain.CreationInProgress

	prompt := buildPrompt(quiz)
	l.Info("Starting quiz generation",
		zap.String("quiz_id", quiz.ID),
		zap.String("topic", quiz.Topic),
		zap.String("difficulty", quiz.Difficulty),
		zap.Int("num_questions", quiz.NumQuestions))

	raw, err := s.modelClient.Complete(ctx, prompt)
	if err != nil {
		return s.fail(ctx, quiz, domain.NewGenerationFailureError("model call failed", err))
	}

	questions, err := s.parser.Parse(raw, quiz)
	if err != nil {
		return s.fail(ctx, quiz, domain.NewGenerationFailureError("model response rejected", err))
	}

	// Questions first, status second: a reader must never observe SUCCESS
	// with fewer questions than the quiz promises.
	if err := s.questionRepo.SaveQuestions(ctx, questions); err != nil {
		return s.fail(ctx, quiz, domain.NewGenerationFailureError("failed to persist questions", err))
	}
	if err := s.quizRepo.UpdateQuizStatus(ctx, quiz.ID, domain.CreationSuccess); err != nil {
		return domain.NewGenerationFailureError("failed to mark quiz successful", err)
	}
	quiz.CreationStatus = domain.CreationSuccess

	l.Info("Quiz generation succeeded",
		zap.String("quiz_id", quiz.ID),
		zap.Int("questions", len(questions)))
	return nil
}

// fail transitions the quiz to FAILURE and returns cause. A failing status
// write is logged but the original cause still wins.
func (s *GenerationService) fail(ctx context.Context, quiz *domain.Quiz, cause *domain.DomainError) error {
	if err := s.quizRepo.UpdateQuizStatus(ctx, quiz.ID, domain.CreationFailure); err != nil {
		logger.Get().Error("Failed to mark quiz as failed",
			zap.String("quiz_id", quiz.ID),
			zap.Error(err))
	} else {
		quiz.CreationStatus = domain.CreationFailure
	}
	return cause
}

func buildPrompt(quiz *domain.Quiz) string {
	return strings.NewReplacer(
		"{quizId}", quiz.ID,
		"{topic}", quiz.Topic,
		"{difficulty}", quiz.Difficulty,
		"{numberOfQuestions}", strconv.Itoa(quiz.NumQuestions),
	).Replace(promptTemplate)
}
