package service

import (
	"context"
	"errors"
	"testing"

	"mind-maze/internal/domain"
	"mind-maze/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) StartGeneration(quiz *domain.Quiz) {
	m.Called(quiz)
}

type quizFixture struct {
	svc          *QuizService
	quizRepo     *MockQuizRepository
	questionRepo *MockQuestionRepository
	progressRepo *MockProgressRepository
	generator    *MockGenerator
	txManager    *MockTransactionManager
	cache        *MockCache
}

func newQuizFixture() *quizFixture {
	quizRepo := new(MockQuizRepository)
	questionRepo := new(MockQuestionRepository)
	progressRepo := new(MockProgressRepository)
	generator := new(MockGenerator)
	txManager := new(MockTransactionManager)
	cacheMock := new(MockCache)
	cacheMock.On("Delete", mock.Anything, mock.Anything).Return(nil).Maybe()

	svc := NewQuizService(
		quizRepo, questionRepo, progressRepo, generator, txManager,
		NewQuestionCache(questionRepo, cacheMock),
	)
	return &quizFixture{
		svc:          svc,
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		progressRepo: progressRepo,
		generator:    generator,
		txManager:    txManager,
		cache:        cacheMock,
	}
}

func TestQuizService_CreateQuiz(t *testing.T) {
	f := newQuizFixture()
	ctx := context.Background()

	f.quizRepo.On("SaveQuiz", ctx, mock.MatchedBy(func(q *domain.Quiz) bool {
		return q.Topic == "Math" &&
			q.Difficulty == "Easy" &&
			q.NumQuestions == 5 &&
			q.UserID == "user-1" &&
			q.CreationStatus == domain.CreationNotStarted
	})).Return(nil).Once()
	f.generator.On("StartGeneration", mock.Anything).Return().Once()

	resp, err := f.svc.CreateQuiz(ctx, "user-1", dto.CreateQuizRequest{
		Topic:        "Math",
		Difficulty:   "Easy",
		NumQuestions: 5,
	})

	assert.NoError(t, err)
	assert.Equal(t, string(domain.CreationNotStarted), resp.CreationStatus)
	f.quizRepo.AssertExpectations(t)
	f.generator.AssertExpectations(t)
}

func TestQuizService_CreateQuiz_ResponseBuiltBeforeGenerationStarts(t *testing.T) {
	f := newQuizFixture()
	ctx := context.Background()

	f.quizRepo.On("SaveQuiz", ctx, mock.Anything).Return(nil).Once()
	// A fast generation job may flip the status before CreateQuiz returns;
	// the response must still show the quiz as it was created.
	f.generator.On("StartGeneration", mock.Anything).Run(func(args mock.Arguments) {
		args.Get(0).(*domain.Quiz).CreationStatus = domain.CreationInProgress
	}).Once()

	resp, err := f.svc.CreateQuiz(ctx, "user-1", dto.CreateQuizRequest{
		Topic:        "History",
		Difficulty:   "Hard",
		NumQuestions: 3,
	})

	assert.NoError(t, err)
	assert.Equal(t, string(domain.CreationNotStarted), resp.CreationStatus)
	f.generator.AssertExpectations(t)
}

func TestQuizService_CreateQuiz_InvalidInput(t *testing.T) {
	f := newQuizFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.CreateQuizRequest
	}{
		{"empty topic", dto.CreateQuizRequest{Topic: " ", Difficulty: "Easy", NumQuestions: 5}},
		{"empty difficulty", dto.CreateQuizRequest{Topic: "Math", Difficulty: "", NumQuestions: 5}},
		{"zero questions", dto.CreateQuizRequest{Topic: "Math", Difficulty: "Easy", NumQuestions: 0}},
		{"negative questions", dto.CreateQuizRequest{Topic: "Math", Difficulty: "Easy", NumQuestions: -1}},
		{"too many questions", dto.CreateQuizRequest{Topic: "Math", Difficulty: "Easy", NumQuestions: maxQuestionsPerQuiz + 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateQuiz(ctx, "user-1", tc.req)
			assert.Error(t, err)
			assert.True(t, domain.IsCode(err, domain.ErrInvalidInput))
		})
	}

	// Nothing is persisted and no generation runs for rejected input.
	f.quizRepo.AssertNotCalled(t, "SaveQuiz", mock.Anything, mock.Anything)
	f.generator.AssertNotCalled(t, "StartGeneration", mock.Anything)
}

func TestQuizService_GetQuiz(t *testing.T) {
	f := newQuizFixture()
	ctx := context.Background()

	quiz := successQuiz("quiz-1", 3)
	f.quizRepo.On("GetQuizByID", ctx, "quiz-1").Return(quiz, nil).Once()

	resp, err := f.svc.GetQuiz(ctx, quiz.UserID, "quiz-1")

	assert.NoError(t, err)
	assert.Equal(t, "quiz-1", resp.ID)
	assert.Equal(t, string(domain.CreationSuccess), resp.CreationStatus)
}

func TestQuizService_GetQuiz_OtherUsersQuizIsHidden(t *testing.T) {
	f := newQuizFixture()
	ctx := context.Background()

	quiz := successQuiz("quiz-1", 3)
	f.quizRepo.On("GetQuizByID", ctx, "quiz-1").Return(quiz, nil).Once()

	_, err := f.svc.GetQuiz(ctx, "someone-else", "quiz-1")

	assert.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrQuizNotFound))
}

func TestQuizService_ListQuizzes(t *testing.T) {
	f := newQuizFixture()
	ctx := context.Background()

	f.quizRepo.On("ListQuizzesByUser", ctx, "user-1").
		Return([]*domain.Quiz{successQuiz("quiz-1", 3), successQuiz("quiz-2", 5)}, nil).Once()

	resp, err := f.svc.ListQuizzes(ctx, "user-1")

	assert.NoError(t, err)
	assert.Len(t, resp, 2)
}

func TestQuizService_DeleteQuiz_CascadesInOneTransaction(t *testing.T) {
	f := newQuizFixture()
	ctx := context.Background()

	quiz := successQuiz("quiz-1", 3)
	f.quizRepo.On("GetQuizByID", ctx, "quiz-1").Return(quiz, nil).Once()
	f.txManager.On("WithTransaction", ctx, mock.Anything).Return(nil).Once()
	f.progressRepo.On("DeleteProgressByQuiz", mock.Anything, "quiz-1").Return(nil).Once()
	f.questionRepo.On("DeleteQuestionsByQuiz", mock.Anything, "quiz-1").Return(nil).Once()
	f.quizRepo.On("DeleteQuiz", mock.Anything, "quiz-1").Return(nil).Once()

	err := f.svc.DeleteQuiz(ctx, quiz.UserID, "quiz-1")

	assert.NoError(t, err)
	f.quizRepo.AssertExpectations(t)
	f.questionRepo.AssertExpectations(t)
	f.progressRepo.AssertExpectations(t)
	f.txManager.AssertExpectations(t)
	f.cache.AssertCalled(t, "Delete", ctx, mock.Anything)
}

func TestQuizService_DeleteQuiz_RollsBackOnFailure(t *testing.T) {
	f := newQuizFixture()
	ctx := context.Background()

	quiz := successQuiz("quiz-1", 3)
	f.quizRepo.On("GetQuizByID", ctx, "quiz-1").Return(quiz, nil).Once()
	f.txManager.On("WithTransaction", ctx, mock.Anything).Return(nil).Once()
	f.progressRepo.On("DeleteProgressByQuiz", mock.Anything, "quiz-1").Return(nil).Once()
	f.questionRepo.On("DeleteQuestionsByQuiz", mock.Anything, "quiz-1").
		Return(errors.New("db down")).Once()

	err := f.svc.DeleteQuiz(ctx, quiz.UserID, "quiz-1")

	assert.Error(t, err)
	f.quizRepo.AssertNotCalled(t, "DeleteQuiz", mock.Anything, mock.Anything)
}
