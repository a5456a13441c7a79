package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mind-maze/internal/domain"
	"mind-maze/internal/dto"
	"mind-maze/internal/handler"
	"mind-maze/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

// MockProgressService
type MockProgressService struct {
	NextQuestionFunc func(ctx context.Context, userID, quizID string) (*dto.QuestionResponse, error)
	RecordAnswerFunc func(ctx context.Context, userID, quizID string, req dto.RecordAnswerRequest) (*dto.AnswerResultResponse, error)
	ResumeFunc       func(ctx context.Context, userID, quizID string) (*dto.ResumeResponse, error)
	GetScoreFunc     func(ctx context.Context, userID, quizID string) (*dto.ScoreResponse, error)
}

func (m *MockProgressService) NextQuestion(ctx context.Context, userID, quizID string) (*dto.QuestionResponse, error) {
	if m.NextQuestionFunc != nil {
		return m.NextQuestionFunc(ctx, userID, quizID)
	}
	panic("MockProgressService.NextQuestionFunc not implemented")
}
func (m *MockProgressService) RecordAnswer(ctx context.Context, userID, quizID string, req dto.RecordAnswerRequest) (*dto.AnswerResultResponse, error) {
	if m.RecordAnswerFunc != nil {
		return m.RecordAnswerFunc(ctx, userID, quizID, req)
	}
	panic("MockProgressService.RecordAnswerFunc not implemented")
}
func (m *MockProgressService) Resume(ctx context.Context, userID, quizID string) (*dto.ResumeResponse, error) {
	if m.ResumeFunc != nil {
		return m.ResumeFunc(ctx, userID, quizID)
	}
	panic("MockProgressService.ResumeFunc not implemented")
}
func (m *MockProgressService) GetScore(ctx context.Context, userID, quizID string) (*dto.ScoreResponse, error) {
	if m.GetScoreFunc != nil {
		return m.GetScoreFunc(ctx, userID, quizID)
	}
	panic("MockProgressService.GetScoreFunc not implemented")
}

func newProgressTestApp(svc handler.ProgressService, userID string) *fiber.App {
	h := handler.NewProgressHandler(svc)
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	withUser := func(inner fiber.Handler) fiber.Handler {
		return func(c *fiber.Ctx) error {
			if userID != "" {
				c.Locals(middleware.UserIDKey, userID)
			}
			return inner(c)
		}
	}
	app.Get("/quizzes/:id/questions/next", withUser(h.NextQuestion))
	app.Post("/quizzes/:id/answers", withUser(h.RecordAnswer))
	app.Get("/quizzes/:id/resume", withUser(h.Resume))
	app.Get("/quizzes/:id/score", withUser(h.GetScore))
	return app
}

func TestProgressHandler_NextQuestion(t *testing.T) {
	t.Run("Issues Question Without Answer", func(t *testing.T) {
		svc := &MockProgressService{}
		svc.NextQuestionFunc = func(ctx context.Context, userID, quizID string) (*dto.QuestionResponse, error) {
			assert.Equal(t, "user-1", userID)
			assert.Equal(t, "quiz-1", quizID)
			return &dto.QuestionResponse{
				ID:       "q-1",
				Question: "Which planet is known as the red planet?",
				Options:  []string{"Venus", "Mars", "Jupiter", "Saturn"},
			}, nil
		}
		app := newProgressTestApp(svc, "user-1")

		resp, err := app.Test(httptest.NewRequest("GET", "/quizzes/quiz-1/questions/next", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var got map[string]interface{}
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "q-1", got["id"])
		assert.NotContains(t, got, "answer")
	})

	t.Run("Exhausted Maps To 410", func(t *testing.T) {
		svc := &MockProgressService{}
		svc.NextQuestionFunc = func(ctx context.Context, userID, quizID string) (*dto.QuestionResponse, error) {
			return nil, domain.NewQuestionsExhaustedError(userID, quizID)
		}
		app := newProgressTestApp(svc, "user-1")

		resp, err := app.Test(httptest.NewRequest("GET", "/quizzes/quiz-1/questions/next", nil))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusGone, resp.StatusCode)

		var errResp middleware.ErrorResponse
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
		assert.Equal(t, string(domain.ErrQuestionsExhausted), errResp.Code)
	})

	t.Run("Quiz Not Ready Maps To 400", func(t *testing.T) {
		svc := &MockProgressService{}
		svc.NextQuestionFunc = func(ctx context.Context, userID, quizID string) (*dto.QuestionResponse, error) {
			return nil, domain.NewInvalidInputError("quiz is not ready")
		}
		app := newProgressTestApp(svc, "user-1")

		resp, err := app.Test(httptest.NewRequest("GET", "/quizzes/quiz-1/questions/next", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Missing User Context", func(t *testing.T) {
		svc := &MockProgressService{}
		app := newProgressTestApp(svc, "")

		resp, err := app.Test(httptest.NewRequest("GET", "/quizzes/quiz-1/questions/next", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestProgressHandler_RecordAnswer(t *testing.T) {
	t.Run("Correct Answer", func(t *testing.T) {
		svc := &MockProgressService{}
		svc.RecordAnswerFunc = func(ctx context.Context, userID, quizID string, req dto.RecordAnswerRequest) (*dto.AnswerResultResponse, error) {
			assert.Equal(t, "q-1", req.QuestionID)
			assert.Equal(t, "Mars", req.SelectedOption)
			return &dto.AnswerResultResponse{
				IsCorrect:     true,
				CorrectOption: "Mars",
				Question:      "Which planet is known as the red planet?",
			}, nil
		}
		app := newProgressTestApp(svc, "user-1")

		body, _ := json.Marshal(dto.RecordAnswerRequest{QuestionID: "q-1", SelectedOption: "Mars"})
		req := httptest.NewRequest("POST", "/quizzes/quiz-1/answers", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var got dto.AnswerResultResponse
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.True(t, got.IsCorrect)
		assert.Equal(t, "Mars", got.CorrectOption)
	})

	t.Run("Unknown Question Maps To 404", func(t *testing.T) {
		svc := &MockProgressService{}
		svc.RecordAnswerFunc = func(ctx context.Context, userID, quizID string, req dto.RecordAnswerRequest) (*dto.AnswerResultResponse, error) {
			return nil, domain.NewQuestionNotFoundError(req.QuestionID)
		}
		app := newProgressTestApp(svc, "user-1")

		body, _ := json.Marshal(dto.RecordAnswerRequest{QuestionID: "missing", SelectedOption: "Mars"})
		req := httptest.NewRequest("POST", "/quizzes/quiz-1/answers", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("Malformed Body", func(t *testing.T) {
		svc := &MockProgressService{}
		app := newProgressTestApp(svc, "user-1")

		req := httptest.NewRequest("POST", "/quizzes/quiz-1/answers", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestProgressHandler_Resume(t *testing.T) {
	t.Run("Nothing To Resume", func(t *testing.T) {
		svc := &MockProgressService{}
		svc.ResumeFunc = func(ctx context.Context, userID, quizID string) (*dto.ResumeResponse, error) {
			return &dto.ResumeResponse{}, nil
		}
		app := newProgressTestApp(svc, "user-1")

		resp, err := app.Test(httptest.NewRequest("GET", "/quizzes/quiz-1/resume", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var got dto.ResumeResponse
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Nil(t, got.Question)
	})

	t.Run("Pending Question", func(t *testing.T) {
		svc := &MockProgressService{}
		svc.ResumeFunc = func(ctx context.Context, userID, quizID string) (*dto.ResumeResponse, error) {
			return &dto.ResumeResponse{Question: &dto.QuestionResponse{
				ID:       "q-2",
				Question: "What gas do plants absorb?",
				Options:  []string{"Oxygen", "Carbon dioxide", "Nitrogen", "Helium"},
			}}, nil
		}
		app := newProgressTestApp(svc, "user-1")

		resp, err := app.Test(httptest.NewRequest("GET", "/quizzes/quiz-1/resume", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var got dto.ResumeResponse
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		if assert.NotNil(t, got.Question) {
			assert.Equal(t, "q-2", got.Question.ID)
		}
	})
}

func TestProgressHandler_GetScore(t *testing.T) {
	t.Run("Snapshot", func(t *testing.T) {
		svc := &MockProgressService{}
		svc.GetScoreFunc = func(ctx context.Context, userID, quizID string) (*dto.ScoreResponse, error) {
			return &dto.ScoreResponse{CorrectAnswers: 3, WrongAnswers: 1, TotalQuestions: 5}, nil
		}
		app := newProgressTestApp(svc, "user-1")

		resp, err := app.Test(httptest.NewRequest("GET", "/quizzes/quiz-1/score", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var got dto.ScoreResponse
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, 3, got.CorrectAnswers)
		assert.Equal(t, 1, got.WrongAnswers)
		assert.Equal(t, 5, got.TotalQuestions)
	})

	t.Run("No Session Maps To 404", func(t *testing.T) {
		svc := &MockProgressService{}
		svc.GetScoreFunc = func(ctx context.Context, userID, quizID string) (*dto.ScoreResponse, error) {
			return nil, domain.NewProgressNotFoundError(userID, quizID)
		}
		app := newProgressTestApp(svc, "user-1")

		resp, err := app.Test(httptest.NewRequest("GET", "/quizzes/quiz-1/score", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}
