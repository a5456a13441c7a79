package handler

import (
	"context"

	"mind-maze/internal/dto"
	"mind-maze/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// ProgressService is the slice of the progress service the handler depends on.
type ProgressService interface {
	NextQuestion(ctx context.Context, userID, quizID string) (*dto.QuestionResponse, error)
	RecordAnswer(ctx context.Context, userID, quizID string, req dto.RecordAnswerRequest) (*dto.AnswerResultResponse, error)
	Resume(ctx context.Context, userID, quizID string) (*dto.ResumeResponse, error)
	GetScore(ctx context.Context, userID, quizID string) (*dto.ScoreResponse, error)
}

// ProgressHandler handles quiz session HTTP requests: issuing questions,
// recording answers, resuming, and reporting scores.
type ProgressHandler struct {
	progressService ProgressService
}

// NewProgressHandler creates a new ProgressHandler instance
func NewProgressHandler(progressService ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// NextQuestion handles GET /quizzes/:id/questions/next. A first call
// starts the session for this user; subsequent calls never repeat a
// question already issued.
func (h *ProgressHandler) NextQuestion(c *fiber.Ctx) error {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(middleware.ErrorResponse{
			Code: "INVALID_USER_CONTEXT", Message: "User ID not found in context", Status: fiber.StatusUnauthorized,
		})
	}

	question, err := h.progressService.NextQuestion(c.Context(), userID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(question)
}

// RecordAnswer handles POST /quizzes/:id/answers
func (h *ProgressHandler) RecordAnswer(c *fiber.Ctx) error {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(middleware.ErrorResponse{
			Code: "INVALID_USER_CONTEXT", Message: "User ID not found in context", Status: fiber.StatusUnauthorized,
		})
	}

	var req dto.RecordAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
			Code: "INVALID_REQUEST_BODY", Message: "Invalid request body", Status: fiber.StatusBadRequest,
		})
	}

	result, err := h.progressService.RecordAnswer(c.Context(), userID, c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Resume handles GET /quizzes/:id/resume. It reports the question the
// session is currently waiting on without issuing a new one.
func (h *ProgressHandler) Resume(c *fiber.Ctx) error {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(middleware.ErrorResponse{
			Code: "INVALID_USER_CONTEXT", Message: "User ID not found in context", Status: fiber.StatusUnauthorized,
		})
	}

	resume, err := h.progressService.Resume(c.Context(), userID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resume)
}

// GetScore handles GET /quizzes/:id/score
func (h *ProgressHandler) GetScore(c *fiber.Ctx) error {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(middleware.ErrorResponse{
			Code: "INVALID_USER_CONTEXT", Message: "User ID not found in context", Status: fiber.StatusUnauthorized,
		})
	}

	score, err := h.progressService.GetScore(c.Context(), userID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(score)
}
