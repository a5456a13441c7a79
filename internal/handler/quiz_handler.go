package handler

import (
	"context"

	"mind-maze/internal/dto"
	"mind-maze/internal/logger"
	"mind-maze/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizService is the slice of the quiz service the handler depends on.
type QuizService interface {
	CreateQuiz(ctx context.Context, userID string, req dto.CreateQuizRequest) (*dto.QuizResponse, error)
	GetQuiz(ctx context.Context, userID, quizID string) (*dto.QuizResponse, error)
	ListQuizzes(ctx context.Context, userID string) ([]*dto.QuizResponse, error)
	DeleteQuiz(ctx context.Context, userID, quizID string) error
}

// QuizHandler handles quiz lifecycle HTTP requests
type QuizHandler struct {
	quizService QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(quizService QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// CreateQuiz handles POST /quizzes. The quiz record is persisted
// immediately; question generation runs in the background.
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	appLogger := logger.Get()
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(middleware.ErrorResponse{
			Code: "INVALID_USER_CONTEXT", Message: "User ID not found in context", Status: fiber.StatusUnauthorized,
		})
	}

	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
			Code: "INVALID_REQUEST_BODY", Message: "Invalid request body", Status: fiber.StatusBadRequest,
		})
	}

	quiz, err := h.quizService.CreateQuiz(c.Context(), userID, req)
	if err != nil {
		return err
	}

	appLogger.Info("Quiz created, generation started",
		zap.String("quizID", quiz.ID),
		zap.String("userID", userID),
		zap.String("topic", quiz.Topic))

	return c.Status(fiber.StatusAccepted).JSON(quiz)
}

// GetQuiz handles GET /quizzes/:id. Clients poll this endpoint to
// observe the creation status of a freshly requested quiz.
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(middleware.ErrorResponse{
			Code: "INVALID_USER_CONTEXT", Message: "User ID not found in context", Status: fiber.StatusUnauthorized,
		})
	}

	quiz, err := h.quizService.GetQuiz(c.Context(), userID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// ListQuizzes handles GET /quizzes
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(middleware.ErrorResponse{
			Code: "INVALID_USER_CONTEXT", Message: "User ID not found in context", Status: fiber.StatusUnauthorized,
		})
	}

	quizzes, err := h.quizService.ListQuizzes(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(quizzes)
}

// DeleteQuiz handles DELETE /quizzes/:id
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	appLogger := logger.Get()
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(middleware.ErrorResponse{
			Code: "INVALID_USER_CONTEXT", Message: "User ID not found in context", Status: fiber.StatusUnauthorized,
		})
	}

	quizID := c.Params("id")
	if err := h.quizService.DeleteQuiz(c.Context(), userID, quizID); err != nil {
		return err
	}

	appLogger.Info("Quiz deleted", zap.String("quizID", quizID), zap.String("userID", userID))
	return c.SendStatus(fiber.StatusNoContent)
}
