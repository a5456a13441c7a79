package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"

	// Quiz specific errors
	ErrQuizNotFound     ErrorCode = "QUIZ_NOT_FOUND"
	ErrQuestionNotFound ErrorCode = "QUESTION_NOT_FOUND"
	ErrProgressNotFound ErrorCode = "PROGRESS_NOT_FOUND"

	// Generation pipeline errors
	ErrGenerationFailure ErrorCode = "GENERATION_FAILURE"
	ErrModelService      ErrorCode = "MODEL_SERVICE_ERROR"
	ErrParseFailure      ErrorCode = "PARSE_FAILURE"

	// Progress tracker terminal condition: every question in the quiz has
	// already been issued to this session. Expected, not a fault.
	ErrQuestionsExhausted ErrorCode = "QUESTIONS_EXHAUSTED"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(ErrUnauthorized, message, nil)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(ErrQuizNotFound, fmt.Sprintf("Quiz not found with ID: %s", quizID), nil)
}

func NewQuestionNotFoundError(questionID string) *DomainError {
	return NewError(ErrQuestionNotFound, fmt.Sprintf("Question not found with ID: %s", questionID), nil)
}

func NewProgressNotFoundError(userID, quizID string) *DomainError {
	return NewError(ErrProgressNotFound, fmt.Sprintf("No progress for user %s on quiz %s", userID, quizID), nil)
}

func NewQuestionsExhaustedError(userID, quizID string) *DomainError {
	return NewError(ErrQuestionsExhausted, fmt.Sprintf("[userId: %s, quizId: %s] No more questions available for this quiz", userID, quizID), nil)
}

func NewGenerationFailureError(message string, err error) *DomainError {
	return NewError(ErrGenerationFailure, message, err)
}

func NewModelServiceError(err error) *DomainError {
	return NewError(ErrModelService, "Failed to get a response from the model service", err)
}

func NewParseFailureError(message string, err error) *DomainError {
	return NewError(ErrParseFailure, message, err)
}

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == code
}
