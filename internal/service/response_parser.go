package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"mind-maze/internal/domain"
	"mind-maze/internal/logger"
	"mind-maze/internal/util"

	"go.uber.org/zap"
)

// generatedQuestion mirrors one question object in the model's JSON output.
type generatedQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// generatedQuiz mirrors the full JSON document the model is instructed to
// return. The prompt tells the model to echo quizId, topic, difficulty and
// numberOfQuestions unchanged, so mismatches here mean the model ignored
// its instructions.
type generatedQuiz struct {
	QuizID            string              `json:"quizId"`
	Topic             string              `json:"topic"`
	Difficulty        string              `json:"difficulty"`
	NumberOfQuestions int                 `json:"numberOfQuestions"`
	Questions         []generatedQuestion `json:"questions"`
}

// ResponseParser turns raw model output into validated domain questions.
type ResponseParser struct{}

// NewResponseParser creates a new ResponseParser.
func NewResponseParser() *ResponseParser {
	return &ResponseParser{}
}

// Parse extracts the JSON document from the raw model response and validates
// it against the quiz it was generated for. Any defect rejects the whole
// response; partially usable question sets are never returned.
func (p *ResponseParser) Parse(raw string, quiz *domain.Quiz) ([]*domain.Question, error) {
	l := logger.Get()

	cleaned := strings.TrimSpace(raw)

	// Reasoning models wrap their chain of thought in <think> tags.
	if thinkStart := strings.Index(cleaned, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(cleaned, "</think>"); thinkEnd != -1 && thinkEnd > thinkStart {
			cleaned = cleaned[:thinkStart] + cleaned[thinkEnd+len("</think>"):]
			cleaned = strings.TrimSpace(cleaned)
		}
	}

	jsonStart := strings.Index(cleaned, "{")
	jsonEnd := strings.LastIndex(cleaned, "}")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd <= jsonStart {
		l.Error("No JSON object found in model response",
			zap.String("quiz_id", quiz.ID),
			zap.String("cleaned_response", truncateForLog(cleaned)))
		return nil, domain.NewParseFailureError("no JSON object found in model response", nil)
	}
	extracted := cleaned[jsonStart : jsonEnd+1]

	var parsed generatedQuiz
	if err := json.Unmarshal([]byte(extracted), &parsed); err != nil {
		l.Error("Failed to unmarshal model response",
			zap.Error(err),
			zap.String("quiz_id", quiz.ID),
			zap.String("extracted_json", truncateForLog(extracted)))
		return nil, domain.NewParseFailureError("model response is not valid JSON", err)
	}

	if parsed.QuizID != "" && parsed.QuizID != quiz.ID {
		return nil, domain.NewParseFailureError(
			fmt.Sprintf("model altered quizId: got %q, want %q", parsed.QuizID, quiz.ID), nil)
	}

	if len(parsed.Questions) != quiz.NumQuestions {
		l.Warn("Model returned wrong question count",
			zap.String("quiz_id", quiz.ID),
			zap.Int("got", len(parsed.Questions)),
			zap.Int("want", quiz.NumQuestions))
		return nil, domain.NewParseFailureError(
			fmt.Sprintf("expected %d questions, model returned %d", quiz.NumQuestions, len(parsed.Questions)), nil)
	}

	questions := make([]*domain.Question, 0, len(parsed.Questions))
	for i, gq := range parsed.Questions {
		question := &domain.Question{
			ID:            util.NewULID(),
			QuizID:        quiz.ID,
			Text:          strings.TrimSpace(gq.Question),
			Options:       gq.Options,
			CorrectAnswer: strings.TrimSpace(gq.Answer),
		}
		if err := question.Validate(); err != nil {
			return nil, domain.NewParseFailureError(
				fmt.Sprintf("question %d is malformed", i+1), err)
		}
		questions = append(questions, question)
	}

	return questions, nil
}

func truncateForLog(s string) string {
	const maxLen = 500
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
