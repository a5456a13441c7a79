package service

import (
	"fmt"
	"testing"

	"mind-maze/internal/domain"

	"github.com/stretchr/testify/assert"
)

func testQuiz(numQuestions int) *domain.Quiz {
	return &domain.Quiz{
		ID:             "01HQUIZTEST",
		Topic:          "Science",
		Difficulty:     "Medium",
		NumQuestions:   numQuestions,
		UserID:         "user-1",
		CreationStatus: domain.CreationNotStarted,
	}
}

func validResponse(quizID string, count int) string {
	questions := ""
	for i := 0; i < count; i++ {
		if i > 0 {
			questions += ","
		}
		questions += fmt.Sprintf(`{
			"question": "Question %d?",
			"options": ["a%d", "b%d", "c%d", "d%d"],
			"answer": "a%d"
		}`, i+1, i, i, i, i, i)
	}
	return fmt.Sprintf(`{
		"quizId": "%s",
		"topic": "Science",
		"difficulty": "Medium",
		"numberOfQuestions": %d,
		"questions": [%s]
	}`, quizID, count, questions)
}

func TestResponseParser_Parse_Valid(t *testing.T) {
	parser := NewResponseParser()
	quiz := testQuiz(3)

	questions, err := parser.Parse(validResponse(quiz.ID, 3), quiz)

	assert.NoError(t, err)
	assert.Len(t, questions, 3)
	for _, q := range questions {
		assert.NotEmpty(t, q.ID)
		assert.Equal(t, quiz.ID, q.QuizID)
		assert.Len(t, q.Options, domain.OptionsPerQuestion)
		assert.True(t, q.HasOption(q.CorrectAnswer))
	}
}

func TestResponseParser_Parse_StripsThinkBlock(t *testing.T) {
	parser := NewResponseParser()
	quiz := testQuiz(2)

	payload := validResponse(quiz.ID, 2)
	withPreamble := "<think>\nlet me reason about curly braces { } first\n</think>\n" + payload

	fromPreamble, err := parser.Parse(withPreamble, quiz)
	assert.NoError(t, err)

	plain, err := parser.Parse(payload, quiz)
	assert.NoError(t, err)

	assert.Len(t, fromPreamble, len(plain))
	for i := range plain {
		assert.Equal(t, plain[i].Text, fromPreamble[i].Text)
		assert.Equal(t, plain[i].Options, fromPreamble[i].Options)
		assert.Equal(t, plain[i].CorrectAnswer, fromPreamble[i].CorrectAnswer)
	}
}

func TestResponseParser_Parse_SurroundingProse(t *testing.T) {
	parser := NewResponseParser()
	quiz := testQuiz(1)

	raw := "Sure, here is your quiz:\n" + validResponse(quiz.ID, 1) + "\nHope this helps!"
	questions, err := parser.Parse(raw, quiz)
	assert.NoError(t, err)
	assert.Len(t, questions, 1)
}

func TestResponseParser_Parse_NoJSON(t *testing.T) {
	parser := NewResponseParser()
	quiz := testQuiz(3)

	_, err := parser.Parse("I cannot generate a quiz right now.", quiz)
	assert.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrParseFailure))
}

func TestResponseParser_Parse_MalformedJSON(t *testing.T) {
	parser := NewResponseParser()
	quiz := testQuiz(3)

	_, err := parser.Parse(`{"questions": [`+"broken"+`]}`, quiz)
	assert.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrParseFailure))
}

func TestResponseParser_Parse_WrongCount(t *testing.T) {
	parser := NewResponseParser()
	quiz := testQuiz(3)

	// two questions for a three-question request
	_, err := parser.Parse(validResponse(quiz.ID, 2), quiz)
	assert.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrParseFailure))
}

func TestResponseParser_Parse_AnswerNotInOptions(t *testing.T) {
	parser := NewResponseParser()
	quiz := testQuiz(1)

	raw := fmt.Sprintf(`{
		"quizId": "%s",
		"numberOfQuestions": 1,
		"questions": [{
			"question": "Pick one",
			"options": ["a", "b", "c", "d"],
			"answer": "e"
		}]
	}`, quiz.ID)

	_, err := parser.Parse(raw, quiz)
	assert.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrParseFailure))
}

func TestResponseParser_Parse_CaseInsensitiveAnswer(t *testing.T) {
	parser := NewResponseParser()
	quiz := testQuiz(1)

	raw := fmt.Sprintf(`{
		"quizId": "%s",
		"numberOfQuestions": 1,
		"questions": [{
			"question": "Pick one",
			"options": ["Paris", "London", "Rome", "Madrid"],
			"answer": "PARIS"
		}]
	}`, quiz.ID)

	questions, err := parser.Parse(raw, quiz)
	assert.NoError(t, err)
	assert.Len(t, questions, 1)
}

func TestResponseParser_Parse_AlteredQuizID(t *testing.T) {
	parser := NewResponseParser()
	quiz := testQuiz(1)

	_, err := parser.Parse(validResponse("some-other-id", 1), quiz)
	assert.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrParseFailure))
}

func TestResponseParser_Parse_WrongOptionArity(t *testing.T) {
	parser := NewResponseParser()
	quiz := testQuiz(1)

	raw := fmt.Sprintf(`{
		"quizId": "%s",
		"numberOfQuestions": 1,
		"questions": [{
			"question": "Pick one",
			"options": ["a", "b"],
			"answer": "a"
		}]
	}`, quiz.ID)

	_, err := parser.Parse(raw, quiz)
	assert.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrParseFailure))
}
