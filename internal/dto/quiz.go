package dto

// CreateQuizRequest is the request body for creating a quiz
type CreateQuizRequest struct {
	Topic        string `json:"topic"`
	Difficulty   string `json:"difficulty"`
	NumQuestions int    `json:"num_questions"`
}

// QuizResponse represents a quiz in the API response
type QuizResponse struct {
	ID             string `json:"id"`
	Topic          string `json:"topic"`
	Difficulty     string `json:"difficulty"`
	NumQuestions   int    `json:"num_questions"`
	CreationStatus string `json:"creation_status"`
}

// QuestionResponse is a question as issued to the quiz taker.
// The correct answer is never included here.
type QuestionResponse struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// ResumeResponse wraps the current question of a session, if any.
// Question is nil when there is nothing to resume.
type ResumeResponse struct {
	Question *QuestionResponse `json:"question"`
}

// RecordAnswerRequest is the request body for answering a question
type RecordAnswerRequest struct {
	QuestionID     string `json:"question_id"`
	SelectedOption string `json:"selected_option"`
}

// AnswerResultResponse reveals the outcome after an answer was recorded
type AnswerResultResponse struct {
	IsCorrect     bool   `json:"is_correct"`
	CorrectOption string `json:"correct_option"`
	Question      string `json:"question"`
}

// ScoreResponse is a read-only snapshot of a session's score
type ScoreResponse struct {
	CorrectAnswers int `json:"correct_answers"`
	WrongAnswers   int `json:"wrong_answers"`
	TotalQuestions int `json:"total_questions"`
}
