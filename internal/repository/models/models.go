package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StringSlice stores a []string as a JSON array in a CLOB column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	// go-ora prefers string over []byte for CLOB binds
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var bytesToParse []byte

	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*s = StringSlice{}
		return nil
	}

	return json.Unmarshal(bytesToParse, s)
}

// Quiz is the quizzes table row.
type Quiz struct {
	ID             string       `db:"id"`
	Topic          string       `db:"topic"`
	Difficulty     string       `db:"difficulty"`
	NumQuestions   int          `db:"num_questions"`
	UserID         string       `db:"user_id"`
	CreationStatus string       `db:"creation_status"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
	DeletedAt      sql.NullTime `db:"deleted_at"`
}

// Question is the quiz_questions table row. Options are stored as a JSON
// array in a CLOB column.
type Question struct {
	ID            string      `db:"id"`
	QuizID        string      `db:"quiz_id"`
	QuestionText  string      `db:"question_text"`
	Options       StringSlice `db:"options"`
	CorrectAnswer string      `db:"correct_answer"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
}

// Progress is the quiz_progress table row, one per (user, quiz) pair.
// VERSION guards concurrent read-modify-write cycles.
type Progress struct {
	ID                  string         `db:"id"`
	UserID              string         `db:"user_id"`
	QuizID              string         `db:"quiz_id"`
	AskedQuestionIDs    StringSlice    `db:"asked_question_ids"`
	AnsweredQuestionIDs StringSlice    `db:"answered_question_ids"`
	CurrentQuestionID   sql.NullString `db:"current_question_id"`
	Score               int            `db:"score"`
	WrongAnswers        int            `db:"wrong_answers"`
	TotalQuestions      int            `db:"total_questions"`
	Completed           bool           `db:"completed"`
	Version             int64          `db:"version"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

// User represents a user in the system.
type User struct {
	ID                string         `db:"id"` // ULID
	GoogleID          string         `db:"google_id"`
	Email             string         `db:"email"`
	Name              sql.NullString `db:"name"`
	ProfilePictureURL sql.NullString `db:"profile_picture_url"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
	DeletedAt         sql.NullTime   `db:"deleted_at"`
}
