package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for QuestionLog
var (
	ErrEmptyLogID       = errors.New("log ID cannot be empty")
	ErrEmptyLogQuestion = errors.New("log question cannot be empty")
)

// QuestionLog records a question asked by a user, together with the
// keywords and category derived from it by the enrichment task.
// Keywords and Category are empty until enrichment has run.
type QuestionLog struct {
	ID        uuid.UUID  `json:"id"`
	Question  string     `json:"question"`
	Keywords  string     `json:"keywords,omitempty"`
	Category  string     `json:"category,omitempty"`
	SessionID *uuid.UUID `json:"session_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewQuestionLog creates a new QuestionLog for the given question.
// sessionID may be nil when the question was asked outside a
// conversation session. Returns an error if validation fails.
func NewQuestionLog(question string, sessionID *uuid.UUID) (*QuestionLog, error) {
	log := &QuestionLog{
		ID:        uuid.New(),
		Question:  question,
		SessionID: sessionID,
		CreatedAt: time.Now().UTC(),
	}

	if err := log.Validate(); err != nil {
		return nil, err
	}

	return log, nil
}

// Validate checks if the QuestionLog has valid data.
func (l *QuestionLog) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyLogID
	}

	if l.Question == "" {
		return ErrEmptyLogQuestion
	}

	return nil
}
