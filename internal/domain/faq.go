package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for FAQ
var (
	ErrEmptyFAQID       = errors.New("faq ID cannot be empty")
	ErrEmptyFAQQuestion = errors.New("faq question cannot be empty")
	ErrEmptyFAQAnswer   = errors.New("faq answer cannot be empty")
)

// FAQ represents a single curated question/answer pair that the
// service serves verbatim and that the chat endpoint matches against.
type FAQ struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFAQ creates a new FAQ with the given question and answer.
// It generates a new UUID for the FAQ ID and sets the creation/update
// timestamps. Returns an error if validation fails.
func NewFAQ(question, answer string) (*FAQ, error) {
	now := time.Now().UTC()
	faq := &FAQ{
		ID:        uuid.New(),
		Question:  question,
		Answer:    answer,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := faq.Validate(); err != nil {
		return nil, err
	}

	return faq, nil
}

// Validate checks if the FAQ has valid data.
// Returns an error if any field fails validation.
func (f *FAQ) Validate() error {
	if f.ID == uuid.Nil {
		return ErrEmptyFAQID
	}

	if f.Question == "" {
		return ErrEmptyFAQQuestion
	}

	if f.Answer == "" {
		return ErrEmptyFAQAnswer
	}

	return nil
}
