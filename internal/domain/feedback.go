package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Feedback
var (
	ErrEmptyFeedbackID = errors.New("feedback ID cannot be empty")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// Feedback records a user's satisfaction signal, either standalone
// (the thumbs up/down widget) or attached to a conversation session
// when it is ended.
type Feedback struct {
	ID        uuid.UUID  `json:"id"`
	SessionID *uuid.UUID `json:"session_id,omitempty"`
	Satisfied bool       `json:"satisfied"`
	Rating    *int       `json:"rating,omitempty"`
	Comment   string     `json:"comment,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewFeedback creates a new Feedback record. rating may be nil when the
// client only supplied the satisfied flag. Returns an error if
// validation fails.
func NewFeedback(satisfied bool, rating *int, comment string, sessionID *uuid.UUID) (*Feedback, error) {
	fb := &Feedback{
		ID:        uuid.New(),
		SessionID: sessionID,
		Satisfied: satisfied,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}

	if err := fb.Validate(); err != nil {
		return nil, err
	}

	return fb, nil
}

// Validate checks if the Feedback has valid data.
func (f *Feedback) Validate() error {
	if f.ID == uuid.Nil {
		return ErrEmptyFeedbackID
	}

	if f.Rating != nil && (*f.Rating < 1 || *f.Rating > 5) {
		return ErrInvalidRating
	}

	return nil
}
