package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionStatus represents the lifecycle state of a conversation session.
type SessionStatus string

// Possible session status values
const (
	SessionStatusActive SessionStatus = "active"
	SessionStatusEnded  SessionStatus = "ended"
)

// Common validation errors for ConversationSession
var (
	ErrEmptySessionID       = errors.New("session ID cannot be empty")
	ErrInvalidSessionStatus = errors.New("invalid session status")
	ErrSessionAlreadyEnded  = errors.New("session has already ended")
)

// ConversationSession groups the questions a user asks during one chat
// conversation. Sessions are ended explicitly by the client or reaped
// by the idle-session job after a period of inactivity.
type ConversationSession struct {
	ID           uuid.UUID     `json:"id"`
	UserID       *uuid.UUID    `json:"user_id,omitempty"`
	Status       SessionStatus `json:"status"`
	StartedAt    time.Time     `json:"started_at"`
	LastActiveAt time.Time     `json:"last_active_at"`
	EndedAt      *time.Time    `json:"ended_at,omitempty"`
}

// NewConversationSession creates a new active session. userID may be nil
// for anonymous visitors. Returns an error if validation fails.
func NewConversationSession(userID *uuid.UUID) (*ConversationSession, error) {
	now := time.Now().UTC()
	session := &ConversationSession{
		ID:           uuid.New(),
		UserID:       userID,
		Status:       SessionStatusActive,
		StartedAt:    now,
		LastActiveAt: now,
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the ConversationSession has valid data.
func (s *ConversationSession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySessionID
	}

	if s.Status != SessionStatusActive && s.Status != SessionStatusEnded {
		return ErrInvalidSessionStatus
	}

	if s.Status == SessionStatusEnded && s.EndedAt == nil {
		return ErrInvalidSessionStatus
	}

	return nil
}

// IsActive reports whether the session can still accept questions.
func (s *ConversationSession) IsActive() bool {
	return s.Status == SessionStatusActive
}

// Touch updates the session's last-activity timestamp.
// Returns ErrSessionAlreadyEnded if the session is not active.
func (s *ConversationSession) Touch() error {
	if !s.IsActive() {
		return ErrSessionAlreadyEnded
	}

	s.LastActiveAt = time.Now().UTC()
	return nil
}

// End transitions the session to the ended state.
// Returns ErrSessionAlreadyEnded if it was ended before.
func (s *ConversationSession) End() error {
	if !s.IsActive() {
		return ErrSessionAlreadyEnded
	}

	now := time.Now().UTC()
	s.Status = SessionStatusEnded
	s.EndedAt = &now
	return nil
}
