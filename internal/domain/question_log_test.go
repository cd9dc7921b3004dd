package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewQuestionLog(t *testing.T) {
	t.Parallel()

	log, err := NewQuestionLog("How to reset my password?", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if log.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if log.Keywords != "" || log.Category != "" {
		t.Error("Expected keywords and category to start empty")
	}

	if _, err := NewQuestionLog("", nil); err != ErrEmptyLogQuestion {
		t.Errorf("Expected error %v, got %v", ErrEmptyLogQuestion, err)
	}
}

func TestNewFeedback(t *testing.T) {
	t.Parallel()

	rating := 4
	fb, err := NewFeedback(true, &rating, "quick and helpful", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !fb.Satisfied {
		t.Error("Expected satisfied feedback")
	}

	badRating := 9
	if _, err := NewFeedback(false, &badRating, "", nil); err != ErrInvalidRating {
		t.Errorf("Expected error %v, got %v", ErrInvalidRating, err)
	}
}
