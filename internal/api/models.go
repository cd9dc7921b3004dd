package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/faqhub/faq-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role"     validate:"required,oneof=admin employee"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Username and Role let the client render the session without a
	// second request
	Username string          `json:"username"`
	Role     domain.UserRole `json:"role"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// UserResponse defines the profile payload returned by the current-user
// endpoint.
type UserResponse struct {
	UserID    uuid.UUID       `json:"user_id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Role      domain.UserRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// CreateFAQRequest defines the payload for creating an FAQ entry.
type CreateFAQRequest struct {
	Question string `json:"question" validate:"required,min=1"`
	Answer   string `json:"answer"   validate:"required,min=1"`
}

// UpdateFAQRequest defines the payload for updating an FAQ entry.
// Both fields are required; partial updates are not supported.
type UpdateFAQRequest struct {
	Question string `json:"question" validate:"required,min=1"`
	Answer   string `json:"answer"   validate:"required,min=1"`
}

// FAQListResponse wraps a page of FAQ entries with the total count.
type FAQListResponse struct {
	FAQs  []*domain.FAQ `json:"faqs"`
	Total int64         `json:"total"`
}

// ChatRequest defines the payload for the chat endpoint. SessionID is
// optional; when present the question is attributed to that conversation
// session.
type ChatRequest struct {
	Question  string `json:"question"   validate:"required,min=1"`
	SessionID string `json:"session_id" validate:"omitempty,uuid"`
}

// LogQuestionRequest defines the payload for recording a question
// without answering it.
type LogQuestionRequest struct {
	Question string `json:"question" validate:"required,min=1"`
}

// ChatResponse defines the answer payload returned by the chat endpoint.
type ChatResponse struct {
	Question      string  `json:"question"`
	Answer        string  `json:"answer"`
	Source        string  `json:"source"`
	Confidence    string  `json:"confidence"`
	Similarity    float64 `json:"similarity"`
	RequiresHuman bool    `json:"requires_human"`

	// Session fields are only present when the request carried a session ID.
	SessionID     string `json:"session_id,omitempty"`
	SessionActive *bool  `json:"session_active,omitempty"`
}

// StartSessionRequest defines the (optional) payload for starting a
// conversation session.
type StartSessionRequest struct {
	UserID string `json:"user_id" validate:"omitempty,uuid"`
}

// SessionResponse describes a conversation session.
type SessionResponse struct {
	SessionID    uuid.UUID  `json:"session_id"`
	Status       string     `json:"status"`
	IsActive     bool       `json:"is_active"`
	StartedAt    time.Time  `json:"started_at"`
	LastActiveAt time.Time  `json:"last_active_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
}

// EndSessionRequest defines the payload for ending a session. Feedback
// is optional; when present it is recorded against the session.
type EndSessionRequest struct {
	Feedback *SessionFeedback `json:"feedback" validate:"omitempty"`
}

// SessionFeedback is the inline feedback accepted when ending a session.
// Satisfied defaults to true when omitted.
type SessionFeedback struct {
	Satisfied *bool  `json:"satisfied"`
	Rating    *int   `json:"rating"  validate:"omitempty,gte=1,lte=5"`
	Comment   string `json:"comment" validate:"omitempty,max=2000"`
}

// SessionQuestionsResponse lists the questions asked within a session.
type SessionQuestionsResponse struct {
	SessionID uuid.UUID             `json:"session_id"`
	Questions []*domain.QuestionLog `json:"questions"`
	Count     int                   `json:"count"`
}

// SessionStatisticsResponse summarizes session activity.
type SessionStatisticsResponse struct {
	ActiveSessions             int64   `json:"active_sessions"`
	EndedSessions              int64   `json:"ended_sessions"`
	AverageQuestionsPerSession float64 `json:"average_questions_per_session"`
}

// FeedbackRequest defines the payload for the standalone feedback endpoint.
type FeedbackRequest struct {
	Satisfied *bool  `json:"satisfied" validate:"required"`
	Rating    *int   `json:"rating"    validate:"omitempty,gte=1,lte=5"`
	Comment   string `json:"comment"   validate:"omitempty,max=2000"`
	SessionID string `json:"session_id" validate:"omitempty,uuid"`
}

// CSATResponse reports the customer satisfaction score as a percentage
// rounded to two decimal places.
type CSATResponse struct {
	CSAT          float64 `json:"csat"`
	TotalFeedback int64   `json:"total_feedback"`
	AverageRating float64 `json:"average_rating"`
}

// CategoryCountResponse is one category with its question count.
type CategoryCountResponse struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// TopCategoriesResponse lists the most asked-about categories.
type TopCategoriesResponse struct {
	Categories []CategoryCountResponse `json:"categories"`
}

// CategoryDetailResponse lists recent questions within one category.
type CategoryDetailResponse struct {
	Category  string                `json:"category"`
	Count     int64                 `json:"count"`
	Questions []*domain.QuestionLog `json:"questions"`
}

// DailyCountResponse is one day's question volume.
type DailyCountResponse struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// DailyCountsResponse reports question volume per day over a window.
type DailyCountsResponse struct {
	Days []DailyCountResponse `json:"days"`
}
