package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/faqhub/faq-api/internal/api/shared"
	"github.com/faqhub/faq-api/internal/domain"
	"github.com/faqhub/faq-api/internal/service/conversation"
)

// ConversationService manages session lifecycle for the session endpoints.
type ConversationService interface {
	Start(ctx context.Context, userID *uuid.UUID) (*domain.ConversationSession, error)
	End(ctx context.Context, sessionID uuid.UUID, feedback *conversation.EndFeedback) error
	Get(ctx context.Context, sessionID uuid.UUID) (*domain.ConversationSession, error)
	Questions(ctx context.Context, sessionID uuid.UUID) ([]*domain.QuestionLog, error)
	Statistics(ctx context.Context) (*conversation.Statistics, error)
}

// SessionHandler handles conversation session API requests.
type SessionHandler struct {
	conversations ConversationService
}

// NewSessionHandler creates a new SessionHandler with the given dependencies.
func NewSessionHandler(conversations ConversationService) *SessionHandler {
	return &SessionHandler{conversations: conversations}
}

// Start handles POST /api/sessions. The body is optional.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var userID *uuid.UUID

	// An empty body starts an anonymous session.
	if r.ContentLength > 0 {
		var req StartSessionRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if req.UserID != "" {
			id, err := uuid.Parse(req.UserID)
			if err != nil {
				shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid user_id", err)
				return
			}
			userID = &id
		}
	}

	session, err := h.conversations.Start(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, sessionResponse(session))
}

// End handles POST /api/sessions/{id}/end. The body may carry optional
// feedback recorded against the session.
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var feedback *conversation.EndFeedback
	if r.ContentLength > 0 {
		var req EndSessionRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if req.Feedback != nil {
			// Submitting feedback without saying otherwise means satisfied.
			satisfied := true
			if req.Feedback.Satisfied != nil {
				satisfied = *req.Feedback.Satisfied
			}
			feedback = &conversation.EndFeedback{
				Satisfied: satisfied,
				Rating:    req.Feedback.Rating,
				Comment:   req.Feedback.Comment,
			}
		}
	}

	if err := h.conversations.End(r.Context(), id, feedback); err != nil {
		HandleAPIError(w, r, err, "Failed to end session")
		return
	}

	session, err := h.conversations.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to end session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionResponse(session))
}

// Status handles GET /api/sessions/{id}.
func (h *SessionHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	session, err := h.conversations.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionResponse(session))
}

// Questions handles GET /api/sessions/{id}/questions.
func (h *SessionHandler) Questions(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	questions, err := h.conversations.Questions(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get session questions")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SessionQuestionsResponse{
		SessionID: id,
		Questions: questions,
		Count:     len(questions),
	})
}

// Statistics handles GET /api/sessions/statistics.
func (h *SessionHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.conversations.Statistics(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get session statistics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SessionStatisticsResponse{
		ActiveSessions:             stats.ActiveSessions,
		EndedSessions:              stats.EndedSessions,
		AverageQuestionsPerSession: stats.AverageQuestionsPerSession,
	})
}

func sessionResponse(session *domain.ConversationSession) SessionResponse {
	return SessionResponse{
		SessionID:    session.ID,
		Status:       string(session.Status),
		IsActive:     session.Status == domain.SessionStatusActive,
		StartedAt:    session.StartedAt,
		LastActiveAt: session.LastActiveAt,
		EndedAt:      session.EndedAt,
	}
}
