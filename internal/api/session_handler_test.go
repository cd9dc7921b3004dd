package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faqhub/faq-api/internal/domain"
	"github.com/faqhub/faq-api/internal/service/conversation"
	"github.com/faqhub/faq-api/internal/store"
)

type fakeConversationService struct {
	sessions  map[uuid.UUID]*domain.ConversationSession
	questions map[uuid.UUID][]*domain.QuestionLog
	feedback  []*conversation.EndFeedback
	stats     *conversation.Statistics
	startErr  error
}

func newFakeConversationService() *fakeConversationService {
	return &fakeConversationService{
		sessions:  make(map[uuid.UUID]*domain.ConversationSession),
		questions: make(map[uuid.UUID][]*domain.QuestionLog),
	}
}

func (f *fakeConversationService) Start(ctx context.Context, userID *uuid.UUID) (*domain.ConversationSession, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	session, err := domain.NewConversationSession(userID)
	if err != nil {
		return nil, err
	}
	f.sessions[session.ID] = session
	return session, nil
}

func (f *fakeConversationService) End(ctx context.Context, sessionID uuid.UUID, feedback *conversation.EndFeedback) error {
	session, ok := f.sessions[sessionID]
	if !ok {
		return store.ErrSessionNotFound
	}
	now := time.Now().UTC()
	session.Status = domain.SessionStatusEnded
	session.EndedAt = &now
	if feedback != nil {
		f.feedback = append(f.feedback, feedback)
	}
	return nil
}

func (f *fakeConversationService) Get(ctx context.Context, sessionID uuid.UUID) (*domain.ConversationSession, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeConversationService) Questions(ctx context.Context, sessionID uuid.UUID) ([]*domain.QuestionLog, error) {
	if _, ok := f.sessions[sessionID]; !ok {
		return nil, store.ErrSessionNotFound
	}
	return f.questions[sessionID], nil
}

func (f *fakeConversationService) Statistics(ctx context.Context) (*conversation.Statistics, error) {
	if f.stats == nil {
		return &conversation.Statistics{}, nil
	}
	return f.stats, nil
}

func TestSessionStart(t *testing.T) {
	t.Parallel()

	conversations := newFakeConversationService()
	handler := NewSessionHandler(conversations)

	t.Run("empty body starts anonymous session", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.Start(recorder, httptest.NewRequest(http.MethodPost, "/api/sessions", nil))

		require.Equal(t, http.StatusCreated, recorder.Code)
		var resp SessionResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.NotEqual(t, uuid.Nil, resp.SessionID)
		assert.Equal(t, string(domain.SessionStatusActive), resp.Status)
		assert.True(t, resp.IsActive)
	})

	t.Run("with user id", func(t *testing.T) {
		userID := uuid.New()
		body, err := json.Marshal(map[string]interface{}{"user_id": userID.String()})
		require.NoError(t, err)

		recorder := httptest.NewRecorder()
		handler.Start(recorder, httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewReader(body)))

		require.Equal(t, http.StatusCreated, recorder.Code)
		var resp SessionResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		session := conversations.sessions[resp.SessionID]
		require.NotNil(t, session)
		require.NotNil(t, session.UserID)
		assert.Equal(t, userID, *session.UserID)
	})

	t.Run("malformed user id", func(t *testing.T) {
		body, err := json.Marshal(map[string]interface{}{"user_id": "nope"})
		require.NoError(t, err)

		recorder := httptest.NewRecorder()
		handler.Start(recorder, httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestSessionEnd(t *testing.T) {
	t.Parallel()

	conversations := newFakeConversationService()
	handler := NewSessionHandler(conversations)

	session, err := conversations.Start(context.Background(), nil)
	require.NoError(t, err)

	rating := 4
	body, err := json.Marshal(EndSessionRequest{
		Feedback: &SessionFeedback{Rating: &rating, Comment: "quick answers"},
	})
	require.NoError(t, err)

	req := withURLParam(
		httptest.NewRequest(http.MethodPost, "/api/sessions/"+session.ID.String()+"/end", bytes.NewReader(body)),
		"id", session.ID.String())
	recorder := httptest.NewRecorder()
	handler.End(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp SessionResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, string(domain.SessionStatusEnded), resp.Status)
	assert.False(t, resp.IsActive)
	assert.NotNil(t, resp.EndedAt)

	// Feedback defaults to satisfied when the flag is omitted.
	require.Len(t, conversations.feedback, 1)
	assert.True(t, conversations.feedback[0].Satisfied)
	require.NotNil(t, conversations.feedback[0].Rating)
	assert.Equal(t, 4, *conversations.feedback[0].Rating)
	assert.Equal(t, "quick answers", conversations.feedback[0].Comment)
}

func TestSessionEndWithoutFeedback(t *testing.T) {
	t.Parallel()

	conversations := newFakeConversationService()
	handler := NewSessionHandler(conversations)

	session, err := conversations.Start(context.Background(), nil)
	require.NoError(t, err)

	req := withURLParam(
		httptest.NewRequest(http.MethodPost, "/api/sessions/"+session.ID.String()+"/end", nil),
		"id", session.ID.String())
	recorder := httptest.NewRecorder()
	handler.End(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, conversations.feedback)
}

func TestSessionEndUnknown(t *testing.T) {
	t.Parallel()

	handler := NewSessionHandler(newFakeConversationService())

	id := uuid.New().String()
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/end", nil), "id", id)
	recorder := httptest.NewRecorder()
	handler.End(recorder, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestSessionStatus(t *testing.T) {
	t.Parallel()

	conversations := newFakeConversationService()
	handler := NewSessionHandler(conversations)

	session, err := conversations.Start(context.Background(), nil)
	require.NoError(t, err)

	req := withURLParam(
		httptest.NewRequest(http.MethodGet, "/api/sessions/"+session.ID.String(), nil),
		"id", session.ID.String())
	recorder := httptest.NewRecorder()
	handler.Status(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp SessionResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, session.ID, resp.SessionID)
	assert.True(t, resp.IsActive)
}

func TestSessionQuestions(t *testing.T) {
	t.Parallel()

	conversations := newFakeConversationService()
	handler := NewSessionHandler(conversations)

	session, err := conversations.Start(context.Background(), nil)
	require.NoError(t, err)

	log, err := domain.NewQuestionLog("How do I reset my password?", &session.ID)
	require.NoError(t, err)
	conversations.questions[session.ID] = []*domain.QuestionLog{log}

	req := withURLParam(
		httptest.NewRequest(http.MethodGet, "/api/sessions/"+session.ID.String()+"/questions", nil),
		"id", session.ID.String())
	recorder := httptest.NewRecorder()
	handler.Questions(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp SessionQuestionsResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, session.ID, resp.SessionID)
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Questions, 1)
	assert.Equal(t, "How do I reset my password?", resp.Questions[0].Question)
}

func TestSessionStatistics(t *testing.T) {
	t.Parallel()

	conversations := newFakeConversationService()
	conversations.stats = &conversation.Statistics{
		ActiveSessions:             3,
		EndedSessions:              12,
		AverageQuestionsPerSession: 2.5,
	}
	handler := NewSessionHandler(conversations)

	recorder := httptest.NewRecorder()
	handler.Statistics(recorder, httptest.NewRequest(http.MethodGet, "/api/sessions/statistics", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp SessionStatisticsResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, int64(3), resp.ActiveSessions)
	assert.Equal(t, int64(12), resp.EndedSessions)
	assert.InDelta(t, 2.5, resp.AverageQuestionsPerSession, 1e-9)
}
