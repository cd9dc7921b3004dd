package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faqhub/faq-api/internal/domain"
	"github.com/faqhub/faq-api/internal/mocks"
)

func seedQuestion(t *testing.T, logStore *mocks.MockLogStore, question, category string) {
	t.Helper()
	log, err := domain.NewQuestionLog(question, nil)
	require.NoError(t, err)
	log.Category = category
	require.NoError(t, logStore.Create(context.Background(), log))
}

func seedFeedback(t *testing.T, feedbackStore *mocks.MockFeedbackStore, satisfied bool, rating *int) {
	t.Helper()
	fb, err := domain.NewFeedback(satisfied, rating, "", nil)
	require.NoError(t, err)
	require.NoError(t, feedbackStore.Create(context.Background(), fb))
}

func TestTopCategories(t *testing.T) {
	t.Parallel()

	logStore := mocks.NewMockLogStore()
	seedQuestion(t, logStore, "Where is my order?", "shipping")
	seedQuestion(t, logStore, "Do you ship abroad?", "shipping")
	seedQuestion(t, logStore, "How do I pay?", "billing")
	handler := NewAnalyticsHandler(logStore, mocks.NewMockFeedbackStore())

	recorder := httptest.NewRecorder()
	handler.TopCategories(recorder, httptest.NewRequest(http.MethodGet, "/api/analytics/top-categories", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp TopCategoriesResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	require.Len(t, resp.Categories, 2)
}

func TestTopCategoriesLimit(t *testing.T) {
	t.Parallel()

	logStore := mocks.NewMockLogStore()
	seedQuestion(t, logStore, "Where is my order?", "shipping")
	seedQuestion(t, logStore, "How do I pay?", "billing")
	seedQuestion(t, logStore, "How do I return this?", "returns")
	handler := NewAnalyticsHandler(logStore, mocks.NewMockFeedbackStore())

	recorder := httptest.NewRecorder()
	handler.TopCategories(recorder, httptest.NewRequest(http.MethodGet, "/api/analytics/top-categories?limit=2", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp TopCategoriesResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Len(t, resp.Categories, 2)
}

func TestCategoryDetails(t *testing.T) {
	t.Parallel()

	logStore := mocks.NewMockLogStore()
	seedQuestion(t, logStore, "Where is my order?", "shipping")
	seedQuestion(t, logStore, "Do you ship abroad?", "shipping")
	seedQuestion(t, logStore, "How do I pay?", "billing")
	handler := NewAnalyticsHandler(logStore, mocks.NewMockFeedbackStore())

	req := withURLParam(
		httptest.NewRequest(http.MethodGet, "/api/analytics/categories/shipping", nil),
		"category", "shipping")
	recorder := httptest.NewRecorder()
	handler.CategoryDetails(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp CategoryDetailResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "shipping", resp.Category)
	assert.Equal(t, int64(2), resp.Count)
	require.Len(t, resp.Questions, 2)
}

func TestDailyCounts(t *testing.T) {
	t.Parallel()

	logStore := mocks.NewMockLogStore()
	seedQuestion(t, logStore, "Where is my order?", "shipping")
	seedQuestion(t, logStore, "How do I pay?", "billing")
	handler := NewAnalyticsHandler(logStore, mocks.NewMockFeedbackStore())

	recorder := httptest.NewRecorder()
	handler.DailyCounts(recorder, httptest.NewRequest(http.MethodGet, "/api/analytics/daily?days=7", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp DailyCountsResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	require.Len(t, resp.Days, 1)
	assert.Equal(t, int64(2), resp.Days[0].Count)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, resp.Days[0].Date)
}

func TestSubmitFeedback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		payload    map[string]interface{}
		wantStatus int
	}{
		{
			name:       "satisfied with rating",
			payload:    map[string]interface{}{"satisfied": true, "rating": 5},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "unsatisfied with comment",
			payload:    map[string]interface{}{"satisfied": false, "comment": "answer missed the point"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing satisfied flag",
			payload:    map[string]interface{}{"rating": 5},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "rating out of range",
			payload:    map[string]interface{}{"satisfied": true, "rating": 9},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed session id",
			payload:    map[string]interface{}{"satisfied": true, "session_id": "nope"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feedbackStore := mocks.NewMockFeedbackStore()
			handler := NewAnalyticsHandler(mocks.NewMockLogStore(), feedbackStore)

			body, err := json.Marshal(tt.payload)
			require.NoError(t, err)
			recorder := httptest.NewRecorder()
			handler.SubmitFeedback(recorder, httptest.NewRequest(http.MethodPost, "/api/feedback", bytes.NewReader(body)))

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantStatus == http.StatusCreated {
				assert.Len(t, feedbackStore.Feedback, 1)
			}
		})
	}
}

func TestCSAT(t *testing.T) {
	t.Parallel()

	rating5, rating3 := 5, 3

	t.Run("mixed feedback", func(t *testing.T) {
		feedbackStore := mocks.NewMockFeedbackStore()
		seedFeedback(t, feedbackStore, true, &rating5)
		seedFeedback(t, feedbackStore, true, &rating3)
		seedFeedback(t, feedbackStore, false, nil)
		handler := NewAnalyticsHandler(mocks.NewMockLogStore(), feedbackStore)

		recorder := httptest.NewRecorder()
		handler.CSAT(recorder, httptest.NewRequest(http.MethodGet, "/api/analytics/csat", nil))

		require.Equal(t, http.StatusOK, recorder.Code)
		var resp CSATResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.InDelta(t, 66.67, resp.CSAT, 1e-9)
		assert.Equal(t, int64(3), resp.TotalFeedback)
		assert.InDelta(t, 4.0, resp.AverageRating, 1e-9)
	})

	t.Run("no feedback yet", func(t *testing.T) {
		handler := NewAnalyticsHandler(mocks.NewMockLogStore(), mocks.NewMockFeedbackStore())

		recorder := httptest.NewRecorder()
		handler.CSAT(recorder, httptest.NewRequest(http.MethodGet, "/api/analytics/csat", nil))

		require.Equal(t, http.StatusOK, recorder.Code)
		var resp CSATResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Zero(t, resp.CSAT)
		assert.Zero(t, resp.TotalFeedback)
	})
}
