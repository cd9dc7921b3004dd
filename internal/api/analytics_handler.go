package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/faqhub/faq-api/internal/api/shared"
	"github.com/faqhub/faq-api/internal/domain"
	"github.com/faqhub/faq-api/internal/store"
)

// Defaults for analytics query windows.
const (
	defaultTopCategories     = 5
	defaultCategoryQuestions = 20
	defaultDailyWindowDays   = 7
	maxQueryLimit            = 100
	maxDailyWindowDays       = 365
)

// AnalyticsHandler serves question and satisfaction analytics.
type AnalyticsHandler struct {
	logStore      store.LogStore
	feedbackStore store.FeedbackStore
}

// NewAnalyticsHandler creates a new AnalyticsHandler with the given dependencies.
func NewAnalyticsHandler(logStore store.LogStore, feedbackStore store.FeedbackStore) *AnalyticsHandler {
	return &AnalyticsHandler{
		logStore:      logStore,
		feedbackStore: feedbackStore,
	}
}

// TopCategories handles GET /api/analytics/top-categories.
func (h *AnalyticsHandler) TopCategories(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultTopCategories, maxQueryLimit)

	counts, err := h.logStore.TopCategories(r.Context(), limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get top categories")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TopCategoriesResponse{
		Categories: toCategoryCounts(counts),
	})
}

// Categories handles GET /api/analytics/categories.
func (h *AnalyticsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	counts, err := h.logStore.CategoryCounts(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get categories")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TopCategoriesResponse{
		Categories: toCategoryCounts(counts),
	})
}

// CategoryDetails handles GET /api/analytics/categories/{category}.
func (h *AnalyticsHandler) CategoryDetails(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if category == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Category is required")
		return
	}

	limit := queryInt(r, "limit", defaultCategoryQuestions, maxQueryLimit)

	questions, err := h.logStore.CategoryQuestions(r.Context(), category, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get category details")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CategoryDetailResponse{
		Category:  category,
		Count:     int64(len(questions)),
		Questions: questions,
	})
}

// DailyCounts handles GET /api/analytics/daily.
func (h *AnalyticsHandler) DailyCounts(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", defaultDailyWindowDays, maxDailyWindowDays)

	counts, err := h.logStore.DailyCounts(r.Context(), days)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get daily counts")
		return
	}

	resp := DailyCountsResponse{Days: make([]DailyCountResponse, 0, len(counts))}
	for _, c := range counts {
		resp.Days = append(resp.Days, DailyCountResponse{
			Date:  c.Day.Format("2006-01-02"),
			Count: c.Count,
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// SubmitFeedback handles POST /api/feedback.
func (h *AnalyticsHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var sessionID *uuid.UUID
	if req.SessionID != "" {
		id, err := uuid.Parse(req.SessionID)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid session_id", err)
			return
		}
		sessionID = &id
	}

	fb, err := domain.NewFeedback(*req.Satisfied, req.Rating, req.Comment, sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid feedback: "+err.Error(), err)
		return
	}

	if err := h.feedbackStore.Create(r.Context(), fb); err != nil {
		HandleAPIError(w, r, err, "Failed to record feedback")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, fb)
}

// CSAT handles GET /api/analytics/csat. The score is reported as a
// percentage rounded to two decimal places.
func (h *AnalyticsHandler) CSAT(w http.ResponseWriter, r *http.Request) {
	summary, err := h.feedbackStore.Summary(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute satisfaction score")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CSATResponse{
		CSAT:          math.Round(summary.Score*10000) / 100,
		TotalFeedback: summary.Total,
		AverageRating: math.Round(summary.AverageRating*100) / 100,
	})
}

func toCategoryCounts(counts []store.CategoryCount) []CategoryCountResponse {
	out := make([]CategoryCountResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, CategoryCountResponse{Category: c.Category, Count: c.Count})
	}
	return out
}

// queryInt parses an optional positive integer query parameter, clamped
// to max, falling back to def when absent or malformed.
func queryInt(r *http.Request, name string, def, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}
