package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/faqhub/faq-api/internal/api/shared"
	"github.com/faqhub/faq-api/internal/domain"
	"github.com/faqhub/faq-api/internal/store"
)

// FAQHandler handles CRUD API requests for FAQ entries.
type FAQHandler struct {
	faqStore store.FAQStore
}

// NewFAQHandler creates a new FAQHandler with the given dependencies.
func NewFAQHandler(faqStore store.FAQStore) *FAQHandler {
	return &FAQHandler{faqStore: faqStore}
}

// List handles GET /api/faqs.
func (h *FAQHandler) List(w http.ResponseWriter, r *http.Request) {
	faqs, err := h.faqStore.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list FAQs")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, FAQListResponse{
		FAQs:  faqs,
		Total: int64(len(faqs)),
	})
}

// Get handles GET /api/faqs/{id}.
func (h *FAQHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	faq, err := h.faqStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get FAQ")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, faq)
}

// Create handles POST /api/faqs. Requires the admin role.
// The body may be a single FAQ object or an array of them; array input
// is persisted atomically.
func (h *FAQHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
		h.createBatch(w, r, trimmed)
		return
	}

	var req CreateFAQRequest
	if err := json.Unmarshal(body, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	faq, err := domain.NewFAQ(req.Question, req.Answer)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid FAQ data: "+err.Error(), err)
		return
	}

	if err := h.faqStore.Create(r.Context(), faq); err != nil {
		HandleAPIError(w, r, err, "Failed to create FAQ")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, faq)
}

// createBatch persists an array of FAQ entries as a single atomic batch.
func (h *FAQHandler) createBatch(w http.ResponseWriter, r *http.Request, body []byte) {
	var reqs []CreateFAQRequest
	if err := json.Unmarshal(body, &reqs); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if len(reqs) == 0 {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "At least one FAQ is required", nil)
		return
	}

	faqs := make([]*domain.FAQ, 0, len(reqs))
	for _, req := range reqs {
		if err := shared.ValidateRequest(&req); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
			return
		}
		faq, err := domain.NewFAQ(req.Question, req.Answer)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid FAQ data: "+err.Error(), err)
			return
		}
		faqs = append(faqs, faq)
	}

	if err := h.faqStore.CreateBatch(r.Context(), faqs); err != nil {
		HandleAPIError(w, r, err, "Failed to create FAQs")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, FAQListResponse{
		FAQs:  faqs,
		Total: int64(len(faqs)),
	})
}

// Update handles PUT /api/faqs/{id}. Requires the admin role.
func (h *FAQHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateFAQRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	faq, err := h.faqStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update FAQ")
		return
	}

	faq.Question = req.Question
	faq.Answer = req.Answer
	if err := faq.Validate(); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid FAQ data: "+err.Error(), err)
		return
	}

	if err := h.faqStore.Update(r.Context(), faq); err != nil {
		HandleAPIError(w, r, err, "Failed to update FAQ")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, faq)
}

// Delete handles DELETE /api/faqs/{id}. Requires the admin role.
func (h *FAQHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.faqStore.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete FAQ")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
