package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/faqhub/faq-api/internal/api/shared"
	"github.com/faqhub/faq-api/internal/domain"
	"github.com/faqhub/faq-api/internal/platform/logger"
	"github.com/faqhub/faq-api/internal/service/answer"
	"github.com/faqhub/faq-api/internal/store"
	"github.com/faqhub/faq-api/internal/task"
)

// AnswerService resolves a question to an answer, from the FAQ corpus or
// the LLM fallback.
type AnswerService interface {
	Answer(ctx context.Context, question string) (*answer.Result, error)
}

// SessionToucher refreshes a conversation session's activity timestamp.
type SessionToucher interface {
	TouchIfActive(ctx context.Context, sessionID uuid.UUID) bool
}

// TaskSubmitter enqueues background tasks.
type TaskSubmitter interface {
	Submit(ctx context.Context, t task.Task) error
}

// ChatHandler handles the question-answering endpoint.
type ChatHandler struct {
	answerService AnswerService
	sessions      SessionToucher
	logStore      store.LogStore
	tasks         TaskSubmitter
	logger        *slog.Logger
}

// NewChatHandler creates a new ChatHandler with the given dependencies.
// tasks may be nil, in which case question logs are not enriched.
func NewChatHandler(
	answerService AnswerService,
	sessions SessionToucher,
	logStore store.LogStore,
	tasks TaskSubmitter,
	log *slog.Logger,
) *ChatHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ChatHandler{
		answerService: answerService,
		sessions:      sessions,
		logStore:      logStore,
		tasks:         tasks,
		logger:        log.With(slog.String("component", "chat_handler")),
	}
}

// chatErrorAnswer is returned with a 500 when the answer pipeline itself
// fails, so chat clients always get a renderable payload.
const chatErrorAnswer = "The service is temporarily unavailable. Please try again in a moment."

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)

	// Bind the question to its session only while the session is live;
	// questions against ended or unknown sessions are still answered,
	// just not attributed.
	var sessionID *uuid.UUID
	var sessionActive *bool
	if req.SessionID != "" {
		id, err := uuid.Parse(req.SessionID)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid session_id", err)
			return
		}

		active := h.sessions.TouchIfActive(r.Context(), id)
		sessionActive = &active
		if active {
			sessionID = &id
		}
	}

	questionLog, err := domain.NewQuestionLog(req.Question, sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid question: "+err.Error(), err)
		return
	}

	if err := h.logStore.Create(r.Context(), questionLog); err != nil {
		HandleAPIError(w, r, err, "Failed to record question")
		return
	}

	h.enqueueEnrichment(r.Context(), questionLog, log)

	result, err := h.answerService.Answer(r.Context(), req.Question)
	if err != nil {
		log.Error("answer pipeline failed",
			slog.String("log_id", questionLog.ID.String()),
			slog.String("error", err.Error()))

		shared.RespondWithJSON(w, r, http.StatusInternalServerError, ChatResponse{
			Question:      req.Question,
			Answer:        chatErrorAnswer,
			Source:        answer.SourceError,
			Confidence:    answer.ConfidenceLow,
			RequiresHuman: true,
			SessionID:     req.SessionID,
			SessionActive: sessionActive,
		})
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ChatResponse{
		Question:      req.Question,
		Answer:        result.Answer,
		Source:        result.Source,
		Confidence:    result.Confidence,
		Similarity:    result.Similarity,
		RequiresHuman: result.RequiresHuman,
		SessionID:     req.SessionID,
		SessionActive: sessionActive,
	})
}

// LogQuestion handles POST /api/log. It records a question without
// running the answer pipeline, for clients that resolve answers
// elsewhere but still want analytics coverage.
func (h *ChatHandler) LogQuestion(w http.ResponseWriter, r *http.Request) {
	var req LogQuestionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)

	questionLog, err := domain.NewQuestionLog(req.Question, nil)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid question: "+err.Error(), err)
		return
	}

	if err := h.logStore.Create(r.Context(), questionLog); err != nil {
		HandleAPIError(w, r, err, "Failed to record question")
		return
	}

	h.enqueueEnrichment(r.Context(), questionLog, log)

	shared.RespondWithJSON(w, r, http.StatusCreated, questionLog)
}

// enqueueEnrichment schedules keyword extraction for the logged question.
// Enrichment is best-effort; a full queue or task store outage must not
// fail the chat request.
func (h *ChatHandler) enqueueEnrichment(ctx context.Context, questionLog *domain.QuestionLog, log *slog.Logger) {
	if h.tasks == nil {
		return
	}

	enrichment, err := task.NewLogEnrichmentTask(questionLog.ID, questionLog.Question, h.logStore)
	if err != nil {
		log.Error("failed to build enrichment task",
			slog.String("log_id", questionLog.ID.String()),
			slog.String("error", err.Error()))
		return
	}

	if err := h.tasks.Submit(ctx, enrichment); err != nil {
		log.Warn("failed to enqueue enrichment task",
			slog.String("log_id", questionLog.ID.String()),
			slog.String("error", err.Error()))
	}
}
