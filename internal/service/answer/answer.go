// Package answer produces responses to user questions. It first tries
// to match the question against the stored FAQ entries; when no entry
// is similar enough it falls back to a chat-completion provider primed
// with the FAQ corpus.
package answer

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/faqhub/faq-api/internal/config"
	"github.com/faqhub/faq-api/internal/domain"
	"github.com/faqhub/faq-api/internal/llm"
	"github.com/faqhub/faq-api/internal/platform/logger"
	"github.com/faqhub/faq-api/internal/service/keyword"
	"github.com/faqhub/faq-api/internal/store"
)

// Answer sources. SourceError marks degraded canned replies so clients
// can distinguish them from real answers.
const (
	SourceFAQ   = "faq"
	SourceAI    = "ai"
	SourceError = "error"
)

// Confidence levels reported with each answer.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// highConfidenceSimilarity is the similarity above which a FAQ match is
// reported as high confidence rather than medium.
const highConfidenceSimilarity = 0.6

// Result is the outcome of answering a single question.
type Result struct {
	Answer        string
	Source        string
	Confidence    string
	Similarity    float64
	RequiresHuman bool
	// MatchedFAQID is set when Source is "faq".
	MatchedFAQID *uuid.UUID
}

// Service answers questions from the FAQ corpus with LLM fallback.
type Service struct {
	faqStore store.FAQStore
	provider llm.Provider
	cfg      config.AIConfig
	logger   *slog.Logger
	sleepFn  func(ctx context.Context, d time.Duration) error
}

// NewService creates an answer service. The provider may be nil, in
// which case questions without a FAQ match get a low-confidence
// fallback answer instead of an LLM completion.
func NewService(faqStore store.FAQStore, provider llm.Provider, cfg config.AIConfig, log *slog.Logger) *Service {
	if faqStore == nil {
		panic("faqStore cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		faqStore: faqStore,
		provider: provider,
		cfg:      cfg,
		logger:   log.With(slog.String("component", "answer_service")),
		sleepFn:  sleepCtx,
	}
}

// fallbackAnswer is returned when no FAQ matches and no provider is
// configured or the provider keeps failing.
const fallbackAnswer = "Sorry, I don't have an answer for that yet. Please contact our support team."

// Answer resolves the question to a Result. It never returns an error
// for provider failures; those degrade to the fallback answer so the
// chat endpoint always responds.
func (s *Service) Answer(ctx context.Context, question string) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	faqs, err := s.faqStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load faqs: %w", err)
	}

	requiresHuman := keyword.RequiresHuman(question)

	bestFAQ, bestSim := bestMatch(question, faqs)
	if bestFAQ != nil && bestSim >= s.cfg.SimilarityThreshold {
		confidence := ConfidenceMedium
		if bestSim >= highConfidenceSimilarity {
			confidence = ConfidenceHigh
		}

		log.Debug("answered from faq",
			slog.String("faq_id", bestFAQ.ID.String()),
			slog.Float64("similarity", bestSim))

		id := bestFAQ.ID
		return &Result{
			Answer:        bestFAQ.Answer,
			Source:        SourceFAQ,
			Confidence:    confidence,
			Similarity:    round2(bestSim),
			RequiresHuman: requiresHuman,
			MatchedFAQID:  &id,
		}, nil
	}

	if s.provider == nil {
		return &Result{
			Answer:        fallbackAnswer,
			Source:        SourceError,
			Confidence:    ConfidenceLow,
			Similarity:    round2(bestSim),
			RequiresHuman: requiresHuman,
		}, nil
	}

	completion, err := s.generateWithRetry(ctx, question, faqs)
	if err != nil {
		log.Warn("llm fallback failed, returning canned answer",
			slog.String("error", err.Error()))
		return &Result{
			Answer:        fallbackAnswer,
			Source:        SourceError,
			Confidence:    ConfidenceLow,
			Similarity:    round2(bestSim),
			RequiresHuman: requiresHuman,
		}, nil
	}

	return &Result{
		Answer:        completion,
		Source:        SourceAI,
		Confidence:    ConfidenceMedium,
		Similarity:    round2(bestSim),
		RequiresHuman: requiresHuman,
	}, nil
}

// generateWithRetry calls the provider with exponential backoff and
// jitter. Only transient errors are retried.
func (s *Service) generateWithRetry(ctx context.Context, question string, faqs []*domain.FAQ) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	prompt := buildPrompt(question, faqs)
	opts := llm.Options{
		Model:       s.cfg.Model,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	}

	maxRetries := s.cfg.MaxRetries
	baseDelay := time.Duration(s.cfg.RetryDelaySeconds) * time.Second
	if baseDelay <= 0 {
		baseDelay = 2 * time.Second
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff with jitter in [0.5, 1.0) of the step.
			delay := time.Duration(float64(baseDelay) * math.Pow(2, float64(attempt-1)) * (0.5 + rand.Float64()*0.5))
			log.Debug("retrying llm call",
				slog.Int("attempt", attempt+1),
				slog.Duration("delay", delay))
			if err := s.sleepFn(ctx, delay); err != nil {
				return "", err
			}
		}

		completion, err := s.provider.Generate(ctx, prompt, opts)
		if err == nil {
			return completion, nil
		}

		lastErr = err
		if !llm.IsTransient(err) {
			return "", err
		}
	}

	return "", fmt.Errorf("llm call failed after %d attempts: %w", maxRetries+1, lastErr)
}

// buildPrompt primes the model with the FAQ corpus so its answers stay
// grounded in what the business actually promises.
func buildPrompt(question string, faqs []*domain.FAQ) string {
	var b strings.Builder
	b.WriteString("You are a customer support assistant. Answer the user's question using the FAQ entries below when relevant. Be concise and factual. If the FAQs do not cover the question, say you are not sure and suggest contacting support.\n\n")

	if len(faqs) > 0 {
		b.WriteString("FAQ entries:\n")
		for _, faq := range faqs {
			b.WriteString("Q: ")
			b.WriteString(faq.Question)
			b.WriteString("\nA: ")
			b.WriteString(faq.Answer)
			b.WriteString("\n\n")
		}
	}

	b.WriteString("User question: ")
	b.WriteString(question)
	return b.String()
}

// bestMatch returns the FAQ whose question is most similar to the
// input, with its similarity score. Returns nil when no FAQs exist.
func bestMatch(question string, faqs []*domain.FAQ) (*domain.FAQ, float64) {
	questionKeywords := keyword.Process(question).Keywords

	var best *domain.FAQ
	bestSim := 0.0
	for _, faq := range faqs {
		sim := jaccard(questionKeywords, keyword.Process(faq.Question).Keywords)
		if sim > bestSim {
			best = faq
			bestSim = sim
		}
	}
	return best, bestSim
}

// jaccard computes set similarity between two keyword lists.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, w := range a {
		setA[w] = struct{}{}
	}

	intersection := 0
	setB := make(map[string]struct{}, len(b))
	for _, w := range b {
		if _, dup := setB[w]; dup {
			continue
		}
		setB[w] = struct{}{}
		if _, ok := setA[w]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
