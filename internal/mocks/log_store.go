package mocks

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/faqhub/faq-api/internal/domain"
	"github.com/faqhub/faq-api/internal/store"
)

// MockLogStore implements store.LogStore for testing. The default
// implementation appends entries to an in-memory slice; the mutex makes
// it safe to share with background workers under test.
type MockLogStore struct {
	// Function fields for customizable behavior
	CreateFn           func(ctx context.Context, log *domain.QuestionLog) error
	UpdateEnrichmentFn func(ctx context.Context, id uuid.UUID, keywords []string, category string) error

	// Data for default implementation
	mu   sync.Mutex
	Logs []*domain.QuestionLog
	Err  error
}

// NewMockLogStore creates a new mock store with initialized defaults
func NewMockLogStore() *MockLogStore {
	return &MockLogStore{}
}

// Create implements the store.LogStore interface
func (m *MockLogStore) Create(ctx context.Context, log *domain.QuestionLog) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, log)
	}
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, log)
	return nil
}

// GetByID implements the store.LogStore interface
func (m *MockLogStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuestionLog, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, log := range m.Logs {
		if log.ID == id {
			return log, nil
		}
	}
	return nil, store.ErrLogNotFound
}

// UpdateEnrichment implements the store.LogStore interface
func (m *MockLogStore) UpdateEnrichment(ctx context.Context, id uuid.UUID, keywords []string, category string) error {
	if m.UpdateEnrichmentFn != nil {
		return m.UpdateEnrichmentFn(ctx, id, keywords, category)
	}
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, log := range m.Logs {
		if log.ID == id {
			log.Keywords = strings.Join(keywords, ",")
			log.Category = category
			return nil
		}
	}
	return store.ErrLogNotFound
}

// ListBySession implements the store.LogStore interface
func (m *MockLogStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.QuestionLog, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	logs := make([]*domain.QuestionLog, 0)
	for _, log := range m.Logs {
		if log.SessionID != nil && *log.SessionID == sessionID {
			logs = append(logs, log)
		}
	}
	return logs, nil
}

// ListRecent implements the store.LogStore interface
func (m *MockLogStore) ListRecent(ctx context.Context, limit int) ([]*domain.QuestionLog, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	logs := make([]*domain.QuestionLog, 0, limit)
	for i := len(m.Logs) - 1; i >= 0 && len(logs) < limit; i-- {
		logs = append(logs, m.Logs[i])
	}
	return logs, nil
}

// TopCategories implements the store.LogStore interface
func (m *MockLogStore) TopCategories(ctx context.Context, limit int) ([]store.CategoryCount, error) {
	counts, err := m.CategoryCounts(ctx)
	if err != nil {
		return nil, err
	}
	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts, nil
}

// CategoryCounts implements the store.LogStore interface
func (m *MockLogStore) CategoryCounts(ctx context.Context) ([]store.CategoryCount, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	byCategory := make(map[string]int64)
	order := make([]string, 0)
	for _, log := range m.Logs {
		if log.Category == "" {
			continue
		}
		if _, seen := byCategory[log.Category]; !seen {
			order = append(order, log.Category)
		}
		byCategory[log.Category]++
	}

	counts := make([]store.CategoryCount, 0, len(order))
	for _, category := range order {
		counts = append(counts, store.CategoryCount{Category: category, Count: byCategory[category]})
	}
	return counts, nil
}

// CategoryQuestions implements the store.LogStore interface
func (m *MockLogStore) CategoryQuestions(ctx context.Context, category string, limit int) ([]*domain.QuestionLog, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	logs := make([]*domain.QuestionLog, 0)
	for i := len(m.Logs) - 1; i >= 0 && len(logs) < limit; i-- {
		if m.Logs[i].Category == category {
			logs = append(logs, m.Logs[i])
		}
	}
	return logs, nil
}

// DailyCounts implements the store.LogStore interface
func (m *MockLogStore) DailyCounts(ctx context.Context, days int) ([]store.DailyCount, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	byDay := make(map[string]*store.DailyCount)
	order := make([]string, 0)
	for _, log := range m.Logs {
		day := log.CreatedAt.Truncate(24 * time.Hour)
		key := day.Format("2006-01-02")
		if _, seen := byDay[key]; !seen {
			order = append(order, key)
			byDay[key] = &store.DailyCount{Day: day}
		}
		byDay[key].Count++
	}

	counts := make([]store.DailyCount, 0, len(order))
	for _, key := range order {
		counts = append(counts, *byDay[key])
	}
	return counts, nil
}

// Count implements the store.LogStore interface
func (m *MockLogStore) Count(ctx context.Context) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.Logs)), nil
}

// WithTx implements the store.LogStore interface
func (m *MockLogStore) WithTx(tx store.DBTX) store.LogStore {
	return m
}
