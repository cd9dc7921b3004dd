package mocks

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/faqhub/faq-api/internal/domain"
	"github.com/faqhub/faq-api/internal/store"
)

// MockFAQStore implements store.FAQStore for testing. The default
// implementation keeps entries in a map keyed by ID.
type MockFAQStore struct {
	// Function fields for customizable behavior
	CreateFn      func(ctx context.Context, faq *domain.FAQ) error
	CreateBatchFn func(ctx context.Context, faqs []*domain.FAQ) error
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.FAQ, error)
	ListFn        func(ctx context.Context) ([]*domain.FAQ, error)
	UpdateFn      func(ctx context.Context, faq *domain.FAQ) error
	DeleteFn      func(ctx context.Context, id uuid.UUID) error

	// Data for default implementation
	FAQs    map[uuid.UUID]*domain.FAQ
	Err     error
	ListErr error
}

// NewMockFAQStore creates a new mock store with initialized defaults
func NewMockFAQStore() *MockFAQStore {
	return &MockFAQStore{
		FAQs: make(map[uuid.UUID]*domain.FAQ),
	}
}

// Create implements the store.FAQStore interface
func (m *MockFAQStore) Create(ctx context.Context, faq *domain.FAQ) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, faq)
	}
	if m.Err != nil {
		return m.Err
	}

	m.FAQs[faq.ID] = faq
	return nil
}

// CreateBatch implements the store.FAQStore interface
func (m *MockFAQStore) CreateBatch(ctx context.Context, faqs []*domain.FAQ) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, faqs)
	}
	if m.Err != nil {
		return m.Err
	}

	for _, faq := range faqs {
		m.FAQs[faq.ID] = faq
	}
	return nil
}

// GetByID implements the store.FAQStore interface
func (m *MockFAQStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.FAQ, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if m.Err != nil {
		return nil, m.Err
	}

	faq, exists := m.FAQs[id]
	if !exists {
		return nil, store.ErrFAQNotFound
	}
	return faq, nil
}

// List implements the store.FAQStore interface
func (m *MockFAQStore) List(ctx context.Context) ([]*domain.FAQ, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	if m.Err != nil {
		return nil, m.Err
	}

	faqs := make([]*domain.FAQ, 0, len(m.FAQs))
	for _, faq := range m.FAQs {
		faqs = append(faqs, faq)
	}
	sort.Slice(faqs, func(i, j int) bool {
		return faqs[i].CreatedAt.After(faqs[j].CreatedAt)
	})
	return faqs, nil
}

// Update implements the store.FAQStore interface
func (m *MockFAQStore) Update(ctx context.Context, faq *domain.FAQ) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, faq)
	}
	if m.Err != nil {
		return m.Err
	}

	if _, exists := m.FAQs[faq.ID]; !exists {
		return store.ErrFAQNotFound
	}
	m.FAQs[faq.ID] = faq
	return nil
}

// Delete implements the store.FAQStore interface
func (m *MockFAQStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if m.Err != nil {
		return m.Err
	}

	if _, exists := m.FAQs[id]; !exists {
		return store.ErrFAQNotFound
	}
	delete(m.FAQs, id)
	return nil
}

// Count implements the store.FAQStore interface
func (m *MockFAQStore) Count(ctx context.Context) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return int64(len(m.FAQs)), nil
}

// WithTx implements the store.FAQStore interface
func (m *MockFAQStore) WithTx(tx store.DBTX) store.FAQStore {
	return m
}
