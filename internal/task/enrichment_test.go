package task

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faqhub/faq-api/internal/store"
)

// fakeLogStore records enrichment calls. Embedding the interface keeps
// the fake small; only UpdateEnrichment is implemented.
type fakeLogStore struct {
	store.LogStore

	gotID       uuid.UUID
	gotKeywords []string
	gotCategory string
	err         error
}

func (s *fakeLogStore) UpdateEnrichment(_ context.Context, id uuid.UUID, keywords []string, category string) error {
	if s.err != nil {
		return s.err
	}
	s.gotID = id
	s.gotKeywords = keywords
	s.gotCategory = category
	return nil
}

func TestLogEnrichmentTaskExecute(t *testing.T) {
	t.Parallel()

	logStore := &fakeLogStore{}
	logID := uuid.New()

	enrichment, err := NewLogEnrichmentTask(logID, "how do I reset my password", logStore)
	require.NoError(t, err)
	require.Equal(t, TaskTypeLogEnrichment, enrichment.Type())

	require.NoError(t, enrichment.Execute(context.Background()))

	assert.Equal(t, logID, logStore.gotID)
	assert.Equal(t, []string{"reset", "password"}, logStore.gotKeywords)
	assert.Equal(t, "account", logStore.gotCategory)
}

func TestLogEnrichmentTaskRequiresStore(t *testing.T) {
	t.Parallel()

	_, err := NewLogEnrichmentTask(uuid.New(), "anything", nil)
	require.Error(t, err)
}

func TestEnrichmentFactoryRebuild(t *testing.T) {
	t.Parallel()

	logStore := &fakeLogStore{}
	logID := uuid.New()

	original, err := NewLogEnrichmentTask(logID, "where is my order", logStore)
	require.NoError(t, err)

	factory := NewEnrichmentFactory(logStore)
	rebuilt, err := factory.Rebuild(original.ID(), original.Type(), original.Payload())
	require.NoError(t, err)
	assert.Equal(t, original.ID(), rebuilt.ID())

	require.NoError(t, rebuilt.Execute(context.Background()))
	assert.Equal(t, "shipping", logStore.gotCategory)
}

func TestEnrichmentFactoryRejectsUnknownType(t *testing.T) {
	t.Parallel()

	factory := NewEnrichmentFactory(&fakeLogStore{})
	_, err := factory.Rebuild(uuid.New(), "mystery", []byte(`{}`))
	require.Error(t, err)
}
