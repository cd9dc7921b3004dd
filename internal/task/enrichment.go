package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/faqhub/faq-api/internal/service/keyword"
	"github.com/faqhub/faq-api/internal/store"
)

// logEnrichmentPayload is the persisted form of a log enrichment task.
type logEnrichmentPayload struct {
	LogID    uuid.UUID `json:"log_id"`
	Question string    `json:"question"`
}

// LogEnrichmentTask extracts keywords and a category for a logged
// question and writes them back to the question log. It runs after the
// chat response has been sent so extraction cost never delays a reply.
type LogEnrichmentTask struct {
	id       uuid.UUID
	payload  []byte
	logID    uuid.UUID
	question string
	logStore store.LogStore
}

// NewLogEnrichmentTask creates a task that will enrich the question log
// entry with the given ID.
func NewLogEnrichmentTask(logID uuid.UUID, question string, logStore store.LogStore) (*LogEnrichmentTask, error) {
	if logStore == nil {
		return nil, fmt.Errorf("logStore cannot be nil")
	}

	payload, err := json.Marshal(logEnrichmentPayload{
		LogID:    logID,
		Question: question,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}

	return &LogEnrichmentTask{
		id:       uuid.New(),
		payload:  payload,
		logID:    logID,
		question: question,
		logStore: logStore,
	}, nil
}

// ID implements Task.ID
func (t *LogEnrichmentTask) ID() uuid.UUID {
	return t.id
}

// Type implements Task.Type
func (t *LogEnrichmentTask) Type() string {
	return TaskTypeLogEnrichment
}

// Payload implements Task.Payload
func (t *LogEnrichmentTask) Payload() []byte {
	return t.payload
}

// Status implements Task.Status
func (t *LogEnrichmentTask) Status() TaskStatus {
	return TaskStatusPending
}

// Execute implements Task.Execute
func (t *LogEnrichmentTask) Execute(ctx context.Context) error {
	result := keyword.Process(t.question)

	if err := t.logStore.UpdateEnrichment(ctx, t.logID, result.Keywords, result.Category); err != nil {
		return fmt.Errorf("failed to store enrichment for log %s: %w", t.logID, err)
	}
	return nil
}

// EnrichmentFactory rebuilds log enrichment tasks recovered from the
// database.
type EnrichmentFactory struct {
	logStore store.LogStore
}

// NewEnrichmentFactory creates a Factory for log enrichment tasks.
func NewEnrichmentFactory(logStore store.LogStore) *EnrichmentFactory {
	return &EnrichmentFactory{logStore: logStore}
}

// Ensure EnrichmentFactory implements Factory
var _ Factory = (*EnrichmentFactory)(nil)

// Rebuild implements Factory.Rebuild
func (f *EnrichmentFactory) Rebuild(taskID uuid.UUID, taskType string, payload []byte) (Task, error) {
	if taskType != TaskTypeLogEnrichment {
		return nil, fmt.Errorf("unknown task type: %s", taskType)
	}

	var p logEnrichmentPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	return &LogEnrichmentTask{
		id:       taskID,
		payload:  payload,
		logID:    p.LogID,
		question: p.Question,
		logStore: f.logStore,
	}, nil
}
