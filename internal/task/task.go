// Package task provides background task processing with database-backed
// persistence. Tasks are saved before they are enqueued so that a crash
// between submission and execution loses nothing; on startup the runner
// recovers unfinished tasks and requeues them.
package task

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/faqhub/faq-api/internal/store"
)

// TaskStatus represents the current state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task type constants
const (
	// TaskTypeLogEnrichment extracts keywords and a category for a
	// logged question after the chat response has already been sent.
	TaskTypeLogEnrichment = "log_enrichment"
)

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Payload returns the task data as a byte slice
	Payload() []byte

	// Status returns the current task status
	Status() TaskStatus

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// TaskStore defines the interface for persisting tasks
type TaskStore interface {
	// SaveTask persists a task to the database
	SaveTask(ctx context.Context, task Task) error

	// UpdateTaskStatus updates the status of a task
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error

	// GetPendingTasks retrieves all tasks with "pending" status
	GetPendingTasks(ctx context.Context) ([]Task, error)

	// GetProcessingTasks retrieves tasks with "processing" status.
	// If olderThan is non-zero, only returns tasks that have been in
	// this state longer than the specified duration.
	GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction for all operations.
	WithTx(tx store.DBTX) TaskStore
}

// Factory reconstructs an executable task from its persisted type and
// payload. Recovered tasks come out of the database as inert rows; the
// factory rebinds them to their execution logic.
type Factory interface {
	// Rebuild returns an executable task for the given persisted row,
	// or an error if the task type is unknown or the payload is invalid.
	Rebuild(taskID uuid.UUID, taskType string, payload []byte) (Task, error)
}
