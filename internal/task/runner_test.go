package task

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faqhub/faq-api/internal/store"
)

// memoryTaskStore is an in-memory TaskStore for runner tests.
type memoryTaskStore struct {
	mu       sync.Mutex
	statuses map[uuid.UUID]TaskStatus
	saved    []Task
	saveErr  error
}

func newMemoryTaskStore() *memoryTaskStore {
	return &memoryTaskStore{statuses: make(map[uuid.UUID]TaskStatus)}
}

func (s *memoryTaskStore) SaveTask(_ context.Context, t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, t)
	s.statuses[t.ID()] = TaskStatusPending
	return nil
}

func (s *memoryTaskStore) UpdateTaskStatus(_ context.Context, taskID uuid.UUID, status TaskStatus, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[taskID] = status
	return nil
}

func (s *memoryTaskStore) GetPendingTasks(_ context.Context) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pending []Task
	for _, t := range s.saved {
		if s.statuses[t.ID()] == TaskStatusPending {
			pending = append(pending, t)
		}
	}
	return pending, nil
}

func (s *memoryTaskStore) GetProcessingTasks(_ context.Context, _ time.Duration) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var processing []Task
	for _, t := range s.saved {
		if s.statuses[t.ID()] == TaskStatusProcessing {
			processing = append(processing, t)
		}
	}
	return processing, nil
}

func (s *memoryTaskStore) WithTx(_ store.DBTX) TaskStore {
	return s
}

func (s *memoryTaskStore) status(taskID uuid.UUID) TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statuses[taskID]
}

// fakeTask is a controllable Task implementation.
type fakeTask struct {
	id      uuid.UUID
	err     error
	done    chan struct{}
	runOnce sync.Once
}

func newFakeTask(err error) *fakeTask {
	return &fakeTask{id: uuid.New(), err: err, done: make(chan struct{})}
}

func (t *fakeTask) ID() uuid.UUID      { return t.id }
func (t *fakeTask) Type() string       { return "fake" }
func (t *fakeTask) Payload() []byte    { return []byte(`{}`) }
func (t *fakeTask) Status() TaskStatus { return TaskStatusPending }

func (t *fakeTask) Execute(_ context.Context) error {
	t.runOnce.Do(func() { close(t.done) })
	return t.err
}

func (t *fakeTask) waitDone(tb testing.TB) {
	tb.Helper()
	select {
	case <-t.done:
	case <-time.After(2 * time.Second):
		tb.Fatal("task was not executed within timeout")
	}
}

func testConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount:            1,
		QueueSize:              4,
		StuckTaskAge:           time.Minute,
		StuckTaskCheckInterval: time.Hour,
	}
}

func TestRunnerExecutesSubmittedTask(t *testing.T) {
	t.Parallel()

	taskStore := newMemoryTaskStore()
	runner := NewRunner(taskStore, nil, testConfig(), slog.Default())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	ft := newFakeTask(nil)
	require.NoError(t, runner.Submit(context.Background(), ft))

	ft.waitDone(t)
	assert.Eventually(t, func() bool {
		return taskStore.status(ft.ID()) == TaskStatusCompleted
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRunnerRecordsFailure(t *testing.T) {
	t.Parallel()

	taskStore := newMemoryTaskStore()
	runner := NewRunner(taskStore, nil, testConfig(), slog.Default())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	ft := newFakeTask(errors.New("boom"))
	require.NoError(t, runner.Submit(context.Background(), ft))

	ft.waitDone(t)
	assert.Eventually(t, func() bool {
		return taskStore.status(ft.ID()) == TaskStatusFailed
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRunnerSubmitFailsWhenSaveFails(t *testing.T) {
	t.Parallel()

	taskStore := newMemoryTaskStore()
	taskStore.saveErr = errors.New("db down")
	runner := NewRunner(taskStore, nil, testConfig(), slog.Default())

	err := runner.Submit(context.Background(), newFakeTask(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save task")
}

func TestRunnerSubmitFailsWhenQueueFull(t *testing.T) {
	t.Parallel()

	taskStore := newMemoryTaskStore()
	cfg := testConfig()
	cfg.QueueSize = 1
	// Runner deliberately not started, so nothing drains the queue.
	runner := NewRunner(taskStore, nil, cfg, slog.Default())

	require.NoError(t, runner.Submit(context.Background(), newFakeTask(nil)))
	err := runner.Submit(context.Background(), newFakeTask(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue is full")
}

func TestRunnerRecoversPendingTasks(t *testing.T) {
	t.Parallel()

	taskStore := newMemoryTaskStore()
	ft := newFakeTask(nil)
	require.NoError(t, taskStore.SaveTask(context.Background(), ft))

	runner := NewRunner(taskStore, nil, testConfig(), slog.Default())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	ft.waitDone(t)
	assert.Eventually(t, func() bool {
		return taskStore.status(ft.ID()) == TaskStatusCompleted
	}, 2*time.Second, 10*time.Millisecond)
}
