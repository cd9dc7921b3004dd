package reaper

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingExpirer struct {
	calls atomic.Int64
}

func (e *countingExpirer) ExpireIdle(context.Context) (int64, error) {
	e.calls.Add(1)
	return 1, nil
}

func TestNewRejectsBadCronSpec(t *testing.T) {
	t.Parallel()

	_, err := New(&countingExpirer{}, "not a cron spec", nil)
	require.Error(t, err)
}

func TestReaperRunsOnSchedule(t *testing.T) {
	t.Parallel()

	expirer := &countingExpirer{}
	r, err := New(expirer, "@every 10ms", nil)
	require.NoError(t, err)

	r.Start()
	defer r.Stop()

	assert.Eventually(t, func() bool {
		return expirer.calls.Load() >= 1
	}, 2*time.Second, 5*time.Millisecond)
}
