package queue

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"nexusai/internal/config"
	"nexusai/internal/store"
	"nexusai/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func openTestQueue(t *testing.T, cfg config.QueueConfig) (*Queue, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "queue.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	q := New(s, cfg)
	q.Start(context.Background())
	t.Cleanup(q.Stop)
	return q, s
}

func testPlan(steps int) types.Plan {
	plan := types.Plan{}
	for i := 0; i < steps; i++ {
		plan.Steps = append(plan.Steps, types.PlanStep{
			StepID:     i + 1,
			Tool:       types.ToolSearch,
			Args:       map[string]any{"query": "laptops under 40000"},
			Reason:     "Search for matching products",
			Confidence: 0.9,
		})
	}
	return plan
}

// waitForStatus polls the store until the job reaches the wanted status.
func waitForStatus(t *testing.T, s *store.Store, id string, want types.JobStatus) types.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := s.GetJob(id)
		require.NoError(t, err)
		if job != nil && job.Status == want {
			return *job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached status %s", id, want)
	return types.Job{}
}

func TestQueue_RunsJobToCompletion(t *testing.T) {
	q, s := openTestQueue(t, config.QueueConfig{Workers: 1, QueueSize: 8, StepDelayMs: 1})

	job, err := q.Enqueue("find laptops under 40000", testPlan(3))
	require.NoError(t, err)
	require.Equal(t, types.JobQueued, job.Status)

	done := waitForStatus(t, s, job.ID, types.JobFinished)
	require.Equal(t, 100, done.Progress)
	require.Len(t, done.Results, 3)
	require.NotNil(t, done.StartedAt)
	require.NotNil(t, done.EndedAt)
	for i, res := range done.Results {
		require.Equal(t, i+1, res.StepID)
		require.Equal(t, "completed", res.Status)
		require.Contains(t, res.Output, "Simulated result")
	}
}

func TestQueue_EnqueueBeforeStart(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "queue.db"))
	require.NoError(t, err)
	defer s.Close()

	q := New(s, config.QueueConfig{Workers: 1, QueueSize: 8})
	_, err = q.Enqueue("find laptops under 40000", testPlan(1))
	require.ErrorIs(t, err, ErrNotRunning)
}

func TestQueue_CancelRunningJob(t *testing.T) {
	q, s := openTestQueue(t, config.QueueConfig{Workers: 1, QueueSize: 8, StepDelayMs: 200})

	job, err := q.Enqueue("find laptops under 40000", testPlan(10))
	require.NoError(t, err)

	waitForStatus(t, s, job.ID, types.JobRunning)
	ok, err := q.Cancel(job.ID)
	require.NoError(t, err)
	require.True(t, ok)

	done := waitForStatus(t, s, job.ID, types.JobCanceled)
	require.Less(t, done.Progress, 100)
}

func TestQueue_CancelUnknownJob(t *testing.T) {
	q, _ := openTestQueue(t, config.QueueConfig{Workers: 1, QueueSize: 8})

	ok, err := q.Cancel("no-such-job")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestScheduler_FiresAfterDelay(t *testing.T) {
	q, s := openTestQueue(t, config.QueueConfig{Workers: 1, QueueSize: 8})
	sched := NewScheduler(q)
	t.Cleanup(sched.Stop)

	job, err := sched.EnqueueIn(10*time.Millisecond, "find laptops under 40000", testPlan(2))
	require.NoError(t, err)
	require.Equal(t, types.JobQueued, job.Status)

	waitForStatus(t, s, job.ID, types.JobFinished)
}

func TestScheduler_CancelBeforeFire(t *testing.T) {
	q, s := openTestQueue(t, config.QueueConfig{Workers: 1, QueueSize: 8})
	sched := NewScheduler(q)
	t.Cleanup(sched.Stop)

	job, err := sched.EnqueueIn(time.Hour, "find laptops under 40000", testPlan(2))
	require.NoError(t, err)

	require.True(t, sched.CancelScheduled(job.ID))

	got, err := s.GetJob(job.ID)
	require.NoError(t, err)
	require.Equal(t, types.JobCanceled, got.Status)

	// Cancelling twice reports not-pending.
	require.False(t, sched.CancelScheduled(job.ID))
}

func TestScheduler_ImmediateDelaySubmitsNow(t *testing.T) {
	q, s := openTestQueue(t, config.QueueConfig{Workers: 1, QueueSize: 8})
	sched := NewScheduler(q)
	t.Cleanup(sched.Stop)

	job, err := sched.EnqueueIn(0, "find laptops under 40000", testPlan(1))
	require.NoError(t, err)

	waitForStatus(t, s, job.ID, types.JobFinished)
}
