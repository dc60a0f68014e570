// Package queue runs plan jobs on an in-process worker pool. Execution is
// simulated step by step with progress updates; every state transition is
// persisted so job status survives a restart and is visible to API pollers.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"nexusai/internal/config"
	"nexusai/internal/logging"
	"nexusai/internal/types"
)

// ErrQueueFull is returned when the submission buffer is at capacity.
var ErrQueueFull = errors.New("job queue is full")

// ErrNotRunning is returned for submissions before Start or after Stop.
var ErrNotRunning = errors.New("job queue is not running")

// Store is the persistence surface the queue needs.
type Store interface {
	SaveJob(job types.Job) error
	GetJob(id string) (*types.Job, error)
	ListRecentJobs(limit int) ([]types.Job, error)
}

// Clock supplies job timestamps. Injectable for tests.
type Clock func() time.Time

// Queue dispatches queued jobs to its workers.
type Queue struct {
	store     Store
	clock     Clock
	workers   int
	stepDelay time.Duration

	jobs chan string

	mu      sync.Mutex
	running bool
	cancels map[string]context.CancelFunc

	g      *errgroup.Group
	cancel context.CancelFunc
}

// New builds a queue over the given store.
func New(store Store, cfg config.QueueConfig) *Queue {
	return NewWithClock(store, cfg, time.Now)
}

// NewWithClock builds a queue with an explicit clock.
func NewWithClock(store Store, cfg config.QueueConfig, clock Clock) *Queue {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 2
	}
	size := cfg.QueueSize
	if size <= 0 {
		size = 32
	}
	return &Queue{
		store:     store,
		clock:     clock,
		workers:   workers,
		stepDelay: time.Duration(cfg.StepDelayMs) * time.Millisecond,
		jobs:      make(chan string, size),
		cancels:   make(map[string]context.CancelFunc),
	}
}

// Start launches the worker pool. Workers run until Stop is called or the
// parent context is cancelled.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return
	}

	gctx, cancel := context.WithCancel(ctx)
	q.cancel = cancel
	q.g, gctx = errgroup.WithContext(gctx)
	for i := 0; i < q.workers; i++ {
		worker := i
		q.g.Go(func() error {
			return q.workerLoop(gctx, worker)
		})
	}
	q.running = true
	logging.Queue("started %d workers", q.workers)
}

// Stop cancels running jobs and waits for all workers to exit.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}
	q.running = false
	q.cancel()
	q.mu.Unlock()

	q.g.Wait()
	logging.Queue("all workers stopped")
}

// Enqueue creates a job for the plan, persists it as queued, and submits it
// to the worker pool.
func (q *Queue) Enqueue(instruction string, plan types.Plan) (types.Job, error) {
	job := types.Job{
		ID:          uuid.NewString(),
		Instruction: instruction,
		Plan:        plan,
		Status:      types.JobQueued,
		CreatedAt:   q.clock().UTC(),
	}
	if err := q.store.SaveJob(job); err != nil {
		return types.Job{}, fmt.Errorf("failed to persist job: %w", err)
	}
	if err := q.submit(job.ID); err != nil {
		return types.Job{}, err
	}
	logging.Queue("enqueued job %s (%d steps)", job.ID, len(plan.Steps))
	return job, nil
}

// submit pushes an already persisted job id to the workers.
func (q *Queue) submit(id string) error {
	q.mu.Lock()
	running := q.running
	q.mu.Unlock()
	if !running {
		return ErrNotRunning
	}

	select {
	case q.jobs <- id:
		return nil
	default:
		return ErrQueueFull
	}
}

// Cancel stops a queued or running job. Returns false when the job is
// unknown or already in a terminal state.
func (q *Queue) Cancel(id string) (bool, error) {
	q.mu.Lock()
	cancel, active := q.cancels[id]
	q.mu.Unlock()
	if active {
		cancel()
		return true, nil
	}

	// Not running yet; cancel it in place if still queued.
	job, err := q.store.GetJob(id)
	if err != nil || job == nil {
		return false, err
	}
	if job.Status != types.JobQueued {
		return false, nil
	}
	q.markEnded(job, types.JobCanceled, "canceled before execution")
	return true, nil
}

func (q *Queue) workerLoop(ctx context.Context, worker int) error {
	logging.QueueDebug("worker %d started", worker)
	for {
		select {
		case <-ctx.Done():
			logging.QueueDebug("worker %d stopping", worker)
			return nil
		case id := <-q.jobs:
			q.run(ctx, id)
		}
	}
}

// run executes a single job, persisting progress after every step.
func (q *Queue) run(ctx context.Context, id string) {
	job, err := q.store.GetJob(id)
	if err != nil || job == nil {
		logging.Get(logging.CategoryQueue).Warn("job %s not loadable: %v", id, err)
		return
	}
	if job.Status != types.JobQueued {
		// Cancelled while waiting in the channel.
		return
	}

	jctx, cancel := context.WithCancel(ctx)
	q.mu.Lock()
	q.cancels[id] = cancel
	q.mu.Unlock()
	defer func() {
		cancel()
		q.mu.Lock()
		delete(q.cancels, id)
		q.mu.Unlock()
	}()

	started := q.clock().UTC()
	job.Status = types.JobRunning
	job.StartedAt = &started
	job.Progress = 0
	if err := q.store.SaveJob(*job); err != nil {
		logging.Get(logging.CategoryQueue).Error("failed to mark job %s running: %v", id, err)
		return
	}

	timer := logging.StartTimer(logging.CategoryQueue, fmt.Sprintf("job %s", id))
	defer timer.Stop()

	total := len(job.Plan.Steps)
	for i, step := range job.Plan.Steps {
		if err := q.pause(jctx); err != nil {
			q.markEnded(job, types.JobCanceled, "canceled during execution")
			return
		}

		job.Results = append(job.Results, types.StepResult{
			StepID:     step.StepID,
			Tool:       step.Tool,
			Status:     "completed",
			Output:     fmt.Sprintf("Simulated result for %s", step.Tool),
			ExecutedAt: q.clock().UTC().Format(time.RFC3339),
		})
		job.Progress = (i + 1) * 100 / total
		if err := q.store.SaveJob(*job); err != nil {
			q.markEnded(job, types.JobFailed, fmt.Sprintf("failed to persist progress: %v", err))
			return
		}
		logging.QueueDebug("job %s step %d/%d (%s) done", id, i+1, total, step.Tool)
	}

	job.Progress = 100
	q.markEnded(job, types.JobFinished, "")
}

// pause waits the simulated per-step work time.
func (q *Queue) pause(ctx context.Context) error {
	if q.stepDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(q.stepDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (q *Queue) markEnded(job *types.Job, status types.JobStatus, errMsg string) {
	ended := q.clock().UTC()
	job.Status = status
	job.Error = errMsg
	job.EndedAt = &ended
	if err := q.store.SaveJob(*job); err != nil {
		logging.Get(logging.CategoryQueue).Error("failed to mark job %s %s: %v", job.ID, status, err)
		return
	}
	logging.Queue("job %s %s", job.ID, status)
}
