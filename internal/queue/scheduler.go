package queue

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"nexusai/internal/logging"
	"nexusai/internal/types"
)

// Scheduler delays job submission. A scheduled job is persisted immediately
// as queued so it shows up in listings, then handed to the worker pool when
// its timer fires. Cancelling before the timer fires marks it canceled
// without it ever running.
type Scheduler struct {
	q *Queue

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewScheduler builds a scheduler over the queue.
func NewScheduler(q *Queue) *Scheduler {
	return &Scheduler{q: q, timers: make(map[string]*time.Timer)}
}

// EnqueueIn schedules the plan to run after the given delay and returns the
// job record. A non-positive delay submits immediately.
func (s *Scheduler) EnqueueIn(delay time.Duration, instruction string, plan types.Plan) (types.Job, error) {
	if delay <= 0 {
		return s.q.Enqueue(instruction, plan)
	}

	job := types.Job{
		ID:          uuid.NewString(),
		Instruction: instruction,
		Plan:        plan,
		Status:      types.JobQueued,
		CreatedAt:   s.q.clock().UTC(),
	}
	if err := s.q.store.SaveJob(job); err != nil {
		return types.Job{}, err
	}

	s.mu.Lock()
	s.timers[job.ID] = time.AfterFunc(delay, func() {
		s.fire(job.ID)
	})
	s.mu.Unlock()

	logging.Queue("scheduled job %s in %s", job.ID, delay)
	return job, nil
}

// EnqueueAt schedules the plan to run at the given time.
func (s *Scheduler) EnqueueAt(at time.Time, instruction string, plan types.Plan) (types.Job, error) {
	return s.EnqueueIn(at.Sub(s.q.clock()), instruction, plan)
}

// CancelScheduled stops a pending timer and marks its job canceled. Returns
// false when the job already fired or is unknown.
func (s *Scheduler) CancelScheduled(id string) bool {
	s.mu.Lock()
	timer, ok := s.timers[id]
	if ok {
		delete(s.timers, id)
	}
	s.mu.Unlock()

	if !ok || !timer.Stop() {
		return false
	}

	job, err := s.q.store.GetJob(id)
	if err != nil || job == nil {
		return false
	}
	s.q.markEnded(job, types.JobCanceled, "canceled before scheduled start")
	return true
}

// Stop cancels all pending timers without touching job state. Jobs left
// queued are picked up on the next submission after a restart.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

func (s *Scheduler) fire(id string) {
	s.mu.Lock()
	delete(s.timers, id)
	s.mu.Unlock()

	if err := s.q.submit(id); err != nil {
		job, gerr := s.q.store.GetJob(id)
		if gerr != nil || job == nil {
			return
		}
		s.q.markEnded(job, types.JobFailed, err.Error())
	}
}
