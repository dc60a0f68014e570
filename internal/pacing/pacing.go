// Package pacing provides the cancellable delay scheduler used to pace
// simulated calls and demo playback. Delays are presentation only; nothing
// in the response pipeline waits on them, which keeps the pipeline
// synchronous and the pacing swappable in tests.
package pacing

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"nexusai/internal/config"
)

// Scheduler waits out a delay, returning early with the context error when
// cancelled.
type Scheduler interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// timerScheduler is the wall-clock scheduler used outside tests.
type timerScheduler struct{}

func (timerScheduler) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NewScheduler returns the wall-clock scheduler.
func NewScheduler() Scheduler {
	return timerScheduler{}
}

// Immediate returns a scheduler that never waits. It still honors an already
// cancelled context, so cancellation paths stay testable.
func Immediate() Scheduler {
	return immediateScheduler{}
}

type immediateScheduler struct{}

func (immediateScheduler) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// Pacer draws randomized delays from the configured ranges and waits them
// out on its scheduler.
type Pacer struct {
	sched Scheduler

	mu  sync.Mutex
	rng *rand.Rand

	thinkingMin time.Duration
	thinkingMax time.Duration
	autoPlayMin time.Duration
	autoPlayMax time.Duration
}

// New builds a pacer from config, using the wall-clock scheduler and a
// time-seeded random source.
func New(cfg config.PacingConfig) *Pacer {
	return NewWithScheduler(cfg, NewScheduler(), rand.NewSource(time.Now().UnixNano()))
}

// NewWithScheduler builds a pacer with an explicit scheduler and random
// source, for tests that need reproducible delays or no delays at all.
func NewWithScheduler(cfg config.PacingConfig, sched Scheduler, src rand.Source) *Pacer {
	return &Pacer{
		sched:       sched,
		rng:         rand.New(src),
		thinkingMin: time.Duration(cfg.ThinkingMinMs) * time.Millisecond,
		thinkingMax: time.Duration(cfg.ThinkingMaxMs) * time.Millisecond,
		autoPlayMin: time.Duration(cfg.AutoPlayMinMs) * time.Millisecond,
		autoPlayMax: time.Duration(cfg.AutoPlayMaxMs) * time.Millisecond,
	}
}

// ThinkingPause waits the simulated "assistant is thinking" delay before a
// persona reply is shown.
func (p *Pacer) ThinkingPause(ctx context.Context) error {
	return p.sched.Sleep(ctx, p.draw(p.thinkingMin, p.thinkingMax))
}

// TurnPause waits the gap between auto-played demo turns.
func (p *Pacer) TurnPause(ctx context.Context) error {
	return p.sched.Sleep(ctx, p.draw(p.autoPlayMin, p.autoPlayMax))
}

// draw picks a duration uniformly from [min, max). Equal bounds yield min.
func (p *Pacer) draw(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return min + time.Duration(p.rng.Int63n(int64(max-min)))
}
