// Package scheduler is the process-wide task host. It offers exactly
// two primitives: periodic sweeps and cancellable one-shot wakeups.
// Sweeps reconcile persistent timers against the present, so they run
// once at startup to catch up on anything missed while the process was
// down; one-shots armed by a sweep are deliberately not persisted — a
// fresh sweep after a restart re-creates them.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/MikeJollie2707/michaelbot/michaelbot/logger"
	"github.com/robfig/cron/v3"
)

const defaultTaskTimeout = 2 * time.Minute

type oneShot struct {
	timer  *time.Timer
	cancel chan struct{}
}

type Scheduler struct {
	cron     *cron.Cron
	shutdown chan struct{}
	stopOnce sync.Once

	mu       sync.Mutex
	oneShots map[string]*oneShot
}

func New() *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		shutdown: make(chan struct{}),
		oneShots: make(map[string]*oneShot),
	}
}

// Start begins dispatching sweeps. One-shots fire regardless.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts sweeps and disarms every pending one-shot. Running
// callbacks observe their context being cancelled at the next
// suspension point.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.shutdown)
		s.cron.Stop()

		s.mu.Lock()
		for key, shot := range s.oneShots {
			shot.timer.Stop()
			delete(s.oneShots, key)
		}
		s.mu.Unlock()
	})
}

// Every schedules fn to run now (catch-up) and then every period. The
// schedule does not block on execution: a slow run simply overlaps the
// log, not the clock.
func (s *Scheduler) Every(name string, period time.Duration, fn func(context.Context) error) error {
	run := func() {
		start := time.Now()
		ctx, cancel := s.taskContext()
		defer cancel()
		err := fn(ctx)
		logger.LogTask(name, time.Since(start), err)
	}

	if _, err := s.cron.AddFunc("@every "+period.String(), run); err != nil {
		return err
	}
	go run()

	slog.Info("Sweep scheduled",
		slog.String("type", "task"),
		slog.String("name", name),
		slog.Duration("period", period))
	return nil
}

// Once arms fn to fire at the absolute instant at. Re-arming an
// existing key replaces the previous timer. Returns a cancel func;
// cancelling after the shot fired is a no-op.
func (s *Scheduler) Once(key string, at time.Time, fn func(context.Context) error) func() {
	shot := &oneShot{
		timer:  time.NewTimer(time.Until(at)),
		cancel: make(chan struct{}),
	}

	s.mu.Lock()
	if prev, ok := s.oneShots[key]; ok {
		prev.timer.Stop()
		close(prev.cancel)
	}
	s.oneShots[key] = shot
	s.mu.Unlock()

	go func() {
		defer shot.timer.Stop()
		select {
		case <-shot.timer.C:
			s.forget(key, shot)
			start := time.Now()
			ctx, cancel := s.taskContext()
			defer cancel()
			logger.LogTask(key, time.Since(start), fn(ctx))
		case <-shot.cancel:
		case <-s.shutdown:
		}
	}()

	return func() { s.Cancel(key) }
}

// Cancel disarms the keyed one-shot if it has not fired yet.
func (s *Scheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if shot, ok := s.oneShots[key]; ok {
		shot.timer.Stop()
		close(shot.cancel)
		delete(s.oneShots, key)
	}
}

// Pending reports whether the keyed one-shot is still armed.
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.oneShots[key]
	return ok
}

func (s *Scheduler) forget(key string, shot *oneShot) {
	s.mu.Lock()
	if cur, ok := s.oneShots[key]; ok && cur == shot {
		delete(s.oneShots, key)
	}
	s.mu.Unlock()
}

func (s *Scheduler) taskContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTaskTimeout)
	stop := make(chan struct{})
	go func() {
		select {
		case <-s.shutdown:
			cancel()
		case <-ctx.Done():
		case <-stop:
		}
	}()
	return ctx, func() { close(stop); cancel() }
}
