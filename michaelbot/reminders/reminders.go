// Package reminders persists user reminders and delivers them through
// a periodic sweep, with one-shot timers for reminders due before the
// next sweep.
package reminders

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/repositories"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/MikeJollie2707/michaelbot/michaelbot/logger"
	"github.com/MikeJollie2707/michaelbot/michaelbot/scheduler"
	"github.com/disgoorg/snowflake/v2"
)

const (
	// SweepPeriod is how often the service scans for due reminders.
	SweepPeriod = 2 * time.Minute

	MinInterval = time.Minute
	MaxInterval = 30 * 24 * time.Hour
)

// Notifier delivers a reminder to its user, typically over DM.
type Notifier interface {
	Notify(ctx context.Context, userID snowflake.ID, message string, setAt time.Time) error
}

type Service struct {
	store    repositories.Store
	sched    *scheduler.Scheduler
	notifier Notifier
	now      func() time.Time

	// id source for reminders that never get a row; negative so they
	// can't collide with database ids.
	ephemeral atomic.Int64
}

func NewService(store repositories.Store, sched *scheduler.Scheduler, notifier Notifier) *Service {
	return &Service{store: store, sched: sched, notifier: notifier, now: time.Now}
}

// Start registers the sweep. The first pass runs immediately and
// flushes anything that came due while the process was down.
func (s *Service) Start() error {
	return s.sched.Every("reminder-sweep", SweepPeriod, s.sweep)
}

// Create validates the interval and persists the reminder. Reminders
// due before the next sweep are armed as a one-shot only; they fire
// from memory and never get a row.
func (s *Service) Create(ctx context.Context, userID snowflake.ID, in time.Duration, message string) (*models.Reminder, error) {
	if in < MinInterval {
		return nil, errs.New(errs.Validation, "reminders must be at least a minute out")
	}
	if in > MaxInterval {
		return nil, errs.New(errs.Validation, "reminders can be at most 30 days out")
	}
	if message == "" {
		return nil, errs.New(errs.Validation, "the reminder needs a message")
	}

	now := s.now()
	reminder := &models.Reminder{
		UserID:    userID,
		AwakeTime: now.Add(in),
		Message:   message,
	}
	if in < SweepPeriod {
		reminder.RemindID = -s.ephemeral.Add(1)
		s.arm(reminder)
		return reminder, nil
	}
	if _, err := s.store.Reminders().Insert(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

// List returns the user's pending reminders in wake order.
func (s *Service) List(ctx context.Context, userID snowflake.ID) ([]*models.Reminder, error) {
	return s.store.Reminders().ListByUser(ctx, userID)
}

// Remove deletes one of the user's own reminders and disarms any
// one-shot for it.
func (s *Service) Remove(ctx context.Context, userID snowflake.ID, remindID int64) error {
	n, err := s.store.Reminders().DeleteForUser(ctx, remindID, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.New(errs.NotFound, "you have no reminder #%d", remindID)
	}
	s.sched.Cancel(oneShotKey(remindID))
	return nil
}

// sweep flushes past-due reminders immediately and arms one-shots for
// everything waking before the next sweep. A reminder is deleted only
// after its delivery attempt succeeds, so a failed DM retries next
// sweep.
func (s *Service) sweep(ctx context.Context) error {
	now := s.now()

	due, err := s.store.Reminders().DueBefore(ctx, now)
	if err != nil {
		return err
	}
	for _, reminder := range due {
		s.deliver(ctx, reminder)
	}

	upcoming, err := s.store.Reminders().InWindow(ctx, now, now.Add(SweepPeriod))
	if err != nil {
		return err
	}
	for _, reminder := range upcoming {
		s.arm(reminder)
	}
	return nil
}

// arm schedules a one-shot delivery. Keyed by reminder id, so a sweep
// re-seeing an armed reminder just re-arms the same slot.
func (s *Service) arm(reminder *models.Reminder) {
	r := *reminder
	s.sched.Once(oneShotKey(r.RemindID), r.AwakeTime, func(ctx context.Context) error {
		s.deliver(ctx, &r)
		return nil
	})
}

func (s *Service) deliver(ctx context.Context, reminder *models.Reminder) {
	setAt := reminder.AwakeTime
	if err := s.notifier.Notify(ctx, reminder.UserID, reminder.Message, setAt); err != nil {
		logger.LogError("reminder delivery failed", err, "remind_id", reminder.RemindID)
		return
	}
	if reminder.RemindID < 0 {
		// fired from memory, nothing to clean up
		return
	}
	if _, err := s.store.Reminders().Delete(ctx, reminder.RemindID); err != nil {
		logger.LogError("reminder cleanup failed", err, "remind_id", reminder.RemindID)
	}
}

func oneShotKey(remindID int64) string {
	return fmt.Sprintf("reminder:%d", remindID)
}
