// Package moderation tracks temporary mutes: the mute role assignment
// lives in the command layer, this service owns the persisted expiry
// and lifts the mute on time.
package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/repositories"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/MikeJollie2707/michaelbot/michaelbot/logger"
	"github.com/MikeJollie2707/michaelbot/michaelbot/scheduler"
	"github.com/disgoorg/snowflake/v2"
)

// SweepPeriod is how often the service scans for expiring mutes.
const SweepPeriod = time.Minute

// Unmuter reverses the platform-side mute (role removal).
type Unmuter interface {
	Unmute(ctx context.Context, guildID, userID snowflake.ID) error
}

type Service struct {
	store   repositories.Store
	sched   *scheduler.Scheduler
	unmuter Unmuter
	now     func() time.Time
}

func NewService(store repositories.Store, sched *scheduler.Scheduler, unmuter Unmuter) *Service {
	return &Service{store: store, sched: sched, unmuter: unmuter, now: time.Now}
}

func (s *Service) Start() error {
	return s.sched.Every("tempmute-sweep", SweepPeriod, s.sweep)
}

// Mute records a temporary mute. Re-muting an already muted member
// just moves the expiry.
func (s *Service) Mute(ctx context.Context, guildID, userID snowflake.ID, d time.Duration) (*models.TempMute, error) {
	if d < time.Minute {
		return nil, errs.New(errs.Validation, "mutes must last at least a minute")
	}
	mute := &models.TempMute{
		UserID:  userID,
		GuildID: guildID,
		Expire:  s.now().Add(d),
	}
	if _, err := s.store.TempMutes().Upsert(ctx, mute); err != nil {
		return nil, err
	}
	if d < SweepPeriod {
		s.arm(mute)
	}
	return mute, nil
}

// Lift removes the mute record ahead of schedule (manual unmute).
func (s *Service) Lift(ctx context.Context, guildID, userID snowflake.ID) error {
	n, err := s.store.TempMutes().Delete(ctx, userID, guildID)
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.New(errs.NotFound, "that member is not muted")
	}
	s.sched.Cancel(muteKey(guildID, userID))
	return nil
}

// Get reports the active mute for a member, nil when unmuted.
func (s *Service) Get(ctx context.Context, guildID, userID snowflake.ID) (*models.TempMute, error) {
	return s.store.TempMutes().Get(ctx, userID, guildID)
}

func (s *Service) sweep(ctx context.Context) error {
	now := s.now()

	expired, err := s.store.TempMutes().ExpiringBefore(ctx, now)
	if err != nil {
		return err
	}
	for _, mute := range expired {
		s.expire(ctx, mute)
	}

	upcoming, err := s.store.TempMutes().InWindow(ctx, now, now.Add(SweepPeriod))
	if err != nil {
		return err
	}
	for _, mute := range upcoming {
		s.arm(mute)
	}
	return nil
}

func (s *Service) arm(mute *models.TempMute) {
	m := *mute
	s.sched.Once(muteKey(m.GuildID, m.UserID), m.Expire, func(ctx context.Context) error {
		s.expire(ctx, &m)
		return nil
	})
}

// expire lifts the platform mute and then removes the record. The
// record survives a failed unmute so the next sweep retries.
func (s *Service) expire(ctx context.Context, mute *models.TempMute) {
	if err := s.unmuter.Unmute(ctx, mute.GuildID, mute.UserID); err != nil {
		logger.LogError("unmute failed", err, "guild_id", mute.GuildID, "user_id", mute.UserID)
		return
	}
	if _, err := s.store.TempMutes().Delete(ctx, mute.UserID, mute.GuildID); err != nil {
		logger.LogError("mute cleanup failed", err, "guild_id", mute.GuildID, "user_id", mute.UserID)
	}
}

func muteKey(guildID, userID snowflake.ID) string {
	return fmt.Sprintf("tempmute:%s:%s", guildID, userID)
}
