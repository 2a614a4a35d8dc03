package economy

import (
	"context"
	"time"

	"github.com/MikeJollie2707/michaelbot/michaelbot/database/repositories"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/disgoorg/snowflake/v2"
)

const (
	dailyReward = 100
	// A claim within 24h is rejected; a gap past 48h resets the streak.
	dailyCooldown = 24 * time.Hour
	dailyGrace    = 48 * time.Hour
	// Every five consecutive days adds to the payout.
	dailyStreakStep  = 5
	dailyStreakBonus = 50
)

type DailyResult struct {
	Streak      int
	Reward      int64
	StreakReset bool
}

// Daily claims the daily reward, advancing or resetting the streak.
func (e *Engine) Daily(ctx context.Context, userID snowflake.ID) (*DailyResult, error) {
	res := &DailyResult{}

	err := e.store.RunInTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		user, err := tx.Users().Get(ctx, userID)
		if err != nil {
			return err
		}
		now := e.now()
		if rem := RemainingCooldown(user.LastDaily, dailyCooldown, now); rem > 0 {
			return errs.New(errs.Precondition, "already claimed; come back in %s", rem.Round(time.Second))
		}

		if user.LastDaily == nil || now.Sub(*user.LastDaily) >= dailyGrace {
			res.Streak = 1
			res.StreakReset = user.LastDaily != nil
		} else {
			res.Streak = user.DailyStreak + 1
		}
		res.Reward = dailyReward + int64(res.Streak/dailyStreakStep)*dailyStreakBonus

		if _, err := tx.Users().UpdateDaily(ctx, userID, res.Streak, now); err != nil {
			return err
		}
		_, err = tx.Users().AddBalance(ctx, userID, res.Reward)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.syncUser(ctx, userID)
	return res, nil
}
