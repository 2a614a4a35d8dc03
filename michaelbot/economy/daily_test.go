package economy

import (
	"context"
	"testing"
	"time"

	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyFirstClaim(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})

	res, err := e.Daily(context.Background(), testUser)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, int64(100), res.Reward)
	assert.False(t, res.StreakReset)
	assert.Equal(t, int64(100), store.users[testUser].Balance)
	require.NotNil(t, store.users[testUser].LastDaily)
}

func TestDailyTooSoon(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	last := e.now().Add(-2 * time.Hour)
	store.users[testUser].LastDaily = &last
	store.users[testUser].DailyStreak = 3

	_, err := e.Daily(context.Background(), testUser)
	require.Error(t, err)
	assert.Equal(t, errs.Precondition, errs.KindOf(err))
	assert.Equal(t, 3, store.users[testUser].DailyStreak)
}

func TestDailyStreakAdvancesWithBonus(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	last := e.now().Add(-25 * time.Hour)
	store.users[testUser].LastDaily = &last
	store.users[testUser].DailyStreak = 4

	res, err := e.Daily(context.Background(), testUser)
	require.NoError(t, err)

	assert.Equal(t, 5, res.Streak)
	// 100 base + one five-day step.
	assert.Equal(t, int64(150), res.Reward)
	assert.False(t, res.StreakReset)
}

func TestDailyStreakResetsPastGrace(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	last := e.now().Add(-49 * time.Hour)
	store.users[testUser].LastDaily = &last
	store.users[testUser].DailyStreak = 17

	res, err := e.Daily(context.Background(), testUser)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, int64(100), res.Reward)
	assert.True(t, res.StreakReset)
	assert.Equal(t, 1, store.users[testUser].DailyStreak)
}

func TestDailyJustInsideGrace(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	last := e.now().Add(-47 * time.Hour)
	store.users[testUser].LastDaily = &last
	store.users[testUser].DailyStreak = 9

	res, err := e.Daily(context.Background(), testUser)
	require.NoError(t, err)

	assert.Equal(t, 10, res.Streak)
	assert.Equal(t, int64(200), res.Reward)
}
