package cache

import (
	"context"
	"testing"

	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const guildID snowflake.ID = 9001

func TestGuildsAddAndGet(t *testing.T) {
	store := newFakeStore()
	c := NewGuilds(store)
	ctx := context.Background()

	entry, err := c.Add(ctx, guildID, "testers")
	require.NoError(t, err)
	assert.Equal(t, "testers", entry.Guild.Name)
	assert.Equal(t, "$", entry.Guild.Prefix)
	assert.Nil(t, entry.Logs)

	// Persisted, not just cached.
	assert.NotNil(t, store.guilds[guildID])

	// Adding again returns the existing entry.
	again, err := c.Add(ctx, guildID, "other name")
	require.NoError(t, err)
	assert.Same(t, entry, again)
}

func TestGuildsAddWriteThroughFailure(t *testing.T) {
	store := newFakeStore()
	store.failWrites = true
	c := NewGuilds(store)

	_, err := c.Add(context.Background(), guildID, "testers")
	require.Error(t, err)
	// A failed insert must not leave a cache entry behind.
	assert.Nil(t, c.Get(guildID))
}

func TestGuildsHydrate(t *testing.T) {
	store := newFakeStore()
	store.guilds[guildID] = &models.Guild{ID: guildID, Name: "testers", Prefix: "!"}
	store.logs[guildID] = models.DefaultLogSettings(guildID)

	c := NewGuilds(store)
	require.NoError(t, c.Hydrate(context.Background()))

	entry := c.Get(guildID)
	require.NotNil(t, entry)
	assert.Equal(t, "!", entry.Guild.Prefix)
	require.NotNil(t, entry.Logs)
	assert.True(t, entry.Logs.Enabled(models.LogMemberJoin))
}

func TestGuildsPrefix(t *testing.T) {
	store := newFakeStore()
	c := NewGuilds(store)
	ctx := context.Background()

	// Unknown guilds fall back to the default.
	assert.Equal(t, "$", c.Prefix(guildID))

	_, err := c.Add(ctx, guildID, "testers")
	require.NoError(t, err)

	require.NoError(t, c.SetPrefix(ctx, guildID, "!!"))
	assert.Equal(t, "!!", c.Prefix(guildID))
	assert.Equal(t, "!!", store.guilds[guildID].Prefix)

	for _, bad := range []string{"", "toolong", "a b"} {
		err := c.SetPrefix(ctx, guildID, bad)
		require.Error(t, err)
		assert.Equal(t, errs.Validation, errs.KindOf(err))
	}
	assert.Equal(t, "!!", c.Prefix(guildID))
}

func TestGuildsSetPrefixFailureKeepsCache(t *testing.T) {
	store := newFakeStore()
	c := NewGuilds(store)
	ctx := context.Background()

	_, err := c.Add(ctx, guildID, "testers")
	require.NoError(t, err)

	store.failWrites = true
	require.Error(t, c.SetPrefix(ctx, guildID, "!"))
	assert.Equal(t, "$", c.Prefix(guildID))
}

func TestGuildsLogModule(t *testing.T) {
	store := newFakeStore()
	c := NewGuilds(store)
	ctx := context.Background()

	// The module needs a known guild.
	_, err := c.AddLogModule(ctx, guildID)
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))

	_, err = c.Add(ctx, guildID, "testers")
	require.NoError(t, err)

	settings, err := c.AddLogModule(ctx, guildID)
	require.NoError(t, err)
	assert.True(t, settings.Enabled(models.LogMemberJoin))
	assert.False(t, settings.Enabled(models.LogMessageCreate))
	assert.Nil(t, settings.LogChannel)

	// Idempotent.
	again, err := c.AddLogModule(ctx, guildID)
	require.NoError(t, err)
	assert.Same(t, settings, again)

	channel := snowflake.ID(555)
	require.NoError(t, c.SetLogChannel(ctx, guildID, &channel))
	assert.Equal(t, &channel, c.Get(guildID).Logs.LogChannel)
	assert.Equal(t, channel, *store.logs[guildID].LogChannel)

	require.NoError(t, c.SetLogToggle(ctx, guildID, models.LogMemberJoin, false))
	assert.False(t, c.Get(guildID).Logs.Enabled(models.LogMemberJoin))

	require.NoError(t, c.SetAllLogToggles(ctx, guildID, false))
	for _, ev := range models.LogEvents {
		assert.False(t, c.Get(guildID).Logs.Enabled(ev), string(ev))
	}
}

func TestGuildsRemove(t *testing.T) {
	store := newFakeStore()
	c := NewGuilds(store)
	ctx := context.Background()

	_, err := c.Add(ctx, guildID, "testers")
	require.NoError(t, err)

	require.NoError(t, c.Remove(ctx, guildID))
	assert.Nil(t, c.Get(guildID))
	assert.Nil(t, store.guilds[guildID])
}

func TestGuildsForceSync(t *testing.T) {
	store := newFakeStore()
	c := NewGuilds(store)
	ctx := context.Background()

	_, err := c.Add(ctx, guildID, "testers")
	require.NoError(t, err)

	// Out-of-band change in the store.
	store.guilds[guildID].Prefix = "?"
	entry, err := c.ForceSync(ctx, guildID)
	require.NoError(t, err)
	assert.Equal(t, "?", entry.Guild.Prefix)
	assert.Equal(t, "?", c.Prefix(guildID))

	// Row gone: the entry is evicted.
	delete(store.guilds, guildID)
	entry, err = c.ForceSync(ctx, guildID)
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.Nil(t, c.Get(guildID))
}
