// Package cache holds the write-through guild and user caches. The
// contract everywhere: persist first, patch memory only on success, so
// the cache never claims state the store does not have.
package cache

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/repositories"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/disgoorg/snowflake/v2"
)

// GuildEntry pairs the guild row with its logging settings. Logs is nil
// until the log module has been added for the guild.
type GuildEntry struct {
	Guild *models.Guild
	Logs  *models.GuildLogSettings
}

type Guilds struct {
	store repositories.Store

	mu      sync.RWMutex
	entries map[snowflake.ID]*GuildEntry
}

func NewGuilds(store repositories.Store) *Guilds {
	return &Guilds{
		store:   store,
		entries: make(map[snowflake.ID]*GuildEntry),
	}
}

// Hydrate eagerly loads every stored guild and its log settings.
func (c *Guilds) Hydrate(ctx context.Context) error {
	guilds, err := c.store.Guilds().GetAll(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, guild := range guilds {
		entry := &GuildEntry{Guild: guild}
		logs, err := c.store.GuildLogs().Get(ctx, guild.ID)
		if err == nil {
			entry.Logs = logs
		} else if !errs.Is(err, errs.NotFound) {
			return err
		}
		c.entries[guild.ID] = entry
	}
	slog.Info("Guild cache hydrated",
		slog.String("type", "db"),
		slog.Int("guilds", len(guilds)))
	return nil
}

func (c *Guilds) Get(id snowflake.ID) *GuildEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[id]
}

func (c *Guilds) All() []*GuildEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*GuildEntry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	return out
}

// Add inserts a default row for a newly joined guild and populates the
// cache. Safe to call for a guild that already exists.
func (c *Guilds) Add(ctx context.Context, id snowflake.ID, name string) (*GuildEntry, error) {
	if entry := c.Get(id); entry != nil {
		return entry, nil
	}
	guild := &models.Guild{ID: id, Name: name, Prefix: "$"}
	if _, err := c.store.Guilds().Insert(ctx, guild); err != nil {
		return nil, err
	}

	c.mu.Lock()
	entry := &GuildEntry{Guild: guild}
	c.entries[id] = entry
	c.mu.Unlock()
	return entry, nil
}

// AddLogModule inserts the default log settings row for the guild. A
// second call is a no-op that returns the cached module.
func (c *Guilds) AddLogModule(ctx context.Context, id snowflake.ID) (*models.GuildLogSettings, error) {
	entry := c.Get(id)
	if entry == nil {
		return nil, errs.New(errs.NotFound, "guild %d is not known", id)
	}
	if entry.Logs != nil {
		return entry.Logs, nil
	}
	settings := models.DefaultLogSettings(id)
	if _, err := c.store.GuildLogs().Insert(ctx, settings); err != nil {
		return nil, err
	}

	c.mu.Lock()
	entry.Logs = settings
	c.mu.Unlock()
	return settings, nil
}

// Remove drops the guild row (cascading its children) and evicts it.
func (c *Guilds) Remove(ctx context.Context, id snowflake.ID) error {
	if _, err := c.store.Guilds().Delete(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
	return nil
}

// ForceSync refetches the guild from the store, overwriting the cached
// fields. Returns nil when the persistent row is gone.
func (c *Guilds) ForceSync(ctx context.Context, id snowflake.ID) (*GuildEntry, error) {
	guild, err := c.store.Guilds().Get(ctx, id)
	if err != nil {
		if errs.Is(err, errs.NotFound) {
			c.mu.Lock()
			delete(c.entries, id)
			c.mu.Unlock()
			return nil, nil
		}
		return nil, err
	}

	entry := &GuildEntry{Guild: guild}
	logs, err := c.store.GuildLogs().Get(ctx, id)
	if err == nil {
		entry.Logs = logs
	} else if !errs.Is(err, errs.NotFound) {
		return nil, err
	}

	c.mu.Lock()
	c.entries[id] = entry
	c.mu.Unlock()
	return entry, nil
}

// Prefix returns the command prefix for the guild, falling back to the
// default for unknown guilds.
func (c *Guilds) Prefix(id snowflake.ID) string {
	if entry := c.Get(id); entry != nil {
		return entry.Guild.Prefix
	}
	return "$"
}

// SetPrefix validates and persists a new prefix, then patches the cache.
func (c *Guilds) SetPrefix(ctx context.Context, id snowflake.ID, prefix string) error {
	if prefix == "" || len(prefix) > 5 || strings.ContainsAny(prefix, " \t\n") {
		return errs.New(errs.Validation, "prefix must be 1-5 characters with no whitespace")
	}
	entry := c.Get(id)
	if entry == nil {
		return errs.New(errs.NotFound, "guild %d is not known", id)
	}
	if _, err := c.store.Guilds().UpdatePrefix(ctx, id, prefix); err != nil {
		return err
	}

	c.mu.Lock()
	entry.Guild.Prefix = prefix
	c.mu.Unlock()
	return nil
}

func (c *Guilds) SetName(ctx context.Context, id snowflake.ID, name string) error {
	entry := c.Get(id)
	if entry == nil {
		return nil
	}
	if _, err := c.store.Guilds().UpdateName(ctx, id, name); err != nil {
		return err
	}

	c.mu.Lock()
	entry.Guild.Name = name
	c.mu.Unlock()
	return nil
}

// SetLogChannel persists then patches the log channel. A nil channel
// disables posting without touching the per-event toggles.
func (c *Guilds) SetLogChannel(ctx context.Context, id snowflake.ID, channel *snowflake.ID) error {
	entry := c.Get(id)
	if entry == nil || entry.Logs == nil {
		return errs.New(errs.NotFound, "guild %d has no logging module", id)
	}
	if _, err := c.store.GuildLogs().SetChannel(ctx, id, channel); err != nil {
		return err
	}

	c.mu.Lock()
	entry.Logs.LogChannel = channel
	c.mu.Unlock()
	return nil
}

func (c *Guilds) SetLogToggle(ctx context.Context, id snowflake.ID, ev models.LogEvent, on bool) error {
	entry := c.Get(id)
	if entry == nil || entry.Logs == nil {
		return errs.New(errs.NotFound, "guild %d has no logging module", id)
	}
	if _, err := c.store.GuildLogs().SetToggle(ctx, id, ev, on); err != nil {
		return err
	}

	c.mu.Lock()
	entry.Logs.Set(ev, on)
	c.mu.Unlock()
	return nil
}

func (c *Guilds) SetAllLogToggles(ctx context.Context, id snowflake.ID, on bool) error {
	entry := c.Get(id)
	if entry == nil || entry.Logs == nil {
		return errs.New(errs.NotFound, "guild %d has no logging module", id)
	}

	updated := *entry.Logs
	updated.SetAll(on)
	if _, err := c.store.GuildLogs().Update(ctx, &updated); err != nil {
		return err
	}

	c.mu.Lock()
	*entry.Logs = updated
	c.mu.Unlock()
	return nil
}
