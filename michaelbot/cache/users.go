package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/repositories"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/disgoorg/snowflake/v2"
)

type Users struct {
	store repositories.Store

	mu      sync.RWMutex
	entries map[snowflake.ID]*models.User
}

func NewUsers(store repositories.Store) *Users {
	return &Users{
		store:   store,
		entries: make(map[snowflake.ID]*models.User),
	}
}

// Hydrate eagerly loads every stored user.
func (c *Users) Hydrate(ctx context.Context) error {
	users, err := c.store.Users().GetAll(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, user := range users {
		c.entries[user.ID] = user
	}
	slog.Info("User cache hydrated",
		slog.String("type", "db"),
		slog.Int("users", len(users)))
	return nil
}

func (c *Users) Get(id snowflake.ID) *models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[id]
}

// GetOrCreate returns the cached user, inserting a default row when the
// user has never been seen.
func (c *Users) GetOrCreate(ctx context.Context, id snowflake.ID, name string) (*models.User, error) {
	if user := c.Get(id); user != nil {
		return user, nil
	}
	user := &models.User{
		ID:            id,
		Name:          name,
		IsWhitelisted: true,
		World:         models.Overworld,
	}
	if _, err := c.store.Users().Insert(ctx, user); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[id] = user
	c.mu.Unlock()
	return user, nil
}

// Put overwrites the cached entry with a row the caller just read or
// wrote inside a committed transaction.
func (c *Users) Put(user *models.User) {
	c.mu.Lock()
	c.entries[user.ID] = user
	c.mu.Unlock()
}

// ForceSync refetches the user, overwriting the cached fields. Returns
// nil when the persistent row is gone.
func (c *Users) ForceSync(ctx context.Context, id snowflake.ID) (*models.User, error) {
	user, err := c.store.Users().Get(ctx, id)
	if err != nil {
		if errs.Is(err, errs.NotFound) {
			c.mu.Lock()
			delete(c.entries, id)
			c.mu.Unlock()
			return nil, nil
		}
		return nil, err
	}

	c.mu.Lock()
	c.entries[id] = user
	c.mu.Unlock()
	return user, nil
}

// AddBalance applies a signed delta, clamping at zero like the store.
func (c *Users) AddBalance(ctx context.Context, id snowflake.ID, delta int64) error {
	user := c.Get(id)
	if user == nil {
		return errs.New(errs.NotFound, "user %d is not known", id)
	}
	if _, err := c.store.Users().AddBalance(ctx, id, delta); err != nil {
		return err
	}

	c.mu.Lock()
	user.Balance += delta
	if user.Balance < 0 {
		user.Balance = 0
	}
	c.mu.Unlock()
	return nil
}

func (c *Users) UpdateDaily(ctx context.Context, id snowflake.ID, streak int, claimedAt time.Time) error {
	user := c.Get(id)
	if user == nil {
		return errs.New(errs.NotFound, "user %d is not known", id)
	}
	if _, err := c.store.Users().UpdateDaily(ctx, id, streak, claimedAt); err != nil {
		return err
	}

	c.mu.Lock()
	user.DailyStreak = streak
	t := claimedAt
	user.LastDaily = &t
	c.mu.Unlock()
	return nil
}

func (c *Users) SetName(ctx context.Context, id snowflake.ID, name string) error {
	user := c.Get(id)
	if user == nil || user.Name == name {
		return nil
	}
	if _, err := c.store.Users().UpdateName(ctx, id, name); err != nil {
		return err
	}

	c.mu.Lock()
	user.Name = name
	c.mu.Unlock()
	return nil
}
