package cache

import (
	"context"
	"sync"
	"time"

	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/repositories"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/disgoorg/snowflake/v2"
)

// fakeStore backs the caches with maps so the tests can assert the
// write-through order: nothing lands in memory unless the store took it.
type fakeStore struct {
	mu     sync.Mutex
	guilds map[snowflake.ID]*models.Guild
	logs   map[snowflake.ID]*models.GuildLogSettings
	users  map[snowflake.ID]*models.User

	failWrites bool // when set, every mutation errors
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		guilds: map[snowflake.ID]*models.Guild{},
		logs:   map[snowflake.ID]*models.GuildLogSettings{},
		users:  map[snowflake.ID]*models.User{},
	}
}

func (s *fakeStore) writeErr() error {
	if s.failWrites {
		return errs.New(errs.Transient, "database down")
	}
	return nil
}

func (s *fakeStore) Guilds() repositories.GuildRepository         { return fakeGuilds{s} }
func (s *fakeStore) GuildLogs() repositories.GuildLogRepository   { return fakeGuildLogs{s} }
func (s *fakeStore) Users() repositories.UserRepository           { return fakeUsers{s} }
func (s *fakeStore) Items() repositories.ItemRepository           { return nil }
func (s *fakeStore) Inventory() repositories.InventoryRepository  { return nil }
func (s *fakeStore) Equipment() repositories.EquipmentRepository  { return nil }
func (s *fakeStore) Potions() repositories.PotionRepository       { return nil }
func (s *fakeStore) Portals() repositories.PortalRepository       { return nil }
func (s *fakeStore) Badges() repositories.BadgeRepository         { return nil }
func (s *fakeStore) Reminders() repositories.ReminderRepository   { return nil }
func (s *fakeStore) TempMutes() repositories.TempMuteRepository   { return nil }
func (s *fakeStore) CustomCmds() repositories.CustomCmdRepository { return nil }

func (s *fakeStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx repositories.Store) error) error {
	return fn(ctx, s)
}

type fakeGuilds struct{ s *fakeStore }

func (r fakeGuilds) Get(_ context.Context, id snowflake.ID) (*models.Guild, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	guild, ok := r.s.guilds[id]
	if !ok {
		return nil, errs.New(errs.NotFound, "guild %d not found", id)
	}
	cp := *guild
	return &cp, nil
}

func (r fakeGuilds) GetAll(_ context.Context) ([]*models.Guild, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Guild
	for _, g := range r.s.guilds {
		cp := *g
		out = append(out, &cp)
	}
	return out, nil
}

func (r fakeGuilds) Insert(_ context.Context, guild *models.Guild) (int64, error) {
	if err := r.s.writeErr(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *guild
	r.s.guilds[guild.ID] = &cp
	return 1, nil
}

func (r fakeGuilds) Delete(_ context.Context, id snowflake.ID) (int64, error) {
	if err := r.s.writeErr(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.guilds, id)
	delete(r.s.logs, id)
	return 1, nil
}

func (r fakeGuilds) UpdatePrefix(_ context.Context, id snowflake.ID, prefix string) (int64, error) {
	if err := r.s.writeErr(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if g, ok := r.s.guilds[id]; ok {
		g.Prefix = prefix
		return 1, nil
	}
	return 0, nil
}

func (r fakeGuilds) UpdateName(_ context.Context, id snowflake.ID, name string) (int64, error) {
	if err := r.s.writeErr(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if g, ok := r.s.guilds[id]; ok {
		g.Name = name
		return 1, nil
	}
	return 0, nil
}

func (r fakeGuilds) UpdateWhitelist(_ context.Context, id snowflake.ID, on bool) (int64, error) {
	if err := r.s.writeErr(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if g, ok := r.s.guilds[id]; ok {
		g.IsWhitelisted = on
		return 1, nil
	}
	return 0, nil
}

type fakeGuildLogs struct{ s *fakeStore }

func (r fakeGuildLogs) Get(_ context.Context, guildID snowflake.ID) (*models.GuildLogSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	settings, ok := r.s.logs[guildID]
	if !ok {
		return nil, errs.New(errs.NotFound, "no log settings for guild %d", guildID)
	}
	cp := *settings
	return &cp, nil
}

func (r fakeGuildLogs) Insert(_ context.Context, settings *models.GuildLogSettings) (int64, error) {
	if err := r.s.writeErr(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *settings
	r.s.logs[settings.GuildID] = &cp
	return 1, nil
}

func (r fakeGuildLogs) Update(_ context.Context, settings *models.GuildLogSettings) (int64, error) {
	return r.Insert(context.Background(), settings)
}

func (r fakeGuildLogs) SetChannel(_ context.Context, guildID snowflake.ID, channel *snowflake.ID) (int64, error) {
	if err := r.s.writeErr(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if settings, ok := r.s.logs[guildID]; ok {
		settings.LogChannel = channel
		return 1, nil
	}
	return 0, nil
}

func (r fakeGuildLogs) SetToggle(_ context.Context, guildID snowflake.ID, ev models.LogEvent, on bool) (int64, error) {
	if err := r.s.writeErr(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if settings, ok := r.s.logs[guildID]; ok {
		settings.Set(ev, on)
		return 1, nil
	}
	return 0, nil
}

type fakeUsers struct{ s *fakeStore }

func (r fakeUsers) Get(_ context.Context, id snowflake.ID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, errs.New(errs.NotFound, "user %d not found", id)
	}
	return user.Clone(), nil
}

func (r fakeUsers) GetAll(_ context.Context) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.User
	for _, u := range r.s.users {
		out = append(out, u.Clone())
	}
	return out, nil
}

func (r fakeUsers) Insert(_ context.Context, user *models.User) (int64, error) {
	if err := r.s.writeErr(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = user.Clone()
	return 1, nil
}

func (r fakeUsers) Delete(_ context.Context, id snowflake.ID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return 1, nil
}

func (r fakeUsers) AddBalance(_ context.Context, id snowflake.ID, delta int64) (int64, error) {
	if err := r.s.writeErr(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		u.Balance += delta
		if u.Balance < 0 {
			u.Balance = 0
		}
		return 1, nil
	}
	return 0, nil
}

func (r fakeUsers) SetBalance(_ context.Context, id snowflake.ID, balance int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		u.Balance = balance
		return 1, nil
	}
	return 0, nil
}

func (r fakeUsers) UpdateDaily(_ context.Context, id snowflake.ID, streak int, claimedAt time.Time) (int64, error) {
	if err := r.s.writeErr(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		u.DailyStreak = streak
		t := claimedAt
		u.LastDaily = &t
		return 1, nil
	}
	return 0, nil
}

func (r fakeUsers) SetWorld(_ context.Context, id snowflake.ID, world models.World, movedAt *time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		u.World = world
		u.LastWorldMove = movedAt
		return 1, nil
	}
	return 0, nil
}

func (r fakeUsers) UpdateName(_ context.Context, id snowflake.ID, name string) (int64, error) {
	if err := r.s.writeErr(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		u.Name = name
		return 1, nil
	}
	return 0, nil
}

func (r fakeUsers) TopByBalance(_ context.Context, limit int) ([]*models.User, error) {
	return nil, nil
}

func (r fakeUsers) TopByBalanceIn(_ context.Context, ids []snowflake.ID, limit int) ([]*models.User, error) {
	return nil, nil
}
