package economy

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/MikeJollie2707/michaelbot/michaelbot/cache"
	"github.com/MikeJollie2707/michaelbot/michaelbot/catalog"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/repositories"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/disgoorg/snowflake/v2"
)

// memStore is an in-memory Store with the same row semantics as the
// Postgres implementation: balance clamps at zero, slots delete when
// they empty, consume reports expiry. RunInTx just runs the callback;
// the engine's transactional grouping is not what these tests exercise.
type memStore struct {
	mu sync.Mutex

	users     map[snowflake.ID]*models.User
	inventory map[snowflake.ID]map[string]int
	equipment map[snowflake.ID]map[string]*models.ActiveTool
	potions   map[snowflake.ID]map[string]int
	portals   map[snowflake.ID]map[string]int
	badges    map[snowflake.ID]map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[snowflake.ID]*models.User{},
		inventory: map[snowflake.ID]map[string]int{},
		equipment: map[snowflake.ID]map[string]*models.ActiveTool{},
		potions:   map[snowflake.ID]map[string]int{},
		portals:   map[snowflake.ID]map[string]int{},
		badges:    map[snowflake.ID]map[string]bool{},
	}
}

func (s *memStore) Users() repositories.UserRepository           { return memUsers{s} }
func (s *memStore) Inventory() repositories.InventoryRepository  { return memInventory{s} }
func (s *memStore) Equipment() repositories.EquipmentRepository  { return memEquipment{s} }
func (s *memStore) Potions() repositories.PotionRepository       { return memPotions{s} }
func (s *memStore) Portals() repositories.PortalRepository       { return memPortals{s} }
func (s *memStore) Badges() repositories.BadgeRepository         { return memBadges{s} }
func (s *memStore) Guilds() repositories.GuildRepository         { return nil }
func (s *memStore) GuildLogs() repositories.GuildLogRepository   { return nil }
func (s *memStore) Items() repositories.ItemRepository           { return nil }
func (s *memStore) Reminders() repositories.ReminderRepository   { return nil }
func (s *memStore) TempMutes() repositories.TempMuteRepository   { return nil }
func (s *memStore) CustomCmds() repositories.CustomCmdRepository { return nil }

func (s *memStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx repositories.Store) error) error {
	return fn(ctx, s)
}

type memUsers struct{ s *memStore }

func (r memUsers) Get(_ context.Context, id snowflake.ID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, errs.New(errs.NotFound, "user %d not found", id)
	}
	return user.Clone(), nil
}

func (r memUsers) GetAll(_ context.Context) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.User
	for _, u := range r.s.users {
		out = append(out, u.Clone())
	}
	return out, nil
}

func (r memUsers) Insert(_ context.Context, user *models.User) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = user.Clone()
	return 1, nil
}

func (r memUsers) Delete(_ context.Context, id snowflake.ID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return 0, nil
	}
	delete(r.s.users, id)
	return 1, nil
}

func (r memUsers) AddBalance(_ context.Context, id snowflake.ID, delta int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return 0, nil
	}
	user.Balance += delta
	if user.Balance < 0 {
		user.Balance = 0
	}
	return 1, nil
}

func (r memUsers) SetBalance(_ context.Context, id snowflake.ID, balance int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return 0, nil
	}
	user.Balance = balance
	return 1, nil
}

func (r memUsers) UpdateDaily(_ context.Context, id snowflake.ID, streak int, claimedAt time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return 0, nil
	}
	user.DailyStreak = streak
	t := claimedAt
	user.LastDaily = &t
	return 1, nil
}

func (r memUsers) SetWorld(_ context.Context, id snowflake.ID, world models.World, movedAt *time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return 0, nil
	}
	user.World = world
	if movedAt != nil {
		t := *movedAt
		user.LastWorldMove = &t
	} else {
		user.LastWorldMove = nil
	}
	return 1, nil
}

func (r memUsers) UpdateName(_ context.Context, id snowflake.ID, name string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if user, ok := r.s.users[id]; ok {
		user.Name = name
		return 1, nil
	}
	return 0, nil
}

func (r memUsers) TopByBalance(_ context.Context, limit int) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.User
	for _, u := range r.s.users {
		out = append(out, u.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Balance > out[j].Balance })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memUsers) TopByBalanceIn(ctx context.Context, ids []snowflake.ID, limit int) ([]*models.User, error) {
	all, _ := r.TopByBalance(ctx, len(r.s.users))
	want := map[snowflake.ID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []*models.User
	for _, u := range all {
		if want[u.ID] {
			out = append(out, u)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memInventory struct{ s *memStore }

func (r memInventory) GetAll(_ context.Context, userID snowflake.ID) ([]*models.InventorySlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.InventorySlot
	for itemID, amount := range r.s.inventory[userID] {
		out = append(out, &models.InventorySlot{UserID: userID, ItemID: itemID, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (r memInventory) GetOne(_ context.Context, userID snowflake.ID, itemID string) (*models.InventorySlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	amount, ok := r.s.inventory[userID][itemID]
	if !ok {
		return nil, nil
	}
	return &models.InventorySlot{UserID: userID, ItemID: itemID, Amount: amount}, nil
}

func (r memInventory) Add(_ context.Context, userID snowflake.ID, itemID string, amount int) (int64, error) {
	if amount <= 0 {
		return 0, nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.inventory[userID] == nil {
		r.s.inventory[userID] = map[string]int{}
	}
	r.s.inventory[userID][itemID] += amount
	return 1, nil
}

func (r memInventory) Remove(_ context.Context, userID snowflake.ID, itemID string, amount int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	have, ok := r.s.inventory[userID][itemID]
	if !ok {
		return 0, nil
	}
	if have <= amount {
		delete(r.s.inventory[userID], itemID)
	} else {
		r.s.inventory[userID][itemID] = have - amount
	}
	return 1, nil
}

type memEquipment struct{ s *memStore }

func (r memEquipment) GetAll(_ context.Context, userID snowflake.ID) ([]*models.ActiveTool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.ActiveTool
	for _, tool := range r.s.equipment[userID] {
		cp := *tool
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (r memEquipment) GetByKind(_ context.Context, userID snowflake.ID, kind models.ToolKind) (*models.ActiveTool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, tool := range r.s.equipment[userID] {
		if tool.EqType == kind {
			cp := *tool
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memEquipment) Insert(_ context.Context, tool *models.ActiveTool) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.equipment[tool.UserID] == nil {
		r.s.equipment[tool.UserID] = map[string]*models.ActiveTool{}
	}
	cp := *tool
	r.s.equipment[tool.UserID][tool.ItemID] = &cp
	return 1, nil
}

func (r memEquipment) Delete(_ context.Context, userID snowflake.ID, itemID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.equipment[userID][itemID]; !ok {
		return 0, nil
	}
	delete(r.s.equipment[userID], itemID)
	return 1, nil
}

func (r memEquipment) DeleteAll(_ context.Context, userID snowflake.ID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := int64(len(r.s.equipment[userID]))
	delete(r.s.equipment, userID)
	return n, nil
}

func (r memEquipment) SetDurability(_ context.Context, userID snowflake.ID, itemID string, remain int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tool, ok := r.s.equipment[userID][itemID]
	if !ok {
		return 0, nil
	}
	tool.RemainDurability = remain
	return 1, nil
}

type memPotions struct{ s *memStore }

func (r memPotions) GetAll(_ context.Context, userID snowflake.ID) ([]*models.ActivePotion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.ActivePotion
	for itemID, uses := range r.s.potions[userID] {
		out = append(out, &models.ActivePotion{UserID: userID, ItemID: itemID, RemainUses: uses})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (r memPotions) GetOne(_ context.Context, userID snowflake.ID, itemID string) (*models.ActivePotion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	uses, ok := r.s.potions[userID][itemID]
	if !ok {
		return nil, nil
	}
	return &models.ActivePotion{UserID: userID, ItemID: itemID, RemainUses: uses}, nil
}

func (r memPotions) AddUses(_ context.Context, userID snowflake.ID, itemID string, uses int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.potions[userID] == nil {
		r.s.potions[userID] = map[string]int{}
	}
	r.s.potions[userID][itemID] += uses
	return 1, nil
}

func (r memPotions) ConsumeUses(_ context.Context, userID snowflake.ID, itemID string, uses int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	have, ok := r.s.potions[userID][itemID]
	if !ok {
		return false, nil
	}
	if have <= uses {
		delete(r.s.potions[userID], itemID)
		return true, nil
	}
	r.s.potions[userID][itemID] = have - uses
	return false, nil
}

func (r memPotions) Delete(_ context.Context, userID snowflake.ID, itemID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.potions[userID][itemID]; !ok {
		return 0, nil
	}
	delete(r.s.potions[userID], itemID)
	return 1, nil
}

func (r memPotions) DeleteAll(_ context.Context, userID snowflake.ID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := int64(len(r.s.potions[userID]))
	delete(r.s.potions, userID)
	return n, nil
}

type memPortals struct{ s *memStore }

func (r memPortals) GetAll(_ context.Context, userID snowflake.ID) ([]*models.ActivePortal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.ActivePortal
	for itemID, uses := range r.s.portals[userID] {
		out = append(out, &models.ActivePortal{UserID: userID, ItemID: itemID, RemainUses: uses})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (r memPortals) GetOne(_ context.Context, userID snowflake.ID, itemID string) (*models.ActivePortal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	uses, ok := r.s.portals[userID][itemID]
	if !ok {
		return nil, nil
	}
	return &models.ActivePortal{UserID: userID, ItemID: itemID, RemainUses: uses}, nil
}

func (r memPortals) Insert(_ context.Context, portal *models.ActivePortal) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.portals[portal.UserID] == nil {
		r.s.portals[portal.UserID] = map[string]int{}
	}
	r.s.portals[portal.UserID][portal.ItemID] = portal.RemainUses
	return 1, nil
}

func (r memPortals) ConsumeUse(_ context.Context, userID snowflake.ID, itemID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	have, ok := r.s.portals[userID][itemID]
	if !ok {
		return false, nil
	}
	if have <= 1 {
		delete(r.s.portals[userID], itemID)
		return true, nil
	}
	r.s.portals[userID][itemID] = have - 1
	return false, nil
}

func (r memPortals) Delete(_ context.Context, userID snowflake.ID, itemID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.portals[userID][itemID]; !ok {
		return 0, nil
	}
	delete(r.s.portals[userID], itemID)
	return 1, nil
}

type memBadges struct{ s *memStore }

func (r memBadges) GetAll(_ context.Context) ([]*models.Badge, error) { return nil, nil }

func (r memBadges) Sync(_ context.Context, _ *models.Badge) error { return nil }

func (r memBadges) GetUserBadges(_ context.Context, userID snowflake.ID) ([]*models.UserBadge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.UserBadge
	for badgeID := range r.s.badges[userID] {
		out = append(out, &models.UserBadge{UserID: userID, BadgeID: badgeID})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BadgeID < out[j].BadgeID })
	return out, nil
}

func (r memBadges) Award(_ context.Context, userID snowflake.ID, badgeID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.badges[userID][badgeID] {
		return 0, nil
	}
	if r.s.badges[userID] == nil {
		r.s.badges[userID] = map[string]bool{}
	}
	r.s.badges[userID][badgeID] = true
	return 1, nil
}

// scriptRNG replays fixed sequences. An exhausted float queue keeps
// returning 0.99 (nothing random fires); an exhausted int queue returns
// zero (the smallest roll).
type scriptRNG struct {
	floats []float64
	ints   []int
}

func (r *scriptRNG) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptRNG) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v >= n {
		v = n - 1
	}
	return v
}

const testUser snowflake.ID = 1111

// newTestEngine wires an engine over a fresh memStore with one seeded
// user and a frozen clock.
func newTestEngine(rng RNG) (*Engine, *memStore) {
	store := newMemStore()
	store.users[testUser] = &models.User{
		ID:            testUser,
		Name:          "tester",
		IsWhitelisted: true,
		World:         models.Overworld,
	}
	e := NewEngine(store, catalog.New(), cache.NewUsers(store), rng)
	e.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return e, store
}

func giveTool(store *memStore, itemID string, kind models.ToolKind, durability int) {
	store.equipment[testUser] = map[string]*models.ActiveTool{
		itemID: {UserID: testUser, ItemID: itemID, EqType: kind, RemainDurability: durability},
	}
}
