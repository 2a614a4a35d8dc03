package repositories

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
)

// Store bundles every repository behind one gateway handle and provides
// the transactional unit-of-work the engine wraps multi-row writes in.
// Inside RunInTx the callback receives a Store bound to the transaction;
// reads through it see the transaction's own writes.
type Store interface {
	Guilds() GuildRepository
	GuildLogs() GuildLogRepository
	Users() UserRepository
	Items() ItemRepository
	Inventory() InventoryRepository
	Equipment() EquipmentRepository
	Potions() PotionRepository
	Portals() PortalRepository
	Badges() BadgeRepository
	Reminders() ReminderRepository
	TempMutes() TempMuteRepository
	CustomCmds() CustomCmdRepository

	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

type store struct {
	db   bun.IDB
	root *bun.DB // nil when already transaction-bound
}

func NewStore(db *bun.DB) Store {
	return &store{db: db, root: db}
}

func (s *store) Guilds() GuildRepository         { return NewGuildRepository(s.db) }
func (s *store) GuildLogs() GuildLogRepository   { return NewGuildLogRepository(s.db) }
func (s *store) Users() UserRepository           { return NewUserRepository(s.db) }
func (s *store) Items() ItemRepository           { return NewItemRepository(s.db) }
func (s *store) Inventory() InventoryRepository  { return NewInventoryRepository(s.db) }
func (s *store) Equipment() EquipmentRepository  { return NewEquipmentRepository(s.db) }
func (s *store) Potions() PotionRepository       { return NewPotionRepository(s.db) }
func (s *store) Portals() PortalRepository       { return NewPortalRepository(s.db) }
func (s *store) Badges() BadgeRepository         { return NewBadgeRepository(s.db) }
func (s *store) Reminders() ReminderRepository   { return NewReminderRepository(s.db) }
func (s *store) TempMutes() TempMuteRepository   { return NewTempMuteRepository(s.db) }
func (s *store) CustomCmds() CustomCmdRepository { return NewCustomCmdRepository(s.db) }

func (s *store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if s.root == nil {
		// Already inside a transaction; reuse it.
		return fn(ctx, s)
	}
	return s.root.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &store{db: tx})
	})
}
