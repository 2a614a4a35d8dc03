package models

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

// Item is the persisted mirror of a catalog entry. The catalog is the
// source of truth; rows exist so inventories can reference items with a
// foreign key and so other tooling can read prices without the bot.
type Item struct {
	bun.BaseModel `bun:"table:items,alias:i"`

	ID          string   `bun:"id,pk"`
	SortID      int      `bun:"sort_id,notnull"`
	Name        string   `bun:"name,notnull"`
	Aliases     []string `bun:"aliases,array"`
	Emoji       string   `bun:"emoji,notnull"`
	Description string   `bun:"description,notnull"`
	BuyPrice    *int64   `bun:"buy_price"`
	SellPrice   *int64   `bun:"sell_price"`
	Durability  *int     `bun:"durability"`
}

type Badge struct {
	bun.BaseModel `bun:"table:badges,alias:b"`

	ID          string `bun:"id,pk"`
	SortID      int    `bun:"sort_id,notnull"`
	Name        string `bun:"name,notnull"`
	Emoji       string `bun:"emoji,notnull"`
	Description string `bun:"description,notnull"`
}

type UserBadge struct {
	bun.BaseModel `bun:"table:user_badges,alias:ub"`

	UserID  snowflake.ID `bun:"user_id,pk"`
	BadgeID string       `bun:"badge_id,pk"`
}
