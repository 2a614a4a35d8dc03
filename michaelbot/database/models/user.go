package models

import (
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

// World is the economy domain a user is currently in. It governs which
// loot tables apply and how dangerous actions are.
type World int16

const (
	Overworld World = iota
	Nether
	Space
)

func (w World) String() string {
	switch w {
	case Overworld:
		return "Overworld"
	case Nether:
		return "Nether"
	case Space:
		return "Space"
	}
	return "Unknown"
}

// ParseWorld resolves user input to a world, case-insensitively.
func ParseWorld(s string) (World, bool) {
	switch strings.ToLower(s) {
	case "overworld":
		return Overworld, true
	case "nether":
		return Nether, true
	case "space":
		return Space, true
	}
	return Overworld, false
}

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID            snowflake.ID `bun:"id,pk"`
	Name          string       `bun:"name,notnull"`
	IsWhitelisted bool         `bun:"is_whitelist,notnull,default:true"`
	Balance       int64        `bun:"balance,notnull,default:0"`
	DailyStreak   int          `bun:"daily_streak,notnull,default:0"`
	LastDaily     *time.Time   `bun:"last_daily,nullzero"`
	World         World        `bun:"world,notnull,default:0"`
	LastWorldMove *time.Time   `bun:"last_world_move,nullzero"`
}

// Clone returns a copy safe to hand to cache readers.
func (u *User) Clone() *User {
	cp := *u
	if u.LastDaily != nil {
		t := *u.LastDaily
		cp.LastDaily = &t
	}
	if u.LastWorldMove != nil {
		t := *u.LastWorldMove
		cp.LastWorldMove = &t
	}
	return &cp
}
