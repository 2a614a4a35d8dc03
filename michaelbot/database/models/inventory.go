package models

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

// InventorySlot holds the amount of one item a user owns. Slots never
// persist with amount 0; removal deletes the row.
type InventorySlot struct {
	bun.BaseModel `bun:"table:user_inventory,alias:inv"`

	UserID snowflake.ID `bun:"user_id,pk"`
	ItemID string       `bun:"item_id,pk"`
	Amount int          `bun:"amount,notnull"`
}

// ToolKind classifies equippable tools. At most one tool of each kind
// can be active per user.
type ToolKind string

const (
	ToolPickaxe ToolKind = "pickaxe"
	ToolAxe     ToolKind = "axe"
	ToolSword   ToolKind = "sword"
	ToolRod     ToolKind = "rod"
)

// ActiveTool is a tool moved out of the inventory into the active slot
// of its kind, carrying its own remaining durability.
type ActiveTool struct {
	bun.BaseModel `bun:"table:user_equipment,alias:eq"`

	UserID           snowflake.ID `bun:"user_id,pk"`
	ItemID           string       `bun:"item_id,pk"`
	EqType           ToolKind     `bun:"eq_type,notnull"`
	RemainDurability int          `bun:"remain_durability,notnull"`
}

type ActivePotion struct {
	bun.BaseModel `bun:"table:user_active_potions,alias:pot"`

	UserID     snowflake.ID `bun:"user_id,pk"`
	ItemID     string       `bun:"item_id,pk"`
	RemainUses int          `bun:"remain_uses,notnull"`
}

// Stack is the user-visible "x N" marker of a potion: how many base
// durabilities of uses remain, rounded up.
func (p *ActivePotion) Stack(baseDurability int) int {
	if baseDurability <= 0 {
		return 0
	}
	return (p.RemainUses + baseDurability - 1) / baseDurability
}

type ActivePortal struct {
	bun.BaseModel `bun:"table:user_active_portals,alias:por"`

	UserID     snowflake.ID `bun:"user_id,pk"`
	ItemID     string       `bun:"item_id,pk"`
	RemainUses int          `bun:"remain_uses,notnull"`
}
