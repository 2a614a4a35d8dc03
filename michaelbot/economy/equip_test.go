package economy

import (
	"context"
	"testing"

	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEquipFromInventory(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.inventory[testUser] = map[string]int{"wood_pickaxe": 1}

	res, err := e.Equip(context.Background(), testUser, "wood_pickaxe")
	require.NoError(t, err)

	assert.Equal(t, "wood_pickaxe", res.Equipped)
	assert.Empty(t, res.Replaced)
	assert.Zero(t, store.inventory[testUser]["wood_pickaxe"])

	tool := store.equipment[testUser]["wood_pickaxe"]
	require.NotNil(t, tool)
	assert.Equal(t, models.ToolPickaxe, tool.EqType)
	assert.Equal(t, 59, tool.RemainDurability)
}

func TestEquipNotOwned(t *testing.T) {
	e, _ := newTestEngine(&scriptRNG{})

	_, err := e.Equip(context.Background(), testUser, "wood_pickaxe")
	require.Error(t, err)
	assert.Equal(t, errs.Precondition, errs.KindOf(err))
}

func TestEquipNotATool(t *testing.T) {
	e, _ := newTestEngine(&scriptRNG{})

	_, err := e.Equip(context.Background(), testUser, "wood")
	require.Error(t, err)
	assert.Equal(t, errs.Validation, errs.KindOf(err))
}

func TestEquipReplacePristineReturns(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.inventory[testUser] = map[string]int{"stone_pickaxe": 1}
	giveTool(store, "wood_pickaxe", models.ToolPickaxe, 59) // full durability

	res, err := e.Equip(context.Background(), testUser, "stone_pickaxe")
	require.NoError(t, err)

	assert.Equal(t, "wood_pickaxe", res.Replaced)
	assert.True(t, res.Returned)
	assert.False(t, res.Destroyed)
	assert.Equal(t, 1, store.inventory[testUser]["wood_pickaxe"])
	assert.Nil(t, store.equipment[testUser]["wood_pickaxe"])
	assert.Equal(t, 132, store.equipment[testUser]["stone_pickaxe"].RemainDurability)
}

func TestEquipReplaceWornDestroys(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.inventory[testUser] = map[string]int{"stone_pickaxe": 1}
	giveTool(store, "wood_pickaxe", models.ToolPickaxe, 30)

	res, err := e.Equip(context.Background(), testUser, "stone_pickaxe")
	require.NoError(t, err)

	assert.Equal(t, "wood_pickaxe", res.Replaced)
	assert.False(t, res.Returned)
	assert.True(t, res.Destroyed)
	assert.Zero(t, store.inventory[testUser]["wood_pickaxe"])
}

func TestEquipFragileInNether(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.users[testUser].World = models.Nether
	store.inventory[testUser] = map[string]int{"fragile_pickaxe": 1}

	_, err := e.Equip(context.Background(), testUser, "fragile_pickaxe")
	require.Error(t, err)
	assert.Equal(t, errs.Precondition, errs.KindOf(err))
	assert.Equal(t, 1, store.inventory[testUser]["fragile_pickaxe"])
}
