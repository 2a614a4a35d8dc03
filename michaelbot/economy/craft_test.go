package economy

import (
	"context"
	"testing"

	"github.com/MikeJollie2707/michaelbot/michaelbot/catalog"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCraftTool(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.inventory[testUser] = map[string]int{
		catalog.ItemWood:  5,
		catalog.ItemStick: 2,
	}

	res, err := e.Craft(context.Background(), testUser, "wood_pickaxe", 1)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Produced)
	assert.Equal(t, int64(0), res.MoneySpent)
	assert.Equal(t, 1, store.inventory[testUser]["wood_pickaxe"])
	assert.Equal(t, 2, store.inventory[testUser][catalog.ItemWood])
	assert.Zero(t, store.inventory[testUser][catalog.ItemStick])
}

func TestCraftMissingIngredients(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.inventory[testUser] = map[string]int{catalog.ItemWood: 1}

	res, err := e.Craft(context.Background(), testUser, "wood_pickaxe", 1)
	require.Error(t, err)
	assert.Equal(t, errs.Precondition, errs.KindOf(err))
	require.NotNil(t, res)
	assert.Equal(t, map[string]int{catalog.ItemWood: 2, catalog.ItemStick: 2}, res.Missing)
	// Nothing consumed on a rejected craft.
	assert.Equal(t, 1, store.inventory[testUser][catalog.ItemWood])
}

func TestCraftBatchYield(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.inventory[testUser] = map[string]int{catalog.ItemWood: 10}

	// Sticks come two at a time.
	_, err := e.Craft(context.Background(), testUser, catalog.ItemStick, 1)
	require.Error(t, err)
	assert.Equal(t, errs.Validation, errs.KindOf(err))

	res, err := e.Craft(context.Background(), testUser, catalog.ItemStick, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Produced)
	assert.Equal(t, 8, store.inventory[testUser][catalog.ItemWood])
	assert.Equal(t, 4, store.inventory[testUser][catalog.ItemStick])
}

func TestCraftUnknownRecipe(t *testing.T) {
	e, _ := newTestEngine(&scriptRNG{})

	_, err := e.Craft(context.Background(), testUser, catalog.ItemWood, 1)
	require.Error(t, err)
	assert.Equal(t, errs.Validation, errs.KindOf(err))
}

func TestCraftPortalActivates(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.inventory[testUser] = map[string]int{catalog.ItemObsidian: 10}

	res, err := e.Craft(context.Background(), testUser, catalog.PortalNether, 1)
	require.NoError(t, err)

	assert.True(t, res.PortalActivated)
	// The portal goes straight to the active slot, not the inventory.
	assert.Zero(t, store.inventory[testUser][catalog.PortalNether])
	assert.Equal(t, 5, store.portals[testUser][catalog.PortalNether])
}

func TestCraftPortalAlreadyActive(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.inventory[testUser] = map[string]int{catalog.ItemObsidian: 20}
	store.portals[testUser] = map[string]int{catalog.PortalNether: 2}

	_, err := e.Craft(context.Background(), testUser, catalog.PortalNether, 1)
	require.Error(t, err)
	assert.Equal(t, errs.Validation, errs.KindOf(err))
	assert.Equal(t, 20, store.inventory[testUser][catalog.ItemObsidian])
}

func TestBrewChargesMoney(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.users[testUser].Balance = 150
	store.inventory[testUser] = map[string]int{catalog.ItemNetherWart: 1}

	res, err := e.Brew(context.Background(), testUser, catalog.ItemBlandPotion, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Produced)
	assert.Equal(t, int64(100), res.MoneySpent)
	assert.Equal(t, int64(50), store.users[testUser].Balance)
	assert.Equal(t, 1, store.inventory[testUser][catalog.ItemBlandPotion])
}

func TestBrewInsufficientMoney(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.users[testUser].Balance = 50
	store.inventory[testUser] = map[string]int{catalog.ItemNetherWart: 1}

	_, err := e.Brew(context.Background(), testUser, catalog.ItemBlandPotion, 1)
	require.Error(t, err)
	assert.Equal(t, errs.Precondition, errs.KindOf(err))
	assert.Equal(t, int64(50), store.users[testUser].Balance)
	assert.Equal(t, 1, store.inventory[testUser][catalog.ItemNetherWart])
}

func TestBrewRejectsCraftOnlyItem(t *testing.T) {
	e, _ := newTestEngine(&scriptRNG{})

	_, err := e.Brew(context.Background(), testUser, "wood_pickaxe", 1)
	require.Error(t, err)
	assert.Equal(t, errs.Validation, errs.KindOf(err))
}
