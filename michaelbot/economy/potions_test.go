package economy

import (
	"context"
	"testing"

	"github.com/MikeJollie2707/michaelbot/michaelbot/catalog"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsePotionActivates(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.inventory[testUser] = map[string]int{catalog.ItemLuckPotion: 3}

	res, err := e.UsePotion(context.Background(), testUser, catalog.ItemLuckPotion, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Stack)
	assert.Equal(t, 20, store.potions[testUser][catalog.ItemLuckPotion])
	assert.Equal(t, 1, store.inventory[testUser][catalog.ItemLuckPotion])
}

func TestUsePotionNotOwnedEnough(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.inventory[testUser] = map[string]int{catalog.ItemLuckPotion: 1}

	_, err := e.UsePotion(context.Background(), testUser, catalog.ItemLuckPotion, 2)
	require.Error(t, err)
	assert.Equal(t, errs.Precondition, errs.KindOf(err))
}

func TestUsePotionStackCap(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.inventory[testUser] = map[string]int{catalog.ItemLuckPotion: 1}
	store.potions[testUser] = map[string]int{catalog.ItemLuckPotion: 100} // stack 10

	_, err := e.UsePotion(context.Background(), testUser, catalog.ItemLuckPotion, 1)
	require.Error(t, err)
	assert.Equal(t, errs.Precondition, errs.KindOf(err))
	assert.Equal(t, 1, store.inventory[testUser][catalog.ItemLuckPotion])
}

func TestUsePotionDistinctCap(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.inventory[testUser] = map[string]int{catalog.ItemFirePotion: 1}
	store.potions[testUser] = map[string]int{
		catalog.ItemLuckPotion:    5,
		catalog.ItemHastePotion:   5,
		catalog.ItemLootingPotion: 5,
	}

	_, err := e.UsePotion(context.Background(), testUser, catalog.ItemFirePotion, 1)
	require.Error(t, err)
	assert.Equal(t, errs.Precondition, errs.KindOf(err))
}

func TestUsePotionTopUpExistingBypassesDistinctCap(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.inventory[testUser] = map[string]int{catalog.ItemLuckPotion: 1}
	store.potions[testUser] = map[string]int{
		catalog.ItemLuckPotion:    5,
		catalog.ItemHastePotion:   5,
		catalog.ItemLootingPotion: 5,
	}

	res, err := e.UsePotion(context.Background(), testUser, catalog.ItemLuckPotion, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Stack)
	assert.Equal(t, 15, store.potions[testUser][catalog.ItemLuckPotion])
}

func TestUseBlandPotionClearsAll(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.inventory[testUser] = map[string]int{catalog.ItemBlandPotion: 2}
	store.potions[testUser] = map[string]int{
		catalog.ItemLuckPotion:  5,
		catalog.ItemHastePotion: 5,
	}

	res, err := e.UsePotion(context.Background(), testUser, catalog.ItemBlandPotion, 1)
	require.NoError(t, err)

	assert.True(t, res.Cleared)
	assert.Equal(t, 1, res.Amount)
	assert.Empty(t, store.potions[testUser])
	assert.Equal(t, 1, store.inventory[testUser][catalog.ItemBlandPotion])
}

func TestUsePotionRejectsNonPotion(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.inventory[testUser] = map[string]int{catalog.ItemWood: 1}

	_, err := e.UsePotion(context.Background(), testUser, catalog.ItemWood, 1)
	require.Error(t, err)
	assert.Equal(t, errs.Validation, errs.KindOf(err))
}

func TestUsePotionRejectsZeroAmount(t *testing.T) {
	e, _ := newTestEngine(&scriptRNG{})

	_, err := e.UsePotion(context.Background(), testUser, catalog.ItemLuckPotion, 0)
	require.Error(t, err)
	assert.Equal(t, errs.Validation, errs.KindOf(err))
}
