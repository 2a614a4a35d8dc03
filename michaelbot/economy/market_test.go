package economy

import (
	"context"
	"testing"

	"github.com/MikeJollie2707/michaelbot/michaelbot/catalog"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuy(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.users[testUser].Balance = 100

	res, err := e.Buy(context.Background(), testUser, catalog.ItemWood, 3)
	require.NoError(t, err)

	assert.Equal(t, int64(30), res.Money)
	assert.Equal(t, int64(70), store.users[testUser].Balance)
	assert.Equal(t, 3, store.inventory[testUser][catalog.ItemWood])
}

func TestBuyInsufficientBalance(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.users[testUser].Balance = 5

	_, err := e.Buy(context.Background(), testUser, catalog.ItemWood, 1)
	require.Error(t, err)
	assert.Equal(t, errs.Precondition, errs.KindOf(err))
	assert.Equal(t, int64(5), store.users[testUser].Balance)
}

func TestBuyUnlisted(t *testing.T) {
	e, _ := newTestEngine(&scriptRNG{})

	// Obsidian has no buy price.
	_, err := e.Buy(context.Background(), testUser, catalog.ItemObsidian, 1)
	require.Error(t, err)
	assert.Equal(t, errs.Validation, errs.KindOf(err))
}

func TestSell(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.inventory[testUser] = map[string]int{catalog.ItemWood: 10}

	res, err := e.Sell(context.Background(), testUser, catalog.ItemWood, 4)
	require.NoError(t, err)

	assert.Equal(t, int64(20), res.Money)
	assert.False(t, res.Bonus)
	assert.Equal(t, int64(20), store.users[testUser].Balance)
	assert.Equal(t, 6, store.inventory[testUser][catalog.ItemWood])
}

func TestSellAgeBadgeBonus(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.inventory[testUser] = map[string]int{catalog.ItemWood: 10}
	store.badges[testUser] = map[string]bool{catalog.BadgeWoodenAge: true}

	res, err := e.Sell(context.Background(), testUser, catalog.ItemWood, 4)
	require.NoError(t, err)

	// floor(20 * 1.05)
	assert.Equal(t, int64(21), res.Money)
	assert.True(t, res.Bonus)
}

func TestSellNotEnough(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.inventory[testUser] = map[string]int{catalog.ItemWood: 2}

	_, err := e.Sell(context.Background(), testUser, catalog.ItemWood, 5)
	require.Error(t, err)
	assert.Equal(t, errs.Precondition, errs.KindOf(err))
	assert.Equal(t, 2, store.inventory[testUser][catalog.ItemWood])
}

func TestAwardBadges(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.inventory[testUser] = map[string]int{
		catalog.ItemWood:    64,
		catalog.ItemDiamond: 1,
	}

	earned, err := e.AwardBadges(context.Background(), testUser)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{catalog.BadgeWoodenAge, catalog.BadgeOhShiny}, earned)

	// A second pass grants nothing new.
	earned, err = e.AwardBadges(context.Background(), testUser)
	require.NoError(t, err)
	assert.Empty(t, earned)
}
