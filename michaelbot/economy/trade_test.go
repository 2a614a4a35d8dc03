package economy

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/MikeJollie2707/michaelbot/michaelbot/catalog"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteTradeBuy(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.users[testUser].Balance = 100
	e.trade.replace([]Offer{
		{ItemID: catalog.ItemWood, Amount: 2, Price: 15, IsBuy: true},
	}, e.now())

	res, err := e.ExecuteTrade(context.Background(), testUser, 0, 2)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Items)
	assert.Equal(t, int64(30), res.Price)
	assert.Equal(t, int64(70), store.users[testUser].Balance)
	assert.Equal(t, 4, store.inventory[testUser][catalog.ItemWood])
}

func TestExecuteTradeSell(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.inventory[testUser] = map[string]int{catalog.ItemIron: 10}
	e.trade.replace([]Offer{
		{ItemID: catalog.ItemIron, Amount: 3, Price: 100, IsBuy: false},
	}, e.now())

	res, err := e.ExecuteTrade(context.Background(), testUser, 0, 2)
	require.NoError(t, err)

	assert.Equal(t, 6, res.Items)
	assert.Equal(t, int64(200), res.Price)
	assert.Equal(t, int64(200), store.users[testUser].Balance)
	assert.Equal(t, 4, store.inventory[testUser][catalog.ItemIron])
}

func TestExecuteTradeWrongWorld(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.users[testUser].World = models.Nether
	e.trade.replace([]Offer{
		{ItemID: catalog.ItemWood, Amount: 1, Price: 5, IsBuy: true},
	}, e.now())

	_, err := e.ExecuteTrade(context.Background(), testUser, 0, 1)
	require.Error(t, err)
	assert.Equal(t, errs.Precondition, errs.KindOf(err))
}

func TestExecuteTradeBounds(t *testing.T) {
	e, _ := newTestEngine(&scriptRNG{})
	e.trade.replace([]Offer{
		{ItemID: catalog.ItemWood, Amount: 1, Price: 5, IsBuy: true},
	}, e.now())

	_, err := e.ExecuteTrade(context.Background(), testUser, 3, 1)
	require.Error(t, err)
	assert.Equal(t, errs.Validation, errs.KindOf(err))

	_, err = e.ExecuteTrade(context.Background(), testUser, 0, 0)
	require.Error(t, err)
	assert.Equal(t, errs.Validation, errs.KindOf(err))

	_, err = e.ExecuteTrade(context.Background(), testUser, 0, 51)
	require.Error(t, err)
	assert.Equal(t, errs.Validation, errs.KindOf(err))
}

func TestExecuteBarterPaysInGold(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.users[testUser].World = models.Nether
	store.inventory[testUser] = map[string]int{catalog.ItemGold: 10}
	e.barter.replace([]Offer{
		{ItemID: catalog.ItemIron, Amount: 1, Price: 3, IsBuy: true},
	}, e.now())

	res, err := e.ExecuteBarter(context.Background(), testUser, 0, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(6), res.Price)
	assert.Equal(t, 4, store.inventory[testUser][catalog.ItemGold])
	assert.Equal(t, 2, store.inventory[testUser][catalog.ItemIron])
}

func TestExecuteBarterEarnsGold(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.users[testUser].World = models.Nether
	store.inventory[testUser] = map[string]int{catalog.ItemQuartz: 8}
	e.barter.replace([]Offer{
		{ItemID: catalog.ItemQuartz, Amount: 4, Price: 5, IsBuy: false},
	}, e.now())

	res, err := e.ExecuteBarter(context.Background(), testUser, 0, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(5), res.Price)
	assert.Equal(t, 5, store.inventory[testUser][catalog.ItemGold])
	assert.Equal(t, 4, store.inventory[testUser][catalog.ItemQuartz])
	// Balance untouched; barter never pays money.
	assert.Zero(t, store.users[testUser].Balance)
}

func TestExecuteBarterNotEnoughGold(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.users[testUser].World = models.Nether
	store.inventory[testUser] = map[string]int{catalog.ItemGold: 2}
	e.barter.replace([]Offer{
		{ItemID: catalog.ItemIron, Amount: 1, Price: 3, IsBuy: true},
	}, e.now())

	_, err := e.ExecuteBarter(context.Background(), testUser, 0, 1)
	require.Error(t, err)
	assert.Equal(t, errs.Precondition, errs.KindOf(err))
	assert.Equal(t, 2, store.inventory[testUser][catalog.ItemGold])
}

func TestRefreshTradeInvariants(t *testing.T) {
	e, _ := newTestEngine(&lockedRNG{rnd: rand.New(rand.NewSource(7))})

	for range [10]int{} {
		e.RefreshTrade()
		offers := e.TradeBoard().Offers()
		require.Len(t, offers, 4)

		// First slot is the cheap one: list value at or under 200.
		first, ok := e.Catalog().Get(offers[0].ItemID)
		require.True(t, ok)
		assert.LessOrEqual(t, *first.SellPrice*int64(offers[0].Amount), int64(200))

		for _, offer := range offers {
			item, ok := e.Catalog().Get(offer.ItemID)
			require.True(t, ok)
			assert.GreaterOrEqual(t, offer.Amount, 1)
			if item.IsTool() {
				assert.LessOrEqual(t, offer.Amount, 3)
			}
			// Price stays inside the ±20% noise band of the list value.
			value := float64(*item.SellPrice) * float64(offer.Amount)
			assert.GreaterOrEqual(t, float64(offer.Price), math.Floor(value*0.8))
			assert.LessOrEqual(t, float64(offer.Price), math.Ceil(value*1.2))
		}
	}
	assert.Equal(t, e.now(), e.TradeBoard().RefreshedAt())
}

func TestRefreshBarterInvariants(t *testing.T) {
	e, _ := newTestEngine(&lockedRNG{rnd: rand.New(rand.NewSource(11))})

	for range [10]int{} {
		e.RefreshBarter()
		offers := e.BarterBoard().Offers()
		require.Len(t, offers, 5)

		for _, offer := range offers {
			item, ok := e.Catalog().Get(offer.ItemID)
			require.True(t, ok)
			// Gold is the currency, never the good.
			assert.NotEqual(t, catalog.ItemGold, offer.ItemID)
			assert.GreaterOrEqual(t, offer.Price, int64(1))
			if item.IsTool() {
				assert.Equal(t, 1, offer.Amount)
			} else {
				assert.LessOrEqual(t, offer.Amount, 64)
			}
		}
	}
}
