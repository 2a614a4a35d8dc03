package economy

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/MikeJollie2707/michaelbot/michaelbot/catalog"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/repositories"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/disgoorg/snowflake/v2"
)

const (
	// RefreshPeriod is how often the trade and barter boards rotate.
	RefreshPeriod = 4 * time.Hour

	tradeOfferCount  = 4
	barterOfferCount = 5
	minTradeValue    = 200
	maxTradeValue    = 1000
	maxTradeTimes    = 50
	buyProbability   = 0.75
	priceNoise       = 0.20
)

// Offer is one rotating trade or barter entry. Price is money for
// trades and gold for barters. IsBuy means the user pays the price and
// receives the item; otherwise the user hands over the item for the
// price.
type Offer struct {
	ItemID string
	Amount int
	Price  int64
	IsBuy  bool
}

// OfferBoard holds the current rotation. The refresh task swaps the
// whole slice at once.
type OfferBoard struct {
	mu          sync.RWMutex
	offers      []Offer
	refreshedAt time.Time
}

func (b *OfferBoard) Offers() []Offer {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Offer, len(b.offers))
	copy(out, b.offers)
	return out
}

func (b *OfferBoard) RefreshedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.refreshedAt
}

func (b *OfferBoard) get(index int) (Offer, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if index < 0 || index >= len(b.offers) {
		return Offer{}, false
	}
	return b.offers[index], true
}

func (b *OfferBoard) replace(offers []Offer, at time.Time) {
	b.mu.Lock()
	b.offers = offers
	b.refreshedAt = at
	b.mu.Unlock()
}

func (e *Engine) TradeBoard() *OfferBoard  { return e.trade }
func (e *Engine) BarterBoard() *OfferBoard { return e.barter }

// RefreshTrade rotates the four trade offers. The first offer is
// always cheap (list value ≤ minTradeValue); the rest cap the
// pre-noise value at maxTradeValue by halving the amount range.
func (e *Engine) RefreshTrade() {
	pool := e.catalog.Tradable()
	if len(pool) == 0 {
		return
	}
	var cheap []*catalog.Item
	for _, item := range pool {
		if *item.SellPrice <= minTradeValue {
			cheap = append(cheap, item)
		}
	}

	offers := make([]Offer, 0, tradeOfferCount)
	if len(cheap) > 0 {
		item := cheap[e.rng.Intn(len(cheap))]
		maxAmount := int(minTradeValue / *item.SellPrice)
		if maxAmount < 1 {
			maxAmount = 1
		}
		offers = append(offers, e.priceOffer(item, 1+e.rng.Intn(maxAmount)))
	}
	for len(offers) < tradeOfferCount {
		item := pool[e.rng.Intn(len(pool))]
		amount := e.tradeAmount(item)
		offers = append(offers, e.priceOffer(item, amount))
	}
	e.trade.replace(offers, e.now())
}

func (e *Engine) tradeAmount(item *catalog.Item) int {
	if item.IsTool() {
		return 1 + e.rng.Intn(3)
	}
	limit := 64
	amount := 1 + e.rng.Intn(limit)
	for *item.SellPrice*int64(amount) > maxTradeValue && limit > 1 {
		limit /= 2
		amount = 1 + e.rng.Intn(limit)
	}
	return amount
}

func (e *Engine) priceOffer(item *catalog.Item, amount int) Offer {
	noise := 1 + (e.rng.Float64()*2-1)*priceNoise
	price := int64(math.Ceil(float64(*item.SellPrice) * float64(amount) * noise))
	return Offer{
		ItemID: item.ID,
		Amount: amount,
		Price:  price,
		IsBuy:  e.rng.Float64() < buyProbability,
	}
}

// RefreshBarter rotates the five barter offers, priced in gold.
func (e *Engine) RefreshBarter() {
	pool := e.catalog.Barterable()
	if len(pool) == 0 {
		return
	}
	gold, _ := e.catalog.Get(catalog.ItemGold)
	goldSell := *gold.SellPrice

	offers := make([]Offer, 0, barterOfferCount)
	for len(offers) < barterOfferCount {
		item := pool[e.rng.Intn(len(pool))]
		amount := 1
		if !item.IsTool() {
			amount = 1 + e.rng.Intn(64)
		}
		cost := (*item.SellPrice*int64(amount) + 1 + goldSell - 6) / (goldSell - 5)
		offers = append(offers, Offer{
			ItemID: item.ID,
			Amount: amount,
			Price:  cost,
			IsBuy:  e.rng.Float64() < buyProbability,
		})
	}
	e.barter.replace(offers, e.now())
}

type TradeResult struct {
	Offer Offer
	Times int
	// Items and Price are the executed totals (Offer values × Times).
	Items int
	Price int64
}

// ExecuteTrade runs the index-th trade offer times times. Trading is
// only open in the Overworld.
func (e *Engine) ExecuteTrade(ctx context.Context, userID snowflake.ID, index, times int) (*TradeResult, error) {
	offer, ok := e.trade.get(index)
	if !ok {
		return nil, errs.New(errs.Validation, "no trade offer #%d", index+1)
	}
	return e.executeOffer(ctx, userID, offer, times, models.Overworld)
}

// ExecuteBarter runs the index-th barter offer times times. Bartering
// is only open in the Nether.
func (e *Engine) ExecuteBarter(ctx context.Context, userID snowflake.ID, index, times int) (*TradeResult, error) {
	offer, ok := e.barter.get(index)
	if !ok {
		return nil, errs.New(errs.Validation, "no barter offer #%d", index+1)
	}
	return e.executeOffer(ctx, userID, offer, times, models.Nether)
}

func (e *Engine) executeOffer(ctx context.Context, userID snowflake.ID, offer Offer, times int, world models.World) (*TradeResult, error) {
	if times < 1 || times > maxTradeTimes {
		return nil, errs.New(errs.Validation, "times must be between 1 and %d", maxTradeTimes)
	}
	res := &TradeResult{
		Offer: offer,
		Times: times,
		Items: offer.Amount * times,
		Price: offer.Price * int64(times),
	}
	inGold := world == models.Nether

	err := e.store.RunInTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		user, err := tx.Users().Get(ctx, userID)
		if err != nil {
			return err
		}
		if user.World != world {
			return errs.New(errs.Precondition, "this exchange is only available in the %s", world)
		}

		if offer.IsBuy {
			if err := e.payCurrency(ctx, tx, user, res.Price, inGold); err != nil {
				return err
			}
			_, err = tx.Inventory().Add(ctx, userID, offer.ItemID, res.Items)
			return err
		}

		slot, err := tx.Inventory().GetOne(ctx, userID, offer.ItemID)
		if err != nil {
			return err
		}
		if slot == nil || slot.Amount < res.Items {
			return errs.New(errs.Precondition, "you need %d of that item", res.Items)
		}
		if _, err := tx.Inventory().Remove(ctx, userID, offer.ItemID, res.Items); err != nil {
			return err
		}
		if inGold {
			_, err = tx.Inventory().Add(ctx, userID, catalog.ItemGold, int(res.Price))
			return err
		}
		_, err = tx.Users().AddBalance(ctx, userID, res.Price)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.syncUser(ctx, userID)
	return res, nil
}

func (e *Engine) payCurrency(ctx context.Context, tx repositories.Store, user *models.User, price int64, inGold bool) error {
	if inGold {
		slot, err := tx.Inventory().GetOne(ctx, user.ID, catalog.ItemGold)
		if err != nil {
			return err
		}
		have := int64(0)
		if slot != nil {
			have = int64(slot.Amount)
		}
		if have < price {
			return errs.New(errs.Precondition, "that costs %d gold but you only have %d", price, have)
		}
		_, err = tx.Inventory().Remove(ctx, user.ID, catalog.ItemGold, int(price))
		return err
	}
	if user.Balance < price {
		return errs.New(errs.Precondition, "that costs $%d but you only have $%d", price, user.Balance)
	}
	_, err := tx.Users().AddBalance(ctx, user.ID, -price)
	return err
}
