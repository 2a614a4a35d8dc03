package economy

import (
	"context"
	"math"

	"github.com/MikeJollie2707/michaelbot/michaelbot/database/repositories"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/disgoorg/snowflake/v2"
)

// Holders of an item's age badge sell that item 5% above list.
const ageBadgeBonus = 1.05

type MarketResult struct {
	ItemID string
	Amount int
	Money  int64 // spent on buy, earned on sell
	Bonus  bool  // age badge applied
}

// Buy purchases amount units at the listed buy price.
func (e *Engine) Buy(ctx context.Context, userID snowflake.ID, itemID string, amount int) (*MarketResult, error) {
	if amount < 1 {
		return nil, errs.New(errs.Validation, "amount must be at least 1")
	}
	item, err := e.item(itemID)
	if err != nil {
		return nil, err
	}
	if item.BuyPrice == nil {
		return nil, errs.New(errs.Validation, "%s is not for sale", item.Name)
	}
	cost := *item.BuyPrice * int64(amount)

	res := &MarketResult{ItemID: itemID, Amount: amount, Money: cost}
	err = e.store.RunInTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		user, err := tx.Users().Get(ctx, userID)
		if err != nil {
			return err
		}
		if user.Balance < cost {
			return errs.New(errs.Precondition, "that costs $%d but you only have $%d", cost, user.Balance)
		}
		if _, err := tx.Users().AddBalance(ctx, userID, -cost); err != nil {
			return err
		}
		_, err = tx.Inventory().Add(ctx, userID, itemID, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.syncUser(ctx, userID)
	return res, nil
}

// Sell sells amount units at the listed sell price, with the 5% age
// badge markup when the user holds the matching badge.
func (e *Engine) Sell(ctx context.Context, userID snowflake.ID, itemID string, amount int) (*MarketResult, error) {
	if amount < 1 {
		return nil, errs.New(errs.Validation, "amount must be at least 1")
	}
	item, err := e.item(itemID)
	if err != nil {
		return nil, err
	}
	if item.SellPrice == nil {
		return nil, errs.New(errs.Validation, "%s cannot be sold", item.Name)
	}

	res := &MarketResult{ItemID: itemID, Amount: amount}
	err = e.store.RunInTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		slot, err := tx.Inventory().GetOne(ctx, userID, itemID)
		if err != nil {
			return err
		}
		if slot == nil || slot.Amount < amount {
			have := 0
			if slot != nil {
				have = slot.Amount
			}
			return errs.New(errs.Precondition, "you only have %d %s", have, item.Name)
		}

		gain := *item.SellPrice * int64(amount)
		if badgeID := e.catalog.AgeBadgeFor(itemID); badgeID != "" {
			badges, err := tx.Badges().GetUserBadges(ctx, userID)
			if err != nil {
				return err
			}
			if hasBadge(badges, badgeID) {
				gain = int64(math.Floor(float64(gain) * ageBadgeBonus))
				res.Bonus = true
			}
		}
		res.Money = gain

		if _, err := tx.Inventory().Remove(ctx, userID, itemID, amount); err != nil {
			return err
		}
		_, err = tx.Users().AddBalance(ctx, userID, gain)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.syncUser(ctx, userID)
	return res, nil
}
