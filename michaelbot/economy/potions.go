package economy

import (
	"context"

	"github.com/MikeJollie2707/michaelbot/michaelbot/catalog"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/repositories"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/disgoorg/snowflake/v2"
)

const (
	// A potion stacks at most 10 deep, and at most 3 distinct potions
	// can be active at once.
	maxPotionStack   = 10
	maxActivePotions = 3
)

type PotionResult struct {
	ItemID string
	Amount int
	Stack  int // resulting stack count, 0 for the bland potion
	// Cleared is set when a bland potion wiped every active effect.
	Cleared bool
}

// UsePotion drinks amount units of the potion, adding their uses to
// the active effect. The bland potion instead clears all active
// potions.
func (e *Engine) UsePotion(ctx context.Context, userID snowflake.ID, itemID string, amount int) (*PotionResult, error) {
	if amount < 1 {
		return nil, errs.New(errs.Validation, "amount must be at least 1")
	}
	item, err := e.item(itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsPotion() {
		return nil, errs.New(errs.Validation, "%s is not a potion", item.Name)
	}

	res := &PotionResult{ItemID: itemID, Amount: amount}
	err = e.store.RunInTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		slot, err := tx.Inventory().GetOne(ctx, userID, itemID)
		if err != nil {
			return err
		}
		have := 0
		if slot != nil {
			have = slot.Amount
		}
		if have < amount {
			return errs.New(errs.Precondition, "you only have %d %s", have, item.Name)
		}

		if itemID == catalog.ItemBlandPotion {
			if _, err := tx.Inventory().Remove(ctx, userID, itemID, 1); err != nil {
				return err
			}
			if _, err := tx.Potions().DeleteAll(ctx, userID); err != nil {
				return err
			}
			res.Amount = 1
			res.Cleared = true
			return nil
		}

		active, err := tx.Potions().GetOne(ctx, userID, itemID)
		if err != nil {
			return err
		}
		if active != nil {
			if active.Stack(*item.Durability) >= maxPotionStack {
				return errs.New(errs.Precondition, "%s is already stacked %d deep", item.Name, maxPotionStack)
			}
		} else {
			all, err := tx.Potions().GetAll(ctx, userID)
			if err != nil {
				return err
			}
			if len(all) >= maxActivePotions {
				return errs.New(errs.Precondition, "at most %d potions can be active at once", maxActivePotions)
			}
		}

		if _, err := tx.Inventory().Remove(ctx, userID, itemID, amount); err != nil {
			return err
		}
		if _, err := tx.Potions().AddUses(ctx, userID, itemID, amount**item.Durability); err != nil {
			return err
		}

		after, err := tx.Potions().GetOne(ctx, userID, itemID)
		if err != nil {
			return err
		}
		if after != nil {
			res.Stack = after.Stack(*item.Durability)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ActivePotions lists the user's active effects.
func (e *Engine) ActivePotions(ctx context.Context, userID snowflake.ID) ([]*models.ActivePotion, error) {
	return e.store.Potions().GetAll(ctx, userID)
}
