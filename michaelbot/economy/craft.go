package economy

import (
	"context"

	"github.com/MikeJollie2707/michaelbot/michaelbot/catalog"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/repositories"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/disgoorg/snowflake/v2"
)

type CraftResult struct {
	ItemID   string
	Produced int
	// Missing enumerates the shortfall per ingredient when the craft
	// was rejected for lack of materials.
	Missing    map[string]int
	MoneySpent int64
	// PortalActivated is set when the output went straight to the
	// active portal slot instead of the inventory.
	PortalActivated bool
}

// Craft produces amount units of itemID from its crafting recipe.
// Portal outputs activate immediately instead of entering the
// inventory.
func (e *Engine) Craft(ctx context.Context, userID snowflake.ID, itemID string, amount int) (*CraftResult, error) {
	item, err := e.item(itemID)
	if err != nil {
		return nil, err
	}
	recipe := e.catalog.CraftRecipe(itemID)
	if recipe == nil {
		return nil, errs.New(errs.Validation, "%s cannot be crafted", item.Name)
	}
	return e.applyRecipe(ctx, userID, item, recipe, amount)
}

// Brew is crafting for potions: same recipe mechanics plus a money
// cost per batch.
func (e *Engine) Brew(ctx context.Context, userID snowflake.ID, itemID string, amount int) (*CraftResult, error) {
	item, err := e.item(itemID)
	if err != nil {
		return nil, err
	}
	recipe := e.catalog.BrewRecipe(itemID)
	if recipe == nil {
		return nil, errs.New(errs.Validation, "%s cannot be brewed", item.Name)
	}
	return e.applyRecipe(ctx, userID, item, recipe, amount)
}

func (e *Engine) applyRecipe(ctx context.Context, userID snowflake.ID, item *catalog.Item, recipe *catalog.Recipe, amount int) (*CraftResult, error) {
	if amount < 1 {
		return nil, errs.New(errs.Validation, "amount must be at least 1")
	}
	times := amount / recipe.Yield
	if times == 0 {
		return nil, errs.New(errs.Validation, "%s is made %d at a time", item.Name, recipe.Yield)
	}
	if item.IsPortal() && times != 1 {
		return nil, errs.New(errs.Validation, "portals are built one at a time")
	}

	res := &CraftResult{ItemID: item.ID}
	err := e.store.RunInTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		if item.IsPortal() {
			active, err := tx.Portals().GetOne(ctx, userID, item.ID)
			if err != nil {
				return err
			}
			if active != nil {
				return errs.New(errs.Validation, "you already have an active %s", item.Name)
			}
		}

		cost := recipe.MoneyCost * int64(times)
		if cost > 0 {
			user, err := tx.Users().Get(ctx, userID)
			if err != nil {
				return err
			}
			if user.Balance < cost {
				return errs.New(errs.Precondition, "brewing costs $%d but you only have $%d", cost, user.Balance)
			}
		}

		slots, err := tx.Inventory().GetAll(ctx, userID)
		if err != nil {
			return err
		}
		have := make(map[string]int, len(slots))
		for _, slot := range slots {
			have[slot.ItemID] = slot.Amount
		}
		missing := map[string]int{}
		for ingID, per := range recipe.Ingredients {
			need := per * times
			if have[ingID] < need {
				missing[ingID] = need - have[ingID]
			}
		}
		if len(missing) > 0 {
			res.Missing = missing
			return errs.New(errs.Precondition, "missing ingredients for %s", item.Name)
		}

		for ingID, per := range recipe.Ingredients {
			if _, err := tx.Inventory().Remove(ctx, userID, ingID, per*times); err != nil {
				return err
			}
		}
		if cost > 0 {
			if _, err := tx.Users().AddBalance(ctx, userID, -cost); err != nil {
				return err
			}
			res.MoneySpent = cost
		}

		res.Produced = times * recipe.Yield
		if item.IsPortal() {
			_, err := tx.Portals().Insert(ctx, &models.ActivePortal{
				UserID:     userID,
				ItemID:     item.ID,
				RemainUses: *item.Durability,
			})
			if err != nil {
				return err
			}
			res.PortalActivated = true
			return nil
		}
		_, err = tx.Inventory().Add(ctx, userID, item.ID, res.Produced)
		return err
	})
	if err != nil {
		// The missing map rides along so callers can render the list.
		if res.Missing != nil {
			return res, err
		}
		return nil, err
	}
	if res.MoneySpent > 0 {
		e.syncUser(ctx, userID)
	}
	return res, nil
}
