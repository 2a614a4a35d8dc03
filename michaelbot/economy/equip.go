package economy

import (
	"context"

	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/repositories"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/disgoorg/snowflake/v2"
)

type EquipResult struct {
	Equipped string
	// Replaced is the previously equipped tool of the same kind, if any.
	// It returns to the inventory only at full durability; otherwise it
	// is destroyed.
	Replaced  string
	Returned  bool
	Destroyed bool
}

// Equip moves one tool from the inventory into its active slot at full
// durability, displacing the current occupant.
func (e *Engine) Equip(ctx context.Context, userID snowflake.ID, itemID string) (*EquipResult, error) {
	item, err := e.item(itemID)
	if err != nil {
		return nil, err
	}
	kind, ok := item.ToolKind()
	if !ok {
		return nil, errs.New(errs.Validation, "%s is not a tool", item.Name)
	}

	res := &EquipResult{Equipped: itemID}
	err = e.store.RunInTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		user, err := tx.Users().Get(ctx, userID)
		if err != nil {
			return err
		}
		if item.IsFragile() && user.World == models.Nether {
			return errs.New(errs.Precondition, "%s would shatter in the Nether", item.Name)
		}

		slot, err := tx.Inventory().GetOne(ctx, userID, itemID)
		if err != nil {
			return err
		}
		if slot == nil || slot.Amount < 1 {
			return errs.New(errs.Precondition, "you do not have a %s", item.Name)
		}

		current, err := tx.Equipment().GetByKind(ctx, userID, kind)
		if err != nil {
			return err
		}
		if current != nil {
			res.Replaced = current.ItemID
			currentItem, err := e.item(current.ItemID)
			if err != nil {
				return err
			}
			if _, err := tx.Equipment().Delete(ctx, userID, current.ItemID); err != nil {
				return err
			}
			if current.RemainDurability == *currentItem.Durability {
				if _, err := tx.Inventory().Add(ctx, userID, current.ItemID, 1); err != nil {
					return err
				}
				res.Returned = true
			} else {
				res.Destroyed = true
			}
		}

		if _, err := tx.Inventory().Remove(ctx, userID, itemID, 1); err != nil {
			return err
		}
		_, err = tx.Equipment().Insert(ctx, &models.ActiveTool{
			UserID:           userID,
			ItemID:           itemID,
			EqType:           kind,
			RemainDurability: *item.Durability,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Equipments lists the user's active tools with remaining durability.
func (e *Engine) Equipments(ctx context.Context, userID snowflake.ID) ([]*models.ActiveTool, error) {
	return e.store.Equipment().GetAll(ctx, userID)
}
