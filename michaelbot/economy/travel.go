package economy

import (
	"context"
	"time"

	"github.com/MikeJollie2707/michaelbot/michaelbot/catalog"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/repositories"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/disgoorg/snowflake/v2"
)

// TravelCooldown is the minimum gap between two world moves.
const TravelCooldown = 24 * time.Hour

type TravelResult struct {
	From models.World
	To   models.World

	PortalExpired  bool     // the crossing consumed the portal's last use
	DestroyedTools []string // fragile tools shattered on entering the Nether
}

// portalFor returns the portal id a crossing requires. Nether and Space
// have no direct route between them.
func portalFor(from, to models.World) (string, bool) {
	switch {
	case from == models.Overworld && to == models.Nether,
		from == models.Nether && to == models.Overworld:
		return catalog.PortalNether, true
	case from == models.Overworld && to == models.Space,
		from == models.Space && to == models.Overworld:
		return catalog.PortalEnd, true
	}
	return "", false
}

// Travel moves the user to dst through the matching active portal.
func (e *Engine) Travel(ctx context.Context, userID snowflake.ID, dst models.World) (*TravelResult, error) {
	res := &TravelResult{To: dst}

	err := e.store.RunInTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		user, err := tx.Users().Get(ctx, userID)
		if err != nil {
			return err
		}
		res.From = user.World

		if user.World == dst {
			return errs.New(errs.Validation, "you are already in the %s", dst)
		}
		portalID, ok := portalFor(user.World, dst)
		if !ok {
			return errs.New(errs.Precondition, "there is no route from the %s to the %s; travel through the Overworld", user.World, dst)
		}

		now := e.now()
		if rem := RemainingCooldown(user.LastWorldMove, TravelCooldown, now); rem > 0 {
			return errs.New(errs.Precondition, "you can travel again in %s", rem.Round(time.Second))
		}

		portal, err := tx.Portals().GetOne(ctx, userID, portalID)
		if err != nil {
			return err
		}
		if portal == nil {
			item, _ := e.item(portalID)
			return errs.New(errs.Precondition, "you need an active %s", item.Name)
		}

		if portalID == catalog.PortalEnd {
			if err := e.checkSpaceSupplies(ctx, tx, userID); err != nil {
				return err
			}
		}

		if _, err := tx.Users().SetWorld(ctx, userID, dst, &now); err != nil {
			return err
		}
		expired, err := tx.Portals().ConsumeUse(ctx, userID, portalID)
		if err != nil {
			return err
		}
		res.PortalExpired = expired

		if portalID == catalog.PortalEnd {
			if _, err := tx.Inventory().Remove(ctx, userID, catalog.ItemMysteriousEye, 1); err != nil {
				return err
			}
		}

		if dst == models.Nether {
			tools, err := tx.Equipment().GetAll(ctx, userID)
			if err != nil {
				return err
			}
			for _, tool := range tools {
				item, err := e.item(tool.ItemID)
				if err != nil {
					return err
				}
				if !item.IsFragile() {
					continue
				}
				if _, err := tx.Equipment().Delete(ctx, userID, tool.ItemID); err != nil {
					return err
				}
				res.DestroyedTools = append(res.DestroyedTools, tool.ItemID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.syncUser(ctx, userID)
	return res, nil
}

// checkSpaceSupplies enforces the end-portal crossing requirement: one
// mysterious eye to spend, plus either a spare eye or a blaze to keep.
func (e *Engine) checkSpaceSupplies(ctx context.Context, tx repositories.Store, userID snowflake.ID) error {
	eye, err := tx.Inventory().GetOne(ctx, userID, catalog.ItemMysteriousEye)
	if err != nil {
		return err
	}
	eyes := 0
	if eye != nil {
		eyes = eye.Amount
	}
	if eyes < 1 {
		return errs.New(errs.Precondition, "crossing requires a mysterious eye")
	}
	if eyes >= 2 {
		return nil
	}
	blaze, err := tx.Inventory().GetOne(ctx, userID, catalog.ItemBlaze)
	if err != nil {
		return err
	}
	if blaze == nil || blaze.Amount < 1 {
		return errs.New(errs.Precondition, "crossing requires a second mysterious eye or a blaze")
	}
	return nil
}
