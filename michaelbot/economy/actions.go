package economy

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/MikeJollie2707/michaelbot/michaelbot/catalog"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/repositories"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/disgoorg/snowflake/v2"
)

// Action is one of the three loot commands. Each maps to the tool kind
// it requires.
type Action string

const (
	ActionAdventure Action = "adventure"
	ActionChop      Action = "chop"
	ActionMine      Action = "mine"
)

func (a Action) ToolKind() models.ToolKind {
	switch a {
	case ActionAdventure:
		return models.ToolSword
	case ActionChop:
		return models.ToolAxe
	default:
		return models.ToolPickaxe
	}
}

// Death chance per world, rolled once per action.
func deathChance(w models.World) float64 {
	if w == models.Nether {
		return 0.025
	}
	return 0.0125
}

// Activation chances of the potions that can fire during an action.
const (
	luckChance    = 0.5
	hasteChance   = 0.75
	lootingChance = 0.75
	fireChance    = 0.25
)

// ActionResult carries the outcome plus every side notification the
// caller should surface.
type ActionResult struct {
	Action  Action
	World   models.World
	Rewards map[string]int

	// Retry is set when every loot roll missed: nothing was consumed
	// and the caller should not start a cooldown.
	Retry bool

	ToolBroken     string   // id of the equipped tool, when wear destroyed it
	ExpiredPotions []string // potions whose last use was just consumed

	Died           bool
	FireSaved      bool // a fire potion ate the Nether death
	DestroyedTools []string
	SurvivedTools  []string
	BalanceLost    int64
	SentHome       bool // died in Space: forced back to the Overworld
	PotionsCleared bool
}

// Do resolves one adventure/chop/mine attempt for the user. The whole
// outcome (death, wear, drops) commits in a single transaction.
func (e *Engine) Do(ctx context.Context, userID snowflake.ID, action Action) (*ActionResult, error) {
	res := &ActionResult{Action: action, Rewards: map[string]int{}}

	err := e.store.RunInTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		user, err := tx.Users().Get(ctx, userID)
		if err != nil {
			return err
		}
		res.World = user.World

		tool, err := tx.Equipment().GetByKind(ctx, userID, action.ToolKind())
		if err != nil {
			return err
		}
		if tool == nil {
			return errs.New(errs.Precondition, "you need a %s equipped to %s", action.ToolKind(), action)
		}

		table := e.catalog.Loot(tool.ItemID, user.World)
		if table == nil {
			return errs.New(errs.Precondition, "your tool cannot be used in the %s", user.World)
		}

		if e.rng.Float64() < deathChance(user.World) {
			return e.resolveDeath(ctx, tx, user, res)
		}

		rolls := table.Rolls
		bonus := 0

		if fired, err := e.firePotion(ctx, tx, userID, catalog.ItemLuckPotion, luckChance, res); err != nil {
			return err
		} else if fired != nil {
			rolls *= 1 + fired.stack
		}
		switch action {
		case ActionMine:
			if fired, err := e.firePotion(ctx, tx, userID, catalog.ItemHastePotion, hasteChance, res); err != nil {
				return err
			} else if fired != nil {
				bonus += fired.stack
			}
		case ActionAdventure:
			if fired, err := e.firePotion(ctx, tx, userID, catalog.ItemLootingPotion, lootingChance, res); err != nil {
				return err
			} else if fired != nil {
				bonus += fired.stack
			}
		}

		badges, err := tx.Badges().GetUserBadges(ctx, userID)
		if err != nil {
			return err
		}

		for _, itemID := range sortedDrops(table.Drops) {
			p := table.Drops[itemID]
			got := 0
			for i := 0; i < rolls; i++ {
				if e.rng.Float64() < p {
					got += 1 + bonus
				}
			}
			if got == 0 {
				continue
			}
			if itemID == catalog.ItemDiamond && hasBadge(badges, catalog.BadgeOhShiny) {
				got *= 2
			}
			if itemID == catalog.ItemAncientDebris && hasBadge(badges, catalog.BadgeHeavyMetals) {
				got *= 2
			}
			res.Rewards[itemID] = got
		}

		if len(res.Rewards) == 0 {
			// Nothing dropped: no wear, no cooldown.
			res.Retry = true
			return nil
		}

		if err := e.wearTool(ctx, tx, tool, res); err != nil {
			return err
		}
		for itemID, amount := range res.Rewards {
			if _, err := tx.Inventory().Add(ctx, userID, itemID, amount); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.Died {
		e.syncUser(ctx, userID)
	}
	return res, nil
}

type potionFire struct {
	stack int
}

// firePotion rolls the activation chance and, when the potion is both
// active and triggered, consumes one use. The returned stack is the
// pre-consumption stack count.
func (e *Engine) firePotion(ctx context.Context, tx repositories.Store, userID snowflake.ID, potionID string, chance float64, res *ActionResult) (*potionFire, error) {
	if e.rng.Float64() >= chance {
		return nil, nil
	}
	potion, err := tx.Potions().GetOne(ctx, userID, potionID)
	if err != nil {
		return nil, err
	}
	if potion == nil {
		return nil, nil
	}
	item, err := e.item(potionID)
	if err != nil {
		return nil, err
	}
	stack := potion.Stack(*item.Durability)
	expired, err := tx.Potions().ConsumeUses(ctx, userID, potionID, 1)
	if err != nil {
		return nil, err
	}
	if expired {
		res.ExpiredPotions = append(res.ExpiredPotions, potionID)
	}
	return &potionFire{stack: stack}, nil
}

// wearTool applies durability loss: uniform in [1, min(ceil(0.05×base), 100)].
// A tool that reaches zero is destroyed.
func (e *Engine) wearTool(ctx context.Context, tx repositories.Store, tool *models.ActiveTool, res *ActionResult) error {
	item, err := e.item(tool.ItemID)
	if err != nil {
		return err
	}
	max := int(math.Ceil(0.05 * float64(*item.Durability)))
	if max > 100 {
		max = 100
	}
	if max < 1 {
		max = 1
	}
	loss := 1 + e.rng.Intn(max)

	remain := tool.RemainDurability - loss
	if remain <= 0 {
		if _, err := tx.Equipment().Delete(ctx, tool.UserID, tool.ItemID); err != nil {
			return err
		}
		res.ToolBroken = tool.ItemID
		return nil
	}
	_, err = tx.Equipment().SetDurability(ctx, tool.UserID, tool.ItemID, remain)
	return err
}

// resolveDeath applies the full death consequence inside the action's
// transaction: tool destruction (Nether-grade tools survive 25% of the
// time), a 10% balance cut, and the Space eviction.
func (e *Engine) resolveDeath(ctx context.Context, tx repositories.Store, user *models.User, res *ActionResult) error {
	if user.World == models.Nether {
		if e.rng.Float64() < fireChance {
			potion, err := tx.Potions().GetOne(ctx, user.ID, catalog.ItemFirePotion)
			if err != nil {
				return err
			}
			if potion != nil {
				expired, err := tx.Potions().ConsumeUses(ctx, user.ID, catalog.ItemFirePotion, 1)
				if err != nil {
					return err
				}
				if expired {
					res.ExpiredPotions = append(res.ExpiredPotions, catalog.ItemFirePotion)
				}
				res.FireSaved = true
				res.Retry = true
				return nil
			}
		}
	}

	res.Died = true

	tools, err := tx.Equipment().GetAll(ctx, user.ID)
	if err != nil {
		return err
	}
	for _, tool := range tools {
		item, err := e.item(tool.ItemID)
		if err != nil {
			return err
		}
		if item.IsNetherGrade() && e.rng.Float64() < 0.25 {
			res.SurvivedTools = append(res.SurvivedTools, tool.ItemID)
			continue
		}
		if _, err := tx.Equipment().Delete(ctx, user.ID, tool.ItemID); err != nil {
			return err
		}
		res.DestroyedTools = append(res.DestroyedTools, tool.ItemID)
	}

	kept := user.Balance * 9 / 10
	res.BalanceLost = user.Balance - kept
	if res.BalanceLost > 0 {
		if _, err := tx.Users().SetBalance(ctx, user.ID, kept); err != nil {
			return err
		}
	}

	if user.World == models.Space {
		if _, err := tx.Potions().DeleteAll(ctx, user.ID); err != nil {
			return err
		}
		res.PotionsCleared = true
		// The eviction does not count toward the travel cooldown.
		if _, err := tx.Users().SetWorld(ctx, user.ID, models.Overworld, nil); err != nil {
			return err
		}
		res.SentHome = true
	}
	return nil
}

// sortedDrops fixes the roll order so a scripted RNG sees a stable
// sequence.
func sortedDrops(drops map[string]float64) []string {
	ids := make([]string, 0, len(drops))
	for id := range drops {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RemainingCooldown reports how long until t+cd, or zero when elapsed.
func RemainingCooldown(last *time.Time, cd time.Duration, now time.Time) time.Duration {
	if last == nil {
		return 0
	}
	if rem := last.Add(cd).Sub(now); rem > 0 {
		return rem
	}
	return 0
}
