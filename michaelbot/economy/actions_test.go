package economy

import (
	"context"
	"testing"

	"github.com/MikeJollie2707/michaelbot/michaelbot/catalog"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoRequiresTool(t *testing.T) {
	e, _ := newTestEngine(&scriptRNG{})

	_, err := e.Do(context.Background(), testUser, ActionMine)
	require.Error(t, err)
	assert.Equal(t, errs.Precondition, errs.KindOf(err))
}

func TestDoToolUselessInWorld(t *testing.T) {
	e, store := newTestEngine(&scriptRNG{})
	store.users[testUser].World = models.Nether
	giveTool(store, "wood_pickaxe", models.ToolPickaxe, 59)

	_, err := e.Do(context.Background(), testUser, ActionMine)
	require.Error(t, err)
	assert.Equal(t, errs.Precondition, errs.KindOf(err))
}

func TestDoMineDropsAndWear(t *testing.T) {
	// wood_pickaxe in the Overworld: 2 rolls over {coal 0.40, stone 0.90},
	// rolled in id order. Survive, no potions, miss coal, hit stone twice.
	rng := &scriptRNG{
		floats: []float64{
			0.90,       // death
			0.90,       // luck activation
			0.90,       // haste activation
			0.90, 0.90, // coal
			0.10, 0.10, // stone
		},
		ints: []int{1}, // wear loss 2 of max ceil(0.05*59)=3
	}
	e, store := newTestEngine(rng)
	giveTool(store, "wood_pickaxe", models.ToolPickaxe, 59)

	res, err := e.Do(context.Background(), testUser, ActionMine)
	require.NoError(t, err)

	assert.False(t, res.Retry)
	assert.False(t, res.Died)
	assert.Equal(t, map[string]int{catalog.ItemStone: 2}, res.Rewards)
	assert.Equal(t, 2, store.inventory[testUser][catalog.ItemStone])
	assert.Equal(t, 57, store.equipment[testUser]["wood_pickaxe"].RemainDurability)
}

func TestDoRetryWhenNothingDrops(t *testing.T) {
	rng := &scriptRNG{
		floats: []float64{
			0.90,       // death
			0.90, 0.90, // potions
			0.90, 0.90, // coal
			0.95, 0.95, // stone
		},
	}
	e, store := newTestEngine(rng)
	giveTool(store, "wood_pickaxe", models.ToolPickaxe, 59)

	res, err := e.Do(context.Background(), testUser, ActionMine)
	require.NoError(t, err)

	assert.True(t, res.Retry)
	assert.Empty(t, res.Rewards)
	// No wear on a whiff.
	assert.Equal(t, 59, store.equipment[testUser]["wood_pickaxe"].RemainDurability)
	assert.Empty(t, store.inventory[testUser])
}

func TestDoHastePotionBonus(t *testing.T) {
	rng := &scriptRNG{
		floats: []float64{
			0.90,       // death
			0.90,       // luck
			0.10,       // haste fires
			0.90, 0.90, // coal
			0.10, 0.90, // stone: one hit
		},
		ints: []int{0},
	}
	e, store := newTestEngine(rng)
	giveTool(store, "wood_pickaxe", models.ToolPickaxe, 59)
	store.potions[testUser] = map[string]int{catalog.ItemHastePotion: 10}

	res, err := e.Do(context.Background(), testUser, ActionMine)
	require.NoError(t, err)

	// One hit pays 1 + stack.
	assert.Equal(t, 2, res.Rewards[catalog.ItemStone])
	assert.Equal(t, 9, store.potions[testUser][catalog.ItemHastePotion])
	assert.Empty(t, res.ExpiredPotions)
}

func TestDoLuckPotionExtraRolls(t *testing.T) {
	rng := &scriptRNG{
		floats: []float64{
			0.90,                   // death
			0.10,                   // luck fires: rolls 2 -> 4
			0.90,                   // haste
			0.90, 0.90, 0.90, 0.90, // coal, 4 rolls
			0.10, 0.10, 0.10, 0.90, // stone: 3 hits
		},
		ints: []int{0},
	}
	e, store := newTestEngine(rng)
	giveTool(store, "wood_pickaxe", models.ToolPickaxe, 59)
	store.potions[testUser] = map[string]int{catalog.ItemLuckPotion: 10}

	res, err := e.Do(context.Background(), testUser, ActionMine)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Rewards[catalog.ItemStone])
	assert.Equal(t, 9, store.potions[testUser][catalog.ItemLuckPotion])
}

func TestDoPotionExpiresOnLastUse(t *testing.T) {
	rng := &scriptRNG{
		floats: []float64{
			0.90,       // death
			0.90,       // luck
			0.10,       // haste fires, last use
			0.90, 0.90, // coal
			0.10, 0.90, // stone
		},
		ints: []int{0},
	}
	e, store := newTestEngine(rng)
	giveTool(store, "wood_pickaxe", models.ToolPickaxe, 59)
	store.potions[testUser] = map[string]int{catalog.ItemHastePotion: 1}

	res, err := e.Do(context.Background(), testUser, ActionMine)
	require.NoError(t, err)

	assert.Equal(t, []string{catalog.ItemHastePotion}, res.ExpiredPotions)
	assert.Empty(t, store.potions[testUser])
}

func TestDoToolBreaks(t *testing.T) {
	rng := &scriptRNG{
		floats: []float64{
			0.90, 0.90, 0.90,
			0.90, 0.90, // coal
			0.10, 0.10, // stone
		},
		ints: []int{0}, // loss 1 finishes the tool
	}
	e, store := newTestEngine(rng)
	giveTool(store, "wood_pickaxe", models.ToolPickaxe, 1)

	res, err := e.Do(context.Background(), testUser, ActionMine)
	require.NoError(t, err)

	assert.Equal(t, "wood_pickaxe", res.ToolBroken)
	assert.Empty(t, store.equipment[testUser])
	// The drops still land.
	assert.Equal(t, 2, store.inventory[testUser][catalog.ItemStone])
}

func TestDoBadgeDoublesDiamonds(t *testing.T) {
	// iron_pickaxe Overworld drops include diamond. With oh_shiny held,
	// diamond hits double.
	rng := &scriptRNG{
		floats: []float64{
			0.90, 0.90, 0.90,
			// drops in id order: coal, diamond, gold, iron, redstone, stone; 3 rolls each
			0.90, 0.90, 0.90, // coal
			0.01, 0.90, 0.90, // diamond: one hit
			0.90, 0.90, 0.90, // gold
			0.90, 0.90, 0.90, // iron
			0.90, 0.90, 0.90, // redstone
			0.10, 0.90, 0.90, // stone: certain drop, every roll hits
		},
		ints: []int{0},
	}
	e, store := newTestEngine(rng)
	giveTool(store, "iron_pickaxe", models.ToolPickaxe, 251)
	store.badges[testUser] = map[string]bool{catalog.BadgeOhShiny: true}

	res, err := e.Do(context.Background(), testUser, ActionMine)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Rewards[catalog.ItemDiamond])
	assert.Equal(t, 3, res.Rewards[catalog.ItemStone])
}

func TestDoDeathOverworld(t *testing.T) {
	rng := &scriptRNG{
		floats: []float64{0.001}, // death roll
	}
	e, store := newTestEngine(rng)
	giveTool(store, "wood_pickaxe", models.ToolPickaxe, 59)
	store.users[testUser].Balance = 999

	res, err := e.Do(context.Background(), testUser, ActionMine)
	require.NoError(t, err)

	assert.True(t, res.Died)
	assert.Equal(t, []string{"wood_pickaxe"}, res.DestroyedTools)
	assert.Equal(t, int64(100), res.BalanceLost)
	assert.Equal(t, int64(899), store.users[testUser].Balance)
	assert.Empty(t, store.equipment[testUser])
	assert.False(t, res.SentHome)
}

func TestDoDeathNetherFireSave(t *testing.T) {
	rng := &scriptRNG{
		floats: []float64{
			0.001, // death roll
			0.10,  // fire potion triggers
		},
	}
	e, store := newTestEngine(rng)
	store.users[testUser].World = models.Nether
	giveTool(store, "iron_pickaxe", models.ToolPickaxe, 251)
	store.potions[testUser] = map[string]int{catalog.ItemFirePotion: 10}

	res, err := e.Do(context.Background(), testUser, ActionMine)
	require.NoError(t, err)

	assert.False(t, res.Died)
	assert.True(t, res.FireSaved)
	assert.True(t, res.Retry)
	assert.Equal(t, 9, store.potions[testUser][catalog.ItemFirePotion])
	// The tool is untouched.
	assert.Equal(t, 251, store.equipment[testUser]["iron_pickaxe"].RemainDurability)
}

func TestDoDeathNetherGradeToolSurvives(t *testing.T) {
	rng := &scriptRNG{
		floats: []float64{
			0.001, // death roll
			0.90,  // fire chance misses (no potion check needed either way)
			0.10,  // nether_pickaxe survival roll
		},
	}
	e, store := newTestEngine(rng)
	store.users[testUser].World = models.Nether
	giveTool(store, "nether_pickaxe", models.ToolPickaxe, 2031)

	res, err := e.Do(context.Background(), testUser, ActionMine)
	require.NoError(t, err)

	assert.True(t, res.Died)
	assert.Equal(t, []string{"nether_pickaxe"}, res.SurvivedTools)
	assert.Empty(t, res.DestroyedTools)
	assert.NotNil(t, store.equipment[testUser]["nether_pickaxe"])
}

func TestDoDeathInSpaceSendsHome(t *testing.T) {
	rng := &scriptRNG{
		floats: []float64{0.001},
	}
	e, store := newTestEngine(rng)
	store.users[testUser].World = models.Space
	store.users[testUser].Balance = 1000
	giveTool(store, "fragile_pickaxe", models.ToolPickaxe, 100)
	store.potions[testUser] = map[string]int{catalog.ItemLuckPotion: 10}

	res, err := e.Do(context.Background(), testUser, ActionMine)
	require.NoError(t, err)

	assert.True(t, res.Died)
	assert.True(t, res.SentHome)
	assert.True(t, res.PotionsCleared)
	assert.Equal(t, models.Overworld, store.users[testUser].World)
	// The eviction is not a voluntary move.
	assert.Nil(t, store.users[testUser].LastWorldMove)
	assert.Empty(t, store.potions[testUser])
	assert.Equal(t, int64(900), store.users[testUser].Balance)
}

func TestActionToolKinds(t *testing.T) {
	assert.Equal(t, models.ToolSword, ActionAdventure.ToolKind())
	assert.Equal(t, models.ToolAxe, ActionChop.ToolKind())
	assert.Equal(t, models.ToolPickaxe, ActionMine.ToolKind())
}
