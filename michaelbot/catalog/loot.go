package catalog

import (
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
)

// lootTables keys drop tables by (tool, world). A missing key means the
// tool cannot operate there: wooden tools are useless in the Nether and
// only star-grade (plus netherite) gear works in Space.
func lootTables() map[lootKey]*LootTable {
	t := map[lootKey]*LootTable{}

	mine := func(tool string, world models.World, rolls int, drops map[string]float64) {
		t[lootKey{tool: tool, world: world}] = &LootTable{Rolls: rolls, Drops: drops}
	}

	// Pickaxes: mine.
	mine("wood_pickaxe", models.Overworld, 2, map[string]float64{
		ItemStone: 0.90, ItemCoal: 0.40,
	})
	mine("stone_pickaxe", models.Overworld, 3, map[string]float64{
		ItemStone: 0.95, ItemCoal: 0.50, ItemIron: 0.20,
	})
	mine("iron_pickaxe", models.Overworld, 3, map[string]float64{
		ItemStone: 1.00, ItemCoal: 0.50, ItemIron: 0.35, ItemRedstone: 0.20, ItemGold: 0.10, ItemDiamond: 0.02,
	})
	mine("diamond_pickaxe", models.Overworld, 4, map[string]float64{
		ItemStone: 1.00, ItemCoal: 0.50, ItemIron: 0.40, ItemRedstone: 0.30, ItemGold: 0.20,
		ItemDiamond: 0.05, ItemObsidian: 0.15,
	})
	mine("nether_pickaxe", models.Overworld, 5, map[string]float64{
		ItemStone: 1.00, ItemCoal: 0.50, ItemIron: 0.45, ItemRedstone: 0.35, ItemGold: 0.25,
		ItemDiamond: 0.08, ItemObsidian: 0.20,
	})
	mine("iron_pickaxe", models.Nether, 3, map[string]float64{
		ItemQuartz: 0.35, ItemGold: 0.20,
	})
	mine("diamond_pickaxe", models.Nether, 4, map[string]float64{
		ItemQuartz: 0.40, ItemGold: 0.30, ItemAncientDebris: 0.03,
	})
	mine("nether_pickaxe", models.Nether, 5, map[string]float64{
		ItemQuartz: 0.45, ItemGold: 0.35, ItemAncientDebris: 0.07, ItemObsidian: 0.20,
	})
	mine("nether_pickaxe", models.Space, 3, map[string]float64{
		ItemMoonDust: 0.50, ItemMeteorite: 0.10, ItemStarFragment: 0.02,
	})
	mine("fragile_pickaxe", models.Space, 4, map[string]float64{
		ItemMoonDust: 0.60, ItemMeteorite: 0.15, ItemStarFragment: 0.05,
	})

	// Axes: chop.
	mine("wood_axe", models.Overworld, 2, map[string]float64{
		ItemWood: 0.90,
	})
	mine("stone_axe", models.Overworld, 3, map[string]float64{
		ItemWood: 0.95, ItemStick: 0.30,
	})
	mine("iron_axe", models.Overworld, 3, map[string]float64{
		ItemWood: 1.00, ItemStick: 0.40,
	})
	mine("diamond_axe", models.Overworld, 4, map[string]float64{
		ItemWood: 1.00, ItemStick: 0.50,
	})
	mine("nether_axe", models.Overworld, 5, map[string]float64{
		ItemWood: 1.00, ItemStick: 0.50,
	})
	mine("iron_axe", models.Nether, 2, map[string]float64{
		ItemWood: 0.70, ItemNetherWart: 0.15,
	})
	mine("diamond_axe", models.Nether, 3, map[string]float64{
		ItemWood: 0.80, ItemNetherWart: 0.25,
	})
	mine("nether_axe", models.Nether, 4, map[string]float64{
		ItemWood: 0.85, ItemNetherWart: 0.30,
	})
	mine("fragile_axe", models.Space, 2, map[string]float64{
		ItemMoonDust: 0.50, ItemMeteorite: 0.10,
	})

	// Swords: adventure.
	mine("wood_sword", models.Overworld, 2, map[string]float64{
		ItemString: 0.50, ItemGunpowder: 0.25,
	})
	mine("stone_sword", models.Overworld, 3, map[string]float64{
		ItemString: 0.50, ItemGunpowder: 0.30, ItemSpiderEye: 0.20,
	})
	mine("iron_sword", models.Overworld, 3, map[string]float64{
		ItemString: 0.60, ItemGunpowder: 0.35, ItemSpiderEye: 0.25,
	})
	mine("diamond_sword", models.Overworld, 4, map[string]float64{
		ItemString: 0.60, ItemGunpowder: 0.40, ItemSpiderEye: 0.30,
	})
	mine("nether_sword", models.Overworld, 5, map[string]float64{
		ItemString: 0.65, ItemGunpowder: 0.45, ItemSpiderEye: 0.35,
	})
	mine("iron_sword", models.Nether, 2, map[string]float64{
		ItemGunpowder: 0.30, ItemBlaze: 0.20, ItemNetherWart: 0.15,
	})
	mine("diamond_sword", models.Nether, 3, map[string]float64{
		ItemGunpowder: 0.35, ItemBlaze: 0.30, ItemNetherWart: 0.20,
	})
	mine("nether_sword", models.Nether, 4, map[string]float64{
		ItemGunpowder: 0.40, ItemBlaze: 0.35, ItemNetherWart: 0.25, ItemQuartz: 0.20,
	})
	mine("nether_sword", models.Space, 2, map[string]float64{
		ItemMoonDust: 0.40, ItemMeteorite: 0.10,
	})
	mine("fragile_sword", models.Space, 3, map[string]float64{
		ItemMoonDust: 0.50, ItemMeteorite: 0.20, ItemStarFragment: 0.08,
	})

	return t
}
