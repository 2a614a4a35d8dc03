package catalog

// craftRecipes maps output item id to its crafting recipe.
func craftRecipes() map[string]*Recipe {
	return map[string]*Recipe{
		ItemStick: {Ingredients: map[string]int{ItemWood: 1}, Yield: 2},

		"wood_pickaxe":    {Ingredients: map[string]int{ItemWood: 3, ItemStick: 2}, Yield: 1},
		"stone_pickaxe":   {Ingredients: map[string]int{ItemStone: 3, ItemStick: 2}, Yield: 1},
		"iron_pickaxe":    {Ingredients: map[string]int{ItemIron: 3, ItemStick: 2}, Yield: 1},
		"diamond_pickaxe": {Ingredients: map[string]int{ItemDiamond: 3, ItemStick: 2}, Yield: 1},
		"nether_pickaxe":  {Ingredients: map[string]int{"diamond_pickaxe": 1, ItemNetherite: 1}, Yield: 1},
		"fragile_pickaxe": {Ingredients: map[string]int{ItemStarFragment: 3, ItemStick: 2}, Yield: 1},

		"wood_axe":    {Ingredients: map[string]int{ItemWood: 3, ItemStick: 2}, Yield: 1},
		"stone_axe":   {Ingredients: map[string]int{ItemStone: 3, ItemStick: 2}, Yield: 1},
		"iron_axe":    {Ingredients: map[string]int{ItemIron: 3, ItemStick: 2}, Yield: 1},
		"diamond_axe": {Ingredients: map[string]int{ItemDiamond: 3, ItemStick: 2}, Yield: 1},
		"nether_axe":  {Ingredients: map[string]int{"diamond_axe": 1, ItemNetherite: 1}, Yield: 1},
		"fragile_axe": {Ingredients: map[string]int{ItemStarFragment: 3, ItemStick: 2}, Yield: 1},

		"wood_sword":    {Ingredients: map[string]int{ItemWood: 2, ItemStick: 1}, Yield: 1},
		"stone_sword":   {Ingredients: map[string]int{ItemStone: 2, ItemStick: 1}, Yield: 1},
		"iron_sword":    {Ingredients: map[string]int{ItemIron: 2, ItemStick: 1}, Yield: 1},
		"diamond_sword": {Ingredients: map[string]int{ItemDiamond: 2, ItemStick: 1}, Yield: 1},
		"nether_sword":  {Ingredients: map[string]int{"diamond_sword": 1, ItemNetherite: 1}, Yield: 1},
		"fragile_sword": {Ingredients: map[string]int{ItemStarFragment: 2, ItemStick: 1}, Yield: 1},

		ItemNetherite:     {Ingredients: map[string]int{ItemAncientDebris: 4, ItemGold: 4}, Yield: 1},
		ItemMysteriousEye: {Ingredients: map[string]int{ItemBlaze: 1, ItemGunpowder: 1}, Yield: 1},

		PortalNether: {Ingredients: map[string]int{ItemObsidian: 10}, Yield: 1},
		PortalEnd:    {Ingredients: map[string]int{ItemMysteriousEye: 12, ItemObsidian: 12}, Yield: 1},
	}
}

// brewRecipes maps potion id to its brewing recipe. Brewing always
// charges a money cost on top of the ingredients.
func brewRecipes() map[string]*Recipe {
	return map[string]*Recipe{
		ItemLuckPotion:    {Ingredients: map[string]int{ItemNetherWart: 2, ItemGold: 3}, Yield: 1, MoneyCost: 500},
		ItemHastePotion:   {Ingredients: map[string]int{ItemNetherWart: 2, ItemRedstone: 4}, Yield: 1, MoneyCost: 400},
		ItemLootingPotion: {Ingredients: map[string]int{ItemNetherWart: 2, ItemSpiderEye: 3}, Yield: 1, MoneyCost: 400},
		ItemFirePotion:    {Ingredients: map[string]int{ItemNetherWart: 2, ItemBlaze: 2}, Yield: 1, MoneyCost: 600},
		ItemBlandPotion:   {Ingredients: map[string]int{ItemNetherWart: 1}, Yield: 1, MoneyCost: 100},
	}
}
