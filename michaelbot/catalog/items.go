package catalog

// Item id constants referenced across the engine. Tools, potions and
// portals follow naming conventions (suffix for the tool slot, prefix
// for nether/fragile grades) that the engine keys behavior off.
const (
	ItemWood          = "wood"
	ItemStick         = "stick"
	ItemStone         = "stone"
	ItemCoal          = "coal"
	ItemIron          = "iron"
	ItemGold          = "gold"
	ItemRedstone      = "redstone"
	ItemDiamond       = "diamond"
	ItemObsidian      = "obsidian"
	ItemGunpowder     = "gunpowder"
	ItemString        = "string"
	ItemSpiderEye     = "spider_eye"
	ItemNetherWart    = "nether_wart"
	ItemBlaze         = "blaze"
	ItemQuartz        = "quartz"
	ItemAncientDebris = "ancient_debris"
	ItemNetherite     = "netherite"
	ItemMysteriousEye = "mysterious_eye"
	ItemStarFragment  = "star_fragment"
	ItemMoonDust      = "moon_dust"
	ItemMeteorite     = "meteorite"

	ItemLuckPotion    = "luck_potion"
	ItemHastePotion   = "haste_potion"
	ItemLootingPotion = "looting_potion"
	ItemFirePotion    = "fire_potion"
	ItemBlandPotion   = "bland_potion"

	PortalNether = "nether"
	PortalEnd    = "end"
)

func ip(v int) *int     { return &v }
func lp(v int64) *int64 { return &v }

func seedItems() []*Item {
	return []*Item{
		// Materials
		{ID: ItemWood, SortID: 1, Name: "Wood", Aliases: []string{"log"}, Emoji: "🪵", Rarity: Common,
			Description: "A chunk of tree. The start of everything.", BuyPrice: lp(10), SellPrice: lp(5)},
		{ID: ItemStick, SortID: 2, Name: "Stick", Emoji: "🥢", Rarity: Common,
			Description: "Duct tape of the crafting world.", BuyPrice: lp(4), SellPrice: lp(2)},
		{ID: ItemStone, SortID: 3, Name: "Stone", Aliases: []string{"cobblestone"}, Emoji: "🪨", Rarity: Common,
			Description: "A dull but dependable rock.", BuyPrice: lp(16), SellPrice: lp(8)},
		{ID: ItemCoal, SortID: 4, Name: "Coal", Emoji: "⚫", Rarity: Common,
			Description: "Fuel for the furnace and the economy.", BuyPrice: lp(20), SellPrice: lp(10)},
		{ID: ItemString, SortID: 5, Name: "String", Emoji: "🕸️", Rarity: Common,
			Description: "Spiders hate losing it.", BuyPrice: lp(20), SellPrice: lp(10)},
		{ID: ItemIron, SortID: 6, Name: "Iron", Aliases: []string{"iron_ingot"}, Emoji: "⛓️", Rarity: Uncommon,
			Description: "The workhorse metal.", BuyPrice: lp(60), SellPrice: lp(30)},
		{ID: ItemGold, SortID: 7, Name: "Gold", Aliases: []string{"gold_ingot"}, Emoji: "🪙", Rarity: Uncommon,
			Description: "Soft, shiny and the only currency piglins accept.", BuyPrice: lp(100), SellPrice: lp(50)},
		{ID: ItemRedstone, SortID: 8, Name: "Redstone", Emoji: "🔴", Rarity: Uncommon,
			Description: "Powder that thinks it is electricity.", BuyPrice: lp(80), SellPrice: lp(40)},
		{ID: ItemGunpowder, SortID: 9, Name: "Gunpowder", Emoji: "💥", Rarity: Uncommon,
			Description: "Creeper leftovers. Handle gently.", BuyPrice: lp(80), SellPrice: lp(40)},
		{ID: ItemSpiderEye, SortID: 10, Name: "Spider Eye", Emoji: "👁️", Rarity: Uncommon,
			Description: "Mildly poisonous, highly brewable.", SellPrice: lp(30)},
		{ID: ItemDiamond, SortID: 11, Name: "Diamond", Emoji: "💎", Rarity: Rare,
			Description: "Oh shiny.", BuyPrice: lp(400), SellPrice: lp(200)},
		{ID: ItemObsidian, SortID: 12, Name: "Obsidian", Emoji: "🟪", Rarity: Rare,
			Description: "Hardened lava. Portal-grade building material.", SellPrice: lp(150)},
		{ID: ItemNetherWart, SortID: 13, Name: "Nether Wart", Aliases: []string{"wart"}, Emoji: "🍄", Rarity: Rare,
			Description: "The base of every worthwhile potion.", SellPrice: lp(60)},
		{ID: ItemBlaze, SortID: 14, Name: "Blaze Rod", Aliases: []string{"blaze_rod"}, Emoji: "🔥", Rarity: Rare,
			Description: "Still warm. Guarantees the way home.", SellPrice: lp(100)},
		{ID: ItemQuartz, SortID: 15, Name: "Quartz", Emoji: "🤍", Rarity: Uncommon,
			Description: "The Nether's idea of decor.", SellPrice: lp(60)},
		{ID: ItemAncientDebris, SortID: 16, Name: "Ancient Debris", Aliases: []string{"debris"}, Emoji: "🟤", Rarity: RarePlus,
			Description: "Heavy metals buried deep under the Nether.", SellPrice: lp(500)},
		{ID: ItemNetherite, SortID: 17, Name: "Netherite", Emoji: "⬛", Rarity: LegendaryPlus,
			Description: "Debris, refined. Survives almost anything.", SellPrice: lp(1200)},
		{ID: ItemMysteriousEye, SortID: 18, Name: "Mysterious Eye", Aliases: []string{"eye"}, Emoji: "🟢", Rarity: RarePlus,
			Description: "It stares back, and it knows the way to Space.", SellPrice: lp(300)},
		{ID: ItemMoonDust, SortID: 19, Name: "Moon Dust", Emoji: "🌫️", Rarity: Rare,
			Description: "Fine regolith. Gets everywhere.", SellPrice: lp(120)},
		{ID: ItemMeteorite, SortID: 20, Name: "Meteorite", Emoji: "☄️", Rarity: RarePlus,
			Description: "A rock with frequent flyer miles.", SellPrice: lp(400)},
		{ID: ItemStarFragment, SortID: 21, Name: "Star Fragment", Aliases: []string{"fragment"}, Emoji: "✨", Rarity: LegendaryPlus,
			Description: "A shard of something that used to shine.", SellPrice: lp(800)},

		// Pickaxes
		{ID: "wood_pickaxe", SortID: 30, Name: "Wooden Pickaxe", Aliases: []string{"wooden_pickaxe"}, Emoji: "⛏️", Rarity: Common,
			Description: "Mines stone, barely.", BuyPrice: lp(50), SellPrice: lp(25), Durability: ip(59)},
		{ID: "stone_pickaxe", SortID: 31, Name: "Stone Pickaxe", Emoji: "⛏️", Rarity: Common,
			Description: "An honest upgrade.", BuyPrice: lp(150), SellPrice: lp(75), Durability: ip(132)},
		{ID: "iron_pickaxe", SortID: 32, Name: "Iron Pickaxe", Emoji: "⛏️", Rarity: Uncommon,
			Description: "Now we are mining.", BuyPrice: lp(500), SellPrice: lp(250), Durability: ip(251)},
		{ID: "diamond_pickaxe", SortID: 33, Name: "Diamond Pickaxe", Emoji: "⛏️", Rarity: Rare,
			Description: "Eats obsidian for breakfast.", BuyPrice: lp(3000), SellPrice: lp(1500), Durability: ip(1562)},
		{ID: "nether_pickaxe", SortID: 34, Name: "Netherite Pickaxe", Emoji: "⛏️", Rarity: LegendaryPlus,
			Description: "Forged from debris. Loyal beyond death, sometimes.", SellPrice: lp(5000), Durability: ip(2031)},
		{ID: "fragile_pickaxe", SortID: 35, Name: "Fragile Star Pickaxe", Emoji: "⛏️", Rarity: Mythic,
			Description: "Mines moonlight. Shatters in the Nether.", SellPrice: lp(2000), Durability: ip(100)},

		// Axes
		{ID: "wood_axe", SortID: 40, Name: "Wooden Axe", Aliases: []string{"wooden_axe"}, Emoji: "🪓", Rarity: Common,
			Description: "Chop chop.", BuyPrice: lp(50), SellPrice: lp(25), Durability: ip(59)},
		{ID: "stone_axe", SortID: 41, Name: "Stone Axe", Emoji: "🪓", Rarity: Common,
			Description: "A lumberjack's first real tool.", BuyPrice: lp(150), SellPrice: lp(75), Durability: ip(132)},
		{ID: "iron_axe", SortID: 42, Name: "Iron Axe", Emoji: "🪓", Rarity: Uncommon,
			Description: "Fells forests, and the odd crimson one.", BuyPrice: lp(500), SellPrice: lp(250), Durability: ip(251)},
		{ID: "diamond_axe", SortID: 43, Name: "Diamond Axe", Emoji: "🪓", Rarity: Rare,
			Description: "Overkill for trees. Perfect.", BuyPrice: lp(3000), SellPrice: lp(1500), Durability: ip(1562)},
		{ID: "nether_axe", SortID: 44, Name: "Netherite Axe", Emoji: "🪓", Rarity: LegendaryPlus,
			Description: "The forest does not stand a chance.", SellPrice: lp(5000), Durability: ip(2031)},
		{ID: "fragile_axe", SortID: 45, Name: "Fragile Star Axe", Emoji: "🪓", Rarity: Mythic,
			Description: "Harvests stardust. Keep it out of the heat.", SellPrice: lp(2000), Durability: ip(100)},

		// Swords
		{ID: "wood_sword", SortID: 50, Name: "Wooden Sword", Aliases: []string{"wooden_sword"}, Emoji: "🗡️", Rarity: Common,
			Description: "Better than fists.", BuyPrice: lp(50), SellPrice: lp(25), Durability: ip(59)},
		{ID: "stone_sword", SortID: 51, Name: "Stone Sword", Emoji: "🗡️", Rarity: Common,
			Description: "Blunt, but it works.", BuyPrice: lp(150), SellPrice: lp(75), Durability: ip(132)},
		{ID: "iron_sword", SortID: 52, Name: "Iron Sword", Emoji: "🗡️", Rarity: Uncommon,
			Description: "Standard adventuring issue.", BuyPrice: lp(500), SellPrice: lp(250), Durability: ip(251)},
		{ID: "diamond_sword", SortID: 53, Name: "Diamond Sword", Emoji: "🗡️", Rarity: Rare,
			Description: "Sharp enough to argue with the Nether.", BuyPrice: lp(3000), SellPrice: lp(1500), Durability: ip(1562)},
		{ID: "nether_sword", SortID: 54, Name: "Netherite Sword", Emoji: "🗡️", Rarity: LegendaryPlus,
			Description: "Cuts through everything but its own legend.", SellPrice: lp(5000), Durability: ip(2031)},
		{ID: "fragile_sword", SortID: 55, Name: "Fragile Star Sword", Emoji: "🗡️", Rarity: Mythic,
			Description: "A blade of starlight. Do not take it downstairs.", SellPrice: lp(2000), Durability: ip(100)},

		// Potions. Durability is the per-stack use count.
		{ID: ItemLuckPotion, SortID: 60, Name: "Luck Potion", Emoji: "🍀", Rarity: Mythic,
			Description: "More rolls, more loot.", Durability: ip(10)},
		{ID: ItemHastePotion, SortID: 61, Name: "Haste Potion", Emoji: "⚡", Rarity: Mythic,
			Description: "Swing faster, mine more.", Durability: ip(10)},
		{ID: ItemLootingPotion, SortID: 62, Name: "Looting Potion", Emoji: "🧲", Rarity: Mythic,
			Description: "Adventure pays better.", Durability: ip(10)},
		{ID: ItemFirePotion, SortID: 63, Name: "Fire Potion", Emoji: "🧯", Rarity: Mythic,
			Description: "Lava becomes a warm bath. Occasionally.", Durability: ip(10)},
		{ID: ItemBlandPotion, SortID: 64, Name: "Bland Potion", Emoji: "🥛", Rarity: Rare,
			Description: "Washes every other potion away.", BuyPrice: lp(100), SellPrice: lp(50), Durability: ip(1)},

		// Portals. Durability is the number of crossings.
		{ID: PortalNether, SortID: 70, Name: "Nether Portal", Emoji: "🌌", Rarity: Mythic,
			Description: "A doorway of obsidian and bad decisions.", Durability: ip(5)},
		{ID: PortalEnd, SortID: 71, Name: "End Portal", Emoji: "🕳️", Rarity: MythicPlus,
			Description: "Twelve eyes stare into the void. The void stares back.", Durability: ip(2)},
	}
}
