package catalog

// Badge id constants the engine keys bonuses off.
const (
	BadgeWoodenAge    = "wooden_age"
	BadgeStoneAge     = "stone_age"
	BadgeIronAge      = "iron_age"
	BadgeDiamondAge   = "diamond_age"
	BadgeNetheriteAge = "netherite_age"
	BadgeOhShiny      = "oh_shiny"
	BadgeHeavyMetals  = "heavy_metals"
)

func badgeDefs() []*BadgeDef {
	return []*BadgeDef{
		{ID: BadgeWoodenAge, SortID: 1, Name: "Wooden Age", Emoji: "🪵",
			Description:   "Hold 64 wood at once.",
			ThresholdItem: ItemWood, Threshold: 64},
		{ID: BadgeStoneAge, SortID: 2, Name: "Stone Age", Emoji: "🪨",
			Description:   "Hold 128 stone at once.",
			ThresholdItem: ItemStone, Threshold: 128},
		{ID: BadgeIronAge, SortID: 3, Name: "Iron Age", Emoji: "⛓️",
			Description:   "Hold 64 iron at once.",
			ThresholdItem: ItemIron, Threshold: 64},
		{ID: BadgeDiamondAge, SortID: 4, Name: "Diamond Age", Emoji: "💎",
			Description:   "Hold 32 diamonds at once.",
			ThresholdItem: ItemDiamond, Threshold: 32},
		{ID: BadgeNetheriteAge, SortID: 5, Name: "Netherite Age", Emoji: "⬛",
			Description:   "Hold 4 netherite at once.",
			ThresholdItem: ItemNetherite, Threshold: 4},
		{ID: BadgeOhShiny, SortID: 6, Name: "Oh Shiny", Emoji: "✨",
			Description:   "Find your first diamond. Diamonds drop twice as often for you.",
			ThresholdItem: ItemDiamond, Threshold: 1},
		{ID: BadgeHeavyMetals, SortID: 7, Name: "Heavy Metals", Emoji: "🧲",
			Description:   "Dig up ancient debris. Debris drops twice as often for you.",
			ThresholdItem: ItemAncientDebris, Threshold: 1},
	}
}
