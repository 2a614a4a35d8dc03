// Package catalog holds the read-only item, loot, recipe and badge
// tables. Everything is built once at startup and never mutated after;
// changing the data requires a restart.
package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/repositories"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/sahilm/fuzzy"
)

// Rarity orders how hard an item is to come by.
type Rarity int

const (
	Common Rarity = iota
	Uncommon
	Rare
	RarePlus
	LegendaryPlus
	Mythic
	MythicPlus
)

func (r Rarity) String() string {
	switch r {
	case Common:
		return "Common"
	case Uncommon:
		return "Uncommon"
	case Rare:
		return "Rare"
	case RarePlus:
		return "Rare+"
	case LegendaryPlus:
		return "Legendary+"
	case Mythic:
		return "Mythic"
	case MythicPlus:
		return "Mythic+"
	}
	return "Unknown"
}

type Item struct {
	ID          string
	SortID      int
	Name        string
	Aliases     []string
	Emoji       string
	Description string
	Rarity      Rarity
	BuyPrice    *int64
	SellPrice   *int64
	Durability  *int
}

// ToolKind reports the equip slot the item occupies, if it is a tool.
func (i *Item) ToolKind() (models.ToolKind, bool) {
	switch {
	case strings.HasSuffix(i.ID, "_pickaxe"):
		return models.ToolPickaxe, true
	case strings.HasSuffix(i.ID, "_axe"):
		return models.ToolAxe, true
	case strings.HasSuffix(i.ID, "_sword"):
		return models.ToolSword, true
	case strings.HasSuffix(i.ID, "_rod"):
		return models.ToolRod, true
	}
	return "", false
}

func (i *Item) IsTool() bool {
	_, ok := i.ToolKind()
	return ok
}

func (i *Item) IsPotion() bool {
	return strings.HasSuffix(i.ID, "_potion")
}

func (i *Item) IsPortal() bool {
	return i.ID == PortalNether || i.ID == PortalEnd
}

// IsNetherGrade tools have a chance to survive their owner's death.
func (i *Item) IsNetherGrade() bool {
	return strings.HasPrefix(i.ID, "nether_")
}

// IsFragile tools shatter on entering the Nether.
func (i *Item) IsFragile() bool {
	return strings.HasPrefix(i.ID, "fragile_")
}

func (i *Item) Display() string {
	if i.Emoji == "" {
		return i.Name
	}
	return i.Emoji + " " + i.Name
}

// ToModel converts the catalog entry into its persisted mirror.
func (i *Item) ToModel() *models.Item {
	aliases := i.Aliases
	if aliases == nil {
		aliases = []string{}
	}
	return &models.Item{
		ID:          i.ID,
		SortID:      i.SortID,
		Name:        i.Name,
		Aliases:     aliases,
		Emoji:       i.Emoji,
		Description: i.Description,
		BuyPrice:    i.BuyPrice,
		SellPrice:   i.SellPrice,
		Durability:  i.Durability,
	}
}

// LootTable maps item ids to per-roll drop probabilities. Every roll is
// an independent Bernoulli trial per item.
type LootTable struct {
	Rolls int
	Drops map[string]float64
}

// Recipe turns ingredients (plus an optional money cost, for brewing)
// into Yield units of the output.
type Recipe struct {
	Ingredients map[string]int
	Yield       int
	MoneyCost   int64
}

// BadgeDef is a quantity-threshold badge: hold Threshold units of
// ThresholdItem at once and the badge is yours.
type BadgeDef struct {
	ID            string
	SortID        int
	Name          string
	Emoji         string
	Description   string
	ThresholdItem string
	Threshold     int
}

func (b *BadgeDef) ToModel() *models.Badge {
	return &models.Badge{
		ID:          b.ID,
		SortID:      b.SortID,
		Name:        b.Name,
		Emoji:       b.Emoji,
		Description: b.Description,
	}
}

type lootKey struct {
	tool  string
	world models.World
}

type Catalog struct {
	items  []*Item
	byID   map[string]*Item
	byName map[string]*Item
	names  []string // lowercase names+aliases, for fuzzy suggestions

	loot   map[lootKey]*LootTable
	craft  map[string]*Recipe
	brew   map[string]*Recipe
	badges []*BadgeDef
}

// New builds the catalog from the seed tables and wires up the indices.
func New() *Catalog {
	c := &Catalog{
		byID:   make(map[string]*Item),
		byName: make(map[string]*Item),
		loot:   make(map[lootKey]*LootTable),
		craft:  craftRecipes(),
		brew:   brewRecipes(),
		badges: badgeDefs(),
	}

	c.items = seedItems()
	sort.Slice(c.items, func(i, j int) bool { return c.items[i].SortID < c.items[j].SortID })
	for _, item := range c.items {
		c.byID[item.ID] = item
		c.index(item.ID, item)
		c.index(item.Name, item)
		for _, alias := range item.Aliases {
			c.index(alias, item)
		}
	}

	for key, table := range lootTables() {
		c.loot[key] = table
	}
	return c
}

func (c *Catalog) index(key string, item *Item) {
	key = strings.ToLower(key)
	if _, dup := c.byName[key]; !dup {
		c.byName[key] = item
		c.names = append(c.names, key)
	}
}

func (c *Catalog) Items() []*Item { return c.items }

func (c *Catalog) Get(id string) (*Item, bool) {
	item, ok := c.byID[id]
	return item, ok
}

// Lookup resolves user input (id, name or alias, case-insensitive).
// On a miss the error carries close-match suggestions.
func (c *Catalog) Lookup(input string) (*Item, error) {
	key := strings.ToLower(strings.TrimSpace(input))
	if item, ok := c.byName[key]; ok {
		return item, nil
	}
	matches := fuzzy.Find(key, c.names)
	if len(matches) == 0 {
		return nil, errs.New(errs.Validation, "there is no item called **%s**", input)
	}
	suggestions := make([]string, 0, 3)
	for i, m := range matches {
		if i == 3 {
			break
		}
		suggestions = append(suggestions, c.byName[m.Str].Name)
	}
	return nil, errs.New(errs.Validation, "there is no item called **%s**; did you mean %s?",
		input, strings.Join(suggestions, ", "))
}

// Loot returns the loot table for (tool, world), or nil when the tool
// cannot operate in that world.
func (c *Catalog) Loot(toolID string, world models.World) *LootTable {
	return c.loot[lootKey{tool: toolID, world: world}]
}

func (c *Catalog) CraftRecipe(itemID string) *Recipe { return c.craft[itemID] }

func (c *Catalog) BrewRecipe(itemID string) *Recipe { return c.brew[itemID] }

func (c *Catalog) CraftRecipes() map[string]*Recipe { return c.craft }

func (c *Catalog) BrewRecipes() map[string]*Recipe { return c.brew }

func (c *Catalog) Badges() []*BadgeDef { return c.badges }

func (c *Catalog) Badge(id string) *BadgeDef {
	for _, b := range c.badges {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Tradable lists the items the trader may offer.
func (c *Catalog) Tradable() []*Item {
	var out []*Item
	for _, item := range c.items {
		if item.SellPrice != nil && !tradeDenied(item) {
			out = append(out, item)
		}
	}
	return out
}

// Barterable lists the items the piglin barter may offer. Gold itself
// is excluded since it is the barter currency.
func (c *Catalog) Barterable() []*Item {
	var out []*Item
	for _, item := range c.items {
		if item.SellPrice != nil && !tradeDenied(item) && item.ID != ItemGold {
			out = append(out, item)
		}
	}
	return out
}

// tradeDenied is the fixed denylist of the trade/barter pools: portals,
// potions, top-grade tools and the rarest materials.
func tradeDenied(item *Item) bool {
	if item.IsPortal() || item.IsPotion() {
		return true
	}
	if item.IsTool() && (item.IsNetherGrade() || item.IsFragile()) {
		return true
	}
	switch item.ID {
	case ItemNetherite, ItemAncientDebris, ItemStarFragment, ItemMeteorite, ItemMysteriousEye:
		return true
	}
	return false
}

// AgeBadgeFor maps an item to the badge that boosts its sell price.
func (c *Catalog) AgeBadgeFor(itemID string) string {
	switch itemID {
	case ItemWood:
		return BadgeWoodenAge
	case ItemStone:
		return BadgeStoneAge
	case ItemIron:
		return BadgeIronAge
	case ItemDiamond:
		return BadgeDiamondAge
	case ItemNetherite:
		return BadgeNetheriteAge
	}
	return ""
}

// Reconcile pushes the catalog into the persistent store so foreign
// keys resolve and external tooling sees current prices.
func (c *Catalog) Reconcile(ctx context.Context, items repositories.ItemRepository, badges repositories.BadgeRepository) error {
	for _, item := range c.items {
		if err := items.Sync(ctx, item.ToModel()); err != nil {
			return err
		}
	}
	for _, badge := range c.badges {
		if err := badges.Sync(ctx, badge.ToModel()); err != nil {
			return err
		}
	}
	return nil
}
