package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/MikeJollie2707/michaelbot/michaelbot"
	"github.com/MikeJollie2707/michaelbot/michaelbot/catalog"
	"github.com/MikeJollie2707/michaelbot/michaelbot/economy"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/MikeJollie2707/michaelbot/michaelbot/utils"
)

var Craft = discord.SlashCommandCreate{
	Name:        "craft",
	Description: "🔨 Craft items from materials",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "item",
			Description: "Item to craft",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "amount",
			Description: "How many to produce (default 1)",
			Required:    false,
			MinValue:    intPtr(1),
		},
	},
}

var Brew = discord.SlashCommandCreate{
	Name:        "brew",
	Description: "⚗️ Brew potions from materials and money",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "item",
			Description: "Potion to brew",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "amount",
			Description: "How many to produce (default 1)",
			Required:    false,
			MinValue:    intPtr(1),
		},
	},
}

var Recipes = discord.SlashCommandCreate{
	Name:        "recipes",
	Description: "📜 All craft and brew recipes",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "kind",
			Description: "Which recipe book",
			Required:    false,
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "craft", Value: "craft"},
				{Name: "brew", Value: "brew"},
			},
		},
	},
}

var Equip = discord.SlashCommandCreate{
	Name:        "equip",
	Description: "🛠️ Equip a tool from your inventory",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "tool",
			Description: "Tool to equip",
			Required:    true,
		},
	},
}

var Equipments = discord.SlashCommandCreate{
	Name:        "equipments",
	Description: "⚒️ View equipped tools and active potions",
}

var UsePotion = discord.SlashCommandCreate{
	Name:        "usepotion",
	Description: "🧪 Drink a potion",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "potion",
			Description: "Potion to drink",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "amount",
			Description: "How many to drink at once (default 1)",
			Required:    false,
			MinValue:    intPtr(1),
		},
	},
}

func intPtr(v int) *int { return &v }

func init() {
	Commands = append(Commands, Craft, Brew, Recipes, Equip, Equipments, UsePotion)
	registerPrefix(PrefixCommand{Name: "craft", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		amount, query, err := amountAndItem(pc.Args)
		if err != nil {
			return discord.MessageCreate{}, err
		}
		return runCraft(ctx, b, pc.Author.ID, pc.Author.Username, query, amount, false)
	}})
	registerPrefix(PrefixCommand{Name: "brew", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		amount, query, err := amountAndItem(pc.Args)
		if err != nil {
			return discord.MessageCreate{}, err
		}
		return runCraft(ctx, b, pc.Author.ID, pc.Author.Username, query, amount, true)
	}})
	registerPrefix(PrefixCommand{Name: "recipes", Aliases: []string{"recipe"}, Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		kind := ""
		if len(pc.Args) > 0 {
			kind = pc.Args[0]
		}
		return runRecipes(b, kind), nil
	}})
	registerPrefix(PrefixCommand{Name: "equip", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return runEquip(ctx, b, pc.Author.ID, pc.Author.Username, strings.Join(pc.Args, " "))
	}})
	registerPrefix(PrefixCommand{Name: "equipments", Aliases: []string{"eq"}, Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return runEquipments(ctx, b, pc.Author.ID, pc.Author.Username)
	}})
	registerPrefix(PrefixCommand{Name: "usepotion", Aliases: []string{"drink"}, Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		amount, query, err := amountAndItem(pc.Args)
		if err != nil {
			return discord.MessageCreate{}, err
		}
		return runUsePotion(ctx, b, pc.Author.ID, pc.Author.Username, query, amount)
	}})
}

// recipeLine renders a recipe as "2x Wood + 1x Stick", ingredients in
// catalog order, with the money cost and yield appended when relevant.
func recipeLine(b *michaelbot.Bot, recipe *catalog.Recipe) string {
	ids := make([]string, 0, len(recipe.Ingredients))
	for id := range recipe.Ingredients {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, _ := b.Catalog.Get(ids[i])
		c, _ := b.Catalog.Get(ids[j])
		if a == nil || c == nil {
			return ids[i] < ids[j]
		}
		return a.SortID < c.SortID
	})

	parts := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		name := id
		if item, ok := b.Catalog.Get(id); ok {
			name = item.Display()
		}
		parts = append(parts, fmt.Sprintf("%dx %s", recipe.Ingredients[id], name))
	}
	if recipe.MoneyCost > 0 {
		parts = append(parts, utils.FormatMoney(recipe.MoneyCost))
	}
	line := strings.Join(parts, " + ")
	if recipe.Yield > 1 {
		line += fmt.Sprintf(" → x%d", recipe.Yield)
	}
	return line
}

func runCraft(ctx context.Context, b *michaelbot.Bot, userID snowflake.ID, userName, query string, amount int, brew bool) (discord.MessageCreate, error) {
	item, err := b.Catalog.Lookup(query)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	if err := ensureUser(ctx, b, userID, userName); err != nil {
		return discord.MessageCreate{}, err
	}

	var res *economy.CraftResult
	if brew {
		res, err = b.Economy.Brew(ctx, userID, item.ID, amount)
	} else {
		res, err = b.Economy.Craft(ctx, userID, item.ID, amount)
	}
	if err != nil {
		// a materials shortfall comes back with the missing amounts so
		// the user sees exactly what to gather
		if res != nil && len(res.Missing) > 0 {
			var sb strings.Builder
			sb.WriteString("You still need:\n")
			for _, line := range missingLines(b, res.Missing) {
				sb.WriteString(line + "\n")
			}
			return discord.MessageCreate{}, errs.New(errs.Precondition, "%s", strings.TrimRight(sb.String(), "\n"))
		}
		return discord.MessageCreate{}, err
	}

	if res.PortalActivated {
		return successEmbed(fmt.Sprintf("%s is now active. Safe travels!", item.Display())), nil
	}
	lines := []string{fmt.Sprintf("Produced %s.", itemLine(b.Catalog, res.ItemID, res.Produced))}
	if res.MoneySpent > 0 {
		lines = append(lines, fmt.Sprintf("Spent %s.", utils.FormatMoney(res.MoneySpent)))
	}
	return successEmbed(strings.Join(lines, "\n")), nil
}

func missingLines(b *michaelbot.Bot, missing map[string]int) []string {
	ids := make([]string, 0, len(missing))
	for id := range missing {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, itemLine(b.Catalog, id, missing[id]))
	}
	return lines
}

func craftHandler(b *michaelbot.Bot, brew bool) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		data := e.SlashCommandInteractionData()
		amount := 1
		if n, ok := data.OptInt("amount"); ok {
			amount = n
		}
		msg, err := runCraft(ctx, b, e.User().ID, e.User().Username, data.String("item"), amount, brew)
		return respond(e, msg, err)
	}
}

func CraftHandler(b *michaelbot.Bot) handler.CommandHandler { return craftHandler(b, false) }
func BrewHandler(b *michaelbot.Bot) handler.CommandHandler  { return craftHandler(b, true) }

func runRecipes(b *michaelbot.Bot, kind string) discord.MessageCreate {
	var sb strings.Builder
	// catalog order keeps both books stable between calls
	for _, item := range b.Catalog.Items() {
		if kind != "brew" {
			if recipe := b.Catalog.CraftRecipe(item.ID); recipe != nil {
				fmt.Fprintf(&sb, "%s: %s\n", item.Display(), recipeLine(b, recipe))
			}
		}
		if kind != "craft" {
			if recipe := b.Catalog.BrewRecipe(item.ID); recipe != nil {
				fmt.Fprintf(&sb, "%s: %s\n", item.Display(), recipeLine(b, recipe))
			}
		}
	}
	title := "📜 Recipes"
	switch kind {
	case "craft":
		title = "📜 Craft recipes"
	case "brew":
		title = "📜 Brew recipes"
	}
	return infoEmbed(title, sb.String())
}

func RecipesHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		kind, _ := e.SlashCommandInteractionData().OptString("kind")
		return respond(e, runRecipes(b, kind), nil)
	}
}

func runEquip(ctx context.Context, b *michaelbot.Bot, userID snowflake.ID, userName, query string) (discord.MessageCreate, error) {
	item, err := b.Catalog.Lookup(query)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	if err := ensureUser(ctx, b, userID, userName); err != nil {
		return discord.MessageCreate{}, err
	}
	res, err := b.Economy.Equip(ctx, userID, item.ID)
	if err != nil {
		return discord.MessageCreate{}, err
	}

	lines := []string{fmt.Sprintf("Equipped %s.", item.Display())}
	if res.Replaced != "" {
		name := res.Replaced
		if prev, ok := b.Catalog.Get(res.Replaced); ok {
			name = prev.Display()
		}
		if res.Returned {
			lines = append(lines, fmt.Sprintf("%s went back to your inventory.", name))
		} else {
			lines = append(lines, fmt.Sprintf("%s was worn out and fell apart.", name))
		}
	}
	return successEmbed(strings.Join(lines, "\n")), nil
}

func EquipHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		msg, err := runEquip(ctx, b, e.User().ID, e.User().Username, e.SlashCommandInteractionData().String("tool"))
		return respond(e, msg, err)
	}
}

func runEquipments(ctx context.Context, b *michaelbot.Bot, userID snowflake.ID, userName string) (discord.MessageCreate, error) {
	if err := ensureUser(ctx, b, userID, userName); err != nil {
		return discord.MessageCreate{}, err
	}
	tools, err := b.Economy.Equipments(ctx, userID)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	potions, err := b.Economy.ActivePotions(ctx, userID)
	if err != nil {
		return discord.MessageCreate{}, err
	}

	var sb strings.Builder
	sb.WriteString("**Tools**\n")
	if len(tools) == 0 {
		sb.WriteString("Nothing equipped.\n")
	}
	for _, tool := range tools {
		name := tool.ItemID
		if item, ok := b.Catalog.Get(tool.ItemID); ok {
			name = item.Display()
		}
		fmt.Fprintf(&sb, "%s — %d durability left\n", name, tool.RemainDurability)
	}
	sb.WriteString("\n**Potions**\n")
	if len(potions) == 0 {
		sb.WriteString("No active effects.\n")
	}
	for _, potion := range potions {
		name := potion.ItemID
		stack := potion.RemainUses
		if item, ok := b.Catalog.Get(potion.ItemID); ok {
			name = item.Display()
			if item.Durability != nil {
				stack = potion.Stack(*item.Durability)
			}
		}
		fmt.Fprintf(&sb, "%s x %d — %d uses left\n", name, stack, potion.RemainUses)
	}
	return infoEmbed("⚒️ Equipment of "+userName, sb.String()), nil
}

func EquipmentsHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		msg, err := runEquipments(ctx, b, e.User().ID, e.User().Username)
		return respond(e, msg, err)
	}
}

func runUsePotion(ctx context.Context, b *michaelbot.Bot, userID snowflake.ID, userName, query string, amount int) (discord.MessageCreate, error) {
	item, err := b.Catalog.Lookup(query)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	if err := ensureUser(ctx, b, userID, userName); err != nil {
		return discord.MessageCreate{}, err
	}
	res, err := b.Economy.UsePotion(ctx, userID, item.ID, amount)
	if err != nil {
		return discord.MessageCreate{}, err
	}

	if res.Cleared {
		return successEmbed("All active potion effects washed away."), nil
	}
	return successEmbed(fmt.Sprintf("Drank %s. Effect now at stack **%d**.",
		itemLine(b.Catalog, res.ItemID, res.Amount), res.Stack)), nil
}

func UsePotionHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		data := e.SlashCommandInteractionData()
		amount := 1
		if n, ok := data.OptInt("amount"); ok {
			amount = n
		}
		msg, err := runUsePotion(ctx, b, e.User().ID, e.User().Username, data.String("potion"), amount)
		return respond(e, msg, err)
	}
}
