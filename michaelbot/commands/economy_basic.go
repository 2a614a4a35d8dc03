package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/MikeJollie2707/michaelbot/michaelbot"
	"github.com/MikeJollie2707/michaelbot/michaelbot/utils"
)

var Balance = discord.SlashCommandCreate{
	Name:        "balance",
	Description: "💰 View your current balance",
}

var Daily = discord.SlashCommandCreate{
	Name:        "daily",
	Description: "📅 Claim your daily reward",
}

var Inventory = discord.SlashCommandCreate{
	Name:        "inventory",
	Description: "🎒 View your inventory",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "view",
			Description: "all shows empty-priced items too, value sums sell prices",
			Required:    false,
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "all", Value: "all"},
				{Name: "value", Value: "value"},
			},
		},
	},
}

var ItemInfo = discord.SlashCommandCreate{
	Name:        "iteminfo",
	Description: "🔎 Show everything about an item",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "item",
			Description: "Item name, alias or id",
			Required:    true,
		},
	},
}

var Leaderboard = discord.SlashCommandCreate{
	Name:        "leaderboard",
	Description: "🏆 Richest users",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "scope",
			Description: "local ranks this guild only",
			Required:    false,
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "local", Value: "local"},
				{Name: "global", Value: "global"},
			},
		},
	},
}

var Badges = discord.SlashCommandCreate{
	Name:        "badges",
	Description: "🎖️ View earned badges",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "Whose badges to show",
			Required:    false,
		},
	},
}

func init() {
	Commands = append(Commands, Balance, Daily, Inventory, ItemInfo, Leaderboard, Badges)
	registerPrefix(PrefixCommand{Name: "balance", Aliases: []string{"bal"}, Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return runBalance(ctx, b, pc.Author.ID, pc.Author.Username)
	}})
	registerPrefix(PrefixCommand{Name: "daily", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return runDaily(ctx, b, pc.Author.ID, pc.Author.Username)
	}})
	registerPrefix(PrefixCommand{Name: "inventory", Aliases: []string{"inv"}, Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		view := ""
		if len(pc.Args) > 0 {
			view = pc.Args[0]
		}
		return runInventory(ctx, b, pc.Author.ID, pc.Author.Username, view)
	}})
	registerPrefix(PrefixCommand{Name: "iteminfo", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return runItemInfo(b, strings.Join(pc.Args, " "))
	}})
	registerPrefix(PrefixCommand{Name: "leaderboard", Aliases: []string{"top"}, Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		scope := "local"
		if len(pc.Args) > 0 {
			scope = pc.Args[0]
		}
		return runLeaderboard(ctx, b, &pc.GuildID, scope)
	}})
	registerPrefix(PrefixCommand{Name: "badges", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return runBadges(ctx, b, pc.Author.ID, pc.Author.Username)
	}})
}

func runBalance(ctx context.Context, b *michaelbot.Bot, userID snowflake.ID, userName string) (discord.MessageCreate, error) {
	user, err := b.Users.GetOrCreate(ctx, userID, userName)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	desc := fmt.Sprintf("**Balance:** %s\n**Daily streak:** %d\n**World:** %s",
		utils.FormatMoney(user.Balance), user.DailyStreak, user.World)
	return infoEmbed("💰 "+userName, desc), nil
}

func BalanceHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		msg, err := runBalance(ctx, b, e.User().ID, e.User().Username)
		return respond(e, msg, err)
	}
}

func runDaily(ctx context.Context, b *michaelbot.Bot, userID snowflake.ID, userName string) (discord.MessageCreate, error) {
	if err := ensureUser(ctx, b, userID, userName); err != nil {
		return discord.MessageCreate{}, err
	}
	res, err := b.Economy.Daily(ctx, userID)
	if err != nil {
		return discord.MessageCreate{}, err
	}

	lines := []string{fmt.Sprintf("You received %s!", utils.FormatMoney(res.Reward))}
	if res.StreakReset {
		lines = append(lines, "Your streak lapsed and starts over at 1.")
	} else {
		lines = append(lines, fmt.Sprintf("Daily streak: **%d**", res.Streak))
	}
	return successEmbed(strings.Join(lines, "\n")), nil
}

func DailyHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		msg, err := runDaily(ctx, b, e.User().ID, e.User().Username)
		return respond(e, msg, err)
	}
}

func runInventory(ctx context.Context, b *michaelbot.Bot, userID snowflake.ID, userName, view string) (discord.MessageCreate, error) {
	if err := ensureUser(ctx, b, userID, userName); err != nil {
		return discord.MessageCreate{}, err
	}
	slots, err := b.Store.Inventory().GetAll(ctx, userID)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	if len(slots) == 0 {
		return infoEmbed("🎒 Inventory", "Nothing here yet. Go `mine` something!"), nil
	}

	counts := make(map[string]int, len(slots))
	for _, slot := range slots {
		counts[slot.ItemID] = slot.Amount
	}

	var sb strings.Builder
	var total int64
	// walk the catalog so display follows sort order
	for _, item := range b.Catalog.Items() {
		amount, ok := counts[item.ID]
		if !ok {
			continue
		}
		if view == "value" {
			if item.SellPrice == nil {
				continue
			}
			value := *item.SellPrice * int64(amount)
			total += value
			fmt.Fprintf(&sb, "%s x %d — %s\n", item.Display(), amount, utils.FormatMoney(value))
			continue
		}
		if view != "all" && item.SellPrice == nil && item.BuyPrice == nil {
			continue
		}
		fmt.Fprintf(&sb, "%s x %d\n", item.Display(), amount)
	}
	if view == "value" {
		fmt.Fprintf(&sb, "\n**Total value:** %s", utils.FormatMoney(total))
	}
	return infoEmbed("🎒 Inventory", sb.String()), nil
}

func InventoryHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		view, _ := e.SlashCommandInteractionData().OptString("view")
		msg, err := runInventory(ctx, b, e.User().ID, e.User().Username, view)
		return respond(e, msg, err)
	}
}

func runItemInfo(b *michaelbot.Bot, query string) (discord.MessageCreate, error) {
	item, err := b.Catalog.Lookup(query)
	if err != nil {
		return discord.MessageCreate{}, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n**Rarity:** %s\n", item.Description, item.Rarity)
	if item.BuyPrice != nil {
		fmt.Fprintf(&sb, "**Buy:** %s\n", utils.FormatMoney(*item.BuyPrice))
	}
	if item.SellPrice != nil {
		fmt.Fprintf(&sb, "**Sell:** %s\n", utils.FormatMoney(*item.SellPrice))
	}
	if item.Durability != nil {
		fmt.Fprintf(&sb, "**Durability:** %d\n", *item.Durability)
	}
	if len(item.Aliases) > 0 {
		fmt.Fprintf(&sb, "**Aliases:** %s\n", strings.Join(item.Aliases, ", "))
	}
	if recipe := b.Catalog.CraftRecipe(item.ID); recipe != nil {
		sb.WriteString("**Craftable:** " + recipeLine(b, recipe) + "\n")
	}
	if recipe := b.Catalog.BrewRecipe(item.ID); recipe != nil {
		sb.WriteString("**Brewable:** " + recipeLine(b, recipe) + "\n")
	}
	return infoEmbed(item.Display(), sb.String()), nil
}

func ItemInfoHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		msg, err := runItemInfo(b, e.SlashCommandInteractionData().String("item"))
		return respond(e, msg, err)
	}
}

func runLeaderboard(ctx context.Context, b *michaelbot.Bot, guildID *snowflake.ID, scope string) (discord.MessageCreate, error) {
	const limit = 10

	users, err := b.Store.Users().TopByBalance(ctx, limit)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	title := "🏆 Global leaderboard"
	if scope != "global" && guildID != nil {
		title = "🏆 Leaderboard"
		// local scope filters to members this bot has seen in the guild
		if members := b.MemberIDs(*guildID); len(members) > 0 {
			users, err = b.Store.Users().TopByBalanceIn(ctx, members, limit)
			if err != nil {
				return discord.MessageCreate{}, err
			}
		}
	}

	if len(users) == 0 {
		return infoEmbed(title, "Nobody has any money yet."), nil
	}
	var sb strings.Builder
	for i, user := range users {
		fmt.Fprintf(&sb, "%d. **%s** — %s\n", i+1, user.Name, utils.FormatMoney(user.Balance))
	}
	return infoEmbed(title, sb.String()), nil
}

func LeaderboardHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		scope, _ := e.SlashCommandInteractionData().OptString("scope")
		msg, err := runLeaderboard(ctx, b, e.GuildID(), scope)
		return respond(e, msg, err)
	}
}

func runBadges(ctx context.Context, b *michaelbot.Bot, userID snowflake.ID, userName string) (discord.MessageCreate, error) {
	if err := ensureUser(ctx, b, userID, userName); err != nil {
		return discord.MessageCreate{}, err
	}
	owned, err := b.Store.Badges().GetUserBadges(ctx, userID)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	if len(owned) == 0 {
		return infoEmbed("🎖️ Badges", userName+" has no badges yet."), nil
	}

	has := make(map[string]bool, len(owned))
	for _, ub := range owned {
		has[ub.BadgeID] = true
	}
	var sb strings.Builder
	for _, def := range b.Catalog.Badges() {
		if has[def.ID] {
			fmt.Fprintf(&sb, "%s **%s** — %s\n", def.Emoji, def.Name, def.Description)
		}
	}
	return infoEmbed("🎖️ Badges of "+userName, sb.String()), nil
}

func BadgesHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		target := e.User()
		if user, ok := e.SlashCommandInteractionData().OptUser("user"); ok {
			target = user
		}
		msg, err := runBadges(ctx, b, target.ID, target.Username)
		return respond(e, msg, err)
	}
}
