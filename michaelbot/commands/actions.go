package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/MikeJollie2707/michaelbot/michaelbot"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/economy"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/MikeJollie2707/michaelbot/michaelbot/utils"
)

// actionCooldown throttles the three loot commands. An empty-loot run
// resets it so the user can retry at once.
const actionCooldown = 5 * time.Minute

var Adventure = discord.SlashCommandCreate{
	Name:        "adventure",
	Description: "⚔️ Venture out with your sword and see what you find",
}

var Chop = discord.SlashCommandCreate{
	Name:        "chop",
	Description: "🪓 Chop wood with your axe",
}

var Mine = discord.SlashCommandCreate{
	Name:        "mine",
	Description: "⛏️ Mine with your pickaxe",
}

var TravelTo = discord.SlashCommandCreate{
	Name:        "travelto",
	Description: "🌀 Travel to another world through an active portal",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "world",
			Description: "Destination",
			Required:    true,
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "Overworld", Value: "overworld"},
				{Name: "Nether", Value: "nether"},
				{Name: "Space", Value: "space"},
			},
		},
	},
}

func init() {
	Commands = append(Commands, Adventure, Chop, Mine, TravelTo)
	registerPrefix(PrefixCommand{Name: "adventure", Aliases: []string{"adv"}, Run: prefixAction(economy.ActionAdventure)})
	registerPrefix(PrefixCommand{Name: "chop", Run: prefixAction(economy.ActionChop)})
	registerPrefix(PrefixCommand{Name: "mine", Run: prefixAction(economy.ActionMine)})
	registerPrefix(PrefixCommand{Name: "travelto", Aliases: []string{"moveto", "goto"}, Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		if len(pc.Args) == 0 {
			return discord.MessageCreate{}, errs.New(errs.Validation, "travel where? overworld, nether or space")
		}
		return runTravel(ctx, b, pc.Author.ID, pc.Author.Username, pc.Args[0])
	}})
}

func prefixAction(action economy.Action) PrefixRunner {
	return func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return runAction(ctx, b, pc.Author.ID, pc.Author.Username, action)
	}
}

func runAction(ctx context.Context, b *michaelbot.Bot, userID snowflake.ID, userName string, action economy.Action) (discord.MessageCreate, error) {
	if rem := cooldowns.Check(userID, string(action), actionCooldown); rem > 0 {
		return discord.MessageCreate{}, errs.New(errs.Precondition, "you can %s again in %s", action, utils.FormatDuration(rem))
	}
	if err := ensureUser(ctx, b, userID, userName); err != nil {
		return discord.MessageCreate{}, err
	}

	res, err := b.Economy.Do(ctx, userID, action)
	if err != nil {
		cooldowns.Reset(userID, string(action))
		return discord.MessageCreate{}, err
	}
	if res.Retry {
		cooldowns.Reset(userID, string(action))
	}

	if res.Died {
		return renderDeath(b, res), nil
	}
	if res.FireSaved {
		return successEmbed("🔥 The flames took you... but your fire potion pulled you out. Nothing gained, nothing lost."), nil
	}

	var sb strings.Builder
	if len(res.Rewards) == 0 {
		sb.WriteString("You came back empty-handed. Try again!")
	} else {
		sb.WriteString("You got:\n")
		for _, item := range b.Catalog.Items() {
			if amount, ok := res.Rewards[item.ID]; ok {
				fmt.Fprintf(&sb, "- %s x %d\n", item.Display(), amount)
			}
		}
	}
	appendSideNotes(&sb, b, res)

	newBadges, err := b.Economy.AwardBadges(ctx, userID)
	if err == nil {
		for _, id := range newBadges {
			if def := b.Catalog.Badge(id); def != nil {
				fmt.Fprintf(&sb, "\n🎖️ Badge earned: %s **%s**!", def.Emoji, def.Name)
			}
		}
	}
	return successEmbed(sb.String()), nil
}

// appendSideNotes renders the broke/expired notifications riding on a
// result.
func appendSideNotes(sb *strings.Builder, b *michaelbot.Bot, res *economy.ActionResult) {
	if res.ToolBroken != "" {
		fmt.Fprintf(sb, "\n💥 Your %s broke!", itemName(b, res.ToolBroken))
	}
	for _, id := range res.ExpiredPotions {
		fmt.Fprintf(sb, "\n🧪 Your %s wore off.", itemName(b, id))
	}
}

func renderDeath(b *michaelbot.Bot, res *economy.ActionResult) discord.MessageCreate {
	var sb strings.Builder
	sb.WriteString("☠️ **You died!**\n")
	if res.BalanceLost > 0 {
		fmt.Fprintf(&sb, "You lost %s.\n", utils.FormatMoney(res.BalanceLost))
	}
	for _, id := range res.DestroyedTools {
		fmt.Fprintf(&sb, "Your %s was destroyed.\n", itemName(b, id))
	}
	for _, id := range res.SurvivedTools {
		fmt.Fprintf(&sb, "Your %s survived the flames.\n", itemName(b, id))
	}
	if res.SentHome {
		sb.WriteString("You drift back to the Overworld.\n")
	}
	if res.PotionsCleared {
		sb.WriteString("All your active potions fizzled out.\n")
	}
	return discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: sb.String(),
			Color:       utils.ErrorColor,
		}},
	}
}

func itemName(b *michaelbot.Bot, id string) string {
	if item, ok := b.Catalog.Get(id); ok {
		return item.Name
	}
	return id
}

func actionHandler(b *michaelbot.Bot, action economy.Action) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		msg, err := runAction(ctx, b, e.User().ID, e.User().Username, action)
		return respond(e, msg, err)
	}
}

func AdventureHandler(b *michaelbot.Bot) handler.CommandHandler {
	return actionHandler(b, economy.ActionAdventure)
}

func ChopHandler(b *michaelbot.Bot) handler.CommandHandler {
	return actionHandler(b, economy.ActionChop)
}

func MineHandler(b *michaelbot.Bot) handler.CommandHandler {
	return actionHandler(b, economy.ActionMine)
}

func runTravel(ctx context.Context, b *michaelbot.Bot, userID snowflake.ID, userName, world string) (discord.MessageCreate, error) {
	dst, ok := models.ParseWorld(world)
	if !ok {
		return discord.MessageCreate{}, errs.New(errs.Validation, "unknown world %q; overworld, nether or space", world)
	}
	if err := ensureUser(ctx, b, userID, userName); err != nil {
		return discord.MessageCreate{}, err
	}

	res, err := b.Economy.Travel(ctx, userID, dst)
	if err != nil {
		return discord.MessageCreate{}, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🌀 Welcome to the **%s**!\n", res.To)
	if res.PortalExpired {
		sb.WriteString("The portal flickers out behind you.\n")
	}
	for _, id := range res.DestroyedTools {
		fmt.Fprintf(&sb, "💥 Your %s shattered in the heat.\n", itemName(b, id))
	}
	return successEmbed(sb.String()), nil
}

func TravelToHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		msg, err := runTravel(ctx, b, e.User().ID, e.User().Username, e.SlashCommandInteractionData().String("world"))
		return respond(e, msg, err)
	}
}
