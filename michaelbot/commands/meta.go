package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/MikeJollie2707/michaelbot/michaelbot"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/MikeJollie2707/michaelbot/michaelbot/utils"
)

var started = time.Now()

var Help = discord.SlashCommandCreate{
	Name:        "help",
	Description: "❓ List every command",
}

var Info = discord.SlashCommandCreate{
	Name:        "info",
	Description: "ℹ️ About this bot",
}

var Ping = discord.SlashCommandCreate{
	Name:        "ping",
	Description: "🏓 Gateway latency",
}

var Prefix = discord.SlashCommandCreate{
	Name:        "prefix",
	Description: "🔤 View or change the prefix for this server",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "new",
			Description: "New prefix, at most 5 characters",
			Required:    false,
		},
	},
}

var Report = discord.SlashCommandCreate{
	Name:        "report",
	Description: "🐛 Send the developers a bug report or suggestion",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "kind",
			Description: "What kind of report",
			Required:    true,
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "bug", Value: "bug"},
				{Name: "suggest", Value: "suggest"},
			},
		},
		discord.ApplicationCommandOptionString{
			Name:        "text",
			Description: "What happened, or what you'd like",
			Required:    true,
		},
	},
}

var Changelog = discord.SlashCommandCreate{
	Name:        "changelog",
	Description: "📰 What changed recently",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "branch",
			Description: "Release line",
			Required:    false,
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "stable", Value: "stable"},
				{Name: "dev", Value: "dev"},
			},
		},
	},
}

func init() {
	Commands = append(Commands, Help, Info, Ping, Prefix, Report, Changelog)
	registerPrefix(PrefixCommand{Name: "help", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return runHelp(b, b.Guilds.Prefix(pc.GuildID)), nil
	}})
	registerPrefix(PrefixCommand{Name: "info", Aliases: []string{"about"}, Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return runInfo(b), nil
	}})
	registerPrefix(PrefixCommand{Name: "ping", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return runPing(b), nil
	}})
	registerPrefix(PrefixCommand{Name: "prefix", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		next := ""
		if len(pc.Args) > 0 {
			next = pc.Args[0]
		}
		return runPrefix(ctx, b, pc.GuildID, next)
	}})
	registerPrefix(PrefixCommand{Name: "report", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		if len(pc.Args) < 2 {
			return discord.MessageCreate{}, errs.New(errs.Validation, "report <bug|suggest> <text>")
		}
		return runReport(ctx, b, pc.Author, pc.Args[0], strings.Join(pc.Args[1:], " "))
	}})
	registerPrefix(PrefixCommand{Name: "changelog", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		branch := "stable"
		if len(pc.Args) > 0 {
			branch = pc.Args[0]
		}
		return runChangelog(branch)
	}})
}

func runHelp(b *michaelbot.Bot, prefix string) discord.MessageCreate {
	names := make([]string, 0, len(prefixCommands))
	seen := map[string]bool{}
	for _, cmd := range prefixCommands {
		if seen[cmd.Name] {
			continue
		}
		seen[cmd.Name] = true
		entry := "`" + cmd.Name + "`"
		if len(cmd.Aliases) > 0 {
			entry += " (" + strings.Join(cmd.Aliases, ", ") + ")"
		}
		names = append(names, entry)
	}
	sort.Strings(names)

	desc := fmt.Sprintf("Prefix here: `%s`. Every command also works as a slash command.\n\n%s",
		prefix, strings.Join(names, " · "))
	return infoEmbed("❓ Commands", desc)
}

func HelpHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		prefix := b.Cfg.Profile.Prefix
		if e.GuildID() != nil {
			prefix = b.Guilds.Prefix(*e.GuildID())
		}
		return respond(e, runHelp(b, prefix), nil)
	}
}

func runInfo(b *michaelbot.Bot) discord.MessageCreate {
	desc := fmt.Sprintf("%s\n\n**Version:** %s\n**Uptime:** %s\n**Servers:** %d",
		b.Cfg.Profile.Description, b.Version,
		utils.FormatDuration(time.Since(started)), len(b.Guilds.All()))
	return infoEmbed("ℹ️ MichaelBot", desc)
}

func InfoHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return respond(e, runInfo(b), nil)
	}
}

func runPing(b *michaelbot.Bot) discord.MessageCreate {
	return infoEmbed("🏓 Pong!", fmt.Sprintf("Gateway: %dms", b.Client.Gateway().Latency().Milliseconds()))
}

func PingHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return respond(e, runPing(b), nil)
	}
}

func runPrefix(ctx context.Context, b *michaelbot.Bot, guildID snowflake.ID, next string) (discord.MessageCreate, error) {
	if next == "" {
		return infoEmbed("🔤 Prefix", fmt.Sprintf("The prefix here is `%s`.", b.Guilds.Prefix(guildID))), nil
	}
	if len(next) > 5 {
		return discord.MessageCreate{}, errs.New(errs.Validation, "keep the prefix to 5 characters or fewer")
	}
	if err := b.Guilds.SetPrefix(ctx, guildID, next); err != nil {
		return discord.MessageCreate{}, err
	}
	return successEmbed(fmt.Sprintf("Prefix changed to `%s`.", next)), nil
}

func PrefixHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		guildID, err := guildOnly(e)
		if err != nil {
			return respond(e, discord.MessageCreate{}, err)
		}
		next, _ := e.SlashCommandInteractionData().OptString("new")
		msg, err := runPrefix(ctx, b, guildID, next)
		return respond(e, msg, err)
	}
}

func runReport(ctx context.Context, b *michaelbot.Bot, author discord.User, kind, text string) (discord.MessageCreate, error) {
	if kind != "bug" && kind != "suggest" {
		return discord.MessageCreate{}, errs.New(errs.Validation, "report <bug|suggest> <text>")
	}
	if b.Cfg.Secrets.ReportChannel == 0 {
		return discord.MessageCreate{}, errs.New(errs.Precondition, "reports aren't set up on this instance, sorry")
	}

	title := "🐛 Bug report"
	if kind == "suggest" {
		title = "💡 Suggestion"
	}
	_, err := b.Client.Rest().CreateMessage(b.Cfg.Secrets.ReportChannel, discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       title,
			Description: utils.Truncate(text, 2000),
			Color:       utils.WarningColor,
			Footer:      &discord.EmbedFooter{Text: fmt.Sprintf("%s (%s)", author.Username, author.ID)},
		}},
	})
	if err != nil {
		return discord.MessageCreate{}, errs.Wrap(errs.Upstream, err, "couldn't deliver the report")
	}
	return successEmbed("Thanks, the report went through!"), nil
}

func ReportHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		data := e.SlashCommandInteractionData()
		msg, err := runReport(ctx, b, e.User(), data.String("kind"), data.String("text"))
		return respond(e, msg, err)
	}
}

var changelogs = map[string][]string{
	"stable": {
		"**1.0.0** — first public release: economy, reminders, logging, music.",
	},
	"dev": {
		"**1.1.0-dev** — barter board tuning, potion stack fixes.",
	},
}

func runChangelog(branch string) (discord.MessageCreate, error) {
	entries, ok := changelogs[branch]
	if !ok {
		return discord.MessageCreate{}, errs.New(errs.Validation, "changelog stable or changelog dev?")
	}
	return infoEmbed("📰 Changelog ("+branch+")", strings.Join(entries, "\n")), nil
}

func ChangelogHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		branch, ok := e.SlashCommandInteractionData().OptString("branch")
		if !ok {
			branch = "stable"
		}
		msg, err := runChangelog(branch)
		return respond(e, msg, err)
	}
}
