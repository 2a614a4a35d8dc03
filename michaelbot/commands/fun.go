package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/MikeJollie2707/michaelbot/michaelbot"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/MikeJollie2707/michaelbot/michaelbot/utils"
)

var DadJoke = discord.SlashCommandCreate{
	Name:        "dadjoke",
	Description: "👨 A random dad joke",
}

var Uwuify = discord.SlashCommandCreate{
	Name:        "uwuify",
	Description: "🥺 Uwuify some text",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "text",
			Description: "Text to mangle",
			Required:    true,
		},
	},
}

var Urban = discord.SlashCommandCreate{
	Name:        "urban",
	Description: "📖 Urban Dictionary lookup",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "term",
			Description: "What to look up",
			Required:    true,
		},
	},
}

var WeatherCmd = discord.SlashCommandCreate{
	Name:        "weather",
	Description: "🌤️ Current weather somewhere",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "location",
			Description: "City, area or coordinates",
			Required:    true,
		},
	},
}

func init() {
	Commands = append(Commands, DadJoke, Uwuify, Urban, WeatherCmd)
	registerPrefix(PrefixCommand{Name: "dadjoke", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return runDadJoke(ctx, b)
	}})
	registerPrefix(PrefixCommand{Name: "uwuify", Aliases: []string{"uwu"}, Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return runUwuify(ctx, b, strings.Join(pc.Args, " "))
	}})
	registerPrefix(PrefixCommand{Name: "urban", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return runUrban(ctx, b, strings.Join(pc.Args, " "))
	}})
	registerPrefix(PrefixCommand{Name: "weather", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return runWeather(ctx, b, strings.Join(pc.Args, " "))
	}})
}

func runDadJoke(ctx context.Context, b *michaelbot.Bot) (discord.MessageCreate, error) {
	joke, err := b.API.DadJoke(ctx)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	return infoEmbed("👨 Dad joke", joke), nil
}

func DadJokeHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		msg, err := runDadJoke(ctx, b)
		return respond(e, msg, err)
	}
}

func runUwuify(ctx context.Context, b *michaelbot.Bot, text string) (discord.MessageCreate, error) {
	if strings.TrimSpace(text) == "" {
		return discord.MessageCreate{}, errs.New(errs.Validation, "uwuify what?")
	}
	out, err := b.API.Uwuify(ctx, text)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	return infoEmbed("🥺 Uwu", utils.Truncate(out, 2000)), nil
}

func UwuifyHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		msg, err := runUwuify(ctx, b, e.SlashCommandInteractionData().String("text"))
		return respond(e, msg, err)
	}
}

func runUrban(ctx context.Context, b *michaelbot.Bot, term string) (discord.MessageCreate, error) {
	if strings.TrimSpace(term) == "" {
		return discord.MessageCreate{}, errs.New(errs.Validation, "look up what?")
	}
	entries, err := b.API.Urban(ctx, term)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	top := entries[0]
	desc := fmt.Sprintf("%s\n\n*%s*\n\n👍 %d · [permalink](%s)",
		utils.Truncate(top.Definition, 1200), utils.Truncate(top.Example, 400), top.ThumbsUp, top.Permalink)
	return infoEmbed("📖 "+top.Word, desc), nil
}

func UrbanHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		msg, err := runUrban(ctx, b, e.SlashCommandInteractionData().String("term"))
		return respond(e, msg, err)
	}
}

func runWeather(ctx context.Context, b *michaelbot.Bot, location string) (discord.MessageCreate, error) {
	if strings.TrimSpace(location) == "" {
		return discord.MessageCreate{}, errs.New(errs.Validation, "weather where?")
	}
	report, err := b.API.CurrentWeather(ctx, location)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	desc := fmt.Sprintf("**%s**\n%s\n🌡️ %.1f°C / %.1f°F\n💧 %d%% humidity\n💨 %.0f km/h wind",
		report.Location, report.Condition, report.TempC, report.TempF, report.Humidity, report.WindKph)
	return infoEmbed("🌤️ Weather", desc), nil
}

func WeatherHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		msg, err := runWeather(ctx, b, e.SlashCommandInteractionData().String("location"))
		return respond(e, msg, err)
	}
}
