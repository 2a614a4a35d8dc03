package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"

	"github.com/MikeJollie2707/michaelbot/michaelbot"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
)

func logEventChoices() []discord.ApplicationCommandOptionChoiceString {
	choices := []discord.ApplicationCommandOptionChoiceString{{Name: "all", Value: "all"}}
	for _, ev := range models.LogEvents {
		choices = append(choices, discord.ApplicationCommandOptionChoiceString{
			Name:  string(ev),
			Value: string(ev),
		})
	}
	return choices
}

var Logs = discord.SlashCommandCreate{
	Name:                     "logs",
	Description:              "📋 Configure server event logging",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionManageGuild),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "view",
			Description: "Show the current logging settings",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "channel",
			Description: "Send logs to this channel",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionChannel{
					Name:        "channel",
					Description: "Destination text channel",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "set",
			Description: "Turn an event on or off",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "event",
					Description: "Which event, or \"all\"",
					Required:    true,
					Choices:     logEventChoices(),
				},
				discord.ApplicationCommandOptionBool{
					Name:        "enabled",
					Description: "On or off",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "disable",
			Description: "Stop logging entirely",
		},
	},
}

func init() {
	Commands = append(Commands, Logs)
	registerPrefix(PrefixCommand{Name: "logs", Aliases: []string{"log"}, Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		if len(pc.Args) == 0 || pc.Args[0] == "view" {
			return runLogsView(b, pc.GuildID)
		}
		switch pc.Args[0] {
		case "channel":
			return discord.MessageCreate{}, errs.New(errs.Validation, "use /logs channel so you can pick the channel")
		case "set":
			if len(pc.Args) < 3 {
				return discord.MessageCreate{}, errs.New(errs.Validation, "logs set <event|all> <on|off>")
			}
			on := pc.Args[2] == "on" || pc.Args[2] == "true"
			return runLogsSet(ctx, b, pc.GuildID, pc.Args[1], on)
		case "disable":
			return runLogsDisable(ctx, b, pc.GuildID)
		}
		return discord.MessageCreate{}, errs.New(errs.Validation, "logs view, channel, set or disable?")
	}})
}

func runLogsView(b *michaelbot.Bot, guildID snowflake.ID) (discord.MessageCreate, error) {
	entry := b.Guilds.Get(guildID)
	if entry == nil || entry.Logs == nil {
		return infoEmbed("📋 Logging", "Logging has not been set up here. Use `/logs channel` to start."), nil
	}

	var sb strings.Builder
	if entry.Logs.LogChannel != nil {
		fmt.Fprintf(&sb, "**Channel:** <#%s>\n\n", *entry.Logs.LogChannel)
	} else {
		sb.WriteString("**Channel:** not set, nothing is delivered\n\n")
	}
	for _, ev := range models.LogEvents {
		mark := "❌"
		if entry.Logs.Enabled(ev) {
			mark = "✅"
		}
		fmt.Fprintf(&sb, "%s %s\n", mark, ev)
	}
	return infoEmbed("📋 Logging", sb.String()), nil
}

func runLogsChannel(ctx context.Context, b *michaelbot.Bot, guildID, channelID snowflake.ID) (discord.MessageCreate, error) {
	if entry := b.Guilds.Get(guildID); entry == nil || entry.Logs == nil {
		if _, err := b.Guilds.AddLogModule(ctx, guildID); err != nil {
			return discord.MessageCreate{}, err
		}
	}
	if err := b.Guilds.SetLogChannel(ctx, guildID, &channelID); err != nil {
		return discord.MessageCreate{}, err
	}
	return successEmbed(fmt.Sprintf("Logs now go to <#%s>.", channelID)), nil
}

func runLogsSet(ctx context.Context, b *michaelbot.Bot, guildID snowflake.ID, event string, on bool) (discord.MessageCreate, error) {
	state := "off"
	if on {
		state = "on"
	}
	if event == "all" {
		if err := b.Guilds.SetAllLogToggles(ctx, guildID, on); err != nil {
			return discord.MessageCreate{}, err
		}
		return successEmbed("Every log event is now " + state + "."), nil
	}

	ev := models.LogEvent(event)
	known := false
	for _, candidate := range models.LogEvents {
		if candidate == ev {
			known = true
			break
		}
	}
	if !known {
		return discord.MessageCreate{}, errs.New(errs.Validation, "unknown event %q, see /logs view for the list", event)
	}
	if err := b.Guilds.SetLogToggle(ctx, guildID, ev, on); err != nil {
		return discord.MessageCreate{}, err
	}
	return successEmbed(fmt.Sprintf("%s is now %s.", ev, state)), nil
}

func runLogsDisable(ctx context.Context, b *michaelbot.Bot, guildID snowflake.ID) (discord.MessageCreate, error) {
	if err := b.Guilds.SetLogChannel(ctx, guildID, nil); err != nil {
		return discord.MessageCreate{}, err
	}
	return successEmbed("Logging disabled. Settings are kept for when you turn it back on."), nil
}

func LogsHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		guildID, err := guildOnly(e)
		if err != nil {
			return respond(e, discord.MessageCreate{}, err)
		}
		data := e.SlashCommandInteractionData()
		var msg discord.MessageCreate
		switch *data.SubCommandName {
		case "view":
			msg, err = runLogsView(b, guildID)
		case "channel":
			msg, err = runLogsChannel(ctx, b, guildID, data.Channel("channel").ID)
		case "set":
			msg, err = runLogsSet(ctx, b, guildID, data.String("event"), data.Bool("enabled"))
		case "disable":
			msg, err = runLogsDisable(ctx, b, guildID)
		}
		return respond(e, msg, err)
	}
}
