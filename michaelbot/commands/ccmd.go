package commands

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"

	"github.com/MikeJollie2707/michaelbot/michaelbot"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
)

var ccmdNamePattern = regexp.MustCompile(`^[a-z0-9_-]{1,32}$`)

var CCmd = discord.SlashCommandCreate{
	Name:                     "ccmd",
	Description:              "🧩 Guild-defined canned commands",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionManageGuild),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "create",
			Description: "Define a new command",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "name",
					Description: "Command word, lowercase",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "message",
					Description: "What the command posts",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "description",
					Description: "Shown in ccmd list",
					Required:    false,
				},
				discord.ApplicationCommandOptionChannel{
					Name:        "channel",
					Description: "Always post into this channel",
					Required:    false,
				},
				discord.ApplicationCommandOptionBool{
					Name:        "reply",
					Description: "Post as a reply to the invoker",
					Required:    false,
				},
				discord.ApplicationCommandOptionRole{
					Name:        "add-role",
					Description: "Role given to the invoker",
					Required:    false,
				},
				discord.ApplicationCommandOptionRole{
					Name:        "remove-role",
					Description: "Role taken from the invoker",
					Required:    false,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "list",
			Description: "Commands defined in this server",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "remove",
			Description: "Delete a command",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "name",
					Description: "Command word",
					Required:    true,
				},
			},
		},
	},
}

func init() {
	Commands = append(Commands, CCmd)
	registerPrefix(PrefixCommand{Name: "ccmd", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		if len(pc.Args) == 0 || pc.Args[0] == "list" {
			return runCCmdList(ctx, b, pc.GuildID)
		}
		switch pc.Args[0] {
		case "create":
			// the slash surface carries the structured options
			return discord.MessageCreate{}, errs.New(errs.Validation, "use /ccmd create so the options come through cleanly")
		case "remove":
			if len(pc.Args) < 2 {
				return discord.MessageCreate{}, errs.New(errs.Validation, "remove which command?")
			}
			return runCCmdRemove(ctx, b, pc.GuildID, pc.Args[1])
		}
		return discord.MessageCreate{}, errs.New(errs.Validation, "ccmd create, list or remove?")
	}})
}

func runCCmdCreate(ctx context.Context, b *michaelbot.Bot, cmd *models.CustomCommand) (discord.MessageCreate, error) {
	if !ccmdNamePattern.MatchString(cmd.Name) {
		return discord.MessageCreate{}, errs.New(errs.Validation, "names are 1-32 lowercase letters, digits, - or _")
	}
	if _, ok := LookupPrefix(cmd.Name); ok {
		return discord.MessageCreate{}, errs.New(errs.Validation, "%q is a built-in command", cmd.Name)
	}
	existing, err := b.Store.CustomCmds().Get(ctx, cmd.GuildID, cmd.Name)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	if existing != nil {
		return discord.MessageCreate{}, errs.New(errs.Validation, "%q already exists, remove it first", cmd.Name)
	}
	if _, err := b.Store.CustomCmds().Insert(ctx, cmd); err != nil {
		return discord.MessageCreate{}, err
	}
	return successEmbed(fmt.Sprintf("Command `%s` created.", cmd.Name)), nil
}

func runCCmdList(ctx context.Context, b *michaelbot.Bot, guildID snowflake.ID) (discord.MessageCreate, error) {
	cmds, err := b.Store.CustomCmds().List(ctx, guildID)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	if len(cmds) == 0 {
		return infoEmbed("🧩 Custom commands", "None yet. `/ccmd create` makes one."), nil
	}
	var sb strings.Builder
	for _, cmd := range cmds {
		if cmd.Description != "" {
			fmt.Fprintf(&sb, "`%s` — %s\n", cmd.Name, cmd.Description)
		} else {
			fmt.Fprintf(&sb, "`%s`\n", cmd.Name)
		}
	}
	return infoEmbed("🧩 Custom commands", sb.String()), nil
}

func runCCmdRemove(ctx context.Context, b *michaelbot.Bot, guildID snowflake.ID, name string) (discord.MessageCreate, error) {
	n, err := b.Store.CustomCmds().Delete(ctx, guildID, name)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	if n == 0 {
		return discord.MessageCreate{}, errs.New(errs.NotFound, "no command named %q here", name)
	}
	return successEmbed(fmt.Sprintf("Command `%s` removed.", name)), nil
}

func CCmdHandler(b *michaelbot.Bot) handler.CommandHandler {
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
		case "create":
			cmd := &models.CustomCommand{
				GuildID: guildID,
				Name:    strings.ToLower(data.String("name")),
				Message: data.String("message"),
			}
			if desc, ok := data.OptString("description"); ok {
				cmd.Description = desc
			}
			if channel, ok := data.OptChannel("channel"); ok {
				cmd.Channel = &channel.ID
			}
			if reply, ok := data.OptBool("reply"); ok {
				cmd.IsReply = reply
			}
			if role, ok := data.OptRole("add-role"); ok {
				cmd.AddRoles = []snowflake.ID{role.ID}
			}
			if role, ok := data.OptRole("remove-role"); ok {
				cmd.RmvRoles = []snowflake.ID{role.ID}
			}
			msg, err = runCCmdCreate(ctx, b, cmd)
		case "list":
			msg, err = runCCmdList(ctx, b, guildID)
		case "remove":
			msg, err = runCCmdRemove(ctx, b, guildID, strings.ToLower(data.String("name")))
		}
		return respond(e, msg, err)
	}
}
