package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"

	"github.com/MikeJollie2707/michaelbot/michaelbot"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/MikeJollie2707/michaelbot/michaelbot/utils"
)

var Ban = discord.SlashCommandCreate{
	Name:                     "ban",
	Description:              "🔨 Ban a member",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionBanMembers),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "Member to ban",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "reason",
			Description: "Why",
			Required:    false,
		},
	},
}

var Hackban = discord.SlashCommandCreate{
	Name:                     "hackban",
	Description:              "🔨 Ban by user id, even if they already left",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionBanMembers),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "id",
			Description: "User id to ban",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "reason",
			Description: "Why",
			Required:    false,
		},
	},
}

var Unban = discord.SlashCommandCreate{
	Name:                     "unban",
	Description:              "🕊️ Lift a ban by user id",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionBanMembers),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "id",
			Description: "User id to unban",
			Required:    true,
		},
	},
}

var Kick = discord.SlashCommandCreate{
	Name:                     "kick",
	Description:              "👢 Kick a member",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionKickMembers),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "Member to kick",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "reason",
			Description: "Why",
			Required:    false,
		},
	},
}

var Tempmute = discord.SlashCommandCreate{
	Name:                     "tempmute",
	Description:              "🔇 Time a member out, lifted automatically",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionModerateMembers),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "Member to mute",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "duration",
			Description: "How long, like 1d2h30m or \"2 hours\"",
			Required:    true,
		},
	},
}

var Unmute = discord.SlashCommandCreate{
	Name:                     "unmute",
	Description:              "🔊 Lift a temp mute early",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionModerateMembers),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "Member to unmute",
			Required:    true,
		},
	},
}

func init() {
	Commands = append(Commands, Ban, Hackban, Unban, Kick, Tempmute, Unmute)
	registerPrefix(PrefixCommand{Name: "ban", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		target, rest, err := targetFromArgs(pc.Args)
		if err != nil {
			return discord.MessageCreate{}, err
		}
		return runBan(ctx, b, pc.GuildID, target, strings.Join(rest, " "))
	}})
	registerPrefix(PrefixCommand{Name: "hackban", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		target, rest, err := targetFromArgs(pc.Args)
		if err != nil {
			return discord.MessageCreate{}, err
		}
		return runBan(ctx, b, pc.GuildID, target, strings.Join(rest, " "))
	}})
	registerPrefix(PrefixCommand{Name: "unban", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		target, _, err := targetFromArgs(pc.Args)
		if err != nil {
			return discord.MessageCreate{}, err
		}
		return runUnban(ctx, b, pc.GuildID, target)
	}})
	registerPrefix(PrefixCommand{Name: "kick", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		target, rest, err := targetFromArgs(pc.Args)
		if err != nil {
			return discord.MessageCreate{}, err
		}
		return runKick(ctx, b, pc.GuildID, target, strings.Join(rest, " "))
	}})
	registerPrefix(PrefixCommand{Name: "tempmute", Aliases: []string{"mute"}, Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		target, rest, err := targetFromArgs(pc.Args)
		if err != nil {
			return discord.MessageCreate{}, err
		}
		if len(rest) == 0 {
			return discord.MessageCreate{}, errs.New(errs.Validation, "mute for how long?")
		}
		return runTempmute(ctx, b, pc.GuildID, target, strings.Join(rest, " "))
	}})
	registerPrefix(PrefixCommand{Name: "unmute", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		target, _, err := targetFromArgs(pc.Args)
		if err != nil {
			return discord.MessageCreate{}, err
		}
		return runUnmute(ctx, b, pc.GuildID, target)
	}})
}

// targetFromArgs reads a mention or raw id from the first argument and
// returns the remaining arguments.
func targetFromArgs(args []string) (snowflake.ID, []string, error) {
	if len(args) == 0 {
		return 0, nil, errs.New(errs.Validation, "who?")
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(strings.TrimPrefix(args[0], "<@"), "!"), "&"), ">")
	id, err := snowflake.Parse(raw)
	if err != nil {
		return 0, nil, errs.New(errs.Validation, "mention someone or give their id")
	}
	return id, args[1:], nil
}

func reasonOpts(reason string) []rest.RequestOpt {
	if reason == "" {
		return nil
	}
	return []rest.RequestOpt{rest.WithReason(reason)}
}

func runBan(ctx context.Context, b *michaelbot.Bot, guildID, userID snowflake.ID, reason string) (discord.MessageCreate, error) {
	if err := b.Client.Rest().AddBan(guildID, userID, 0, reasonOpts(reason)...); err != nil {
		return discord.MessageCreate{}, errs.Wrap(errs.Upstream, err, "couldn't ban that user")
	}
	return successEmbed(fmt.Sprintf("Banned <@%s>.", userID)), nil
}

func runUnban(ctx context.Context, b *michaelbot.Bot, guildID, userID snowflake.ID) (discord.MessageCreate, error) {
	if err := b.Client.Rest().DeleteBan(guildID, userID); err != nil {
		return discord.MessageCreate{}, errs.Wrap(errs.Upstream, err, "couldn't unban that user")
	}
	return successEmbed(fmt.Sprintf("Unbanned <@%s>.", userID)), nil
}

func runKick(ctx context.Context, b *michaelbot.Bot, guildID, userID snowflake.ID, reason string) (discord.MessageCreate, error) {
	if err := b.Client.Rest().RemoveMember(guildID, userID, reasonOpts(reason)...); err != nil {
		return discord.MessageCreate{}, errs.Wrap(errs.Upstream, err, "couldn't kick that user")
	}
	return successEmbed(fmt.Sprintf("Kicked <@%s>.", userID)), nil
}

func runTempmute(ctx context.Context, b *michaelbot.Bot, guildID, userID snowflake.ID, durationInput string) (discord.MessageCreate, error) {
	d, err := utils.ParseInterval(durationInput, time.Now())
	if err != nil {
		return discord.MessageCreate{}, err
	}
	mute, err := b.Mutes.Mute(ctx, guildID, userID, d)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	if err := b.ApplyMute(ctx, guildID, userID, mute.Expire); err != nil {
		return discord.MessageCreate{}, errs.Wrap(errs.Upstream, err, "mute recorded but the timeout didn't apply")
	}
	return successEmbed(fmt.Sprintf("Muted <@%s> until %s.", userID, utils.Timestamp(mute.Expire))), nil
}

func runUnmute(ctx context.Context, b *michaelbot.Bot, guildID, userID snowflake.ID) (discord.MessageCreate, error) {
	if err := b.Mutes.Lift(ctx, guildID, userID); err != nil {
		return discord.MessageCreate{}, err
	}
	// the record is gone, so also clear the timeout right away
	if err := b.Unmute(ctx, guildID, userID); err != nil {
		return discord.MessageCreate{}, errs.Wrap(errs.Upstream, err, "mute record removed but the timeout didn't clear")
	}
	return successEmbed(fmt.Sprintf("Unmuted <@%s>.", userID)), nil
}

func guildOnly(e *handler.CommandEvent) (snowflake.ID, error) {
	if e.GuildID() == nil {
		return 0, errs.New(errs.Validation, "this only works in a server")
	}
	return *e.GuildID(), nil
}

func BanHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		guildID, err := guildOnly(e)
		if err != nil {
			return respond(e, discord.MessageCreate{}, err)
		}
		data := e.SlashCommandInteractionData()
		reason, _ := data.OptString("reason")
		msg, err := runBan(ctx, b, guildID, data.User("user").ID, reason)
		return respond(e, msg, err)
	}
}

func HackbanHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		guildID, err := guildOnly(e)
		if err != nil {
			return respond(e, discord.MessageCreate{}, err)
		}
		data := e.SlashCommandInteractionData()
		userID, err := snowflake.Parse(data.String("id"))
		if err != nil {
			return respond(e, discord.MessageCreate{}, errs.New(errs.Validation, "that doesn't look like a user id"))
		}
		reason, _ := data.OptString("reason")
		msg, err := runBan(ctx, b, guildID, userID, reason)
		return respond(e, msg, err)
	}
}

func UnbanHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		guildID, err := guildOnly(e)
		if err != nil {
			return respond(e, discord.MessageCreate{}, err)
		}
		userID, err := snowflake.Parse(e.SlashCommandInteractionData().String("id"))
		if err != nil {
			return respond(e, discord.MessageCreate{}, errs.New(errs.Validation, "that doesn't look like a user id"))
		}
		msg, err := runUnban(ctx, b, guildID, userID)
		return respond(e, msg, err)
	}
}

func KickHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		guildID, err := guildOnly(e)
		if err != nil {
			return respond(e, discord.MessageCreate{}, err)
		}
		data := e.SlashCommandInteractionData()
		reason, _ := data.OptString("reason")
		msg, err := runKick(ctx, b, guildID, data.User("user").ID, reason)
		return respond(e, msg, err)
	}
}

func TempmuteHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		guildID, err := guildOnly(e)
		if err != nil {
			return respond(e, discord.MessageCreate{}, err)
		}
		data := e.SlashCommandInteractionData()
		msg, err := runTempmute(ctx, b, guildID, data.User("user").ID, data.String("duration"))
		return respond(e, msg, err)
	}
}

func UnmuteHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		guildID, err := guildOnly(e)
		if err != nil {
			return respond(e, discord.MessageCreate{}, err)
		}
		msg, err := runUnmute(ctx, b, guildID, e.SlashCommandInteractionData().User("user").ID)
		return respond(e, msg, err)
	}
}
