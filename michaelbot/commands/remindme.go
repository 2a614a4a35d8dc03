package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/MikeJollie2707/michaelbot/michaelbot"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/MikeJollie2707/michaelbot/michaelbot/utils"
)

var RemindMe = discord.SlashCommandCreate{
	Name:        "remindme",
	Description: "⏰ DM reminders",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "create",
			Description: "Set a reminder",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "when",
					Description: "How long from now, like 1d2h30m or \"tomorrow\"",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "message",
					Description: "What to remind you of",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "view",
			Description: "List your pending reminders",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "remove",
			Description: "Cancel a reminder",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionInt{
					Name:        "id",
					Description: "Reminder id from /remindme view",
					Required:    true,
				},
			},
		},
	},
}

func init() {
	Commands = append(Commands, RemindMe)
	registerPrefix(PrefixCommand{Name: "remindme", Aliases: []string{"remind"}, Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		if len(pc.Args) == 0 || pc.Args[0] == "view" {
			return runReminderView(ctx, b, pc.Author.ID)
		}
		if pc.Args[0] == "remove" {
			if len(pc.Args) < 2 {
				return discord.MessageCreate{}, errs.New(errs.Validation, "remove which reminder id?")
			}
			id, err := strconv.ParseInt(pc.Args[1], 10, 64)
			if err != nil {
				return discord.MessageCreate{}, errs.New(errs.Validation, "the id must be a number")
			}
			return runReminderRemove(ctx, b, pc.Author.ID, id)
		}
		// "remindme 2h30m water the plants"
		if len(pc.Args) < 2 {
			return discord.MessageCreate{}, errs.New(errs.Validation, "remind you of what?")
		}
		return runReminderCreate(ctx, b, pc.Author.ID, pc.Args[0], strings.Join(pc.Args[1:], " "))
	}})
}

func runReminderCreate(ctx context.Context, b *michaelbot.Bot, userID snowflake.ID, when, message string) (discord.MessageCreate, error) {
	in, err := utils.ParseInterval(when, time.Now())
	if err != nil {
		return discord.MessageCreate{}, err
	}
	reminder, err := b.Reminders.Create(ctx, userID, in, message)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	return successEmbed(fmt.Sprintf("Got it, I'll DM you %s.", utils.Timestamp(reminder.AwakeTime))), nil
}

func runReminderView(ctx context.Context, b *michaelbot.Bot, userID snowflake.ID) (discord.MessageCreate, error) {
	pending, err := b.Reminders.List(ctx, userID)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	if len(pending) == 0 {
		return infoEmbed("⏰ Reminders", "Nothing pending."), nil
	}
	var sb strings.Builder
	for _, reminder := range pending {
		fmt.Fprintf(&sb, "**#%d** %s — %s\n", reminder.RemindID, utils.Timestamp(reminder.AwakeTime), utils.Truncate(reminder.Message, 80))
	}
	return infoEmbed("⏰ Reminders", sb.String()), nil
}

func runReminderRemove(ctx context.Context, b *michaelbot.Bot, userID snowflake.ID, id int64) (discord.MessageCreate, error) {
	if err := b.Reminders.Remove(ctx, userID, id); err != nil {
		return discord.MessageCreate{}, err
	}
	return successEmbed(fmt.Sprintf("Reminder #%d canceled.", id)), nil
}

func RemindMeHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		data := e.SlashCommandInteractionData()
		var msg discord.MessageCreate
		var err error
		switch *data.SubCommandName {
		case "create":
			msg, err = runReminderCreate(ctx, b, e.User().ID, data.String("when"), data.String("message"))
		case "view":
			msg, err = runReminderView(ctx, b, e.User().ID)
		case "remove":
			msg, err = runReminderRemove(ctx, b, e.User().ID, int64(data.Int("id")))
		}
		return respond(e, msg, err)
	}
}
