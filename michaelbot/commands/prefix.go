package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"

	"github.com/MikeJollie2707/michaelbot/michaelbot"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/logger"
	"github.com/MikeJollie2707/michaelbot/michaelbot/utils"
)

// PrefixDispatcher returns the listener that turns guild messages
// starting with the guild's prefix into command invocations. Built-in
// commands win over guild-defined custom commands of the same name.
func PrefixDispatcher(b *michaelbot.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(event *events.MessageCreate) {
		if event.Message.Author.Bot || event.GuildID == nil {
			return
		}
		prefix := b.Guilds.Prefix(*event.GuildID)
		if prefix == "" || !strings.HasPrefix(event.Message.Content, prefix) {
			return
		}
		fields := strings.Fields(strings.TrimPrefix(event.Message.Content, prefix))
		if len(fields) == 0 {
			return
		}
		name := strings.ToLower(fields[0])
		pc := PrefixContext{
			GuildID:   *event.GuildID,
			ChannelID: event.ChannelID,
			Author:    event.Message.Author,
			Args:      fields[1:],
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			start := time.Now()
			var err error
			if cmd, ok := LookupPrefix(name); ok {
				err = dispatchBuiltin(ctx, b, cmd, event, pc)
			} else {
				err = dispatchCustom(ctx, b, event, pc, name)
				if err == nil {
					return
				}
			}
			logger.LogCommand(name, time.Since(start), err)
			b.Logging.LogCommand(pc.GuildID, pc.Author.ID, name, err)
		}()
	})
}

func dispatchBuiltin(ctx context.Context, b *michaelbot.Bot, cmd *PrefixCommand, event *events.MessageCreate, pc PrefixContext) error {
	msg, err := cmd.Run(ctx, b, pc)
	if err != nil {
		msg = discord.MessageCreate{Embeds: []discord.Embed{utils.ErrorEmbed(err)}}
	}
	msg.MessageReference = &discord.MessageReference{
		MessageID: &event.MessageID,
		ChannelID: &event.ChannelID,
		GuildID:   event.GuildID,
	}
	if _, sendErr := b.Client.Rest().CreateMessage(event.ChannelID, msg); sendErr != nil {
		slog.Error("Failed to send prefix command reply",
			slog.String("command", cmd.Name), slog.Any("error", sendErr))
	}
	return err
}

// dispatchCustom runs a guild-defined command: posts the stored
// message and applies its role changes to the invoker.
func dispatchCustom(ctx context.Context, b *michaelbot.Bot, event *events.MessageCreate, pc PrefixContext, name string) error {
	cmd, err := b.Store.CustomCmds().Get(ctx, pc.GuildID, name)
	if err != nil || cmd == nil {
		// unknown words are not commands, stay quiet
		return err
	}

	channelID := pc.ChannelID
	if cmd.Channel != nil {
		channelID = *cmd.Channel
	}
	msg := discord.MessageCreate{Content: cmd.Message}
	// replying only makes sense in the channel the invocation happened in
	if cmd.IsReply && channelID == pc.ChannelID {
		msg.MessageReference = &discord.MessageReference{
			MessageID: &event.MessageID,
			ChannelID: &event.ChannelID,
			GuildID:   event.GuildID,
		}
	}
	if _, err := b.Client.Rest().CreateMessage(channelID, msg); err != nil {
		return err
	}

	applyRoleChanges(b, pc.GuildID, pc.Author.ID, cmd)
	return nil
}

func applyRoleChanges(b *michaelbot.Bot, guildID, userID snowflake.ID, cmd *models.CustomCommand) {
	for _, roleID := range cmd.AddRoles {
		if err := b.Client.Rest().AddMemberRole(guildID, userID, roleID); err != nil {
			slog.Error("Custom command failed to add role",
				slog.String("command", cmd.Name), slog.String("role_id", roleID.String()), slog.Any("error", err))
		}
	}
	for _, roleID := range cmd.RmvRoles {
		if err := b.Client.Rest().RemoveMemberRole(guildID, userID, roleID); err != nil {
			slog.Error("Custom command failed to remove role",
				slog.String("command", cmd.Name), slog.String("role_id", roleID.String()), slog.Any("error", err))
		}
	}
}
