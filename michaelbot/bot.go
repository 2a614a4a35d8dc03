package michaelbot

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	discache "github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/json"
	"github.com/disgoorg/paginator"
	"github.com/disgoorg/snowflake/v2"

	"github.com/MikeJollie2707/michaelbot/michaelbot/api"
	"github.com/MikeJollie2707/michaelbot/michaelbot/cache"
	"github.com/MikeJollie2707/michaelbot/michaelbot/catalog"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/repositories"
	"github.com/MikeJollie2707/michaelbot/michaelbot/economy"
	"github.com/MikeJollie2707/michaelbot/michaelbot/logging"
	"github.com/MikeJollie2707/michaelbot/michaelbot/moderation"
	"github.com/MikeJollie2707/michaelbot/michaelbot/music"
	"github.com/MikeJollie2707/michaelbot/michaelbot/reminders"
	"github.com/MikeJollie2707/michaelbot/michaelbot/scheduler"
	"github.com/MikeJollie2707/michaelbot/michaelbot/utils"
)

func New(cfg Config, version string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
	}
}

// Bot bundles every subsystem; handlers receive it explicitly instead
// of reaching for globals.
type Bot struct {
	Cfg       Config
	Client    bot.Client
	Paginator *paginator.Manager
	Version   string

	DB        *database.DB
	Store     repositories.Store
	Catalog   *catalog.Catalog
	Guilds    *cache.Guilds
	Users     *cache.Users
	Scheduler *scheduler.Scheduler
	Economy   *economy.Engine
	Reminders *reminders.Service
	Mutes     *moderation.Service
	Music     *music.Manager
	Logging   *logging.Pipeline
	API       *api.Client
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	listeners = append(listeners,
		b.Paginator,
		bot.NewListenerFunc(b.OnReady),
		bot.NewListenerFunc(b.onGuildJoin),
		bot.NewListenerFunc(b.onGuildLeave),
		bot.NewListenerFunc(b.onVoiceServerUpdate),
		bot.NewListenerFunc(b.onVoiceStateUpdate),
	)
	listeners = append(listeners, b.Logging.Listeners()...)

	client, err := disgo.New(b.Cfg.Secrets.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMembers,
				gateway.IntentGuildMessages,
				gateway.IntentMessageContent,
				gateway.IntentGuildVoiceStates,
				gateway.IntentGuildModeration,
			),
			// the logging pipeline reads bulk deletes off the raw feed
			gateway.WithEnableRawEvents(true),
		),
		bot.WithCacheConfigOpts(discache.WithCaches(
			discache.FlagGuilds,
			discache.FlagChannels,
			discache.FlagRoles,
			discache.FlagMembers,
			discache.FlagVoiceStates,
		)),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	b.Logging.SetClient(client)
	return nil
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("MichaelBot is now ready",
		slog.String("version", b.Version),
		slog.String("profile", b.Cfg.ProfileName))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithListeningActivity(b.Cfg.Profile.Prefix+"help"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence", slog.Any("error", err))
	}
}

// onGuildJoin seeds the cache rows for a newly joined guild.
func (b *Bot) onGuildJoin(event *events.GuildJoin) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := b.Guilds.Add(ctx, event.Guild.ID, event.Guild.Name); err != nil {
		slog.Error("Failed to register guild", slog.Any("error", err), slog.String("guild_id", event.Guild.ID.String()))
		return
	}
	if _, err := b.Guilds.AddLogModule(ctx, event.Guild.ID); err != nil {
		slog.Error("Failed to seed log settings", slog.Any("error", err), slog.String("guild_id", event.Guild.ID.String()))
	}
}

func (b *Bot) onGuildLeave(event *events.GuildLeave) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := b.Guilds.Remove(ctx, event.Guild.ID); err != nil {
		slog.Error("Failed to drop guild", slog.Any("error", err), slog.String("guild_id", event.Guild.ID.String()))
	}
}

// MemberIDs lists the guild members currently in the platform cache.
func (b *Bot) MemberIDs(guildID snowflake.ID) []snowflake.ID {
	var ids []snowflake.ID
	b.Client.Caches().MembersForEach(guildID, func(member discord.Member) {
		ids = append(ids, member.User.ID)
	})
	return ids
}

// ApplyMute times the member out until the given moment. Discord caps
// timeouts at 28 days; the mute sweep lifts longer mutes on schedule.
func (b *Bot) ApplyMute(ctx context.Context, guildID, userID snowflake.ID, until time.Time) error {
	if cap := time.Now().Add(28 * 24 * time.Hour); until.After(cap) {
		until = cap
	}
	_, err := b.Client.Rest().UpdateMember(guildID, userID, discord.MemberUpdate{
		CommunicationDisabledUntil: json.NewNullablePtr(until),
	}, rest.WithCtx(ctx))
	return err
}

// Unmute clears the member's timeout. It satisfies moderation.Unmuter.
func (b *Bot) Unmute(ctx context.Context, guildID, userID snowflake.ID) error {
	_, err := b.Client.Rest().UpdateMember(guildID, userID, discord.MemberUpdate{
		CommunicationDisabledUntil: json.NullPtr[time.Time](),
	}, rest.WithCtx(ctx))
	return err
}

// Notify DMs the user their reminder. It satisfies reminders.Notifier.
func (b *Bot) Notify(ctx context.Context, userID snowflake.ID, message string, setAt time.Time) error {
	channel, err := b.Client.Rest().CreateDMChannel(userID, rest.WithCtx(ctx))
	if err != nil {
		return err
	}
	_, err = b.Client.Rest().CreateMessage(channel.ID(), discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       "⏰ Reminder",
			Description: message,
			Color:       utils.InfoColor,
			Footer:      &discord.EmbedFooter{Text: "Set " + setAt.Format("Jan 2, 2006 15:04 MST")},
		}},
	}, rest.WithCtx(ctx))
	return err
}

// Voice events are forwarded to the audio relay.
func (b *Bot) onVoiceServerUpdate(event *events.VoiceServerUpdate) {
	if event.Endpoint == nil {
		return
	}
	b.Music.OnVoiceServerUpdate(context.Background(), event.GuildID, event.Token, *event.Endpoint)
}

func (b *Bot) onVoiceStateUpdate(event *events.GuildVoiceStateUpdate) {
	if event.VoiceState.UserID != b.Client.ApplicationID() {
		return
	}
	b.Music.OnVoiceStateUpdate(context.Background(), event.VoiceState.GuildID, event.VoiceState.ChannelID, event.VoiceState.SessionID)
}
