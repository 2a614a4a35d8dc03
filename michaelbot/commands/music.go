package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"

	"github.com/MikeJollie2707/michaelbot/michaelbot"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/MikeJollie2707/michaelbot/michaelbot/music"
)

var Join = discord.SlashCommandCreate{
	Name:        "join",
	Description: "🎧 Join your voice channel",
}

var Leave = discord.SlashCommandCreate{
	Name:        "leave",
	Description: "👋 Leave the voice channel",
}

var Play = discord.SlashCommandCreate{
	Name:        "play",
	Description: "🎵 Play a track or playlist",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "query",
			Description: "URL or search terms",
			Required:    true,
		},
	},
}

var Search = discord.SlashCommandCreate{
	Name:        "search",
	Description: "🔎 Search without playing",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "query",
			Description: "Search terms",
			Required:    true,
		},
	},
}

var Pause = discord.SlashCommandCreate{
	Name:        "pause",
	Description: "⏯️ Pause or resume",
}

var Seek = discord.SlashCommandCreate{
	Name:        "seek",
	Description: "⏩ Jump to a position in the current track",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "position",
			Description: "Like 1m30s, or plain seconds",
			Required:    true,
		},
	},
}

var Repeat = discord.SlashCommandCreate{
	Name:        "repeat",
	Description: "🔂 Toggle repeating the current track",
}

var Volume = discord.SlashCommandCreate{
	Name:        "volume",
	Description: "🔊 Set playback volume",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{
			Name:        "level",
			Description: "0 to 200",
			Required:    true,
			MinValue:    intPtr(music.MinVolume),
			MaxValue:    intPtr(music.MaxVolume),
		},
	},
}

var QueueCmd = discord.SlashCommandCreate{
	Name:        "queue",
	Description: "📃 Manage the track queue",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "view",
			Description: "Show the queue",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "clear",
			Description: "Drop every queued track",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "shuffle",
			Description: "Shuffle the queue",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "loop",
			Description: "Toggle re-queueing finished tracks",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "move",
			Description: "Move a track to another spot",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionInt{
					Name:        "from",
					Description: "Current position",
					Required:    true,
					MinValue:    intPtr(1),
				},
				discord.ApplicationCommandOptionInt{
					Name:        "to",
					Description: "New position",
					Required:    true,
					MinValue:    intPtr(1),
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "remove",
			Description: "Remove one queued track",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionInt{
					Name:        "position",
					Description: "Queue position",
					Required:    true,
					MinValue:    intPtr(1),
				},
			},
		},
	},
}

var Skip = discord.SlashCommandCreate{
	Name:        "skip",
	Description: "⏭️ Skip to the next track",
}

var Stop = discord.SlashCommandCreate{
	Name:        "stop",
	Description: "⏹️ Stop playback, keeping the queue",
}

func init() {
	Commands = append(Commands, Join, Leave, Play, Search, Pause, Seek, Repeat, Volume, QueueCmd, Skip, Stop)
	registerPrefix(PrefixCommand{Name: "join", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return runJoin(ctx, b, pc.GuildID, pc.Author.ID, pc.ChannelID)
	}})
	registerPrefix(PrefixCommand{Name: "leave", Aliases: []string{"dc"}, Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return runLeave(ctx, b, pc.GuildID)
	}})
	registerPrefix(PrefixCommand{Name: "play", Aliases: []string{"p"}, Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return runPlay(ctx, b, pc.GuildID, pc.ChannelID, strings.Join(pc.Args, " "))
	}})
	registerPrefix(PrefixCommand{Name: "search", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return runSearch(ctx, b, strings.Join(pc.Args, " "))
	}})
	registerPrefix(PrefixCommand{Name: "pause", Aliases: []string{"resume"}, Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return runPause(ctx, b, pc.GuildID)
	}})
	registerPrefix(PrefixCommand{Name: "seek", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		if len(pc.Args) == 0 {
			return discord.MessageCreate{}, errs.New(errs.Validation, "seek to where? try 1m30s")
		}
		return runSeek(ctx, b, pc.GuildID, pc.Args[0])
	}})
	registerPrefix(PrefixCommand{Name: "repeat", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return runRepeat(b, pc.GuildID)
	}})
	registerPrefix(PrefixCommand{Name: "volume", Aliases: []string{"vol"}, Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		if len(pc.Args) == 0 {
			return discord.MessageCreate{}, errs.New(errs.Validation, "volume 0-200")
		}
		level, err := strconv.Atoi(pc.Args[0])
		if err != nil {
			return discord.MessageCreate{}, errs.New(errs.Validation, "volume must be a number")
		}
		return runVolume(ctx, b, pc.GuildID, level)
	}})
	registerPrefix(PrefixCommand{Name: "queue", Aliases: []string{"q"}, Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		sub := "view"
		if len(pc.Args) > 0 {
			sub = pc.Args[0]
		}
		from, to := 0, 0
		if len(pc.Args) > 1 {
			from, _ = strconv.Atoi(pc.Args[1])
		}
		if len(pc.Args) > 2 {
			to, _ = strconv.Atoi(pc.Args[2])
		}
		return runQueue(b, pc.GuildID, sub, from, to)
	}})
	registerPrefix(PrefixCommand{Name: "skip", Aliases: []string{"next"}, Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return runSkip(ctx, b, pc.GuildID)
	}})
	registerPrefix(PrefixCommand{Name: "stop", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return runStop(ctx, b, pc.GuildID)
	}})
}

func trackLine(track lavalink.Track) string {
	title := track.Info.Title
	if track.Info.URI != nil {
		title = fmt.Sprintf("[%s](%s)", track.Info.Title, *track.Info.URI)
	}
	return fmt.Sprintf("%s — %s (%s)", title, track.Info.Author, formatTrackLength(track.Info.Length))
}

func formatTrackLength(length lavalink.Duration) string {
	d := time.Duration(length) * time.Millisecond
	if d >= time.Hour {
		return fmt.Sprintf("%d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
	}
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func runJoin(ctx context.Context, b *michaelbot.Bot, guildID, userID, workingChannelID snowflake.ID) (discord.MessageCreate, error) {
	voiceState, ok := b.Client.Caches().VoiceState(guildID, userID)
	if !ok || voiceState.ChannelID == nil {
		return discord.MessageCreate{}, errs.New(errs.Precondition, "hop into a voice channel first")
	}
	if err := b.Music.Join(ctx, guildID, *voiceState.ChannelID, workingChannelID); err != nil {
		return discord.MessageCreate{}, err
	}
	return successEmbed(fmt.Sprintf("Joined <#%s>.", *voiceState.ChannelID)), nil
}

func runLeave(ctx context.Context, b *michaelbot.Bot, guildID snowflake.ID) (discord.MessageCreate, error) {
	if err := b.Music.Leave(ctx, guildID); err != nil {
		return discord.MessageCreate{}, err
	}
	return successEmbed("Bye!"), nil
}

func runPlay(ctx context.Context, b *michaelbot.Bot, guildID, workingChannelID snowflake.ID, query string) (discord.MessageCreate, error) {
	if strings.TrimSpace(query) == "" {
		return discord.MessageCreate{}, errs.New(errs.Validation, "play what?")
	}
	res, err := b.Music.Play(ctx, guildID, workingChannelID, query)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	if res.Queued {
		return successEmbed(fmt.Sprintf("Queued %s at position %d.", trackLine(res.Track), res.Position)), nil
	}
	return successEmbed("Now playing " + trackLine(res.Track)), nil
}

func runSearch(ctx context.Context, b *michaelbot.Bot, query string) (discord.MessageCreate, error) {
	if strings.TrimSpace(query) == "" {
		return discord.MessageCreate{}, errs.New(errs.Validation, "search for what?")
	}
	tracks, err := b.Music.Search(ctx, query, 5)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	if len(tracks) == 0 {
		return discord.MessageCreate{}, errs.New(errs.NotFound, "nothing matched %q", query)
	}
	var sb strings.Builder
	for i, track := range tracks {
		fmt.Fprintf(&sb, "**%d.** %s\n", i+1, trackLine(track))
	}
	return infoEmbed("🔎 Results", sb.String()), nil
}

func runPause(ctx context.Context, b *michaelbot.Bot, guildID snowflake.ID) (discord.MessageCreate, error) {
	paused, err := b.Music.Pause(ctx, guildID)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	if paused {
		return successEmbed("Paused."), nil
	}
	return successEmbed("Resumed."), nil
}

func runSeek(ctx context.Context, b *michaelbot.Bot, guildID snowflake.ID, posInput string) (discord.MessageCreate, error) {
	pos, err := time.ParseDuration(posInput)
	if err != nil {
		secs, convErr := strconv.Atoi(posInput)
		if convErr != nil {
			return discord.MessageCreate{}, errs.New(errs.Validation, "position looks like 1m30s or plain seconds")
		}
		pos = time.Duration(secs) * time.Second
	}
	if pos < 0 {
		return discord.MessageCreate{}, errs.New(errs.Validation, "can't seek backwards past the start")
	}
	if err := b.Music.Seek(ctx, guildID, pos); err != nil {
		return discord.MessageCreate{}, err
	}
	return successEmbed("Jumped to " + formatTrackLength(lavalink.Duration(pos.Milliseconds())) + "."), nil
}

func runRepeat(b *michaelbot.Bot, guildID snowflake.ID) (discord.MessageCreate, error) {
	on, err := b.Music.Repeat(guildID)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	if on {
		return successEmbed("Repeating the current track."), nil
	}
	return successEmbed("Repeat off."), nil
}

func runVolume(ctx context.Context, b *michaelbot.Bot, guildID snowflake.ID, level int) (discord.MessageCreate, error) {
	applied, err := b.Music.Volume(ctx, guildID, level)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	return successEmbed(fmt.Sprintf("Volume set to %d%%.", applied)), nil
}

func runQueue(b *michaelbot.Bot, guildID snowflake.ID, sub string, from, to int) (discord.MessageCreate, error) {
	switch sub {
	case "view":
		tracks, err := b.Music.QueueTracks(guildID)
		if err != nil {
			return discord.MessageCreate{}, err
		}
		var sb strings.Builder
		if now := b.Music.NowPlaying(guildID); now != nil {
			fmt.Fprintf(&sb, "**Now:** %s\n\n", trackLine(*now))
		}
		if len(tracks) == 0 {
			sb.WriteString("The queue is empty.")
		}
		for i, track := range tracks {
			if i >= 15 {
				fmt.Fprintf(&sb, "…and %d more", len(tracks)-i)
				break
			}
			fmt.Fprintf(&sb, "**%d.** %s\n", i+1, trackLine(track))
		}
		return infoEmbed("📃 Queue", sb.String()), nil
	case "clear":
		if err := b.Music.ClearQueue(guildID); err != nil {
			return discord.MessageCreate{}, err
		}
		return successEmbed("Queue cleared."), nil
	case "shuffle":
		if err := b.Music.ShuffleQueue(guildID); err != nil {
			return discord.MessageCreate{}, err
		}
		return successEmbed("Queue shuffled."), nil
	case "loop":
		on, err := b.Music.ToggleQueueLoop(guildID)
		if err != nil {
			return discord.MessageCreate{}, err
		}
		if on {
			return successEmbed("Finished tracks now rejoin the queue."), nil
		}
		return successEmbed("Queue loop off."), nil
	case "move":
		if err := b.Music.MoveTrack(guildID, from-1, to-1); err != nil {
			return discord.MessageCreate{}, err
		}
		return successEmbed(fmt.Sprintf("Moved track %d to position %d.", from, to)), nil
	case "remove":
		track, err := b.Music.RemoveTrack(guildID, from-1)
		if err != nil {
			return discord.MessageCreate{}, err
		}
		return successEmbed("Removed " + trackLine(*track) + "."), nil
	}
	return discord.MessageCreate{}, errs.New(errs.Validation, "queue view, clear, shuffle, loop, move or remove?")
}

func runSkip(ctx context.Context, b *michaelbot.Bot, guildID snowflake.ID) (discord.MessageCreate, error) {
	next, err := b.Music.Skip(ctx, guildID)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	if next == nil {
		return successEmbed("Skipped. The queue is empty now."), nil
	}
	return successEmbed("Skipped. Up next: " + trackLine(*next)), nil
}

func runStop(ctx context.Context, b *michaelbot.Bot, guildID snowflake.ID) (discord.MessageCreate, error) {
	if err := b.Music.Stop(ctx, guildID); err != nil {
		return discord.MessageCreate{}, err
	}
	return successEmbed("Stopped. The queue is still there when you want it."), nil
}

func musicGuildHandler(run func(ctx context.Context, b *michaelbot.Bot, guildID snowflake.ID) (discord.MessageCreate, error), b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		guildID, err := guildOnly(e)
		if err != nil {
			return respond(e, discord.MessageCreate{}, err)
		}
		msg, err := run(ctx, b, guildID)
		return respond(e, msg, err)
	}
}

func JoinHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		guildID, err := guildOnly(e)
		if err != nil {
			return respond(e, discord.MessageCreate{}, err)
		}
		msg, err := runJoin(ctx, b, guildID, e.User().ID, e.Channel().ID())
		return respond(e, msg, err)
	}
}

func LeaveHandler(b *michaelbot.Bot) handler.CommandHandler { return musicGuildHandler(runLeave, b) }

func PlayHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		guildID, err := guildOnly(e)
		if err != nil {
			return respond(e, discord.MessageCreate{}, err)
		}
		msg, err := runPlay(ctx, b, guildID, e.Channel().ID(), e.SlashCommandInteractionData().String("query"))
		return respond(e, msg, err)
	}
}

func SearchHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		msg, err := runSearch(ctx, b, e.SlashCommandInteractionData().String("query"))
		return respond(e, msg, err)
	}
}

func PauseHandler(b *michaelbot.Bot) handler.CommandHandler { return musicGuildHandler(runPause, b) }

func SeekHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		guildID, err := guildOnly(e)
		if err != nil {
			return respond(e, discord.MessageCreate{}, err)
		}
		msg, err := runSeek(ctx, b, guildID, e.SlashCommandInteractionData().String("position"))
		return respond(e, msg, err)
	}
}

func RepeatHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		guildID, err := guildOnly(e)
		if err != nil {
			return respond(e, discord.MessageCreate{}, err)
		}
		msg, err := runRepeat(b, guildID)
		return respond(e, msg, err)
	}
}

func VolumeHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		guildID, err := guildOnly(e)
		if err != nil {
			return respond(e, discord.MessageCreate{}, err)
		}
		msg, err := runVolume(ctx, b, guildID, e.SlashCommandInteractionData().Int("level"))
		return respond(e, msg, err)
	}
}

func QueueHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		guildID, err := guildOnly(e)
		if err != nil {
			return respond(e, discord.MessageCreate{}, err)
		}
		data := e.SlashCommandInteractionData()
		from, _ := data.OptInt("from")
		to, _ := data.OptInt("to")
		if pos, ok := data.OptInt("position"); ok {
			from = pos
		}
		msg, err := runQueue(b, guildID, *data.SubCommandName, from, to)
		return respond(e, msg, err)
	}
}

func SkipHandler(b *michaelbot.Bot) handler.CommandHandler { return musicGuildHandler(runSkip, b) }
func StopHandler(b *michaelbot.Bot) handler.CommandHandler { return musicGuildHandler(runStop, b) }
