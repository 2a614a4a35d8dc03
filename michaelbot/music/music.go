// Package music runs per-guild playback sessions over a Lavalink
// node: queueing, loop modes, and the voice-state plumbing between the
// gateway and the audio relay.
package music

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/MikeJollie2707/michaelbot/michaelbot/logger"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"
)

const (
	MinVolume = 0
	MaxVolume = 200
)

// Session is one guild's playback state. The queue and flags are
// guarded by mu; the player itself lives on the Lavalink client.
type Session struct {
	GuildID snowflake.ID

	mu sync.Mutex
	// WorkingChannel is where the last music command arrived; the
	// now-playing notification goes there.
	WorkingChannel snowflake.ID
	Queue          Queue
	QueueLoop      bool
	RepeatOne      bool
}

// VoiceManager is the gateway-side voice control the sessions need;
// the bot client satisfies it.
type VoiceManager interface {
	UpdateVoiceState(ctx context.Context, guildID snowflake.ID, channelID *snowflake.ID, selfMute bool, selfDeaf bool) error
}

// NowPlayingFunc posts the track-start notification to the working
// channel.
type NowPlayingFunc func(channelID snowflake.ID, track lavalink.Track)

type Manager struct {
	link  disgolink.Client
	voice VoiceManager

	mu       sync.RWMutex
	sessions map[snowflake.ID]*Session

	nowPlaying NowPlayingFunc
}

func NewManager(appID snowflake.ID, voice VoiceManager, nowPlaying NowPlayingFunc) *Manager {
	m := &Manager{
		voice:      voice,
		sessions:   map[snowflake.ID]*Session{},
		nowPlaying: nowPlaying,
	}
	m.link = disgolink.New(appID,
		disgolink.WithListenerFunc(m.onTrackStart),
		disgolink.WithListenerFunc(m.onTrackEnd),
		disgolink.WithListenerFunc(m.onWebSocketClosed),
	)
	return m
}

// AddNode connects the manager to one Lavalink node.
func (m *Manager) AddNode(ctx context.Context, name, address, password string, secure bool) error {
	_, err := m.link.AddNode(ctx, disgolink.NodeConfig{
		Name:     name,
		Address:  address,
		Password: password,
		Secure:   secure,
	})
	if err != nil {
		return errs.Wrap(errs.Upstream, err, "audio relay unreachable")
	}
	return nil
}

func (m *Manager) Close() {
	m.link.Close()
}

// OnVoiceServerUpdate forwards the gateway event to the relay.
func (m *Manager) OnVoiceServerUpdate(ctx context.Context, guildID snowflake.ID, token, endpoint string) {
	m.link.OnVoiceServerUpdate(ctx, guildID, token, endpoint)
}

// OnVoiceStateUpdate forwards the bot's own voice state to the relay.
func (m *Manager) OnVoiceStateUpdate(ctx context.Context, guildID snowflake.ID, channelID *snowflake.ID, sessionID string) {
	m.link.OnVoiceStateUpdate(ctx, guildID, channelID, sessionID)
}

// Session returns the guild's session, or nil when the bot is not in a
// voice channel there.
func (m *Manager) Session(guildID snowflake.ID) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[guildID]
}

func (m *Manager) session(guildID snowflake.ID) (*Session, error) {
	if s := m.Session(guildID); s != nil {
		return s, nil
	}
	return nil, errs.New(errs.Precondition, "not in a voice channel; use join first")
}

// Join connects to the voice channel and creates the session.
func (m *Manager) Join(ctx context.Context, guildID, voiceChannelID, workingChannelID snowflake.ID) error {
	if err := m.voice.UpdateVoiceState(ctx, guildID, &voiceChannelID, false, true); err != nil {
		return errs.Wrap(errs.Upstream, err, "could not join the voice channel")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[guildID]; ok {
		s.mu.Lock()
		s.WorkingChannel = workingChannelID
		s.mu.Unlock()
		return nil
	}
	m.sessions[guildID] = &Session{GuildID: guildID, WorkingChannel: workingChannelID}
	return nil
}

// Leave disconnects and drops all session state.
func (m *Manager) Leave(ctx context.Context, guildID snowflake.ID) error {
	if _, err := m.session(guildID); err != nil {
		return err
	}
	if player := m.link.ExistingPlayer(guildID); player != nil {
		if err := player.Destroy(ctx); err != nil {
			logger.LogError("player destroy failed", err, "guild_id", guildID)
		}
	}
	if err := m.voice.UpdateVoiceState(ctx, guildID, nil, false, false); err != nil {
		return errs.Wrap(errs.Upstream, err, "could not leave the voice channel")
	}
	m.mu.Lock()
	delete(m.sessions, guildID)
	m.mu.Unlock()
	return nil
}

// toIdentifier turns user input into a Lavalink identifier: URLs pass
// through, anything else becomes a search query.
func toIdentifier(query string) string {
	if _, err := url.ParseRequestURI(query); err == nil && strings.Contains(query, "://") {
		return query
	}
	return lavalink.SearchTypeYouTube.Apply(query)
}

func (m *Manager) load(ctx context.Context, query string) ([]lavalink.Track, error) {
	node := m.link.BestNode()
	if node == nil {
		return nil, errs.New(errs.Upstream, "no audio node available")
	}

	var (
		tracks  []lavalink.Track
		loadErr error
	)
	done := make(chan struct{})
	node.LoadTracksHandler(ctx, toIdentifier(query), disgolink.NewResultHandler(
		func(track lavalink.Track) {
			tracks = []lavalink.Track{track}
			close(done)
		},
		func(playlist lavalink.Playlist) {
			tracks = playlist.Tracks
			close(done)
		},
		func(results []lavalink.Track) {
			tracks = results
			close(done)
		},
		func() {
			loadErr = errs.New(errs.NotFound, "no tracks found for %q", query)
			close(done)
		},
		func(err error) {
			loadErr = errs.Wrap(errs.Upstream, err, "track load failed")
			close(done)
		},
	))
	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return tracks, loadErr
}

type PlayResult struct {
	Track lavalink.Track
	// Queued is set when something was already playing and the track
	// went to the back of the queue instead.
	Queued   bool
	Position int
}

// Play resolves the query and either starts playback or enqueues. A
// search query takes its top hit; a playlist URL enqueues everything.
func (m *Manager) Play(ctx context.Context, guildID, workingChannelID snowflake.ID, query string) (*PlayResult, error) {
	session, err := m.session(guildID)
	if err != nil {
		return nil, err
	}
	tracks, err := m.load(ctx, query)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(toIdentifier(query), "ytsearch:") && len(tracks) > 1 {
		tracks = tracks[:1]
	}

	session.mu.Lock()
	session.WorkingChannel = workingChannelID
	player := m.link.Player(guildID)
	playing := player.Track() != nil

	res := &PlayResult{Track: tracks[0]}
	if playing {
		session.Queue.Add(tracks...)
		res.Queued = true
		res.Position = session.Queue.Len()
		session.mu.Unlock()
		return res, nil
	}
	session.Queue.Add(tracks[1:]...)
	session.mu.Unlock()

	if err := player.Update(ctx, lavalink.WithTrack(tracks[0])); err != nil {
		return nil, errs.Wrap(errs.Upstream, err, "playback failed")
	}
	return res, nil
}

// Search returns the top matches without touching the queue.
func (m *Manager) Search(ctx context.Context, query string, limit int) ([]lavalink.Track, error) {
	tracks, err := m.load(ctx, query)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

// Pause toggles playback and reports the new paused state.
func (m *Manager) Pause(ctx context.Context, guildID snowflake.ID) (bool, error) {
	if _, err := m.session(guildID); err != nil {
		return false, err
	}
	player := m.link.Player(guildID)
	paused := !player.Paused()
	if err := player.Update(ctx, lavalink.WithPaused(paused)); err != nil {
		return false, errs.Wrap(errs.Upstream, err, "pause failed")
	}
	return paused, nil
}

// Seek jumps to the given position in the current track.
func (m *Manager) Seek(ctx context.Context, guildID snowflake.ID, pos time.Duration) error {
	if _, err := m.session(guildID); err != nil {
		return err
	}
	player := m.link.Player(guildID)
	if player.Track() == nil {
		return errs.New(errs.Precondition, "nothing is playing")
	}
	if err := player.Update(ctx, lavalink.WithPosition(lavalink.Duration(pos.Milliseconds()))); err != nil {
		return errs.Wrap(errs.Upstream, err, "seek failed")
	}
	return nil
}

// Volume clamps to [0, 200] and applies; returns the applied value.
func (m *Manager) Volume(ctx context.Context, guildID snowflake.ID, volume int) (int, error) {
	if _, err := m.session(guildID); err != nil {
		return 0, err
	}
	if volume < MinVolume {
		volume = MinVolume
	}
	if volume > MaxVolume {
		volume = MaxVolume
	}
	player := m.link.Player(guildID)
	if err := player.Update(ctx, lavalink.WithVolume(volume)); err != nil {
		return 0, errs.Wrap(errs.Upstream, err, "volume change failed")
	}
	return volume, nil
}

// Repeat toggles the repeat-one flag and reports the new value.
func (m *Manager) Repeat(guildID snowflake.ID) (bool, error) {
	session, err := m.session(guildID)
	if err != nil {
		return false, err
	}
	session.mu.Lock()
	session.RepeatOne = !session.RepeatOne
	on := session.RepeatOne
	session.mu.Unlock()
	return on, nil
}

// Skip ends the current track and starts the next queued one, if any.
func (m *Manager) Skip(ctx context.Context, guildID snowflake.ID) (*lavalink.Track, error) {
	session, err := m.session(guildID)
	if err != nil {
		return nil, err
	}
	player := m.link.Player(guildID)
	if player.Track() == nil {
		return nil, errs.New(errs.Precondition, "nothing is playing")
	}

	session.mu.Lock()
	next, ok := session.Queue.Next()
	session.mu.Unlock()
	if !ok {
		if err := player.Update(ctx, lavalink.WithNullTrack()); err != nil {
			return nil, errs.Wrap(errs.Upstream, err, "skip failed")
		}
		return nil, nil
	}
	if err := player.Update(ctx, lavalink.WithTrack(next)); err != nil {
		return nil, errs.Wrap(errs.Upstream, err, "skip failed")
	}
	return &next, nil
}

// Stop halts playback and disables the queue loop. The queue itself
// survives for a later play.
func (m *Manager) Stop(ctx context.Context, guildID snowflake.ID) error {
	session, err := m.session(guildID)
	if err != nil {
		return err
	}
	session.mu.Lock()
	session.QueueLoop = false
	session.mu.Unlock()

	player := m.link.Player(guildID)
	if err := player.Update(ctx, lavalink.WithNullTrack()); err != nil {
		return errs.Wrap(errs.Upstream, err, "stop failed")
	}
	return nil
}

// NowPlaying reports the current track, nil when idle.
func (m *Manager) NowPlaying(guildID snowflake.ID) *lavalink.Track {
	if m.Session(guildID) == nil {
		return nil
	}
	return m.link.Player(guildID).Track()
}

// Queue operations.

func (m *Manager) QueueTracks(guildID snowflake.ID) ([]lavalink.Track, error) {
	session, err := m.session(guildID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.Queue.Tracks(), nil
}

func (m *Manager) ClearQueue(guildID snowflake.ID) error {
	session, err := m.session(guildID)
	if err != nil {
		return err
	}
	session.mu.Lock()
	session.Queue.Clear()
	session.mu.Unlock()
	return nil
}

func (m *Manager) ShuffleQueue(guildID snowflake.ID) error {
	session, err := m.session(guildID)
	if err != nil {
		return err
	}
	session.mu.Lock()
	session.Queue.Shuffle()
	session.mu.Unlock()
	return nil
}

// ToggleQueueLoop flips the queue-loop flag and reports the new value.
func (m *Manager) ToggleQueueLoop(guildID snowflake.ID) (bool, error) {
	session, err := m.session(guildID)
	if err != nil {
		return false, err
	}
	session.mu.Lock()
	session.QueueLoop = !session.QueueLoop
	on := session.QueueLoop
	session.mu.Unlock()
	return on, nil
}

func (m *Manager) MoveTrack(guildID snowflake.ID, from, to int) error {
	session, err := m.session(guildID)
	if err != nil {
		return err
	}
	session.mu.Lock()
	ok := session.Queue.Move(from, to)
	session.mu.Unlock()
	if !ok {
		return errs.New(errs.Validation, "no such queue positions")
	}
	return nil
}

func (m *Manager) RemoveTrack(guildID snowflake.ID, index int) (*lavalink.Track, error) {
	session, err := m.session(guildID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	track, ok := session.Queue.Remove(index)
	session.mu.Unlock()
	if !ok {
		return nil, errs.New(errs.Validation, "no track at position %d", index+1)
	}
	return &track, nil
}

// Relay events.

func (m *Manager) onTrackStart(player disgolink.Player, event lavalink.TrackStartEvent) {
	session := m.Session(player.GuildID())
	if session == nil || m.nowPlaying == nil {
		return
	}
	session.mu.Lock()
	channel := session.WorkingChannel
	session.mu.Unlock()
	if channel != 0 {
		m.nowPlaying(channel, event.Track)
	}
}

// onTrackEnd advances the queue. With queue loop on (and repeat-one
// off) the finished track goes to the back of the queue first.
func (m *Manager) onTrackEnd(player disgolink.Player, event lavalink.TrackEndEvent) {
	if !event.Reason.MayStartNext() {
		return
	}
	session := m.Session(player.GuildID())
	if session == nil {
		return
	}

	session.mu.Lock()
	if session.RepeatOne {
		session.mu.Unlock()
		m.playNext(player, event.Track)
		return
	}
	if session.QueueLoop {
		session.Queue.Add(event.Track)
	}
	next, ok := session.Queue.Next()
	session.mu.Unlock()
	if !ok {
		return
	}
	m.playNext(player, next)
}

func (m *Manager) playNext(player disgolink.Player, track lavalink.Track) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := player.Update(ctx, lavalink.WithTrack(track)); err != nil {
		logger.LogError("queue advance failed", err, "guild_id", player.GuildID())
	}
}

func (m *Manager) onWebSocketClosed(player disgolink.Player, event lavalink.WebSocketClosedEvent) {
	logger.LogError("voice websocket closed", errs.New(errs.Upstream, "code %d: %s", event.Code, event.Reason),
		"guild_id", player.GuildID())
}
