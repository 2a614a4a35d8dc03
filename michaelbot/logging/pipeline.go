// Package logging renders guild events into the guild's configured log
// channel, honoring the per-kind toggles of the logging module.
package logging

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MikeJollie2707/michaelbot/michaelbot/cache"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/logger"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
)

const (
	colorCreate = 0x57F287
	colorUpdate = 0xFEE75C
	colorDelete = 0xED4245
	colorError  = 0xED4245
)

type Pipeline struct {
	client  bot.Client
	guilds  *cache.Guilds
	archive *Archive // nil disables the offload
}

func NewPipeline(guilds *cache.Guilds, archive *Archive) *Pipeline {
	return &Pipeline{guilds: guilds, archive: archive}
}

// SetClient wires the platform client once the bot is built.
func (p *Pipeline) SetClient(client bot.Client) { p.client = client }

// Listeners returns the gateway subscriptions the pipeline needs.
func (p *Pipeline) Listeners() []bot.EventListener {
	return []bot.EventListener{
		bot.NewListenerFunc(p.onChannelCreate),
		bot.NewListenerFunc(p.onChannelUpdate),
		bot.NewListenerFunc(p.onChannelDelete),
		bot.NewListenerFunc(p.onRoleCreate),
		bot.NewListenerFunc(p.onRoleUpdate),
		bot.NewListenerFunc(p.onRoleDelete),
		bot.NewListenerFunc(p.onMemberJoin),
		bot.NewListenerFunc(p.onMemberUpdate),
		bot.NewListenerFunc(p.onMemberLeave),
		bot.NewListenerFunc(p.onMessageCreate),
		bot.NewListenerFunc(p.onMessageUpdate),
		bot.NewListenerFunc(p.onMessageDelete),
		bot.NewListenerFunc(p.onBulkMessageDelete),
	}
}

// target reports where to post the event, nil when the guild has the
// kind toggled off or no log channel set.
func (p *Pipeline) target(guildID snowflake.ID, ev models.LogEvent) *snowflake.ID {
	entry := p.guilds.Get(guildID)
	if entry == nil || entry.Logs == nil {
		return nil
	}
	if !entry.Logs.Enabled(ev) || entry.Logs.LogChannel == nil {
		return nil
	}
	return entry.Logs.LogChannel
}

func (p *Pipeline) post(channelID snowflake.ID, embed discord.Embed) {
	_, err := p.client.Rest().CreateMessage(channelID, discord.NewMessageCreateBuilder().
		SetEmbeds(embed).
		Build())
	if err != nil {
		logger.LogError("log post failed", err, "channel_id", channelID)
	}
}

// actor asks the audit log who performed the most recent action of the
// given type. Best effort: missing permission or an empty log just
// drops the field.
func (p *Pipeline) actor(guildID snowflake.ID, action discord.AuditLogEvent) string {
	log, err := p.client.Rest().GetAuditLog(guildID, 0, action, 0, 0, 1)
	if err != nil || len(log.AuditLogEntries) == 0 {
		return ""
	}
	entry := log.AuditLogEntries[0]
	if entry.UserID == 0 {
		return ""
	}
	return fmt.Sprintf("<@%s>", entry.UserID)
}

func baseEmbed(title string, color int) *discord.EmbedBuilder {
	return discord.NewEmbedBuilder().
		SetTitle(title).
		SetColor(color).
		SetTimestamp(time.Now())
}

func addActor(eb *discord.EmbedBuilder, actor string) {
	if actor != "" {
		eb.AddField("By", actor, true)
	}
}

// offload moves an oversized payload to the archive and returns a link
// line, or truncates when no archive is configured.
func (p *Pipeline) offload(guildID snowflake.ID, kind, payload string) string {
	if len(payload) <= archiveThreshold {
		return payload
	}
	if p.archive == nil {
		return payload[:archiveThreshold] + "…"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	url, err := p.archive.Put(ctx, guildID, kind, []byte(payload))
	if err != nil {
		logger.LogError("log offload failed", err, "guild_id", guildID)
		return payload[:archiveThreshold] + "…"
	}
	return "Payload too large, archived: " + url
}

func (p *Pipeline) onChannelCreate(event *events.GuildChannelCreate) {
	channelID := p.target(event.GuildID, models.LogChannelCreate)
	if channelID == nil {
		return
	}
	eb := baseEmbed("Channel created", colorCreate).
		SetDescriptionf("%s (`%s`)", event.Channel.Name(), event.ChannelID)
	addActor(eb, p.actor(event.GuildID, discord.AuditLogEventChannelCreate))
	p.post(*channelID, eb.Build())
}

func (p *Pipeline) onChannelUpdate(event *events.GuildChannelUpdate) {
	channelID := p.target(event.GuildID, models.LogChannelUpdate)
	if channelID == nil {
		return
	}
	eb := baseEmbed("Channel updated", colorUpdate).
		SetDescriptionf("<#%s>", event.ChannelID)
	if event.OldChannel.Name() != event.Channel.Name() {
		eb.AddField("Name", fmt.Sprintf("%s → %s", event.OldChannel.Name(), event.Channel.Name()), false)
	}
	addActor(eb, p.actor(event.GuildID, discord.AuditLogEventChannelUpdate))
	p.post(*channelID, eb.Build())
}

func (p *Pipeline) onChannelDelete(event *events.GuildChannelDelete) {
	channelID := p.target(event.GuildID, models.LogChannelDelete)
	if channelID == nil {
		return
	}
	eb := baseEmbed("Channel deleted", colorDelete).
		SetDescriptionf("%s (`%s`)", event.Channel.Name(), event.ChannelID)
	addActor(eb, p.actor(event.GuildID, discord.AuditLogEventChannelDelete))
	p.post(*channelID, eb.Build())
}

func (p *Pipeline) onRoleCreate(event *events.RoleCreate) {
	channelID := p.target(event.GuildID, models.LogRoleCreate)
	if channelID == nil {
		return
	}
	eb := baseEmbed("Role created", colorCreate).
		SetDescriptionf("%s (`%s`)", event.Role.Name, event.RoleID)
	addActor(eb, p.actor(event.GuildID, discord.AuditLogEventRoleCreate))
	p.post(*channelID, eb.Build())
}

func (p *Pipeline) onRoleUpdate(event *events.RoleUpdate) {
	channelID := p.target(event.GuildID, models.LogRoleUpdate)
	if channelID == nil {
		return
	}
	eb := baseEmbed("Role updated", colorUpdate).
		SetDescriptionf("<@&%s>", event.RoleID)
	if event.OldRole.Name != event.Role.Name {
		eb.AddField("Name", fmt.Sprintf("%s → %s", event.OldRole.Name, event.Role.Name), false)
	}
	if event.OldRole.Permissions != event.Role.Permissions {
		eb.AddField("Permissions", fmt.Sprintf("`%d` → `%d`", event.OldRole.Permissions, event.Role.Permissions), false)
	}
	addActor(eb, p.actor(event.GuildID, discord.AuditLogEventRoleUpdate))
	p.post(*channelID, eb.Build())
}

func (p *Pipeline) onRoleDelete(event *events.RoleDelete) {
	channelID := p.target(event.GuildID, models.LogRoleDelete)
	if channelID == nil {
		return
	}
	eb := baseEmbed("Role deleted", colorDelete).
		SetDescriptionf("`%s`", event.RoleID)
	if event.Role.Name != "" {
		eb.SetDescriptionf("%s (`%s`)", event.Role.Name, event.RoleID)
	}
	addActor(eb, p.actor(event.GuildID, discord.AuditLogEventRoleDelete))
	p.post(*channelID, eb.Build())
}

func (p *Pipeline) onMemberJoin(event *events.GuildMemberJoin) {
	channelID := p.target(event.GuildID, models.LogMemberJoin)
	if channelID == nil {
		return
	}
	eb := baseEmbed("Member joined", colorCreate).
		SetDescriptionf("%s (`%s`)", event.Member.User.Username, event.Member.User.ID).
		AddField("Account created", fmt.Sprintf("<t:%d:R>", event.Member.User.ID.Time().Unix()), true)
	p.post(*channelID, eb.Build())
}

func (p *Pipeline) onMemberUpdate(event *events.GuildMemberUpdate) {
	channelID := p.target(event.GuildID, models.LogMemberUpdate)
	if channelID == nil {
		return
	}
	eb := baseEmbed("Member updated", colorUpdate).
		SetDescriptionf("<@%s>", event.Member.User.ID)
	oldNick, newNick := "", ""
	if event.OldMember.Nick != nil {
		oldNick = *event.OldMember.Nick
	}
	if event.Member.Nick != nil {
		newNick = *event.Member.Nick
	}
	if oldNick != newNick {
		eb.AddField("Nickname", fmt.Sprintf("%q → %q", oldNick, newNick), false)
	}
	if len(event.OldMember.RoleIDs) != len(event.Member.RoleIDs) {
		eb.AddField("Roles", fmt.Sprintf("%d → %d", len(event.OldMember.RoleIDs), len(event.Member.RoleIDs)), true)
	}
	p.post(*channelID, eb.Build())
}

func (p *Pipeline) onMemberLeave(event *events.GuildMemberLeave) {
	channelID := p.target(event.GuildID, models.LogMemberLeave)
	if channelID == nil {
		return
	}
	eb := baseEmbed("Member left", colorDelete).
		SetDescriptionf("%s (`%s`)", event.User.Username, event.User.ID)
	p.post(*channelID, eb.Build())
}

func (p *Pipeline) onMessageCreate(event *events.GuildMessageCreate) {
	channelID := p.target(event.GuildID, models.LogMessageCreate)
	if channelID == nil {
		return
	}
	if event.Message.Author.Bot {
		return
	}
	eb := baseEmbed("Message sent", colorCreate).
		SetDescriptionf("In <#%s> by <@%s>", event.ChannelID, event.Message.Author.ID)
	if event.Message.Content != "" {
		eb.AddField("Content", p.offload(event.GuildID, "message_create", event.Message.Content), false)
	}
	p.post(*channelID, eb.Build())
}

func (p *Pipeline) onMessageUpdate(event *events.GuildMessageUpdate) {
	channelID := p.target(event.GuildID, models.LogMessageUpdate)
	if channelID == nil {
		return
	}
	if event.Message.Author.Bot {
		return
	}
	eb := baseEmbed("Message edited", colorUpdate).
		SetDescriptionf("In <#%s> by <@%s>", event.ChannelID, event.Message.Author.ID)
	if event.OldMessage.Content != "" {
		eb.AddField("Before", p.offload(event.GuildID, "message_update", event.OldMessage.Content), false)
	}
	if event.Message.Content != "" {
		eb.AddField("After", p.offload(event.GuildID, "message_update", event.Message.Content), false)
	}
	p.post(*channelID, eb.Build())
}

func (p *Pipeline) onMessageDelete(event *events.GuildMessageDelete) {
	channelID := p.target(event.GuildID, models.LogMessageDelete)
	if channelID == nil {
		return
	}
	eb := baseEmbed("Message deleted", colorDelete).
		SetDescriptionf("In <#%s>", event.ChannelID)
	if event.Message.Content != "" {
		eb.AddField("Content", p.offload(event.GuildID, "message_delete", event.Message.Content), false)
		eb.SetDescriptionf("In <#%s> by <@%s>", event.ChannelID, event.Message.Author.ID)
	}
	p.post(*channelID, eb.Build())
}

// onBulkMessageDelete reads the raw gateway frame: the typed dispatch
// fans bulk deletes out one message at a time, which loses the "this
// was a purge" shape. Requires gateway.WithEnableRawEvents.
func (p *Pipeline) onBulkMessageDelete(event *events.Raw) {
	if event.EventType != gateway.EventTypeMessageDeleteBulk {
		return
	}
	payload, err := decodeBulkDelete(event.Payload)
	if err != nil {
		logger.LogError("bulk delete decode failed", err)
		return
	}
	if payload.GuildID == nil {
		return
	}
	channelID := p.target(*payload.GuildID, models.LogMessageDelete)
	if channelID == nil {
		return
	}
	eb := baseEmbed("Messages bulk deleted", colorDelete).
		SetDescriptionf("%d messages in <#%s>", len(payload.IDs), payload.ChannelID).
		AddField("Message IDs", p.offload(*payload.GuildID, "bulk_delete", formatIDList(payload.IDs)), false)
	addActor(eb, p.actor(*payload.GuildID, discord.AuditLogEventMessageBulkDelete))
	p.post(*channelID, eb.Build())
}

type bulkDeletePayload struct {
	IDs       []snowflake.ID `json:"ids"`
	ChannelID snowflake.ID   `json:"channel_id"`
	GuildID   *snowflake.ID  `json:"guild_id"`
}

func decodeBulkDelete(r io.Reader) (bulkDeletePayload, error) {
	var payload bulkDeletePayload
	err := json.NewDecoder(r).Decode(&payload)
	return payload, err
}

func formatIDList(ids []snowflake.ID) string {
	var sb strings.Builder
	for _, id := range ids {
		sb.WriteString(id.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// LogCommand posts the command-complete / command-error entries; the
// dispatcher middleware calls it after every run.
func (p *Pipeline) LogCommand(guildID snowflake.ID, userID snowflake.ID, command string, cmdErr error) {
	ev := models.LogCommandComplete
	if cmdErr != nil {
		ev = models.LogCommandError
	}
	channelID := p.target(guildID, ev)
	if channelID == nil {
		return
	}
	if cmdErr != nil {
		eb := baseEmbed("Command failed", colorError).
			SetDescriptionf("`%s` by <@%s>", command, userID).
			AddField("Error", cmdErr.Error(), false)
		p.post(*channelID, eb.Build())
		return
	}
	eb := baseEmbed("Command executed", colorCreate).
		SetDescriptionf("`%s` by <@%s>", command, userID)
	p.post(*channelID, eb.Build())
}
