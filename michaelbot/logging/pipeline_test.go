package logging

import (
	"strings"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Pins the audit-log call shape and entry type actor() relies on.
var _ = func(c rest.Guilds, guildID snowflake.ID) (*discord.AuditLog, error) {
	return c.GetAuditLog(guildID, 0, discord.AuditLogEventChannelCreate, 0, 0, 1)
}
var _ = func(entry discord.AuditLogEntry) snowflake.ID { return entry.UserID }

func TestDecodeBulkDelete(t *testing.T) {
	raw := `{
		"ids": ["11", "22", "33"],
		"channel_id": "44",
		"guild_id": "55"
	}`

	payload, err := decodeBulkDelete(strings.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, []snowflake.ID{11, 22, 33}, payload.IDs)
	assert.Equal(t, snowflake.ID(44), payload.ChannelID)
	require.NotNil(t, payload.GuildID)
	assert.Equal(t, snowflake.ID(55), *payload.GuildID)
}

func TestDecodeBulkDeleteDMHasNoGuild(t *testing.T) {
	payload, err := decodeBulkDelete(strings.NewReader(`{"ids": ["11"], "channel_id": "44"}`))
	require.NoError(t, err)
	assert.Nil(t, payload.GuildID)
}

func TestDecodeBulkDeleteMalformed(t *testing.T) {
	_, err := decodeBulkDelete(strings.NewReader(`{"ids": "nope"`))
	assert.Error(t, err)
}

func TestFormatIDList(t *testing.T) {
	got := formatIDList([]snowflake.ID{11, 22})
	assert.Equal(t, "11\n22\n", got)
}
