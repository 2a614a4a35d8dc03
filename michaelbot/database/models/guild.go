package models

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

type Guild struct {
	bun.BaseModel `bun:"table:guilds,alias:g"`

	ID            snowflake.ID `bun:"id,pk"`
	Name          string       `bun:"name,notnull"`
	IsWhitelisted bool         `bun:"is_whitelist,notnull,default:false"`
	Prefix        string       `bun:"prefix,notnull,default:'$'"`
}

// LogEvent names one kind of logged guild event. The values double as
// the column names of guilds_logs.
type LogEvent string

const (
	LogChannelCreate   LogEvent = "guild_channel_create"
	LogChannelUpdate   LogEvent = "guild_channel_update"
	LogChannelDelete   LogEvent = "guild_channel_delete"
	LogRoleCreate      LogEvent = "guild_role_create"
	LogRoleUpdate      LogEvent = "guild_role_update"
	LogRoleDelete      LogEvent = "guild_role_delete"
	LogMemberJoin      LogEvent = "member_join"
	LogMemberUpdate    LogEvent = "member_update"
	LogMemberLeave     LogEvent = "member_leave"
	LogMessageCreate   LogEvent = "message_create"
	LogMessageUpdate   LogEvent = "message_update"
	LogMessageDelete   LogEvent = "message_delete"
	LogCommandComplete LogEvent = "command_complete"
	LogCommandError    LogEvent = "command_error"
)

// LogEvents lists every toggle, in column order.
var LogEvents = []LogEvent{
	LogChannelCreate, LogChannelUpdate, LogChannelDelete,
	LogRoleCreate, LogRoleUpdate, LogRoleDelete,
	LogMemberJoin, LogMemberUpdate, LogMemberLeave,
	LogMessageCreate, LogMessageUpdate, LogMessageDelete,
	LogCommandComplete, LogCommandError,
}

type GuildLogSettings struct {
	bun.BaseModel `bun:"table:guilds_logs,alias:gl"`

	GuildID    snowflake.ID  `bun:"guild_id,pk"`
	LogChannel *snowflake.ID `bun:"log_channel"`

	ChannelCreate   bool `bun:"guild_channel_create,notnull,default:true"`
	ChannelUpdate   bool `bun:"guild_channel_update,notnull,default:true"`
	ChannelDelete   bool `bun:"guild_channel_delete,notnull,default:true"`
	RoleCreate      bool `bun:"guild_role_create,notnull,default:true"`
	RoleUpdate      bool `bun:"guild_role_update,notnull,default:true"`
	RoleDelete      bool `bun:"guild_role_delete,notnull,default:true"`
	MemberJoin      bool `bun:"member_join,notnull,default:true"`
	MemberUpdate    bool `bun:"member_update,notnull,default:true"`
	MemberLeave     bool `bun:"member_leave,notnull,default:true"`
	MessageCreate   bool `bun:"message_create,notnull,default:false"`
	MessageUpdate   bool `bun:"message_update,notnull,default:true"`
	MessageDelete   bool `bun:"message_delete,notnull,default:true"`
	CommandComplete bool `bun:"command_complete,notnull,default:false"`
	CommandError    bool `bun:"command_error,notnull,default:true"`
}

// DefaultLogSettings returns the toggles a fresh guild starts with.
func DefaultLogSettings(guildID snowflake.ID) *GuildLogSettings {
	return &GuildLogSettings{
		GuildID:       guildID,
		ChannelCreate: true, ChannelUpdate: true, ChannelDelete: true,
		RoleCreate: true, RoleUpdate: true, RoleDelete: true,
		MemberJoin: true, MemberUpdate: true, MemberLeave: true,
		MessageUpdate: true, MessageDelete: true,
		CommandError: true,
	}
}

func (s *GuildLogSettings) Enabled(ev LogEvent) bool {
	switch ev {
	case LogChannelCreate:
		return s.ChannelCreate
	case LogChannelUpdate:
		return s.ChannelUpdate
	case LogChannelDelete:
		return s.ChannelDelete
	case LogRoleCreate:
		return s.RoleCreate
	case LogRoleUpdate:
		return s.RoleUpdate
	case LogRoleDelete:
		return s.RoleDelete
	case LogMemberJoin:
		return s.MemberJoin
	case LogMemberUpdate:
		return s.MemberUpdate
	case LogMemberLeave:
		return s.MemberLeave
	case LogMessageCreate:
		return s.MessageCreate
	case LogMessageUpdate:
		return s.MessageUpdate
	case LogMessageDelete:
		return s.MessageDelete
	case LogCommandComplete:
		return s.CommandComplete
	case LogCommandError:
		return s.CommandError
	}
	return false
}

func (s *GuildLogSettings) Set(ev LogEvent, on bool) {
	switch ev {
	case LogChannelCreate:
		s.ChannelCreate = on
	case LogChannelUpdate:
		s.ChannelUpdate = on
	case LogChannelDelete:
		s.ChannelDelete = on
	case LogRoleCreate:
		s.RoleCreate = on
	case LogRoleUpdate:
		s.RoleUpdate = on
	case LogRoleDelete:
		s.RoleDelete = on
	case LogMemberJoin:
		s.MemberJoin = on
	case LogMemberUpdate:
		s.MemberUpdate = on
	case LogMemberLeave:
		s.MemberLeave = on
	case LogMessageCreate:
		s.MessageCreate = on
	case LogMessageUpdate:
		s.MessageUpdate = on
	case LogMessageDelete:
		s.MessageDelete = on
	case LogCommandComplete:
		s.CommandComplete = on
	case LogCommandError:
		s.CommandError = on
	}
}

func (s *GuildLogSettings) SetAll(on bool) {
	for _, ev := range LogEvents {
		s.Set(ev, on)
	}
}
