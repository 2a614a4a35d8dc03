package models

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

// CustomCommand is a guild-defined canned command. When run it posts
// the stored message (optionally into a fixed channel, optionally as a
// reply) and may add or remove roles from the invoker.
type CustomCommand struct {
	bun.BaseModel `bun:"table:guild_custom_cmd,alias:cc"`

	GuildID     snowflake.ID   `bun:"guild_id,pk"`
	Name        string         `bun:"name,pk"`
	Description string         `bun:"description,notnull,default:''"`
	Message     string         `bun:"message,notnull"`
	Channel     *snowflake.ID  `bun:"channel"`
	IsReply     bool           `bun:"is_reply,notnull,default:false"`
	AddRoles    []snowflake.ID `bun:"add_roles,array"`
	RmvRoles    []snowflake.ID `bun:"rmv_roles,array"`
}
