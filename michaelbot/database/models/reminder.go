package models

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

type Reminder struct {
	bun.BaseModel `bun:"table:reminders,alias:r"`

	RemindID  int64        `bun:"remind_id,pk,autoincrement"`
	UserID    snowflake.ID `bun:"user_id,notnull"`
	AwakeTime time.Time    `bun:"awake_time,notnull"`
	Message   string       `bun:"message,notnull"`
}

type TempMute struct {
	bun.BaseModel `bun:"table:member_temp_mute,alias:tm"`

	UserID  snowflake.ID `bun:"user_id,pk"`
	GuildID snowflake.ID `bun:"guild_id,pk"`
	Expire  time.Time    `bun:"expire,notnull"`
}
