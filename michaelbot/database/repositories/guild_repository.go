package repositories

import (
	"context"

	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

type GuildRepository interface {
	Get(ctx context.Context, id snowflake.ID) (*models.Guild, error)
	GetAll(ctx context.Context) ([]*models.Guild, error)
	Insert(ctx context.Context, guild *models.Guild) (int64, error)
	Delete(ctx context.Context, id snowflake.ID) (int64, error)
	UpdatePrefix(ctx context.Context, id snowflake.ID, prefix string) (int64, error)
	UpdateName(ctx context.Context, id snowflake.ID, name string) (int64, error)
	UpdateWhitelist(ctx context.Context, id snowflake.ID, on bool) (int64, error)
}

type guildRepository struct {
	db bun.IDB
}

func NewGuildRepository(db bun.IDB) GuildRepository {
	return &guildRepository{db: db}
}

func (r *guildRepository) Get(ctx context.Context, id snowflake.ID) (*models.Guild, error) {
	guild := new(models.Guild)
	err := r.db.NewSelect().Model(guild).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, wrapDBErr(err)
	}
	return guild, nil
}

func (r *guildRepository) GetAll(ctx context.Context) ([]*models.Guild, error) {
	var guilds []*models.Guild
	if err := r.db.NewSelect().Model(&guilds).Scan(ctx); err != nil {
		return nil, wrapDBErr(err)
	}
	return guilds, nil
}

func (r *guildRepository) Insert(ctx context.Context, guild *models.Guild) (int64, error) {
	res, err := r.db.NewInsert().Model(guild).On("CONFLICT (id) DO NOTHING").Exec(ctx)
	return rowsAffected(res, err)
}

func (r *guildRepository) Delete(ctx context.Context, id snowflake.ID) (int64, error) {
	res, err := r.db.NewDelete().Model((*models.Guild)(nil)).Where("id = ?", id).Exec(ctx)
	return rowsAffected(res, err)
}

func (r *guildRepository) UpdatePrefix(ctx context.Context, id snowflake.ID, prefix string) (int64, error) {
	res, err := r.db.NewUpdate().Model((*models.Guild)(nil)).
		Set("prefix = ?", prefix).
		Where("id = ?", id).
		Exec(ctx)
	return rowsAffected(res, err)
}

func (r *guildRepository) UpdateName(ctx context.Context, id snowflake.ID, name string) (int64, error) {
	res, err := r.db.NewUpdate().Model((*models.Guild)(nil)).
		Set("name = ?", name).
		Where("id = ?", id).
		Exec(ctx)
	return rowsAffected(res, err)
}

func (r *guildRepository) UpdateWhitelist(ctx context.Context, id snowflake.ID, on bool) (int64, error) {
	res, err := r.db.NewUpdate().Model((*models.Guild)(nil)).
		Set("is_whitelist = ?", on).
		Where("id = ?", id).
		Exec(ctx)
	return rowsAffected(res, err)
}

type GuildLogRepository interface {
	Get(ctx context.Context, guildID snowflake.ID) (*models.GuildLogSettings, error)
	Insert(ctx context.Context, settings *models.GuildLogSettings) (int64, error)
	Update(ctx context.Context, settings *models.GuildLogSettings) (int64, error)
	SetChannel(ctx context.Context, guildID snowflake.ID, channel *snowflake.ID) (int64, error)
	SetToggle(ctx context.Context, guildID snowflake.ID, ev models.LogEvent, on bool) (int64, error)
}

type guildLogRepository struct {
	db bun.IDB
}

func NewGuildLogRepository(db bun.IDB) GuildLogRepository {
	return &guildLogRepository{db: db}
}

func (r *guildLogRepository) Get(ctx context.Context, guildID snowflake.ID) (*models.GuildLogSettings, error) {
	settings := new(models.GuildLogSettings)
	err := r.db.NewSelect().Model(settings).Where("guild_id = ?", guildID).Scan(ctx)
	if err != nil {
		return nil, wrapDBErr(err)
	}
	return settings, nil
}

func (r *guildLogRepository) Insert(ctx context.Context, settings *models.GuildLogSettings) (int64, error) {
	res, err := r.db.NewInsert().Model(settings).On("CONFLICT (guild_id) DO NOTHING").Exec(ctx)
	return rowsAffected(res, err)
}

func (r *guildLogRepository) Update(ctx context.Context, settings *models.GuildLogSettings) (int64, error) {
	res, err := r.db.NewUpdate().Model(settings).WherePK().Exec(ctx)
	return rowsAffected(res, err)
}

func (r *guildLogRepository) SetChannel(ctx context.Context, guildID snowflake.ID, channel *snowflake.ID) (int64, error) {
	res, err := r.db.NewUpdate().Model((*models.GuildLogSettings)(nil)).
		Set("log_channel = ?", channel).
		Where("guild_id = ?", guildID).
		Exec(ctx)
	return rowsAffected(res, err)
}

func (r *guildLogRepository) SetToggle(ctx context.Context, guildID snowflake.ID, ev models.LogEvent, on bool) (int64, error) {
	res, err := r.db.NewUpdate().Model((*models.GuildLogSettings)(nil)).
		Set("? = ?", bun.Ident(string(ev)), on).
		Where("guild_id = ?", guildID).
		Exec(ctx)
	return rowsAffected(res, err)
}
