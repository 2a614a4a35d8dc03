package repositories

import (
	"context"

	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

type CustomCmdRepository interface {
	Get(ctx context.Context, guildID snowflake.ID, name string) (*models.CustomCommand, error)
	List(ctx context.Context, guildID snowflake.ID) ([]*models.CustomCommand, error)
	Insert(ctx context.Context, cmd *models.CustomCommand) (int64, error)
	Delete(ctx context.Context, guildID snowflake.ID, name string) (int64, error)
}

type customCmdRepository struct {
	db bun.IDB
}

func NewCustomCmdRepository(db bun.IDB) CustomCmdRepository {
	return &customCmdRepository{db: db}
}

func (r *customCmdRepository) Get(ctx context.Context, guildID snowflake.ID, name string) (*models.CustomCommand, error) {
	cmd := new(models.CustomCommand)
	err := r.db.NewSelect().Model(cmd).
		Where("guild_id = ? AND name = ?", guildID, name).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapDBErr(err)
	}
	return cmd, nil
}

func (r *customCmdRepository) List(ctx context.Context, guildID snowflake.ID) ([]*models.CustomCommand, error) {
	var cmds []*models.CustomCommand
	err := r.db.NewSelect().Model(&cmds).
		Where("guild_id = ?", guildID).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, wrapDBErr(err)
	}
	return cmds, nil
}

func (r *customCmdRepository) Insert(ctx context.Context, cmd *models.CustomCommand) (int64, error) {
	res, err := r.db.NewInsert().Model(cmd).
		On("CONFLICT (guild_id, name) DO NOTHING").
		Exec(ctx)
	return rowsAffected(res, err)
}

func (r *customCmdRepository) Delete(ctx context.Context, guildID snowflake.ID, name string) (int64, error) {
	res, err := r.db.NewDelete().Model((*models.CustomCommand)(nil)).
		Where("guild_id = ? AND name = ?", guildID, name).
		Exec(ctx)
	return rowsAffected(res, err)
}
