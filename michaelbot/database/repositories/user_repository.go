package repositories

import (
	"context"
	"time"

	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

type UserRepository interface {
	Get(ctx context.Context, id snowflake.ID) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
	Insert(ctx context.Context, user *models.User) (int64, error)
	Delete(ctx context.Context, id snowflake.ID) (int64, error)
	// AddBalance applies a signed delta; the balance never goes below 0.
	AddBalance(ctx context.Context, id snowflake.ID, delta int64) (int64, error)
	SetBalance(ctx context.Context, id snowflake.ID, balance int64) (int64, error)
	UpdateDaily(ctx context.Context, id snowflake.ID, streak int, claimedAt time.Time) (int64, error)
	SetWorld(ctx context.Context, id snowflake.ID, world models.World, movedAt *time.Time) (int64, error)
	UpdateName(ctx context.Context, id snowflake.ID, name string) (int64, error)
	TopByBalance(ctx context.Context, limit int) ([]*models.User, error)
	TopByBalanceIn(ctx context.Context, ids []snowflake.ID, limit int) ([]*models.User, error)
}

type userRepository struct {
	db bun.IDB
}

func NewUserRepository(db bun.IDB) UserRepository {
	return &userRepository{db: db}
}

// WithTx returns a copy bound to tx so multi-entity writes can share a
// transaction.
func (r *userRepository) WithTx(tx bun.Tx) UserRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) Get(ctx context.Context, id snowflake.ID) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().Model(user).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, wrapDBErr(err)
	}
	return user, nil
}

func (r *userRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	if err := r.db.NewSelect().Model(&users).Scan(ctx); err != nil {
		return nil, wrapDBErr(err)
	}
	return users, nil
}

func (r *userRepository) Insert(ctx context.Context, user *models.User) (int64, error) {
	res, err := r.db.NewInsert().Model(user).On("CONFLICT (id) DO NOTHING").Exec(ctx)
	return rowsAffected(res, err)
}

func (r *userRepository) Delete(ctx context.Context, id snowflake.ID) (int64, error) {
	res, err := r.db.NewDelete().Model((*models.User)(nil)).Where("id = ?", id).Exec(ctx)
	return rowsAffected(res, err)
}

func (r *userRepository) AddBalance(ctx context.Context, id snowflake.ID, delta int64) (int64, error) {
	res, err := r.db.NewUpdate().Model((*models.User)(nil)).
		Set("balance = GREATEST(balance + ?, 0)", delta).
		Where("id = ?", id).
		Exec(ctx)
	return rowsAffected(res, err)
}

func (r *userRepository) SetBalance(ctx context.Context, id snowflake.ID, balance int64) (int64, error) {
	if balance < 0 {
		balance = 0
	}
	res, err := r.db.NewUpdate().Model((*models.User)(nil)).
		Set("balance = ?", balance).
		Where("id = ?", id).
		Exec(ctx)
	return rowsAffected(res, err)
}

func (r *userRepository) UpdateDaily(ctx context.Context, id snowflake.ID, streak int, claimedAt time.Time) (int64, error) {
	res, err := r.db.NewUpdate().Model((*models.User)(nil)).
		Set("daily_streak = ?", streak).
		Set("last_daily = ?", claimedAt).
		Where("id = ?", id).
		Exec(ctx)
	return rowsAffected(res, err)
}

func (r *userRepository) SetWorld(ctx context.Context, id snowflake.ID, world models.World, movedAt *time.Time) (int64, error) {
	q := r.db.NewUpdate().Model((*models.User)(nil)).
		Set("world = ?", world).
		Where("id = ?", id)
	if movedAt != nil {
		q = q.Set("last_world_move = ?", *movedAt)
	}
	res, err := q.Exec(ctx)
	return rowsAffected(res, err)
}

func (r *userRepository) UpdateName(ctx context.Context, id snowflake.ID, name string) (int64, error) {
	res, err := r.db.NewUpdate().Model((*models.User)(nil)).
		Set("name = ?", name).
		Where("id = ?", id).
		Exec(ctx)
	return rowsAffected(res, err)
}

func (r *userRepository) TopByBalance(ctx context.Context, limit int) ([]*models.User, error) {
	var users []*models.User
	err := r.db.NewSelect().Model(&users).
		Order("balance DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, wrapDBErr(err)
	}
	return users, nil
}

func (r *userRepository) TopByBalanceIn(ctx context.Context, ids []snowflake.ID, limit int) ([]*models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []*models.User
	err := r.db.NewSelect().Model(&users).
		Where("id IN (?)", bun.In(ids)).
		Order("balance DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, wrapDBErr(err)
	}
	return users, nil
}
