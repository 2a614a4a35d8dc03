package repositories

import (
	"context"
	"log/slog"

	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

type BadgeRepository interface {
	GetAll(ctx context.Context) ([]*models.Badge, error)
	Sync(ctx context.Context, badge *models.Badge) error
	GetUserBadges(ctx context.Context, userID snowflake.ID) ([]*models.UserBadge, error)
	// Award is idempotent: granting an already-held badge affects zero
	// rows.
	Award(ctx context.Context, userID snowflake.ID, badgeID string) (int64, error)
}

type badgeRepository struct {
	db bun.IDB
}

func NewBadgeRepository(db bun.IDB) BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) GetAll(ctx context.Context) ([]*models.Badge, error) {
	var badges []*models.Badge
	err := r.db.NewSelect().Model(&badges).Order("sort_id ASC").Scan(ctx)
	if err != nil {
		return nil, wrapDBErr(err)
	}
	return badges, nil
}

func (r *badgeRepository) Sync(ctx context.Context, badge *models.Badge) error {
	stored := new(models.Badge)
	err := r.db.NewSelect().Model(stored).Where("id = ?", badge.ID).Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			if _, err := rowsAffected(r.db.NewInsert().Model(badge).Exec(ctx)); err != nil {
				return err
			}
			slog.Info("Seeded new badge",
				slog.String("type", "db"),
				slog.String("badge", badge.ID))
			return nil
		}
		return wrapDBErr(err)
	}

	if stored.SortID == badge.SortID && stored.Name == badge.Name &&
		stored.Emoji == badge.Emoji && stored.Description == badge.Description {
		return nil
	}
	_, err = rowsAffected(r.db.NewUpdate().Model(badge).WherePK().Exec(ctx))
	return err
}

func (r *badgeRepository) GetUserBadges(ctx context.Context, userID snowflake.ID) ([]*models.UserBadge, error) {
	var badges []*models.UserBadge
	err := r.db.NewSelect().Model(&badges).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, wrapDBErr(err)
	}
	return badges, nil
}

func (r *badgeRepository) Award(ctx context.Context, userID snowflake.ID, badgeID string) (int64, error) {
	ub := &models.UserBadge{UserID: userID, BadgeID: badgeID}
	res, err := r.db.NewInsert().Model(ub).
		On("CONFLICT (user_id, badge_id) DO NOTHING").
		Exec(ctx)
	n, err := rowsAffected(res, err)
	if err != nil && errs.Is(err, errs.Fatal) {
		// Unknown badge id: report it as absent rather than fatal.
		return 0, errs.Wrap(errs.NotFound, err, "unknown badge")
	}
	return n, err
}
