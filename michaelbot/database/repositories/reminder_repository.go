package repositories

import (
	"context"
	"time"

	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

type ReminderRepository interface {
	Insert(ctx context.Context, reminder *models.Reminder) (int64, error)
	ListByUser(ctx context.Context, userID snowflake.ID) ([]*models.Reminder, error)
	// DueBefore returns reminders whose wake time is strictly before t.
	DueBefore(ctx context.Context, t time.Time) ([]*models.Reminder, error)
	// InWindow returns reminders with wake time in (from, to].
	InWindow(ctx context.Context, from, to time.Time) ([]*models.Reminder, error)
	Delete(ctx context.Context, remindID int64) (int64, error)
	DeleteForUser(ctx context.Context, remindID int64, userID snowflake.ID) (int64, error)
}

type reminderRepository struct {
	db bun.IDB
}

func NewReminderRepository(db bun.IDB) ReminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) Insert(ctx context.Context, reminder *models.Reminder) (int64, error) {
	res, err := r.db.NewInsert().Model(reminder).Returning("remind_id").Exec(ctx)
	return rowsAffected(res, err)
}

func (r *reminderRepository) ListByUser(ctx context.Context, userID snowflake.ID) ([]*models.Reminder, error) {
	var reminders []*models.Reminder
	err := r.db.NewSelect().Model(&reminders).
		Where("user_id = ?", userID).
		Order("awake_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, wrapDBErr(err)
	}
	return reminders, nil
}

func (r *reminderRepository) DueBefore(ctx context.Context, t time.Time) ([]*models.Reminder, error) {
	var reminders []*models.Reminder
	err := r.db.NewSelect().Model(&reminders).
		Where("awake_time < ?", t).
		Order("awake_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, wrapDBErr(err)
	}
	return reminders, nil
}

func (r *reminderRepository) InWindow(ctx context.Context, from, to time.Time) ([]*models.Reminder, error) {
	var reminders []*models.Reminder
	err := r.db.NewSelect().Model(&reminders).
		Where("awake_time > ? AND awake_time <= ?", from, to).
		Order("awake_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, wrapDBErr(err)
	}
	return reminders, nil
}

func (r *reminderRepository) Delete(ctx context.Context, remindID int64) (int64, error) {
	res, err := r.db.NewDelete().Model((*models.Reminder)(nil)).
		Where("remind_id = ?", remindID).
		Exec(ctx)
	return rowsAffected(res, err)
}

func (r *reminderRepository) DeleteForUser(ctx context.Context, remindID int64, userID snowflake.ID) (int64, error) {
	res, err := r.db.NewDelete().Model((*models.Reminder)(nil)).
		Where("remind_id = ? AND user_id = ?", remindID, userID).
		Exec(ctx)
	return rowsAffected(res, err)
}

type TempMuteRepository interface {
	Upsert(ctx context.Context, mute *models.TempMute) (int64, error)
	Delete(ctx context.Context, userID, guildID snowflake.ID) (int64, error)
	// ExpiringBefore returns mutes whose expiry is strictly before t.
	ExpiringBefore(ctx context.Context, t time.Time) ([]*models.TempMute, error)
	// InWindow returns mutes expiring in (from, to].
	InWindow(ctx context.Context, from, to time.Time) ([]*models.TempMute, error)
	Get(ctx context.Context, userID, guildID snowflake.ID) (*models.TempMute, error)
}

type tempMuteRepository struct {
	db bun.IDB
}

func NewTempMuteRepository(db bun.IDB) TempMuteRepository {
	return &tempMuteRepository{db: db}
}

func (r *tempMuteRepository) Upsert(ctx context.Context, mute *models.TempMute) (int64, error) {
	res, err := r.db.NewInsert().Model(mute).
		On("CONFLICT (user_id, guild_id) DO UPDATE").
		Set("expire = EXCLUDED.expire").
		Exec(ctx)
	return rowsAffected(res, err)
}

func (r *tempMuteRepository) Delete(ctx context.Context, userID, guildID snowflake.ID) (int64, error) {
	res, err := r.db.NewDelete().Model((*models.TempMute)(nil)).
		Where("user_id = ? AND guild_id = ?", userID, guildID).
		Exec(ctx)
	return rowsAffected(res, err)
}

func (r *tempMuteRepository) ExpiringBefore(ctx context.Context, t time.Time) ([]*models.TempMute, error) {
	var mutes []*models.TempMute
	err := r.db.NewSelect().Model(&mutes).
		Where("expire < ?", t).
		Scan(ctx)
	if err != nil {
		return nil, wrapDBErr(err)
	}
	return mutes, nil
}

func (r *tempMuteRepository) InWindow(ctx context.Context, from, to time.Time) ([]*models.TempMute, error) {
	var mutes []*models.TempMute
	err := r.db.NewSelect().Model(&mutes).
		Where("expire > ? AND expire <= ?", from, to).
		Scan(ctx)
	if err != nil {
		return nil, wrapDBErr(err)
	}
	return mutes, nil
}

func (r *tempMuteRepository) Get(ctx context.Context, userID, guildID snowflake.ID) (*models.TempMute, error) {
	mute := new(models.TempMute)
	err := r.db.NewSelect().Model(mute).
		Where("user_id = ? AND guild_id = ?", userID, guildID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapDBErr(err)
	}
	return mute, nil
}
