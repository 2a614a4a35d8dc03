package repositories

import (
	"context"

	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

type InventoryRepository interface {
	GetAll(ctx context.Context, userID snowflake.ID) ([]*models.InventorySlot, error)
	GetOne(ctx context.Context, userID snowflake.ID, itemID string) (*models.InventorySlot, error)
	// Add creates the slot when absent, otherwise tops it up.
	Add(ctx context.Context, userID snowflake.ID, itemID string, amount int) (int64, error)
	// Remove deletes the slot when the amount would reach zero and
	// reports zero affected rows for an absent slot.
	Remove(ctx context.Context, userID snowflake.ID, itemID string, amount int) (int64, error)
}

type inventoryRepository struct {
	db bun.IDB
}

func NewInventoryRepository(db bun.IDB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) GetAll(ctx context.Context, userID snowflake.ID) ([]*models.InventorySlot, error) {
	var slots []*models.InventorySlot
	err := r.db.NewSelect().Model(&slots).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, wrapDBErr(err)
	}
	return slots, nil
}

func (r *inventoryRepository) GetOne(ctx context.Context, userID snowflake.ID, itemID string) (*models.InventorySlot, error) {
	slot := new(models.InventorySlot)
	err := r.db.NewSelect().Model(slot).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapDBErr(err)
	}
	return slot, nil
}

func (r *inventoryRepository) Add(ctx context.Context, userID snowflake.ID, itemID string, amount int) (int64, error) {
	if amount <= 0 {
		return 0, nil
	}
	slot := &models.InventorySlot{UserID: userID, ItemID: itemID, Amount: amount}
	res, err := r.db.NewInsert().Model(slot).
		On("CONFLICT (user_id, item_id) DO UPDATE").
		Set("amount = inv.amount + EXCLUDED.amount").
		Exec(ctx)
	return rowsAffected(res, err)
}

func (r *inventoryRepository) Remove(ctx context.Context, userID snowflake.ID, itemID string, amount int) (int64, error) {
	if amount <= 0 {
		return 0, nil
	}
	// Decrement where enough remains, otherwise drop the slot entirely.
	res, err := r.db.NewUpdate().Model((*models.InventorySlot)(nil)).
		Set("amount = amount - ?", amount).
		Where("user_id = ? AND item_id = ? AND amount > ?", userID, itemID, amount).
		Exec(ctx)
	n, err := rowsAffected(res, err)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return n, nil
	}
	res2, err := r.db.NewDelete().Model((*models.InventorySlot)(nil)).
		Where("user_id = ? AND item_id = ? AND amount <= ?", userID, itemID, amount).
		Exec(ctx)
	return rowsAffected(res2, err)
}
