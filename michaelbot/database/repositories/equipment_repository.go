package repositories

import (
	"context"

	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

type EquipmentRepository interface {
	GetAll(ctx context.Context, userID snowflake.ID) ([]*models.ActiveTool, error)
	GetByKind(ctx context.Context, userID snowflake.ID, kind models.ToolKind) (*models.ActiveTool, error)
	Insert(ctx context.Context, tool *models.ActiveTool) (int64, error)
	Delete(ctx context.Context, userID snowflake.ID, itemID string) (int64, error)
	DeleteAll(ctx context.Context, userID snowflake.ID) (int64, error)
	SetDurability(ctx context.Context, userID snowflake.ID, itemID string, remain int) (int64, error)
}

type equipmentRepository struct {
	db bun.IDB
}

func NewEquipmentRepository(db bun.IDB) EquipmentRepository {
	return &equipmentRepository{db: db}
}

func (r *equipmentRepository) GetAll(ctx context.Context, userID snowflake.ID) ([]*models.ActiveTool, error) {
	var tools []*models.ActiveTool
	err := r.db.NewSelect().Model(&tools).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, wrapDBErr(err)
	}
	return tools, nil
}

func (r *equipmentRepository) GetByKind(ctx context.Context, userID snowflake.ID, kind models.ToolKind) (*models.ActiveTool, error) {
	tool := new(models.ActiveTool)
	err := r.db.NewSelect().Model(tool).
		Where("user_id = ? AND eq_type = ?", userID, kind).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapDBErr(err)
	}
	return tool, nil
}

func (r *equipmentRepository) Insert(ctx context.Context, tool *models.ActiveTool) (int64, error) {
	res, err := r.db.NewInsert().Model(tool).Exec(ctx)
	return rowsAffected(res, err)
}

func (r *equipmentRepository) Delete(ctx context.Context, userID snowflake.ID, itemID string) (int64, error) {
	res, err := r.db.NewDelete().Model((*models.ActiveTool)(nil)).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Exec(ctx)
	return rowsAffected(res, err)
}

func (r *equipmentRepository) DeleteAll(ctx context.Context, userID snowflake.ID) (int64, error) {
	res, err := r.db.NewDelete().Model((*models.ActiveTool)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	return rowsAffected(res, err)
}

func (r *equipmentRepository) SetDurability(ctx context.Context, userID snowflake.ID, itemID string, remain int) (int64, error) {
	res, err := r.db.NewUpdate().Model((*models.ActiveTool)(nil)).
		Set("remain_durability = ?", remain).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Exec(ctx)
	return rowsAffected(res, err)
}

type PotionRepository interface {
	GetAll(ctx context.Context, userID snowflake.ID) ([]*models.ActivePotion, error)
	GetOne(ctx context.Context, userID snowflake.ID, itemID string) (*models.ActivePotion, error)
	// AddUses creates the row when absent, otherwise extends it.
	AddUses(ctx context.Context, userID snowflake.ID, itemID string, uses int) (int64, error)
	// ConsumeUses decrements and deletes at zero; the bool reports
	// whether the potion expired as a result.
	ConsumeUses(ctx context.Context, userID snowflake.ID, itemID string, uses int) (bool, error)
	Delete(ctx context.Context, userID snowflake.ID, itemID string) (int64, error)
	DeleteAll(ctx context.Context, userID snowflake.ID) (int64, error)
}

type potionRepository struct {
	db bun.IDB
}

func NewPotionRepository(db bun.IDB) PotionRepository {
	return &potionRepository{db: db}
}

func (r *potionRepository) GetAll(ctx context.Context, userID snowflake.ID) ([]*models.ActivePotion, error) {
	var potions []*models.ActivePotion
	err := r.db.NewSelect().Model(&potions).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, wrapDBErr(err)
	}
	return potions, nil
}

func (r *potionRepository) GetOne(ctx context.Context, userID snowflake.ID, itemID string) (*models.ActivePotion, error) {
	potion := new(models.ActivePotion)
	err := r.db.NewSelect().Model(potion).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapDBErr(err)
	}
	return potion, nil
}

func (r *potionRepository) AddUses(ctx context.Context, userID snowflake.ID, itemID string, uses int) (int64, error) {
	if uses <= 0 {
		return 0, nil
	}
	potion := &models.ActivePotion{UserID: userID, ItemID: itemID, RemainUses: uses}
	res, err := r.db.NewInsert().Model(potion).
		On("CONFLICT (user_id, item_id) DO UPDATE").
		Set("remain_uses = pot.remain_uses + EXCLUDED.remain_uses").
		Exec(ctx)
	return rowsAffected(res, err)
}

func (r *potionRepository) ConsumeUses(ctx context.Context, userID snowflake.ID, itemID string, uses int) (bool, error) {
	res, err := r.db.NewUpdate().Model((*models.ActivePotion)(nil)).
		Set("remain_uses = remain_uses - ?", uses).
		Where("user_id = ? AND item_id = ? AND remain_uses > ?", userID, itemID, uses).
		Exec(ctx)
	n, err := rowsAffected(res, err)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	res2, err := r.db.NewDelete().Model((*models.ActivePotion)(nil)).
		Where("user_id = ? AND item_id = ? AND remain_uses <= ?", userID, itemID, uses).
		Exec(ctx)
	n, err = rowsAffected(res2, err)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *potionRepository) Delete(ctx context.Context, userID snowflake.ID, itemID string) (int64, error) {
	res, err := r.db.NewDelete().Model((*models.ActivePotion)(nil)).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Exec(ctx)
	return rowsAffected(res, err)
}

func (r *potionRepository) DeleteAll(ctx context.Context, userID snowflake.ID) (int64, error) {
	res, err := r.db.NewDelete().Model((*models.ActivePotion)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	return rowsAffected(res, err)
}

type PortalRepository interface {
	GetAll(ctx context.Context, userID snowflake.ID) ([]*models.ActivePortal, error)
	GetOne(ctx context.Context, userID snowflake.ID, itemID string) (*models.ActivePortal, error)
	Insert(ctx context.Context, portal *models.ActivePortal) (int64, error)
	// ConsumeUse decrements by one and deletes at zero; the bool reports
	// whether the portal expired.
	ConsumeUse(ctx context.Context, userID snowflake.ID, itemID string) (bool, error)
	Delete(ctx context.Context, userID snowflake.ID, itemID string) (int64, error)
}

type portalRepository struct {
	db bun.IDB
}

func NewPortalRepository(db bun.IDB) PortalRepository {
	return &portalRepository{db: db}
}

func (r *portalRepository) GetAll(ctx context.Context, userID snowflake.ID) ([]*models.ActivePortal, error) {
	var portals []*models.ActivePortal
	err := r.db.NewSelect().Model(&portals).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, wrapDBErr(err)
	}
	return portals, nil
}

func (r *portalRepository) GetOne(ctx context.Context, userID snowflake.ID, itemID string) (*models.ActivePortal, error) {
	portal := new(models.ActivePortal)
	err := r.db.NewSelect().Model(portal).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapDBErr(err)
	}
	return portal, nil
}

func (r *portalRepository) Insert(ctx context.Context, portal *models.ActivePortal) (int64, error) {
	res, err := r.db.NewInsert().Model(portal).Exec(ctx)
	return rowsAffected(res, err)
}

func (r *portalRepository) ConsumeUse(ctx context.Context, userID snowflake.ID, itemID string) (bool, error) {
	res, err := r.db.NewUpdate().Model((*models.ActivePortal)(nil)).
		Set("remain_uses = remain_uses - 1").
		Where("user_id = ? AND item_id = ? AND remain_uses > 1", userID, itemID).
		Exec(ctx)
	n, err := rowsAffected(res, err)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	res2, err := r.db.NewDelete().Model((*models.ActivePortal)(nil)).
		Where("user_id = ? AND item_id = ? AND remain_uses <= 1", userID, itemID).
		Exec(ctx)
	n, err = rowsAffected(res2, err)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *portalRepository) Delete(ctx context.Context, userID snowflake.ID, itemID string) (int64, error) {
	res, err := r.db.NewDelete().Model((*models.ActivePortal)(nil)).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Exec(ctx)
	return rowsAffected(res, err)
}
