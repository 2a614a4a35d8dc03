package repositories

import (
	"context"
	"log/slog"
	"slices"

	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

type ItemRepository interface {
	GetByID(ctx context.Context, id string) (*models.Item, error)
	GetAll(ctx context.Context) ([]*models.Item, error)
	// Sync reconciles the stored row against the catalog entry: insert
	// when missing, otherwise update exactly the columns that differ.
	Sync(ctx context.Context, item *models.Item) error
}

type itemRepository struct {
	db bun.IDB
}

func NewItemRepository(db bun.IDB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	item := new(models.Item)
	err := r.db.NewSelect().Model(item).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, wrapDBErr(err)
	}
	return item, nil
}

func (r *itemRepository) GetAll(ctx context.Context) ([]*models.Item, error) {
	var items []*models.Item
	err := r.db.NewSelect().Model(&items).Order("sort_id ASC").Scan(ctx)
	if err != nil {
		return nil, wrapDBErr(err)
	}
	return items, nil
}

func (r *itemRepository) Sync(ctx context.Context, item *models.Item) error {
	stored, err := r.GetByID(ctx, item.ID)
	if err != nil {
		if errs.Is(err, errs.NotFound) {
			if _, err := rowsAffected(r.db.NewInsert().Model(item).Exec(ctx)); err != nil {
				return err
			}
			slog.Info("Seeded new item",
				slog.String("type", "db"),
				slog.String("item", item.ID))
			return nil
		}
		return err
	}

	changed := diffItemColumns(stored, item)
	if len(changed) == 0 {
		return nil
	}

	q := r.db.NewUpdate().Model((*models.Item)(nil)).Where("id = ?", item.ID)
	for _, col := range changed {
		switch col {
		case "sort_id":
			q = q.Set("sort_id = ?", item.SortID)
		case "name":
			q = q.Set("name = ?", item.Name)
		case "aliases":
			q = q.Set("aliases = ?", pgArray(item.Aliases))
		case "emoji":
			q = q.Set("emoji = ?", item.Emoji)
		case "description":
			q = q.Set("description = ?", item.Description)
		case "buy_price":
			q = q.Set("buy_price = ?", item.BuyPrice)
		case "sell_price":
			q = q.Set("sell_price = ?", item.SellPrice)
		case "durability":
			q = q.Set("durability = ?", item.Durability)
		}
	}
	if _, err := rowsAffected(q.Exec(ctx)); err != nil {
		return err
	}
	slog.Info("Reconciled item",
		slog.String("type", "db"),
		slog.String("item", item.ID),
		slog.Any("columns", changed))
	return nil
}

func diffItemColumns(stored, want *models.Item) []string {
	var changed []string
	if stored.SortID != want.SortID {
		changed = append(changed, "sort_id")
	}
	if stored.Name != want.Name {
		changed = append(changed, "name")
	}
	if !slices.Equal(stored.Aliases, want.Aliases) {
		changed = append(changed, "aliases")
	}
	if stored.Emoji != want.Emoji {
		changed = append(changed, "emoji")
	}
	if stored.Description != want.Description {
		changed = append(changed, "description")
	}
	if !eqInt64Ptr(stored.BuyPrice, want.BuyPrice) {
		changed = append(changed, "buy_price")
	}
	if !eqInt64Ptr(stored.SellPrice, want.SellPrice) {
		changed = append(changed, "sell_price")
	}
	if !eqIntPtr(stored.Durability, want.Durability) {
		changed = append(changed, "durability")
	}
	return changed
}

func eqInt64Ptr(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func pgArray(vals []string) any {
	if vals == nil {
		vals = []string{}
	}
	return pgdialect.Array(vals)
}
