package repository

import (
	"context"
	"strings"

	"ai-mart-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemFilter narrows List. Zero values match everything.
type ItemFilter struct {
	StoreType string
	Search    string
}

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.Item, error)
	FindByIDForUpdate(ctx context.Context, storeID, id uuid.UUID) (*model.Item, error)
	List(ctx context.Context, storeID uuid.UUID, f ItemFilter) ([]model.Item, error)
	// ListByStore returns every item of the store in a stable order.
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]model.Item, error)
	// ListByStoreForUpdate is ListByStore holding row locks until the
	// surrounding transaction ends.
	ListByStoreForUpdate(ctx context.Context, storeID uuid.UUID) ([]model.Item, error)
	ListLowStock(ctx context.Context, storeID uuid.UUID) ([]model.Item, error)
	LowestRackStock(ctx context.Context, storeID uuid.UUID) (*model.Item, error)
	Update(ctx context.Context, storeID, id uuid.UUID, updates map[string]interface{}) (*model.Item, error)
	UpdateStock(ctx context.Context, id uuid.UUID, rackStock, totalStock int) error
	ApplyDiscount(ctx context.Context, id uuid.UUID, percent, qty int) error
	Delete(ctx context.Context, storeID, id uuid.UUID) error
}

type itemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepository {
	return &itemRepo{db}
}

func (r *itemRepo) Create(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepo) FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).First(&item, "id = ? AND store_id = ?", id, storeID).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r *itemRepo) FindByIDForUpdate(ctx context.Context, storeID, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, "id = ? AND store_id = ?", id, storeID).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r *itemRepo) List(ctx context.Context, storeID uuid.UUID, f ItemFilter) ([]model.Item, error) {
	q := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if f.StoreType != "" {
		q = q.Where("store_type = ?", f.StoreType)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	var items []model.Item
	err := q.Order("name ASC").Find(&items).Error
	return items, err
}

func (r *itemRepo) ListByStore(ctx context.Context, storeID uuid.UUID) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at ASC").Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *itemRepo) ListByStoreForUpdate(ctx context.Context, storeID uuid.UUID) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("store_id = ?", storeID).
		Order("created_at ASC").Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *itemRepo) ListLowStock(ctx context.Context, storeID uuid.UUID) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND rack_stock <= threshold", storeID).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *itemRepo) LowestRackStock(ctx context.Context, storeID uuid.UUID) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("rack_stock ASC").
		First(&item).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r *itemRepo) Update(ctx context.Context, storeID, id uuid.UUID, updates map[string]interface{}) (*model.Item, error) {
	res := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("id = ? AND store_id = ?", id, storeID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, storeID, id)
}

func (r *itemRepo) UpdateStock(ctx context.Context, id uuid.UUID, rackStock, totalStock int) error {
	return r.db.WithContext(ctx).Model(&model.Item{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rack_stock":  rackStock,
			"total_stock": totalStock,
		}).Error
}

func (r *itemRepo) ApplyDiscount(ctx context.Context, id uuid.UUID, percent, qty int) error {
	return r.db.WithContext(ctx).Model(&model.Item{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"discount_percent": percent,
			"discount_qty":     qty,
		}).Error
}

// Delete removes the item permanently so its SKU can be reused.
func (r *itemRepo) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Unscoped().
		Where("id = ? AND store_id = ?", id, storeID).
		Delete(&model.Item{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
