package repository

import (
	"context"
	"time"

	"ai-mart-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemTotal is the summed sale quantity of one item.
type ItemTotal struct {
	ItemID uuid.UUID
	Total  int
}

type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) error
	ListRecent(ctx context.Context, storeID uuid.UUID, limit int) ([]model.Sale, error)
	ListBetween(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]model.Sale, error)
	TopItems(ctx context.Context, storeID uuid.UUID, since time.Time, limit int) ([]ItemTotal, error)
	DeleteByItem(ctx context.Context, itemID uuid.UUID) error
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Create(ctx context.Context, sale *model.Sale) error {
	return r.db.WithContext(ctx).Omit("Item").Create(sale).Error
}

func (r *saleRepo) ListRecent(ctx context.Context, storeID uuid.UUID, limit int) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("Item").
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&sales).Error
	return sales, err
}

// ListBetween returns sales with from <= created_at < to, oldest first.
func (r *saleRepo) ListBetween(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("Item").
		Where("store_id = ? AND created_at >= ? AND created_at < ?", storeID, from, to).
		Order("created_at ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) TopItems(ctx context.Context, storeID uuid.UUID, since time.Time, limit int) ([]ItemTotal, error) {
	var out []ItemTotal
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("item_id, SUM(quantity) AS total").
		Where("store_id = ? AND created_at >= ?", storeID, since).
		Group("item_id").
		Order("total DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

func (r *saleRepo) DeleteByItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Where("item_id = ?", itemID).Delete(&model.Sale{}).Error
}
