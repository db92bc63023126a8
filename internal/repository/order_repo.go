package repository

import (
	"context"

	"ai-mart-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]model.Order, error)
	DeleteByItem(ctx context.Context, itemID uuid.UUID) error
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Omit("Item").Create(order).Error
}

// ListByStore returns orders newest first with their item attached.
func (r *orderRepo) ListByStore(ctx context.Context, storeID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Item").
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) DeleteByItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Where("item_id = ?", itemID).Delete(&model.Order{}).Error
}
