package repository

import (
	"context"
	"time"

	"ai-mart-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StoreRepository interface {
	Create(ctx context.Context, store *model.Store) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Store, error)
	// FindByIDForUpdate locks the store row until the surrounding
	// transaction ends. Outside a transaction the lock is released at once.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Store, error)
	ListAll(ctx context.Context) ([]model.Store, error)
	ListAutoRefillEnabled(ctx context.Context) ([]model.Store, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	SaveAlertCopy(ctx context.Context, id uuid.UUID, html string, at time.Time) error
}

type storeRepo struct {
	db *gorm.DB
}

func NewStoreRepo(db *gorm.DB) StoreRepository {
	return &storeRepo{db}
}

func (r *storeRepo) Create(ctx context.Context, store *model.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *storeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Store, error) {
	var store model.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &store, nil
}

func (r *storeRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Store, error) {
	var store model.Store
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&store, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &store, nil
}

func (r *storeRepo) ListAll(ctx context.Context) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&stores).Error
	return stores, err
}

func (r *storeRepo) ListAutoRefillEnabled(ctx context.Context) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.WithContext(ctx).
		Where("settings_auto_refill = ?", true).
		Order("created_at ASC").
		Find(&stores).Error
	return stores, err
}

func (r *storeRepo) UpdateSettings(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Store{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *storeRepo) SaveAlertCopy(ctx context.Context, id uuid.UUID, html string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Store{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"settings_last_alert_copy": html,
			"settings_last_alert_date": at,
		}).Error
}
