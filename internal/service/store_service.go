package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-mart-inventory/internal/model"
	"ai-mart-inventory/internal/repository"
	"ai-mart-inventory/pkg/validator"

	"github.com/google/uuid"
)

type StoreService interface {
	Settings(ctx context.Context, storeID uuid.UUID) (*model.StoreSettings, error)
	UpdateSettings(ctx context.Context, storeID uuid.UUID, req UpdateSettingsRequest) (*model.StoreSettings, error)
	LastAlert(ctx context.Context, storeID uuid.UUID) (*LastAlert, error)
}

type UpdateSettingsRequest struct {
	AutoRefill        *bool   `json:"auto_refill"`
	NotificationEmail *string `json:"notification_email" validate:"omitempty,email"`
	NotificationPhone *string `json:"notification_phone"`
}

type LastAlert struct {
	Copy string     `json:"last_alert_copy"`
	Date *time.Time `json:"last_alert_date"`
}

type storeService struct {
	stores repository.StoreRepository
}

func NewStoreService(stores repository.StoreRepository) StoreService {
	return &storeService{stores: stores}
}

func (s *storeService) Settings(ctx context.Context, storeID uuid.UUID) (*model.StoreSettings, error) {
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		return nil, storeErr(err)
	}
	return &store.Settings, nil
}

func (s *storeService) UpdateSettings(ctx context.Context, storeID uuid.UUID, req UpdateSettingsRequest) (*model.StoreSettings, error) {
	if err := validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	updates := map[string]interface{}{}
	if req.AutoRefill != nil {
		updates["settings_auto_refill"] = *req.AutoRefill
	}
	if req.NotificationEmail != nil {
		updates["settings_notification_email"] = *req.NotificationEmail
	}
	if req.NotificationPhone != nil {
		updates["settings_notification_phone"] = *req.NotificationPhone
	}
	if len(updates) > 0 {
		if err := s.stores.UpdateSettings(ctx, storeID, updates); err != nil {
			return nil, storeErr(err)
		}
	}
	return s.Settings(ctx, storeID)
}

func (s *storeService) LastAlert(ctx context.Context, storeID uuid.UUID) (*LastAlert, error) {
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		return nil, storeErr(err)
	}
	return &LastAlert{Copy: store.Settings.LastAlertCopy, Date: store.Settings.LastAlertDate}, nil
}

func storeErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrStoreNotFound
	}
	return err
}
