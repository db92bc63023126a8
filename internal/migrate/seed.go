package migrate

import (
	"context"
	"errors"
	"fmt"

	"ai-mart-inventory/internal/model"
	"ai-mart-inventory/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DemoEmail    = "demo@local"
	DemoPassword = "password"
)

type demoItem struct {
	name, sku, rack string
	backing, shelf  int
	threshold       int
	capacity        int
}

var demoItems = []demoItem{
	{name: "Maggi 2-min", sku: "MAGGI-123", rack: "R1", backing: 50, shelf: 4, threshold: 10, capacity: 20},
	{name: "Sunflower Oil 1L", sku: "OIL-1L", rack: "R2", backing: 30, shelf: 12, threshold: 10, capacity: 15},
	{name: "Rice 5kg", sku: "RICE-5", rack: "R3", backing: 20, shelf: 2, threshold: 5, capacity: 10},
}

// SeedDemo creates a demo owner with one store and three items. It does
// nothing when the demo owner already exists. Auto-refill starts off.
func SeedDemo(ctx context.Context, db *gorm.DB, log *zap.Logger) (*model.Store, error) {
	repo := repository.New(db)
	if _, err := repo.Users.FindByEmail(ctx, DemoEmail); err == nil {
		log.Info("demo data already present", zap.String("email", DemoEmail))
		return nil, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	var store *model.Store
	err := repo.WithTx(ctx, func(tx *repository.Repository) error {
		owner := &model.User{Name: "Demo Owner", Email: DemoEmail, Role: model.RoleOwner}
		owner.CreatedBy = "seed"
		if err := owner.SetPassword(DemoPassword); err != nil {
			return err
		}
		if err := tx.Users.Create(ctx, owner); err != nil {
			return fmt.Errorf("create owner: %w", err)
		}

		store = &model.Store{Name: "Demo Store", OwnerID: owner.ID, Currency: model.DefaultCurrency}
		store.CreatedBy = "seed"
		if err := tx.Stores.Create(ctx, store); err != nil {
			return fmt.Errorf("create store: %w", err)
		}
		if err := tx.Users.AssignStore(ctx, owner.ID, store.ID); err != nil {
			return err
		}

		for _, s := range demoItems {
			capacity := s.capacity
			item := &model.Item{
				StoreID:         store.ID,
				StoreType:       model.StoreTypeKirana,
				Name:            s.name,
				SKU:             s.sku,
				Rack:            s.rack,
				TotalStock:      s.backing,
				RackStock:       s.shelf,
				Threshold:       s.threshold,
				DisplayCapacity: &capacity,
				AutoRefill:      true,
			}
			item.CreatedBy = "seed"
			if err := tx.Items.Create(ctx, item); err != nil {
				return fmt.Errorf("create item %s: %w", s.sku, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info("demo data seeded", zap.String("email", DemoEmail), zap.String("store_id", store.ID.String()))
	return store, nil
}
