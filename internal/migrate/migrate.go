package migrate

import (
	"context"
	"fmt"

	"ai-mart-inventory/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Options struct {
	// CreateChecks adds non-negative stock CHECK constraints (Postgres only).
	CreateChecks bool
}

func DefaultOptions() Options {
	return Options{CreateChecks: true}
}

// Run creates or updates the schema.
func Run(ctx context.Context, db *gorm.DB, log *zap.Logger, opt Options) error {
	db = db.WithContext(ctx)

	log.Info("migrating tables: users, stores, items, orders, sales")
	if err := db.AutoMigrate(&model.User{}, &model.Store{}, &model.Item{}, &model.Order{}, &model.Sale{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if opt.CreateChecks && db.Dialector.Name() == "postgres" {
		checks := []string{
			`DO $$ BEGIN
				ALTER TABLE items ADD CONSTRAINT chk_items_stock_non_negative CHECK (rack_stock >= 0 AND total_stock >= 0);
			EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,
			`DO $$ BEGIN
				ALTER TABLE orders ADD CONSTRAINT chk_orders_quantity_positive CHECK (quantity > 0);
			EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,
		}
		for _, stmt := range checks {
			if err := db.Exec(stmt).Error; err != nil {
				return fmt.Errorf("create check: %w", err)
			}
		}
	}

	log.Info("migration complete")
	return nil
}
