package migrate_test

import (
	"context"
	"testing"

	"ai-mart-inventory/internal/migrate"
	"ai-mart-inventory/internal/model"
	"ai-mart-inventory/internal/testutil"

	"go.uber.org/zap"
)

func TestSeedDemoIsIdempotent(t *testing.T) {
	db := testutil.NewSQLite(t)
	ctx := context.Background()

	store, err := migrate.SeedDemo(ctx, db, zap.NewNop())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if store == nil || store.Settings.AutoRefill {
		t.Fatalf("store = %+v, want auto-refill off", store)
	}

	again, err := migrate.SeedDemo(ctx, db, zap.NewNop())
	if err != nil || again != nil {
		t.Fatalf("second seed = %v, %v", again, err)
	}

	var items []model.Item
	if err := db.Where("store_id = ?", store.ID).Order("sku").Find(&items).Error; err != nil {
		t.Fatalf("load items: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	if items[0].SKU != "MAGGI-123" || items[0].RackStock != 4 || items[0].Capacity() != 20 {
		t.Fatalf("maggi = %+v", items[0])
	}

	var owner model.User
	if err := db.First(&owner, "email = ?", migrate.DemoEmail).Error; err != nil {
		t.Fatalf("load owner: %v", err)
	}
	if owner.StoreID == nil || *owner.StoreID != store.ID || !owner.CheckPassword(migrate.DemoPassword) {
		t.Fatalf("owner = %+v", owner)
	}
}
