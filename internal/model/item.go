package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	StoreTypeKirana  = "Kirana"
	StoreTypeGeneral = "General"

	DefaultRack      = "R1"
	DefaultThreshold = 10
	fallbackCapacity = 20
)

// Item is a stock-keeping unit of one store. TotalStock is the backing
// (warehouse) quantity and RackStock the quantity on the shelf.
type Item struct {
	BaseModel
	StoreID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_items_store_sku" json:"store_id"`
	StoreType       string     `gorm:"type:varchar(16);index" json:"store_type"`
	Name            string     `gorm:"type:varchar(255);not null" json:"name"`
	SKU             string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_items_store_sku" json:"sku"`
	Rack            string     `gorm:"type:varchar(32)" json:"rack"`
	TotalStock      int        `gorm:"not null" json:"total_stock"`
	RackStock       int        `gorm:"not null" json:"rack_stock"`
	Threshold       int        `gorm:"not null" json:"threshold"`
	DisplayCapacity *int       `json:"display_capacity"`
	AutoRefill      bool       `json:"auto_refill"`
	ExpiryDate      *time.Time `json:"expiry_date"`
	UserCreated     bool       `json:"user_created"`
	DiscountPercent int        `json:"discount_percent"`
	DiscountQty     int        `json:"discount_qty"`
}

// Capacity resolves the shelf capacity: the stored value when present,
// otherwise twice the threshold, or 20 when that is zero.
func (i *Item) Capacity() int {
	return ResolveCapacity(i.DisplayCapacity, i.Threshold)
}

func ResolveCapacity(displayCapacity *int, threshold int) int {
	if displayCapacity != nil {
		return *displayCapacity
	}
	if c := threshold * 2; c != 0 {
		return c
	}
	return fallbackCapacity
}

// IsLowStock reports whether the shelf is at or below the threshold.
func (i *Item) IsLowStock() bool {
	return i.RackStock <= i.Threshold
}

// DaysToExpiry returns whole days from today until expiry, floored.
// ok is false when the item has no expiry date.
func (i *Item) DaysToExpiry(today time.Time) (days int, ok bool) {
	if i.ExpiryDate == nil {
		return 0, false
	}
	diff := i.ExpiryDate.Sub(today)
	days = int(diff / (24 * time.Hour))
	if diff < 0 && diff%(24*time.Hour) != 0 {
		days--
	}
	return days, true
}
