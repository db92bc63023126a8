package model

import "github.com/google/uuid"

type OrderStatus string

const (
	OrderCreated  OrderStatus = "created"
	OrderPlaced   OrderStatus = "placed"
	OrderReceived OrderStatus = "received"
)

const AutoRefillOrderNote = "Auto-refill order - insufficient totalStock"

// Order is a restock request against a vendor.
type Order struct {
	BaseModel
	StoreID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"store_id"`
	ItemID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"item_id"`
	Item     *Item       `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"item,omitempty"`
	VendorID *uuid.UUID  `gorm:"type:uuid" json:"vendor_id,omitempty"`
	Quantity int         `gorm:"not null" json:"quantity"`
	Status   OrderStatus `gorm:"type:varchar(16);not null" json:"status"`
	Note     string      `gorm:"type:text" json:"note"`
}
