package model

import "github.com/google/uuid"

type Sale struct {
	BaseModel
	StoreID  uuid.UUID `gorm:"type:uuid;not null;index" json:"store_id"`
	ItemID   uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	Item     *Item     `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"item,omitempty"`
	Quantity int       `gorm:"not null" json:"quantity"`
}
