package model

import (
	"time"

	"github.com/google/uuid"
)

type Store struct {
	BaseModel
	Name     string        `gorm:"type:varchar(255);not null" json:"name"`
	OwnerID  uuid.UUID     `gorm:"type:uuid;index" json:"owner_id"`
	Currency string        `gorm:"type:varchar(8)" json:"currency"`
	Settings StoreSettings `gorm:"embedded;embeddedPrefix:settings_" json:"settings"`
}

// StoreSettings is the per-store policy. AutoRefill gates the refill engine.
type StoreSettings struct {
	AutoRefill        bool       `json:"auto_refill"`
	NotificationEmail string     `gorm:"type:varchar(255)" json:"notification_email"`
	NotificationPhone string     `gorm:"type:varchar(32)" json:"notification_phone"`
	LastAlertCopy     string     `gorm:"type:text" json:"-"`
	LastAlertDate     *time.Time `json:"-"`
}

const DefaultCurrency = "INR"
