package models

import "gorm.io/gorm"

// Setting is a key-value store configuration row, e.g. the store name, the
// WhatsApp number orders are sent to, or the pickup address shown at checkout.
type Setting struct {
	ID    string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Key   string `json:"key" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=2,max=100"`
	Value string `json:"value" gorm:"type:varchar(1000)"`
	gorm.Model
}

// Well-known setting keys.
const (
	SettingStoreName      = "store_name"
	SettingWhatsAppNumber = "whatsapp_number"
	SettingPickupAddress  = "pickup_address"
)
