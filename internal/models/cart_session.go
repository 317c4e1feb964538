package models

import "gorm.io/gorm"

// CartSession stores one visitor's cart as an opaque serialized payload, keyed by
// the session id the storefront client carries. The payload is written whole on
// every cart mutation; last write wins across concurrent holders of a session.
type CartSession struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SessionID string `json:"session_id" gorm:"uniqueIndex;type:varchar(36)"`
	Payload   string `json:"payload" gorm:"type:text"`
	gorm.Model
}
