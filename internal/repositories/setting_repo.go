package repositories

import "lapaklaptop/internal/models"

// SettingRepository defines the interface for settings data access.
type SettingRepository interface {
	GetAll() ([]models.Setting, error)
	Upsert(key, value string) error
}
