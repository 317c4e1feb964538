package repositories

import (
	"fmt"

	"lapaklaptop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMSettingRepository is a GORM implementation of SettingRepository.
type GORMSettingRepository struct {
	db *gorm.DB
}

// NewGORMSettingRepository creates a new instance of GORMSettingRepository.
func NewGORMSettingRepository(db *gorm.DB) *GORMSettingRepository {
	return &GORMSettingRepository{
		db: db,
	}
}

// GetAll retrieves all settings rows.
func (r *GORMSettingRepository) GetAll() ([]models.Setting, error) {
	var settings []models.Setting
	if err := r.db.Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

// Upsert writes a setting value, creating the row if the key does not exist yet
// (conflict key: key).
func (r *GORMSettingRepository) Upsert(key, value string) error {
	setting := models.Setting{
		ID:    uuid.New().String(),
		Key:   key,
		Value: value,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": value}),
	}).Create(&setting).Error
	if err != nil {
		return fmt.Errorf("failed to upsert setting %s: %w", key, err)
	}
	return nil
}
