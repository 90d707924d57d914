package stores

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qahs/toast-board/models"
)

type GormSettingsStore struct {
	DB *gorm.DB
}

func NewGormSettingsStore(db *gorm.DB) *GormSettingsStore {
	return &GormSettingsStore{DB: db}
}

func (s *GormSettingsStore) Get(key string) (string, error) {
	var setting models.Setting
	if err := s.DB.First(&setting, "`key` = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return setting.Value, nil
}

func (s *GormSettingsStore) Set(key, value string) error {
	setting := models.Setting{Key: key, Value: value}
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&setting).Error
}

// ToggleBoolean flips between "1" and "0". Read and write happen in one
// transaction; concurrent toggles are last-write-wins across transactions.
func (s *GormSettingsStore) ToggleBoolean(key string) (string, error) {
	var newValue string
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var setting models.Setting
		if err := tx.First(&setting, "`key` = ?", key).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if setting.Value == "1" {
			newValue = "0"
		} else {
			newValue = "1"
		}
		return tx.Model(&models.Setting{}).Where("`key` = ?", key).
			Update("value", newValue).Error
	})
	if err != nil {
		return "", err
	}
	return newValue, nil
}
