package stores

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/qahs/toast-board/models"
)

type GormToastTypeStore struct {
	DB *gorm.DB
}

func NewGormToastTypeStore(db *gorm.DB) *GormToastTypeStore {
	return &GormToastTypeStore{DB: db}
}

// Add inserts a new toast type. Duplicate codes are allowed on purpose; the
// board has no uniqueness rule for codes.
func (s *GormToastTypeStore) Add(code, name string) (uint, error) {
	if code == "" || name == "" {
		return 0, fmt.Errorf("%w: code and type are required", ErrValidation)
	}
	toastType := models.ToastType{
		Code:      code,
		Type:      name,
		Available: true,
	}
	if err := s.DB.Create(&toastType).Error; err != nil {
		return 0, err
	}
	return toastType.ID, nil
}

// Remove soft-deletes: the row stays with available=false. Removing an
// already removed type is a no-op that still succeeds.
func (s *GormToastTypeStore) Remove(id uint) error {
	var toastType models.ToastType
	if err := s.DB.First(&toastType, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	return s.DB.Model(&toastType).Update("available", false).Error
}

func (s *GormToastTypeStore) ListAvailable() ([]models.ToastType, error) {
	var types []models.ToastType
	if err := s.DB.Where("available = ?", true).Order("id asc").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}
