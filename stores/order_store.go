package stores

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qahs/toast-board/models"
)

type GormOrderStore struct {
	DB *gorm.DB
}

func NewGormOrderStore(db *gorm.DB) *GormOrderStore {
	return &GormOrderStore{DB: db}
}

func (s *GormOrderStore) Create(name string, details models.OrderDetails, notes string) (uint, error) {
	if details == nil {
		details = models.OrderDetails{}
	}
	order := models.Order{
		Name:         name,
		OrderDetails: details,
		Notes:        notes,
		CreatedAt:    time.Now(),
	}
	if err := s.DB.Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

func (s *GormOrderStore) ListActive() ([]models.Order, error) {
	var orders []models.Order
	if err := s.DB.Order("id asc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *GormOrderStore) GetByID(id uint) (models.Order, error) {
	var order models.Order
	if err := s.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrNotFound
		}
		return models.Order{}, err
	}
	return order, nil
}

// Serve moves one order from the active table to served_orders inside a single
// transaction. The final guarded DELETE makes two concurrent serves of the
// same id mutually exclusive: the loser deletes zero rows and rolls back.
func (s *GormOrderStore) Serve(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		served := models.ServedOrder{
			ID:           order.ID,
			Name:         order.Name,
			OrderDetails: order.OrderDetails,
			Notes:        order.Notes,
			CreatedAt:    order.CreatedAt,
			ServedAt:     time.Now(),
		}
		if err := tx.Create(&served).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *GormOrderStore) ListArchive() ([]models.ServedOrder, error) {
	var served []models.ServedOrder
	if err := s.DB.Order("served_at asc").Find(&served).Error; err != nil {
		return nil, err
	}
	return served, nil
}

// AverageServeDuration computes the mean in Go rather than SQL so that the
// same query works on MySQL and SQLite.
func (s *GormOrderStore) AverageServeDuration(window time.Duration) (float64, error) {
	cutoff := time.Now().Add(-window)

	var served []models.ServedOrder
	if err := s.DB.Where("served_at >= ?", cutoff).Find(&served).Error; err != nil {
		return 0, err
	}
	if len(served) == 0 {
		return 0, nil
	}

	var total float64
	for _, o := range served {
		total += o.ServedAt.Sub(o.CreatedAt).Seconds()
	}
	return total / float64(len(served)), nil
}
