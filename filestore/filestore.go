// Package filestore implements the board's store contracts on top of a single
// JSON file. Meant for stands that run without a database server. The whole
// file is one exclusively locked resource: every mutation takes the store
// mutex, rewrites the file to a temp path and renames it into place, so a
// failed write never leaves a half-written store behind.
package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/qahs/toast-board/models"
	"github.com/qahs/toast-board/stores"
)

type state struct {
	NextOrderID     uint                 `json:"next_order_id"`
	NextToastTypeID uint                 `json:"next_toast_type_id"`
	Orders          []models.Order       `json:"orders"`
	ServedOrders    []models.ServedOrder `json:"served_orders"`
	Settings        map[string]string    `json:"settings"`
	ToastTypes      []models.ToastType   `json:"toast_types"`
}

type Store struct {
	path string
	mu   sync.Mutex
	st   state
}

// Open loads the store file, creating it with defaults when absent.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		st: state{
			NextOrderID:     1,
			NextToastTypeID: 1,
			Settings: map[string]string{
				models.SettingOrderTaking:    "1",
				models.SettingOrderReadyTime: "300",
			},
		},
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := s.flush(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if err := json.Unmarshal(data, &s.st); err != nil {
		return nil, fmt.Errorf("parse store file %s: %w", path, err)
	}
	if s.st.Settings == nil {
		s.st.Settings = map[string]string{}
	}
	return s, nil
}

// flush writes the whole state; caller must hold mu (or be initializing).
func (s *Store) flush() error {
	data, err := json.MarshalIndent(&s.st, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// --- stores.OrderStore ---

func (s *Store) Create(name string, details models.OrderDetails, notes string) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if details == nil {
		details = models.OrderDetails{}
	}
	order := models.Order{
		ID:           s.st.NextOrderID,
		Name:         name,
		OrderDetails: details,
		Notes:        notes,
		CreatedAt:    time.Now(),
	}
	s.st.NextOrderID++
	s.st.Orders = append(s.st.Orders, order)

	if err := s.flush(); err != nil {
		// roll the in-memory change back so state matches the file
		s.st.Orders = s.st.Orders[:len(s.st.Orders)-1]
		s.st.NextOrderID--
		return 0, err
	}
	return order.ID, nil
}

func (s *Store) ListActive() ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, len(s.st.Orders))
	copy(out, s.st.Orders)
	return out, nil
}

func (s *Store) GetByID(id uint) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.st.Orders {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Order{}, stores.ErrNotFound
}

func (s *Store) Serve(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, o := range s.st.Orders {
		if o.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return stores.ErrNotFound
	}

	order := s.st.Orders[idx]
	served := models.ServedOrder{
		ID:           order.ID,
		Name:         order.Name,
		OrderDetails: order.OrderDetails,
		Notes:        order.Notes,
		CreatedAt:    order.CreatedAt,
		ServedAt:     time.Now(),
	}

	prevOrders := s.st.Orders
	s.st.Orders = append(append([]models.Order{}, prevOrders[:idx]...), prevOrders[idx+1:]...)
	s.st.ServedOrders = append(s.st.ServedOrders, served)

	if err := s.flush(); err != nil {
		s.st.Orders = prevOrders
		s.st.ServedOrders = s.st.ServedOrders[:len(s.st.ServedOrders)-1]
		return err
	}
	return nil
}

func (s *Store) ListArchive() ([]models.ServedOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ServedOrder, len(s.st.ServedOrders))
	copy(out, s.st.ServedOrders)
	return out, nil
}

func (s *Store) AverageServeDuration(window time.Duration) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-window)
	var total float64
	var count int
	for _, o := range s.st.ServedOrders {
		if o.ServedAt.Before(cutoff) {
			continue
		}
		total += o.ServedAt.Sub(o.CreatedAt).Seconds()
		count++
	}
	if count == 0 {
		return 0, nil
	}
	return total / float64(count), nil
}

// --- stores.SettingsStore ---

func (s *Store) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.st.Settings[key]
	if !ok {
		return "", stores.ErrNotFound
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.st.Settings[key]
	s.st.Settings[key] = value
	if err := s.flush(); err != nil {
		if had {
			s.st.Settings[key] = prev
		} else {
			delete(s.st.Settings, key)
		}
		return err
	}
	return nil
}

func (s *Store) ToggleBoolean(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.st.Settings[key]
	if !ok {
		return "", stores.ErrNotFound
	}
	newValue := "1"
	if current == "1" {
		newValue = "0"
	}
	s.st.Settings[key] = newValue
	if err := s.flush(); err != nil {
		s.st.Settings[key] = current
		return "", err
	}
	return newValue, nil
}

// --- stores.ToastTypeStore ---

func (s *Store) Add(code, name string) (uint, error) {
	if code == "" || name == "" {
		return 0, fmt.Errorf("%w: code and type are required", stores.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	toastType := models.ToastType{
		ID:        s.st.NextToastTypeID,
		Code:      code,
		Type:      name,
		Available: true,
	}
	s.st.NextToastTypeID++
	s.st.ToastTypes = append(s.st.ToastTypes, toastType)

	if err := s.flush(); err != nil {
		s.st.ToastTypes = s.st.ToastTypes[:len(s.st.ToastTypes)-1]
		s.st.NextToastTypeID--
		return 0, err
	}
	return toastType.ID, nil
}

func (s *Store) Remove(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.st.ToastTypes {
		if s.st.ToastTypes[i].ID != id {
			continue
		}
		if !s.st.ToastTypes[i].Available {
			return nil
		}
		s.st.ToastTypes[i].Available = false
		if err := s.flush(); err != nil {
			s.st.ToastTypes[i].Available = true
			return err
		}
		return nil
	}
	return stores.ErrNotFound
}

func (s *Store) ListAvailable() ([]models.ToastType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.ToastType
	for _, t := range s.st.ToastTypes {
		if t.Available {
			out = append(out, t)
		}
	}
	return out, nil
}
