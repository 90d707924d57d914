package stores

import (
	"errors"
	"time"

	"github.com/qahs/toast-board/models"
)

var (
	// ErrNotFound is returned when the requested row does not exist (or, for
	// orders, is no longer in the active set).
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned when a required field is missing or empty.
	ErrValidation = errors.New("missing required field")
)

// OrderStore holds active orders and the archive of served ones. An order
// lives in exactly one of the two sets.
type OrderStore interface {
	Create(name string, details models.OrderDetails, notes string) (uint, error)
	ListActive() ([]models.Order, error)
	GetByID(id uint) (models.Order, error)
	// Serve stamps the served timestamp and moves the order from the active
	// set to the archive as one atomic unit. ErrNotFound if id is not active.
	Serve(id uint) error
	ListArchive() ([]models.ServedOrder, error)
	// AverageServeDuration returns the mean of (served_at - created_at) in
	// seconds over archived orders served within the trailing window. Zero,
	// not an error, when the window is empty.
	AverageServeDuration(window time.Duration) (float64, error)
}

// SettingsStore is a flat key/value table with upsert semantics.
type SettingsStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	// ToggleBoolean flips a "1"/"0" setting and returns the new value. Each
	// call reads the current row fresh before writing.
	ToggleBoolean(key string) (string, error)
}

// ToastTypeStore is the soft-deletable menu item catalog.
type ToastTypeStore interface {
	Add(code, name string) (uint, error)
	Remove(id uint) error
	ListAvailable() ([]models.ToastType, error)
}
