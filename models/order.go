package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// OrderDetails is the flat field bag of an order (toastType1 -> "Vegemite",
// quantity1 -> "2", ...). Stored as a JSON column so the same model works on
// MySQL and SQLite.
type OrderDetails map[string]string

func (d OrderDetails) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *OrderDetails) Scan(value interface{}) error {
	if value == nil {
		*d = OrderDetails{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type for order details: %T", value)
	}
	if len(raw) == 0 {
		*d = OrderDetails{}
		return nil
	}
	return json.Unmarshal(raw, d)
}

// Order is an order still on the board.
type Order struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"type:varchar(255);not null" json:"name"`
	OrderDetails OrderDetails `gorm:"type:text;not null" json:"order_details"`
	Notes        string       `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time    `gorm:"not null" json:"created_at"`
}

// ServedOrder is an archived order. Rows keep the id the order had while
// active and are never updated or deleted afterwards.
type ServedOrder struct {
	ID           uint         `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name         string       `gorm:"type:varchar(255);not null" json:"name"`
	OrderDetails OrderDetails `gorm:"type:text;not null" json:"order_details"`
	Notes        string       `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time    `gorm:"not null" json:"created_at"`
	ServedAt     time.Time    `gorm:"not null;index" json:"served_at"`
}
