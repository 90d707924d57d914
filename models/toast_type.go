package models

// ToastType is a menu item code. Removal is a soft delete: the row stays with
// Available=false so old orders keep resolving their codes.
type ToastType struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Code      string `gorm:"type:varchar(50);not null" json:"code"`
	Type      string `gorm:"type:varchar(255);not null" json:"type"`
	Available bool   `gorm:"not null;default:true" json:"available"`
}
