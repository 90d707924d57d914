package database

import (
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qahs/toast-board/models"
	"github.com/qahs/toast-board/utils"
)

// defaults for a fresh board: taking orders, five minute ready time
var defaultSettings = map[string]string{
	models.SettingOrderTaking:    "1",
	models.SettingOrderReadyTime: "300",
}

// Seed fills in the settings rows the board cannot run without and an initial
// admin account. Existing rows are left alone.
func Seed(db *gorm.DB) error {
	for key, value := range defaultSettings {
		var count int64
		if err := db.Model(&models.Setting{}).Where("`key` = ?", key).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&models.Setting{Key: key, Value: value}).Error; err != nil {
				return err
			}
			utils.InfoLogger.Printf("Seeded setting %s=%s", key, value)
		}
	}

	return seedAdmin(db)
}

func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
		utils.InfoLogger.Println("ADMIN_PASSWORD not set, seeding admin with default password")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Create(&models.User{
		Name:     "Admin",
		Email:    "admin@toast-board.local",
		Password: string(hashed),
		Role:     "admin",
	}).Error
}
