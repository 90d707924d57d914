package main

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/qahs/toast-board/database"
	"github.com/qahs/toast-board/models"
	"github.com/qahs/toast-board/router"
	"github.com/qahs/toast-board/services"
	"github.com/qahs/toast-board/stores"
	"github.com/qahs/toast-board/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// TestEndToEndIntegration walks the board's main flow:
// 0. seed settings + admin, login -> token
// 1. customer places an order
// 2. staff serves it
// 3. board state and the serve-time average reflect both steps
func TestEndToEndIntegration(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := setupTestDB()
	orders := stores.NewGormOrderStore(db)
	settings := stores.NewGormSettingsStore(db)
	types := stores.NewGormToastTypeStore(db)
	service := services.NewOrderService(orders, settings, nil)

	r := router.SetupRouter(router.Deps{
		DB:       db,
		Orders:   orders,
		Settings: settings,
		Types:    types,
		Service:  service,
		Spotify:  nil,
	})

	token := loginTest(t, r)

	// staff endpoints reject anonymous calls
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/serve-order", bytes.NewBufferString(`{"orderId":1}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	orderID := placeOrderTest(t, r)
	serveOrderTest(t, r, orderID, token)
	checkBoardStateTest(t, r, orderID)
}

// setupTestDB -> in-memory SQLite + migrations + the startup seed
func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Setting{},
		&models.ToastType{},
		&models.Order{},
		&models.ServedOrder{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	if err := database.Seed(db); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	// replace the seeded admin password with a known one
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	db.Model(&models.User{}).Where("email = ?", "admin@toast-board.local").
		Update("password", string(hashed))

	return db
}

func loginTest(t *testing.T, r *gin.Engine) string {
	payload := map[string]string{
		"email":    "admin@toast-board.local",
		"password": "secret123",
	}
	raw, _ := json.Marshal(payload)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func placeOrderTest(t *testing.T, r *gin.Engine) uint {
	payload := map[string]interface{}{
		"name":       "Alice",
		"notes":      "well done",
		"toastType1": "Vegemite",
		"quantity1":  "2",
	}
	raw, _ := json.Marshal(payload)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/order", bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data struct {
			OrderID uint `json:"order_id"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotZero(t, resp.Data.OrderID)
	return resp.Data.OrderID
}

func serveOrderTest(t *testing.T, r *gin.Engine, orderID uint, token string) {
	raw, _ := json.Marshal(map[string]uint{"orderId": orderID})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/serve-order", bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func checkBoardStateTest(t *testing.T, r *gin.Engine, orderID uint) {
	// the served order is no longer on the board
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/orders", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var listResp struct {
		Data []models.Order `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Empty(t, listResp.Data)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/5min-average", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var avgResp map[string]float64
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &avgResp))
	assert.GreaterOrEqual(t, avgResp["averageServeTime"], float64(0))
}
