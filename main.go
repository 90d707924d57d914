package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/qahs/toast-board/config"
	"github.com/qahs/toast-board/database"
	"github.com/qahs/toast-board/filestore"
	"github.com/qahs/toast-board/middlewares"
	"github.com/qahs/toast-board/models"
	"github.com/qahs/toast-board/router"
	"github.com/qahs/toast-board/services"
	"github.com/qahs/toast-board/stores"
	"github.com/qahs/toast-board/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	cfg := config.Load()

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Open the database either way: staff accounts always live in SQL even
	// when the board itself runs on the flat-file store.
	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Setting{},
		&models.ToastType{},
		&models.Order{},
		&models.ServedOrder{},
	); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	if err := database.Seed(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed database: %v", err)
	}

	var (
		orderStore    stores.OrderStore
		settingsStore stores.SettingsStore
		typeStore     stores.ToastTypeStore
	)
	if cfg.StoreBackend == "file" {
		fs, err := filestore.Open(cfg.FileStorePath)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to open file store: %v", err)
		}
		orderStore, settingsStore, typeStore = fs, fs, fs
		utils.InfoLogger.Printf("Using flat-file store at %s", cfg.FileStorePath)
	} else {
		orderStore = stores.NewGormOrderStore(db)
		settingsStore = stores.NewGormSettingsStore(db)
		typeStore = stores.NewGormToastTypeStore(db)
	}

	spotify := services.NewSpotifyService(services.SpotifyConfig{
		ClientID:     cfg.SpotifyClientID,
		ClientSecret: cfg.SpotifyClientSecret,
	}, settingsStore)
	if err := spotify.ValidateConfig(); err != nil {
		utils.InfoLogger.Printf("Spotify disabled: %v", err)
		spotify = nil
	}

	orderService := services.NewOrderService(orderStore, settingsStore, spotify)

	r := router.SetupRouter(router.Deps{
		DB:       db,
		Orders:   orderStore,
		Settings: settingsStore,
		Types:    typeStore,
		Service:  orderService,
		Spotify:  spotify,
	})

	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
