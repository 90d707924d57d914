package router

import (
	"gorm.io/gorm"

	"github.com/gin-gonic/gin"

	"github.com/qahs/toast-board/controllers"
	"github.com/qahs/toast-board/middlewares"
	"github.com/qahs/toast-board/services"
	"github.com/qahs/toast-board/stores"
)

// Deps bundles everything the route table needs. The db handle is only for
// staff account management; all board state goes through the store interfaces.
type Deps struct {
	DB       *gorm.DB
	Orders   stores.OrderStore
	Settings stores.SettingsStore
	Types    stores.ToastTypeStore
	Service  *services.OrderService
	Spotify  *services.SpotifyService
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	orderCtrl := controllers.NewOrderController(deps.Service, deps.Orders)
	settingsCtrl := controllers.NewSettingsController(deps.Service, deps.Settings)
	typeCtrl := controllers.NewToastTypeController(deps.Types)
	userCtrl := controllers.NewUserController(deps.DB)
	playlistCtrl := controllers.NewPlaylistController(deps.Spotify)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter for login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// -- CUSTOMER (no auth) --
	r.POST("/api/order", orderCtrl.CreateOrder)
	r.GET("/api/orders", orderCtrl.GetAllOrders)
	r.GET("/api/order/:orderId", orderCtrl.GetOrderByID)
	r.GET("/api/get-order-taking-state", settingsCtrl.GetOrderTakingState)
	r.GET("/api/get-order-ready-time", settingsCtrl.GetOrderReadyTime)
	r.GET("/api/toast-types", typeCtrl.GetToastTypes)
	r.GET("/5min-average", orderCtrl.GetAverageServeTime)

	// Song queue flow
	r.GET("/api/search-tracks", playlistCtrl.SearchTracks)
	r.POST("/add-to-playlist", playlistCtrl.AddToPlaylist)
	r.GET("/findPositionInQueue/:trackId", playlistCtrl.FindPositionInQueue)

	// -- STAFF (JWT) --
	staff := r.Group("/")
	staff.Use(middlewares.AuthMiddleware())
	{
		staff.POST("/api/serve-order", orderCtrl.ServeOrder)
		staff.POST("/api/toggle-order-taking", settingsCtrl.ToggleOrderTaking)
		staff.POST("/api/update-order-ready-time", settingsCtrl.UpdateOrderReadyTime)
		staff.POST("/api/add-toast-type", typeCtrl.AddToastType)
		staff.POST("/api/remove-toast-type", typeCtrl.RemoveToastType)
		staff.GET("/board/ws", controllers.BoardHandler)
	}

	return r
}
