package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"storefront-service/internal/handler"
	mid "storefront-service/internal/middleware"
	"storefront-service/internal/notifier"
	"storefront-service/internal/service"
	"storefront-service/pkg/config"
	"storefront-service/pkg/database"
	"storefront-service/pkg/jwtutil"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting storefront-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")
	db := database.GetDB()

	// Order event notifier; no brokers means log-only delivery
	var orderNotifier notifier.Notifier
	if len(appConfig.Kafka.Brokers) > 0 {
		kafkaNotifier := notifier.NewKafkaNotifier(appConfig.Kafka.Brokers, appConfig.Kafka.Topic, log)
		defer kafkaNotifier.Close()
		orderNotifier = kafkaNotifier
		log.Info("Kafka notifier initialized",
			zap.Strings("brokers", appConfig.Kafka.Brokers),
			zap.String("topic", appConfig.Kafka.Topic))
	} else {
		orderNotifier = notifier.NewNoopNotifier(log)
		log.Info("Order notifications disabled, no Kafka brokers configured")
	}

	// Services
	stockService := service.NewStockService(db)
	cartService := service.NewCartService(db)
	orderService := service.NewOrderService(db, stockService, cartService, orderNotifier, log)
	userService := service.NewUserService(db)
	catalogService := service.NewCatalogService(db)
	addressService := service.NewAddressService(db)
	slotService := service.NewSlotService(db)
	dashboardService := service.NewDashboardService(db)

	// Handlers
	authHandler := handler.NewAuthHandler(userService, cartService)
	cartHandler := handler.NewCartHandler(cartService)
	orderHandler := handler.NewOrderHandler(orderService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	addressHandler := handler.NewAddressHandler(addressService)
	slotHandler := handler.NewSlotHandler(slotService)
	adminOrderHandler := handler.NewAdminOrderHandler(orderService)
	adminProductHandler := handler.NewAdminProductHandler(catalogService)
	adminCategoryHandler := handler.NewAdminCategoryHandler(catalogService)
	adminUserHandler := handler.NewAdminUserHandler(userService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomw.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public storefront routes
	e.GET("/api/home", catalogHandler.Home)
	e.GET("/api/products", catalogHandler.ListProducts)
	e.GET("/api/products/:slug", catalogHandler.GetProduct)
	e.GET("/api/categories", catalogHandler.ListCategories)
	e.GET("/api/categories/:slug", catalogHandler.GetCategory)
	e.GET("/api/delivery-slots", slotHandler.ListAvailableSlots)

	// Identity routes
	e.POST("/api/session", authHandler.NewSession)
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)

	// Cart routes serve both logged-in users and guest sessions
	cartAPI := e.Group("/api/cart", mid.OptionalAuthMiddleware)
	cartAPI.GET("", cartHandler.GetCart)
	cartAPI.POST("/items", cartHandler.AddItem)
	cartAPI.PATCH("/items/:variant_id", cartHandler.UpdateItem)
	cartAPI.DELETE("/items/:variant_id", cartHandler.RemoveItem)

	// Account routes
	profileAPI := e.Group("/api/profile", mid.AuthMiddleware)
	profileAPI.GET("", authHandler.Profile)
	profileAPI.PUT("", authHandler.UpdateProfile)

	addressAPI := e.Group("/api/addresses", mid.AuthMiddleware)
	addressAPI.GET("", addressHandler.ListAddresses)
	addressAPI.POST("", addressHandler.CreateAddress)
	addressAPI.PUT("/:id", addressHandler.UpdateAddress)
	addressAPI.PATCH("/:id/default", addressHandler.SetDefaultAddress)
	addressAPI.DELETE("/:id", addressHandler.DeleteAddress)

	// Checkout and order history
	orderAPI := e.Group("/api/orders", mid.AuthMiddleware)
	orderAPI.POST("", orderHandler.Checkout)
	orderAPI.GET("", orderHandler.ListOrders)
	orderAPI.GET("/:id", orderHandler.GetOrder)
	orderAPI.POST("/:id/cancel", orderHandler.CancelOrder)

	// Admin back office
	adminAPI := e.Group("/api/admin", mid.AuthMiddleware, mid.AdminMiddleware)
	adminAPI.GET("/dashboard", dashboardHandler.Stats)

	adminAPI.GET("/orders", adminOrderHandler.ListOrders)
	adminAPI.GET("/orders/:id", adminOrderHandler.GetOrder)
	adminAPI.PATCH("/orders/:id/status", adminOrderHandler.FireStatusEvent)
	adminAPI.PATCH("/orders/:id/payment", adminOrderHandler.FirePaymentEvent)

	adminAPI.GET("/products/:id", adminProductHandler.GetProduct)
	adminAPI.POST("/products", adminProductHandler.CreateProduct)
	adminAPI.PUT("/products/:id", adminProductHandler.UpdateProduct)
	adminAPI.POST("/products/:id/archive", adminProductHandler.ArchiveProduct)
	adminAPI.POST("/products/:id/restore", adminProductHandler.RestoreProduct)
	adminAPI.POST("/products/:id/variants", adminProductHandler.CreateVariant)
	adminAPI.PUT("/products/:id/variants/:variant_id", adminProductHandler.UpdateVariant)
	adminAPI.POST("/products/:id/variants/:variant_id/archive", adminProductHandler.ArchiveVariant)
	adminAPI.POST("/products/:id/variants/:variant_id/restore", adminProductHandler.RestoreVariant)

	adminAPI.POST("/categories", adminCategoryHandler.CreateCategory)
	adminAPI.PUT("/categories/:id", adminCategoryHandler.UpdateCategory)
	adminAPI.DELETE("/categories/:id", adminCategoryHandler.DeleteCategory)

	adminAPI.GET("/delivery-slots", slotHandler.ListAllSlots)
	adminAPI.POST("/delivery-slots", slotHandler.CreateSlot)
	adminAPI.PUT("/delivery-slots/:id", slotHandler.UpdateSlot)
	adminAPI.DELETE("/delivery-slots/:id", slotHandler.DeleteSlot)

	adminAPI.GET("/users", adminUserHandler.ListUsers)
	adminAPI.PATCH("/users/:id/role", adminUserHandler.SetUserRole)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
