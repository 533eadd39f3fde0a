package handlers

import (
	"ecofinds/middleware"
	"ecofinds/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

type Services struct {
	Auth    *service.AuthService
	Catalog *service.CatalogService
	Orders  *service.OrderService
	Chat    *service.ChatService
}

// NewRouter wires every HTTP route onto a fresh gin engine.
func NewRouter(svc Services, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	// otelgin goes first so later middleware sees the request span
	router.Use(otelgin.Middleware("ecofinds"))
	router.Use(middleware.RequestID())
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.MetricsMiddleware())

	router.GET("/health", HealthCheck)
	router.GET("/metrics", middleware.PrometheusHandler())

	authHandler := NewAuthHandler(svc.Auth, logger)
	productHandler := NewProductHandler(svc.Catalog, logger)
	orderHandler := NewOrderHandler(svc.Orders, logger)
	chatHandler := NewChatHandler(svc.Chat, logger)
	requireAuth := middleware.AuthMiddleware(svc.Auth)

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/verify", requireAuth, authHandler.Verify)

	api.GET("/categories", productHandler.GetCategories)

	products := api.Group("/products")
	products.GET("", productHandler.GetProducts)
	products.GET("/:id", productHandler.GetProduct)
	products.POST("", requireAuth, productHandler.CreateProduct)
	products.PUT("/:id", requireAuth, productHandler.UpdateProduct)
	products.DELETE("/:id", requireAuth, productHandler.DeleteProduct)

	api.GET("/users/me/products", requireAuth, productHandler.GetMyProducts)

	orders := api.Group("/orders", requireAuth)
	orders.GET("", orderHandler.GetOrders)
	orders.POST("", orderHandler.CreateOrder)
	orders.POST("/checkout", orderHandler.Checkout)

	chat := api.Group("/chat", requireAuth)
	chat.GET("", chatHandler.GetHistory)
	chat.POST("", chatHandler.PostMessage)

	return router
}
