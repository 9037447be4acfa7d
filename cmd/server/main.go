package main

import (
	"github.com/gin-gonic/gin"

	"github.com/webbutiken/storefront/internal/auth"
	"github.com/webbutiken/storefront/internal/events"
	orderAPI "github.com/webbutiken/storefront/internal/order/api"
	orderRepo "github.com/webbutiken/storefront/internal/order/repository"
	orderService "github.com/webbutiken/storefront/internal/order/service"
	"github.com/webbutiken/storefront/internal/platform/cache"
	"github.com/webbutiken/storefront/internal/platform/config"
	"github.com/webbutiken/storefront/internal/platform/database"
	"github.com/webbutiken/storefront/internal/platform/logger"
	productAPI "github.com/webbutiken/storefront/internal/product/api"
	productRepo "github.com/webbutiken/storefront/internal/product/repository"
	productService "github.com/webbutiken/storefront/internal/product/service"
	userAPI "github.com/webbutiken/storefront/internal/user/api"
	userRepo "github.com/webbutiken/storefront/internal/user/repository"
	userService "github.com/webbutiken/storefront/internal/user/service"
)

func main() {
	dbCfg := config.LoadStoreDBConfig()
	serverCfg := config.LoadServerConfig("8080")
	redisCfg := config.LoadRedisConfig()
	brokerCfg := config.LoadBrokerConfig()
	stockCfg := config.LoadStockConfig()

	logger.Info("Starting Storefront Server...")

	db, err := database.Connect(dbCfg.DSN)
	if err != nil {
		logger.Error("Failed to connect to database", err)
		return
	}
	defer db.Close()

	cacheClient := cache.NewClient(redisCfg.Addr, redisCfg.Password, redisCfg.DB)

	var publisher events.Publisher = events.NoopPublisher{}
	if brokerCfg.URL != "" {
		publisher, err = events.NewAMQPPublisher(brokerCfg.URL, brokerCfg.Queue)
		if err != nil {
			logger.Error("Failed to connect to message broker, order events disabled", err)
			publisher = events.NoopPublisher{}
		}
	}

	userRepository := userRepo.NewPostgresUserRepository(db)
	productRepository := productRepo.NewPostgresProductRepository(db)
	orderRepository := orderRepo.NewPostgresOrderRepository(db)

	usrService := userService.NewUserService(userRepository)
	prodService := productService.NewProductService(productRepository, cacheClient, stockCfg.LowStockThreshold)
	defer prodService.StopScheduler()
	ordService := orderService.NewOrderService(orderRepository, productRepository, publisher, cacheClient)

	userHandler := userAPI.NewUserHandler(usrService)
	productHandler := productAPI.NewProductHandler(prodService)
	orderHandler := orderAPI.NewOrderHandler(ordService)

	router := gin.Default()
	router.Use(auth.AttachSession())
	api := router.Group("/api")
	userHandler.RegisterRoutes(api)
	productHandler.RegisterRoutes(api)
	orderHandler.RegisterRoutes(api)

	logger.Info("Storefront Server running on port " + serverCfg.Port)
	if errSrv := router.Run(serverCfg.Port); errSrv != nil {
		logger.Error("Failed to run Storefront Server", errSrv)
	}
}
