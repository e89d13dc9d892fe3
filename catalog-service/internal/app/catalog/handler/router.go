package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"maplecart/pkg/logger"
	"maplecart/pkg/metrics"
)

// SetupRoutes настраивает все маршруты Catalog Service.
// Чтение каталога доступно любому аутентифицированному пользователю,
// мутации - только администратору. Внутренняя группа защищена
// межсервисным ключом и не требует JWT.
func SetupRoutes(catalogHandler *CatalogHandler, authMiddleware *AuthMiddleware, internalKey string) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware("catalog-service"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "catalog-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	products := router.Group("/products")
	products.Use(authMiddleware.Authenticate())
	{
		products.GET("", catalogHandler.ListProducts)
		products.GET("/:product_id", catalogHandler.GetProduct)

		products.POST("", authMiddleware.RequireRole("admin"), catalogHandler.CreateProduct)
		products.PUT("/:product_id", authMiddleware.RequireRole("admin"), catalogHandler.UpdateProduct)
		products.DELETE("/:product_id", authMiddleware.RequireRole("admin"), catalogHandler.DeleteProduct)
	}

	categories := router.Group("/categories")
	categories.Use(authMiddleware.Authenticate())
	{
		categories.GET("", catalogHandler.GetAllCategories)
		categories.GET("/:category_id", catalogHandler.GetCategory)

		categories.POST("", authMiddleware.RequireRole("admin"), catalogHandler.CreateCategory)
		categories.PUT("/:category_id", authMiddleware.RequireRole("admin"), catalogHandler.UpdateCategory)
		categories.DELETE("/:category_id", authMiddleware.RequireRole("admin"), catalogHandler.DeleteCategory)
	}

	internal := router.Group("/internal")
	internal.Use(InternalAuthMiddleware(internalKey))
	{
		internal.GET("/products/:product_id", catalogHandler.GetProductInternal)
		internal.PUT("/products/:product_id/rating", catalogHandler.UpdateProductRatingInternal)
	}

	return router
}
