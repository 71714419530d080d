package router

import (
	"github.com/clothely/clothely-backend/config"
	"github.com/clothely/clothely-backend/internal/app/controller"
	"github.com/clothely/clothely-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController         *controller.AuthController
	productController      *controller.ProductController
	adminProductController *controller.AdminProductController
	attributeController    *controller.AttributeController
	categoryController     *controller.CategoryController
	brandController        *controller.BrandController
	cartController         *controller.CartController
	orderController        *controller.OrderController
	addressController      *controller.AddressController
	uploadController       *controller.UploadController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	adminProductController *controller.AdminProductController,
	attributeController *controller.AttributeController,
	categoryController *controller.CategoryController,
	brandController *controller.BrandController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	addressController *controller.AddressController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		productController:      productController,
		adminProductController: adminProductController,
		attributeController:    attributeController,
		categoryController:     categoryController,
		brandController:        brandController,
		cartController:         cartController,
		orderController:        orderController,
		addressController:      addressController,
		uploadController:       uploadController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "CLOTHELY API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetProfile)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/filters", r.productController.GetFilters)
			products.GET("/:id", r.productController.GetProduct)
		}

		v1.GET("/categories", r.authMiddleware.OptionalAuthenticate(), r.categoryController.ListCategories)
		v1.GET("/brands", r.brandController.ListBrands)

		cart := v1.Group("/cart", r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.DELETE("", r.cartController.ClearCart)
			cart.POST("/items", r.cartController.AddItem)
			cart.PUT("/items/:id", r.cartController.UpdateItem)
			cart.DELETE("/items/:id", r.cartController.RemoveItem)
		}

		orders := v1.Group("/orders", r.authMiddleware.Authenticate())
		{
			orders.POST("/checkout", r.orderController.Checkout)
			orders.POST("/confirm-payment", r.orderController.ConfirmPayment)
			orders.GET("", r.orderController.ListOrders)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.POST("/:id/cancel", r.orderController.CancelOrder)
		}

		addresses := v1.Group("/addresses", r.authMiddleware.Authenticate())
		{
			addresses.GET("", r.addressController.ListAddresses)
			addresses.POST("", r.addressController.CreateAddress)
			addresses.PUT("/:id", r.addressController.UpdateAddress)
			addresses.DELETE("/:id", r.addressController.DeleteAddress)
		}

		admin := v1.Group("/admin",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole("admin"),
		)
		{
			adminProducts := admin.Group("/products")
			{
				adminProducts.POST("", r.adminProductController.CreateProduct)
				adminProducts.GET("/export", r.adminProductController.ExportCatalog)
				adminProducts.GET("/:id", r.adminProductController.GetProduct)
				adminProducts.PUT("/:id", r.adminProductController.UpdateProduct)
				adminProducts.DELETE("/:id", r.adminProductController.DeleteProduct)
			}

			attributes := admin.Group("/attributes")
			{
				attributes.GET("", r.attributeController.ListOptions)
				attributes.POST("", r.attributeController.CreateOption)
				attributes.PUT("/:id", r.attributeController.UpdateOption)
				attributes.DELETE("/:id", r.attributeController.DeleteOption)
				attributes.POST("/:id/values", r.attributeController.AddGlobalValue)
				attributes.PUT("/:id/values/:valueId", r.attributeController.UpdateGlobalValue)
				attributes.DELETE("/:id/values/:valueId", r.attributeController.DeleteGlobalValue)
			}

			categories := admin.Group("/categories")
			{
				categories.POST("", r.categoryController.CreateCategory)
				categories.PUT("/:id", r.categoryController.UpdateCategory)
				categories.DELETE("/:id", r.categoryController.DeleteCategory)
			}

			brands := admin.Group("/brands")
			{
				brands.POST("", r.brandController.CreateBrand)
				brands.PUT("/:id", r.brandController.UpdateBrand)
				brands.DELETE("/:id", r.brandController.DeleteBrand)
			}

			adminOrders := admin.Group("/orders")
			{
				adminOrders.GET("", r.orderController.AdminListOrders)
				adminOrders.PUT("/:id/status", r.orderController.AdminUpdateStatus)
			}

			admin.POST("/uploads/presign", r.uploadController.PresignUpload)
			admin.DELETE("/uploads", r.uploadController.DeleteUpload)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
