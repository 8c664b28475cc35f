package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	adminControllers "github.com/Ahmed-Mansy/shoe-zone-online/controllers/admin"
	orderControllers "github.com/Ahmed-Mansy/shoe-zone-online/controllers/order"
	productcontroller "github.com/Ahmed-Mansy/shoe-zone-online/controllers/product"
	reviewControllers "github.com/Ahmed-Mansy/shoe-zone-online/controllers/review"
	userControllers "github.com/Ahmed-Mansy/shoe-zone-online/controllers/user"
	"github.com/Ahmed-Mansy/shoe-zone-online/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-key middleware.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, deps Dependencies) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		adminGroup.GET("/dashboard", adminControllers.GetDashboardStats(db))

		// User management
		adminGroup.GET("/users", userControllers.GetAllUsers(db))
		adminGroup.PATCH("/users/:id/block", userControllers.SetUserActive(db, false))
		adminGroup.PATCH("/users/:id/unblock", userControllers.SetUserActive(db, true))

		// Product management
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(db))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(db, deps.Products))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(db, deps.Products))
		}

		// Category management
		adminGroup.POST("/categories", productcontroller.CreateCategory(db))

		// Order management
		adminGroup.GET("/orders", orderControllers.GetAllOrdersHandler(db))
		adminGroup.PUT("/orders/:orderID/status", orderControllers.UpdateOrderStatusHandler(db))
		adminGroup.DELETE("/orders/:orderID", orderControllers.CancelOrderHandler(db))

		// Moderation
		adminGroup.GET("/reports", reviewControllers.GetReportsHandler(db))
	}
}
