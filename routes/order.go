package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/Ahmed-Mansy/shoe-zone-online/controllers/order"
	"github.com/Ahmed-Mansy/shoe-zone-online/middleware"
)

// SetupOrderRoutes registers the JWT-protected order endpoints.
func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, deps Dependencies) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		orders.POST("", orderControllers.CreateOrderHandler(db, deps.Gateway))
		orders.GET("", orderControllers.GetUserOrdersHandler(db))
		orders.POST("/confirm-payment", orderControllers.ConfirmPaymentHandler(db, deps.Gateway))
	}
}
