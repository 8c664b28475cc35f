package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/Ahmed-Mansy/shoe-zone-online/controllers/cart"
	"github.com/Ahmed-Mansy/shoe-zone-online/middleware"
)

// SetupCartRoutes registers the JWT-protected cart endpoints.
func SetupCartRoutes(r *gin.Engine, db *gorm.DB) {
	cart := r.Group("/cart")
	cart.Use(middleware.ValidateToken)
	{
		cart.GET("", cartControllers.GetUserCart(db))
		cart.POST("/items", cartControllers.AddCartItem(db))
		cart.PUT("/items/:item_id", cartControllers.UpdateCartItem(db))
		cart.DELETE("/items/:item_id", cartControllers.DeleteCartItem(db))
		cart.DELETE("/clear", cartControllers.ClearUserCart(db))
	}
}
