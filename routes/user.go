package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	userControllers "github.com/Ahmed-Mansy/shoe-zone-online/controllers/user"
	"github.com/Ahmed-Mansy/shoe-zone-online/middleware"
)

// SetupUserRoutes registers the JWT-protected profile endpoints.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	users := r.Group("/users")
	users.Use(middleware.ValidateToken)
	{
		users.GET("/profile", userControllers.GetUserProfile(db))
		users.PUT("/profile", userControllers.UpdateUserProfile(db))
		users.POST("/delete-account", userControllers.DeleteAccount(db))

		addresses := users.Group("/addresses")
		{
			addresses.GET("", userControllers.GetAddresses(db))
			addresses.POST("", userControllers.CreateAddress(db))
			addresses.PUT("/:id", userControllers.UpdateAddress(db))
			addresses.DELETE("/:id", userControllers.DeleteAddress(db))
		}
	}
}
