package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	userControllers "github.com/Ahmed-Mansy/shoe-zone-online/controllers/user"
)

// SetupAuthRoutes registers the public account endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB, deps Dependencies) {
	users := r.Group("/users")
	{
		users.POST("/register", userControllers.RegisterUser(db, deps.Tokens, deps.Mailer))
		users.GET("/activate/:uid/:token", userControllers.ActivateAccount(db, deps.Tokens))
		users.POST("/login", userControllers.LoginUser(db))
		users.POST("/password-reset", userControllers.RequestPasswordReset(db, deps.Tokens, deps.Mailer))
		users.POST("/password-reset/confirm", userControllers.ConfirmPasswordReset(db, deps.Tokens))
	}
}
