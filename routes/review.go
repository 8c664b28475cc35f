package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	reviewControllers "github.com/Ahmed-Mansy/shoe-zone-online/controllers/review"
	"github.com/Ahmed-Mansy/shoe-zone-online/middleware"
)

// SetupReviewRoutes registers the review and report endpoints.
// Reads are public, writes require a logged-in user.
func SetupReviewRoutes(r *gin.Engine, db *gorm.DB) {
	r.GET("/products/:id/reviews", reviewControllers.GetProductReviews(db))
	r.POST("/products/:id/reviews", middleware.ValidateToken, reviewControllers.CreateReviewHandler(db))

	reviews := r.Group("/reviews")
	reviews.Use(middleware.ValidateToken)
	{
		reviews.DELETE("/:id", reviewControllers.DeleteReviewHandler(db))
		reviews.POST("/:id/replies", reviewControllers.CreateReplyHandler(db))
	}

	r.POST("/reports", middleware.ValidateToken, reviewControllers.CreateReportHandler(db))
}
