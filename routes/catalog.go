package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	productcontroller "github.com/Ahmed-Mansy/shoe-zone-online/controllers/product"
	"github.com/Ahmed-Mansy/shoe-zone-online/middleware"
)

// SetupCatalogRoutes registers the public catalog endpoints.
// Ratings require a logged-in user; everything else is open.
func SetupCatalogRoutes(r *gin.Engine, db *gorm.DB, deps Dependencies) {
	products := r.Group("/products")
	{
		products.GET("", productcontroller.GetProducts(db))
		products.GET("/home", productcontroller.GetHomeProducts(db))
		products.GET("/:id", productcontroller.GetProductByID(db, deps.Products))
		products.GET("/:id/ratings", productcontroller.GetProductRatings(db))
		products.POST("/:id/ratings", middleware.ValidateToken, productcontroller.CreateProductRating(db))
	}

	r.GET("/categories", productcontroller.GetCategories(db))
}
