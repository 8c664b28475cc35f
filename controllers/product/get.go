package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Ahmed-Mansy/shoe-zone-online/cache"
	"github.com/Ahmed-Mansy/shoe-zone-online/models"
)

// GetProducts returns the full catalog, optionally filtered by category.
// URL query: /products?category_id=3
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Images").Order("created_at DESC")
		if categoryID := c.Query("category_id"); categoryID != "" {
			query = query.Where("category_id = ?", categoryID)
		}

		var products []models.Product
		if err := query.Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GetProductByID returns a single product. Reads go through the cache when
// one is configured; pc may be nil.
// URL param: /products/:id
func GetProductByID(db *gorm.DB, pc *cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		if pc != nil {
			if cached := pc.Get(c.Request.Context(), uint(id)); cached != nil {
				c.JSON(http.StatusOK, cached)
				return
			}
		}

		var product models.Product
		if err := db.Preload("Images").First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			}
			return
		}

		if pc != nil {
			pc.Set(c.Request.Context(), &product)
		}
		c.JSON(http.StatusOK, product)
	}
}

// GetHomeProducts returns the top-rated picks for the landing page.
func GetHomeProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Preload("Images").
			Where("average_rating >= ?", 3).
			Order("average_rating DESC, created_at DESC").
			Limit(12).
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
