package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Ahmed-Mansy/shoe-zone-online/cache"
	"github.com/Ahmed-Mansy/shoe-zone-online/models"
)

type ProductInput struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Price         string   `json:"price" binding:"required"`
	DiscountPrice string   `json:"discount_price"`
	StockQuantity int      `json:"stock_quantity" binding:"min=0"`
	CategoryID    uint     `json:"category_id" binding:"required"`
	Sizes         string   `json:"sizes"`
	Colors        string   `json:"colors"`
	Material      string   `json:"material"`
	ImageURLs     []string `json:"image_urls"`
}

// CreateProduct creates a new product with its images.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		price, err := decimal.NewFromString(input.Price)
		if err != nil || !price.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
			return
		}

		var discount decimal.NullDecimal
		if input.DiscountPrice != "" {
			d, err := decimal.NewFromString(input.DiscountPrice)
			if err != nil || d.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid discount_price"})
				return
			}
			discount = decimal.NewNullDecimal(d)
		}

		var category models.Category
		if err := db.First(&category, input.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Category does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate category"})
			return
		}

		product := models.Product{
			Name:          input.Name,
			Description:   input.Description,
			Price:         price,
			DiscountPrice: discount,
			StockQuantity: input.StockQuantity,
			CategoryID:    category.ID,
			Sizes:         input.Sizes,
			Colors:        input.Colors,
			Material:      input.Material,
		}
		for _, url := range input.ImageURLs {
			product.Images = append(product.Images, models.ProductImage{URL: url})
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// DeleteProduct removes a product and invalidates its cache entry.
// URL param: /products/:id
func DeleteProduct(db *gorm.DB, pc *cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		result := db.Delete(&models.Product{}, id)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		if pc != nil {
			pc.Invalidate(c.Request.Context(), uint(id))
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
