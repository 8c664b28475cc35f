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

type ProductUpdateInput struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Price         *string `json:"price"`
	DiscountPrice *string `json:"discount_price"`
	StockQuantity *int    `json:"stock_quantity"`
	CategoryID    *uint   `json:"category_id"`
	Sizes         *string `json:"sizes"`
	Colors        *string `json:"colors"`
	Material      *string `json:"material"`
}

// UpdateProduct applies a partial update and invalidates the cache entry.
// URL param: /products/:id
func UpdateProduct(db *gorm.DB, pc *cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			}
			return
		}

		var input ProductUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.Price != nil {
			price, err := decimal.NewFromString(*input.Price)
			if err != nil || !price.IsPositive() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
				return
			}
			updates["price"] = price
		}
		if input.DiscountPrice != nil {
			if *input.DiscountPrice == "" {
				updates["discount_price"] = nil
			} else {
				d, err := decimal.NewFromString(*input.DiscountPrice)
				if err != nil || d.IsNegative() {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid discount_price"})
					return
				}
				updates["discount_price"] = d
			}
		}
		if input.StockQuantity != nil {
			if *input.StockQuantity < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "stock_quantity cannot be negative"})
				return
			}
			updates["stock_quantity"] = *input.StockQuantity
		}
		if input.CategoryID != nil {
			updates["category_id"] = *input.CategoryID
		}
		if input.Sizes != nil {
			updates["sizes"] = *input.Sizes
		}
		if input.Colors != nil {
			updates["colors"] = *input.Colors
		}
		if input.Material != nil {
			updates["material"] = *input.Material
		}

		if len(updates) > 0 {
			if err := db.Model(&product).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
				return
			}
		}

		if pc != nil {
			pc.Invalidate(c.Request.Context(), product.ID)
		}
		c.JSON(http.StatusOK, product)
	}
}
