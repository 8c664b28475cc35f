package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Ahmed-Mansy/shoe-zone-online/apperrors"
	"github.com/Ahmed-Mansy/shoe-zone-online/middleware"
	"github.com/Ahmed-Mansy/shoe-zone-online/models"
)

type RatingInput struct {
	Score int `json:"score" binding:"required"`
}

// RateProduct records a user's score for a product and recomputes the
// product's average synchronously. One score per (user, product).
func RateProduct(db *gorm.DB, userID, productID uint, score int) (*models.Rating, error) {
	if score < 1 || score > 5 {
		return nil, apperrors.ErrValidation
	}

	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	var existing int64
	if err := db.Model(&models.Rating{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, apperrors.ErrAlreadyReviewed
	}

	rating := models.Rating{UserID: userID, ProductID: productID, Score: score}
	if err := db.Create(&rating).Error; err != nil {
		return nil, err
	}

	if err := models.RecalculateAverageRating(db, productID); err != nil {
		return nil, err
	}
	return &rating, nil
}

// GET /products/:id/ratings
func GetProductRatings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var ratings []models.Rating
		if err := db.Where("product_id = ?", productID).Find(&ratings).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ratings"})
			return
		}
		c.JSON(http.StatusOK, ratings)
	}
}

// POST /products/:id/ratings
func CreateProductRating(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		productID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var input RatingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		rating, err := RateProduct(db, userID, uint(productID), input.Score)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrValidation):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Score must be between 1 and 5."})
			case errors.Is(err, apperrors.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			case errors.Is(err, apperrors.ErrAlreadyReviewed):
				c.JSON(http.StatusBadRequest, gin.H{"error": "You have already rated this product."})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save rating"})
			}
			return
		}
		c.JSON(http.StatusCreated, rating)
	}
}
