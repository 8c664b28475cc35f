package reviewControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Ahmed-Mansy/shoe-zone-online/apperrors"
	"github.com/Ahmed-Mansy/shoe-zone-online/middleware"
	"github.com/Ahmed-Mansy/shoe-zone-online/models"
)

type ReviewInput struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

type ReplyInput struct {
	Text string `json:"text" binding:"required"`
}

// ReviewResponse decorates a review with the author's display name.
type ReviewResponse struct {
	models.Review
	FullName string `json:"full_name"`
}

// -------- Core Logic --------

// CreateReview attaches a review to a product and recomputes the product's
// average rating synchronously. One review per (user, product).
func CreateReview(db *gorm.DB, userID, productID uint, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", apperrors.ErrValidation)
	}
	if strings.TrimSpace(comment) == "" {
		return nil, fmt.Errorf("%w: the review comment cannot be empty", apperrors.ErrValidation)
	}

	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	var existing int64
	if err := db.Model(&models.Review{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, apperrors.ErrAlreadyReviewed
	}

	review := models.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := db.Create(&review).Error; err != nil {
		return nil, err
	}

	if err := models.RecalculateAverageRating(db, productID); err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview removes a review. Only the author or a staff user may delete;
// the product average is recomputed afterwards.
func DeleteReview(db *gorm.DB, requesterID, reviewID uint) error {
	var review models.Review
	if err := db.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return err
	}

	if review.UserID != requesterID {
		var requester models.User
		if err := db.First(&requester, requesterID).Error; err != nil {
			return err
		}
		if !requester.IsStaff {
			return apperrors.ErrForbidden
		}
	}

	if err := db.Delete(&review).Error; err != nil {
		return err
	}
	return models.RecalculateAverageRating(db, review.ProductID)
}

// CreateReply adds a reply under an existing review.
func CreateReply(db *gorm.DB, userID, reviewID uint, text string) (*models.ReviewReply, error) {
	var review models.Review
	if err := db.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	reply := models.ReviewReply{ReviewID: reviewID, UserID: userID, Text: text}
	if err := db.Create(&reply).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}

// -------- Handlers --------

// GET /products/:id/reviews
func GetProductReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var reviews []models.Review
		if err := db.Preload("User").Preload("Replies").
			Where("product_id = ?", productID).
			Order("created_at DESC").
			Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
			return
		}

		responses := make([]ReviewResponse, 0, len(reviews))
		for _, review := range reviews {
			responses = append(responses, ReviewResponse{Review: review, FullName: review.User.FullName()})
		}
		c.JSON(http.StatusOK, responses)
	}
}

// POST /products/:id/reviews
func CreateReviewHandler(db *gorm.DB) gin.HandlerFunc {
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

		var input ReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		review, err := CreateReview(db, userID, uint(productID), input.Rating, input.Comment)
		if err != nil {
			respondReviewError(c, err)
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

// DELETE /reviews/:id
func DeleteReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		reviewID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
			return
		}

		if err := DeleteReview(db, userID, uint(reviewID)); err != nil {
			respondReviewError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"detail": "Review deleted successfully."})
	}
}

// POST /reviews/:id/replies
func CreateReplyHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		reviewID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
			return
		}

		var input ReplyInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		reply, err := CreateReply(db, userID, uint(reviewID), input.Text)
		if err != nil {
			respondReviewError(c, err)
			return
		}
		c.JSON(http.StatusCreated, reply)
	}
}

func respondReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to delete this review."})
	case errors.Is(err, apperrors.ErrAlreadyReviewed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "You have already submitted a review for this product."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}
