package reviewControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Ahmed-Mansy/shoe-zone-online/apperrors"
	"github.com/Ahmed-Mansy/shoe-zone-online/middleware"
	"github.com/Ahmed-Mansy/shoe-zone-online/models"
)

type ReportInput struct {
	TargetType string `json:"target_type" binding:"required"`
	TargetID   uint   `json:"target_id" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
}

// CreateReport files a report against exactly one target: a product, a
// review, or a review reply. The target must exist.
func CreateReport(db *gorm.DB, userID uint, targetType string, targetID uint, reason string) (*models.Report, error) {
	if !models.ValidReportTarget(targetType) {
		return nil, apperrors.ErrValidation
	}

	var err error
	switch models.ReportTargetType(targetType) {
	case models.ReportTargetProduct:
		err = db.First(&models.Product{}, targetID).Error
	case models.ReportTargetReview:
		err = db.First(&models.Review{}, targetID).Error
	case models.ReportTargetReviewReply:
		err = db.First(&models.ReviewReply{}, targetID).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	report := models.Report{
		UserID:     userID,
		TargetType: models.ReportTargetType(targetType),
		TargetID:   targetID,
		Reason:     reason,
	}
	if err := db.Create(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// POST /reports
func CreateReportHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input ReportInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		report, err := CreateReport(db, userID, input.TargetType, input.TargetID, input.Reason)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrValidation):
				c.JSON(http.StatusBadRequest, gin.H{"error": "target_type must be one of product, review, review_reply"})
			case errors.Is(err, apperrors.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Report target not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report"})
			}
			return
		}
		c.JSON(http.StatusCreated, report)
	}
}

// GET /reports (admin)
func GetReportsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reports []models.Report
		if err := db.Order("created_at DESC").Find(&reports).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reports"})
			return
		}
		c.JSON(http.StatusOK, reports)
	}
}
