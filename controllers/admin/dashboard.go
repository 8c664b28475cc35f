package adminControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Ahmed-Mansy/shoe-zone-online/models"
)

type DashboardStats struct {
	TotalUsers  int64           `json:"total_users"`
	TotalOrders int64           `json:"total_orders"`
	TotalSales  decimal.Decimal `json:"total_sales"`
}

// GET /admin/dashboard
// Staff accounts are excluded from the user count.
func GetDashboardStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var stats DashboardStats

		if err := db.Model(&models.User{}).
			Where("is_staff = ?", false).
			Count(&stats.TotalUsers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard stats"})
			return
		}
		if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard stats"})
			return
		}

		var total decimal.NullDecimal
		if err := db.Model(&models.Order{}).
			Select("COALESCE(SUM(total_price), 0)").
			Scan(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard stats"})
			return
		}
		if total.Valid {
			stats.TotalSales = total.Decimal
		}

		c.JSON(http.StatusOK, stats)
	}
}
