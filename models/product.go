package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CategoryType string

const (
	CategoryTypeWomen CategoryType = "women"
	CategoryTypeMen   CategoryType = "men"
)

type Category struct {
	ID       uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string       `gorm:"not null;uniqueIndex:idx_name_per_type" json:"name"`
	Type     CategoryType `gorm:"type:VARCHAR(20);default:'women';uniqueIndex:idx_name_per_type" json:"type"`
	Products []Product    `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

type Product struct {
	ID            uint                `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string              `gorm:"not null;index" json:"name"`
	Description   string              `json:"description"`
	Price         decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"price"`
	DiscountPrice decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"discount_price"`
	StockQuantity int                 `gorm:"not null;default:0;check:stock_quantity >= 0" json:"stock_quantity"`
	CategoryID    uint                `gorm:"index" json:"category_id"`
	AverageRating float64             `gorm:"default:0" json:"average_rating"`
	Sizes         string              `json:"sizes"`
	Colors        string              `json:"colors"`
	Material      string              `json:"material"`
	Images        []ProductImage      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// UnitPrice is what the cart charges: the discount price when one is set,
// the list price otherwise. Order snapshots intentionally use Price instead.
func (p *Product) UnitPrice() decimal.Decimal {
	if p.DiscountPrice.Valid && p.DiscountPrice.Decimal.IsPositive() {
		return p.DiscountPrice.Decimal
	}
	return p.Price
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	URL       string `gorm:"not null" json:"url"`
}

// Rating is a bare 1-5 score, distinct from a written Review.
type Rating struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_rating_user_product" json:"user_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_rating_user_product" json:"product_id"`
	Score     int  `gorm:"not null" json:"score"`
}

// RecalculateAverageRating recomputes and persists the product's average over
// all review ratings and standalone rating scores, 0 when none exist. Runs
// synchronously after every rating/review write.
func RecalculateAverageRating(db *gorm.DB, productID uint) error {
	var scores []int

	var reviewScores []int
	if err := db.Model(&Review{}).Where("product_id = ? AND rating > 0", productID).
		Pluck("rating", &reviewScores).Error; err != nil {
		return err
	}
	scores = append(scores, reviewScores...)

	var ratingScores []int
	if err := db.Model(&Rating{}).Where("product_id = ? AND score > 0", productID).
		Pluck("score", &ratingScores).Error; err != nil {
		return err
	}
	scores = append(scores, ratingScores...)

	avg := 0.0
	if len(scores) > 0 {
		total := 0
		for _, s := range scores {
			total += s
		}
		avg = float64(total) / float64(len(scores))
	}

	return db.Model(&Product{}).Where("id = ?", productID).
		Update("average_rating", avg).Error
}
