package productcontroller_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Ahmed-Mansy/shoe-zone-online/apperrors"
	productcontroller "github.com/Ahmed-Mansy/shoe-zone-online/controllers/product"
	reviewControllers "github.com/Ahmed-Mansy/shoe-zone-online/controllers/review"
	"github.com/Ahmed-Mansy/shoe-zone-online/models"
)

func setupRatingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{}, &models.Rating{},
		&models.Review{}, &models.ReviewReply{},
	)
	require.NoError(t, err)
	return db
}

func TestRateProduct(t *testing.T) {
	db := setupRatingTestDB(t)

	user := models.User{Email: "rater@example.com", IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	product := models.Product{Name: "Derby Shoe", Price: decimal.NewFromFloat(120), StockQuantity: 8}
	require.NoError(t, db.Create(&product).Error)

	t.Run("score out of range", func(t *testing.T) {
		for _, score := range []int{0, 6, -1} {
			_, err := productcontroller.RateProduct(db, user.ID, product.ID, score)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		}
	})

	t.Run("records the score and updates the average", func(t *testing.T) {
		rating, err := productcontroller.RateProduct(db, user.ID, product.ID, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, rating.Score)

		var fresh models.Product
		require.NoError(t, db.First(&fresh, product.ID).Error)
		assert.InDelta(t, 5.0, fresh.AverageRating, 0.001)
	})

	t.Run("one score per user and product", func(t *testing.T) {
		_, err := productcontroller.RateProduct(db, user.ID, product.ID, 3)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyReviewed)
	})
}

func TestAverageCombinesReviewsAndRatings(t *testing.T) {
	db := setupRatingTestDB(t)

	rater := models.User{Email: "rater@example.com", IsActive: true}
	reviewer := models.User{Email: "reviewer@example.com", IsActive: true}
	require.NoError(t, db.Create(&rater).Error)
	require.NoError(t, db.Create(&reviewer).Error)

	product := models.Product{Name: "Oxford Shoe", Price: decimal.NewFromFloat(150), StockQuantity: 3}
	require.NoError(t, db.Create(&product).Error)

	_, err := productcontroller.RateProduct(db, rater.ID, product.ID, 5)
	require.NoError(t, err)
	_, err = reviewControllers.CreateReview(db, reviewer.ID, product.ID, 2, "Runs narrow")
	require.NoError(t, err)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, product.ID).Error)
	assert.InDelta(t, 3.5, fresh.AverageRating, 0.001)
}
