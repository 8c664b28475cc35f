package cartControllers_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Ahmed-Mansy/shoe-zone-online/apperrors"
	cartControllers "github.com/Ahmed-Mansy/shoe-zone-online/controllers/cart"
	"github.com/Ahmed-Mansy/shoe-zone-online/models"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{},
		&models.Cart{}, &models.CartItem{},
	)
	require.NoError(t, err)
	return db
}

func seedCartUserAndProduct(t *testing.T, db *gorm.DB, stock int) (models.User, models.Product) {
	user := models.User{Email: "shopper@example.com", IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	product := models.Product{
		Name:          "Leather Boot",
		Price:         decimal.NewFromFloat(49.99),
		StockQuantity: stock,
	}
	require.NoError(t, db.Create(&product).Error)
	return user, product
}

func TestAddItem(t *testing.T) {
	t.Run("adding the same product twice is additive", func(t *testing.T) {
		db := setupCartTestDB(t)
		user, product := seedCartUserAndProduct(t, db, 10)

		_, err := cartControllers.AddItem(db, user.ID, product.ID, 2)
		require.NoError(t, err)
		line, err := cartControllers.AddItem(db, user.ID, product.ID, 3)
		require.NoError(t, err)

		assert.Equal(t, 5, line.Quantity)

		var count int64
		db.Model(&models.CartItem{}).Where("product_id = ?", product.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("rejects quantities beyond available stock", func(t *testing.T) {
		db := setupCartTestDB(t)
		user, product := seedCartUserAndProduct(t, db, 3)

		_, err := cartControllers.AddItem(db, user.ID, product.ID, 2)
		require.NoError(t, err)

		_, err = cartControllers.AddItem(db, user.ID, product.ID, 2)
		var outOfStock *apperrors.OutOfStockError
		require.ErrorAs(t, err, &outOfStock)
		assert.Equal(t, 3, outOfStock.Available)

		// Quantity stays at what was last accepted.
		var item models.CartItem
		require.NoError(t, db.Where("product_id = ?", product.ID).First(&item).Error)
		assert.Equal(t, 2, item.Quantity)
	})

	t.Run("unknown product", func(t *testing.T) {
		db := setupCartTestDB(t)
		user, _ := seedCartUserAndProduct(t, db, 3)

		_, err := cartControllers.AddItem(db, user.ID, 9999, 1)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestSetItemQuantity(t *testing.T) {
	t.Run("quantity zero removes the item", func(t *testing.T) {
		db := setupCartTestDB(t)
		user, product := seedCartUserAndProduct(t, db, 10)

		line, err := cartControllers.AddItem(db, user.ID, product.ID, 2)
		require.NoError(t, err)

		removed, _, err := cartControllers.SetItemQuantity(db, user.ID, line.ItemID, 0)
		require.NoError(t, err)
		assert.True(t, removed)

		var count int64
		db.Model(&models.CartItem{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("updates in place within stock", func(t *testing.T) {
		db := setupCartTestDB(t)
		user, product := seedCartUserAndProduct(t, db, 10)

		line, err := cartControllers.AddItem(db, user.ID, product.ID, 2)
		require.NoError(t, err)

		removed, updated, err := cartControllers.SetItemQuantity(db, user.ID, line.ItemID, 7)
		require.NoError(t, err)
		assert.False(t, removed)
		assert.Equal(t, 7, updated.Quantity)
	})

	t.Run("another user's item is not visible", func(t *testing.T) {
		db := setupCartTestDB(t)
		user, product := seedCartUserAndProduct(t, db, 10)

		other := models.User{Email: "other@example.com", IsActive: true}
		require.NoError(t, db.Create(&other).Error)

		line, err := cartControllers.AddItem(db, user.ID, product.ID, 2)
		require.NoError(t, err)

		_, _, err = cartControllers.SetItemQuantity(db, other.ID, line.ItemID, 1)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestRemoveItem(t *testing.T) {
	db := setupCartTestDB(t)
	user, product := seedCartUserAndProduct(t, db, 10)

	line, err := cartControllers.AddItem(db, user.ID, product.ID, 1)
	require.NoError(t, err)

	found, err := cartControllers.RemoveItem(db, user.ID, line.ItemID)
	require.NoError(t, err)
	assert.True(t, found)

	// Removing again is not an error, just a no-op.
	found, err = cartControllers.RemoveItem(db, user.ID, line.ItemID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClearCart(t *testing.T) {
	db := setupCartTestDB(t)
	user, product := seedCartUserAndProduct(t, db, 10)

	second := models.Product{Name: "Canvas Sneaker", Price: decimal.NewFromFloat(25), StockQuantity: 5}
	require.NoError(t, db.Create(&second).Error)

	_, err := cartControllers.AddItem(db, user.ID, product.ID, 1)
	require.NoError(t, err)
	_, err = cartControllers.AddItem(db, user.ID, second.ID, 2)
	require.NoError(t, err)

	removed, err := cartControllers.ClearCart(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	// Clearing an already empty cart reports zero removals.
	removed, err = cartControllers.ClearCart(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)

	// A user with no cart at all is also fine.
	removed, err = cartControllers.ClearCart(db, 9999)
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)
}

func TestViewCart(t *testing.T) {
	db := setupCartTestDB(t)
	user, product := seedCartUserAndProduct(t, db, 10)

	discounted := models.Product{
		Name:          "Suede Loafer",
		Price:         decimal.NewFromFloat(80),
		DiscountPrice: decimal.NewNullDecimal(decimal.NewFromFloat(60)),
		StockQuantity: 4,
	}
	require.NoError(t, db.Create(&discounted).Error)

	_, err := cartControllers.AddItem(db, user.ID, product.ID, 2)
	require.NoError(t, err)
	_, err = cartControllers.AddItem(db, user.ID, discounted.ID, 1)
	require.NoError(t, err)

	view, err := cartControllers.ViewCart(db, user.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)

	// 2 x 49.99 + 1 x 60 (discount price, not list price)
	assert.True(t, view.TotalPrice.Equal(decimal.NewFromFloat(159.98)),
		"got total %s", view.TotalPrice)
}
