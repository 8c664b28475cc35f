package cartControllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Ahmed-Mansy/shoe-zone-online/apperrors"
	"github.com/Ahmed-Mansy/shoe-zone-online/middleware"
	"github.com/Ahmed-Mansy/shoe-zone-online/models"
)

type AddItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type QuantityInput struct {
	// Pointer so 0 survives binding; 0 is the remove signal, not an error.
	Quantity *int `json:"quantity" binding:"required"`
}

// CartLine is a cart item priced for display: discount price when present,
// list price otherwise.
type CartLine struct {
	ItemID        uint            `json:"id"`
	ProductID     uint            `json:"product_id"`
	ProductName   string          `json:"product_name"`
	UnitPrice     decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	StockQuantity int             `json:"stock_quantity"`
	Total         decimal.Decimal `json:"total"`
}

type CartView struct {
	Items      []CartLine      `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// -------- Core Logic --------

// AddItem gets-or-creates the user's cart and the cart item for the product.
// Adding the same product twice is additive, never a second row.
func AddItem(db *gorm.DB, userID, productID uint, quantity int) (*CartLine, error) {
	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	var cart models.Cart
	if err := db.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error; err != nil {
		return nil, err
	}

	var item models.CartItem
	err := db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).First(&item).Error
	newQuantity := quantity
	if err == nil {
		newQuantity = item.Quantity + quantity
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if newQuantity > product.StockQuantity {
		return nil, &apperrors.OutOfStockError{Available: product.StockQuantity}
	}

	if item.ID == 0 {
		item = models.CartItem{
			CartID:    cart.CartID,
			ProductID: productID,
			Quantity:  newQuantity,
			AddedAt:   time.Now(),
		}
		if err := db.Create(&item).Error; err != nil {
			return nil, err
		}
	} else {
		item.Quantity = newQuantity
		item.AddedAt = time.Now()
		if err := db.Save(&item).Error; err != nil {
			return nil, err
		}
	}

	return lineFor(&item, &product), nil
}

// SetItemQuantity updates an item in place. Quantity 0 (or below) removes the
// item and reports removed=true.
func SetItemQuantity(db *gorm.DB, userID, itemID uint, quantity int) (removed bool, line *CartLine, err error) {
	item, product, err := ownedItem(db, userID, itemID)
	if err != nil {
		return false, nil, err
	}

	if quantity > product.StockQuantity {
		return false, nil, &apperrors.OutOfStockError{Available: product.StockQuantity}
	}

	if quantity <= 0 {
		if err := db.Delete(item).Error; err != nil {
			return false, nil, err
		}
		return true, nil, nil
	}

	item.Quantity = quantity
	if err := db.Save(item).Error; err != nil {
		return false, nil, err
	}
	return false, lineFor(item, product), nil
}

// RemoveItem deletes the item if present. Deleting an absent item is not an
// error; found reports whether anything was removed.
func RemoveItem(db *gorm.DB, userID, itemID uint) (found bool, err error) {
	item, _, err := ownedItem(db, userID, itemID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := db.Delete(item).Error; err != nil {
		return false, err
	}
	return true, nil
}

// ClearCart removes every item from the user's cart and reports how many were
// removed. An absent cart counts as already empty.
func ClearCart(db *gorm.DB, userID uint) (int64, error) {
	var cart models.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	result := db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// ViewCart returns all items with discounted unit prices, per-line totals and
// the cart grand total.
func ViewCart(db *gorm.DB, userID uint) (*CartView, error) {
	var cart models.Cart
	if err := db.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error; err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := db.Preload("Product").Where("cart_id = ?", cart.CartID).Find(&items).Error; err != nil {
		return nil, err
	}

	view := &CartView{Items: []CartLine{}, TotalPrice: decimal.Zero}
	for i := range items {
		line := lineFor(&items[i], &items[i].Product)
		view.Items = append(view.Items, *line)
		view.TotalPrice = view.TotalPrice.Add(line.Total)
	}
	return view, nil
}

func ownedItem(db *gorm.DB, userID, itemID uint) (*models.CartItem, *models.Product, error) {
	var item models.CartItem
	err := db.Preload("Product").
		Joins("JOIN carts ON carts.cart_id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrNotFound
		}
		return nil, nil, err
	}
	return &item, &item.Product, nil
}

func lineFor(item *models.CartItem, product *models.Product) *CartLine {
	price := product.UnitPrice()
	return &CartLine{
		ItemID:        item.ID,
		ProductID:     product.ID,
		ProductName:   product.Name,
		UnitPrice:     price,
		Quantity:      item.Quantity,
		StockQuantity: product.StockQuantity,
		Total:         price.Mul(decimal.NewFromInt(int64(item.Quantity))),
	}
}

// -------- Handlers --------

// POST /cart/items
func AddCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		line, err := AddItem(db, userID, input.ProductID, input.Quantity)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
				return
			}
			respondCartError(c, err, "Failed to add item to cart")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product added to cart", "item": line})
	}
}

// PUT /cart/items/:item_id
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		itemID, err := paramID(c, "item_id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
			return
		}

		var input QuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		removed, line, err := SetItemQuantity(db, userID, itemID, *input.Quantity)
		if err != nil {
			respondCartError(c, err, "Failed to update cart item")
			return
		}
		if removed {
			c.JSON(http.StatusOK, gin.H{"message": "Item removed because quantity was 0"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Quantity updated", "item": line})
	}
}

// DELETE /cart/items/:item_id
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		itemID, err := paramID(c, "item_id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
			return
		}

		found, err := RemoveItem(db, userID, itemID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		if !found {
			c.JSON(http.StatusOK, gin.H{"message": "Item already removed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
	}
}

// DELETE /cart/clear
func ClearUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		removed, err := ClearCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		if removed == 0 {
			c.JSON(http.StatusOK, gin.H{"message": "Cart is already empty!"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully"})
	}
}

// GET /cart
func GetUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		view, err := ViewCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		if len(view.Items) == 0 {
			c.JSON(http.StatusOK, gin.H{"message": "Your cart is empty!"})
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func respondCartError(c *gin.Context, err error, fallback string) {
	var outOfStock *apperrors.OutOfStockError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
	case errors.As(err, &outOfStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Only %d items available in stock", outOfStock.Available)})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func paramID(c *gin.Context, name string) (uint, error) {
	var id uint
	_, err := fmt.Sscanf(c.Param(name), "%d", &id)
	return id, err
}
