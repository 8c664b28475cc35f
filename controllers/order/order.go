package orderControllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Ahmed-Mansy/shoe-zone-online/apperrors"
	cartControllers "github.com/Ahmed-Mansy/shoe-zone-online/controllers/cart"
	"github.com/Ahmed-Mansy/shoe-zone-online/middleware"
	"github.com/Ahmed-Mansy/shoe-zone-online/models"
	"github.com/Ahmed-Mansy/shoe-zone-online/payment"
)

// Window in which a pending order with the same shipping address counts as a
// duplicate submission. A heuristic against double-clicks, not a dedup key.
const duplicateOrderWindow = 5 * time.Minute

// -------- Request Structs --------

type OrderItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	Items           []OrderItemInput `json:"items"`
	ShippingAddress string           `json:"shipping_address"`
	PaymentMethod   string           `json:"payment_method"`
}

type ConfirmPaymentRequest struct {
	OrderID         uint   `json:"order_id" binding:"required"`
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CreateOrderResult struct {
	Order           *models.Order
	ClientSecret    string
	PaymentIntentID string
}

// -------- Core Logic --------

// CreateOrder turns a checkout payload into an immutable order. Stock
// decrement, item creation with a list-price snapshot, and the total
// recomputation run in one transaction; a failure on any line rolls back
// every stock mutation. The user's cart is cleared best-effort afterwards,
// and for Stripe orders a payment intent is created with a fresh idempotency
// key. A failed intent creation leaves the created order pending.
func CreateOrder(ctx context.Context, db *gorm.DB, gateway payment.Gateway, userID uint, req CreateOrderRequest) (*CreateOrderResult, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: an order must contain at least one item", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.ShippingAddress) == "" {
		return nil, fmt.Errorf("%w: shipping address is required", apperrors.ErrValidation)
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("%w: invalid payment method, choose 'cod' or 'stripe'", apperrors.ErrValidation)
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var recent int64
		if err := tx.Model(&models.Order{}).
			Where("user_id = ? AND shipping_address = ? AND status = ? AND created_at >= ?",
				userID, req.ShippingAddress, models.OrderStatusPending, time.Now().Add(-duplicateOrderWindow)).
			Count(&recent).Error; err != nil {
			return err
		}
		if recent > 0 {
			return apperrors.ErrDuplicateOrder
		}

		products := make(map[uint]*models.Product, len(req.Items))
		for _, item := range req.Items {
			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: product %d", apperrors.ErrNotFound, item.ProductID)
				}
				return err
			}
			if product.StockQuantity < item.Quantity {
				return &apperrors.InsufficientStockError{Product: product.Name, Available: product.StockQuantity}
			}
			products[item.ProductID] = &product
		}

		order = models.Order{
			UserID:          userID,
			Status:          models.OrderStatusPending,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   models.PaymentMethod(req.PaymentMethod),
			CreatedAt:       time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, item := range req.Items {
			product := products[item.ProductID]

			// Conditional decrement closes the read-check/write race: the
			// quantity check above may be stale by write time.
			result := tx.Exec(
				"UPDATE products SET stock_quantity = stock_quantity - ? WHERE id = ? AND stock_quantity >= ?",
				item.Quantity, item.ProductID, item.Quantity)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				var fresh models.Product
				if err := tx.First(&fresh, item.ProductID).Error; err == nil {
					product.StockQuantity = fresh.StockQuantity
				}
				return &apperrors.InsufficientStockError{Product: product.Name, Available: product.StockQuantity}
			}

			// Snapshot the list price, not the cart's discounted price.
			orderItem := models.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     product.Price,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
		}

		total, err := models.RecalculateOrderTotal(tx, order.ID)
		if err != nil {
			return err
		}
		if total.LessThanOrEqual(decimal.Zero) {
			return apperrors.ErrInvalidOrderTotal
		}
		order.TotalPrice = total
		return tx.Preload("Items").First(&order, order.ID).Error
	})
	if err != nil {
		return nil, err
	}

	// Best effort; an absent cart is not an error.
	if _, err := cartControllers.ClearCart(db, userID); err != nil {
		log.Printf("failed to clear cart for user %d after order %d: %v", userID, order.ID, err)
	}

	result := &CreateOrderResult{Order: &order}
	if order.PaymentMethod == models.PaymentMethodCOD {
		return result, nil
	}

	amountMinor := order.TotalPrice.Mul(decimal.NewFromInt(100)).IntPart()
	intent, err := gateway.CreateIntent(ctx, amountMinor, paymentCurrency(),
		payment.Metadata{UserID: userID, OrderID: order.ID}, uuid.NewString())
	if err != nil {
		// The order survives; the client may retry confirmation later.
		log.Printf("payment intent creation failed for order %d: %v", order.ID, err)
		return nil, err
	}

	result.ClientSecret = intent.ClientSecret
	result.PaymentIntentID = intent.ID
	return result, nil
}

// ConfirmPayment checks the intent with the gateway and, when it succeeded,
// marks the order paid and shipped in a single update.
func ConfirmPayment(ctx context.Context, db *gorm.DB, gateway payment.Gateway, userID, orderID uint, paymentIntentID string) error {
	var order models.Order
	if err := db.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return err
	}

	if order.PaymentMethod == models.PaymentMethodCOD {
		return apperrors.ErrInvalidOperation
	}

	intent, err := gateway.RetrieveIntent(ctx, paymentIntentID)
	if err != nil {
		return err
	}
	if intent.Status != payment.IntentStatusSucceeded {
		return &apperrors.PaymentNotSucceededError{Status: intent.Status}
	}

	return db.Model(&order).Updates(map[string]interface{}{
		"is_paid": true,
		"status":  models.OrderStatusShipped,
	}).Error
}

// CancelOrder is the only path that deletes order items: stock is restored
// symmetrically before the order and its items go away.
func CancelOrder(db *gorm.DB, orderID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		for _, item := range order.Items {
			if err := tx.Exec(
				"UPDATE products SET stock_quantity = stock_quantity + ? WHERE id = ?",
				item.Quantity, item.ProductID).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}

func paymentCurrency() string {
	if c := os.Getenv("PAYMENT_CURRENCY"); c != "" {
		return c
	}
	return "egp"
}

// -------- Handlers --------

// POST /orders
func CreateOrderHandler(db *gorm.DB, gateway payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := CreateOrder(c.Request.Context(), db, gateway, userID, req)
		if err != nil {
			respondOrderError(c, err)
			return
		}

		response := gin.H{"order": result.Order}
		if result.Order.PaymentMethod == models.PaymentMethodCOD {
			response["message"] = "Order created with Cash on Delivery."
		} else {
			response["client_secret"] = result.ClientSecret
			response["payment_intent_id"] = result.PaymentIntentID
		}
		c.JSON(http.StatusCreated, response)
	}
}

// POST /orders/confirm-payment
func ConfirmPaymentHandler(db *gorm.DB, gateway payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req ConfirmPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment Intent ID and Order ID are required."})
			return
		}

		if err := ConfirmPayment(c.Request.Context(), db, gateway, userID, req.OrderID, req.PaymentIntentID); err != nil {
			respondOrderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment confirmed successfully."})
	}
}

// GET /orders
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var orders []models.Order
		if err := db.Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /admin/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// PUT /admin/orders/:orderID/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !models.ValidOrderStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order status"})
			return
		}

		result := db.Model(&models.Order{}).Where("id = ?", orderID).
			Update("status", models.OrderStatus(req.Status))
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}

// DELETE /admin/orders/:orderID
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orderID uint
		if _, err := fmt.Sscanf(c.Param("orderID"), "%d", &orderID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		if err := CancelOrder(db, orderID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order cancelled and stock restored"})
	}
}

func respondOrderError(c *gin.Context, err error) {
	var insufficient *apperrors.InsufficientStockError
	var notSucceeded *apperrors.PaymentNotSucceededError
	var cardErr *apperrors.CardError
	var providerErr *apperrors.ProviderError

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicateOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": "An identical order was recently created. Please check your order history."})
	case errors.Is(err, apperrors.ErrInvalidOrderTotal):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order total must be greater than zero."})
	case errors.Is(err, apperrors.ErrInvalidOperation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot confirm payment for Cash on Delivery orders."})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found."})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Not enough stock for %s. Available: %d", insufficient.Product, insufficient.Available)})
	case errors.As(err, &notSucceeded):
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Payment failed: %s. Please try again.", notSucceeded.Status)})
	case errors.As(err, &cardErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Card error: " + cardErr.Message})
	case errors.As(err, &providerErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment processing failed: " + providerErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred. Please try again."})
	}
}
