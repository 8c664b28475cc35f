package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string
type PaymentMethod string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"

	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodStripe PaymentMethod = "stripe"
)

func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

func ValidPaymentMethod(m string) bool {
	switch PaymentMethod(m) {
	case PaymentMethodCOD, PaymentMethodStripe:
		return true
	}
	return false
}

type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"index;not null" json:"user_id"`
	User            User            `gorm:"foreignKey:UserID" json:"-"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Status          OrderStatus     `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"total_price"`
	ShippingAddress string          `gorm:"not null" json:"shipping_address"`
	IsPaid          bool            `gorm:"default:false" json:"is_paid"`
	PaymentMethod   PaymentMethod   `gorm:"type:VARCHAR(20);default:'cod'" json:"payment_method"`
	CreatedAt       time.Time       `json:"created_at"`
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index;not null" json:"order_id"`
	ProductID uint            `gorm:"not null" json:"product_id"`
	Product   Product         `gorm:"foreignKey:ProductID" json:"-"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"` // snapshot at item creation
}

// RecalculateOrderTotal persists total = Σ item.price × item.quantity.
// Must be called after every order-item mutation.
func RecalculateOrderTotal(db *gorm.DB, orderID uint) (decimal.Decimal, error) {
	var items []OrderItem
	if err := db.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if err := db.Model(&Order{}).Where("id = ?", orderID).
		Update("total_price", total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
