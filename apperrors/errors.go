// Package apperrors defines the domain error taxonomy shared by all
// controllers. Handlers translate these into HTTP status codes at the
// boundary; none of them is ever fatal to the process.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrForbidden         = errors.New("forbidden")
	ErrValidation        = errors.New("invalid input")
	ErrDuplicateOrder    = errors.New("an identical order was recently created")
	ErrInvalidOrderTotal = errors.New("order total must be greater than zero")
	ErrInvalidOperation  = errors.New("operation not allowed for this order")
	ErrAlreadyReviewed   = errors.New("you have already submitted a review for this product")
	ErrCartEmpty         = errors.New("cart is empty")
)

// OutOfStockError rejects a cart mutation that would exceed available stock.
type OutOfStockError struct {
	Available int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("only %d items available in stock", e.Available)
}

// InsufficientStockError rejects an order line for a named product.
type InsufficientStockError struct {
	Product   string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s. Available: %d", e.Product, e.Available)
}

// PaymentNotSucceededError carries the provider's intent status when a
// confirmation finds anything other than a settled payment.
type PaymentNotSucceededError struct {
	Status string
}

func (e *PaymentNotSucceededError) Error() string {
	return fmt.Sprintf("payment failed: %s", e.Status)
}

// CardError is a card-level rejection reported by the payment provider.
type CardError struct {
	Code    string
	Message string
}

func (e *CardError) Error() string {
	return fmt.Sprintf("card error: %s", e.Message)
}

// ProviderError is any other error the payment provider reported.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment processing failed: %s", e.Message)
}
