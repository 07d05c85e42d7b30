package orders

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidPaymentMethod = errors.New("payment method must be one of UPI, Card, COD")
	ErrInvalidLine          = errors.New("cart line needs a positive quantity and price")
	ErrInvalidAmount        = errors.New("order total must not be negative")
	ErrInvalidStatus        = errors.New("unknown order or payment status")
	ErrUserNotFound         = errors.New("user not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrNotAssigned          = errors.New("order is not assigned to this partner")
	ErrNotCollectable       = errors.New("only pending cash-on-delivery payments can be collected")
	ErrInsufficientStock    = errors.New("insufficient stock")
)

// StockError reports the menu item that could not cover a checkout line.
type StockError struct {
	ItemID    uint
	Name      string
	Requested int
}

func (e *StockError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("insufficient stock for item %d", e.ItemID)
	}
	return fmt.Sprintf("insufficient stock for %s (requested %d)", e.Name, e.Requested)
}

func (e *StockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
