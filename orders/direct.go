package orders

import (
	"context"
	"errors"
	"fmt"

	"fooddelight/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DirectOrderRequest inserts an order without a cart. With no Method the order
// gets the default pending cash-on-delivery payment.
type DirectOrderRequest struct {
	UserID uint
	Total  decimal.Decimal
	Method models.PaymentMethod
}

// CreateOrder records an order for a user with a random partner and no lines.
func (s *Service) CreateOrder(ctx context.Context, req DirectOrderRequest) (*models.Order, error) {
	if req.Total.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if req.Method != "" && !req.Method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("user_id").First(&models.User{}, req.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("load user: %w", err)
		}
		partnerID, err := s.assignPartner(tx)
		if err != nil {
			return err
		}
		order = models.Order{
			TotalAmt:  req.Total,
			Status:    models.StatusPlaced,
			UserID:    req.UserID,
			PartnerID: partnerID,
		}
		if req.Method != "" {
			p := models.Payment{Method: req.Method, Currency: models.DefaultCurrency, Amount: req.Total, Status: models.PaymentPending}
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("create payment: %w", err)
			}
			order.PaymentID = &p.PayID
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger(ctx).Info("order created directly", zap.Uint("order_id", order.OrderID), zap.Uint("user_id", req.UserID))
	return &order, nil
}
