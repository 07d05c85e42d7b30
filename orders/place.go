package orders

import (
	"context"
	"errors"
	"fmt"

	"fooddelight/metrics"
	"fooddelight/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CartLine is one item of a checkout with the price locked in when it was added to the cart.
type CartLine struct {
	ItemID   uint
	Name     string
	Price    decimal.Decimal
	Quantity int
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type PlaceOrderRequest struct {
	UserID uint
	Method models.PaymentMethod
	Lines  []CartLine
}

// Total is the sum of price times quantity over all lines.
func (r PlaceOrderRequest) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range r.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (r PlaceOrderRequest) validate() error {
	if len(r.Lines) == 0 {
		return ErrEmptyCart
	}
	if !r.Method.Valid() {
		return ErrInvalidPaymentMethod
	}
	for _, l := range r.Lines {
		if l.Quantity <= 0 || !l.Price.IsPositive() {
			return fmt.Errorf("%w: item %d", ErrInvalidLine, l.ItemID)
		}
	}
	return nil
}

// PlaceOrder converts a cart into an order in one transaction: a pending payment,
// a randomly assigned partner, one order line per cart line and a stock
// decrement per line. Any failure rolls everything back; a line whose item
// lacks stock fails with *StockError.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (uint, error) {
	log := s.logger(ctx).With(zap.Uint("user_id", req.UserID), zap.String("method", string(req.Method)))
	if err := req.validate(); err != nil {
		s.recordPlacement(req.Method, metrics.OutcomeInvalid)
		return 0, err
	}

	total := req.Total()
	var orderID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("user_id").First(&user, req.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("load user: %w", err)
		}

		payment := models.Payment{
			Method:   req.Method,
			Currency: models.DefaultCurrency,
			Amount:   total,
			Status:   models.PaymentPending,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		partnerID, err := s.assignPartner(tx)
		if err != nil {
			return err
		}

		order := models.Order{
			OrderDate: tx.NowFunc(),
			TotalAmt:  total,
			Status:    models.StatusPlaced,
			UserID:    req.UserID,
			PartnerID: partnerID,
			PaymentID: &payment.PayID,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, line := range req.Lines {
			if err := reserveLine(tx, order.OrderID, line); err != nil {
				return err
			}
		}
		orderID = order.OrderID
		return nil
	})
	if err != nil {
		outcome := metrics.OutcomeError
		switch {
		case errors.Is(err, ErrInsufficientStock):
			outcome = metrics.OutcomeInsufficientStock
			log.Info("checkout rejected", zap.Error(err))
		case errors.Is(err, ErrUserNotFound):
			outcome = metrics.OutcomeInvalid
			log.Info("checkout rejected", zap.Error(err))
		default:
			log.Error("checkout failed", zap.Error(err))
		}
		s.recordPlacement(req.Method, outcome)
		return 0, err
	}

	s.recordPlacement(req.Method, metrics.OutcomeSuccess)
	log.Info("order placed",
		zap.Uint("order_id", orderID),
		zap.String("total", total.StringFixed(2)),
		zap.Int("lines", len(req.Lines)),
	)
	return orderID, nil
}

// reserveLine records the order line and takes its quantity out of stock. The
// decrement only matches rows that still hold enough stock, so concurrent
// checkouts cannot drive the quantity below zero.
func reserveLine(tx *gorm.DB, orderID uint, line CartLine) error {
	var item models.MenuItem
	if err := tx.Select("item_id", "name").First(&item, line.ItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &StockError{ItemID: line.ItemID, Name: line.Name, Requested: line.Quantity}
		}
		return fmt.Errorf("load menu item %d: %w", line.ItemID, err)
	}

	oi := models.OrderItem{
		OrderID:    orderID,
		MenuItemID: line.ItemID,
		Quantity:   line.Quantity,
		Price:      line.Price,
	}
	if err := tx.Create(&oi).Error; err != nil {
		return fmt.Errorf("create order item: %w", err)
	}

	res := tx.Model(&models.MenuItem{}).
		Where("item_id = ? AND quantity >= ?", line.ItemID, line.Quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", line.Quantity))
	if res.Error != nil {
		return fmt.Errorf("decrement stock for item %d: %w", line.ItemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return &StockError{ItemID: line.ItemID, Name: item.Name, Requested: line.Quantity}
	}
	return nil
}
