package orders

import (
	"context"
	"errors"
	"fmt"

	"fooddelight/models"
	"fooddelight/statemachine"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatusChange describes an applied status transition.
type StatusChange struct {
	OrderID       uint                 `json:"order_id"`
	Previous      models.OrderStatus   `json:"previous_status"`
	Status        models.OrderStatus   `json:"status"`
	PaymentStatus models.PaymentStatus `json:"payment_status,omitempty"`
	PartnerRated  bool                 `json:"partner_rated"`
}

// bumpRatingSQL raises a partner's rating by 0.1, treating NULL as 3.0 and
// capping at 5.0. It runs as a single statement so concurrent deliveries for the
// same partner each apply their increment.
const bumpRatingSQL = `UPDATE deliverypartner
SET rating = ROUND(CASE
	WHEN COALESCE(rating, 3.0) + 0.1 > 5.0 THEN 5.0
	ELSE COALESCE(rating, 3.0) + 0.1
END, 2)
WHERE partner_id = ?`

// UpdateOrderAndPaymentStatus sets an order's status and its payment's status
// together, then rates the partner if this is the order's first delivery.
// No state machine check is made; use Transition for actor-driven changes.
func (s *Service) UpdateOrderAndPaymentStatus(ctx context.Context, orderID uint, status models.OrderStatus, payStatus models.PaymentStatus) (*StatusChange, error) {
	if !status.Valid() || !payStatus.Valid() {
		return nil, ErrInvalidStatus
	}
	var change *StatusChange
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		change, err = applyStatus(tx, order, status, payStatus)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.afterTransition(ctx, change)
	return change, nil
}

// TransitionRequest is a status change requested by a partner or an admin.
type TransitionRequest struct {
	OrderID   uint
	To        models.OrderStatus
	Actor     statemachine.Actor
	PartnerID uint                 // required when Actor is a partner
	Payment   models.PaymentStatus // optional, only honoured for cancellations
}

// Transition validates the change against the state machine, derives the payment
// status from the payment method and applies both atomically.
func (s *Service) Transition(ctx context.Context, req TransitionRequest) (*StatusChange, error) {
	if !req.To.Valid() || (req.Payment != "" && !req.Payment.Valid()) {
		return nil, ErrInvalidStatus
	}
	var change *StatusChange
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, req.OrderID)
		if err != nil {
			return err
		}
		if req.Actor == statemachine.ActorPartner && (order.PartnerID == nil || *order.PartnerID != req.PartnerID) {
			return ErrNotAssigned
		}
		if err := statemachine.CanTransition(order.Status, req.To, req.Actor); err != nil {
			return err
		}

		current, method := models.PaymentPending, models.MethodCOD
		if order.Payment != nil {
			current, method = order.Payment.Status, order.Payment.Method
		}
		pay := statemachine.PaymentStatusFor(method, req.To, current, req.Payment)
		change, err = applyStatus(tx, order, req.To, pay)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.afterTransition(ctx, change)
	return change, nil
}

// CollectPayment marks a payment as paid.
func (s *Service) CollectPayment(ctx context.Context, payID uint) error {
	res := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("pay_id = ?", payID).
		Update("status", models.PaymentPaid)
	if res.Error != nil {
		return fmt.Errorf("collect payment %d: %w", payID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	s.logger(ctx).Info("payment collected", zap.Uint("pay_id", payID))
	return nil
}

// CollectCashPayment lets the assigned partner record cash received for an order.
func (s *Service) CollectCashPayment(ctx context.Context, orderID, partnerID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		if order.PartnerID == nil || *order.PartnerID != partnerID {
			return ErrNotAssigned
		}
		// cash changes hands at the door, never before dispatch or after a cancel
		if order.Status != models.StatusOutForDelivery && order.Status != models.StatusDelivered {
			return fmt.Errorf("%w: order is %s", ErrNotCollectable, order.Status)
		}
		p := order.Payment
		if p == nil || p.Method != models.MethodCOD || p.Status != models.PaymentPending {
			return ErrNotCollectable
		}
		return tx.Model(&models.Payment{}).Where("pay_id = ?", p.PayID).
			Update("status", models.PaymentPaid).Error
	})
	if err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.CODCollections.Inc()
	}
	s.logger(ctx).Info("cash collected", zap.Uint("order_id", orderID), zap.Uint("partner_id", partnerID))
	return nil
}

func (s *Service) afterTransition(ctx context.Context, c *StatusChange) {
	s.recordTransition(c)
	s.logger(ctx).Info("order status changed",
		zap.Uint("order_id", c.OrderID),
		zap.String("from", string(c.Previous)),
		zap.String("to", string(c.Status)),
		zap.String("payment_status", string(c.PaymentStatus)),
		zap.Bool("partner_rated", c.PartnerRated),
	)
}

// lockOrder loads the order with its payment. On postgres the row is locked for
// the rest of the transaction; sqlite serialises writers on its own.
func lockOrder(tx *gorm.DB, orderID uint) (*models.Order, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var order models.Order
	if err := q.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order %d: %w", orderID, err)
	}
	if order.PaymentID != nil {
		var p models.Payment
		err := tx.First(&p, *order.PaymentID).Error
		switch {
		case err == nil:
			order.Payment = &p
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("load payment %d: %w", *order.PaymentID, err)
		}
	}
	return &order, nil
}

func applyStatus(tx *gorm.DB, order *models.Order, status models.OrderStatus, payStatus models.PaymentStatus) (*StatusChange, error) {
	change := &StatusChange{OrderID: order.OrderID, Previous: order.Status, Status: status}

	if err := tx.Model(&models.Order{}).Where("order_id = ?", order.OrderID).
		Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if order.PaymentID != nil {
		if err := tx.Model(&models.Payment{}).Where("pay_id = ?", *order.PaymentID).
			Update("status", payStatus).Error; err != nil {
			return nil, fmt.Errorf("update payment status: %w", err)
		}
		change.PaymentStatus = payStatus
	}

	rated, err := rateOnFirstDelivery(tx, change.Previous, status, order.PartnerID)
	if err != nil {
		return nil, err
	}
	change.PartnerRated = rated
	return change, nil
}

// rateOnFirstDelivery bumps the assigned partner's rating when an order enters
// Delivered from any other status.
func rateOnFirstDelivery(tx *gorm.DB, previous, next models.OrderStatus, partnerID *uint) (bool, error) {
	if next != models.StatusDelivered || previous == models.StatusDelivered || partnerID == nil {
		return false, nil
	}
	if err := tx.Exec(bumpRatingSQL, *partnerID).Error; err != nil {
		return false, fmt.Errorf("rate partner %d: %w", *partnerID, err)
	}
	return true, nil
}
