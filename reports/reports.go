// Package reports runs the read-only aggregate queries behind the admin
// dashboard, analytics pages and per-user and per-partner statistics.
package reports

import (
	"context"
	"fmt"
	"time"

	"fooddelight/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Reports struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Reports {
	return &Reports{db: db}
}

// OrderSummary is one row of the order summary view.
type OrderSummary struct {
	OrderID         uint            `json:"order_id"`
	OrderDate       time.Time       `json:"order_date"`
	CustomerName    string          `json:"customer_name"`
	DeliveryPartner *string         `json:"delivery_partner"`
	RestaurantName  *string         `json:"restaurant_name"`
	OrderAmount     decimal.Decimal `json:"order_amount"`
	PaymentMethod   *string         `json:"payment_method"`
	PaymentStatus   *string         `json:"payment_status"`
	OrderStatus     string          `json:"order_status"`
}

// OrderSummaries lists the newest orders first, optionally only those in one
// status; limit <= 0 returns all.
func (r *Reports) OrderSummaries(ctx context.Context, status models.OrderStatus, limit int) ([]OrderSummary, error) {
	q := r.db.WithContext(ctx).Table(models.OrderSummaryView).Order("order_date DESC, order_id DESC")
	if status != "" {
		q = q.Where("order_status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []OrderSummary
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("order summaries: %w", err)
	}
	return rows, nil
}

type Dashboard struct {
	TotalOrders         int64               `json:"total_orders"`
	TotalUsers          int64               `json:"total_users"`
	TotalRestaurants    int64               `json:"total_restaurants"`
	TotalPartners       int64               `json:"total_partners"`
	Revenue             decimal.Decimal     `json:"revenue"`
	AvgRestaurantRating decimal.NullDecimal `json:"avg_restaurant_rating"`
	RecentOrders        []OrderSummary      `json:"recent_orders"`
}

func (r *Reports) Dashboard(ctx context.Context) (*Dashboard, error) {
	db := r.db.WithContext(ctx)
	d := &Dashboard{}
	counts := []struct {
		model any
		dst   *int64
	}{
		{&models.Order{}, &d.TotalOrders},
		{&models.User{}, &d.TotalUsers},
		{&models.Restaurant{}, &d.TotalRestaurants},
		{&models.DeliveryPartner{}, &d.TotalPartners},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dst).Error; err != nil {
			return nil, fmt.Errorf("dashboard counts: %w", err)
		}
	}
	var revenue struct{ Revenue decimal.Decimal }
	if err := db.Model(&models.Order{}).
		Where("status = ?", models.StatusDelivered).
		Select("COALESCE(SUM(total_amt), 0) AS revenue").
		Scan(&revenue).Error; err != nil {
		return nil, fmt.Errorf("dashboard revenue: %w", err)
	}
	d.Revenue = revenue.Revenue
	avg, err := r.AvgRestaurantRating(ctx)
	if err != nil {
		return nil, err
	}
	d.AvgRestaurantRating = avg
	if d.RecentOrders, err = r.OrderSummaries(ctx, "", 10); err != nil {
		return nil, err
	}
	return d, nil
}

// AvgRestaurantRating averages rated restaurants, rounded to two places.
func (r *Reports) AvgRestaurantRating(ctx context.Context) (decimal.NullDecimal, error) {
	var row struct{ Rating decimal.NullDecimal }
	if err := r.db.WithContext(ctx).Model(&models.Restaurant{}).
		Select("AVG(rating) AS rating").
		Scan(&row).Error; err != nil {
		return row.Rating, fmt.Errorf("average restaurant rating: %w", err)
	}
	if row.Rating.Valid {
		row.Rating.Decimal = row.Rating.Decimal.Round(2)
	}
	return row.Rating, nil
}

// TotalSpentByUser sums the payments attached to all of a user's orders.
func (r *Reports) TotalSpentByUser(ctx context.Context, userID uint) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).Raw(`
SELECT COALESCE(SUM(p.amount), 0) AS total
FROM orders o
JOIN payment p ON p.pay_id = o.pay_id
WHERE o.user_id = ?`, userID).Scan(&row).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("total spent by user %d: %w", userID, err)
	}
	return row.Total, nil
}

type UserStats struct {
	TotalOrders int64           `json:"total_orders"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
}

// UserStats counts a customer's orders; spending only includes orders that were
// delivered and paid.
func (r *Reports) UserStats(ctx context.Context, userID uint) (*UserStats, error) {
	db := r.db.WithContext(ctx)
	s := &UserStats{}
	if err := db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&s.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("user order count: %w", err)
	}
	var row struct{ TotalSpent decimal.Decimal }
	err := db.Raw(`
SELECT COALESCE(SUM(o.total_amt), 0) AS total_spent
FROM orders o
JOIN payment p ON p.pay_id = o.pay_id
WHERE o.user_id = ? AND o.status = ? AND p.status = ?`,
		userID, models.StatusDelivered, models.PaymentPaid).Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("user spending: %w", err)
	}
	s.TotalSpent = row.TotalSpent
	return s, nil
}

type PartnerStats struct {
	TotalOrders   int64           `json:"total_orders"`
	Delivered     int64           `json:"delivered"`
	TotalValue    decimal.Decimal `json:"total_value"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
	Recent        []models.Order  `json:"recent"`
}

func (r *Reports) PartnerStats(ctx context.Context, partnerID uint) (*PartnerStats, error) {
	db := r.db.WithContext(ctx)
	var agg struct {
		TotalOrders int64
		Delivered   int64
		TotalValue  decimal.Decimal
	}
	err := db.Raw(`
SELECT
	COUNT(*) AS total_orders,
	COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS delivered,
	COALESCE(SUM(total_amt), 0) AS total_value
FROM orders
WHERE partner_id = ?`, models.StatusDelivered, partnerID).Scan(&agg).Error
	if err != nil {
		return nil, fmt.Errorf("partner stats: %w", err)
	}

	s := &PartnerStats{TotalOrders: agg.TotalOrders, Delivered: agg.Delivered, TotalValue: agg.TotalValue}
	if agg.TotalOrders > 0 {
		s.AvgOrderValue = agg.TotalValue.Div(decimal.NewFromInt(agg.TotalOrders)).Round(2)
	}
	if err := db.Preload("User").Preload("Payment").
		Where("partner_id = ?", partnerID).
		Order("order_date DESC, order_id DESC").
		Limit(10).
		Find(&s.Recent).Error; err != nil {
		return nil, fmt.Errorf("partner recent orders: %w", err)
	}
	return s, nil
}

// PaymentRow is a payment with the order and customer it belongs to, if any.
type PaymentRow struct {
	PayID        uint            `json:"pay_id"`
	Method       string          `json:"method"`
	Currency     string          `json:"currency"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	OrderID      *uint           `json:"order_id"`
	CustomerName *string         `json:"customer_name"`
}

func (r *Reports) Payments(ctx context.Context) ([]PaymentRow, error) {
	var rows []PaymentRow
	err := r.db.WithContext(ctx).Raw(`
SELECT p.pay_id, p.method, p.currency, p.amount, p.status,
	o.order_id, u.name AS customer_name
FROM payment p
LEFT JOIN orders o ON o.pay_id = p.pay_id
LEFT JOIN "user" u ON u.user_id = o.user_id
ORDER BY p.pay_id DESC`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("payments: %w", err)
	}
	return rows, nil
}
