package reports

import (
	"context"
	"fmt"
	"time"

	"fooddelight/models"

	"github.com/shopspring/decimal"
)

type TopSpender struct {
	UserID     uint            `json:"user_id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	OrderCount int64           `json:"order_count"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

// TopSpenders ranks customers by the value of their delivered orders.
func (r *Reports) TopSpenders(ctx context.Context, limit int) ([]TopSpender, error) {
	var rows []TopSpender
	err := r.db.WithContext(ctx).Raw(`
SELECT u.user_id, u.name, u.email,
	COUNT(o.order_id) AS order_count,
	SUM(o.total_amt) AS total_spent
FROM "user" u
JOIN orders o ON o.user_id = u.user_id
WHERE o.status = ?
GROUP BY u.user_id, u.name, u.email
ORDER BY total_spent DESC, u.user_id
LIMIT ?`, models.StatusDelivered, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top spenders: %w", err)
	}
	return rows, nil
}

type RatedRestaurant struct {
	RestID     uint                `json:"rest_id"`
	Name       string              `json:"name"`
	Rating     decimal.NullDecimal `json:"rating"`
	OrderCount int64               `json:"order_count"`
}

// BestRatedRestaurants lists rated restaurants by rating with the number of
// distinct orders that included their dishes.
func (r *Reports) BestRatedRestaurants(ctx context.Context, limit int) ([]RatedRestaurant, error) {
	var rows []RatedRestaurant
	err := r.db.WithContext(ctx).Raw(`
SELECT r.rest_id, r.name, r.rating,
	COUNT(DISTINCT oi.order_id) AS order_count
FROM restaurant r
LEFT JOIN menuitem mi ON mi.rest_id = r.rest_id
LEFT JOIN orderitem oi ON oi.item_id = mi.item_id
WHERE r.rating IS NOT NULL
GROUP BY r.rest_id, r.name, r.rating
ORDER BY r.rating DESC, order_count DESC, r.rest_id
LIMIT ?`, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("best rated restaurants: %w", err)
	}
	return rows, nil
}

type MethodRevenue struct {
	Method     string          `json:"method"`
	OrderCount int64           `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

func (r *Reports) RevenueByPaymentMethod(ctx context.Context) ([]MethodRevenue, error) {
	var rows []MethodRevenue
	err := r.db.WithContext(ctx).Raw(`
SELECT p.method,
	COUNT(o.order_id) AS order_count,
	SUM(o.total_amt) AS revenue
FROM orders o
JOIN payment p ON p.pay_id = o.pay_id
WHERE o.status = ?
GROUP BY p.method
ORDER BY revenue DESC, p.method`, models.StatusDelivered).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("revenue by payment method: %w", err)
	}
	return rows, nil
}

type PartnerPerformance struct {
	PartnerID      uint                `json:"partner_id"`
	Name           string              `json:"name"`
	Rating         decimal.NullDecimal `json:"rating"`
	TotalOrders    int64               `json:"total_orders"`
	Delivered      int64               `json:"delivered"`
	DeliveredValue decimal.Decimal     `json:"delivered_value"`
}

func (r *Reports) PartnerPerformance(ctx context.Context) ([]PartnerPerformance, error) {
	var rows []PartnerPerformance
	err := r.db.WithContext(ctx).Raw(`
SELECT dp.partner_id, dp.name, dp.rating,
	COUNT(o.order_id) AS total_orders,
	COALESCE(SUM(CASE WHEN o.status = ? THEN 1 ELSE 0 END), 0) AS delivered,
	COALESCE(SUM(CASE WHEN o.status = ? THEN o.total_amt ELSE 0 END), 0) AS delivered_value
FROM deliverypartner dp
LEFT JOIN orders o ON o.partner_id = dp.partner_id
GROUP BY dp.partner_id, dp.name, dp.rating
ORDER BY delivered DESC, dp.partner_id`, models.StatusDelivered, models.StatusDelivered).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("partner performance: %w", err)
	}
	return rows, nil
}

type PopularItem struct {
	ItemID         uint            `json:"item_id"`
	Name           string          `json:"name"`
	RestaurantName string          `json:"restaurant_name"`
	UnitsSold      int64           `json:"units_sold"`
	Revenue        decimal.Decimal `json:"revenue"`
}

// PopularItems ranks dishes by units sold in delivered orders.
func (r *Reports) PopularItems(ctx context.Context, limit int) ([]PopularItem, error) {
	var rows []PopularItem
	err := r.db.WithContext(ctx).Raw(`
SELECT mi.item_id, mi.name, r.name AS restaurant_name,
	SUM(oi.quantity) AS units_sold,
	SUM(oi.price * oi.quantity) AS revenue
FROM orderitem oi
JOIN orders o ON o.order_id = oi.order_id
JOIN menuitem mi ON mi.item_id = oi.item_id
JOIN restaurant r ON r.rest_id = mi.rest_id
WHERE o.status = ?
GROUP BY mi.item_id, mi.name, r.name
ORDER BY units_sold DESC, mi.item_id
LIMIT ?`, models.StatusDelivered, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("popular items: %w", err)
	}
	return rows, nil
}

type MonthlySales struct {
	Month     string          `json:"month"` // YYYY-MM
	Orders    int64           `json:"orders"`
	Delivered int64           `json:"delivered"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// MonthlySalesTrend buckets orders from the last n calendar months, including
// the current one, by month of order date. Months without orders are included
// with zero values. Grouping happens here so the query stays dialect neutral.
func (r *Reports) MonthlySalesTrend(ctx context.Context, months int, now time.Time) ([]MonthlySales, error) {
	if months <= 0 {
		return nil, nil
	}
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Select("order_id", "order_date", "total_amt", "status").
		Where("order_date >= ?", start).
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("monthly sales: %w", err)
	}

	out := make([]MonthlySales, months)
	index := make(map[string]int, months)
	for i := range out {
		key := start.AddDate(0, i, 0).Format("2006-01")
		out[i] = MonthlySales{Month: key}
		index[key] = i
	}
	for _, o := range orders {
		i, ok := index[o.OrderDate.UTC().Format("2006-01")]
		if !ok {
			continue
		}
		out[i].Orders++
		if o.Status == models.StatusDelivered {
			out[i].Delivered++
			out[i].Revenue = out[i].Revenue.Add(o.TotalAmt)
		}
	}
	return out, nil
}
