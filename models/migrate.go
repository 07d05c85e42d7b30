package models

import (
	"fmt"

	"gorm.io/gorm"
)

// All returns every persisted model in dependency order.
func All() []any {
	return []any{
		&DeliveryPartner{},
		&Payment{},
		&User{},
		&Restaurant{},
		&MenuItem{},
		&Order{},
		&OrderItem{},
	}
}

const orderSummarySelect = `
SELECT
	o.order_id,
	o.order_date,
	u.name AS customer_name,
	dp.name AS delivery_partner,
	(SELECT r.name FROM orderitem oi
		JOIN menuitem mi ON mi.item_id = oi.item_id
		JOIN restaurant r ON r.rest_id = mi.rest_id
		WHERE oi.order_id = o.order_id
		ORDER BY oi.orderitem_id
		LIMIT 1) AS restaurant_name,
	o.total_amt AS order_amount,
	p.method AS payment_method,
	p.status AS payment_status,
	o.status AS order_status
FROM orders o
JOIN "user" u ON u.user_id = o.user_id
LEFT JOIN deliverypartner dp ON dp.partner_id = o.partner_id
LEFT JOIN payment p ON p.pay_id = o.pay_id`

// OrderSummaryView is the name of the reporting view created by Migrate.
const OrderSummaryView = "order_summary_view"

// Migrate creates or updates the schema and the reporting view.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	create := "CREATE VIEW IF NOT EXISTS "
	if db.Dialector.Name() == "postgres" {
		create = "CREATE OR REPLACE VIEW "
	}
	if err := db.Exec(create + OrderSummaryView + " AS" + orderSummarySelect).Error; err != nil {
		return fmt.Errorf("create %s: %w", OrderSummaryView, err)
	}
	return nil
}
