package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	StatusPlaced         OrderStatus = "Placed"
	StatusOutForDelivery OrderStatus = "Out for Delivery"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCancelled      OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPlaced, StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	OrderID   uint             `json:"order_id" gorm:"primaryKey"`
	OrderDate time.Time        `json:"order_date" gorm:"not null;index"`
	TotalAmt  decimal.Decimal  `json:"total_amt" gorm:"type:decimal(10,2);not null;check:total_amt >= 0"`
	Status    OrderStatus      `json:"status" gorm:"size:32;not null;index"`
	UserID    uint             `json:"user_id" gorm:"not null;index"`
	User      *User            `json:"user,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	PartnerID *uint            `json:"partner_id" gorm:"index"`
	Partner   *DeliveryPartner `json:"partner,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	PaymentID *uint            `json:"pay_id" gorm:"column:pay_id"`
	Payment   *Payment         `json:"payment,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	Items     []OrderItem      `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

// BeforeCreate attaches a pending cash-on-delivery payment to any order inserted
// without one, so every order row references exactly one payment.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.OrderDate.IsZero() {
		o.OrderDate = tx.NowFunc()
	}
	if o.PaymentID != nil || o.Payment != nil {
		return nil
	}
	payment := Payment{
		Method:   MethodCOD,
		Currency: DefaultCurrency,
		Amount:   o.TotalAmt,
		Status:   PaymentPending,
	}
	if err := tx.Create(&payment).Error; err != nil {
		return fmt.Errorf("create default payment: %w", err)
	}
	o.PaymentID = &payment.PayID
	return nil
}

// OrderItem is one line of an order. Price is a snapshot taken at checkout.
type OrderItem struct {
	OrderItemID uint            `json:"orderitem_id" gorm:"column:orderitem_id;primaryKey"`
	OrderID     uint            `json:"order_id" gorm:"not null;index"`
	MenuItemID  uint            `json:"item_id" gorm:"column:item_id;not null;index"`
	MenuItem    *MenuItem       `json:"menu_item,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Quantity    int             `json:"quantity" gorm:"not null;check:quantity > 0"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
}

func (OrderItem) TableName() string { return "orderitem" }

// LineTotal is price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
