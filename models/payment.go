package models

import "github.com/shopspring/decimal"

type PaymentMethod string

const (
	MethodUPI  PaymentMethod = "UPI"
	MethodCard PaymentMethod = "Card"
	MethodCOD  PaymentMethod = "COD"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodUPI, MethodCard, MethodCOD:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentPaid
}

const DefaultCurrency = "INR"

// Payment is the single payment record attached to an order.
type Payment struct {
	PayID    uint            `json:"pay_id" gorm:"primaryKey"`
	Method   PaymentMethod   `json:"method" gorm:"size:20;not null"`
	Currency string          `json:"currency" gorm:"size:3;not null;default:'INR'"`
	Amount   decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null;check:amount >= 0"`
	Status   PaymentStatus   `json:"status" gorm:"size:20;not null"`
}

func (Payment) TableName() string { return "payment" }
