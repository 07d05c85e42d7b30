package models

import "github.com/shopspring/decimal"

// DefaultPartnerRating is the rating assumed for a partner that has none yet.
var DefaultPartnerRating = decimal.RequireFromString("3.0")

// DeliveryPartner carries orders to customers. Rating is NULL until the first delivery.
type DeliveryPartner struct {
	PartnerID uint                `json:"partner_id" gorm:"primaryKey"`
	Name      string              `json:"name" gorm:"size:100;not null"`
	Phone     string              `json:"phone" gorm:"size:20"`
	Rating    decimal.NullDecimal `json:"rating" gorm:"type:decimal(3,2);check:rating >= 0 AND rating <= 5"`
}

func (DeliveryPartner) TableName() string { return "deliverypartner" }
