package models

import "github.com/shopspring/decimal"

type Restaurant struct {
	RestID    uint                `json:"rest_id" gorm:"primaryKey"`
	Name      string              `json:"name" gorm:"size:100;not null"`
	Address   string              `json:"address" gorm:"size:255"`
	Rating    decimal.NullDecimal `json:"rating" gorm:"type:decimal(3,2);check:rating >= 0 AND rating <= 5"`
	PartnerID *uint               `json:"partner_id"`
	Partner   *DeliveryPartner    `json:"partner,omitempty" gorm:"constraint:OnDelete:SET NULL"`
}

func (Restaurant) TableName() string { return "restaurant" }

// MenuItem is a dish with a price and a stock count. Quantity never goes negative;
// checkout decrements it conditionally.
type MenuItem struct {
	ItemID       uint            `json:"item_id" gorm:"primaryKey"`
	Name         string          `json:"name" gorm:"size:100;not null"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null;check:price > 0"`
	Quantity     int             `json:"quantity" gorm:"not null;check:quantity >= 0"`
	RestaurantID uint            `json:"rest_id" gorm:"column:rest_id;not null;index"`
	Restaurant   *Restaurant     `json:"restaurant,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (MenuItem) TableName() string { return "menuitem" }

// DefaultMenuItemQuantity is the stock given to a new item when none is specified.
const DefaultMenuItemQuantity = 1
