package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type LineItem struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	QuoteID         uint            `json:"quote_id" gorm:"not null;index"`
	Type            LineItemType    `json:"type" gorm:"not null"`
	Name            string          `json:"name" gorm:"not null"`
	SKU             *string         `json:"sku"`
	Description     *string         `json:"description" gorm:"type:text"`
	ProductID       *uint           `json:"product_id"`
	Quantity        int             `json:"quantity" gorm:"not null"`
	UnitPrice       decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,2);not null"`
	DiscountPercent decimal.Decimal `json:"discount_percent" gorm:"type:decimal(5,2);not null;default:0"`
	LineTotal       decimal.Decimal `json:"line_total" gorm:"type:decimal(12,2);not null"`
	SortOrder       int             `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// LineItemType represents what a quote row charges for
type LineItemType string

const (
	ItemProduct  LineItemType = "product"
	ItemLabor    LineItemType = "labor"
	ItemMaterial LineItemType = "material"
	ItemOther    LineItemType = "other"
)
