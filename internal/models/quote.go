package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Quote struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	QuoteNumber   string `json:"quote_number" gorm:"unique;not null"`
	CompanyID     uint   `json:"company_id" gorm:"not null;index"`
	CustomerID    uint   `json:"customer_id" gorm:"not null;index"`
	MeasurementID *uint  `json:"measurement_id"`
	CreatedBy     uint   `json:"created_by" gorm:"not null"`

	Status         QuoteStatus     `json:"status" gorm:"not null;default:'draft'"`
	Subtotal       decimal.Decimal `json:"subtotal" gorm:"type:decimal(12,2);not null;default:0"`
	TaxRate        decimal.Decimal `json:"tax_rate" gorm:"type:decimal(6,4);not null;default:0"`
	TaxAmount      decimal.Decimal `json:"tax_amount" gorm:"type:decimal(12,2);not null;default:0"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:decimal(12,2);not null;default:0"`
	Total          decimal.Decimal `json:"total" gorm:"type:decimal(12,2);not null;default:0"`

	ValidUntil    *time.Time `json:"valid_until"`
	SignatureData *string    `json:"signature_data,omitempty" gorm:"type:text"`
	SignedAt      *time.Time `json:"signed_at"`
	SentAt        *time.Time `json:"sent_at"`
	ViewedAt      *time.Time `json:"viewed_at"`
	AcceptedAt    *time.Time `json:"accepted_at"`
	RejectedAt    *time.Time `json:"rejected_at"`
	ExpiredAt     *time.Time `json:"expired_at"`
	Notes         string     `json:"notes" gorm:"type:text"`

	Version   int        `json:"version" gorm:"not null;default:1"`
	LineItems []LineItem `json:"line_items" gorm:"foreignKey:QuoteID"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type QuoteStatus string

const (
	QuoteDraft    QuoteStatus = "draft"
	QuoteSent     QuoteStatus = "sent"
	QuoteViewed   QuoteStatus = "viewed"
	QuoteAccepted QuoteStatus = "accepted"
	QuoteRejected QuoteStatus = "rejected"
	QuoteExpired  QuoteStatus = "expired"
)

// IsExpiredAt reports whether the quote's validity window closed before now.
func (q *Quote) IsExpiredAt(now time.Time) bool {
	return q.ValidUntil != nil && q.ValidUntil.Before(now)
}
