package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Name         string          `gorm:"not null;size:200" json:"name"`
	ShortCode    string          `gorm:"uniqueIndex;not null;size:20" json:"short_code"`
	DefaultRate  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"default_rate"`
	PaymentTerms string          `gorm:"size:200" json:"payment_terms,omitempty"`
}
