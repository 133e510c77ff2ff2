package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Project struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Name      string           `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Rate      *decimal.Decimal `gorm:"type:decimal(20,4)" json:"rate,omitempty"`
}

// BillingRate is the hourly rate used when pricing entries booked on this
// project. Entries on a project without a rate are billed at zero.
func (p *Project) BillingRate() decimal.Decimal {
	if p.Rate == nil {
		return decimal.Zero
	}
	return *p.Rate
}
