package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice aggregates the billed amounts of one customer's time entries.
// DocumentPath stays null until the generated document has been written to
// durable storage.
type Invoice struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	CustomerID   uint            `gorm:"not null;index" json:"customer_id"`
	Customer     Customer        `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total_amount"`
	DocumentPath *string         `gorm:"size:500" json:"document_path,omitempty"`
	TimeEntries  []TimeEntry     `gorm:"foreignKey:InvoiceID" json:"time_entries,omitempty"`
}
