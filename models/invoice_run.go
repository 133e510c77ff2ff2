package models

import "time"

type RunStatus string

const (
	RunRunning     RunStatus = "RUNNING"
	RunCompleted   RunStatus = "COMPLETED"
	RunFailed      RunStatus = "FAILED"
	RunCompensated RunStatus = "COMPENSATED"
)

// InvoiceRun records one invoice generation attempt: which step it reached
// and how it ended. Failed and compensated runs keep the underlying error
// for operational diagnosis.
type InvoiceRun struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	RunID     string    `gorm:"uniqueIndex;not null;size:36" json:"run_id"`
	InvoiceID *uint     `gorm:"index" json:"invoice_id,omitempty"`
	Step      string    `gorm:"size:64" json:"step"`
	Status    RunStatus `gorm:"not null;size:20" json:"status"`
	Error     string    `gorm:"size:500" json:"error,omitempty"`
}
