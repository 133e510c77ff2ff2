package models

import (
	"time"
)

// TimeEntry is a billable unit of recorded work. Duration is in minutes.
// EndTime may be absent for entries imported without an explicit end; the
// billing layer derives it from StartTime plus Duration.
type TimeEntry struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Description string     `gorm:"size:500" json:"description"`
	Duration    int        `gorm:"not null" json:"duration"`
	Date        time.Time  `gorm:"not null;type:date" json:"date"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Invoiced    bool       `gorm:"not null;default:false;index" json:"invoiced"`
	CustomerID  uint       `gorm:"not null;index" json:"customer_id"`
	Customer    Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ProjectID   uint       `gorm:"not null;index" json:"project_id"`
	Project     Project    `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	TaskID      uint       `gorm:"not null;index" json:"task_id"`
	Task        Task       `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	User        User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	InvoiceID   *uint      `gorm:"index" json:"invoice_id,omitempty"`
}
