package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice represents a billed rent obligation tied to a lease. The status
// column is a cached projection maintained by the reconciliation engine; the
// authoritative balance is always re-derived from the full invoice/payment
// set.
type Invoice struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	LeaseID   uint            `gorm:"not null;index" json:"lease_id"`
	IssueDate time.Time       `gorm:"type:date;not null" json:"issue_date"`
	DueDate   time.Time       `gorm:"type:date;not null;index" json:"due_date"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status    string          `gorm:"default:unpaid;not null;index" json:"status"`
	Notes     *string         `gorm:"type:text" json:"notes"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Associations
	Lease Lease `gorm:"foreignKey:LeaseID" json:"lease,omitempty"`
}

// TableName specifies the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}

// Invoice status constants
const (
	InvoiceStatusUnpaid  = "unpaid"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

// IsPastDue returns true if the invoice due date has passed as of now
func (i *Invoice) IsPastDue(now time.Time) bool {
	return now.After(i.DueDate)
}
