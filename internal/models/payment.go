package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment represents money received against a lease. Payments are immutable
// financial records: never updated, never deleted. TransactionRef, when
// present, is globally unique and acts as the idempotency key for
// externally-sourced payment events.
type Payment struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	LeaseID        uint            `gorm:"not null;index" json:"lease_id"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentDate    time.Time       `gorm:"not null;index" json:"payment_date"`
	Method         string          `gorm:"not null;index" json:"method"`
	TransactionRef *string         `gorm:"uniqueIndex" json:"transaction_ref"`
	Notes          *string         `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time       `gorm:"index" json:"created_at"`

	// Associations
	Lease Lease `gorm:"foreignKey:LeaseID" json:"lease,omitempty"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// Payment method constants
const (
	PaymentMethodCash   = "cash"
	PaymentMethodMpesa  = "mpesa"
	PaymentMethodBank   = "bank"
	PaymentMethodCheque = "cheque"
	PaymentMethodOnline = "online"
)

// ValidPaymentMethod returns true for a known payment method
func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCash, PaymentMethodMpesa, PaymentMethodBank,
		PaymentMethodCheque, PaymentMethodOnline:
		return true
	}
	return false
}

// PaymentResponse is the JSON response format for payments
type PaymentResponse struct {
	ID             uint            `json:"id"`
	LeaseID        uint            `json:"lease_id"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentDate    time.Time       `json:"payment_date"`
	Method         string          `json:"method"`
	TransactionRef *string         `json:"transaction_ref"`
	Notes          *string         `json:"notes,omitempty"`
	TenantName     string          `json:"tenant_name,omitempty"`
	UnitLabel      string          `json:"unit_label,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToResponse converts Payment to PaymentResponse
func (p *Payment) ToResponse() PaymentResponse {
	resp := PaymentResponse{
		ID:             p.ID,
		LeaseID:        p.LeaseID,
		Amount:         p.Amount,
		PaymentDate:    p.PaymentDate,
		Method:         p.Method,
		TransactionRef: p.TransactionRef,
		Notes:          p.Notes,
		CreatedAt:      p.CreatedAt,
	}
	if p.Lease.ID != 0 {
		if p.Lease.Tenant.ID != 0 {
			resp.TenantName = p.Lease.Tenant.FullName
		}
		if p.Lease.Unit.ID != 0 {
			resp.UnitLabel = p.Lease.Unit.Label
		}
	}
	return resp
}
