package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a tenant's derived financial summary: a materialized view
// rebuilt wholesale by the reconciliation engine. It is never patched
// incrementally; no component may add to or subtract from Balance directly.
type Account struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TenantID      uint            `gorm:"uniqueIndex;not null" json:"tenant_id"`
	TotalInvoiced decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_invoiced"`
	TotalPaid     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_paid"`
	Balance       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"balance"`
	Status        string          `gorm:"not null;index" json:"status"`
	ReconciledAt  time.Time       `json:"reconciled_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Associations
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}

// Account status constants
const (
	AccountStatusCredit  = "credit"
	AccountStatusArrears = "arrears"
	AccountStatusCleared = "cleared"
)

// AccountStatusFor classifies a balance: positive is credit, negative is
// arrears, zero is cleared.
func AccountStatusFor(balance decimal.Decimal) string {
	switch balance.Sign() {
	case 1:
		return AccountStatusCredit
	case -1:
		return AccountStatusArrears
	default:
		return AccountStatusCleared
	}
}
