package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lease represents a tenant-unit rental agreement
type Lease struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	TenantID    uint            `gorm:"not null;index" json:"tenant_id"`
	UnitID      uint            `gorm:"not null;index" json:"unit_id"`
	StartDate   time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate     *time.Time      `gorm:"type:date" json:"end_date"` // nil = open-ended
	MonthlyRent decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"monthly_rent"`
	Deposit     decimal.Decimal `gorm:"type:decimal(12,2)" json:"deposit"`
	DueDay      int             `gorm:"default:0" json:"due_day"` // 0 = use default_rent_due_day setting
	Status      string          `gorm:"default:pending;not null;index" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Associations
	Tenant   Tenant    `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Unit     Unit      `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	Invoices []Invoice `gorm:"foreignKey:LeaseID" json:"invoices,omitempty"`
	Payments []Payment `gorm:"foreignKey:LeaseID" json:"payments,omitempty"`
}

// TableName specifies the table name for Lease
func (Lease) TableName() string {
	return "leases"
}

// Lease status constants
const (
	LeaseStatusPending    = "pending"
	LeaseStatusActive     = "active"
	LeaseStatusOverdue    = "overdue"
	LeaseStatusTerminated = "terminated"
)

// MayActivate returns true if the lease can transition to active
func (l *Lease) MayActivate() bool {
	return l.Status == LeaseStatusPending
}

// MayMarkOverdue returns true if the lease can be flagged overdue
func (l *Lease) MayMarkOverdue() bool {
	return l.Status == LeaseStatusActive
}

// MayCatchUp returns true if an overdue lease can return to active
func (l *Lease) MayCatchUp() bool {
	return l.Status == LeaseStatusOverdue
}

// MayTerminate returns true if the lease can be terminated
func (l *Lease) MayTerminate() bool {
	return l.Status == LeaseStatusActive || l.Status == LeaseStatusOverdue
}

// IsCurrent returns true if the lease carries rent obligations (active or
// overdue, but not yet terminated)
func (l *Lease) IsCurrent() bool {
	return l.Status == LeaseStatusActive || l.Status == LeaseStatusOverdue
}

// RentDueDay returns the lease's due day-of-month, falling back to the given
// default when the lease doesn't override it
func (l *Lease) RentDueDay(defaultDay int) int {
	if l.DueDay >= 1 && l.DueDay <= 28 {
		return l.DueDay
	}
	return defaultDay
}

// LeaseResponse is the JSON response format for leases
type LeaseResponse struct {
	ID          uint            `json:"id"`
	TenantID    uint            `json:"tenant_id"`
	TenantName  string          `json:"tenant_name,omitempty"`
	UnitID      uint            `json:"unit_id"`
	UnitLabel   string          `json:"unit_label,omitempty"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     *time.Time      `json:"end_date"`
	MonthlyRent decimal.Decimal `json:"monthly_rent"`
	Deposit     decimal.Decimal `json:"deposit"`
	DueDay      int             `json:"due_day"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToResponse converts Lease to LeaseResponse
func (l *Lease) ToResponse() LeaseResponse {
	resp := LeaseResponse{
		ID:          l.ID,
		TenantID:    l.TenantID,
		UnitID:      l.UnitID,
		StartDate:   l.StartDate,
		EndDate:     l.EndDate,
		MonthlyRent: l.MonthlyRent,
		Deposit:     l.Deposit,
		DueDay:      l.DueDay,
		Status:      l.Status,
		CreatedAt:   l.CreatedAt,
	}
	if l.Tenant.ID != 0 {
		resp.TenantName = l.Tenant.FullName
	}
	if l.Unit.ID != 0 {
		resp.UnitLabel = l.Unit.Label
	}
	return resp
}
