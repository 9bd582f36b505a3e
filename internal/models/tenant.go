package models

import (
	"strings"
	"time"
)

// Tenant represents a renting occupant. Distinct from the landlord and from
// any database-isolation notion of tenancy.
type Tenant struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FullName   string    `gorm:"not null" json:"full_name"`
	Phone      string    `gorm:"uniqueIndex;not null" json:"phone"`
	Email      string    `json:"email"`
	SMSOptIn   bool      `gorm:"default:true" json:"sms_opt_in"`
	EmailOptIn bool      `gorm:"default:true" json:"email_opt_in"`
	Active     bool      `gorm:"default:true;index" json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Associations
	Leases []Lease `gorm:"foreignKey:TenantID" json:"leases,omitempty"`
}

// TableName specifies the table name for Tenant
func (Tenant) TableName() string {
	return "tenants"
}

// HasPhone returns true if the tenant has a usable phone number
func (t *Tenant) HasPhone() bool {
	return strings.TrimSpace(t.Phone) != ""
}

// NormalizePhone strips everything but digits and a leading plus sign so that
// gateway formatting differences ("+254 712-345678" vs "0712345678" entered
// with spaces) don't break payer resolution. It does not convert between
// local and international prefixes; tenants are stored in the same normalized
// form.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TenantResponse is the JSON response format for tenants
type TenantResponse struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Active   bool   `json:"active"`
}

// ToResponse converts Tenant to TenantResponse
func (t *Tenant) ToResponse() TenantResponse {
	return TenantResponse{
		ID:       t.ID,
		FullName: t.FullName,
		Phone:    t.Phone,
		Email:    t.Email,
		Active:   t.Active,
	}
}
