package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Property represents a building or estate owned by a landlord
type Property struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Address      string    `json:"address"`
	LandlordName string    `json:"landlord_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Associations
	Units []Unit `gorm:"foreignKey:PropertyID" json:"units,omitempty"`
}

// TableName specifies the table name for Property
func (Property) TableName() string {
	return "properties"
}

// Unit represents a rentable unit within a property
type Unit struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	PropertyID  uint            `gorm:"not null;index" json:"property_id"`
	Label       string          `gorm:"not null" json:"label"`
	MonthlyRent decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"monthly_rent"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Associations
	Property Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
}

// TableName specifies the table name for Unit
func (Unit) TableName() string {
	return "units"
}
