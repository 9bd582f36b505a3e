package models

import "time"

// Setting is a key-value row backing feature flags and message templates.
// Missing keys fall back to hardcoded defaults in the settings service.
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Setting
func (Setting) TableName() string {
	return "settings"
}
