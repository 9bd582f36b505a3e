package models

import (
	"time"
)

// NotificationLog is one delivery attempt on one channel. Append-only audit
// trail; also consulted to suppress duplicate sends (receipt for an already
// notified transaction reference, reminder already sent today).
type NotificationLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TenantID  uint      `gorm:"not null;index" json:"tenant_id"`
	Channel   string    `gorm:"not null;index" json:"channel"`
	Message   string    `gorm:"not null" json:"message"`
	Status    string    `gorm:"not null;index" json:"status"`
	Reference *string   `gorm:"index" json:"reference"`
	SentAt    time.Time `gorm:"index" json:"sent_at"`
	CreatedAt time.Time `json:"created_at"`

	// Associations
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

// TableName specifies the table name for NotificationLog
func (NotificationLog) TableName() string {
	return "notification_logs"
}

// Notification channel constants
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Delivery status constants
const (
	DeliveryStatusSent   = "sent"
	DeliveryStatusFailed = "failed"
)

// Reminder reference constants. Stored in Reference so the scanner can tell
// whether a given reminder kind already went out.
const (
	ReferenceUpcomingReminder = "rent_reminder_upcoming"
	ReferenceLateReminder     = "rent_reminder_late"
)

// NotificationLogResponse is the JSON response format
type NotificationLogResponse struct {
	ID        uint      `json:"id"`
	TenantID  uint      `json:"tenant_id"`
	Channel   string    `json:"channel"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Reference *string   `json:"reference"`
	SentAt    time.Time `json:"sent_at"`
}

// ToResponse converts NotificationLog to NotificationLogResponse
func (n *NotificationLog) ToResponse() NotificationLogResponse {
	return NotificationLogResponse{
		ID:        n.ID,
		TenantID:  n.TenantID,
		Channel:   n.Channel,
		Message:   n.Message,
		Status:    n.Status,
		Reference: n.Reference,
		SentAt:    n.SentAt,
	}
}
