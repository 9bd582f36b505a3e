package repository

import (
	"context"
	"time"

	"github.com/kmuchiri/nyumba-api/internal/models"

	"gorm.io/gorm"
)

// NotificationLogRepository defines the interface for the append-only
// notification audit trail
type NotificationLogRepository interface {
	Create(ctx context.Context, log *models.NotificationLog) error
	HasSentReference(ctx context.Context, tenantID uint, reference string) (bool, error)
	LastSentAt(ctx context.Context, tenantID uint, reference string) (*time.Time, error)
	FindByTenant(ctx context.Context, tenantID uint, query *ListQuery) ([]models.NotificationLog, int64, error)
}

type notificationLogRepository struct {
	db *gorm.DB
}

// NewNotificationLogRepository creates a new notification log repository
func NewNotificationLogRepository(db *gorm.DB) NotificationLogRepository {
	return &notificationLogRepository{db: db}
}

func (r *notificationLogRepository) Create(ctx context.Context, log *models.NotificationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// HasSentReference reports whether a successful send already references the
// given marker (e.g. a transaction reference). Used by callers to suppress
// duplicate receipts; failed attempts don't count.
func (r *notificationLogRepository) HasSentReference(ctx context.Context, tenantID uint, reference string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.NotificationLog{}).
		Where("tenant_id = ? AND reference = ? AND status = ?",
			tenantID, reference, models.DeliveryStatusSent).
		Count(&count).Error
	return count > 0, err
}

// LastSentAt returns when the most recent successful send with the given
// reference went out, or nil if none has.
func (r *notificationLogRepository) LastSentAt(ctx context.Context, tenantID uint, reference string) (*time.Time, error) {
	var log models.NotificationLog
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND reference = ? AND status = ?",
			tenantID, reference, models.DeliveryStatusSent).
		Order("sent_at DESC").
		First(&log).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &log.SentAt, nil
}

func (r *notificationLogRepository) FindByTenant(ctx context.Context, tenantID uint, query *ListQuery) ([]models.NotificationLog, int64, error) {
	var logs []models.NotificationLog
	var total int64

	db := r.db.WithContext(ctx).
		Model(&models.NotificationLog{}).
		Where("tenant_id = ?", tenantID)

	if channel := query.Filters["channel"]; channel != "" {
		db = db.Where("channel = ?", channel)
	}
	if status := query.Filters["status"]; status != "" {
		db = db.Where("status = ?", status)
	}

	countDb := db.Session(&gorm.Session{})
	if err := countDb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("sent_at DESC").
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&logs).Error
	return logs, total, err
}
