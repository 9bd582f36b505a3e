package repository

import (
	"context"

	"github.com/kmuchiri/nyumba-api/internal/models"

	"gorm.io/gorm"
)

// SettingRepository defines the interface for key-value settings access
type SettingRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// Get returns the stored value for key, or gorm.ErrRecordNotFound. Callers
// decide the fallback; defaults live in the settings service.
func (r *settingRepository) Get(ctx context.Context, key string) (string, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&setting).Error
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

func (r *settingRepository) Set(ctx context.Context, key, value string) error {
	var setting models.Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.WithContext(ctx).Create(&models.Setting{Key: key, Value: value}).Error
	}
	if err != nil {
		return err
	}
	setting.Value = value
	return r.db.WithContext(ctx).Save(&setting).Error
}
