package services

import (
	"context"
	"strconv"

	"github.com/kmuchiri/nyumba-api/internal/repository"
)

// Setting keys. Operators flip these at runtime without a deploy.
const (
	SettingEnableSMSNotifications   = "enable_sms_notifications"
	SettingEnableEmailNotifications = "enable_email_notifications"
	SettingDefaultRentDueDay        = "default_rent_due_day"
	SettingLateReminderIntervalDays = "late_reminder_interval_days"
)

// Message template keys. Stored templates override the built-in defaults.
const (
	TemplatePaymentThankYou = "sms_payment_thankyou"
	TemplatePaymentPartial  = "sms_payment_partial"
	TemplatePaymentCleared  = "sms_payment_cleared"
	TemplateRentUpcoming    = "sms_rent_upcoming"
	TemplateRentLate        = "sms_rent_late"
)

// defaultTemplates are the built-in message bodies, used when no stored
// override exists. Placeholders use the :name form.
var defaultTemplates = map[string]string{
	TemplatePaymentThankYou: "Dear :name, we received your payment of KES :amount. Your balance is KES :balance. Thank you.",
	TemplatePaymentPartial:  "Dear :name, we received KES :amount. Your account still shows KES :balance outstanding.",
	TemplatePaymentCleared:  "Dear :name, we received KES :amount. Your account is fully settled. Thank you!",
	TemplateRentUpcoming:    "Dear :name, your rent of KES :amount for :unit is due today. Kindly pay to avoid late charges.",
	TemplateRentLate:        "Dear :name, your rent for :unit is overdue. Outstanding balance: KES :balance. Kindly settle as soon as possible.",
}

// SettingsProvider reads runtime configuration with typed fallbacks
type SettingsProvider interface {
	GetString(ctx context.Context, key, fallback string) string
	GetBool(ctx context.Context, key string, fallback bool) bool
	GetInt(ctx context.Context, key string, fallback int) int
	Template(ctx context.Context, key string) string
	Set(ctx context.Context, key, value string) error
}

type settingsService struct {
	repo repository.SettingRepository
}

// NewSettingsService creates a settings provider backed by the settings table
func NewSettingsService(repo repository.SettingRepository) SettingsProvider {
	return &settingsService{repo: repo}
}

// GetString returns the stored value, or fallback when the key is absent.
// Lookup errors also yield the fallback: a flaky settings read must never
// break payment processing.
func (s *settingsService) GetString(ctx context.Context, key, fallback string) string {
	value, err := s.repo.Get(ctx, key)
	if err != nil {
		return fallback
	}
	return value
}

func (s *settingsService) GetBool(ctx context.Context, key string, fallback bool) bool {
	value, err := s.repo.Get(ctx, key)
	if err != nil {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (s *settingsService) GetInt(ctx context.Context, key string, fallback int) int {
	value, err := s.repo.Get(ctx, key)
	if err != nil {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// Template returns the stored template for key, falling back to the built-in
// default. An unknown key with no stored value returns "".
func (s *settingsService) Template(ctx context.Context, key string) string {
	value, err := s.repo.Get(ctx, key)
	if err == nil && value != "" {
		return value
	}
	return defaultTemplates[key]
}

func (s *settingsService) Set(ctx context.Context, key, value string) error {
	return s.repo.Set(ctx, key, value)
}
