package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/kmuchiri/nyumba-api/internal/config"
	"github.com/kmuchiri/nyumba-api/internal/models"
	"github.com/kmuchiri/nyumba-api/internal/repository"
	"github.com/kmuchiri/nyumba-api/internal/sms"
	"github.com/kmuchiri/nyumba-api/pkg/logger"

	"github.com/resend/resend-go/v2"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

// Channel is one delivery transport for tenant notifications
type Channel interface {
	Name() string
	Send(ctx context.Context, tenant *models.Tenant, message string) error
}

// EmailChannel delivers notifications via Resend
type EmailChannel struct {
	config       *config.Config
	resendClient *resend.Client
}

// NewEmailChannel creates the email delivery channel
func NewEmailChannel(cfg *config.Config) *EmailChannel {
	return &EmailChannel{
		config:       cfg,
		resendClient: resend.NewClient(cfg.ResendAPIKey),
	}
}

func (c *EmailChannel) Name() string {
	return models.ChannelEmail
}

func (c *EmailChannel) Send(ctx context.Context, tenant *models.Tenant, message string) error {
	body, err := renderEmailTemplate("notification.html", struct {
		Name    string
		Message string
	}{
		Name:    tenant.FullName,
		Message: message,
	})
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    c.config.FromEmail,
		To:      []string{tenant.Email},
		Subject: "Notification from your property manager",
		Html:    body,
	}
	if _, err := c.resendClient.Emails.Send(params); err != nil {
		return fmt.Errorf("send email to %s: %w", tenant.Email, err)
	}
	return nil
}

func renderEmailTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}

// SMSChannel delivers notifications via the SMS gateway
type SMSChannel struct {
	client *sms.Client
}

// NewSMSChannel creates the SMS delivery channel
func NewSMSChannel(client *sms.Client) *SMSChannel {
	return &SMSChannel{client: client}
}

func (c *SMSChannel) Name() string {
	return models.ChannelSMS
}

func (c *SMSChannel) Send(ctx context.Context, tenant *models.Tenant, message string) error {
	return c.client.Send(ctx, tenant.Phone, message)
}

// DispatcherService fans a composed message out to every enabled channel and
// records each attempt in the notification log. A channel failure never
// affects the other channels and never propagates to the caller's business
// operation.
type DispatcherService struct {
	settings        SettingsProvider
	notificationLog repository.NotificationLogRepository
	email           Channel
	sms             Channel
	sendTimeout     time.Duration
}

// NewDispatcherService creates a dispatcher over the given channels
func NewDispatcherService(
	settings SettingsProvider,
	notificationLog repository.NotificationLogRepository,
	email Channel,
	smsChannel Channel,
	sendTimeout time.Duration,
) *DispatcherService {
	if sendTimeout <= 0 {
		sendTimeout = 15 * time.Second
	}
	return &DispatcherService{
		settings:        settings,
		notificationLog: notificationLog,
		email:           email,
		sms:             smsChannel,
		sendTimeout:     sendTimeout,
	}
}

// enabledChannels returns the channels this tenant can actually receive on:
// the transport must be switched on globally, the tenant must have opted in,
// and the required contact detail must be present.
func (d *DispatcherService) enabledChannels(ctx context.Context, tenant *models.Tenant) []Channel {
	var channels []Channel
	if d.sms != nil &&
		d.settings.GetBool(ctx, SettingEnableSMSNotifications, true) &&
		tenant.SMSOptIn && tenant.HasPhone() {
		channels = append(channels, d.sms)
	}
	if d.email != nil &&
		d.settings.GetBool(ctx, SettingEnableEmailNotifications, true) &&
		tenant.EmailOptIn && tenant.Email != "" {
		channels = append(channels, d.email)
	}
	return channels
}

// Dispatch sends message to the tenant on every enabled channel. It returns
// a per-channel result map (nil on success) and logs one audit row per
// attempt. A tenant with no enabled channels yields an empty map.
func (d *DispatcherService) Dispatch(ctx context.Context, tenant *models.Tenant, message, reference string) map[string]error {
	results := make(map[string]error)

	for _, channel := range d.enabledChannels(ctx, tenant) {
		sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
		err := channel.Send(sendCtx, tenant, message)
		cancel()

		results[channel.Name()] = err

		status := models.DeliveryStatusSent
		if err != nil {
			status = models.DeliveryStatusFailed
			logger.Error(fmt.Sprintf("[Dispatch] %s send failed for tenant %d: %v",
				channel.Name(), tenant.ID, err))
		}

		entry := &models.NotificationLog{
			TenantID: tenant.ID,
			Channel:  channel.Name(),
			Message:  message,
			Status:   status,
			SentAt:   time.Now(),
		}
		if reference != "" {
			ref := reference
			entry.Reference = &ref
		}
		if logErr := d.notificationLog.Create(ctx, entry); logErr != nil {
			logger.Error(fmt.Sprintf("[Dispatch] failed to record %s attempt for tenant %d: %v",
				channel.Name(), tenant.ID, logErr))
		}
	}

	return results
}
