package services

import (
	"time"

	"github.com/kmuchiri/nyumba-api/internal/config"
	"github.com/kmuchiri/nyumba-api/internal/jobs"
	"github.com/kmuchiri/nyumba-api/internal/repository"
	"github.com/kmuchiri/nyumba-api/internal/sms"
)

// Services holds all service instances
type Services struct {
	Settings       SettingsProvider
	Reconciliation *ReconciliationService
	Ingestion      *IngestionService
	Dispatcher     *DispatcherService
	Reminder       *ReminderService
	Lease          *LeaseService
	Export         *ExportService
}

// NewServices wires all service instances over the repositories
func NewServices(repos *repository.Repositories, cfg *config.Config, worker *jobs.Worker) *Services {
	settings := NewSettingsService(repos.Setting)

	smsClient := sms.NewClient(
		cfg.SMSGatewayURL,
		cfg.SMSGatewayKey,
		cfg.SMSSenderID,
		time.Duration(cfg.DispatchTimeoutSeconds)*time.Second,
	)

	dispatcher := NewDispatcherService(
		settings,
		repos.NotificationLog,
		NewEmailChannel(cfg),
		NewSMSChannel(smsClient),
		time.Duration(cfg.DispatchTimeoutSeconds)*time.Second,
	)

	reconciliation := NewReconciliationService(
		repos.Lease,
		repos.Invoice,
		repos.Payment,
		repos.Account,
	)

	ingestion := NewIngestionService(
		repos.Tenant,
		repos.Lease,
		repos.Payment,
		repos.NotificationLog,
		reconciliation,
		dispatcher,
		settings,
		worker,
	)

	reminder := NewReminderService(
		repos.Lease,
		repos.NotificationLog,
		reconciliation,
		dispatcher,
		settings,
	)

	return &Services{
		Settings:       settings,
		Reconciliation: reconciliation,
		Ingestion:      ingestion,
		Dispatcher:     dispatcher,
		Reminder:       reminder,
		Lease:          NewLeaseService(repos.Lease),
		Export:         NewExportService(repos.Account, repos.Payment),
	}
}
